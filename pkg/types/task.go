// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Processor is a named quality/latency tier for the task endpoint.
type Processor string

const (
	ProcessorBase  Processor = "base"
	ProcessorCore  Processor = "core"
	ProcessorUltra Processor = "ultra"
)

// Valid reports whether p is one of the known tiers.
func (p Processor) Valid() bool {
	switch p {
	case ProcessorBase, ProcessorCore, ProcessorUltra:
		return true
	}
	return false
}

// TaskMode selects what kind of task output is requested.
type TaskMode string

const (
	// ModePlain asks a free-text question and accepts whatever output
	// shape the service chooses.
	ModePlain TaskMode = "plain"

	// ModeEnrich requests structured extraction of named output fields
	// for an entity described by key=value input pairs.
	ModeEnrich TaskMode = "enrich"

	// ModeReport requests a markdown report with citations.
	ModeReport TaskMode = "report"
)

// Run status values reported by the task endpoint.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Citation is one supporting source for a basis entry.
type Citation struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	URL   string `json:"url" yaml:"url"`
}

// Basis carries the citations, reasoning trace, and confidence the service
// attaches to a task output field (or, for reports, to a span or claim key
// of the service's choosing; the client preserves whatever key it sent).
type Basis struct {
	Field      string     `json:"field" yaml:"field"`
	Reasoning  string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Confidence string     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Citations  []Citation `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// TaskResult is the normalized form of a completed task run. Exactly one of
// Fields and Report is populated, determined by the shape the service
// actually returned, not by the shape the request asked for.
type TaskResult struct {
	// RunID is the service-assigned run identifier.
	RunID string `json:"run_id" yaml:"run_id"`

	// Status is the terminal run status ("completed").
	Status string `json:"status" yaml:"status"`

	// Processor is the tier the run executed on.
	Processor Processor `json:"processor" yaml:"processor"`

	// Fields holds structured output when the service returned a JSON
	// object; nil otherwise.
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`

	// Report holds the markdown text when the service returned a text
	// blob; empty otherwise.
	Report string `json:"report,omitempty" yaml:"report,omitempty"`

	// Basis annotates the output, aligned by field name for structured
	// content.
	Basis []Basis `json:"basis,omitempty" yaml:"basis,omitempty"`
}

// RunInfo is the submission/status record for a task run, before or without
// a fetched result.
type RunInfo struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Status    string    `json:"status" yaml:"status"`
	Processor Processor `json:"processor" yaml:"processor"`
	CreatedAt string    `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// FailureCode and FailureMessage carry the service's error for runs
	// that reached the failed state.
	FailureCode    string `json:"failure_code,omitempty" yaml:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty" yaml:"failure_message,omitempty"`
}

// Terminal reports whether the run has reached a final state.
func (r RunInfo) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// MCPServer describes an auxiliary tool endpoint the task service may call
// during execution, e.g. a browser-automation proxy supplying authenticated
// page access.
type MCPServer struct {
	Type    string            `json:"type" yaml:"type"`
	URL     string            `json:"url" yaml:"url"`
	Name    string            `json:"name" yaml:"name"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// SessionCookie is one cookie of a saved login session.
type SessionCookie struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Domain string `json:"domain" yaml:"domain"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// AuthSession is the direct cookie-injection representation of authenticated
// source access. It is the legacy alternative to an MCP browser proxy; a
// request may carry one or the other, never both.
type AuthSession struct {
	Cookies []SessionCookie `json:"cookies" yaml:"cookies"`
}
