// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package task builds task-run requests, submits them to the task endpoint,
// polls runs to completion, and normalizes the results. The deep-research
// work happens service-side; this package only translates intents into
// payloads and responses into results.
package task

import (
	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// maxMCPServers is the service's hard cap on auxiliary tool-server
// descriptors per request.
const maxMCPServers = 10

// Request describes a task before it is submitted. Fill it in from CLI flags
// and call Build to validate and produce the wire form.
type Request struct {
	// Input is the free-text question or report topic (plain and report
	// modes).
	Input string

	// EnrichInput holds the entity's key=value input pairs (enrich mode).
	// EnrichKeys preserves the order the caller supplied them in.
	EnrichInput map[string]string
	EnrichKeys  []string

	// Mode selects plain Q&A, structured enrichment, or a markdown report.
	Mode types.TaskMode

	// Processor is the requested tier. Empty means the mode default:
	// core for plain and enrich, ultra for report.
	Processor types.Processor

	// OutputFields names the fields to extract in enrich mode.
	OutputFields []string

	// SourcePolicy optionally restricts source domains.
	SourcePolicy types.SourcePolicy

	// AuthSession and MCPServers are mutually exclusive representations
	// of authenticated source access.
	AuthSession *types.AuthSession
	MCPServers  []types.MCPServer
}

// Payload is the wire form of a task-run creation request.
type Payload struct {
	Input        any                 `json:"input"`
	Processor    types.Processor     `json:"processor"`
	TaskSpec     *taskSpec           `json:"task_spec,omitempty"`
	SourcePolicy *types.SourcePolicy `json:"source_policy,omitempty"`
	AuthSession  *types.AuthSession  `json:"auth_session,omitempty"`
	MCPServers   []types.MCPServer   `json:"mcp_servers,omitempty"`
}

// Built pairs the validated payload with the extra request headers it needs.
type Built struct {
	Payload Payload

	// Headers carries the beta opt-in header for authenticated requests.
	Headers map[string]string
}

// Build validates the request and produces the wire form. Every invalid
// combination is caught here, before any network call:
//
//   - enrich mode with no input pairs or no output fields
//   - plain or report mode with an empty input
//   - both an auth session and MCP servers
//   - more than 10 MCP servers
//   - an unknown processor tier
//
// Authenticated requests (auth session or MCP servers) are silently upgraded
// to the ultra processor, even when a lower tier was requested explicitly,
// and carry the beta opt-in header.
func (r Request) Build() (Built, error) {
	if r.AuthSession != nil && len(r.MCPServers) > 0 {
		return Built{}, parallel.Configf("auth-session and mcp-servers are mutually exclusive; supply one or the other")
	}
	if len(r.MCPServers) > maxMCPServers {
		return Built{}, parallel.Configf("at most %d mcp servers are allowed, got %d", maxMCPServers, len(r.MCPServers))
	}
	if r.Processor != "" && !r.Processor.Valid() {
		return Built{}, parallel.Configf("unknown processor %q (want base, core, or ultra)", r.Processor)
	}

	p := Payload{Processor: r.Processor}

	switch r.Mode {
	case types.ModePlain:
		if r.Input == "" {
			return Built{}, parallel.Configf("plain mode requires a query")
		}
		p.Input = r.Input
		if p.Processor == "" {
			p.Processor = types.ProcessorCore
		}

	case types.ModeEnrich:
		if len(r.EnrichInput) == 0 {
			return Built{}, parallel.Configf("enrich mode requires key=value input pairs")
		}
		if len(r.OutputFields) == 0 {
			return Built{}, parallel.Configf("enrich mode requires output fields")
		}
		p.Input = r.EnrichInput
		p.TaskSpec = buildEnrichSpec(r.EnrichKeys, r.OutputFields)
		if p.Processor == "" {
			p.Processor = types.ProcessorCore
		}

	case types.ModeReport:
		if r.Input == "" {
			return Built{}, parallel.Configf("report mode requires a query")
		}
		p.Input = r.Input
		p.TaskSpec = &taskSpec{OutputSchema: textSchema{Type: "text"}}
		if p.Processor == "" {
			p.Processor = types.ProcessorUltra
		}

	default:
		return Built{}, parallel.Configf("unknown task mode %q", r.Mode)
	}

	if !r.SourcePolicy.IsZero() {
		sp := r.SourcePolicy
		p.SourcePolicy = &sp
	}

	built := Built{Payload: p}
	if r.AuthSession != nil || len(r.MCPServers) > 0 {
		p.AuthSession = r.AuthSession
		p.MCPServers = r.MCPServers
		// Authenticated extraction only runs on the deep tier.
		p.Processor = types.ProcessorUltra
		built.Payload = p
		built.Headers = map[string]string{parallel.BetaHeader: parallel.BetaMCPServers}
	}
	return built, nil
}
