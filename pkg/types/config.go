// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "parallel-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// TaskConfig holds settings for the task command.
type TaskConfig struct {
	// PollInterval is the delay between status polls (default 2s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// PollTimeout bounds how long to wait for a run to reach a terminal
	// state (default 5m).
	PollTimeout time.Duration `json:"poll_timeout" yaml:"poll_timeout"`
}

// RunLogConfig holds settings for the local run journal.
type RunLogConfig struct {
	// Dir is the base directory for the journal (contains index/runs.db).
	Dir string `json:"dir" yaml:"dir"`
}
