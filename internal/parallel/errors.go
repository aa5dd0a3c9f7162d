// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parallel

import "fmt"

// The client distinguishes four terminal error kinds. ConfigurationError and
// MalformedResponse are detected locally and never originate from the network
// path; TransportError and RemoteError only ever come out of it. There is no
// retry or recovery at this layer beyond the 429/503 backoff in httputil.

// ConfigurationError reports an invalid combination of flags or fields,
// detected before any network call is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Configf returns a ConfigurationError with a formatted reason.
func Configf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError reports a network or connectivity failure reaching the
// service. It is surfaced verbatim, not retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a well-formed error response from the service, e.g.
// an invalid credential, a rate limit, or malformed task input.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error (HTTP %d, %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote error (HTTP %d): %s", e.Status, e.Message)
}

// MalformedResponse reports a success response whose body cannot be
// normalized, e.g. missing required top-level keys. No partial data is
// returned alongside it.
type MalformedResponse struct {
	Reason string
}

func (e *MalformedResponse) Error() string {
	return "malformed response: " + e.Reason
}

// Malformedf returns a MalformedResponse with a formatted reason.
func Malformedf(format string, args ...any) error {
	return &MalformedResponse{Reason: fmt.Sprintf(format, args...)}
}
