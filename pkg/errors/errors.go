// Package errors defines the error types used throughout the collector.
package errors

import (
	"fmt"
	"strings"
)

// ConfigError indicates a problem with startup configuration, most commonly a
// missing or unreadable credential file. It is fatal: the process cannot start
// without credentials.
type ConfigError struct {
	// Path is the credential or config file that was expected.
	Path string
	// WorkingDir is the directory the process was started from, included so a
	// misplaced file can be diagnosed without re-running.
	WorkingDir string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ConfigError) Error() string {
	var parts []string
	parts = append(parts, "config error")

	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("file %q", e.Path))
	}
	if e.WorkingDir != "" {
		parts = append(parts, fmt.Sprintf("working directory %q", e.WorkingDir))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("err: %v", e.Err))
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ": " + strings.Join(parts[1:], ", ")
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError indicates the token exchange failed. It is fatal to the whole
// session: there is no retry, a fresh client must be constructed.
type AuthError struct {
	// StatusCode is the HTTP status code (if from an HTTP response)
	StatusCode int
	// Body contains the raw response body from the server, which may hold more details.
	Body string
	// Err is the underlying error, e.g. a network or JSON parsing error.
	Err error
}

func (e *AuthError) Error() string {
	var sb strings.Builder
	sb.WriteString("auth error")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError indicates an endpoint call did not succeed. The executor does
// not retry; the error propagates to the caller with enough context (URL,
// status, raw body) to diagnose without re-running.
type RequestError struct {
	// URL is the full query URL that was attempted.
	URL string
	// StatusCode is the HTTP status code, 0 when the request never completed.
	StatusCode int
	// Body contains the raw response body (if available)
	Body string
	// Err contains the underlying error if available
	Err error
}

func (e *RequestError) Error() string {
	var sb strings.Builder
	sb.WriteString("request error")

	if e.URL != "" {
		fmt.Fprintf(&sb, " for %s", e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, ": status code %d", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ", body: %q", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ", err: %v", e.Err)
	}

	return sb.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

// ProtocolError indicates the API returned a response whose shape contradicts
// the documented contract (for example a comment response that is not exactly
// two top-level elements). It signals an upstream API change and is fatal to
// the operation.
type ProtocolError struct {
	// Operation is the name of the operation whose response was malformed.
	Operation string
	// Message contains the detailed error message
	Message string
	// Err contains the underlying error if available
	Err error
}

func (e *ProtocolError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Operation != "" {
		return fmt.Sprintf("protocol error during %s: %s", e.Operation, msg)
	}
	return fmt.Sprintf("protocol error: %s", msg)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
