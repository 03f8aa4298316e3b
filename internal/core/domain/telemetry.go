package domain

import "strings"

// VertexStatus is the outcome of a unit of work such as a stage or a single artifact.
type VertexStatus string

const (
	// VertexStatusPending means the work has not started.
	VertexStatusPending VertexStatus = "pending"
	// VertexStatusRunning means the work is in progress.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted means something was fetched or written.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed means the work aborted with an error.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached means everything was reused from the previous build.
	VertexStatusCached VertexStatus = "cached"
	// VertexStatusSkipped means the stage was skipped on request.
	VertexStatusSkipped VertexStatus = "skipped"
)

// IsTerminal reports whether the status is final.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached, VertexStatusSkipped:
		return true
	default:
		return false
	}
}

// NormalizeVertexStatus converts a string to a VertexStatus, defaulting to pending.
func NormalizeVertexStatus(s string) VertexStatus {
	switch VertexStatus(strings.ToLower(s)) {
	case VertexStatusRunning:
		return VertexStatusRunning
	case VertexStatusCompleted:
		return VertexStatusCompleted
	case VertexStatusFailed:
		return VertexStatusFailed
	case VertexStatusCached:
		return VertexStatusCached
	case VertexStatusSkipped:
		return VertexStatusSkipped
	default:
		return VertexStatusPending
	}
}

// LogLevel mirrors the slog levels for messages attached to a vertex.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
