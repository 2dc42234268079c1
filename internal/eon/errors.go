package eon

import "fmt"

// ConfigError wraps a fatal configuration problem detected at scenario
// load time (bad scenario, unknown policy id, empty graph). Never
// recovered from within a run.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("eon: configuration error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("eon: configuration error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErrorf(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}

// InvariantError reports a violated runtime invariant (release of slots
// not held, path referencing an unknown node, negative time). The
// simulator aborts the run rather than produce untrusted metrics.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("eon: invariant violation: %s", e.Reason)
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
