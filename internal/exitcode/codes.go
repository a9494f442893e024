// Package exitcode defines structured exit codes for heapherd commands.
// Scripts wrapping heapherd can branch on these without parsing error text.
//
// Codes are grouped by category:
//   - 0: success
//   - 1-9: general errors (usage, internal)
//   - 10-19: missing resources (tools, sources, directories)
//   - 20-29: pipeline step failures (compile, spawn, capture)
package exitcode

import (
	"errors"
	"fmt"
)

const (
	// Success indicates the command completed successfully.
	Success = 0

	// ErrGeneral is a general or unknown error.
	ErrGeneral = 1
	// ErrUsage indicates invalid flags or arguments.
	ErrUsage = 2

	// ErrMissingTool indicates a required JDK tool (javac, java, jmap)
	// is not on PATH. This aborts a run before any work starts.
	ErrMissingTool = 10
	// ErrNoSources indicates no candidate programs were found.
	ErrNoSources = 11

	// ErrTargetsFailed indicates the run completed but one or more
	// targets ended in a failed or partial state.
	ErrTargetsFailed = 20
)

// CodedError carries a specific exit code alongside an error message.
type CodedError struct {
	ExitCode int
	Err      error
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// New creates a CodedError with the given code and message.
func New(code int, msg string) error {
	return &CodedError{ExitCode: code, Err: errors.New(msg)}
}

// Newf creates a CodedError with the given code and formatted message.
func Newf(code int, format string, args ...interface{}) error {
	return &CodedError{ExitCode: code, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches an exit code to an existing error.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &CodedError{ExitCode: code, Err: err}
}

// Code extracts the exit code from an error, unwrapping as needed.
// Returns ErrGeneral for non-coded errors and Success for nil.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.ExitCode
	}
	return ErrGeneral
}

// Is reports whether err carries the given exit code.
func Is(err error, code int) bool {
	return Code(err) == code
}
