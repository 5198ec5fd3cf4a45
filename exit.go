// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
)

// Status is the result of dispatching a command line. Values zero and
// above are exit codes and are returned to the caller verbatim. The
// single negative value, NoAction, reports that parsing finished
// without running an action.
type Status int

// NoAction is returned by Parse when option parsing already produced
// the requested output (for example --help) and no command action ran.
// It is distinct from every exit code; ExitCode normalizes it to 0 at
// the process boundary. No other status value is coerced.
const NoAction Status = -1

// StatusFailed is the canonical status carried by Failed, the generic
// error-exit signal.
const StatusFailed Status = 3

// ExitCode converts a Status to a process exit code. NoAction maps to
// 0; everything else passes through unchanged.
func (s Status) ExitCode() int {
	if s == NoAction {
		return 0
	}
	return int(s)
}

// An ExitError is an expected control-flow signal from a command
// action: the command is done and the invocation should finish with
// Status. The dispatcher consumes it — it never escapes Parse. If
// Message is non-empty it is written to the command's standard error
// channel, or to standard output when Success is set.
//
// Commands with a valid non-zero outcome (a failed check, a missing
// resource) return an ExitError instead of a bare status so the
// explanation lands on the right channel.
type ExitError struct {
	Status  Status
	Message string

	// Success routes Message to standard output instead of standard
	// error. Set by ExitOK.
	Success bool
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Status)
}

// ExitCode returns the signaled exit code.
func (e *ExitError) ExitCode() int { return e.Status.ExitCode() }

// ExitOK signals a clean exit with status 0. The message, if any, goes
// to standard output.
func ExitOK(message string) *ExitError {
	return &ExitError{Status: 0, Message: message, Success: true}
}

// Exited signals an expected exit with an explicit status. The
// message, if any, goes to standard error.
func Exited(status Status, message string) *ExitError {
	return &ExitError{Status: status, Message: message}
}

// Failed signals an error exit with the canonical failure status. The
// message, if any, goes to standard error.
func Failed(message string) *ExitError {
	return &ExitError{Status: StatusFailed, Message: message}
}

// ErrNotImplemented marks a command that is declared in the tree but
// has no action yet. The dispatcher reports it as a usage problem
// (status 1) rather than a fault. Using a shared sentinel keeps the
// wording consistent and makes unfinished commands easy to grep for.
var ErrNotImplemented = errors.New("command not implemented")
