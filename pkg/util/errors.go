package util

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the protocol engine. Typed errors below unwrap to
// these so callers can classify failures with errors.Is.
var (
	ErrConnect          = errors.New("connection failed")
	ErrTimeout          = errors.New("timed out waiting for device output")
	ErrModeTransition   = errors.New("mode transition failed")
	ErrCommand          = errors.New("device reported a command error")
	ErrSessionCorrupted = errors.New("session corrupted")
	ErrNotOperational   = errors.New("session not in operational mode")
)

// ConnectError reports a failure to establish the transport connection.
type ConnectError struct {
	Host  string
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Host, e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return ErrConnect
}

// NewConnectError creates a connect error
func NewConnectError(host string, cause error) *ConnectError {
	return &ConnectError{Host: host, Cause: cause}
}

// TimeoutError reports a deadline that elapsed while waiting for expected
// output. Device state afterward is unknown; the session must not be reused
// for further transactions.
type TimeoutError struct {
	Op     string
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no expected output within %s", e.Op, e.Waited)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(op string, waited time.Duration) *TimeoutError {
	return &TimeoutError{Op: op, Waited: waited}
}

// ModeTransitionError reports that an expected mode-change prompt did not
// appear. Prompt holds the prompt actually observed, Output any device text
// captured with it.
type ModeTransitionError struct {
	From   string
	To     string
	Prompt string
	Output string
}

func (e *ModeTransitionError) Error() string {
	msg := fmt.Sprintf("mode transition %s -> %s failed", e.From, e.To)
	if e.Prompt != "" {
		msg += fmt.Sprintf(" (device at %s prompt)", e.Prompt)
	}
	return msg
}

func (e *ModeTransitionError) Unwrap() error {
	return ErrModeTransition
}

// CommandError reports a device-side error marker for a specific command in
// a batch. Index is the zero-based position of the first failing command.
// Results prior to (and, under the continue policy, after) the failure are
// still returned by the caller alongside this error.
type CommandError struct {
	Index   int
	Command string
	Output  string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s) failed: %s", e.Index, e.Command, e.Output)
}

func (e *CommandError) Unwrap() error {
	return ErrCommand
}

// SessionCorruptedError reports that recovery itself failed. The session
// must be discarded and reopened by the caller; it is never reused.
type SessionCorruptedError struct {
	Device string
	Cause  error
}

func (e *SessionCorruptedError) Error() string {
	return fmt.Sprintf("session to %s corrupted: %v", e.Device, e.Cause)
}

func (e *SessionCorruptedError) Unwrap() error {
	return ErrSessionCorrupted
}

// NewSessionCorruptedError creates a session-corrupted error
func NewSessionCorruptedError(device string, cause error) *SessionCorruptedError {
	return &SessionCorruptedError{Device: device, Cause: cause}
}
