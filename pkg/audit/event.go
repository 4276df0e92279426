// Package audit provides audit logging for device configuration changes.
package audit

import (
	"fmt"
	"time"
)

// Event represents one auditable device operation: a configuration
// transaction, a backup, or a command batch.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Device    string    `json:"device"`
	Operation string    `json:"operation"`
	// Statements are the configuration lines sent (apply operations).
	Statements []string `json:"statements,omitempty"`
	// Status is the tri-state outcome: ok, changed, or failed.
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	CheckRun bool          `json:"check_run,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Device      string
	User        string
	Operation   string
	Status      string
	StartTime   time.Time
	EndTime     time.Time
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, device, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Operation: operation,
	}
}

// WithStatements records the configuration lines sent
func (e *Event) WithStatements(statements []string) *Event {
	e.Statements = statements
	return e
}

// WithStatus records the operation outcome
func (e *Event) WithStatus(status string) *Event {
	e.Status = status
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Status = "failed"
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithCheckRun marks the event as a dry run
func (e *Event) WithCheckRun(check bool) *Event {
	e.CheckRun = check
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// Failed reports whether the operation failed
func (e *Event) Failed() bool {
	return e.Status == "failed"
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
