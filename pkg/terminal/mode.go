// Package terminal turns the raw byte stream of an SR Linux interactive
// shell into framed command responses. It strips terminal control
// sequences, recognizes the mode-dependent prompt forms, and separates a
// command's output from its echo and from the prompt that terminates it.
package terminal

// Mode is the device's interactive CLI mode. It is tracked explicitly by
// the session and passed into prompt matching; it is never inferred from
// call history.
type Mode int

const (
	// ModeOperational is the initial and terminal mode; read-only commands
	// run here against the running datastore.
	ModeOperational Mode = iota
	// ModeCandidate is the staged-configuration mode entered with
	// "enter candidate"; statements accumulate uncommitted.
	ModeCandidate
	// ModeCommitConfirm means the device has asked a yes/no question after a
	// commit request and is waiting for the answer.
	ModeCommitConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeOperational:
		return "operational"
	case ModeCandidate:
		return "candidate"
	case ModeCommitConfirm:
		return "commit-confirm"
	default:
		return "unknown"
	}
}
