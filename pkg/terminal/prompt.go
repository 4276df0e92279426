package terminal

import (
	"regexp"
	"strings"
)

// SR Linux prompts are two lines: a context banner naming the datastore,
// then the actual input line.
//
//	--{ running }--[  ]--
//	A:leaf1#
//
// In candidate mode the banner reads "candidate shared default" (with a
// leading "*" once uncommitted changes exist). Commit confirmation is a
// one-line yes/no question instead.
var (
	contextLineRe = regexp.MustCompile(`^--\{.*\}--\[.*\]--$`)
	promptLineRe  = regexp.MustCompile(`^[A-D]:\S+#$`)
	confirmRe     = regexp.MustCompile(`(?i)\[y/n\]\s*[:?]?$`)
)

// Classify reports the prompt kind terminating the buffer, if any. A prompt
// is only accepted anchored at the end of the (stripped) buffer: the last
// non-blank line must be the input line or the confirmation question, and
// an input line must be preceded by the context banner. Prompt look-alikes
// quoted inside command output are followed by more output and therefore
// never sit at the buffer end.
func Classify(clean []byte) (Mode, bool) {
	lines := strings.Split(string(clean), "\n")

	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 0 {
		return ModeOperational, false
	}

	tail := strings.TrimSpace(lines[last])
	if confirmRe.MatchString(tail) {
		return ModeCommitConfirm, true
	}
	if !promptLineRe.MatchString(tail) {
		return ModeOperational, false
	}

	prev := last - 1
	for prev >= 0 && strings.TrimSpace(lines[prev]) == "" {
		prev--
	}
	if prev < 0 || !contextLineRe.MatchString(strings.TrimSpace(lines[prev])) {
		return ModeOperational, false
	}

	if strings.Contains(lines[prev], "candidate") {
		return ModeCandidate, true
	}
	return ModeOperational, true
}

// IsPrompt reports whether the buffer ends in a prompt for the given mode.
func IsPrompt(clean []byte, mode Mode) bool {
	got, ok := Classify(clean)
	return ok && got == mode
}

// IsAnyPrompt reports whether the buffer ends in a prompt of any mode.
func IsAnyPrompt(clean []byte) bool {
	_, ok := Classify(clean)
	return ok
}

// HasErrorMarker reports whether framed command output carries a device
// error. SR Linux flags rejected input with "Error:" lines; older releases
// answer some malformed paths with "invalid" messages instead.
func HasErrorMarker(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "error") || strings.Contains(lower, "invalid")
}
