package terminal

import (
	"bytes"
	"regexp"
)

// The SR Linux CLI decorates its output heavily: cursor control, bracketed
// paste guards, keypad mode switches. All of it has to go before any
// pattern matching, or a prompt wrapped in color codes is missed.
var (
	// CSI sequences: cursor movement, colors, clear-line, private modes
	// like [?2004h / [?25l.
	csiRe = regexp.MustCompile(`\x1b\[\??[0-9;]*[a-zA-Z]`)
	// OSC sequences (terminal title changes), BEL-terminated.
	oscRe = regexp.MustCompile(`\x1b\].*?\x07`)
	// Keypad application/numeric mode: ESC= and ESC>.
	keypadRe = regexp.MustCompile(`\x1b[=>]`)
	// Character set selection: ESC( followed by a designator.
	charsetRe = regexp.MustCompile(`\x1b\([0-9;]*[a-zA-Z]`)
	// Remaining C0 control characters except newline and tab.
	ctrlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
)

// StripControl removes terminal control sequences and normalizes line
// endings to \n. The result is plain text safe for prompt matching.
func StripControl(raw []byte) []byte {
	b := csiRe.ReplaceAll(raw, nil)
	b = oscRe.ReplaceAll(b, nil)
	b = keypadRe.ReplaceAll(b, nil)
	b = charsetRe.ReplaceAll(b, nil)
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return ctrlRe.ReplaceAll(b, nil)
}
