package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripControl(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "show version\n", "show version\n"},
		{"color codes", "\x1b[0;32mup\x1b[0m", "up"},
		{"cursor visibility", "\x1b[?25lbusy\x1b[?25h", "busy"},
		{"bracketed paste guard", "\x1b[?2004hA:leaf1#\x1b[?2004l", "A:leaf1#"},
		{"osc title", "\x1b]0;leaf1\x07output", "output"},
		{"keypad and charset", "\x1b=\x1b(Btext\x1b>", "text"},
		{"crlf normalized", "line one\r\nline two\r\n", "line one\nline two\n"},
		{"bare cr", "spinner\rdone", "spinner\ndone"},
		{"stray control bytes", "a\x00b\x07c", "abc"},
		{"tabs survive", "col1\tcol2", "col1\tcol2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(StripControl([]byte(tt.in))))
		})
	}
}

// Control-sequence noise wrapped around a valid prompt must strip down to
// exactly the noise-free form.
func TestStripControlPromptRoundTrip(t *testing.T) {
	clean := "--{ running }--[  ]--\nA:leaf1#"
	noisy := "\x1b[?2004h\x1b[0m--{ running }--[  ]--\r\n\x1b[1mA:leaf1#\x1b[0m\x1b[?25h"
	assert.Equal(t, clean, string(StripControl([]byte(noisy))))
}
