package terminal

import (
	"strings"
	"time"

	"github.com/srlinux-automation/srlcli/pkg/transport"
)

// Response is one framed command exchange: the output with echo and prompt
// removed, and the prompt text that terminated it.
type Response struct {
	Output string
	Prompt string
}

// Failed reports whether the response carries a device error marker.
func (r Response) Failed() bool {
	return HasErrorMarker(r.Output)
}

// Reader is a pull-based lexer over a transport channel: each call blocks
// until one complete response (output terminated by a prompt) has arrived.
type Reader struct {
	ch transport.Channel
}

// NewReader wraps a channel.
func NewReader(ch transport.Channel) *Reader {
	return &Reader{ch: ch}
}

// ReadResponse collects output until a prompt of any mode terminates it,
// then reports the framed response and the observed prompt mode. Callers
// compare the observed mode against what they expect; an unexpected prompt
// is their cue to recover.
func (r *Reader) ReadResponse(command string, timeout time.Duration) (Response, Mode, error) {
	raw, err := r.ch.ReadUntil(func(b []byte) bool {
		return IsAnyPrompt(StripControl(b))
	}, timeout)
	if err != nil {
		return Response{}, ModeOperational, err
	}

	clean := StripControl(raw)
	mode, _ := Classify(clean)
	return Frame(clean, command), mode, nil
}

// Drain waits for a prompt with no preceding command, discarding whatever
// arrives before it (login banner, MOTD). Used once after connecting.
func (r *Reader) Drain(timeout time.Duration) (Mode, error) {
	_, mode, err := r.ReadResponse("", timeout)
	return mode, err
}

// Frame splits a stripped buffer into output and terminating prompt.
// The echo of the sent command, if present as the first line, is discarded;
// the trailing prompt block (context banner + input line, or confirmation
// question) is captured separately.
func Frame(clean []byte, command string) Response {
	lines := strings.Split(string(clean), "\n")

	// Peel the prompt block off the end.
	var promptParts []string
	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last >= 0 {
		tail := strings.TrimSpace(lines[last])
		if confirmRe.MatchString(tail) {
			promptParts = []string{tail}
			last--
		} else if promptLineRe.MatchString(tail) {
			promptParts = []string{tail}
			last--
			for last >= 0 && strings.TrimSpace(lines[last]) == "" {
				last--
			}
			if last >= 0 && contextLineRe.MatchString(strings.TrimSpace(lines[last])) {
				promptParts = append([]string{strings.TrimSpace(lines[last])}, promptParts...)
				last--
			}
		}
	}
	body := lines[:last+1]

	// Drop the command echo. A PTY echoes the sent line back before the
	// output; it may arrive glued to the previous prompt remnant.
	if command != "" && len(body) > 0 && isEcho(strings.TrimSpace(body[0]), command) {
		body = body[1:]
	}

	return Response{
		Output: strings.TrimRight(strings.TrimLeft(strings.Join(body, "\n"), "\n"), " \n"),
		Prompt: strings.Join(promptParts, "\n"),
	}
}

// isEcho reports whether a line is the PTY echo of the sent command: the
// command itself, or the command glued behind a prompt remnant such as
// "A:leaf1# ". A genuine output line that merely ends with the command
// text is not an echo and must be kept.
func isEcho(line, command string) bool {
	if line == command {
		return true
	}
	if !strings.HasSuffix(line, command) {
		return false
	}
	remnant := strings.TrimSpace(strings.TrimSuffix(line, command))
	return strings.HasSuffix(remnant, "#")
}
