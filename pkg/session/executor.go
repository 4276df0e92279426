package session

import (
	"context"

	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// Run executes a read-only command batch in Operational mode and returns
// one CommandResult per command, positionally aligned with the input.
//
// Policy on failures: execution continues past a failing command, so every
// command in the batch is sent and its output captured, and the returned
// CommandError names the first failing index. Read-only commands cannot
// corrupt device state, so capturing the rest of the batch keeps results
// aligned for the caller.
func (s *Session) Run(ctx context.Context, commands []string) ([]CommandResult, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.mode != terminal.ModeOperational {
		return nil, util.ErrNotOperational
	}

	results := make([]CommandResult, 0, len(commands))
	firstFail := -1

	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		resp, got, err := s.exchange(cmd)
		if err != nil {
			return results, err
		}
		if got != terminal.ModeOperational {
			// A read-only command dropped us into another mode: recover
			// via the discard path, then surface the mismatch.
			return results, s.failUnexpected(got, terminal.ModeOperational)
		}

		failed := resp.Failed()
		results = append(results, CommandResult{Command: cmd, Output: resp.Output, Failed: failed})
		if failed && firstFail < 0 {
			firstFail = i
		}
	}

	if firstFail >= 0 {
		return results, &util.CommandError{
			Index:   firstFail,
			Command: results[firstFail].Command,
			Output:  results[firstFail].Output,
		}
	}
	return results, nil
}

// SendConfig executes configuration statements in Candidate mode.
//
// Unlike Run, this is fail-fast: statements after a rejected one are not
// sent, because the whole candidate is about to be discarded and device-side
// validation may cascade misleading errors off the first one. The failing
// statement's result is included; the CommandError index points at it.
func (s *Session) SendConfig(ctx context.Context, lines []string) ([]CommandResult, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.mode != terminal.ModeCandidate {
		return nil, &util.ModeTransitionError{From: s.mode.String(), To: terminal.ModeCandidate.String()}
	}

	results := make([]CommandResult, 0, len(lines))

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		resp, got, err := s.exchange(line)
		if err != nil {
			return results, err
		}
		if got != terminal.ModeCandidate {
			return results, s.failUnexpected(got, terminal.ModeCandidate)
		}

		failed := resp.Failed()
		results = append(results, CommandResult{Command: line, Output: resp.Output, Failed: failed})
		if failed {
			return results, &util.CommandError{Index: i, Command: line, Output: resp.Output}
		}
	}

	return results, nil
}
