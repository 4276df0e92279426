package session

import (
	"context"

	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// Mode-transition commands. SR Linux leaves candidate mode with "quit";
// commit and discard keep the session in candidate until then.
const (
	cmdEnterCandidate = "enter candidate"
	cmdCommitNow      = "commit now"
	cmdDiscardNow     = "discard now"
	cmdQuit           = "quit"
	cmdConfirmYes     = "y"
	cmdConfirmNo      = "n"
)

// EnterCandidate transitions Operational -> Candidate. On any mismatch the
// session is still assumed Operational; no partial state is kept.
func (s *Session) EnterCandidate(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.mode != terminal.ModeOperational {
		return &util.ModeTransitionError{From: s.mode.String(), To: terminal.ModeCandidate.String()}
	}

	resp, got, err := s.exchange(cmdEnterCandidate)
	if err != nil {
		return err
	}
	if got != terminal.ModeCandidate || resp.Failed() {
		return &util.ModeTransitionError{
			From:   terminal.ModeOperational.String(),
			To:     terminal.ModeCandidate.String(),
			Prompt: got.String(),
			Output: resp.Output,
		}
	}

	s.mode = terminal.ModeCandidate
	s.log.Debug("Entered candidate mode")
	return nil
}

// Commit sends the commit request from Candidate mode.
//
// Three outcomes: the device commits immediately (session returns to
// Operational, nil error), the device asks a yes/no question (session moves
// to CommitConfirm and the caller must ConfirmCommit or RejectCommit), or
// the device reports a validation error (CommandError; the session stays in
// Candidate and the caller is expected to Discard). The device reply text
// is returned for diagnostics.
func (s *Session) Commit(ctx context.Context) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.mode != terminal.ModeCandidate {
		return "", &util.ModeTransitionError{From: s.mode.String(), To: terminal.ModeOperational.String()}
	}

	resp, got, err := s.exchange(cmdCommitNow)
	if err != nil {
		return "", err
	}

	switch {
	case got == terminal.ModeCommitConfirm:
		s.mode = terminal.ModeCommitConfirm
		return resp.Output, nil
	case resp.Failed():
		// Commit rejected; still in candidate mode.
		return resp.Output, &util.CommandError{Index: 0, Command: cmdCommitNow, Output: resp.Output}
	case got == terminal.ModeCandidate:
		s.log.Info("Commit applied")
		return resp.Output, s.quit()
	default:
		return resp.Output, s.failUnexpected(got, terminal.ModeCandidate)
	}
}

// ConfirmCommit answers a pending confirmation question with yes, applying
// the commit, and returns the session to Operational.
func (s *Session) ConfirmCommit(ctx context.Context) (string, error) {
	return s.answerConfirm(ctx, cmdConfirmYes)
}

// RejectCommit answers a pending confirmation question with no. The commit
// is cancelled, the staged statements are discarded, and the session
// returns to Operational.
func (s *Session) RejectCommit(ctx context.Context) (string, error) {
	return s.answerConfirm(ctx, cmdConfirmNo)
}

func (s *Session) answerConfirm(ctx context.Context, answer string) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.mode != terminal.ModeCommitConfirm {
		return "", &util.ModeTransitionError{From: s.mode.String(), To: terminal.ModeOperational.String()}
	}

	resp, got, err := s.exchange(answer)
	if err != nil {
		return "", err
	}
	if got != terminal.ModeCandidate {
		return resp.Output, s.failUnexpected(got, terminal.ModeCandidate)
	}
	s.mode = terminal.ModeCandidate

	if answer == cmdConfirmNo {
		return resp.Output, s.Discard(ctx)
	}
	if resp.Failed() {
		return resp.Output, &util.CommandError{Index: 0, Command: answer, Output: resp.Output}
	}
	s.log.Info("Commit confirmed and applied")
	return resp.Output, s.quit()
}

// Discard drops all staged statements and returns the session to
// Operational. It is the recovery path invoked on validation failures and
// unexpected prompts; if discarding itself fails the session is marked
// unusable and SessionCorruptedError is returned.
func (s *Session) Discard(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.mode == terminal.ModeOperational {
		return nil
	}

	// A pending confirmation question must be answered before the
	// candidate datastore can be discarded.
	if s.mode == terminal.ModeCommitConfirm {
		resp, got, err := s.exchange(cmdConfirmNo)
		if err != nil {
			return util.NewSessionCorruptedError(s.ep.Host, err)
		}
		if got != terminal.ModeCandidate || resp.Failed() {
			s.corrupted = true
			return util.NewSessionCorruptedError(s.ep.Host, &util.ModeTransitionError{
				From: terminal.ModeCommitConfirm.String(), To: terminal.ModeCandidate.String(), Prompt: got.String(),
			})
		}
		s.mode = terminal.ModeCandidate
	}

	resp, got, err := s.exchange(cmdDiscardNow)
	if err != nil {
		return util.NewSessionCorruptedError(s.ep.Host, err)
	}
	if got != terminal.ModeCandidate || resp.Failed() {
		s.corrupted = true
		return util.NewSessionCorruptedError(s.ep.Host, &util.ModeTransitionError{
			From: terminal.ModeCandidate.String(), To: terminal.ModeOperational.String(), Prompt: got.String(), Output: resp.Output,
		})
	}

	if err := s.quit(); err != nil {
		return util.NewSessionCorruptedError(s.ep.Host, err)
	}
	s.log.Debug("Candidate discarded")
	return nil
}

// quit leaves candidate mode for operational.
func (s *Session) quit() error {
	resp, got, err := s.exchange(cmdQuit)
	if err != nil {
		return err
	}
	if got != terminal.ModeOperational || resp.Failed() {
		s.corrupted = true
		return util.NewSessionCorruptedError(s.ep.Host, &util.ModeTransitionError{
			From: terminal.ModeCandidate.String(), To: terminal.ModeOperational.String(), Prompt: got.String(), Output: resp.Output,
		})
	}
	s.mode = terminal.ModeOperational
	return nil
}

// failUnexpected records the observed mode and runs the discard path before
// surfacing a ModeTransitionError, so the session never stays parked in a
// non-terminal mode.
func (s *Session) failUnexpected(observed, expected terminal.Mode) error {
	s.mode = observed
	mtErr := &util.ModeTransitionError{From: expected.String(), To: observed.String(), Prompt: observed.String()}
	if observed == terminal.ModeOperational {
		return mtErr
	}
	if err := s.Discard(context.Background()); err != nil {
		return err
	}
	return mtErr
}
