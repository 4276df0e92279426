package config

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/srlinux-automation/srlcli/pkg/session"
	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// Status is the tri-state transaction result. Callers distinguish "nothing
// to do" from "change applied" from "failed" to drive their own retry and
// verification logic.
type Status string

const (
	// StatusUnchanged means every statement already held; the session never
	// left operational mode.
	StatusUnchanged Status = "unchanged"
	// StatusCommitted means a delta existed and was committed.
	StatusCommitted Status = "committed"
	// StatusRolledBack means the device rejected part of the change and the
	// candidate was discarded; the running datastore is untouched.
	StatusRolledBack Status = "rolled-back"
)

// Outcome describes one transaction attempt. It is never partially
// populated: a committed outcome committed everything that was pending,
// a rolled-back outcome left the device as it was.
type Outcome struct {
	Status Status `json:"status"`
	// Applied holds the per-statement results for the pending statements
	// that were sent, aligned with Pending.
	Applied []session.CommandResult `json:"applied,omitempty"`
	// Pending lists the statements that were not yet satisfied by the
	// running config and therefore had to be sent.
	Pending []string `json:"pending,omitempty"`
	// Diff is the device-rendered diff captured before commit.
	Diff string `json:"diff,omitempty"`
	// Diagnostic carries the literal device error text on rollback.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Changed reports whether the device was modified.
func (o *Outcome) Changed() bool {
	return o.Status == StatusCommitted
}

// Plan reports which statements the running datastore does not yet
// satisfy, in change-set order. Read-only; this is also the check-mode
// answer to "what would Apply send".
func Plan(ctx context.Context, sess *session.Session, cs ChangeSet) ([]string, error) {
	rc, err := fetchRunning(ctx, sess)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, st := range cs.Statements() {
		if !rc.satisfied(st) {
			lines = append(lines, st.Line())
		}
	}
	return lines, nil
}

// Apply drives one configuration transaction: idempotency check, candidate
// entry, ordered statement send, commit (answering a confirmation question
// if the device asks one), with the discard path on any device-reported
// failure.
//
// Device-side rejections produce a StatusRolledBack outcome with a nil
// error; an error return means the transaction could not be driven at all
// (transport, timeout, corrupted session) and the caller must reconnect and
// re-verify device state before any retry. Retrying a commit blindly is
// never safe and nothing here does it.
func Apply(ctx context.Context, sess *session.Session, cs ChangeSet) (*Outcome, error) {
	log := util.WithDevice(sess.Device())

	lines, err := Plan(ctx, sess, cs)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		log.Debug("Change set already satisfied")
		return &Outcome{Status: StatusUnchanged}, nil
	}

	if err := sess.EnterCandidate(ctx); err != nil {
		return nil, err
	}

	applied, err := sess.SendConfig(ctx, lines)
	if err != nil {
		return rollback(ctx, sess, log, &Outcome{
			Status:  StatusRolledBack,
			Applied: applied,
			Pending: lines,
		}, err)
	}

	diff := captureDiff(ctx, sess)

	reply, err := sess.Commit(ctx)
	if err != nil {
		return rollback(ctx, sess, log, &Outcome{
			Status:  StatusRolledBack,
			Applied: applied,
			Pending: lines,
			Diff:    diff,
		}, err)
	}
	if sess.Mode() == terminal.ModeCommitConfirm {
		reply, err = sess.ConfirmCommit(ctx)
		if err != nil {
			return rollback(ctx, sess, log, &Outcome{
				Status:  StatusRolledBack,
				Applied: applied,
				Pending: lines,
				Diff:    diff,
			}, err)
		}
	}

	log.WithField("statements", len(lines)).Info("Change set committed")
	return &Outcome{
		Status:     StatusCommitted,
		Applied:    applied,
		Pending:    lines,
		Diff:       diff,
		Diagnostic: reply,
	}, nil
}

// rollback runs the discard path and folds the failure into the outcome.
// Device-reported errors (CommandError) become a rolled-back outcome;
// anything else, including a failing discard, propagates as an error.
func rollback(ctx context.Context, sess *session.Session, log *logrus.Entry, out *Outcome, cause error) (*Outcome, error) {
	var cmdErr *util.CommandError
	deviceRejected := errors.As(cause, &cmdErr)

	if discardErr := sess.Discard(ctx); discardErr != nil {
		log.Warnf("Discard after failed transaction: %v", discardErr)
		return nil, discardErr
	}

	if !deviceRejected {
		return nil, cause
	}

	out.Status = StatusRolledBack
	out.Diagnostic = cmdErr.Output
	log.Warnf("Change set rolled back: %s", cmdErr.Output)
	return out, nil
}

// captureDiff grabs the device diff for reporting. Best-effort: a diff
// that cannot be read never blocks the commit.
func captureDiff(ctx context.Context, sess *session.Session) string {
	results, err := sess.SendConfig(ctx, []string{"diff"})
	if err != nil || len(results) == 0 {
		return ""
	}
	return results[0].Output
}
