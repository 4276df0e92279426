// Package runner is the boundary the orchestration layer calls: one
// structured input describing a unit of work against one device, one
// structured result back. Each invocation opens its own session and closes
// it before returning; sessions are never shared across devices or
// invocations.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/srlinux-automation/srlcli/pkg/backup"
	"github.com/srlinux-automation/srlcli/pkg/config"
	"github.com/srlinux-automation/srlcli/pkg/facts"
	"github.com/srlinux-automation/srlcli/pkg/session"
	"github.com/srlinux-automation/srlcli/pkg/transport"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

// Op is the kind of work to perform.
type Op string

const (
	OpExecuteCommands Op = "execute-commands"
	OpApplyChangeSet  Op = "apply-changeset"
	OpGatherFacts     Op = "gather-facts"
	OpBackupConfig    Op = "backup-config"
)

// Input is one unit of work. Exactly one payload field is consulted,
// selected by Op.
type Input struct {
	Endpoint transport.Endpoint
	Op       Op

	// Commands is the execute-commands payload.
	Commands []string
	// Statements is the apply-changeset payload, raw set/delete lines.
	Statements []string
	// Subsets is the gather-facts payload.
	Subsets []string
	// Backup is the backup-config payload.
	Backup backup.Options

	// CheckOnly makes apply-changeset report what would be sent without
	// touching the candidate datastore.
	CheckOnly bool
}

// Status is the tri-state callers use to drive rerun and verification
// logic: "ok" means nothing needed doing, "changed" means the device was
// modified, "failed" means the operation did not complete.
type Status string

const (
	StatusOK      Status = "ok"
	StatusChanged Status = "changed"
	StatusFailed  Status = "failed"
)

// Result is the structured outcome of one invocation.
type Result struct {
	Device string `json:"device"`
	Status Status `json:"status"`

	// Results holds per-command output, aligned with the input batch.
	Results []session.CommandResult `json:"results,omitempty"`
	// Pending lists statements that were (or in check mode, would be) sent.
	Pending []string `json:"pending,omitempty"`
	// Diff is the device-rendered diff for an applied change set.
	Diff string `json:"diff,omitempty"`

	Facts  *facts.Facts   `json:"facts,omitempty"`
	Backup *backup.Result `json:"backup,omitempty"`

	// Diagnostic carries the failure text; ErrorKind names the error
	// taxonomy class so callers can tell a syntax problem from a timeout
	// from a corrupted session.
	Diagnostic string `json:"diagnostic,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
}

// Failed reports whether the invocation did not complete.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// Execute opens a session for the input's endpoint, performs the
// operation, and closes the session. All failures are folded into the
// result; it never panics and never returns an error out of band.
func Execute(ctx context.Context, in Input) *Result {
	sess, err := session.Open(in.Endpoint)
	if err != nil {
		return failed(in.Endpoint.Host, err)
	}
	defer sess.Close()
	return Run(ctx, sess, in)
}

// Run performs the operation over an already-open session. The caller
// keeps ownership of the session.
func Run(ctx context.Context, sess *session.Session, in Input) *Result {
	switch in.Op {
	case OpExecuteCommands:
		return executeCommands(ctx, sess, in)
	case OpApplyChangeSet:
		return applyChangeSet(ctx, sess, in)
	case OpGatherFacts:
		return gatherFacts(ctx, sess, in)
	case OpBackupConfig:
		return backupConfig(ctx, sess, in)
	default:
		return failed(sess.Device(), fmt.Errorf("unknown operation %q", in.Op))
	}
}

func executeCommands(ctx context.Context, sess *session.Session, in Input) *Result {
	results, err := sess.Run(ctx, in.Commands)
	res := &Result{Device: sess.Device(), Status: StatusOK, Results: results}
	if err != nil {
		res.Status = StatusFailed
		res.Diagnostic = err.Error()
		res.ErrorKind = errorKind(err)
	}
	return res
}

func applyChangeSet(ctx context.Context, sess *session.Session, in Input) *Result {
	cs, err := config.ParseChangeSet(in.Statements)
	if err != nil {
		return failed(sess.Device(), err)
	}

	if in.CheckOnly {
		pending, err := config.Plan(ctx, sess, cs)
		if err != nil {
			return failed(sess.Device(), err)
		}
		status := StatusOK
		if len(pending) > 0 {
			status = StatusChanged
		}
		return &Result{Device: sess.Device(), Status: status, Pending: pending}
	}

	out, err := config.Apply(ctx, sess, cs)
	if err != nil {
		return failed(sess.Device(), err)
	}

	res := &Result{
		Device:  sess.Device(),
		Results: out.Applied,
		Pending: out.Pending,
		Diff:    out.Diff,
	}
	switch out.Status {
	case config.StatusUnchanged:
		res.Status = StatusOK
	case config.StatusCommitted:
		res.Status = StatusChanged
	case config.StatusRolledBack:
		res.Status = StatusFailed
		res.Diagnostic = out.Diagnostic
		res.ErrorKind = errorKind(util.ErrCommand)
	}
	return res
}

func gatherFacts(ctx context.Context, sess *session.Session, in Input) *Result {
	f, err := facts.Gather(ctx, sess, in.Subsets)
	if err != nil {
		return failed(sess.Device(), err)
	}
	return &Result{Device: sess.Device(), Status: StatusOK, Facts: f}
}

func backupConfig(ctx context.Context, sess *session.Session, in Input) *Result {
	b, err := backup.Snapshot(ctx, sess, in.Backup)
	if err != nil {
		return failed(sess.Device(), err)
	}
	status := StatusChanged
	if in.Backup.DryRun {
		status = StatusOK
	}
	return &Result{Device: sess.Device(), Status: status, Backup: b}
}

func failed(device string, err error) *Result {
	return &Result{
		Device:     device,
		Status:     StatusFailed,
		Diagnostic: err.Error(),
		ErrorKind:  errorKind(err),
	}
}

// errorKind maps an error onto its taxonomy class name.
func errorKind(err error) string {
	switch {
	case errors.Is(err, util.ErrSessionCorrupted):
		return "session-corrupted"
	case errors.Is(err, util.ErrConnect):
		return "connect"
	case errors.Is(err, util.ErrTimeout):
		return "timeout"
	case errors.Is(err, util.ErrModeTransition):
		return "mode-transition"
	case errors.Is(err, util.ErrCommand):
		return "command"
	default:
		return "internal"
	}
}
