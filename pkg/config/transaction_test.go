package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlinux-automation/srlcli/internal/testutil"
	"github.com/srlinux-automation/srlcli/pkg/session"
	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/transport"
)

func newTestSession(t *testing.T, dev *testutil.FakeDevice) *session.Session {
	t.Helper()
	s, err := session.New(dev, transport.Endpoint{Host: dev.Hostname, Timeout: time.Second})
	require.NoError(t, err)
	return s
}

func mustChangeSet(t *testing.T, lines ...string) ChangeSet {
	t.Helper()
	cs, err := ParseChangeSet(lines)
	require.NoError(t, err)
	return cs
}

// A change set that already holds must not touch the device at all: no
// candidate entry, no commit, nothing staged.
func TestApplyAlreadySatisfied(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1",
		"set / interface ethernet-1/1 admin-state enable",
		"set / interface ethernet-1/1 mtu 9100",
	)
	s := newTestSession(t, dev)
	defer s.Close()

	out, err := Apply(context.Background(), s, mustChangeSet(t,
		"set / interface ethernet-1/1 admin-state enable",
		"delete / interface ethernet-1/2",
	))
	require.NoError(t, err)

	assert.Equal(t, StatusUnchanged, out.Status)
	assert.False(t, out.Changed())
	assert.Empty(t, out.Pending)
	assert.Empty(t, dev.ModeCommands(), "no mode transitions for a no-op change set")
	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

func TestApplyCommitsDelta(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1",
		"set / interface ethernet-1/3 admin-state disable",
	)
	s := newTestSession(t, dev)
	defer s.Close()

	want := "set / interface ethernet-1/3 admin-state enable"
	out, err := Apply(context.Background(), s, mustChangeSet(t, want))
	require.NoError(t, err)

	assert.Equal(t, StatusCommitted, out.Status)
	assert.True(t, out.Changed())
	assert.Equal(t, []string{want}, out.Pending)
	require.Len(t, out.Applied, 1)
	assert.True(t, dev.HasLine(want))
	assert.Contains(t, out.Diff, "+ "+want)
	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

// Second application of the same change set is a no-op.
func TestApplyIdempotent(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	cs := mustChangeSet(t, "set / system name host-name leaf1")

	out, err := Apply(context.Background(), s, cs)
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, out.Status)

	dev.Sent = nil
	out, err = Apply(context.Background(), s, cs)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, out.Status)
	assert.Empty(t, dev.ModeCommands())
}

// Only the unsatisfied statements are staged; the satisfied ones never
// reach the device.
func TestApplySendsOnlyPending(t *testing.T) {
	already := "set / interface ethernet-1/1 admin-state enable"
	missing := "set / interface ethernet-1/2 admin-state enable"
	dev := testutil.NewFakeDevice("leaf1", already)
	s := newTestSession(t, dev)
	defer s.Close()

	out, err := Apply(context.Background(), s, mustChangeSet(t, already, missing))
	require.NoError(t, err)

	assert.Equal(t, StatusCommitted, out.Status)
	assert.Equal(t, []string{missing}, out.Pending)
	assert.NotContains(t, dev.Sent, already)
}

// A statement the device rejects rolls the whole transaction back: the
// running datastore keeps none of the change set, including statements the
// device had already accepted into the candidate.
func TestApplyRolledBackOnRejectedStatement(t *testing.T) {
	accepted := "set / interface ethernet-1/1 vlan-tagging true"
	rejected := "delete / interface ethernet-1/99"
	dev := testutil.NewFakeDevice("leaf1", "set / interface ethernet-1/99 mtu 9100")
	dev.FailOn[rejected] = "Error: Path not valid"
	s := newTestSession(t, dev)
	defer s.Close()

	out, err := Apply(context.Background(), s, mustChangeSet(t, accepted, rejected))
	require.NoError(t, err, "a device rejection is an outcome, not an error")

	assert.Equal(t, StatusRolledBack, out.Status)
	assert.Contains(t, out.Diagnostic, "Error: Path not valid")
	assert.False(t, dev.HasLine(accepted), "accepted statement must not survive the rollback")
	assert.True(t, dev.HasLine("set / interface ethernet-1/99 mtu 9100"))
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.False(t, s.Corrupted())
}

func TestApplyRolledBackOnCommitFailure(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailCommit = "Error: commit validation failed on / network-instance default"
	s := newTestSession(t, dev)
	defer s.Close()

	out, err := Apply(context.Background(), s, mustChangeSet(t,
		"set / network-instance default type ip-vrf",
	))
	require.NoError(t, err)

	assert.Equal(t, StatusRolledBack, out.Status)
	assert.Contains(t, out.Diagnostic, "commit validation failed")
	assert.False(t, dev.HasLine("set / network-instance default type ip-vrf"))
	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

// A commit the device guards with a yes/no question is confirmed and
// applied without caller involvement.
func TestApplyAnswersCommitConfirmation(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.ConfirmCommit = true
	s := newTestSession(t, dev)
	defer s.Close()

	want := "set / system banner login-banner maintenance"
	out, err := Apply(context.Background(), s, mustChangeSet(t, want))
	require.NoError(t, err)

	assert.Equal(t, StatusCommitted, out.Status)
	assert.True(t, dev.HasLine(want))
	assert.Contains(t, dev.ModeCommands(), "y")
	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

func TestApplyEmptyChangeSet(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	out, err := Apply(context.Background(), s, ChangeSet{})
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, out.Status)
	assert.Empty(t, dev.ModeCommands())
}
