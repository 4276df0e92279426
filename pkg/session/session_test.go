package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/srlinux-automation/srlcli/internal/testutil"
	"github.com/srlinux-automation/srlcli/pkg/terminal"
	"github.com/srlinux-automation/srlcli/pkg/transport"
	"github.com/srlinux-automation/srlcli/pkg/util"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSession(t *testing.T, dev *testutil.FakeDevice) *Session {
	t.Helper()
	s, err := New(dev, transport.Endpoint{Host: dev.Hostname, Timeout: time.Second})
	require.NoError(t, err)
	return s
}

func TestNewDrainsBannerAndStartsOperational(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.False(t, s.Corrupted())
}

func TestNewWithNoisyPrompt(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.Noisy = true
	s := newTestSession(t, dev)
	defer s.Close()

	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

func TestRunAlignment(t *testing.T) {
	tests := []struct {
		name     string
		commands []string
	}{
		{"empty batch", nil},
		{"single", []string{"show version"}},
		{"several", []string{"show version", "show interface brief", "show system"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := testutil.NewFakeDevice("leaf1")
			s := newTestSession(t, dev)
			defer s.Close()

			results, err := s.Run(context.Background(), tt.commands)
			require.NoError(t, err)
			require.Len(t, results, len(tt.commands))
			for i, r := range results {
				assert.Equal(t, tt.commands[i], r.Command)
				assert.False(t, r.Failed)
			}
			assert.Equal(t, terminal.ModeOperational, s.Mode())
		})
	}
}

// Scenario: three commands, the second one errors. The continue policy
// still sends and captures the third; the error names index 1.
func TestRunContinuesPastFailure(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailOn["show bogus"] = "Error: Path not valid"
	s := newTestSession(t, dev)
	defer s.Close()

	results, err := s.Run(context.Background(), []string{"show version", "show bogus", "show interface brief"})
	require.Error(t, err)

	var cmdErr *util.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.Index)
	assert.Equal(t, "show bogus", cmdErr.Command)

	require.Len(t, results, 3)
	assert.False(t, results[0].Failed)
	assert.True(t, results[1].Failed)
	assert.False(t, results[2].Failed)
	assert.Contains(t, results[2].Output, "ethernet-1/1", "third command must still be attempted")

	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

func TestRunRequiresOperationalMode(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	require.NoError(t, s.EnterCandidate(context.Background()))
	_, err := s.Run(context.Background(), []string{"show version"})
	assert.True(t, errors.Is(err, util.ErrNotOperational))
}

func TestRunRecoversFromUnexpectedModeShift(t *testing.T) {
	// A command that drops the session into candidate mode must always
	// surface a mode-transition error after the discard recovery runs.
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	_, err := s.Run(context.Background(), []string{"enter candidate"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrModeTransition))
	assert.Equal(t, terminal.ModeOperational, s.Mode(), "recovery returns the session to operational")
	assert.False(t, s.Corrupted())
	assert.Contains(t, dev.ModeCommands(), "discard now")
}

func TestEnterCandidate(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	require.NoError(t, s.EnterCandidate(context.Background()))
	assert.Equal(t, terminal.ModeCandidate, s.Mode())
}

func TestEnterCandidateRejected(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailOn["enter candidate"] = "Error: system management is locked"
	s := newTestSession(t, dev)
	defer s.Close()

	err := s.EnterCandidate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrModeTransition))
	assert.Equal(t, terminal.ModeOperational, s.Mode(), "failed transition leaves session operational")
	assert.False(t, s.Corrupted())
}

func TestCommitImmediate(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))
	_, err := s.SendConfig(ctx, []string{"set / interface ethernet-1/1 admin-state enable"})
	require.NoError(t, err)

	reply, err := s.Commit(ctx)
	require.NoError(t, err)
	assert.Contains(t, reply, "committed")
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.True(t, dev.HasLine("set / interface ethernet-1/1 admin-state enable"))
}

func TestCommitWithConfirmation(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.ConfirmCommit = true
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))
	_, err := s.SendConfig(ctx, []string{"set / system name host-name leaf1"})
	require.NoError(t, err)

	_, err = s.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, terminal.ModeCommitConfirm, s.Mode())

	_, err = s.ConfirmCommit(ctx)
	require.NoError(t, err)
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.True(t, dev.HasLine("set / system name host-name leaf1"))
}

func TestRejectCommit(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.ConfirmCommit = true
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))
	_, err := s.SendConfig(ctx, []string{"set / system name host-name evil"})
	require.NoError(t, err)

	_, err = s.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, terminal.ModeCommitConfirm, s.Mode())

	_, err = s.RejectCommit(ctx)
	require.NoError(t, err)
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.False(t, dev.HasLine("set / system name host-name evil"))
}

func TestCommitValidationFailureThenDiscard(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailCommit = "Error: commit validation failed"
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))
	_, err := s.SendConfig(ctx, []string{"set / interface ethernet-1/9 mtu 99999"})
	require.NoError(t, err)

	_, err = s.Commit(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrCommand))
	assert.Equal(t, terminal.ModeCandidate, s.Mode())

	require.NoError(t, s.Discard(ctx))
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.False(t, dev.HasLine("set / interface ethernet-1/9 mtu 99999"))
}

func TestSendConfigFailFast(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailOn["set / vlan bogus"] = "Error: unknown element 'vlan'"
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))

	results, err := s.SendConfig(ctx, []string{
		"set / interface ethernet-1/1 description ok",
		"set / vlan bogus",
		"set / interface ethernet-1/2 description never-sent",
	})
	require.Error(t, err)

	var cmdErr *util.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.Index)
	require.Len(t, results, 2, "statements after the failure are not sent")
	assert.True(t, results[1].Failed)

	require.NoError(t, s.Discard(ctx))
	assert.Equal(t, terminal.ModeOperational, s.Mode())
}

func TestDiscardFailureCorruptsSession(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1")
	dev.FailOn["discard now"] = "Error: cannot discard"
	s := newTestSession(t, dev)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.EnterCandidate(ctx))

	err := s.Discard(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrSessionCorrupted))
	assert.True(t, s.Corrupted())

	// A poisoned session refuses further work.
	_, err = s.Run(ctx, []string{"show version"})
	assert.True(t, errors.Is(err, util.ErrSessionCorrupted))
}

// timeoutChannel delivers a prompt once (for the banner drain), then never
// produces expected output again.
type timeoutChannel struct {
	drained bool
}

func (c *timeoutChannel) Send(line string) error { return nil }

func (c *timeoutChannel) ReadUntil(pred func([]byte) bool, timeout time.Duration) ([]byte, error) {
	if !c.drained {
		c.drained = true
		return []byte("--{ running }--[  ]--\nA:leaf1# "), nil
	}
	return nil, util.NewTimeoutError("read", timeout)
}

func (c *timeoutChannel) Close() error { return nil }

func TestTimeoutPoisonsSession(t *testing.T) {
	s, err := New(&timeoutChannel{}, transport.Endpoint{Host: "leaf1", Timeout: time.Second})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Run(context.Background(), []string{"show version"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrTimeout))
	assert.True(t, s.Corrupted())
}
