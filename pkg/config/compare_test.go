package config

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlinux-automation/srlcli/internal/testutil"
	"github.com/srlinux-automation/srlcli/pkg/terminal"
)

func TestCompareInSync(t *testing.T) {
	lines := []string{
		"set / interface ethernet-1/1 admin-state enable",
		"set / interface ethernet-1/2 admin-state enable",
	}
	dev := testutil.NewFakeDevice("leaf1", lines...)
	s := newTestSession(t, dev)
	defer s.Close()

	res, err := Compare(context.Background(), s, lines, "/")
	require.NoError(t, err)

	assert.True(t, res.InSync)
	assert.Empty(t, res.Missing)
	assert.Empty(t, res.Extra)
	assert.Equal(t, terminal.ModeOperational, s.Mode())
	assert.Empty(t, dev.ModeCommands(), "comparison is read-only")
}

func TestCompareReportsDrift(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1",
		"set / interface ethernet-1/1 admin-state enable",
		"set / interface ethernet-1/2 admin-state disable",
	)
	s := newTestSession(t, dev)
	defer s.Close()

	res, err := Compare(context.Background(), s, []string{
		"set / interface ethernet-1/1 admin-state enable",
		"set / interface ethernet-1/2 admin-state enable",
	}, "/")
	require.NoError(t, err)

	assert.False(t, res.InSync)
	assert.Equal(t, []string{"set / interface ethernet-1/2 admin-state enable"}, res.Missing)
	assert.Equal(t, []string{"set / interface ethernet-1/2 admin-state disable"}, res.Extra)
}

// Running lines outside the compared subtree are not drift.
func TestCompareScopedToPath(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1",
		"set / interface ethernet-1/1 admin-state enable",
		"set / system name host-name leaf1",
	)
	s := newTestSession(t, dev)
	defer s.Close()

	res, err := Compare(context.Background(), s, []string{
		"set / interface ethernet-1/1 admin-state enable",
	}, "/ interface ethernet-1/1")
	require.NoError(t, err)

	assert.True(t, res.InSync)
	assert.Empty(t, res.Extra, "system config is outside the compared path")
}

func TestCompareSkipsCommentsAndBlanks(t *testing.T) {
	dev := testutil.NewFakeDevice("leaf1", "set / system name host-name leaf1")
	s := newTestSession(t, dev)
	defer s.Close()

	res, err := Compare(context.Background(), s, []string{
		"# intent for leaf1",
		"",
		"set / system name host-name leaf1",
	}, "/")
	require.NoError(t, err)
	assert.True(t, res.InSync)
}

func TestCompareRender(t *testing.T) {
	res := &CompareResult{
		Path:    "/",
		Missing: []string{"set / a"},
		Extra:   []string{"set / b"},
	}

	diff, err := res.Render(FormatDiff)
	require.NoError(t, err)
	assert.Equal(t, "+ set / a\n- set / b\n", diff)

	out, err := res.Render(FormatJSON)
	require.NoError(t, err)
	var decoded CompareResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, res.Missing, decoded.Missing)

	yml, err := res.Render(FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, yml, "in_sync: false")

	_, err = res.Render("xml")
	require.Error(t, err)
}
