package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunningKeepsOnlySetLines(t *testing.T) {
	rc := parseRunning("" +
		"set / interface ethernet-1/1 admin-state enable\n" +
		"set / interface   ethernet-1/1 mtu 9100\n" + // device padding
		"delete / nothing\n" +
		"--{ running }--[  ]--\n")
	assert.Equal(t, []string{
		"set / interface ethernet-1/1 admin-state enable",
		"set / interface ethernet-1/1 mtu 9100",
	}, rc.lines)
}

func TestSatisfied(t *testing.T) {
	rc := parseRunning("" +
		"set / interface ethernet-1/1 admin-state enable\n" +
		"set / interface ethernet-1/10 description uplink\n")

	tests := []struct {
		name string
		stmt string
		want bool
	}{
		{"set present", "set / interface ethernet-1/1 admin-state enable", true},
		{"set absent", "set / interface ethernet-1/1 admin-state disable", false},
		{"delete of configured path", "delete / interface ethernet-1/1", false},
		{"delete of exact line path", "delete / interface ethernet-1/1 admin-state enable", false},
		{"delete of absent path", "delete / interface ethernet-1/2", true},
		// ethernet-1/1 must not shadow ethernet-1/10
		{"delete prefix is token aligned", "delete / interface ethernet-1/1 description", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ParseStatement(tt.stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rc.satisfied(st))
		})
	}
}
