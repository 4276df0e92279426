package inventory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInventory = `
defaults:
  username: admin
  password: NokiaSrl1!
  timeout: 10
devices:
  - name: leaf1
    host: 172.20.20.101
  - name: leaf2
    host: 172.20.20.102
    port: 2222
    username: ops
    timeout: 60
  - name: spine1
    host: 172.20.20.111
`

func TestParse(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)
	assert.Equal(t, []string{"leaf1", "leaf2", "spine1"}, inv.Names())

	d, err := inv.Lookup("leaf2")
	require.NoError(t, err)
	assert.Equal(t, "172.20.20.102", d.Host)
	assert.Equal(t, 2222, d.Port)
}

func TestEndpointInheritsDefaults(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)

	ep, err := inv.Endpoint("leaf1")
	require.NoError(t, err)
	assert.Equal(t, "172.20.20.101", ep.Host)
	assert.Equal(t, 22, ep.Port)
	assert.Equal(t, "admin", ep.Username)
	assert.Equal(t, "NokiaSrl1!", ep.Password)
	assert.Equal(t, 10*time.Second, ep.Timeout)
}

func TestEndpointDeviceOverrides(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)

	ep, err := inv.Endpoint("leaf2")
	require.NoError(t, err)
	assert.Equal(t, 2222, ep.Port)
	assert.Equal(t, "ops", ep.Username)
	assert.Equal(t, "NokiaSrl1!", ep.Password, "password still inherited")
	assert.Equal(t, time.Minute, ep.Timeout)
}

func TestEndpointBuiltinDefaults(t *testing.T) {
	inv, err := Parse([]byte("devices:\n  - name: sw1\n    host: 10.0.0.1\n"))
	require.NoError(t, err)

	ep, err := inv.Endpoint("sw1")
	require.NoError(t, err)
	assert.Equal(t, 22, ep.Port)
	assert.Equal(t, "admin", ep.Username)
	assert.Equal(t, 30*time.Second, ep.Timeout)
}

func TestParseRejectsBadInventory(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "devices:\n  - host: 10.0.0.1\n"},
		{"missing host", "devices:\n  - name: sw1\n"},
		{"duplicate name", "devices:\n  - name: sw1\n    host: a\n  - name: sw1\n    host: b\n"},
		{"not yaml", ": ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLookupUnknownDevice(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	require.NoError(t, err)
	_, err = inv.Lookup("leaf9")
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleInventory), 0o644))

	inv, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, inv.Devices, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
