package factcache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlinux-automation/srlcli/pkg/facts"
)

// These tests need a local Redis; they skip when none is listening.
func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c := New("127.0.0.1:6379", time.Minute)
	if err := c.Connect(context.Background()); err != nil {
		c.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testDevice(t *testing.T) string {
	return fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestPutGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	device := testDevice(t)
	defer c.Invalidate(ctx, device)

	in := &facts.Facts{
		System: &facts.System{Hostname: "leaf1", Version: "v25.10.1"},
		Interfaces: map[string]facts.Interface{
			"ethernet-1/1": {Name: "ethernet-1/1", AdminState: "enable", OperState: "up"},
		},
		GatheredAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, c.Put(ctx, device, in))

	out, err := c.Get(ctx, device)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.System, out.System)
	assert.Equal(t, in.Interfaces, out.Interfaces)
	assert.True(t, in.GatheredAt.Equal(out.GatheredAt))
}

func TestGetMissReturnsNil(t *testing.T) {
	c := newTestCache(t)

	out, err := c.Get(context.Background(), testDevice(t))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	device := testDevice(t)

	require.NoError(t, c.Put(ctx, device, &facts.Facts{GatheredAt: time.Now()}))
	require.NoError(t, c.Invalidate(ctx, device))

	out, err := c.Get(ctx, device)
	require.NoError(t, err)
	assert.Nil(t, out)

	require.NoError(t, c.Invalidate(ctx, device), "double invalidate is fine")
}
