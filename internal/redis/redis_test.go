package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
	}
	c := New(addr, "", "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		c.Close()
		t.Skipf("redis not available, skipping test: %v", err)
	}
	t.Cleanup(func() {
		c.rdb.Del(context.Background(), SnapshotKey)
		c.Close()
	})
	return c
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()

	_, found, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	snap := model.NewStatsSnapshot(3)
	snap.Prayers[model.Dhuhr] = model.PrayerStat{Count: 1, Target: &[2]float64{21.4, 39.8}}
	snap.GeneratedAt = time.Date(2025, time.March, 22, 9, 29, 42, 123, time.UTC)
	snap.ComputedFor = snap.GeneratedAt.Truncate(time.Minute)

	require.NoError(t, c.SaveSnapshot(ctx, snap, 30*time.Second))

	got, found, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snap.Total, got.Total)
	assert.Equal(t, snap.Prayers, got.Prayers)
	assert.True(t, snap.GeneratedAt.Equal(got.GeneratedAt))

	ttl, err := c.rdb.TTL(ctx, SnapshotKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
