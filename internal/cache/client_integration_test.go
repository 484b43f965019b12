//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/cache"
	"github.com/opol-agri/rsbsa-lambda/internal/testutil/containers"
)

type snapshot struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()

	client, err := cache.New(ctx, containers.NewRedisURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Health(ctx))

	var got snapshot
	found, err := client.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := snapshot{Total: 3, ByStatus: map[string]int64{"draft": 2, "approved": 1}}
	require.NoError(t, client.SetJSON(ctx, "stats", want, time.Minute))

	found, err = client.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, client.Invalidate(ctx, "stats"))
	found, err = client.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
