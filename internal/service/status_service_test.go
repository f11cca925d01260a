package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService_Check(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	name := domain.PluginRcpBeLolGameData

	// Cold start answers without a request and is not an error.
	status, err := ts.Services.Status.Check(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfDate, status)
	assert.Equal(t, 0, ts.Catalog.Requests(testutil.PluginsPath))

	// Sync purges the remembered OutOfDate answer.
	ts.Sync(t)
	requests := ts.Catalog.Requests(testutil.PluginsPath)

	status, err = ts.Services.Status.Check(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpToDate, status)
	assert.Equal(t, requests+1, ts.Catalog.Requests(testutil.PluginsPath))

	// Within the TTL the answer is reused.
	ts.Catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2025, time.January, 1)))
	status, err = ts.Services.Status.Check(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpToDate, status)
	assert.Equal(t, requests+1, ts.Catalog.Requests(testutil.PluginsPath))

	ts.Services.Status.Invalidate()
	status, err = ts.Services.Status.Check(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfDate, status)
	assert.Equal(t, domain.StatusOutOfDate, ts.Dragon.Status())
}

func TestStatusService_Check_MissingPlugin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.Sync(t)
	ts.Catalog.SetPlugins(testutil.NewPlugin(domain.PluginRcpFeAudio, testutil.Date(2024, time.June, 1)))

	_, err := ts.Services.Status.Check(context.Background(), domain.PluginRcpBeLolGameData)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A plugin that was never cached is simply out of date.
	status, err := ts.Services.Status.Check(context.Background(), domain.PluginRcpFeLolLoot)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfDate, status)
}

func TestStatusService_Snapshot(t *testing.T) {
	ts := testutil.NewTestServer(t)

	snap := ts.Services.Status.Snapshot()
	assert.Equal(t, domain.StatusUninitialized.String(), snap.Status)
	assert.Zero(t, snap.ChampionCount)

	ts.Sync(t)

	snap = ts.Services.Status.Snapshot()
	assert.Equal(t, domain.StatusUpToDate.String(), snap.Status)
	assert.Equal(t, 1, snap.PluginCount)
	assert.Equal(t, len(testutil.RealChampions()), snap.ChampionCount)
}

func TestStatusService_Check_DoesNotRememberAnswerOverlappingSync(t *testing.T) {
	catalog := testutil.NewGatedCatalog()
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	cfg := testutil.TestConfig(t, "http://127.0.0.1:0")
	dragon := cdragon.New(catalog, cfg.Paths)
	statusSvc := service.NewStatusService(dragon, nil, cfg)
	ctx := context.Background()
	name := domain.PluginRcpBeLolGameData

	require.NoError(t, dragon.Update(ctx))
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))
	entered, release := catalog.HoldNext()

	done := make(chan domain.SyncStatus, 1)
	go func() {
		status, err := statusSvc.Check(ctx, name)
		assert.NoError(t, err)
		done <- status
	}()

	<-entered
	require.NoError(t, dragon.Update(ctx))
	statusSvc.Invalidate()
	close(release)
	assert.Equal(t, domain.StatusOutOfDate, <-done)

	// The stale answer was not remembered past the sync.
	status, err := statusSvc.Check(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpToDate, status)
	assert.Equal(t, domain.StatusUpToDate, dragon.Status())
}
