package cdragon_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/cache"
	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestCDragon_New(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	dragon, cfg := testutil.NewTestDragon(t, catalog)

	assert.Equal(t, domain.StatusUninitialized, dragon.Status())
	assert.Empty(t, dragon.Plugins())
	assert.Empty(t, dragon.Champions())
	assert.Equal(t, cfg.Paths, dragon.Paths())

	// Nothing is created until the first write.
	_, err := os.Stat(cfg.Paths.CacheDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCDragon_Update(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(
		testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)),
		testutil.NewPlugin(domain.PluginRcpFeLolChampSelect, testutil.Date(2024, time.May, 1)),
	)
	catalog.SetChampions(testutil.RealChampions()...)
	dragon, cfg := testutil.NewTestDragon(t, catalog)
	ctx := context.Background()

	require.NoError(t, dragon.Update(ctx))

	assert.Equal(t, domain.StatusUpToDate, dragon.Status())
	assert.Len(t, dragon.Plugins(), 2)
	assert.Len(t, dragon.Champions(), len(testutil.RealChampions()))

	disk := cache.NewDisk(cfg.Paths.CacheDir)
	var plugins []domain.Plugin
	require.NoError(t, disk.Load(cdragon.PluginsFile, &plugins))
	assert.Len(t, plugins, 2)

	var champions map[uint64]domain.Champion
	require.NoError(t, disk.Load(cdragon.ChampionsFile, &champions))
	assert.Len(t, champions, len(testutil.RealChampions()))
	assert.Equal(t, "Ahri", champions[103].Name)

	// Right after an update the cache matches the catalog.
	status, err := dragon.Freshness(ctx, domain.PluginRcpBeLolGameData)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpToDate, status)
}

func TestCDragon_Update_Overwrites(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.SeedChampions(3)...)
	dragon, cfg := testutil.NewTestDragon(t, catalog)
	ctx := context.Background()

	require.NoError(t, dragon.Update(ctx))

	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))
	catalog.SetChampions(testutil.RealChampions()...)

	status, err := dragon.CheckStatus(ctx, domain.PluginRcpBeLolGameData)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfDate, status)
	assert.Equal(t, domain.StatusOutOfDate, dragon.Status())

	require.NoError(t, dragon.Update(ctx))
	assert.Equal(t, domain.StatusUpToDate, dragon.Status())

	disk := cache.NewDisk(cfg.Paths.CacheDir)
	var plugins []domain.Plugin
	require.NoError(t, disk.Load(cdragon.PluginsFile, &plugins))
	require.Len(t, plugins, 1)
	assert.True(t, testutil.Date(2024, time.July, 1).Equal(plugins[0].Mtime))

	var champions map[uint64]domain.Champion
	require.NoError(t, disk.Load(cdragon.ChampionsFile, &champions))
	assert.Len(t, champions, len(testutil.RealChampions()))
	_, stale := champions[2]
	assert.False(t, stale)
}

func TestCDragon_Update_FailureKeepsPreviousState(t *testing.T) {
	tests := []struct {
		name      string
		breakIt   func(*testutil.CatalogServer)
		wantStage string
		wantErr   error
	}{
		{
			name: "plugin listing fails",
			breakIt: func(c *testutil.CatalogServer) {
				c.SetRawPlugins(`not json`)
			},
			wantStage: "failed to update plugins",
			wantErr:   domain.ErrDecode,
		},
		{
			name: "champion summary fails",
			breakIt: func(c *testutil.CatalogServer) {
				c.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))
				c.SetRawSummary(`[{"id":-1},{"name":"no id"}]`)
			},
			wantStage: "failed to update champions",
			wantErr:   domain.ErrDecode,
		},
		{
			name: "one champion fails",
			breakIt: func(c *testutil.CatalogServer) {
				c.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))
				c.FailChampion(2, http.StatusServiceUnavailable)
			},
			wantStage: "failed to update champions",
			wantErr:   domain.ErrAggregateFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := testutil.NewCatalogServer(t)
			catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
			catalog.SetChampions(testutil.SeedChampions(3)...)
			dragon, cfg := testutil.NewTestDragon(t, catalog)
			ctx := context.Background()

			require.NoError(t, dragon.Update(ctx))

			pluginsPath := filepath.Join(cfg.Paths.CacheDir, cdragon.PluginsFile)
			championsPath := filepath.Join(cfg.Paths.CacheDir, cdragon.ChampionsFile)
			pluginsBefore := readFile(t, pluginsPath)
			championsBefore := readFile(t, championsPath)

			tt.breakIt(catalog)

			err := dragon.Update(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantStage)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, pluginsBefore, readFile(t, pluginsPath))
			assert.Equal(t, championsBefore, readFile(t, championsPath))
			assert.Equal(t, domain.StatusUpToDate, dragon.Status())
			assert.Len(t, dragon.Champions(), 3)
			plugin, ok := dragon.Plugin(domain.PluginRcpBeLolGameData)
			require.True(t, ok)
			assert.True(t, testutil.Date(2024, time.June, 1).Equal(plugin.Mtime))
		})
	}
}

func TestCDragon_Update_FirstRunFailureWritesNothing(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.SeedChampions(3)...)
	catalog.FailChampion(3, http.StatusNotFound)
	dragon, cfg := testutil.NewTestDragon(t, catalog)

	err := dragon.Update(context.Background())
	require.Error(t, err)

	var aggErr *domain.AggregateFetchError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, uint64(3), aggErr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, domain.StatusUninitialized, dragon.Status())
	_, statErr := os.Stat(filepath.Join(cfg.Paths.CacheDir, cdragon.PluginsFile))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(cfg.Paths.CacheDir, cdragon.ChampionsFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCDragon_LoadCached(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.RealChampions()...)
	first, cfg := testutil.NewTestDragon(t, catalog)
	require.NoError(t, first.Update(context.Background()))

	second := cdragon.New(cdragon.NewClient(cfg), cfg.Paths)
	require.NoError(t, second.LoadCached())

	assert.Equal(t, domain.StatusUninitialized, second.Status())
	assert.Equal(t, first.ChampionMap(), second.ChampionMap())
	assert.Len(t, second.Plugins(), 1)

	champ, ok := second.Champion(266)
	require.True(t, ok)
	assert.Equal(t, "Aatrox", champ.Name)
}

func TestCDragon_LoadCached_Missing(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	dragon, _ := testutil.NewTestDragon(t, catalog)

	err := dragon.LoadCached()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCDragon_ChampionsSortedByName(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.RealChampions()...)
	dragon, _ := testutil.NewTestDragon(t, catalog)
	require.NoError(t, dragon.Update(context.Background()))

	champions := dragon.Champions()
	require.Len(t, champions, 5)
	for i := 1; i < len(champions); i++ {
		assert.LessOrEqual(t, champions[i-1].Name, champions[i].Name)
	}
	assert.Equal(t, "Aatrox", champions[0].Name)
}

func TestCDragon_ConcurrentUpdatesAreSerialised(t *testing.T) {
	catalog := testutil.NewCatalogServer(t)
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.SeedChampions(5)...)
	dragon, _ := testutil.NewTestDragon(t, catalog)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- dragon.Update(context.Background())
		}()
		go func() {
			_ = dragon.Champions()
			_ = dragon.Status()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, domain.StatusUpToDate, dragon.Status())
	assert.Len(t, dragon.Champions(), 5)
}

func TestCDragon_CheckStatus_KeepsUpdateThatLandsMidCheck(t *testing.T) {
	catalog := testutil.NewGatedCatalog()
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	catalog.SetChampions(testutil.SeedChampions(2)...)
	cfg := testutil.TestConfig(t, "http://127.0.0.1:0")
	dragon := cdragon.New(catalog, cfg.Paths)
	ctx := context.Background()
	name := domain.PluginRcpBeLolGameData

	require.NoError(t, dragon.Update(ctx))
	assert.Equal(t, uint64(1), dragon.Generation())

	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))
	entered, release := catalog.HoldNext()

	type result struct {
		status domain.SyncStatus
		err    error
	}
	done := make(chan result, 1)
	go func() {
		status, err := dragon.CheckStatus(ctx, name)
		done <- result{status, err}
	}()

	<-entered
	require.NoError(t, dragon.Update(ctx))
	close(release)

	res := <-done
	require.NoError(t, res.err)
	// The check compared against the cache it read before the update.
	assert.Equal(t, domain.StatusOutOfDate, res.status)
	assert.Equal(t, domain.StatusUpToDate, dragon.Status())
	assert.Equal(t, uint64(2), dragon.Generation())

	status, err := dragon.Freshness(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpToDate, status)
}

func TestCDragon_CheckStatus_DemotesWithoutConcurrentUpdate(t *testing.T) {
	catalog := testutil.NewGatedCatalog()
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.June, 1)))
	cfg := testutil.TestConfig(t, "http://127.0.0.1:0")
	dragon := cdragon.New(catalog, cfg.Paths)
	ctx := context.Background()

	require.NoError(t, dragon.Update(ctx))
	catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2024, time.July, 1)))

	status, err := dragon.CheckStatus(ctx, domain.PluginRcpBeLolGameData)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfDate, status)
	assert.Equal(t, domain.StatusOutOfDate, dragon.Status())
}
