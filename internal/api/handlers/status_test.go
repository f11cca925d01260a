package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/api/handlers"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)

	get := func(t *testing.T, query string) *http.Response {
		t.Helper()
		resp, err := http.Get(ts.APIURL("/status" + query))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("cold start", func(t *testing.T) {
		resp := get(t, "")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result handlers.StatusResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, string(domain.PluginRcpBeLolGameData), result.Plugin)
		assert.Equal(t, domain.StatusOutOfDate, result.Status)
		assert.Equal(t, domain.StatusOutOfDate.String(), result.Aggregate)
		assert.Zero(t, ts.Catalog.Requests(testutil.PluginsPath))
	})

	ts.Sync(t)

	t.Run("after sync", func(t *testing.T) {
		resp := get(t, "?plugin=rcp-be-lol-game-data")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result handlers.StatusResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, domain.StatusUpToDate, result.Status)
		assert.Equal(t, domain.StatusUpToDate.String(), result.Aggregate)
		assert.Equal(t, 1, result.PluginCount)
		assert.Equal(t, 5, result.ChampionCount)
	})

	t.Run("plugin missing remotely", func(t *testing.T) {
		ts.Catalog.SetPlugins(testutil.NewPlugin(domain.PluginRcpFeAudio, testutil.Date(2024, time.June, 1)))
		ts.Services.Status.Invalidate()

		resp := get(t, "")
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Plugin not found")
	})

	t.Run("remote newer", func(t *testing.T) {
		ts.Catalog.SetPlugins(testutil.GameDataPlugin(testutil.Date(2025, time.January, 1)))
		ts.Services.Status.Invalidate()

		resp := get(t, "")
		var result handlers.StatusResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, domain.StatusOutOfDate, result.Status)
		assert.Equal(t, domain.StatusOutOfDate.String(), result.Aggregate)
	})

	t.Run("plugin never cached", func(t *testing.T) {
		resp := get(t, "?plugin=rcp-fe-lol-loot")
		var result handlers.StatusResponse
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, domain.StatusOutOfDate, result.Status)
	})

	t.Run("unknown plugin name", func(t *testing.T) {
		requests := ts.Catalog.Requests(testutil.PluginsPath)

		resp := get(t, "?plugin=rcp-be-lol-game-dat")
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Unknown plugin")
		assert.Equal(t, requests, ts.Catalog.Requests(testutil.PluginsPath))
	})

	t.Run("catalog unreachable", func(t *testing.T) {
		ts.Services.Status.Invalidate()
		ts.Catalog.Server.Close()

		resp := get(t, "")
		testutil.AssertErrorResponse(t, resp, http.StatusBadGateway, "remote catalog")
	})
}
