package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/blitzadex/internal/api/handlers"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginHandler(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/plugins"))
	require.NoError(t, err)
	var empty handlers.PluginsResponse
	testutil.AssertJSONResponse(t, resp, &empty)
	resp.Body.Close()
	assert.NotNil(t, empty.Plugins)
	assert.Empty(t, empty.Plugins)

	ts.Sync(t)

	resp, err = http.Get(ts.APIURL("/plugins"))
	require.NoError(t, err)
	var list handlers.PluginsResponse
	testutil.AssertJSONResponse(t, resp, &list)
	resp.Body.Close()
	require.Len(t, list.Plugins, 1)
	assert.Equal(t, domain.PluginRcpBeLolGameData, list.Plugins[0].Name)
	assert.True(t, testutil.Date(2024, 6, 1).Equal(list.Plugins[0].Mtime))

	resp, err = http.Get(ts.APIURL("/plugins/rcp-be-lol-game-data"))
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp, err = http.Get(ts.APIURL("/plugins/rcp-fe-lol-loot"))
	require.NoError(t, err)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Plugin not found")
	resp.Body.Close()

	// An unrecognised name is not an alias for whatever unknown plugin
	// the catalog listed.
	ts.Catalog.SetPlugins(
		testutil.GameDataPlugin(testutil.Date(2024, 6, 1)),
		domain.Plugin{Name: "rcp-fe-lol-brand-new", Type: domain.PluginTypeFile, Mtime: testutil.Date(2024, 6, 1)},
	)
	ts.Sync(t)

	resp, err = http.Get(ts.APIURL("/plugins/typo-name"))
	require.NoError(t, err)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Plugin not found")
	resp.Body.Close()

	resp, err = http.Get(ts.APIURL("/plugins/plugin-manifest"))
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()
}
