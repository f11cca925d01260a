package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugin_RoundTrip(t *testing.T) {
	size := int64(4096)
	tests := []struct {
		name   string
		plugin domain.Plugin
	}{
		{
			name: "directory without size",
			plugin: domain.Plugin{
				Name:  domain.PluginRcpBeLolGameData,
				Type:  domain.PluginTypeDirectory,
				Mtime: time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC),
			},
		},
		{
			name: "file with size",
			plugin: domain.Plugin{
				Name:  domain.PluginManifest,
				Type:  domain.PluginTypeFile,
				Mtime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				Size:  &size,
			},
		},
		{
			name: "sub-second precision is dropped",
			plugin: domain.Plugin{
				Name:  domain.PluginRcpFeLolChampSelect,
				Type:  domain.PluginTypeDirectory,
				Mtime: time.Date(2025, 3, 9, 8, 7, 6, 999_000_000, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.plugin)
			require.NoError(t, err)

			var got domain.Plugin
			require.NoError(t, json.Unmarshal(data, &got))

			assert.Equal(t, tt.plugin.Name, got.Name)
			assert.Equal(t, tt.plugin.Type, got.Type)
			assert.True(t, tt.plugin.Mtime.Truncate(time.Second).Equal(got.Mtime), "mtime %v != %v", tt.plugin.Mtime, got.Mtime)
			assert.Equal(t, tt.plugin.Size, got.Size)
		})
	}
}

func TestPlugin_UnmarshalCatalogEntry(t *testing.T) {
	data := []byte(`{"name":"rcp-be-lol-game-data","type":"directory","mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`)

	var p domain.Plugin
	require.NoError(t, json.Unmarshal(data, &p))

	assert.Equal(t, domain.PluginRcpBeLolGameData, p.Name)
	assert.Equal(t, domain.PluginTypeDirectory, p.Type)
	assert.True(t, time.Date(2024, 6, 1, 10, 11, 12, 0, time.UTC).Equal(p.Mtime))
	assert.Equal(t, time.UTC, p.Mtime.Location())
	assert.Nil(t, p.Size)
}

func TestPlugin_UnknownNameFallsBackToManifest(t *testing.T) {
	data := []byte(`{"name":"rcp-fe-lol-brand-new","type":"file","mtime":"Sat, 01 Jun 2024 10:11:12 GMT","size":12}`)

	var p domain.Plugin
	require.NoError(t, json.Unmarshal(data, &p))

	assert.Equal(t, domain.PluginManifest, p.Name)
	assert.False(t, p.Name.Known())
	require.NotNil(t, p.Size)
	assert.Equal(t, int64(12), *p.Size)
}

func TestLookupPluginName(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.PluginName
		wantErr bool
	}{
		{input: "rcp-be-lol-game-data", want: domain.PluginRcpBeLolGameData},
		{input: "plugin-manifest", want: domain.PluginManifest},
		{input: "rcp-be-lol-game-dat", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.LookupPluginName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownPlugin)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlugin_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unparseable mtime",
			data: `{"name":"rcp-fe-audio","type":"file","mtime":"2024-06-01T10:11:12Z"}`,
		},
		{
			name: "missing mtime",
			data: `{"name":"rcp-fe-audio","type":"file"}`,
		},
		{
			name: "unknown type",
			data: `{"name":"rcp-fe-audio","type":"symlink","mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`,
		},
		{
			name: "missing type",
			data: `{"name":"rcp-fe-audio","mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`,
		},
		{
			name: "null type",
			data: `{"name":"rcp-fe-audio","type":null,"mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`,
		},
		{
			name: "missing name",
			data: `{"type":"file","mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`,
		},
		{
			name: "null name",
			data: `{"name":null,"type":"file","mtime":"Sat, 01 Jun 2024 10:11:12 GMT"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.Plugin
			err := json.Unmarshal([]byte(tt.data), &p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrDecode), "got %v", err)
		})
	}
}

func TestParseMtime(t *testing.T) {
	got, err := domain.ParseMtime("Mon, 01 Jan 2024 00:00:00 GMT")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(got))

	_, err = domain.ParseMtime("")
	assert.ErrorIs(t, err, domain.ErrDecode)

	assert.Equal(t, "Mon, 01 Jan 2024 00:00:00 GMT", domain.FormatMtime(got))
}

func TestPlugin_UpdatedSince(t *testing.T) {
	p := domain.Plugin{Mtime: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	assert.True(t, p.UpdatedSince(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.UpdatedSince(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.UpdatedSince(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFindPlugin(t *testing.T) {
	plugins := []domain.Plugin{
		{Name: domain.PluginRcpFeAudio},
		{Name: domain.PluginRcpBeLolGameData, Type: domain.PluginTypeDirectory},
	}

	got, ok := domain.FindPlugin(plugins, domain.PluginRcpBeLolGameData)
	require.True(t, ok)
	assert.Equal(t, domain.PluginTypeDirectory, got.Type)

	_, ok = domain.FindPlugin(plugins, domain.PluginRcpFeLolLoot)
	assert.False(t, ok)

	_, ok = domain.FindPlugin(nil, domain.PluginRcpFeAudio)
	assert.False(t, ok)
}

func TestSyncStatus_Text(t *testing.T) {
	for _, s := range []domain.SyncStatus{domain.StatusUninitialized, domain.StatusOutOfDate, domain.StatusUpToDate} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got domain.SyncStatus
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s domain.SyncStatus
	assert.ErrorIs(t, s.UnmarshalText([]byte("Stale")), domain.ErrDecode)
}

func TestAggregateFetchError(t *testing.T) {
	err := error(&domain.AggregateFetchError{ID: 266, Err: domain.ErrNotFound})

	assert.ErrorIs(t, err, domain.ErrAggregateFetch)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "266")

	var aggErr *domain.AggregateFetchError
	require.True(t, errors.As(err, &aggErr))
	assert.Equal(t, uint64(266), aggErr.ID)
}
