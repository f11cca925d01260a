package cdragon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dom/blitzadex/internal/cache"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
)

// Cache file names
const (
	PluginsFile   = "plugins.json"
	ChampionsFile = "champion_details.json"
)

// Catalog is the remote side of a sync. *Client implements it.
type Catalog interface {
	FetchPlugins(ctx context.Context) ([]domain.Plugin, error)
	FetchAllChampions(ctx context.Context) (map[uint64]domain.Champion, error)
}

// CDragon holds the local copy of the catalog: the last fetched plugin list
// and champion map plus a SyncStatus describing how they relate to the
// remote catalog.
type CDragon struct {
	catalog Catalog
	cache   *cache.Disk
	paths   config.Paths

	// updateMu serialises Update so only one writer touches the cache dir.
	updateMu sync.Mutex

	mu        sync.RWMutex
	gen       uint64 // bumped by every committed Update
	status    domain.SyncStatus
	plugins   []domain.Plugin
	champions map[uint64]domain.Champion
}

func New(catalog Catalog, paths config.Paths) *CDragon {
	return &CDragon{
		catalog:   catalog,
		cache:     cache.NewDisk(paths.CacheDir),
		paths:     paths,
		status:    domain.StatusUninitialized,
		champions: make(map[uint64]domain.Champion),
	}
}

func (d *CDragon) Paths() config.Paths {
	return d.paths
}

// Generation counts committed updates. A result computed while the
// generation moved may describe a cache that has since been replaced.
func (d *CDragon) Generation() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gen
}

func (d *CDragon) Status() domain.SyncStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Plugins returns a copy of the plugin list from the last update or cache load.
func (d *CDragon) Plugins() []domain.Plugin {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Plugin, len(d.plugins))
	copy(out, d.plugins)
	return out
}

func (d *CDragon) Plugin(name domain.PluginName) (domain.Plugin, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return domain.FindPlugin(d.plugins, name)
}

// Champions returns the held champions sorted by name.
func (d *CDragon) Champions() []domain.Champion {
	d.mu.RLock()
	out := make([]domain.Champion, 0, len(d.champions))
	for _, c := range d.champions {
		out = append(out, c)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (d *CDragon) Champion(id uint64) (domain.Champion, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.champions[id]
	return c, ok
}

// ChampionMap returns a copy of the id to champion map.
func (d *CDragon) ChampionMap() map[uint64]domain.Champion {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[uint64]domain.Champion, len(d.champions))
	for id, c := range d.champions {
		out[id] = c
	}
	return out
}

// cachedPlugins reads plugins.json. A missing or unreadable cache is reported
// as (nil, nil) so callers treat it as a cold start.
func (d *CDragon) cachedPlugins() ([]domain.Plugin, error) {
	var plugins []domain.Plugin
	err := d.cache.Load(PluginsFile, &plugins)
	switch {
	case err == nil:
		if plugins == nil {
			plugins = []domain.Plugin{}
		}
		return plugins, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDecode):
		return nil, nil
	default:
		return nil, err
	}
}

// Freshness compares the cached mtime of plugin name with the one the
// catalog currently reports. It never writes to the cache or changes the
// aggregate's status, and it only hits the network when the plugin is cached.
func (d *CDragon) Freshness(ctx context.Context, name domain.PluginName) (domain.SyncStatus, error) {
	cached, err := d.cachedPlugins()
	if err != nil {
		return domain.StatusUninitialized, fmt.Errorf("failed to read cached plugins: %w", err)
	}
	if _, ok := domain.FindPlugin(cached, name); !ok {
		return domain.StatusOutOfDate, nil
	}

	remote, err := d.catalog.FetchPlugins(ctx)
	if err != nil {
		return domain.StatusUninitialized, fmt.Errorf("failed to check when %s was last updated: %w", name, err)
	}

	status, err := EvaluateFreshness(cached, remote, name)
	if err != nil {
		return domain.StatusUninitialized, fmt.Errorf("failed to check when %s was last updated: %w", name, err)
	}
	return status, nil
}

// CheckStatus runs Freshness and folds the result into the aggregate. An
// OutOfDate result demotes the status; UpToDate is only ever set by Update.
// A result that raced with a committed Update is returned but not folded in.
func (d *CDragon) CheckStatus(ctx context.Context, name domain.PluginName) (domain.SyncStatus, error) {
	gen := d.Generation()
	status, err := d.Freshness(ctx, name)
	if err != nil {
		return status, err
	}
	if status == domain.StatusOutOfDate {
		d.mu.Lock()
		if d.gen == gen {
			d.status = domain.StatusOutOfDate
		}
		d.mu.Unlock()
	}
	return status, nil
}

// LoadCached populates plugins and champions from the disk cache without
// touching the network. The status is left alone.
func (d *CDragon) LoadCached() error {
	var plugins []domain.Plugin
	if err := d.cache.Load(PluginsFile, &plugins); err != nil {
		return fmt.Errorf("failed to load cached plugins: %w", err)
	}
	var champions map[uint64]domain.Champion
	if err := d.cache.Load(ChampionsFile, &champions); err != nil {
		return fmt.Errorf("failed to load cached champions: %w", err)
	}
	if champions == nil {
		champions = make(map[uint64]domain.Champion)
	}

	d.mu.Lock()
	d.plugins = plugins
	d.champions = champions
	d.mu.Unlock()
	return nil
}

// Update fetches the plugin list and every champion, writes both cache files
// and marks the aggregate UpToDate.
//
// Nothing is written until both fetches succeed, and plugins.json is written
// last: it carries the mtimes Freshness compares against, so it must never
// claim data that champion_details.json doesn't hold.
func (d *CDragon) Update(ctx context.Context) error {
	d.updateMu.Lock()
	defer d.updateMu.Unlock()

	plugins, err := d.catalog.FetchPlugins(ctx)
	if err != nil {
		return fmt.Errorf("failed to update plugins: %w", err)
	}

	champions, err := d.catalog.FetchAllChampions(ctx)
	if err != nil {
		return fmt.Errorf("failed to update champions: %w", err)
	}

	if err := d.cache.Save(ChampionsFile, champions); err != nil {
		return fmt.Errorf("failed to cache the updated champions: %w", err)
	}
	if err := d.cache.Save(PluginsFile, plugins); err != nil {
		return fmt.Errorf("failed to cache the updated plugins: %w", err)
	}

	d.mu.Lock()
	d.plugins = plugins
	d.champions = champions
	d.status = domain.StatusUpToDate
	d.gen++
	d.mu.Unlock()
	return nil
}
