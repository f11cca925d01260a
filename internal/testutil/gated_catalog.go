package testutil

import (
	"context"
	"sync"

	"github.com/dom/blitzadex/internal/domain"
)

// GatedCatalog is an in-process cdragon.Catalog whose next plugin listing
// can be held open, letting a test interleave an Update with a check that
// is already in flight.
type GatedCatalog struct {
	mu        sync.Mutex
	plugins   []domain.Plugin
	champions map[uint64]domain.Champion
	entered   chan struct{}
	release   chan struct{}
}

func NewGatedCatalog() *GatedCatalog {
	return &GatedCatalog{champions: make(map[uint64]domain.Champion)}
}

func (c *GatedCatalog) SetPlugins(plugins ...domain.Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plugins = append([]domain.Plugin(nil), plugins...)
}

func (c *GatedCatalog) SetChampions(champions ...domain.Champion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.champions = make(map[uint64]domain.Champion, len(champions))
	for _, champ := range champions {
		c.champions[champ.ID] = champ
	}
}

// HoldNext blocks the next FetchPlugins call after it has read the listing.
// entered is closed once that call is parked; closing release lets it return.
func (c *GatedCatalog) HoldNext() (entered <-chan struct{}, release chan<- struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entered = make(chan struct{})
	c.release = make(chan struct{})
	return c.entered, c.release
}

func (c *GatedCatalog) FetchPlugins(ctx context.Context) ([]domain.Plugin, error) {
	c.mu.Lock()
	plugins := append([]domain.Plugin(nil), c.plugins...)
	entered, release := c.entered, c.release
	c.entered, c.release = nil, nil
	c.mu.Unlock()

	if entered != nil {
		close(entered)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return plugins, nil
}

func (c *GatedCatalog) FetchAllChampions(ctx context.Context) (map[uint64]domain.Champion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[uint64]domain.Champion, len(c.champions))
	for id, champ := range c.champions {
		out[id] = champ
	}
	return out, nil
}
