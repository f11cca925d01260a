package cdragon

import (
	"context"
	"fmt"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// FetchChampions fetches every id concurrently and collects the results by id.
// The first failing fetch cancels the rest and is returned as an
// *domain.AggregateFetchError; no partial map is ever returned.
func (c *Client) FetchChampions(ctx context.Context, ids []uint64) (map[uint64]domain.Champion, error) {
	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	// Each goroutine owns one slot, so no locking is needed.
	results := make([]domain.Champion, len(ids))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			metrics.ChampionFetchesInFlight.Inc()
			defer metrics.ChampionFetchesInFlight.Dec()

			champion, err := c.FetchChampion(gctx, id)
			if err != nil {
				return &domain.AggregateFetchError{ID: id, Err: err}
			}
			results[i] = champion
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	champions := make(map[uint64]domain.Champion, len(results))
	for _, champion := range results {
		champions[champion.ID] = champion
	}
	return champions, nil
}

// FetchAllChampions resolves the champion id list and fetches every champion.
func (c *Client) FetchAllChampions(ctx context.Context) (map[uint64]domain.Champion, error) {
	ids, err := c.FetchChampionIDs(ctx)
	if err != nil {
		return nil, err
	}
	champions, err := c.FetchChampions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %d champions: %w", len(ids), err)
	}
	return champions, nil
}
