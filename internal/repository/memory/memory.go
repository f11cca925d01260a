// Package memory holds process-local repositories used when no database is
// configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository"
)

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Champion: NewChampionRepository(),
		SyncRun:  NewSyncRunRepository(),
	}
}

type championRepository struct {
	mu        sync.RWMutex
	champions map[uint64]domain.Champion
}

func NewChampionRepository() *championRepository {
	return &championRepository{champions: make(map[uint64]domain.Champion)}
}

func (r *championRepository) ReplaceAll(ctx context.Context, champions []domain.Champion) error {
	next := make(map[uint64]domain.Champion, len(champions))
	for _, c := range champions {
		next[c.ID] = c
	}
	r.mu.Lock()
	r.champions = next
	r.mu.Unlock()
	return nil
}

func (r *championRepository) UpsertMany(ctx context.Context, champions []domain.Champion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range champions {
		r.champions[c.ID] = c
	}
	return nil
}

func (r *championRepository) GetAll(ctx context.Context) ([]domain.Champion, error) {
	r.mu.RLock()
	out := make([]domain.Champion, 0, len(r.champions))
	for _, c := range r.champions {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *championRepository) GetByID(ctx context.Context, id uint64) (*domain.Champion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.champions[id]
	if !ok {
		return nil, fmt.Errorf("%w: champion %d", domain.ErrNotFound, id)
	}
	return &c, nil
}

func (r *championRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.champions)), nil
}

// maxSyncRuns bounds how much history is kept in memory.
const maxSyncRuns = 100

type syncRunRepository struct {
	mu   sync.RWMutex
	runs []*domain.SyncRun
}

func NewSyncRunRepository() *syncRunRepository {
	return &syncRunRepository{}
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *run
	r.runs = append(r.runs, &stored)
	sort.SliceStable(r.runs, func(i, j int) bool { return r.runs[i].StartedAt.After(r.runs[j].StartedAt) })
	if len(r.runs) > maxSyncRuns {
		r.runs = r.runs[:maxSyncRuns]
	}
	return nil
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	out := make([]*domain.SyncRun, limit)
	for i := range out {
		run := *r.runs[i]
		out[i] = &run
	}
	return out, nil
}

func (r *syncRunRepository) LatestSuccessful(ctx context.Context) (*domain.SyncRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.runs {
		if run.Outcome == domain.SyncOutcomeSucceeded {
			out := *run
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: no successful sync run", domain.ErrNotFound)
}
