package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository/memory"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChampionRepository(t *testing.T) {
	repo := memory.NewChampionRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpsertMany(ctx, testutil.SeedChampions(3)))
	require.NoError(t, repo.ReplaceAll(ctx, testutil.RealChampions()))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}

	got, err := repo.GetByID(ctx, 103)
	require.NoError(t, err)
	assert.Equal(t, "Ahri", got.Name)

	_, err = repo.GetByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestSyncRunRepository(t *testing.T) {
	repo := memory.NewSyncRunRepository()
	ctx := context.Background()

	_, err := repo.LatestSuccessful(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	base := time.Now()
	outcomes := []domain.SyncOutcome{domain.SyncOutcomeSucceeded, domain.SyncOutcomeSucceeded, domain.SyncOutcomeFailed}
	ids := make([]uuid.UUID, len(outcomes))
	for i, outcome := range outcomes {
		ids[i] = uuid.New()
		require.NoError(t, repo.Create(ctx, &domain.SyncRun{
			ID:        ids[i],
			Outcome:   outcome,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	latest, err := repo.LatestSuccessful(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[1], latest.ID)
}
