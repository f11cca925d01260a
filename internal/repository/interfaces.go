package repository

import (
	"context"

	"github.com/dom/blitzadex/internal/domain"
)

type ChampionRepository interface {
	// ReplaceAll makes the stored set exactly champions.
	ReplaceAll(ctx context.Context, champions []domain.Champion) error
	UpsertMany(ctx context.Context, champions []domain.Champion) error
	GetAll(ctx context.Context) ([]domain.Champion, error)
	GetByID(ctx context.Context, id uint64) (*domain.Champion, error)
	Count(ctx context.Context) (int64, error)
}

type SyncRunRepository interface {
	Create(ctx context.Context, run *domain.SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)
	LatestSuccessful(ctx context.Context) (*domain.SyncRun, error)
}

type Repositories struct {
	Champion ChampionRepository
	SyncRun  SyncRunRepository
}
