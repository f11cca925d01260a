package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dom/blitzadex/internal/domain"
	"gorm.io/gorm"
)

type syncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) *syncRunRepository {
	return &syncRunRepository{db: db}
}

func (r *syncRunRepository) Create(ctx context.Context, run *domain.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	var runs []*domain.SyncRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *syncRunRepository) LatestSuccessful(ctx context.Context) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := r.db.WithContext(ctx).
		Where("outcome = ?", domain.SyncOutcomeSucceeded).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no successful sync run", domain.ErrNotFound)
		}
		return nil, err
	}
	return &run, nil
}
