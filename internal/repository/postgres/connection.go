package postgres

import (
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables this package writes to.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&championRecord{},
		&domain.SyncRun{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Champion: NewChampionRepository(db),
		SyncRun:  NewSyncRunRepository(db),
	}
}
