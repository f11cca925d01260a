package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/blitzadex/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// championRecord is the row layout for domain.Champion.
type championRecord struct {
	ID                 uint64               `gorm:"primaryKey;autoIncrement:false"`
	Name               string               `gorm:"not null;index"`
	Alias              string               `gorm:"not null"`
	Title              string
	ShortBio           string
	TacticalInfo       domain.TacticalInfo  `gorm:"embedded;embeddedPrefix:tactical_"`
	PlaystyleInfo      domain.PlaystyleInfo `gorm:"embedded;embeddedPrefix:playstyle_"`
	SquarePortraitPath string
	StingerSfxPath     string
	ChooseVoPath       string
	BanVoPath          string
	Roles              datatypes.JSON `gorm:"type:jsonb"`
	LastSyncedAt       time.Time
}

func (championRecord) TableName() string {
	return "champions"
}

func toRecord(c domain.Champion, syncedAt time.Time) (championRecord, error) {
	roles := c.Roles
	if roles == nil {
		roles = []string{}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return championRecord{}, err
	}
	return championRecord{
		ID:                 c.ID,
		Name:               c.Name,
		Alias:              c.Alias,
		Title:              c.Title,
		ShortBio:           c.ShortBio,
		TacticalInfo:       c.TacticalInfo,
		PlaystyleInfo:      c.PlaystyleInfo,
		SquarePortraitPath: c.SquarePortraitPath,
		StingerSfxPath:     c.StingerSfxPath,
		ChooseVoPath:       c.ChooseVoPath,
		BanVoPath:          c.BanVoPath,
		Roles:              datatypes.JSON(rolesJSON),
		LastSyncedAt:       syncedAt,
	}, nil
}

func (r championRecord) toDomain() (domain.Champion, error) {
	var roles []string
	if len(r.Roles) > 0 {
		if err := json.Unmarshal(r.Roles, &roles); err != nil {
			return domain.Champion{}, fmt.Errorf("champion %d roles: %w", r.ID, err)
		}
	}
	return domain.Champion{
		ID:                 r.ID,
		Name:               r.Name,
		Alias:              r.Alias,
		Title:              r.Title,
		ShortBio:           r.ShortBio,
		TacticalInfo:       r.TacticalInfo,
		PlaystyleInfo:      r.PlaystyleInfo,
		SquarePortraitPath: r.SquarePortraitPath,
		StingerSfxPath:     r.StingerSfxPath,
		ChooseVoPath:       r.ChooseVoPath,
		BanVoPath:          r.BanVoPath,
		Roles:              roles,
	}, nil
}

type championRepository struct {
	db *gorm.DB
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{db: db}
}

func upsertChampions(tx *gorm.DB, champions []domain.Champion) error {
	if len(champions) == 0 {
		return nil
	}

	now := time.Now()
	records := make([]championRecord, len(champions))
	for i, c := range champions {
		record, err := toRecord(c, now)
		if err != nil {
			return err
		}
		records[i] = record
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(records, 200).Error
}

func (r *championRepository) UpsertMany(ctx context.Context, champions []domain.Champion) error {
	return upsertChampions(r.db.WithContext(ctx), champions)
}

func (r *championRepository) ReplaceAll(ctx context.Context, champions []domain.Champion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint64, len(champions))
		for i, c := range champions {
			ids[i] = c.ID
		}

		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			del = tx.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&championRecord{}).Error; err != nil {
			return err
		}

		return upsertChampions(tx, champions)
	})
}

func (r *championRepository) GetAll(ctx context.Context) ([]domain.Champion, error) {
	var records []championRecord
	err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	champions := make([]domain.Champion, len(records))
	for i, record := range records {
		c, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		champions[i] = c
	}
	return champions, nil
}

func (r *championRepository) GetByID(ctx context.Context, id uint64) (*domain.Champion, error) {
	var record championRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: champion %d", domain.ErrNotFound, id)
		}
		return nil, err
	}

	c, err := record.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *championRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&championRecord{}).Count(&count).Error
	return count, err
}
