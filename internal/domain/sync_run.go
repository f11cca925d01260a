package domain

import (
	"time"

	"github.com/google/uuid"
)

type SyncTrigger string

const (
	SyncTriggerAPI      SyncTrigger = "api"
	SyncTriggerCLI      SyncTrigger = "cli"
	SyncTriggerSchedule SyncTrigger = "schedule"
)

type SyncOutcome string

const (
	SyncOutcomeSucceeded SyncOutcome = "succeeded"
	SyncOutcomeFailed    SyncOutcome = "failed"
)

// SyncRun records one attempt at refreshing the local catalog copy.
type SyncRun struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primary_key"`
	Trigger       SyncTrigger `json:"trigger" gorm:"not null"`
	Outcome       SyncOutcome `json:"outcome" gorm:"not null;index"`
	PluginCount   int         `json:"pluginCount"`
	ChampionCount int         `json:"championCount"`
	Error         string      `json:"error,omitempty"`
	StartedAt     time.Time   `json:"startedAt" gorm:"not null;index"`
	FinishedAt    time.Time   `json:"finishedAt"`
}

func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
