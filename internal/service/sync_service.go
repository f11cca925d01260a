package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/metrics"
	"github.com/dom/blitzadex/internal/repository"
	"github.com/dom/blitzadex/internal/websocket"
	"github.com/google/uuid"
)

type SyncService struct {
	dragon       *cdragon.CDragon
	championRepo repository.ChampionRepository
	syncRunRepo  repository.SyncRunRepository
	hub          *websocket.Hub
	status       *StatusService
	plugin       domain.PluginName

	running sync.Mutex
}

func NewSyncService(dragon *cdragon.CDragon, repos *repository.Repositories, hub *websocket.Hub, status *StatusService, cfg *config.Config) *SyncService {
	return &SyncService{
		dragon:       dragon,
		championRepo: repos.Champion,
		syncRunRepo:  repos.SyncRun,
		hub:          hub,
		status:       status,
		plugin:       domain.ParsePluginName(cfg.GameDataPlugin),
	}
}

// Sync runs CDragon.Update, mirrors the result into the champion repository
// and records the attempt. Only one sync runs at a time; a second caller gets
// ErrSyncInProgress instead of queueing behind the first.
//
// The returned run is non-nil whenever the attempt was started, including
// when it failed.
func (s *SyncService) Sync(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Unlock()

	run := &domain.SyncRun{
		ID:        uuid.New(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
	s.publish(websocket.MessageTypeSyncStarted, websocket.SyncStartedPayload{
		RunID:   run.ID,
		Trigger: string(trigger),
	})

	err := s.dragon.Update(ctx)
	run.FinishedAt = time.Now().UTC()
	metrics.SyncDuration.Observe(run.Duration().Seconds())

	if err != nil {
		run.Outcome = domain.SyncOutcomeFailed
		run.Error = err.Error()
		log.Printf("ERROR [service.Sync] run=%s trigger=%s: %v", run.ID, trigger, err)
		metrics.SyncRunsTotal.WithLabelValues(string(trigger), metrics.OutcomeFailure).Inc()
		s.record(ctx, run)
		s.publish(websocket.MessageTypeSyncFailed, websocket.SyncFailedPayload{
			RunID: run.ID,
			Error: run.Error,
		})
		return run, fmt.Errorf("failed to sync catalog: %w", err)
	}

	champions := s.dragon.Champions()
	run.Outcome = domain.SyncOutcomeSucceeded
	run.PluginCount = len(s.dragon.Plugins())
	run.ChampionCount = len(champions)

	// The disk cache is authoritative; a failed mirror is logged, not fatal.
	if err := s.championRepo.ReplaceAll(ctx, champions); err != nil {
		log.Printf("ERROR [service.Sync] failed to mirror %d champions: %v", len(champions), err)
	}

	metrics.SyncRunsTotal.WithLabelValues(string(trigger), metrics.OutcomeSuccess).Inc()
	metrics.ChampionsCached.Set(float64(run.ChampionCount))
	s.status.Invalidate()
	s.record(ctx, run)
	s.publish(websocket.MessageTypeSyncCompleted, websocket.SyncCompletedPayload{
		RunID:         run.ID,
		PluginCount:   run.PluginCount,
		ChampionCount: run.ChampionCount,
		DurationMs:    run.Duration().Milliseconds(),
	})

	log.Printf("Sync %s (%s) finished: %d plugins, %d champions in %s",
		run.ID, trigger, run.PluginCount, run.ChampionCount, run.Duration().Round(time.Millisecond))
	return run, nil
}

// SyncIfStale checks the configured plugin and syncs only when it is out of
// date.
func (s *SyncService) SyncIfStale(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	status, err := s.status.Check(ctx, s.plugin)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", s.plugin, err)
	}
	if status == domain.StatusUpToDate {
		return nil, nil
	}
	return s.Sync(ctx, trigger)
}

// RunPeriodic calls SyncIfStale every interval until ctx is cancelled.
func (s *SyncService) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.status.Invalidate()
			if _, err := s.SyncIfStale(ctx, domain.SyncTriggerSchedule); err != nil {
				log.Printf("ERROR [service.RunPeriodic] %v", err)
			}
		}
	}
}

func (s *SyncService) ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	return s.syncRunRepo.ListRecent(ctx, limit)
}

func (s *SyncService) LastSuccessful(ctx context.Context) (*domain.SyncRun, error) {
	return s.syncRunRepo.LatestSuccessful(ctx)
}

func (s *SyncService) record(ctx context.Context, run *domain.SyncRun) {
	if err := s.syncRunRepo.Create(ctx, run); err != nil {
		log.Printf("ERROR [service.Sync] failed to record run %s: %v", run.ID, err)
	}
}

func (s *SyncService) publish(msgType websocket.MessageType, payload interface{}) {
	if s.hub != nil {
		s.hub.Publish(msgType, payload)
	}
}
