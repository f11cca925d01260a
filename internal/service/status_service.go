package service

import (
	"context"

	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/metrics"
	"github.com/dom/blitzadex/internal/websocket"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const statusCacheSize = 64

// StatusService fronts CDragon.CheckStatus with a short-lived cache so that
// polling clients don't each cost a plugin listing request.
type StatusService struct {
	dragon *cdragon.CDragon
	hub    *websocket.Hub
	cache  *expirable.LRU[domain.PluginName, domain.SyncStatus] // nil when StatusTTL is 0
}

func NewStatusService(dragon *cdragon.CDragon, hub *websocket.Hub, cfg *config.Config) *StatusService {
	s := &StatusService{
		dragon: dragon,
		hub:    hub,
	}
	if cfg.StatusTTL > 0 {
		s.cache = expirable.NewLRU[domain.PluginName, domain.SyncStatus](statusCacheSize, nil, cfg.StatusTTL)
	}
	return s
}

// Check reports whether the cached copy of plugin name is current. A fresh
// answer is remembered until StatusTTL elapses or the next sync.
func (s *StatusService) Check(ctx context.Context, name domain.PluginName) (domain.SyncStatus, error) {
	if s.cache != nil {
		if status, ok := s.cache.Get(name); ok {
			return status, nil
		}
	}

	gen := s.dragon.Generation()
	before := s.dragon.Status()
	status, err := s.dragon.CheckStatus(ctx, name)
	if err != nil {
		metrics.FreshnessChecksTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return status, err
	}
	metrics.FreshnessChecksTotal.WithLabelValues(status.String()).Inc()

	// An update committed mid-check makes this answer stale.
	if s.cache != nil && s.dragon.Generation() == gen {
		s.cache.Add(name, status)
	}

	if after := s.dragon.Status(); after != before && s.hub != nil {
		s.hub.Publish(websocket.MessageTypeStatusChanged, websocket.StatusChangedPayload{
			Plugin: name.String(),
			From:   before.String(),
			To:     after.String(),
		})
	}
	return status, nil
}

// Invalidate forgets every remembered answer.
func (s *StatusService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *StatusService) Snapshot() websocket.StatusPayload {
	return websocket.StatusPayload{
		Status:        s.dragon.Status().String(),
		PluginCount:   len(s.dragon.Plugins()),
		ChampionCount: len(s.dragon.ChampionMap()),
	}
}
