package service

import (
	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/repository"
	"github.com/dom/blitzadex/internal/websocket"
)

type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Status  *StatusService
	Sync    *SyncService
}

// NewServices wires the service layer around dragon. hub may be nil when no
// event stream is served (the CLI).
func NewServices(dragon *cdragon.CDragon, repos *repository.Repositories, hub *websocket.Hub, cfg *config.Config) *Services {
	status := NewStatusService(dragon, hub, cfg)
	services := &Services{
		Auth:    NewAuthService(cfg),
		Catalog: NewCatalogService(dragon, repos.Champion),
		Status:  status,
		Sync:    NewSyncService(dragon, repos, hub, status, cfg),
	}
	if hub != nil {
		hub.SetStatusProvider(status.Snapshot)
	}
	return services
}
