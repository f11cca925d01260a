package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
)

type StatusHandler struct {
	statusService *service.StatusService
	defaultPlugin domain.PluginName
}

func NewStatusHandler(statusService *service.StatusService, defaultPlugin string) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		defaultPlugin: domain.ParsePluginName(defaultPlugin),
	}
}

type StatusResponse struct {
	Plugin        string            `json:"plugin"`
	Status        domain.SyncStatus `json:"status"`
	Aggregate     string            `json:"aggregate"`
	PluginCount   int               `json:"pluginCount"`
	ChampionCount int               `json:"championCount"`
}

// Get reports whether the cached copy of ?plugin= (the game data plugin by
// default) matches the remote catalog.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := h.defaultPlugin
	if p := r.URL.Query().Get("plugin"); p != "" {
		parsed, err := domain.LookupPluginName(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Unknown plugin")
			return
		}
		name = parsed
	}

	status, err := h.statusService.Check(r.Context(), name)
	if err != nil {
		log.Printf("ERROR [status.Get] plugin=%s: %v", name, err)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Plugin not found in remote catalog")
		default:
			writeError(w, http.StatusBadGateway, "Failed to reach the remote catalog")
		}
		return
	}

	snap := h.statusService.Snapshot()
	writeJSON(w, http.StatusOK, StatusResponse{
		Plugin:        name.String(),
		Status:        status,
		Aggregate:     snap.Status,
		PluginCount:   snap.PluginCount,
		ChampionCount: snap.ChampionCount,
	})
}
