package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

type SyncRunsResponse struct {
	Runs []*domain.SyncRun `json:"runs"`
}

func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	// A client hanging up must not abort a download already in progress.
	run, err := h.syncService.Sync(context.WithoutCancel(r.Context()), domain.SyncTriggerAPI)
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			writeError(w, http.StatusConflict, "A sync is already running")
			return
		}
		log.Printf("ERROR [sync.Trigger]: %v", err)
		if run != nil {
			writeJSON(w, http.StatusBadGateway, run)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to sync")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (h *SyncHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(parsed, maxRunsLimit)
	}

	runs, err := h.syncService.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("ERROR [sync.ListRuns]: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list sync runs")
		return
	}
	if runs == nil {
		runs = []*domain.SyncRun{}
	}

	writeJSON(w, http.StatusOK, SyncRunsResponse{Runs: runs})
}
