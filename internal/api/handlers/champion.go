package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
	"github.com/go-chi/chi/v5"
)

type ChampionHandler struct {
	catalogService *service.CatalogService
}

func NewChampionHandler(catalogService *service.CatalogService) *ChampionHandler {
	return &ChampionHandler{catalogService: catalogService}
}

type ChampionsResponse struct {
	Champions []domain.Champion `json:"champions"`
	Count     int               `json:"count"`
}

func (h *ChampionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	filter := service.ChampionFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("q"),
	}

	champions, err := h.catalogService.ListChampions(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR [champion.GetAll]: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get champions")
		return
	}

	writeJSON(w, http.StatusOK, ChampionsResponse{
		Champions: champions,
		Count:     len(champions),
	})
}

func (h *ChampionHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid champion ID")
		return
	}

	champion, err := h.catalogService.GetChampion(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Champion not found")
			return
		}
		log.Printf("ERROR [champion.Get] championID=%d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get champion")
		return
	}

	writeJSON(w, http.StatusOK, champion)
}
