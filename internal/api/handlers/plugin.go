package handlers

import (
	"net/http"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/service"
	"github.com/go-chi/chi/v5"
)

type PluginHandler struct {
	catalogService *service.CatalogService
}

func NewPluginHandler(catalogService *service.CatalogService) *PluginHandler {
	return &PluginHandler{catalogService: catalogService}
}

type PluginsResponse struct {
	Plugins []domain.Plugin `json:"plugins"`
}

func (h *PluginHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	plugins := h.catalogService.ListPlugins()
	if plugins == nil {
		plugins = []domain.Plugin{}
	}
	writeJSON(w, http.StatusOK, PluginsResponse{Plugins: plugins})
}

func (h *PluginHandler) Get(w http.ResponseWriter, r *http.Request) {
	name, err := domain.LookupPluginName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Plugin not found")
		return
	}

	plugin, err := h.catalogService.GetPlugin(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Plugin not found")
		return
	}

	writeJSON(w, http.StatusOK, plugin)
}
