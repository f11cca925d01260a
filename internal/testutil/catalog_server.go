package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
)

const gameDataPrefix = "/latest/plugins/" + config.DefaultGameDataPlugin + "/global/default/v1/"

// Request paths served by CatalogServer
const (
	PluginsPath         = "/json/latest/plugins/"
	ChampionSummaryPath = gameDataPrefix + "champion-summary.json"
)

// ChampionPath returns the request path for a single champion.
func ChampionPath(id uint64) string {
	return fmt.Sprintf("%schampions/%d.json", gameDataPrefix, id)
}

// CatalogServer is an in-process stand-in for raw.communitydragon.org.
type CatalogServer struct {
	Server *httptest.Server

	mu           sync.Mutex
	plugins      []domain.Plugin
	champions    map[uint64]domain.Champion
	rawPlugins   string
	rawSummary   string
	rawChampions map[uint64]string
	failures     map[uint64]int
	delay        time.Duration
	requests     map[string]int
	inFlight     int
	maxInFlight  int
}

// NewCatalogServer starts a fake catalog that is closed when the test ends.
func NewCatalogServer(t *testing.T) *CatalogServer {
	t.Helper()

	s := &CatalogServer{
		champions:    make(map[uint64]domain.Champion),
		rawChampions: make(map[uint64]string),
		failures:     make(map[uint64]int),
		requests:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))

	t.Cleanup(func() {
		s.Server.Close()
	})

	return s
}

func (s *CatalogServer) URL() string {
	return s.Server.URL
}

// SetPlugins replaces the plugin listing.
func (s *CatalogServer) SetPlugins(plugins ...domain.Plugin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins = plugins
	s.rawPlugins = ""
}

// SetChampions replaces the champion set served by the summary and detail endpoints.
func (s *CatalogServer) SetChampions(champions ...domain.Champion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.champions = make(map[uint64]domain.Champion, len(champions))
	for _, c := range champions {
		s.champions[c.ID] = c
	}
	s.rawSummary = ""
}

// SetRawPlugins serves body verbatim from the plugin listing.
func (s *CatalogServer) SetRawPlugins(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawPlugins = body
}

// SetRawSummary serves body verbatim from champion-summary.json.
func (s *CatalogServer) SetRawSummary(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawSummary = body
}

// SetRawChampion serves body verbatim for champion id.
func (s *CatalogServer) SetRawChampion(id uint64, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawChampions[id] = body
}

// FailChampion makes requests for champion id answer with status.
func (s *CatalogServer) FailChampion(id uint64, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = status
}

// SetDelay slows every response down by d.
func (s *CatalogServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Requests returns how many times path was requested.
func (s *CatalogServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// MaxInFlight returns the highest number of concurrent requests observed.
func (s *CatalogServer) MaxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInFlight
}

func (s *CatalogServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	delay := s.delay
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	switch {
	case r.URL.Path == PluginsPath:
		s.servePlugins(w)
	case r.URL.Path == ChampionSummaryPath:
		s.serveSummary(w)
	case strings.HasPrefix(r.URL.Path, gameDataPrefix+"champions/"):
		s.serveChampion(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *CatalogServer) servePlugins(w http.ResponseWriter) {
	s.mu.Lock()
	raw := s.rawPlugins
	plugins := s.plugins
	s.mu.Unlock()

	if raw != "" {
		writeRaw(w, raw)
		return
	}
	if plugins == nil {
		plugins = []domain.Plugin{}
	}
	writeJSON(w, plugins)
}

type summaryEntry struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Alias string   `json:"alias"`
	Roles []string `json:"roles"`
}

func (s *CatalogServer) serveSummary(w http.ResponseWriter) {
	s.mu.Lock()
	raw := s.rawSummary
	entries := []summaryEntry{{ID: -1, Name: "None", Alias: "None", Roles: []string{}}}
	ids := make([]uint64, 0, len(s.champions))
	for id := range s.champions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := s.champions[id]
		entries = append(entries, summaryEntry{ID: int64(c.ID), Name: c.Name, Alias: c.Alias, Roles: c.Roles})
	}
	s.mu.Unlock()

	if raw != "" {
		writeRaw(w, raw)
		return
	}
	writeJSON(w, entries)
}

func (s *CatalogServer) serveChampion(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, gameDataPrefix+"champions/")
	id, err := strconv.ParseUint(strings.TrimSuffix(name, ".json"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	status, failing := s.failures[id]
	raw, hasRaw := s.rawChampions[id]
	champion, ok := s.champions[id]
	s.mu.Unlock()

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
	case hasRaw:
		writeRaw(w, raw)
	case ok:
		writeJSON(w, champion)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}
