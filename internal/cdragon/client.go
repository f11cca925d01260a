package cdragon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/metrics"
	"github.com/go-playground/validator/v10"
)

// Client talks to a CommunityDragon-style catalog. It keeps no state between
// calls beyond the shared *http.Client, so one Client can serve many
// concurrent fetches.
type Client struct {
	baseURL        string
	gameDataPlugin string
	concurrency    int
	httpClient     *http.Client
	validate       *validator.Validate
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.CatalogURL, "/"),
		gameDataPlugin: cfg.GameDataPlugin,
		concurrency:    cfg.FetchConcurrency,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *Client) pluginsURL() string {
	return c.baseURL + "/json/latest/plugins/"
}

func (c *Client) gameDataURL() string {
	return fmt.Sprintf("%s/latest/plugins/%s/global/default/v1", c.baseURL, c.gameDataPlugin)
}

// FetchPlugins lists every plugin the catalog publishes.
func (c *Client) FetchPlugins(ctx context.Context) ([]domain.Plugin, error) {
	var plugins []domain.Plugin
	if err := c.getJSON(ctx, metrics.EndpointPlugins, c.pluginsURL(), &plugins); err != nil {
		return nil, fmt.Errorf("failed to fetch plugins: %w", err)
	}
	return plugins, nil
}

type championSummaryEntry struct {
	ID *uint64 `json:"id"`
}

// FetchChampionIDs returns the ids from champion-summary.json. The first
// entry of that file is a placeholder and is always skipped.
func (c *Client) FetchChampionIDs(ctx context.Context) ([]uint64, error) {
	var summary []json.RawMessage
	if err := c.getJSON(ctx, metrics.EndpointChampionSummary, c.gameDataURL()+"/champion-summary.json", &summary); err != nil {
		return nil, fmt.Errorf("failed to fetch champion summary: %w", err)
	}
	return championIDs(summary)
}

func championIDs(summary []json.RawMessage) ([]uint64, error) {
	if len(summary) <= 1 {
		return []uint64{}, nil
	}

	ids := make([]uint64, 0, len(summary)-1)
	for i, raw := range summary[1:] {
		var entry championSummaryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%w: champion summary entry %d: %w", domain.ErrDecode, i+1, err)
		}
		if entry.ID == nil {
			return nil, fmt.Errorf("%w: champion summary entry %d has no id", domain.ErrDecode, i+1)
		}
		ids = append(ids, *entry.ID)
	}
	return ids, nil
}

// FetchChampion fetches and validates a single champion record.
func (c *Client) FetchChampion(ctx context.Context, id uint64) (domain.Champion, error) {
	var champion domain.Champion
	url := fmt.Sprintf("%s/champions/%d.json", c.gameDataURL(), id)
	if err := c.getJSON(ctx, metrics.EndpointChampion, url, &champion); err != nil {
		return domain.Champion{}, fmt.Errorf("failed to fetch champion %d: %w", id, err)
	}
	if err := c.validate.Struct(champion); err != nil {
		return domain.Champion{}, fmt.Errorf("%w: champion %d: %w", domain.ErrDecode, id, err)
	}
	if champion.ID != id {
		return domain.Champion{}, fmt.Errorf("%w: requested champion %d but got %d", domain.ErrDecode, id, champion.ID)
	}
	return champion, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	start := time.Now()
	err := c.doGetJSON(ctx, url, v)
	metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
	return err
}

func (c *Client) doGetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", domain.ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s", domain.ErrNotFound, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: GET %s: unexpected status %d", domain.ErrNetwork, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", domain.ErrNetwork, url, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		if errors.Is(err, domain.ErrDecode) {
			return fmt.Errorf("GET %s: %w", url, err)
		}
		return fmt.Errorf("%w: GET %s: %w", domain.ErrDecode, url, err)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrDecode):
		return metrics.OutcomeDecode
	case errors.Is(err, domain.ErrNetwork):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeFailure
	}
}
