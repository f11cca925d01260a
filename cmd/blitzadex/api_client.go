package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dom/blitzadex/internal/domain"
)

// APIClient handles HTTP communication with a blitzadex server
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // a full sync downloads every champion
		},
	}
}

// Response types matching the server

type RemoteStatus struct {
	Plugin        string            `json:"plugin"`
	Status        domain.SyncStatus `json:"status"`
	Aggregate     string            `json:"aggregate"`
	PluginCount   int               `json:"pluginCount"`
	ChampionCount int               `json:"championCount"`
}

type remoteRuns struct {
	Runs []*domain.SyncRun `json:"runs"`
}

type remoteError struct {
	Error string `json:"error"`
}

// Status asks the server whether its copy of plugin is current. An empty
// plugin uses the server's default.
func (c *APIClient) Status(ctx context.Context, plugin string) (*RemoteStatus, error) {
	path := "/status"
	if plugin != "" {
		path += "?plugin=" + url.QueryEscape(plugin)
	}

	var result RemoteStatus
	if err := c.do(ctx, http.MethodGet, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Sync triggers a sync on the server and waits for it to finish.
func (c *APIClient) Sync(ctx context.Context) (*domain.SyncRun, error) {
	var run domain.SyncRun
	if err := c.do(ctx, http.MethodPost, "/sync", &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Runs lists the most recent sync runs, newest first.
func (c *APIClient) Runs(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	var result remoteRuns
	if err := c.do(ctx, http.MethodGet, "/sync/runs?limit="+strconv.Itoa(limit), &result); err != nil {
		return nil, err
	}
	return result.Runs, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr remoteError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
