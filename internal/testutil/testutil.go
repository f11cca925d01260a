package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/api"
	"github.com/dom/blitzadex/internal/cdragon"
	"github.com/dom/blitzadex/internal/config"
	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/repository"
	"github.com/dom/blitzadex/internal/repository/memory"
	repoPostgres "github.com/dom/blitzadex/internal/repository/postgres"
	"github.com/dom/blitzadex/internal/service"
	"github.com/dom/blitzadex/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs admin tokens in tests
const TestJWTSecret = "test-jwt-secret-key-for-testing-only"

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_blitzadex"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"champions", "sync_runs"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration pointed at catalogURL with per-test directories
func TestConfig(t *testing.T, catalogURL string) *config.Config {
	t.Helper()

	root := t.TempDir()
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		CatalogURL:         catalogURL,
		GameDataPlugin:     config.DefaultGameDataPlugin,
		HTTPTimeout:        5 * time.Second,
		FetchConcurrency:   8,
		StatusTTL:          time.Minute,
		JWTSecret:          TestJWTSecret,
		JWTExpirationHours: 1,
		Paths: config.Paths{
			CacheDir:  filepath.Join(root, "cache"),
			DataDir:   filepath.Join(root, "data"),
			ConfigDir: filepath.Join(root, "config"),
		},
	}
}

// NewTestDragon wires a CDragon to catalog with a fresh cache directory
func NewTestDragon(t *testing.T, catalog *CatalogServer) (*cdragon.CDragon, *config.Config) {
	t.Helper()

	cfg := TestConfig(t, catalog.URL())
	return cdragon.New(cdragon.NewClient(cfg), cfg.Paths), cfg
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Catalog  *CatalogServer
	Dragon   *cdragon.CDragon
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewTestServer creates a complete API server backed by a fake catalog and
// in-memory repositories
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	catalog := NewCatalogServer(t)
	catalog.SetPlugins(GameDataPlugin(Date(2024, time.June, 1)))
	catalog.SetChampions(RealChampions()...)

	dragon, cfg := NewTestDragon(t, catalog)
	repos := memory.NewRepositories()

	hub := websocket.NewHub()
	go hub.Run()

	services := service.NewServices(dragon, repos, hub, cfg)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Catalog:  catalog,
		Dragon:   dragon,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// Sync runs a full sync through the service layer and fails the test on error
func (ts *TestServer) Sync(t *testing.T) *domain.SyncRun {
	t.Helper()

	run, err := ts.Services.Sync.Sync(context.Background(), domain.SyncTriggerCLI)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	return run
}

// AdminToken issues a token accepted by the sync endpoint
func (ts *TestServer) AdminToken(t *testing.T) string {
	t.Helper()

	token, err := ts.Services.Auth.IssueAdminToken("test-admin")
	if err != nil {
		t.Fatalf("failed to issue admin token: %v", err)
	}
	return token
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the sync event stream URL
func (ts *TestServer) WebSocketURL() string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return wsURL + "/api/v1/ws"
}
