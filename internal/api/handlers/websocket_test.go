package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blitzadex/internal/domain"
	"github.com/dom/blitzadex/internal/testutil"
	"github.com/dom/blitzadex/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocket_SyncEvents(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewWSClient(t, ts.WebSocketURL())

	// New clients are greeted with the current status.
	status := client.ExpectStatus(2 * time.Second)
	assert.Equal(t, domain.StatusUninitialized.String(), status.Status)

	require.Eventually(t, func() bool {
		return ts.Hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	run := ts.Sync(t)

	var started websocket.SyncStartedPayload
	client.ExpectPayload(websocket.MessageTypeSyncStarted, &started, 2*time.Second)
	assert.Equal(t, run.ID, started.RunID)
	assert.Equal(t, string(domain.SyncTriggerCLI), started.Trigger)

	var completed websocket.SyncCompletedPayload
	client.ExpectPayload(websocket.MessageTypeSyncCompleted, &completed, 2*time.Second)
	assert.Equal(t, run.ID, completed.RunID)
	assert.Equal(t, 5, completed.ChampionCount)

	client.Send(websocket.MessageTypeGetStatus, nil)
	status = client.ExpectStatus(2 * time.Second)
	assert.Equal(t, domain.StatusUpToDate.String(), status.Status)
	assert.Equal(t, 5, status.ChampionCount)
}

func TestWebSocket_SyncFailedEvent(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewWSClient(t, ts.WebSocketURL())
	client.ExpectStatus(2 * time.Second)

	ts.Catalog.FailChampion(1, 500)
	_, err := ts.Services.Sync.Sync(context.Background(), domain.SyncTriggerAPI)
	require.Error(t, err)

	var failed websocket.SyncFailedPayload
	client.ExpectPayload(websocket.MessageTypeSyncFailed, &failed, 2*time.Second)
	assert.Contains(t, failed.Error, "failed to update champions")
}

func TestWebSocket_RejectsUnknownMessages(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewWSClient(t, ts.WebSocketURL())
	client.ExpectStatus(2 * time.Second)

	client.Send("SELECT_CHAMPION", map[string]string{"championId": "1"})
	errPayload := client.ExpectError(2 * time.Second)
	assert.Equal(t, "UNKNOWN_MESSAGE", errPayload.Code)

	client.SendRaw("{not json")
	errPayload = client.ExpectError(2 * time.Second)
	assert.Equal(t, "INVALID_MESSAGE", errPayload.Code)
}
