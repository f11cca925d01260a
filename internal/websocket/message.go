package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server
	MessageTypeGetStatus MessageType = "GET_STATUS"

	// Server to Client
	MessageTypeStatus        MessageType = "STATUS"
	MessageTypeSyncStarted   MessageType = "SYNC_STARTED"
	MessageTypeSyncCompleted MessageType = "SYNC_COMPLETED"
	MessageTypeSyncFailed    MessageType = "SYNC_FAILED"
	MessageTypeStatusChanged MessageType = "STATUS_CHANGED"
	MessageTypeError         MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Server to Client payloads

type StatusPayload struct {
	Status        string `json:"status"`
	PluginCount   int    `json:"pluginCount"`
	ChampionCount int    `json:"championCount"`
}

type SyncStartedPayload struct {
	RunID   uuid.UUID `json:"runId"`
	Trigger string    `json:"trigger"`
}

type SyncCompletedPayload struct {
	RunID         uuid.UUID `json:"runId"`
	PluginCount   int       `json:"pluginCount"`
	ChampionCount int       `json:"championCount"`
	DurationMs    int64     `json:"durationMs"`
}

type SyncFailedPayload struct {
	RunID uuid.UUID `json:"runId"`
	Error string    `json:"error"`
}

type StatusChangedPayload struct {
	Plugin string `json:"plugin"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
