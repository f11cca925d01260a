package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans sync events out to every connected client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	status     func() StatusPayload
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetStatusProvider installs the callback used to answer GET_STATUS and to
// greet new clients.
func (h *Hub) SetStatusProvider(fn func() StatusPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fn
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			stopped := h.stopped
			if !stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()
			if stopped {
				client.Close()
				continue
			}
			client.sendStatus()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(data) {
					// Slow consumer; drop it rather than stall everyone else.
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop gracefully shuts down the hub and closes every client.
// It blocks until the hub has fully shut down.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done // Wait for Run() to finish
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues msg for every connected client. It never blocks on a
// stopped hub.
func (h *Hub) Broadcast(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ERROR [hub.Broadcast] failed to marshal %s: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Publish builds a message from payload and broadcasts it.
func (h *Hub) Publish(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("ERROR [hub.Publish] type=%s: %v", msgType, err)
		return
	}
	h.Broadcast(msg)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) currentStatus() (StatusPayload, bool) {
	h.mu.RLock()
	fn := h.status
	h.mu.RUnlock()
	if fn == nil {
		return StatusPayload{}, false
	}
	return fn(), true
}
