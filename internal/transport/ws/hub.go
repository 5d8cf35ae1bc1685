package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message types sent to submission listeners
const (
	MsgProgress MessageType = "progress"
	MsgResult   MessageType = "result"
	MsgError    MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans submission progress out to WebSocket listeners
type Hub struct {
	// submission id -> listeners
	conns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SubmissionID string
	Send         chan []byte
	Hub          *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SubmissionID string
	Message      *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, listeners := range h.conns {
				for conn := range listeners {
					close(conn.Send)
				}
				delete(h.conns, id)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SubmissionID] == nil {
				h.conns[conn.SubmissionID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SubmissionID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("[WS] Listener connected to submission %s", conn.SubmissionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if listeners, ok := h.conns[conn.SubmissionID]; ok {
				if _, ok := listeners[conn]; ok {
					delete(listeners, conn)
					close(conn.Send)
					if len(listeners) == 0 {
						delete(h.conns, conn.SubmissionID)
					}
					log.Printf("[WS] Listener disconnected from submission %s", conn.SubmissionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.SubmissionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Publish queues a message for the listeners of a submission
// (implements service.Broadcaster). It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Publish(submissionID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Failed to encode %s message: %v", msgType, err)
		return
	}
	msg := &BroadcastMessage{
		SubmissionID: submissionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		log.Printf("[WS] Broadcast queue full, dropping %s message for %s", msgType, submissionID)
	}
}

// Listeners returns the number of connections following a submission
func (h *Hub) Listeners(submissionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[submissionID])
}

// Close disconnects every listener and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
