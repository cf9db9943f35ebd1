package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"workshopzones/internal/metrics"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Dashboard message types
const (
	MsgSnapshot      MessageType = "snapshot"
	MsgAnalysisReady MessageType = "analysis_ready"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans analysis events out to the dashboards watching each workshop
type Hub struct {
	// Workshop -> dashboards
	groups map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Connection represents a dashboard WebSocket connection
type Connection struct {
	GroupID string
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	GroupID string
	Message *Message
}

// NewHub creates a new WebSocket hub and starts its event loop
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		groups:     make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Named("ws"),
		metrics:    m,
	}
	go h.run()
	return h
}

// NewConnection creates a dashboard connection for groupID
func (h *Hub) NewConnection(groupID string) *Connection {
	return &Connection{
		GroupID: groupID,
		Send:    make(chan []byte, 256),
		Hub:     h,
	}
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.groups[conn.GroupID] == nil {
				h.groups[conn.GroupID] = make(map[*Connection]struct{})
			}
			h.groups[conn.GroupID][conn] = struct{}{}
			h.mu.Unlock()
			h.metrics.DashboardConnected()
			h.logger.Debug("dashboard connected", zap.String("group_id", conn.GroupID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.groups[conn.GroupID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.groups, conn.GroupID)
					}
					h.metrics.DashboardDisconnected()
					h.logger.Debug("dashboard disconnected", zap.String("group_id", conn.GroupID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("failed to encode broadcast", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.groups[msg.GroupID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for groupID, conns := range h.groups {
				for conn := range conns {
					close(conn.Send)
					h.metrics.DashboardDisconnected()
				}
				delete(h.groups, groupID)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection. After Close the connection is closed at once.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.quit:
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

// BroadcastToGroup sends a message to every dashboard of a workshop
// (implements service.Broadcaster)
func (h *Hub) BroadcastToGroup(groupID string, msgType string, payload interface{}) {
	msg, err := NewMessage(MessageType(msgType), payload)
	if err != nil {
		h.logger.Error("failed to encode payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{GroupID: groupID, Message: msg}:
	case <-h.quit:
	}
}

// ConnectionCount reports how many dashboards watch groupID
func (h *Hub) ConnectionCount(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// Close stops the event loop and closes every connection. It is safe to
// call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.done
}

// NewMessage wraps payload in the envelope format
func NewMessage(t MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Payload: data}, nil
}
