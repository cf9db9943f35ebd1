package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToGroup(groupID string, msgType string, payload interface{})
}

// Dashboard event types
const (
	EventAnalysisReady = "analysis_ready"
)
