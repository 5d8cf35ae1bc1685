package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Publish(submissionID string, msgType string, payload interface{})
}

// Progress message types
const (
	MsgProgress = "progress"
	MsgResult   = "result"
	MsgError    = "error"
)

type noopBroadcaster struct{}

func (noopBroadcaster) Publish(string, string, interface{}) {}
