package control

import "github.com/junsooki/asciicam/internal/input"

// Message types of the control protocol.
const (
	TypeCommand = "command"
	TypeResult  = "result"
	TypePing    = "ping"
	TypePong    = "pong"
	TypeError   = "error"
)

// Path is where the control surface is served.
const Path = "/control"

// Message is the envelope for all control messages. Replies carry the ID of
// the request they answer.
type Message struct {
	Type      string         `json:"type"`
	ID        string         `json:"id,omitempty"`
	Command   *input.Command `json:"command,omitempty"`
	Result    *input.Result  `json:"result,omitempty"`
	Msg       string         `json:"message,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
}
