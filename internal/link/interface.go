package link

import "context"

// Transport abstracts the radio channel to the sensor node. A transport
// delivers raw frame payloads through the handler registered at
// construction and reports link loss on the Drops channel. The handler
// runs on the transport's read goroutine and must only copy the payload
// and hand it off; anything slower belongs on the scheduling loop.
type Transport interface {
	// Connect establishes the link and starts delivering payloads.
	Connect(ctx context.Context) error

	// Close tears the link down. Safe to call when not connected.
	Close() error

	// Connected reports whether the link is currently up.
	Connected() bool

	// Drops delivers one error per lost connection.
	Drops() <-chan error
}

// Status is the link state as owned by the reconnect supervisor. Other
// components only read it.
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

// String implements the Stringer interface
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}
