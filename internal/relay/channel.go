package relay

import "github.com/tanscode/webrtc-relay/internal/models"

// Channel is the relay's handle to one live client connection, distinct
// from the user-supplied identifier. The transport layer implements it.
// Deliver must not block; delivery to a channel that has gone away is a
// best-effort no-op.
type Channel interface {
	ID() string
	Deliver(msg models.SignalMessage)
}
