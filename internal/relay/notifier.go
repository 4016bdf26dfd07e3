package relay

import "github.com/tanscode/webrtc-relay/internal/models"

// Notifier delivers a message to every member of a room except the given
// channels. A member whose connection has concurrently closed is skipped
// by its channel's own non-blocking delivery; the rest still receive it.
type Notifier struct {
	directory *Directory
}

func NewNotifier(directory *Directory) *Notifier {
	return &Notifier{directory: directory}
}

func (n *Notifier) Broadcast(roomID string, excludeChannelIDs []string, msg models.SignalMessage) {
	for _, ch := range n.directory.MembersExcept(roomID, excludeChannelIDs...) {
		ch.Deliver(msg)
	}
}
