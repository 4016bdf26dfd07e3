package relay

import (
	"log"
	"sync/atomic"

	"github.com/tanscode/webrtc-relay/internal/models"
)

// Router performs directed delivery of handshake messages by recipient
// user ID. Routing is independent of room state. An unknown recipient is
// a silent drop for the sender: the relay has nobody to notify, so the
// drop is logged and counted instead of propagated.
type Router struct {
	registry   *Registry
	droppedSDP atomic.Int64
	droppedICE atomic.Int64
	onDrop     func(kind string)
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// OnDrop installs an observer called once per silent drop with the signal
// kind ("sdp" or "ice"). Optional.
func (r *Router) OnDrop(fn func(kind string)) {
	r.onDrop = fn
}

// RouteSDP delivers a session description to the recipient user.
func (r *Router) RouteSDP(msg models.SignalMessage) {
	recipient, ok := r.registry.Lookup(msg.RecipientUserID)
	if !ok {
		r.drop("sdp", &r.droppedSDP, msg.SenderUserID, msg.RecipientUserID)
		return
	}
	recipient.Deliver(models.SignalMessage{
		Type:        models.SignalTypeSDP,
		UserID:      msg.SenderUserID,
		Description: msg.Description,
	})
}

// RouteICE delivers a connectivity candidate to the recipient user.
func (r *Router) RouteICE(msg models.SignalMessage) {
	recipient, ok := r.registry.Lookup(msg.RecipientUserID)
	if !ok {
		r.drop("ice", &r.droppedICE, msg.SenderUserID, msg.RecipientUserID)
		return
	}
	recipient.Deliver(models.SignalMessage{
		Type:      models.SignalTypeICE,
		UserID:    msg.SenderUserID,
		Candidate: msg.Candidate,
	})
}

// DroppedSDP returns the number of sdp signals dropped for want of a
// registered recipient.
func (r *Router) DroppedSDP() int64 { return r.droppedSDP.Load() }

// DroppedICE returns the number of ice signals dropped for want of a
// registered recipient.
func (r *Router) DroppedICE() int64 { return r.droppedICE.Load() }

func (r *Router) drop(kind string, counter *atomic.Int64, sender, recipient string) {
	counter.Add(1)
	log.Printf("Dropped %s signal from %s: recipient %s not connected", kind, sender, recipient)
	if r.onDrop != nil {
		r.onDrop(kind)
	}
}
