package relay

import (
	"sync"

	"github.com/tanscode/webrtc-relay/internal/models"
)

// fakeChannel records everything delivered to it.
type fakeChannel struct {
	id   string
	mu   sync.Mutex
	msgs []models.SignalMessage
}

func newFakeChannel(id string) *fakeChannel {
	return &fakeChannel{id: id}
}

func (f *fakeChannel) ID() string { return f.id }

func (f *fakeChannel) Deliver(msg models.SignalMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeChannel) messages() []models.SignalMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SignalMessage, len(f.msgs))
	copy(out, f.msgs)
	return out
}

func (f *fakeChannel) byType(t models.SignalType) []models.SignalMessage {
	var out []models.SignalMessage
	for _, msg := range f.messages() {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeChannel) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = nil
}

// world bundles a fully wired core for tests.
type world struct {
	registry  *Registry
	directory *Directory
	notifier  *Notifier
	lifecycle *Lifecycle
	router    *Router
}

func newWorld(maxRoomSize int) *world {
	registry := NewRegistry()
	directory := NewDirectory()
	notifier := NewNotifier(directory)
	return &world{
		registry:  registry,
		directory: directory,
		notifier:  notifier,
		lifecycle: NewLifecycle(registry, directory, notifier, maxRoomSize),
		router:    NewRouter(registry),
	}
}

// connect attaches a fresh fake channel for userID, as the transport
// would on a new connection.
func (w *world) connect(userID, channelID string) *fakeChannel {
	ch := newFakeChannel(channelID)
	w.lifecycle.Attach(userID, ch)
	return ch
}
