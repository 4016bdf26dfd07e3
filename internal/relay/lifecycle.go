package relay

import (
	"log"
	"sync"

	"github.com/tanscode/webrtc-relay/internal/models"
)

// DefaultMaxRoomSize is the room capacity used when none is configured.
const DefaultMaxRoomSize = 3

// Lifecycle implements room create/join/leave and owner succession.
//
// Every operation that reads-then-writes directory or registry state runs
// under one mutex, so "check capacity, insert" and "pick successor,
// commit" are each atomic with respect to concurrent operations on any
// room. Handlers deliver no media and never block, so the coarse lock is
// cheap.
type Lifecycle struct {
	registry    *Registry
	directory   *Directory
	notifier    *Notifier
	maxRoomSize int

	mu sync.Mutex
}

func NewLifecycle(registry *Registry, directory *Directory, notifier *Notifier, maxRoomSize int) *Lifecycle {
	if maxRoomSize < 1 {
		maxRoomSize = DefaultMaxRoomSize
	}
	return &Lifecycle{
		registry:    registry,
		directory:   directory,
		notifier:    notifier,
		maxRoomSize: maxRoomSize,
	}
}

// Attach registers a newly connected channel and places it in its self
// room, keyed by its own channel ID. The self room is what a created room
// starts from: create only records ownership, so the creator's membership
// comes from here.
func (l *Lifecycle) Attach(userID string, ch Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registry.Register(userID, ch)
	l.directory.AddMember(ch.ID(), ch)
}

// Create records userID as owner of a new room keyed by the caller's
// channel ID and acks with the room ID. The caller does not know its own
// channel ID, so the ack is how the room's address reaches it.
func (l *Lifecycle) Create(userID string, ch Channel) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	roomID := ch.ID()
	l.directory.CreateRoom(roomID, userID)
	ch.Deliver(models.SignalMessage{Type: models.SignalTypeCreated, RoomID: roomID})
	log.Printf("User %s created room %s", userID, roomID)
	return roomID
}

// Join adds ch to roomID and notifies the joiner and the rest of the
// room. Rejections are reported to the joiner as their own signal or
// notice and returned for logging; no rejection mutates state.
func (l *Lifecycle) Join(roomID, userID string, ch Channel) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	size, ok := l.directory.Size(roomID)
	if !ok {
		ch.Deliver(notice("room does not exist, join failed"))
		return ErrRoomNotFound
	}
	ownerID, ok := l.directory.Owner(roomID)
	if !ok {
		// Headless rooms are defunct even if members linger.
		ch.Deliver(notice("room has no owner, join failed"))
		return ErrRoomHasNoOwner
	}
	if size >= l.maxRoomSize {
		ch.Deliver(models.SignalMessage{Type: models.SignalTypeFull})
		return ErrRoomFull
	}

	l.directory.AddMember(roomID, ch)
	ch.Deliver(models.SignalMessage{
		Type:     models.SignalTypeJoined,
		RoomID:   roomID,
		OwnerID:  ownerID,
		RoomSize: size,
	})
	if size+1 > 1 {
		l.notifier.Broadcast(roomID, []string{ch.ID()}, models.SignalMessage{
			Type:         models.SignalTypeOtherJoined,
			ChannelID:    ch.ID(),
			JoinedUserID: userID,
		})
		l.notifier.Broadcast(roomID, []string{ch.ID()}, notice(userID+" joined the room"))
	}
	log.Printf("User %s joined room %s (%d/%d)", userID, roomID, size+1, l.maxRoomSize)
	return nil
}

// Leave removes ch from roomID, running owner succession when the leaver
// owns the room. Removal of an absent member is a no-op, but succession
// and notices still run from current directory state.
func (l *Lifecycle) Leave(roomID, userID string, ch Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.leaveLocked(roomID, userID, ch)
}

// Disconnect is the transport's cleanup hook. It drops the registry entry
// unless a reconnect has superseded it, then runs the leave sequence for
// every room the channel belonged to, the self room included, so no room
// is left pointing at a dead connection.
func (l *Lifecycle) Disconnect(userID string, ch Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current, ok := l.registry.Lookup(userID); ok && current.ID() == ch.ID() {
		l.registry.Unregister(userID)
	}
	for _, roomID := range l.directory.RoomsWith(ch.ID()) {
		l.leaveLocked(roomID, userID, ch)
	}
}

func (l *Lifecycle) leaveLocked(roomID, userID string, ch Channel) {
	// Snapshot the audience before mutating membership.
	others := l.directory.MembersExcept(roomID, ch.ID())

	transferred := false
	var successor Entry
	if l.directory.IsOwner(roomID, userID) {
		if s, ok := l.successorLocked(roomID, userID); ok {
			// The owner record moves to the successor's channel ID; the
			// old record is cleared in the same step so the room is never
			// observed mid-transition.
			l.directory.SetOwner(s.Channel.ID(), s.UserID)
			l.directory.ClearOwner(roomID)
			transferred = true
			successor = s
			log.Printf("Room %s owner changed to %s (%s)", roomID, s.UserID, s.Channel.ID())
		} else {
			l.directory.ClearOwner(roomID)
		}
	}

	for _, other := range others {
		if transferred {
			other.Deliver(models.SignalMessage{
				Type:              models.SignalTypeChangeRoomowner,
				RoomID:            roomID,
				NewOwnerUserID:    successor.UserID,
				NewOwnerChannelID: successor.Channel.ID(),
			})
		}
		other.Deliver(models.SignalMessage{
			Type:         models.SignalTypeOtherLeft,
			RoomID:       roomID,
			SenderUserID: userID,
		})
		other.Deliver(notice(userID + " left the room"))
	}

	ch.Deliver(models.SignalMessage{Type: models.SignalTypeLeft, RoomID: roomID})
	l.directory.RemoveMember(roomID, ch.ID())
	log.Printf("User %s left room %s", userID, roomID)
}

// successorLocked scans registrations oldest-first for the first channel
// that is a current member of the room and belongs to a different user
// than the outgoing owner.
func (l *Lifecycle) successorLocked(roomID, outgoingUserID string) (Entry, bool) {
	for _, entry := range l.registry.Ordered() {
		if entry.UserID == outgoingUserID {
			continue
		}
		if l.directory.HasMember(roomID, entry.Channel.ID()) {
			return entry, true
		}
	}
	return Entry{}, false
}

func notice(text string) models.SignalMessage {
	return models.SignalMessage{Type: models.SignalTypeMessage, Text: text}
}
