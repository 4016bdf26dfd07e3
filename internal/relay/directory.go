package relay

import "sync"

// Directory holds the authoritative room membership and ownership state.
// A room exists while its membership set is non-empty; the owner table is
// a side mapping mutated only by create and by owner departure.
//
// Room IDs are, by convention, the channel ID of whichever connection
// created the room. On ownership transfer the owner record is re-keyed to
// the new owner's channel ID: the room's address follows its owner.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Channel
	owners map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		rooms:  make(map[string]map[string]Channel),
		owners: make(map[string]string),
	}
}

// CreateRoom records ownerID as the owner of roomID. It does not add the
// owner as a member; joining is a separate explicit step. An existing
// record is overwritten.
func (d *Directory) CreateRoom(roomID, ownerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owners[roomID] = ownerID
}

// AddMember places ch in roomID, creating the membership set if needed.
func (d *Directory) AddMember(roomID string, ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[string]Channel)
		d.rooms[roomID] = members
	}
	members[ch.ID()] = ch
}

// RemoveMember drops channelID from roomID; no-op if absent. An emptied
// room is deleted from the directory.
func (d *Directory) RemoveMember(roomID, channelID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(members, channelID)
	if len(members) == 0 {
		delete(d.rooms, roomID)
	}
}

func (d *Directory) HasMember(roomID, channelID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[roomID][channelID]
	return ok
}

// Size returns the member count of roomID and whether the room exists.
func (d *Directory) Size(roomID string) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members, ok := d.rooms[roomID]
	return len(members), ok
}

// MembersExcept returns a snapshot of the channels in roomID, skipping
// the given channel IDs. Empty if the room does not exist.
func (d *Directory) MembersExcept(roomID string, exclude ...string) []Channel {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[roomID]
	out := make([]Channel, 0, len(members))
	for channelID, ch := range members {
		skip := false
		for _, ex := range exclude {
			if channelID == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, ch)
		}
	}
	return out
}

// RoomsWith returns the IDs of every room channelID belongs to.
func (d *Directory) RoomsWith(channelID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for roomID, members := range d.rooms {
		if _, ok := members[channelID]; ok {
			out = append(out, roomID)
		}
	}
	return out
}

// Owner returns the owner record for roomID.
func (d *Directory) Owner(roomID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ownerID, ok := d.owners[roomID]
	return ownerID, ok
}

// IsOwner reports whether userID is the recorded owner of roomID; false
// if the room or owner record is absent.
func (d *Directory) IsOwner(roomID, userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ownerID, ok := d.owners[roomID]
	return ok && ownerID == userID
}

func (d *Directory) SetOwner(roomID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owners[roomID] = userID
}

func (d *Directory) ClearOwner(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.owners, roomID)
}
