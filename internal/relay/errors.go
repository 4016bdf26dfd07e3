package relay

import "errors"

var (
	// ErrRoomNotFound is returned when joining a room that is not in the
	// directory (or whose last member has gone).
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomHasNoOwner is returned when joining a room whose owner record
	// is absent. A headless room cannot accept new members even if members
	// linger in it.
	ErrRoomHasNoOwner = errors.New("room has no owner")

	// ErrRoomFull is returned when a join would push a room past its
	// capacity. The join is rejected, never queued.
	ErrRoomFull = errors.New("room is full")
)
