package models

// UserInfo is an entry in the user directory. The directory is a static
// lookup table with no relation to room or connection state.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomInfo is the read-only view of a live room returned by the HTTP API.
type RoomInfo struct {
	RoomID  string `json:"roomId"`
	OwnerID string `json:"ownerId,omitempty"`
	Size    int    `json:"size"`
}
