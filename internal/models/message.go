package models

import "encoding/json"

// SignalType identifies a signaling message exchanged over the WebSocket.
type SignalType string

const (
	// client -> relay
	SignalTypeCreate SignalType = "create"
	SignalTypeJoin   SignalType = "join"
	SignalTypeLeave  SignalType = "leave"

	// relay -> client
	SignalTypeCreated         SignalType = "created"
	SignalTypeJoined          SignalType = "joined"
	SignalTypeOtherJoined     SignalType = "otherJoined"
	SignalTypeLeft            SignalType = "left"
	SignalTypeOtherLeft       SignalType = "otherLeft"
	SignalTypeChangeRoomowner SignalType = "changeRoomowner"
	SignalTypeFull            SignalType = "full"

	// relayed between clients
	SignalTypeSDP     SignalType = "sdp"
	SignalTypeICE     SignalType = "ice"
	SignalTypeMessage SignalType = "message"
)

// SignalMessage is the single JSON envelope for every signal type.
// Each type uses its own subset of fields; the rest stay empty and are
// omitted on the wire. Description and Candidate are opaque to the relay.
type SignalMessage struct {
	Type              SignalType      `json:"type"`
	RoomID            string          `json:"roomId,omitempty"`
	UserID            string          `json:"userId,omitempty"`
	OwnerID           string          `json:"ownerId,omitempty"`
	RoomSize          int             `json:"roomSize,omitempty"`
	ChannelID         string          `json:"channelId,omitempty"`
	JoinedUserID      string          `json:"joinedUserId,omitempty"`
	SenderUserID      string          `json:"senderUserId,omitempty"`
	RecipientUserID   string          `json:"recipientUserId,omitempty"`
	NewOwnerUserID    string          `json:"newOwnerUserId,omitempty"`
	NewOwnerChannelID string          `json:"newOwnerChannelId,omitempty"`
	Description       json.RawMessage `json:"description,omitempty"`
	Candidate         json.RawMessage `json:"candidate,omitempty"`
	Text              string          `json:"text,omitempty"`
}
