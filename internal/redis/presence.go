package redis

import "time"

const presenceTTL = 24 * time.Hour

// Presence mirroring is advisory only: the authoritative room state is
// in-memory and every function here is a no-op when Redis is not
// connected, so the relay (and its tests) run without it.

// TrackJoin mirrors a channel joining a room.
func TrackJoin(roomID, channelID string) {
	if client == nil {
		return
	}
	client.SAdd(ctx, "room:"+roomID+":peers", channelID)
	client.Expire(ctx, "room:"+roomID+":peers", presenceTTL)
}

// TrackLeave mirrors a channel leaving a room.
func TrackLeave(roomID, channelID string) {
	if client == nil {
		return
	}
	client.SRem(ctx, "room:"+roomID+":peers", channelID)
}

// CountDrop bumps the counter of silently dropped signals of the given
// kind ("sdp" or "ice").
func CountDrop(kind string) {
	if client == nil {
		return
	}
	client.Incr(ctx, "metrics:dropped:"+kind)
}
