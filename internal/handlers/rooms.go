package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanscode/webrtc-relay/internal/models"
)

// GetRoom reports the live state of a room: its owner and member count.
// Read-only; rooms are created and joined over the WebSocket, not here.
func (h *Hub) GetRoom(c *gin.Context) {
	roomID := c.Param("roomId")

	size, ok := h.directory.Size(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	ownerID, _ := h.directory.Owner(roomID)

	c.JSON(http.StatusOK, models.RoomInfo{
		RoomID:  roomID,
		OwnerID: ownerID,
		Size:    size,
	})
}
