package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tanscode/webrtc-relay/internal/models"
)

// The user directory is a fixed demo lookup table, unrelated to room or
// connection state.
var userDirectory = []models.UserInfo{
	{ID: "382437913343", Name: "Zhang San"},
	{ID: "894891429342", Name: "Li Si"},
	{ID: "972468303473", Name: "Wang Wu"},
}

// GetUserInfo returns the directory entry for the userId query parameter.
func GetUserInfo(c *gin.Context) {
	userID := c.Query("userId")
	for _, user := range userDirectory {
		if user.ID == userID {
			c.JSON(http.StatusOK, user)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
}
