package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tanscode/webrtc-relay/internal/middleware"
	"github.com/tanscode/webrtc-relay/internal/models"
	"github.com/tanscode/webrtc-relay/internal/redis"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client is one live WebSocket connection. It implements relay.Channel:
// the channel ID is server-assigned and unique per connection, while the
// user ID is whatever the client presented at attach.
type Client struct {
	channelID string
	userID    string
	conn      *websocket.Conn
	send      chan []byte
}

func (c *Client) ID() string { return c.channelID }

// Deliver queues msg for the write pump. Never blocks: a full buffer
// means the connection is stalled or gone, and the message is dropped
// for that client only.
func (c *Client) Deliver(msg models.SignalMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Failed to send message to channel %s, buffer full", c.channelID)
	}
}

// HandleSignaling upgrades the connection and attaches it to the relay.
// The caller identifies itself with a userId query parameter; if a token
// is presented instead, its user_id claim wins.
func (h *Hub) HandleSignaling(c *gin.Context) {
	userID := c.Query("userId")
	if token := c.Query("token"); token != "" {
		claims, err := middleware.ParseToken(token, h.cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		userID = claims.UserID
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		channelID: uuid.New().String(),
		userID:    userID,
		conn:      conn,
		send:      make(chan []byte, 256),
	}

	// Register the user and place the connection in its self room. The
	// self room is the room a later create will hand out, keyed by this
	// channel ID.
	h.lifecycle.Attach(userID, client)
	redis.TrackJoin(client.channelID, client.channelID)

	log.Printf("User %s connected, channel %s", userID, client.channelID)

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		c.conn.Close()
		for _, roomID := range h.directory.RoomsWith(c.channelID) {
			redis.TrackLeave(roomID, c.channelID)
		}
		h.lifecycle.Disconnect(c.userID, c)
		log.Printf("User %s disconnected, channel %s", c.userID, c.channelID)
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg models.SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Failed to parse message: %v", err)
			continue
		}

		h.dispatch(c, msg)
	}
}

// dispatch routes one inbound message by type: sdp/ice go straight to
// the router, membership messages to the lifecycle, notices to the
// notifier.
func (h *Hub) dispatch(c *Client, msg models.SignalMessage) {
	switch msg.Type {
	case models.SignalTypeCreate:
		userID := msg.UserID
		if userID == "" {
			userID = c.userID
		}
		h.lifecycle.Create(userID, c)

	case models.SignalTypeJoin:
		if err := h.lifecycle.Join(msg.RoomID, msg.UserID, c); err != nil {
			log.Printf("User %s join room %s rejected: %v", msg.UserID, msg.RoomID, err)
			return
		}
		redis.TrackJoin(msg.RoomID, c.channelID)

	case models.SignalTypeLeave:
		h.lifecycle.Leave(msg.RoomID, msg.SenderUserID, c)
		redis.TrackLeave(msg.RoomID, c.channelID)

	case models.SignalTypeSDP:
		h.router.RouteSDP(msg)

	case models.SignalTypeICE:
		h.router.RouteICE(msg)

	case models.SignalTypeMessage:
		h.notifier.Broadcast(msg.RoomID, []string{c.channelID}, models.SignalMessage{
			Type: models.SignalTypeMessage,
			Text: msg.Text,
		})

	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
