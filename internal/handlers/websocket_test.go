package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tanscode/webrtc-relay/config"
	"github.com/tanscode/webrtc-relay/internal/middleware"
	"github.com/tanscode/webrtc-relay/internal/models"
)

func newTestServer(t *testing.T, maxRoomSize int) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment: "test",
		JWTSecret:   "test-secret",
		MaxRoomSize: maxRoomSize,
	}
	hub := NewHub(cfg)

	router := gin.New()
	router.GET("/ws", hub.HandleSignaling)
	router.POST("/api/auth/login", Login(cfg.JWTSecret))
	router.GET("/api/getUserInfo", GetUserInfo)
	router.GET("/api/rooms/:roomId", middleware.JWTAuth(cfg.JWTSecret), hub.GetRoom)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readSignal reads frames until one of the wanted type arrives. Other
// frames (notices and the like) are skipped.
func readSignal(t *testing.T, conn *websocket.Conn, want models.SignalType) models.SignalMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg models.SignalMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func sendSignal(t *testing.T, conn *websocket.Conn, msg models.SignalMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("send %q: %v", msg.Type, err)
	}
}

func TestSignalingCreateJoinLeave(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	alice := dialWS(t, srv, "userId=alice")
	sendSignal(t, alice, models.SignalMessage{Type: models.SignalTypeCreate, UserID: "alice"})
	roomID := readSignal(t, alice, models.SignalTypeCreated).RoomID
	if roomID == "" {
		t.Fatalf("created ack carried no room ID")
	}

	bob := dialWS(t, srv, "userId=bob")
	sendSignal(t, bob, models.SignalMessage{Type: models.SignalTypeJoin, RoomID: roomID, UserID: "bob"})

	joined := readSignal(t, bob, models.SignalTypeJoined)
	if joined.RoomID != roomID || joined.OwnerID != "alice" || joined.RoomSize != 1 {
		t.Fatalf("joined = %+v", joined)
	}
	otherJoined := readSignal(t, alice, models.SignalTypeOtherJoined)
	if otherJoined.JoinedUserID != "bob" {
		t.Fatalf("otherJoined = %+v", otherJoined)
	}

	// Directed sdp relay by user ID.
	sendSignal(t, bob, models.SignalMessage{
		Type:            models.SignalTypeSDP,
		SenderUserID:    "bob",
		RecipientUserID: "alice",
		Description:     json.RawMessage(`{"type":"offer"}`),
	})
	sdp := readSignal(t, alice, models.SignalTypeSDP)
	if sdp.UserID != "bob" || len(sdp.Description) == 0 {
		t.Fatalf("sdp = %+v", sdp)
	}

	// Owner leaves: bob is told the room's new identity.
	sendSignal(t, alice, models.SignalMessage{Type: models.SignalTypeLeave, RoomID: roomID, SenderUserID: "alice"})
	left := readSignal(t, alice, models.SignalTypeLeft)
	if left.RoomID != roomID {
		t.Fatalf("left = %+v", left)
	}
	change := readSignal(t, bob, models.SignalTypeChangeRoomowner)
	if change.NewOwnerUserID != "bob" || change.NewOwnerChannelID == "" {
		t.Fatalf("changeRoomowner = %+v", change)
	}
	otherLeft := readSignal(t, bob, models.SignalTypeOtherLeft)
	if otherLeft.SenderUserID != "alice" {
		t.Fatalf("otherLeft = %+v", otherLeft)
	}
}

func TestSignalingRoomFull(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	alice := dialWS(t, srv, "userId=alice")
	sendSignal(t, alice, models.SignalMessage{Type: models.SignalTypeCreate, UserID: "alice"})
	roomID := readSignal(t, alice, models.SignalTypeCreated).RoomID

	for _, user := range []string{"bob", "carol"} {
		conn := dialWS(t, srv, "userId="+user)
		sendSignal(t, conn, models.SignalMessage{Type: models.SignalTypeJoin, RoomID: roomID, UserID: user})
		readSignal(t, conn, models.SignalTypeJoined)
	}

	dave := dialWS(t, srv, "userId=dave")
	sendSignal(t, dave, models.SignalMessage{Type: models.SignalTypeJoin, RoomID: roomID, UserID: "dave"})
	readSignal(t, dave, models.SignalTypeFull)
}

func TestSignalingDisconnectNotifiesRoom(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	alice := dialWS(t, srv, "userId=alice")
	sendSignal(t, alice, models.SignalMessage{Type: models.SignalTypeCreate, UserID: "alice"})
	roomID := readSignal(t, alice, models.SignalTypeCreated).RoomID

	bob := dialWS(t, srv, "userId=bob")
	sendSignal(t, bob, models.SignalMessage{Type: models.SignalTypeJoin, RoomID: roomID, UserID: "bob"})
	readSignal(t, bob, models.SignalTypeJoined)
	readSignal(t, alice, models.SignalTypeOtherJoined)

	// Bob drops without a leave; the cleanup hook runs the leave
	// sequence and alice hears about it.
	bob.Close()
	otherLeft := readSignal(t, alice, models.SignalTypeOtherLeft)
	if otherLeft.SenderUserID != "bob" {
		t.Fatalf("otherLeft = %+v", otherLeft)
	}
}

func TestSignalingRequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t, 3)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatalf("expected handshake failure without userId")
	}
}

func TestSignalingRejectsBadToken(t *testing.T) {
	srv, _ := newTestServer(t, 3)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=not-a-token"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatalf("expected handshake failure with invalid token")
	}
}

// A token's user_id claim overrides the query userId, and the room info
// endpoint reports the live owner.
func TestSignalingTokenIdentity(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	body := strings.NewReader(`{"username":"carol","password":"pw"}`)
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", body)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	conn := dialWS(t, srv, "userId=mallory&token="+login.Token)
	sendSignal(t, conn, models.SignalMessage{Type: models.SignalTypeCreate})
	roomID := readSignal(t, conn, models.SignalTypeCreated).RoomID

	req, _ := http.NewRequest("GET", srv.URL+"/api/rooms/"+roomID, nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	roomResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("room info: %v", err)
	}
	defer roomResp.Body.Close()
	if roomResp.StatusCode != http.StatusOK {
		t.Fatalf("room info status = %d", roomResp.StatusCode)
	}
	var info models.RoomInfo
	if err := json.NewDecoder(roomResp.Body).Decode(&info); err != nil {
		t.Fatalf("decode room info: %v", err)
	}
	if info.OwnerID != "carol" || info.Size != 1 {
		t.Fatalf("room info = %+v, want owner carol", info)
	}
}

func TestRoomInfoRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, 3)
	resp, err := http.Get(srv.URL + "/api/rooms/whatever")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
