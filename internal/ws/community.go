package ws

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket message types for the community chat protocol.
const (
	MsgTypeChatMessage = "chat_message" // Farmer posts a message to the room
	MsgTypeChatRelay   = "chat_relay"   // Server relays a message to the room
	MsgTypeMemberJoin  = "member_join"  // A farmer joined the room
	MsgTypeMemberLeave = "member_leave" // A farmer left the room
	MsgTypeError       = "error"        // Error message
	MsgTypeConnected   = "connected"    // Connection confirmed
)

// WSMessage is the envelope for all messages sent over the community WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ChatMessagePayload is sent by a client to post a message.
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// ChatRelayPayload is broadcast by the server to the room.
type ChatRelayPayload struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
}

// MemberEventPayload announces a farmer joining or leaving the room.
type MemberEventPayload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// ErrorPayload carries an error message to the client.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ConnectedPayload confirms a successful connection.
type ConnectedPayload struct {
	District string `json:"district"`
	UserID   uint   `json:"user_id"`
}

// CommunityHandler manages WebSocket connections for district chat rooms,
// where farmers in the same district share advice with each other.
type CommunityHandler struct {
	Hub       *Hub
	JwtSecret string
}

// NewCommunityHandler returns a new CommunityHandler.
func NewCommunityHandler(hub *Hub, jwtSecret string) *CommunityHandler {
	return &CommunityHandler{
		Hub:       hub,
		JwtSecret: jwtSecret,
	}
}

// upgrader is configured for community chat WebSocket upgrades.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		switch origin {
		case "https://farmmitra.in",
			"https://www.farmmitra.in",
			"https://api.farmmitra.in":
			return true
		}
		// Allow localhost for development
		if strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost" {
			return true
		}
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleCommunityRoom upgrades an HTTP request to a WebSocket connection for
// a district chat room. Authentication is done via a "token" query parameter
// because WebSocket connections cannot easily use Authorization headers.
func (ch *CommunityHandler) HandleCommunityRoom(c *gin.Context) {
	log := logger.Get()

	district := c.Param("district")
	if district == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "district is required"})
		return
	}
	district = strings.ToLower(district)

	// Authenticate via query param token
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "token query parameter is required"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(ch.JwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	// Ensure this is an access token
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token type"})
		return
	}

	// Extract user ID
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user_id in token"})
		return
	}
	userID := uint(idFloat)
	username := c.Query("username")

	// Upgrade to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed",
			zap.String("district", district),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}

	// Create client and register with hub
	client := &Client{
		Hub:      ch.Hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		RoomID:   district,
		UserID:   userID,
		Username: username,
	}
	ch.Hub.Register <- client

	// Send connected confirmation
	connectedPayload, _ := json.Marshal(ConnectedPayload{
		District: district,
		UserID:   userID,
	})
	connectedMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeConnected,
		Payload: connectedPayload,
	})
	client.Send <- connectedMsg

	// Announce the new member to the rest of the room
	joinPayload, _ := json.Marshal(MemberEventPayload{
		UserID:   userID,
		Username: username,
	})
	joinMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeMemberJoin,
		Payload: joinPayload,
	})
	ch.Hub.Broadcast <- &RoomMessage{
		RoomID:  district,
		Message: joinMsg,
		Sender:  client,
	}

	log.Info("community room joined",
		zap.String("district", district),
		zap.Uint("user_id", userID),
	)

	// Start read and write pumps
	go client.WritePump()
	go func() {
		client.ReadPump(func(cl *Client, data []byte) {
			ch.handleMessage(cl, data)
		})

		// ReadPump returned, the client is gone from the room
		leavePayload, _ := json.Marshal(MemberEventPayload{
			UserID:   userID,
			Username: username,
		})
		leaveMsg, _ := json.Marshal(WSMessage{
			Type:    MsgTypeMemberLeave,
			Payload: leavePayload,
		})
		ch.Hub.Broadcast <- &RoomMessage{
			RoomID:  district,
			Message: leaveMsg,
			Sender:  client,
		}
	}()
}

// handleMessage parses an incoming WebSocket message and routes it to the
// appropriate handler.
func (ch *CommunityHandler) handleMessage(client *Client, data []byte) {
	log := logger.Get()

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		ch.sendError(client, "invalid message format")
		return
	}

	log.Debug("received ws message",
		zap.String("type", msg.Type),
		zap.String("room_id", client.RoomID),
		zap.Uint("user_id", client.UserID),
	)

	switch msg.Type {
	case MsgTypeChatMessage:
		ch.handleChatMessage(client, msg.Payload)

	default:
		ch.sendError(client, "unknown message type: "+msg.Type)
	}
}

// handleChatMessage relays a farmer's message to everyone in the district
// room. Profanity is censored before the message leaves the server.
func (ch *CommunityHandler) handleChatMessage(client *Client, payload json.RawMessage) {
	var chatMsg ChatMessagePayload
	if err := json.Unmarshal(payload, &chatMsg); err != nil {
		ch.sendError(client, "invalid chat message payload")
		return
	}

	message := strings.TrimSpace(chatMsg.Message)
	if message == "" {
		ch.sendError(client, "message cannot be empty")
		return
	}

	if goaway.IsProfane(message) {
		message = goaway.Censor(message)
	}

	relayPayload, _ := json.Marshal(ChatRelayPayload{
		UserID:   client.UserID,
		Username: client.Username,
		Message:  message,
		SentAt:   time.Now(),
	})
	relayMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeChatRelay,
		Payload: relayPayload,
	})

	// Relay to the whole room including the sender, so every client renders
	// the same censored text.
	ch.Hub.Broadcast <- &RoomMessage{
		RoomID:  client.RoomID,
		Message: relayMsg,
		Sender:  nil,
	}
}

// sendError sends an error message to a single client.
func (ch *CommunityHandler) sendError(client *Client, message string) {
	errPayload, _ := json.Marshal(ErrorPayload{
		Message: message,
	})
	errMsg, _ := json.Marshal(WSMessage{
		Type:    MsgTypeError,
		Payload: errPayload,
	})
	client.Send <- errMsg
}
