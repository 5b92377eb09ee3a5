package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Room naming: one room per conversation, one personal room per user.
func ConversationRoom(conversationID string) string {
	return "conversation:" + conversationID
}

func UserRoom(userID string) string {
	return "user:" + userID
}

// NewSocketServer initializes and returns a new Socket.IO server
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// Clients identify once after connecting to receive personal events.
	server.OnEvent("/", "identify", func(c socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Println("❌ Invalid userId in identify request")
			return
		}
		c.Join(UserRoom(userID))
	})

	server.OnEvent("/", "joinConversation", func(c socketio.Conn, data map[string]string) {
		conversationID := data["conversationId"]
		if conversationID == "" {
			log.Println("❌ Invalid conversationId in join request")
			return
		}
		log.Printf("👥 Socket %s joined conversation %s\n", c.ID(), conversationID)
		c.Join(ConversationRoom(conversationID))
	})

	server.OnEvent("/", "leaveConversation", func(c socketio.Conn, data map[string]string) {
		conversationID := data["conversationId"]
		if conversationID == "" {
			return
		}
		c.Leave(ConversationRoom(conversationID))
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", reason)
	})

	return server
}

// Publisher fans events out to live clients. Delivery is at-most-once and
// fire-and-forget; the persisted message plus notification record is what a
// reconnecting client falls back on.
type Publisher struct {
	Server *socketio.Server
}

func (p *Publisher) PublishToConversation(conversationID, event string, payload interface{}) {
	p.Server.BroadcastToRoom("/", ConversationRoom(conversationID), event, payload)
}

func (p *Publisher) PublishToUser(userID, event string, payload interface{}) {
	p.Server.BroadcastToRoom("/", UserRoom(userID), event, payload)
}
