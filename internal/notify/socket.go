package notify

import (
	"fmt"
	"log/slog"

	socketio "github.com/googollee/go-socket.io"
)

// SocketNotifier delivers events over socket.io. Clients register their user
// id right after connecting ("register" event) and are placed in a per-user
// room; EmitToUser broadcasts to that room.
type SocketNotifier struct {
	server *socketio.Server
	log    *slog.Logger
}

// NewSocketNotifier builds the socket.io server and wires the connection
// lifecycle handlers. The caller mounts Server() on the HTTP router and runs
// Serve in a goroutine.
func NewSocketNotifier(log *slog.Logger) *SocketNotifier {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Debug("socket connected", "socket_id", c.ID())
		return nil
	})

	server.OnEvent("/", "register", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Warn("register event without user id", "socket_id", c.ID())
			return
		}
		c.Join(roomForUser(userID))
		log.Debug("socket registered", "socket_id", c.ID(), "user", userID)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Debug("socket disconnected", "socket_id", c.ID(), "reason", reason)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Error("socket error", "err", err)
	})

	return &SocketNotifier{server: server, log: log}
}

// Server exposes the underlying socket.io server for HTTP mounting and
// lifecycle management.
func (n *SocketNotifier) Server() *socketio.Server { return n.server }

func (n *SocketNotifier) EmitToUser(userID uint64, event string, payload any) bool {
	room := roomForUser(fmt.Sprintf("%d", userID))
	delivered := n.server.BroadcastToRoom("/", room, event, payload)
	if !delivered {
		n.log.Debug("push dropped, user offline", "user", userID, "event", event)
	}
	return delivered
}

func (n *SocketNotifier) IsUserOnline(userID uint64) bool {
	return n.server.RoomLen("/", roomForUser(fmt.Sprintf("%d", userID))) > 0
}

func roomForUser(userID string) string {
	return "user:" + userID
}
