// Package notify is the real-time push collaborator. Delivery is
// best-effort: if the target user has no live socket the event is dropped.
// Failures are logged by callers, never surfaced to HTTP clients.
package notify

// Notifier pushes events to individual users over the real-time channel.
type Notifier interface {
	// EmitToUser sends an event to every live socket of the given user.
	// Returns false when the user is not connected (event dropped).
	EmitToUser(userID uint64, event string, payload any) bool

	// IsUserOnline reports whether the user has at least one live socket.
	IsUserOnline(userID uint64) bool
}

// Nop is a Notifier that drops everything. Used when the socket layer is
// disabled and as a default in tests.
type Nop struct{}

func (Nop) EmitToUser(uint64, string, any) bool { return false }
func (Nop) IsUserOnline(uint64) bool            { return false }
