package notify

import "log"

type Kind string

const (
	KindSuccess Kind = "success"
	KindDefault Kind = "default"
)

// Notification is transient user feedback for a cart or checkout action.
type Notification struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        Kind   `json:"kind"`
}

// Notifier delivers notifications best-effort. Implementations must never
// block the caller's critical path and must never return delivery errors
// to it.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the process log. Used when no
// broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("notification [%s] %s: %s", n.Kind, n.Title, n.Description)
}
