// Package notify delivers transient progress messages to the user.
package notify

import "github.com/google/uuid"

// Variant selects how a message is styled.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

func (v Variant) String() string {
	if v == VariantDestructive {
		return "destructive"
	}
	return "default"
}

// Message is one notification's content.
type Message struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"-"`
}

// Handle identifies a created notification so it can be updated in place.
type Handle struct {
	ID string
}

// Notifier creates a notification and later replaces its content.
// Both calls are fire-and-forget.
type Notifier interface {
	Create(msg Message) Handle
	Update(h Handle, msg Message)
}

func newHandle() Handle {
	return Handle{ID: uuid.NewString()}
}
