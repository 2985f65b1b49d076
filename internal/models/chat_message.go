package models

import "time"

// Chat roles expected in practice; the column is an open string.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChatMessage is one entry in a user's append-only chat log.
// ID order is the authoritative conversation order; CreatedAt is informational
// and may be out of order after an import.
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"` // Assigned by the store, monotonic per insert.
	UserID    string    `gorm:"type:text;not null;index"` // Owning user.
	Role      string    `gorm:"type:text;not null"`       // Sender role, expected "user" or "bot".
	Message   string    `gorm:"type:text;not null"`       // Message body, unbounded text.
	CreatedAt time.Time `gorm:"not null"`                 // Clock-assigned, or caller-supplied on import.
}
