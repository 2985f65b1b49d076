package models

import "time"

// Default profile values applied when a user is provisioned.
const (
	DefaultUserName  = "User Name"
	DefaultUserEmail = "user@example.com"
)

// User represents an end-user profile row keyed by the external identifier.
type User struct {
	UserID string `gorm:"primaryKey;type:text"` // Stable external identifier, immutable.

	Name      string `gorm:"type:text"` // Display name.
	Email     string `gorm:"type:text"` // Email address.
	AvatarURL string `gorm:"type:text"` // Avatar image URL.

	CreatedAt time.Time `gorm:"not null"` // Creation timestamp, set once.
}
