package models

import "time"

// Theme mode values accepted for Setting.ThemeMode.
const (
	ThemeSystem = "System"
	ThemeLight  = "Light"
	ThemeDark   = "Dark"
)

// Setting holds the per-user settings row, one-to-one with User.
type Setting struct {
	UserID string `gorm:"primaryKey;type:text"` // Same key as the owning user.

	ThemeMode             string `gorm:"type:text;not null;default:'System'"` // System, Light, or Dark.
	DarkMode              bool   `gorm:"not null;default:false"`              // Denormalized from ThemeMode on the theme path.
	NotificationsEnabled  bool   `gorm:"not null;default:true"`               // Master notification toggle.
	ChatNotifications     bool   `gorm:"not null;default:true"`               // Chat message notifications.
	UpdateNotifications   bool   `gorm:"not null;default:true"`               // Product update notifications.
	ReminderNotifications bool   `gorm:"not null;default:false"`              // Reminder notifications.
	Language              string `gorm:"type:text;not null;default:'English'"`
	BiometricLock         bool   `gorm:"not null;default:false"` // App biometric lock toggle.
	AppVersion            string `gorm:"type:text;not null;default:'1.0.0'"`

	UpdatedAt time.Time `gorm:"not null"` // Refreshed on every write that touches the record.
}

// DefaultSetting returns a settings row with documented defaults.
func DefaultSetting(userID string, now time.Time) Setting {
	return Setting{
		UserID:                userID,
		ThemeMode:             ThemeSystem,
		DarkMode:              false,
		NotificationsEnabled:  true,
		ChatNotifications:     true,
		UpdateNotifications:   true,
		ReminderNotifications: false,
		Language:              "English",
		BiometricLock:         false,
		AppVersion:            "1.0.0",
		UpdatedAt:             now,
	}
}

// IsValidThemeMode reports whether mode is one of the accepted theme values.
func IsValidThemeMode(mode string) bool {
	switch mode {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}
