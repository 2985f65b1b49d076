package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumahq/settings-server/internal/clock"
	"github.com/lumahq/settings-server/internal/models"
	"gorm.io/gorm"
)

// Patch is a partial update across the user and settings rows. Every field is
// a pointer so that "absent" (nil, preserve the stored value) stays distinct
// from an explicit false or empty string. Unknown keys in the source JSON are
// dropped during decoding and are not an error.
type Patch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`

	ThemeMode             *string `json:"theme_mode"`
	DarkMode              *bool   `json:"dark_mode"`
	NotificationsEnabled  *bool   `json:"notifications_enabled"`
	ChatNotifications     *bool   `json:"chat_notifications"`
	UpdateNotifications   *bool   `json:"update_notifications"`
	ReminderNotifications *bool   `json:"reminder_notifications"`
	Language              *string `json:"language"`
	BiometricLock         *bool   `json:"biometric_lock"`
	AppVersion            *string `json:"app_version"`
}

// Validate checks documented field constraints before any write begins.
func (p Patch) Validate() error {
	if p.ThemeMode != nil && !models.IsValidThemeMode(*p.ThemeMode) {
		return &ValidationError{
			Field:  "theme_mode",
			Reason: fmt.Sprintf("must be %q, %q, or %q", models.ThemeSystem, models.ThemeLight, models.ThemeDark),
		}
	}
	return nil
}

// profileChanges returns the users-table assignments present in the patch.
func (p Patch) profileChanges() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.AvatarURL != nil {
		changes["avatar_url"] = *p.AvatarURL
	}
	return changes
}

// settingChanges returns the settings-table assignments present in the patch.
func (p Patch) settingChanges() map[string]any {
	changes := map[string]any{}
	if p.ThemeMode != nil {
		changes["theme_mode"] = *p.ThemeMode
	}
	if p.DarkMode != nil {
		changes["dark_mode"] = *p.DarkMode
	}
	if p.NotificationsEnabled != nil {
		changes["notifications_enabled"] = *p.NotificationsEnabled
	}
	if p.ChatNotifications != nil {
		changes["chat_notifications"] = *p.ChatNotifications
	}
	if p.UpdateNotifications != nil {
		changes["update_notifications"] = *p.UpdateNotifications
	}
	if p.ReminderNotifications != nil {
		changes["reminder_notifications"] = *p.ReminderNotifications
	}
	if p.Language != nil {
		changes["language"] = *p.Language
	}
	if p.BiometricLock != nil {
		changes["biometric_lock"] = *p.BiometricLock
	}
	if p.AppVersion != nil {
		changes["app_version"] = *p.AppVersion
	}
	return changes
}

// ProfilePatch is a partial update restricted to the user profile fields.
type ProfilePatch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

// Record is the caller-facing settings view: the joined user and settings
// fields. Its JSON tags are the stable wire contract.
type Record struct {
	UserID                string `json:"user_id"`
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	AvatarURL             string `json:"avatar_url"`
	ThemeMode             string `json:"theme_mode"`
	DarkMode              bool   `json:"dark_mode"`
	NotificationsEnabled  bool   `json:"notifications_enabled"`
	ChatNotifications     bool   `json:"chat_notifications"`
	UpdateNotifications   bool   `json:"update_notifications"`
	ReminderNotifications bool   `json:"reminder_notifications"`
	Language              string `json:"language"`
	BiometricLock         bool   `json:"biometric_lock"`
	AppVersion            string `json:"app_version"`
	UpdatedAt             string `json:"updated_at"`
}

// GetSettings returns the settings record for userID, provisioning defaults
// for a first-time identifier.
func (s *Store) GetSettings(ctx context.Context, userID string) (*Record, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load user: %w", errFind)
	}

	var setting models.Setting
	if errFind := s.db.WithContext(ctx).First(&setting, "user_id = ?", userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load settings: %w", errFind)
	}

	return &Record{
		UserID:                user.UserID,
		Name:                  user.Name,
		Email:                 user.Email,
		AvatarURL:             user.AvatarURL,
		ThemeMode:             setting.ThemeMode,
		DarkMode:              setting.DarkMode,
		NotificationsEnabled:  setting.NotificationsEnabled,
		ChatNotifications:     setting.ChatNotifications,
		UpdateNotifications:   setting.UpdateNotifications,
		ReminderNotifications: setting.ReminderNotifications,
		Language:              setting.Language,
		BiometricLock:         setting.BiometricLock,
		AppVersion:            setting.AppVersion,
		UpdatedAt:             clock.Format(setting.UpdatedAt),
	}, nil
}

// UpsertSettings merges the patch onto the stored record: every present field
// overwrites, every absent field is preserved, and updated_at is refreshed
// even when no other field changed. Provisioning and the merge commit as one
// transaction.
func (s *Store) UpsertSettings(ctx context.Context, userID string, p Patch) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		return s.applyPatch(tx, userID, p, s.clock.Now())
	})
}

// SetProfile merges the profile fields only, with upsert semantics.
func (s *Store) SetProfile(ctx context.Context, userID string, p ProfilePatch) error {
	return s.UpsertSettings(ctx, userID, Patch{
		Name:      p.Name,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	})
}

// SetTheme stores the theme mode and its derived dark_mode flag: Dark sets
// dark_mode true, any other valid mode sets it false. The derivation lives
// here and not in the generic merge, so a merge carrying both keys explicitly
// honors both values independently.
func (s *Store) SetTheme(ctx context.Context, userID, mode string) error {
	dark := mode == models.ThemeDark
	return s.UpsertSettings(ctx, userID, Patch{ThemeMode: &mode, DarkMode: &dark})
}

// SetBiometricLock toggles the biometric lock setting.
func (s *Store) SetBiometricLock(ctx context.Context, userID string, enabled bool) error {
	return s.UpsertSettings(ctx, userID, Patch{BiometricLock: &enabled})
}

// applyPatch writes the patch inside the caller's transaction. The settings
// row's updated_at is always stamped, including for profile-only patches.
func (s *Store) applyPatch(tx *gorm.DB, userID string, p Patch, now time.Time) error {
	if profile := p.profileChanges(); len(profile) > 0 {
		if errUpdate := tx.Model(&models.User{}).Where("user_id = ?", userID).
			UpdateColumns(profile).Error; errUpdate != nil {
			return fmt.Errorf("store: update profile: %w", errUpdate)
		}
	}

	changes := p.settingChanges()
	changes["updated_at"] = now
	if errUpdate := tx.Model(&models.Setting{}).Where("user_id = ?", userID).
		UpdateColumns(changes).Error; errUpdate != nil {
		return fmt.Errorf("store: upsert settings: %w", errUpdate)
	}
	return nil
}
