package store

import (
	"context"
	"fmt"

	"github.com/lumahq/settings-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureUser guarantees that userID has a backing user row with placeholder
// profile fields and a settings row with defaults. Pre-existing rows are left
// untouched, so calling it any number of times yields identical stored state.
func (s *Store) EnsureUser(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		return s.ensureUser(tx, userID)
	})
}

// ensureUser is the in-transaction form used by every write path so that
// provisioning and the subsequent write commit as one atomic unit.
func (s *Store) ensureUser(tx *gorm.DB, userID string) error {
	now := s.clock.Now()

	user := models.User{
		UserID:    userID,
		Name:      models.DefaultUserName,
		Email:     models.DefaultUserEmail,
		AvatarURL: "",
		CreatedAt: now,
	}
	if errCreate := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; errCreate != nil {
		return fmt.Errorf("store: provision user: %w", errCreate)
	}

	setting := models.DefaultSetting(userID, now)
	if errCreate := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("store: provision settings: %w", errCreate)
	}
	return nil
}
