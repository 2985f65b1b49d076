package store

import (
	"context"
	"fmt"

	"github.com/lumahq/settings-server/internal/clock"
	"github.com/lumahq/settings-server/internal/models"
	"gorm.io/gorm"
)

// MessageRecord is the wire form of one chat message.
type MessageRecord struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// Snapshot is the export payload: the full settings record plus the chat
// history in insertion order.
type Snapshot struct {
	ExportedAt  string          `json:"exported_at"`
	Settings    *Record         `json:"settings"`
	ChatHistory []MessageRecord `json:"chat_history"`
}

// ImportMessage is one caller-supplied history entry. A missing role defaults
// to "user", a missing message to the empty string, and a missing or
// unparseable created_at to the current time.
type ImportMessage struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// ImportPayload carries the optional pieces of an import request. A nil
// Settings or ChatHistory means that piece is absent and leaves the stored
// state alone.
type ImportPayload struct {
	Settings    *Patch          `json:"settings"`
	ChatHistory []ImportMessage `json:"chat_history"`
}

// AppendMessage provisions the user and appends one message, durably ordered
// after all previously appended messages for that user.
func (s *Store) AppendMessage(ctx context.Context, userID, role, message string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		msg := models.ChatMessage{
			UserID:    userID,
			Role:      role,
			Message:   message,
			CreatedAt: s.clock.Now(),
		}
		if errCreate := tx.Create(&msg).Error; errCreate != nil {
			return fmt.Errorf("store: append message: %w", errCreate)
		}
		return nil
	})
}

// ClearHistory deletes every chat message for userID. Clearing an empty
// history is a no-op, not an error.
func (s *Store) ClearHistory(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		if errDelete := tx.Where("user_id = ?", userID).
			Delete(&models.ChatMessage{}).Error; errDelete != nil {
			return fmt.Errorf("store: clear history: %w", errDelete)
		}
		return nil
	})
}

// ListHistory returns the chat history for userID in insertion order,
// provisioning defaults for a first-time identifier.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]MessageRecord, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	var rows []models.ChatMessage
	if errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("store: list history: %w", errFind)
	}

	out := make([]MessageRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, MessageRecord{
			Role:      row.Role,
			Message:   row.Message,
			CreatedAt: clock.Format(row.CreatedAt),
		})
	}
	return out, nil
}

// Export returns a snapshot of the user's settings and chat history suitable
// for re-import.
func (s *Store) Export(ctx context.Context, userID string) (*Snapshot, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.ListHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ExportedAt:  clock.Format(s.clock.Now()),
		Settings:    settings,
		ChatHistory: history,
	}, nil
}

// Import applies a snapshot. A present settings piece is merged with the same
// semantics as UpsertSettings. A present chat history is inserted in the given
// order: after the existing messages when replace is false, or after deleting
// them when replace is true. The settings merge and every insert commit as one
// transaction, so a failure midway leaves no partial state behind.
func (s *Store) Import(ctx context.Context, userID string, payload ImportPayload, replace bool) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if payload.Settings != nil {
		if err := payload.Settings.Validate(); err != nil {
			return err
		}
	}
	return s.withWriteTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureUser(tx, userID); err != nil {
			return err
		}
		now := s.clock.Now()

		if payload.Settings != nil {
			if err := s.applyPatch(tx, userID, *payload.Settings, now); err != nil {
				return err
			}
		}

		if payload.ChatHistory == nil {
			return nil
		}
		if replace {
			if errDelete := tx.Where("user_id = ?", userID).
				Delete(&models.ChatMessage{}).Error; errDelete != nil {
				return fmt.Errorf("store: replace history: %w", errDelete)
			}
		}
		for _, item := range payload.ChatHistory {
			role := item.Role
			if role == "" {
				role = models.RoleUser
			}
			createdAt := now
			if item.CreatedAt != "" {
				if parsed, errParse := clock.Parse(item.CreatedAt); errParse == nil {
					createdAt = parsed
				}
			}
			msg := models.ChatMessage{
				UserID:    userID,
				Role:      role,
				Message:   item.Message,
				CreatedAt: createdAt,
			}
			if errCreate := tx.Create(&msg).Error; errCreate != nil {
				return fmt.Errorf("store: import message: %w", errCreate)
			}
		}
		return nil
	})
}
