// Package store implements the persistence and merge-semantics engine behind
// the settings API: idempotent provisioning of default rows, partial-field
// merge updates, and an append-only chat log with merge-or-replace import.
//
// All writes run under a single serializing discipline: a store-wide mutex
// around one database transaction per logical operation. Two concurrent
// writers for the same user cannot interleave inside a transaction, so the
// outcome is last-committed-wins at transaction granularity.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/lumahq/settings-server/internal/clock"
	"gorm.io/gorm"
)

// Store owns transactional access to the users, settings, and chat_messages
// record sets. It is safe for concurrent use.
type Store struct {
	db    *gorm.DB
	clock clock.Clock

	mu sync.Mutex // Serializes all write transactions.
}

// New constructs a Store. A nil clock falls back to the system clock.
func New(conn *gorm.DB, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{db: conn, clock: clk}
}

// withWriteTx runs fn inside a transaction with the store write lock held.
// On error every write in fn is rolled back; partial writes are never
// observable.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.WithContext(ctx).Transaction(fn)
}

// validateUserID rejects blank identifiers before any write begins.
func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Field: "user_id", Reason: "required"}
	}
	return nil
}
