package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lumahq/settings-server/internal/clock"
	"github.com/lumahq/settings-server/internal/db"
	"github.com/lumahq/settings-server/internal/models"
	"gorm.io/gorm"
)

func newTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func newTestStore(t *testing.T, clk clock.Clock) *Store {
	t.Helper()
	return New(newTestConn(t), clk)
}

func fixedClock(s string) clock.Clock {
	parsed, err := clock.Parse(s)
	if err != nil {
		panic(err)
	}
	return clock.Func(func() time.Time { return parsed })
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestValidateUserID(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()

	for _, userID := range []string{"", "   ", "\t"} {
		if _, err := st.GetSettings(ctx, userID); !IsValidation(err) {
			t.Fatalf("GetSettings(%q) error = %v, want validation error", userID, err)
		}
		if err := st.AppendMessage(ctx, userID, models.RoleUser, "hi"); !IsValidation(err) {
			t.Fatalf("AppendMessage(%q) error = %v, want validation error", userID, err)
		}
	}
}

func TestConcurrentDisjointUpserts(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = st.UpsertSettings(ctx, "u-race", Patch{Language: strPtr("French")})
	}()
	go func() {
		defer wg.Done()
		errs[1] = st.UpsertSettings(ctx, "u-race", Patch{DarkMode: boolPtr(true)})
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	record, err := st.GetSettings(ctx, "u-race")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.Language != "French" {
		t.Fatalf("Language = %q, want %q", record.Language, "French")
	}
	if !record.DarkMode {
		t.Fatalf("DarkMode = false, want true")
	}
}

func TestImportRollsBackOnFailure(t *testing.T) {
	conn := newTestConn(t)
	st := New(conn, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	if err := st.UpsertSettings(ctx, "u-atomic", Patch{Language: strPtr("English")}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	errBoom := errors.New("boom")
	inserted := 0
	armed := false
	errRegister := conn.Callback().Create().Before("gorm:create").
		Register("fail_second_message", func(tx *gorm.DB) {
			if !armed {
				return
			}
			if _, ok := tx.Statement.Dest.(*models.ChatMessage); !ok {
				return
			}
			inserted++
			if inserted == 2 {
				_ = tx.AddError(errBoom)
			}
		})
	if errRegister != nil {
		t.Fatalf("register callback: %v", errRegister)
	}

	armed = true
	payload := ImportPayload{
		Settings: &Patch{Language: strPtr("German")},
		ChatHistory: []ImportMessage{
			{Role: models.RoleUser, Message: "one"},
			{Role: models.RoleBot, Message: "two"},
			{Role: models.RoleUser, Message: "three"},
		},
	}
	if err := st.Import(ctx, "u-atomic", payload, false); !errors.Is(err, errBoom) {
		t.Fatalf("Import error = %v, want %v", err, errBoom)
	}
	armed = false

	record, err := st.GetSettings(ctx, "u-atomic")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.Language != "English" {
		t.Fatalf("Language = %q after failed import, want %q", record.Language, "English")
	}

	history, err := st.ListHistory(ctx, "u-atomic")
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("history has %d messages after failed import, want 0", len(history))
	}
}
