package store

import (
	"context"
	"testing"
	"time"

	"github.com/lumahq/settings-server/internal/clock"
	"github.com/lumahq/settings-server/internal/models"
)

func TestUpsertPreservesAbsentFields(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	if err := st.UpsertSettings(ctx, "u1", Patch{
		Language: strPtr("French"),
		DarkMode: boolPtr(true),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	if err := st.UpsertSettings(ctx, "u1", Patch{
		Name: strPtr("Ada"),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	record, err := st.GetSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.Name != "Ada" {
		t.Fatalf("Name = %q, want %q", record.Name, "Ada")
	}
	if record.Language != "French" {
		t.Fatalf("Language = %q, want %q", record.Language, "French")
	}
	if !record.DarkMode {
		t.Fatalf("DarkMode = false, want true")
	}
	if record.NotificationsEnabled != true {
		t.Fatalf("NotificationsEnabled lost its default")
	}
}

func TestUpsertStoresExplicitFalseAndEmpty(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	if err := st.UpsertSettings(ctx, "u2", Patch{
		NotificationsEnabled: boolPtr(false),
		Name:                 strPtr(""),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	record, err := st.GetSettings(ctx, "u2")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.NotificationsEnabled {
		t.Fatalf("NotificationsEnabled = true, want explicit false stored")
	}
	if record.Name != "" {
		t.Fatalf("Name = %q, want explicit empty string stored", record.Name)
	}
}

func TestUpsertRejectsInvalidTheme(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	err := st.UpsertSettings(ctx, "u3", Patch{ThemeMode: strPtr("Neon")})
	if !IsValidation(err) {
		t.Fatalf("UpsertSettings error = %v, want validation error", err)
	}

	if err := st.SetTheme(ctx, "u3", "Neon"); !IsValidation(err) {
		t.Fatalf("SetTheme error = %v, want validation error", err)
	}
}

func TestSetThemeDerivesDarkMode(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	if err := st.SetTheme(ctx, "u4", models.ThemeDark); err != nil {
		t.Fatalf("SetTheme Dark: %v", err)
	}
	record, err := st.GetSettings(ctx, "u4")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.ThemeMode != models.ThemeDark || !record.DarkMode {
		t.Fatalf("after Dark: theme=%q dark=%v, want Dark/true", record.ThemeMode, record.DarkMode)
	}

	if err := st.SetTheme(ctx, "u4", models.ThemeLight); err != nil {
		t.Fatalf("SetTheme Light: %v", err)
	}
	record, err = st.GetSettings(ctx, "u4")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.ThemeMode != models.ThemeLight || record.DarkMode {
		t.Fatalf("after Light: theme=%q dark=%v, want Light/false", record.ThemeMode, record.DarkMode)
	}
}

func TestSetProfileBumpsUpdatedAt(t *testing.T) {
	now, err := clock.Parse("2024-03-01T10:00:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := newTestStore(t, clock.Func(func() time.Time { return now }))
	ctx := context.Background()

	if err := st.EnsureUser(ctx, "u5"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	now = now.Add(90 * time.Second)
	if err := st.SetProfile(ctx, "u5", ProfilePatch{Name: strPtr("Grace")}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}

	record, err := st.GetSettings(ctx, "u5")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.Name != "Grace" {
		t.Fatalf("Name = %q, want %q", record.Name, "Grace")
	}
	if record.UpdatedAt != "2024-03-01T10:01:30Z" {
		t.Fatalf("UpdatedAt = %q, want %q", record.UpdatedAt, "2024-03-01T10:01:30Z")
	}
}

func TestEmptyPatchStillRefreshesUpdatedAt(t *testing.T) {
	now, err := clock.Parse("2024-03-01T10:00:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := newTestStore(t, clock.Func(func() time.Time { return now }))
	ctx := context.Background()

	if err := st.EnsureUser(ctx, "u6"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	now = now.Add(time.Hour)
	if err := st.UpsertSettings(ctx, "u6", Patch{}); err != nil {
		t.Fatalf("UpsertSettings: %v", err)
	}

	record, err := st.GetSettings(ctx, "u6")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.UpdatedAt != "2024-03-01T11:00:00Z" {
		t.Fatalf("UpdatedAt = %q, want %q", record.UpdatedAt, "2024-03-01T11:00:00Z")
	}
}

func TestSetBiometricLock(t *testing.T) {
	st := newTestStore(t, fixedClock("2024-03-01T10:00:00Z"))
	ctx := context.Background()

	if err := st.SetBiometricLock(ctx, "u7", true); err != nil {
		t.Fatalf("SetBiometricLock: %v", err)
	}
	record, err := st.GetSettings(ctx, "u7")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !record.BiometricLock {
		t.Fatalf("BiometricLock = false, want true")
	}

	if err := st.SetBiometricLock(ctx, "u7", false); err != nil {
		t.Fatalf("SetBiometricLock: %v", err)
	}
	record, err = st.GetSettings(ctx, "u7")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if record.BiometricLock {
		t.Fatalf("BiometricLock = true, want false")
	}
}
