package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumahq/settings-server/internal/store"
	log "github.com/sirupsen/logrus"
)

// SettingsHandler serves the settings, profile, notification, theme, and
// security endpoints.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(st *store.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// respondStoreError maps engine errors onto HTTP statuses: validation → 400,
// not found → 404, storage → 500.
func respondStoreError(c *gin.Context, err error, msg string) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// Get returns the full settings record, provisioning defaults for a
// first-time user_id.
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	record, errGet := h.store.GetSettings(c.Request.Context(), userID)
	if errGet != nil {
		respondStoreError(c, errGet, "load settings failed")
		return
	}
	c.JSON(http.StatusOK, record)
}

// upsertSettingsRequest accepts fields either flat at the top level or nested
// under a "settings" key, matching both client generations.
type upsertSettingsRequest struct {
	UserID   string       `json:"user_id"`
	Settings *store.Patch `json:"settings"`
	store.Patch
}

// Upsert merges a partial field set onto the stored settings.
func (h *SettingsHandler) Upsert(c *gin.Context) {
	var body upsertSettingsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	patch := body.Patch
	if body.Settings != nil {
		patch = *body.Settings
	}
	if errUpsert := h.store.UpsertSettings(c.Request.Context(), body.UserID, patch); errUpsert != nil {
		respondStoreError(c, errUpsert, "upsert settings failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// profileRequest captures a partial profile update.
type profileRequest struct {
	UserID string `json:"user_id"`
	store.ProfilePatch
}

// UpdateProfile merges name, email, and avatar_url only.
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var body profileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if errSet := h.store.SetProfile(c.Request.Context(), body.UserID, body.ProfilePatch); errSet != nil {
		respondStoreError(c, errSet, "update profile failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// notificationsRequest captures the granular notification toggles.
type notificationsRequest struct {
	UserID                string `json:"user_id"`
	NotificationsEnabled  *bool  `json:"notifications_enabled"`
	ChatNotifications     *bool  `json:"chat_notifications"`
	UpdateNotifications   *bool  `json:"update_notifications"`
	ReminderNotifications *bool  `json:"reminder_notifications"`
}

// UpdateNotifications merges the notification toggles present in the request.
func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	var body notificationsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	patch := store.Patch{
		NotificationsEnabled:  body.NotificationsEnabled,
		ChatNotifications:     body.ChatNotifications,
		UpdateNotifications:   body.UpdateNotifications,
		ReminderNotifications: body.ReminderNotifications,
	}
	if errUpsert := h.store.UpsertSettings(c.Request.Context(), body.UserID, patch); errUpsert != nil {
		respondStoreError(c, errUpsert, "update notifications failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// themeRequest captures a theme mode change.
type themeRequest struct {
	UserID    string  `json:"user_id"`
	ThemeMode *string `json:"theme_mode"`
}

// SetTheme stores the theme mode and its derived dark_mode flag.
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var body themeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" || body.ThemeMode == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and theme_mode required"})
		return
	}
	if errSet := h.store.SetTheme(c.Request.Context(), body.UserID, *body.ThemeMode); errSet != nil {
		respondStoreError(c, errSet, "set theme failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// biometricRequest captures a biometric lock toggle.
type biometricRequest struct {
	UserID  string `json:"user_id"`
	Enabled *bool  `json:"enabled"`
}

// SetBiometricLock enables or disables the biometric lock.
func (h *SettingsHandler) SetBiometricLock(c *gin.Context) {
	var body biometricRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" || body.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and enabled required"})
		return
	}
	if errSet := h.store.SetBiometricLock(c.Request.Context(), body.UserID, *body.Enabled); errSet != nil {
		respondStoreError(c, errSet, "set biometric lock failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
