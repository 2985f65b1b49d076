// Package api registers the HTTP surface of the settings store: a thin gin
// adapter that decodes payloads, dispatches to the store engine, and encodes
// responses.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lumahq/settings-server/internal/http/api/handlers"
	"github.com/lumahq/settings-server/internal/store"
	"gorm.io/gorm"
)

// RegisterRoutes registers all endpoints. Everything except /health sits
// behind the shared-secret gate.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, st *store.Store, apiKey string) {
	if r == nil || st == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(conn)
	r.GET("/health", healthHandler.Health)

	authed := r.Group("")
	authed.Use(APIKeyAuth(apiKey))

	settingsHandler := handlers.NewSettingsHandler(st)
	authed.GET("/settings", settingsHandler.Get)
	authed.POST("/settings", settingsHandler.Upsert)
	authed.POST("/profile", settingsHandler.UpdateProfile)
	authed.POST("/notifications", settingsHandler.UpdateNotifications)
	authed.POST("/theme", settingsHandler.SetTheme)
	authed.POST("/security/biometric", settingsHandler.SetBiometricLock)

	historyHandler := handlers.NewHistoryHandler(st)
	authed.POST("/history", historyHandler.Append)
	authed.GET("/history", historyHandler.List)
	authed.POST("/history/clear", historyHandler.Clear)
	authed.GET("/history/export", historyHandler.Export)
	authed.POST("/history/import", historyHandler.Import)
}
