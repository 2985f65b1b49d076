package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumahq/settings-server/internal/store"
)

// HistoryHandler serves the chat history endpoints.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(st *store.Store) *HistoryHandler {
	return &HistoryHandler{store: st}
}

// appendRequest captures one chat message append. All three fields are
// required; pointers distinguish an explicitly empty message from a missing
// one.
type appendRequest struct {
	UserID  string  `json:"user_id"`
	Role    *string `json:"role"`
	Message *string `json:"message"`
}

// Append adds one message to the user's chat log.
func (h *HistoryHandler) Append(c *gin.Context) {
	var body appendRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" || body.Role == nil || body.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, role, message required"})
		return
	}
	if errAppend := h.store.AppendMessage(c.Request.Context(), body.UserID, *body.Role, *body.Message); errAppend != nil {
		respondStoreError(c, errAppend, "append message failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// List returns the chat history in conversation order.
func (h *HistoryHandler) List(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	history, errList := h.store.ListHistory(c.Request.Context(), userID)
	if errList != nil {
		respondStoreError(c, errList, "list history failed")
		return
	}
	c.JSON(http.StatusOK, history)
}

// clearRequest identifies the user whose history is wiped.
type clearRequest struct {
	UserID string `json:"user_id"`
}

// Clear deletes the user's entire chat history.
func (h *HistoryHandler) Clear(c *gin.Context) {
	var body clearRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if errClear := h.store.ClearHistory(c.Request.Context(), body.UserID); errClear != nil {
		respondStoreError(c, errClear, "clear history failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Export returns the full settings and chat history snapshot.
func (h *HistoryHandler) Export(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	snapshot, errExport := h.store.Export(c.Request.Context(), userID)
	if errExport != nil {
		respondStoreError(c, errExport, "export failed")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// importRequest carries the snapshot pieces alongside the target user.
type importRequest struct {
	UserID string `json:"user_id"`
	store.ImportPayload
}

// Import applies a snapshot, replacing existing history when the replace
// query parameter is "true" or "1".
func (h *HistoryHandler) Import(c *gin.Context) {
	replaceParam := strings.TrimSpace(c.Query("replace"))
	replace := replaceParam == "true" || replaceParam == "1"

	var body importRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if errImport := h.store.Import(c.Request.Context(), body.UserID, body.ImportPayload, replace); errImport != nil {
		respondStoreError(c, errImport, "import failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
