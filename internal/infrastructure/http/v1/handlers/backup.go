package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kopikeliling/internal/core/apperror"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/archive"
	"kopikeliling/internal/infrastructure/http/v1/dto"
	"kopikeliling/pkg/logger"
)

// maxRestoreBytes bounds an uploaded backup.
const maxRestoreBytes = 64 << 20

// BackupHandler exports and restores the whole dataset.
type BackupHandler struct {
	*BaseHandler
	store *records.Store
}

// NewBackupHandler creates the backup handler.
func NewBackupHandler(base *BaseHandler, store *records.Store) *BackupHandler {
	return &BackupHandler{BaseHandler: base, store: store}
}

// Export handles GET /backup. The body is a zstd-compressed JSON backup.
func (h *BackupHandler) Export(c *gin.Context) {
	b, err := h.store.Export(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	name := fmt.Sprintf("kopikeliling-%s%s", h.Now().Format("20060102-150405"), archive.Extension)
	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := archive.Write(c.Writer, b); err != nil {
		logger.Error(c.Request.Context(), "backup export interrupted", "error", err)
	}
}

// Restore handles POST /backup/restore. Plain JSON and compressed bodies are both accepted.
func (h *BackupHandler) Restore(c *gin.Context) {
	r := http.MaxBytesReader(c.Writer, c.Request.Body, maxRestoreBytes)
	b, err := archive.Read(r)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid backup").WithCause(err))
		return
	}
	restored, err := h.store.Restore(c.Request.Context(), b)
	if err != nil {
		h.Error(c, err)
		return
	}
	names := make([]string, len(restored))
	for i, col := range restored {
		names[i] = string(col)
	}
	h.OK(c, dto.RestoreResponse{Restored: names})
}
