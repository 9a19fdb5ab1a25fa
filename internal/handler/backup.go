package handler

import (
	"path/filepath"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/archive"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler triggers record store snapshots.
type BackupHandler struct {
	Archiver *archive.Archiver
}

func NewBackupHandler(a *archive.Archiver) *BackupHandler {
	return &BackupHandler{Archiver: a}
}

// Create produces one point-in-time snapshot. A failed snapshot is a
// warning-grade condition: the store itself is untouched either way.
func (h *BackupHandler) Create(c *gin.Context) {
	path, err := h.Archiver.CreateSnapshot()
	if err != nil {
		util.ServerError(c, "backup failed")
		return
	}

	util.Success(c, util.Response{
		"message":   "backup created",
		"file_name": filepath.Base(path),
		"path":      path,
	})
}
