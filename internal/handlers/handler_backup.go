package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/banquito_backend/internal/core/ports/services"
	"github.com/SscSPs/banquito_backend/internal/dto"
	"github.com/SscSPs/banquito_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds restore uploads.
const maxUploadBytes = 64 << 20

type backupHandler struct {
	backupService portssvc.BackupSvcFacade
}

func registerBackupRoutes(rg *gin.RouterGroup, bs portssvc.BackupSvcFacade) {
	h := &backupHandler{backupService: bs}

	backups := rg.Group("/backups")
	{
		backups.POST("", h.createBackup)
		backups.GET("", h.listBackups)
		backups.POST("/restore", h.restoreUpload)
		backups.GET("/:slot/download", h.downloadBackup)
		backups.POST("/:slot/restore", h.restoreSlot)
	}
}

// createBackup godoc
// @Summary Create a backup now
// @Description Writes a new backup into slot 0, rotating the older ones, and mirrors it.
// @Tags backups
// @Produce json
// @Success 201 {object} dto.BackupFileResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /backups [post]
func (h *backupHandler) createBackup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	file, err := h.backupService.CreateBackup(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to create backup")
		return
	}
	logger.Info("Backup created", slog.String("name", file.Name), slog.Int64("size", file.SizeBytes))
	c.JSON(http.StatusCreated, dto.ToBackupFileResponse(*file))
}

// listBackups godoc
// @Summary List backup slots
// @Tags backups
// @Produce json
// @Success 200 {object} dto.ListBackupsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /backups [get]
func (h *backupHandler) listBackups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	files, err := h.backupService.ListBackups(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list backups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBackupsResponse(files))
}

// downloadBackup godoc
// @Summary Download a backup archive
// @Tags backups
// @Produce application/zip
// @Param slot path int true "Slot number, 0 is the newest"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /backups/{slot}/download [get]
func (h *backupHandler) downloadBackup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	rc, file, err := h.backupService.OpenBackup(c.Request.Context(), slot)
	if err != nil {
		respondError(c, logger, err, "Failed to open backup")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, file.SizeBytes, "application/zip", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, file.Name),
	})
}

// restoreSlot godoc
// @Summary Restore a backup slot
// @Description Replaces clients, loans, installments, currencies, rates and the profile with the slot's content.
// @Tags backups
// @Produce json
// @Param slot path int true "Slot number, 0 is the newest"
// @Success 200 {object} dto.RestoreResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /backups/{slot}/restore [post]
func (h *backupHandler) restoreSlot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	snap, err := h.backupService.RestoreSlot(c.Request.Context(), slot, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to restore backup")
		return
	}
	logger.Warn("Database restored from backup slot", slog.Int("slot", slot))
	c.JSON(http.StatusOK, dto.ToRestoreResponse(fmt.Sprintf("slot %d", slot), *snap))
}

// restoreUpload godoc
// @Summary Restore an uploaded backup
// @Tags backups
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Backup archive (.zip)"
// @Success 200 {object} dto.RestoreResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /backups/restore [post]
func (h *backupHandler) restoreUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		respondBindError(c, logger, err)
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, logger, err, "Failed to read uploaded backup")
		return
	}
	defer f.Close()

	snap, err := h.backupService.RestoreUpload(c.Request.Context(), f, header.Size, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to restore backup")
		return
	}
	logger.Warn("Database restored from uploaded backup", slog.String("filename", header.Filename))
	c.JSON(http.StatusOK, dto.ToRestoreResponse(header.Filename, *snap))
}
