package handlers

import (
	"net/http"

	"charterdesk/models"
	"charterdesk/services/storage"
	"charterdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler uploads signature images ahead of the sign call. The upload
// returns the opaque reference the UI then submits to the sign endpoint.
type StorageHandler struct {
	Svc    storage.StorageService
	Logger *zap.Logger
}

func NewStorageHandler(svc storage.StorageService, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{Svc: svc, Logger: logger}
}

// UploadSignature accepts a multipart "file" field and stores it per booking
// and slot. Uploading does not sign anything by itself.
func (h *StorageHandler) UploadSignature(c *gin.Context) {
	if _, ok := models.ParseSlotKey(c.Param("slot")); !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot", c.Param("slot"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "missing signature file", err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable signature file", err.Error())
		return
	}
	defer file.Close()

	ref, err := h.Svc.UploadSignature(c.Request.Context(), file, c.Param("id"), c.Param("slot"))
	if err != nil {
		h.Logger.Error("signature upload failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "signature upload failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"signature": ref})
}
