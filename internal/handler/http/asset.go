package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

const maxAssetUploadSize = 10 << 20

// AssetHandler serves uploaded media CRUD for the authenticated owner.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates an AssetHandler.
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	if assetService == nil {
		panic("AssetService cannot be nil for AssetHandler")
	}
	return &AssetHandler{assetService: assetService}
}

// Upload handles POST /api/assets with a multipart file "file".
func (h *AssetHandler) Upload(c *gin.Context) {
	userID := middleware.UserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "File is required")
		return
	}
	if fileHeader.Size > maxAssetUploadSize {
		ErrorResponse(c, http.StatusRequestEntityTooLarge, "File exceeds the 10MB upload limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("Handler.UploadAsset: Failed to open uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	view, err := h.assetService.UploadAsset(c.Request.Context(), userID, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"asset": view})
}

// List handles GET /api/assets?page=N.
func (h *AssetHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	assets, isMore, err := h.assetService.ListAssets(c.Request.Context(), userID, page)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"assets": assets,
		"isMore": isMore,
	})
}

// Delete handles DELETE /api/assets/:assetId.
func (h *AssetHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	assetID := c.Param("assetId")
	if assetID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Asset id is required")
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), userID, assetID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"status": "deleted"})
}
