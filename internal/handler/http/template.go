package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// TemplateHandler serves template reads and preview uploads.
type TemplateHandler struct {
	templateService *service.TemplateService
	previewService  *service.PreviewService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templateService *service.TemplateService, previewService *service.PreviewService) *TemplateHandler {
	if templateService == nil || previewService == nil {
		panic("TemplateService and PreviewService cannot be nil for TemplateHandler")
	}
	return &TemplateHandler{templateService: templateService, previewService: previewService}
}

// GetTemplate handles GET /api/template/:templateId.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Template id is required")
		return
	}

	view, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, view)
}

// ListTemplates handles GET /api/templates?page=N for the authenticated
// owner.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID := middleware.UserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	templates, isMore, err := h.templateService.ListTemplates(c.Request.Context(), userID, page)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"templates": templates,
		"isMore":    isMore,
	})
}

// UploadThumbnail handles POST /api/thumbnail/:templateId with a
// client-rendered screenshot as multipart file "image". Runs behind the
// Auth middleware; only the template owner can replace its previews.
func (h *TemplateHandler) UploadThumbnail(c *gin.Context) {
	userID := middleware.UserID(c)
	templateID := c.Param("templateId")
	if templateID == "" {
		ErrorResponse(c, http.StatusBadRequest, "Template id is required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Image file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("Handler.UploadThumbnail: Failed to open uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	if err := h.previewService.StoreUploadedPreview(c.Request.Context(), userID, templateID, file); err != nil {
		logrus.WithError(err).WithField("template_id", templateID).Warn("Handler.UploadThumbnail: Failed to store preview")
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"status": "ok"})
}
