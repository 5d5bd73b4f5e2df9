package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lodgekeep/inquiries/internal/api/middleware"
	"lodgekeep/inquiries/internal/config"
	"lodgekeep/inquiries/internal/services"
	"lodgekeep/inquiries/internal/utils"
)

// allowedUploadTypes are the accepted content types for identity documents.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// RestInquiryHandler handles REST requests for inquiries.
type RestInquiryHandler struct {
	cfg            *config.Config
	inquiryService services.IInquiryService
}

// NewRestInquiryHandler creates a new RestInquiryHandler.
func NewRestInquiryHandler(cfg *config.Config, inquiryService services.IInquiryService) *RestInquiryHandler {
	return &RestInquiryHandler{cfg: cfg, inquiryService: inquiryService}
}

// Submit handles POST /v1/inquiry (public, multipart form).
func (h *RestInquiryHandler) Submit(c *gin.Context) {
	in := services.SubmissionInput{
		FullName:      c.PostForm("full_name"),
		ContactNumber: c.PostForm("contact_number"),
		Email:         c.PostForm("email"),
		Price:         c.PostForm("price"),
		RoomNumber:    c.PostForm("room_number"),
		Agreement:     isFormTrue(c.PostForm("agreement")),
	}

	upload, cleanup, err := h.formUpload(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	inquiry, err := h.inquiryService.Submit(c.Request.Context(), in, upload)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": inquiry})
}

// List handles GET /v1/inquiry?search=&page=&entries_per_page=.
func (h *RestInquiryHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("entries_per_page", strconv.Itoa(h.cfg.DefaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > 200 {
		pageSize = h.cfg.DefaultPageSize
	}

	result, err := h.inquiryService.List(c.Request.Context(), services.ListOptions{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// Show handles GET /v1/inquiry/:id. Soft-deleted inquiries are still
// visible here, with their status flag reflecting the deletion.
func (h *RestInquiryHandler) Show(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inquiry, err := h.inquiryService.Find(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

// Update handles PUT /v1/inquiry/:id (multipart form).
func (h *RestInquiryHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	in := services.EditInput{
		FullName:      c.PostForm("full_name"),
		ContactNumber: c.PostForm("contact_number"),
		Email:         c.PostForm("email"),
		Price:         c.PostForm("price"),
		RoomNumber:    c.PostForm("room_number"),
	}
	if raw, present := c.GetPostForm("agreement"); present {
		agreed := isFormTrue(raw)
		in.Agreement = &agreed
	}

	upload, cleanup, err := h.formUpload(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	defer cleanup()

	inquiry, err := h.inquiryService.Edit(c.Request.Context(), id, in, upload)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

// Approve handles POST /v1/inquiry/:id/approve. A failed notification is
// reported as a warning alongside the updated inquiry, never as an error.
func (h *RestInquiryHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inquiry, outcome, err := h.inquiryService.Approve(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := gin.H{"data": inquiry, "notified": outcome.Notified}
	if outcome.NotificationErr != nil {
		resp["warning"] = "inquiry approved but the notification email failed to send"
	}
	c.JSON(http.StatusOK, resp)
}

// Destroy handles DELETE /v1/inquiry/:id (soft delete, role-gated).
func (h *RestInquiryHandler) Destroy(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inquiry, err := h.inquiryService.SoftDelete(c.Request.Context(), id, middleware.ActorRole(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

// Restore handles POST /v1/inquiry/:id/restore (role-gated). It uses the
// same envelope as the sibling endpoints.
func (h *RestInquiryHandler) Restore(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inquiry, err := h.inquiryService.Restore(c.Request.Context(), id, middleware.ActorRole(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

// pathID parses the :id path parameter, rendering a 404 on failure since an
// unparseable ID can never name an existing inquiry.
func (h *RestInquiryHandler) pathID(c *gin.Context) (utils.SixID, bool) {
	id, err := utils.ParseSixID(c.Param("id"))
	if err != nil || id.IsZero() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
		return utils.SixID{}, false
	}
	return id, true
}

// formUpload extracts the optional valid_id file from the multipart form and
// enforces size and content-type limits. The returned cleanup closes the
// opened file and must always be called.
func (h *RestInquiryHandler) formUpload(c *gin.Context) (*services.Upload, func(), error) {
	noop := func() {}

	fileHeader, err := c.FormFile("valid_id")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("invalid valid_id upload: %w", err)
	}

	if fileHeader.Size > h.cfg.MaxUploadSizeBytes {
		return nil, noop, fmt.Errorf("valid_id exceeds the maximum upload size of %d bytes", h.cfg.MaxUploadSizeBytes)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return nil, noop, fmt.Errorf("valid_id must be a JPEG, PNG, or PDF document")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to read valid_id upload: %w", err)
	}

	upload := &services.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Content:     file,
	}
	return upload, func() { closeUpload(file) }, nil
}

func closeUpload(f multipart.File) {
	_ = f.Close()
}

// renderError maps domain errors onto HTTP statuses.
func (h *RestInquiryHandler) renderError(c *gin.Context, err error) {
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": valErr.Fields})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges"})
	case errors.Is(err, services.ErrNotDeleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Inquiry is not deleted or already restored"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// isFormTrue interprets the checkbox-style agreement value.
func isFormTrue(v string) bool {
	switch v {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
