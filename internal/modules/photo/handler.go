package photo

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artisthub/internal/middleware"
	"artisthub/internal/pkg/response"
	"artisthub/internal/pkg/upload"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	photos := protected.Group("/photos")
	{
		photos.GET("", h.List)
		photos.POST("", h.Upload)
		photos.DELETE("/:id", h.Delete)
	}
}

// List handles GET /api/v1/photos
func (h *Handler) List(c *gin.Context) {
	photos, err := h.service.List(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Photos fetched successfully.", photos)
}

// Upload handles POST /api/v1/photos (multipart: photo, caption)
func (h *Handler) Upload(c *gin.Context) {
	var req UploadPhotoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form data")
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		handleError(c, &ValidationError{Fields: map[string]string{"photo": "is required"}})
		return
	}
	file, err := upload.Read(fh, upload.GalleryPhoto)
	if err != nil {
		msg := "must be a file of type: jpg, jpeg, png"
		if errors.Is(err, upload.ErrFileTooLarge) {
			msg = "may not be greater than 4096 kilobytes"
		}
		handleError(c, &ValidationError{Fields: map[string]string{"photo": msg}})
		return
	}

	photo, err := h.service.Upload(c.Request.Context(), middleware.CallerID(c), req, file)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Photo uploaded successfully.", photo)
}

// Delete handles DELETE /api/v1/photos/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid photo ID")
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Photo deleted successfully.", nil)
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrArtistNotFound):
		response.Error(c, http.StatusNotFound, "ARTIST_NOT_FOUND", "Please complete your artist profile first.")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Photo not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unauthorized to delete this photo.")
	case errors.Is(err, ErrStorage):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Could not store the file")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
