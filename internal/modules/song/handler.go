package song

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
	songs := protected.Group("/songs")
	{
		songs.GET("", h.List)
		songs.POST("", h.Upload)
		songs.DELETE("/:id", h.Delete)
	}
}

// List handles GET /api/v1/songs
func (h *Handler) List(c *gin.Context) {
	songs, err := h.service.List(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Songs fetched successfully.", songs)
}

// Upload handles POST /api/v1/songs (multipart: title, genre, file)
func (h *Handler) Upload(c *gin.Context) {
	var req UploadSongRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form data")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		handleError(c, &ValidationError{Fields: map[string]string{"file": "is required"}})
		return
	}
	file, err := upload.Read(fh, upload.Audio)
	if err != nil {
		msg := "must be a file of type: mp3, wav, ogg"
		if errors.Is(err, upload.ErrFileTooLarge) {
			msg = "may not be greater than 20480 kilobytes"
		}
		handleError(c, &ValidationError{Fields: map[string]string{"file": msg}})
		return
	}

	song, err := h.service.Upload(c.Request.Context(), middleware.CallerID(c), req, file)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Song uploaded successfully.", song)
}

// Delete handles DELETE /api/v1/songs/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid song ID")
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Song deleted successfully.", nil)
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrArtistNotFound):
		response.Error(c, http.StatusNotFound, "ARTIST_NOT_FOUND", "Please complete your artist profile first.")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Song not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unauthorized to delete this song.")
	case errors.Is(err, ErrStorage):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Could not store the file")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
