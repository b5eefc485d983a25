package artist

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artisthub/internal/middleware"
	"artisthub/internal/pkg/response"
	"artisthub/internal/pkg/upload"
)

type Handler struct {
	service       *Service
	exposeDetails bool
}

// NewHandler builds the artist handler. With exposeDetails set, 5xx responses
// carry the underlying error text in error.details.
func NewHandler(service *Service, exposeDetails bool) *Handler {
	return &Handler{service: service, exposeDetails: exposeDetails}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/artists/:id", h.Show)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	artists := protected.Group("/artists")
	{
		artists.GET("", h.Index)
		artists.POST("", h.Store)
		artists.PUT("/:id", h.Update)
		artists.PATCH("/:id", h.Update)
		artists.DELETE("/:id", h.Destroy)
	}
}

// Index handles GET /api/v1/artists
func (h *Handler) Index(c *gin.Context) {
	resp, err := h.service.GetMine(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Please complete your artist profile first.")
			return
		}
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Artist profile fetched successfully.", resp)
}

// Show handles GET /api/v1/artists/:id
func (h *Handler) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Artist profile fetched successfully.", resp)
}

// Store godoc
// @Summary Create the caller's artist profile
// @Tags Artists
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Display name"
// @Param bio formData string false "Biography"
// @Param city formData string false "City"
// @Param image formData file false "Avatar (jpg/png, up to 2MB)"
// @Param cover_photo formData file false "Cover (jpg/png, up to 4MB)"
// @Success 201 {object} map[string]interface{}
// @Failure 409,422,500 {object} map[string]interface{}
// @Router /artists [post]
func (h *Handler) Store(c *gin.Context) {
	var req CreateArtistRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form data")
		return
	}

	fields := map[string]string{}
	image := readImage(c, "image", upload.AvatarImage, fields)
	cover := readImage(c, "cover_photo", upload.CoverImage, fields)
	if len(fields) > 0 {
		h.handleError(c, &ValidationError{Fields: fields})
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.CallerID(c), req, image, cover)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Artist profile created successfully.", resp)
}

// Update godoc
// @Summary Update an artist profile
// @Description The path id is the owner's user id; pass lookup=artist to address the artist id.
// @Tags Artists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Owner user id (or artist id with lookup=artist)"
// @Param lookup query string false "owner (default) or artist"
// @Param request body UpdateArtistRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,422,500 {object} map[string]interface{}
// @Router /artists/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lookup := ByOwner
	switch c.DefaultQuery("lookup", "owner") {
	case "owner":
	case "artist":
		lookup = ByArtistID
	default:
		response.Error(c, http.StatusBadRequest, "INVALID_LOOKUP", "lookup must be 'owner' or 'artist'")
		return
	}

	var req UpdateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.CallerID(c), id, lookup, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Artist profile updated successfully.", resp)
}

// Destroy handles DELETE /api/v1/artists/:id
func (h *Handler) Destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Artist profile deleted successfully.", nil)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *ValidationError
	var ierr *ImageError

	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.As(err, &ierr) && errors.Is(err, ErrBase64Decode):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "BASE64_DECODE_ERROR", "Base64 decode failed",
			map[string]string{ierr.Field: "could not be decoded"})
	case errors.As(err, &ierr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "INVALID_IMAGE_FORMAT", "Invalid image data",
			map[string]string{ierr.Field: "must be a data:image/<type>;base64 URI"})
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Artist not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unauthorized to modify this profile.")
	case errors.Is(err, ErrProfileExists):
		response.Error(c, http.StatusConflict, "PROFILE_EXISTS", "Artist profile already exists")
	case errors.Is(err, ErrStorage):
		_ = c.Error(err)
		h.serverError(c, "STORAGE_ERROR", "Could not store the file", err)
	default:
		_ = c.Error(err)
		h.serverError(c, "UNEXPECTED_ERROR", "An error occurred while processing the artist profile.", err)
	}
}

func (h *Handler) serverError(c *gin.Context, code, message string, err error) {
	if h.exposeDetails {
		response.ErrorWithDetails(c, http.StatusInternalServerError, code, message, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, code, message)
}

// readImage reads an optional image upload; problems are recorded in fields.
func readImage(c *gin.Context, field string, rules upload.Rules, fields map[string]string) *upload.File {
	fh, err := c.FormFile(field)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			fields[field] = "could not be read"
		}
		return nil
	}

	f, err := upload.Read(fh, rules)
	switch {
	case err == nil:
		return f
	case errors.Is(err, upload.ErrFileTooLarge):
		fields[field] = fmt.Sprintf("may not be greater than %d kilobytes", rules.MaxSize/upload.KB)
	case errors.Is(err, upload.ErrInvalidMimeType), errors.Is(err, upload.ErrEmptyFile):
		fields[field] = "must be a file of type: jpg, jpeg, png"
	default:
		fields[field] = "could not be read"
	}
	return nil
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid artist ID")
		return 0, false
	}
	return id, true
}
