package artist

import (
	"time"

	"artisthub/internal/domain"
	"artisthub/internal/modules/photo"
	"artisthub/internal/modules/song"
	"artisthub/internal/storage"
)

// CreateArtistRequest is the multipart body of POST /artists. Image files are
// read separately from the form.
type CreateArtistRequest struct {
	Name string  `form:"name" validate:"required,max=255"`
	Bio  *string `form:"bio"`
	City *string `form:"city" validate:"omitempty,max=255"`
}

// UpdateArtistRequest is a sparse JSON update. A nil field is left untouched.
// Image and CoverPhoto are base64 data URIs.
type UpdateArtistRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Bio        *string `json:"bio"`
	City       *string `json:"city" validate:"omitempty,max=255"`
	Genre      *string `json:"genre" validate:"omitempty,max=255"`
	Image      *string `json:"image"`
	CoverPhoto *string `json:"cover_photo"`
}

type ArtistResponse struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Name          string           `json:"name"`
	Email         string           `json:"email,omitempty"`
	Bio           *string          `json:"bio"`
	City          *string          `json:"city"`
	Genre         *string          `json:"genre"`
	Image         *string          `json:"image"`
	CoverPhoto    *string          `json:"cover_photo"`
	ImageURL      *string          `json:"image_url"`
	CoverPhotoURL *string          `json:"cover_photo_url"`
	Photos        []photo.Response `json:"photos,omitempty"`
	Songs         []song.Response  `json:"songs,omitempty"`
	Genres        []domain.Genre   `json:"genres,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// toResponse derives image URLs from the stored names. The owner's email is
// only included when withEmail is set.
func toResponse(a *domain.Artist, blobs storage.BlobStore, withEmail bool) *ArtistResponse {
	resp := &ArtistResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Name:          a.Name,
		Bio:           a.Bio,
		City:          a.City,
		Genre:         a.Genre,
		Image:         a.Image,
		CoverPhoto:    a.CoverPhoto,
		ImageURL:      urlFor(blobs, a.Image),
		CoverPhotoURL: urlFor(blobs, a.CoverPhoto),
		Genres:        a.Genres,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if withEmail && a.User != nil {
		resp.Email = a.User.Email
	}
	if a.Photos != nil {
		resp.Photos = photo.NewResponses(a.Photos, blobs)
	}
	if a.Songs != nil {
		resp.Songs = song.NewResponses(a.Songs, blobs)
	}
	return resp
}

func urlFor(blobs storage.BlobStore, name *string) *string {
	if name == nil || *name == "" {
		return nil
	}
	u := blobs.URL(*name)
	return &u
}
