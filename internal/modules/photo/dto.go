package photo

import (
	"time"

	"artisthub/internal/domain"
	"artisthub/internal/storage"
)

type UploadPhotoRequest struct {
	Caption *string `form:"caption" validate:"omitempty,max=255"`
}

type Response struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	Caption   *string   `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(p *domain.Photo, blobs storage.BlobStore) Response {
	return Response{
		ID:        p.ID,
		ArtistID:  p.ArtistID,
		Path:      p.Path,
		URL:       blobs.URL(p.Path),
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt,
	}
}

func NewResponses(photos []domain.Photo, blobs storage.BlobStore) []Response {
	out := make([]Response, 0, len(photos))
	for i := range photos {
		out = append(out, NewResponse(&photos[i], blobs))
	}
	return out
}
