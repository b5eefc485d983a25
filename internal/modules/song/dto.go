package song

import (
	"time"

	"artisthub/internal/domain"
	"artisthub/internal/storage"
)

type UploadSongRequest struct {
	Title string  `form:"title" validate:"required,max=255"`
	Genre *string `form:"genre" validate:"omitempty,max=255"`
}

type Response struct {
	ID        int64     `json:"id"`
	ArtistID  int64     `json:"artist_id"`
	Title     string    `json:"title"`
	Genre     *string   `json:"genre"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(s *domain.Song, blobs storage.BlobStore) Response {
	return Response{
		ID:        s.ID,
		ArtistID:  s.ArtistID,
		Title:     s.Title,
		Genre:     s.Genre,
		Path:      s.Path,
		URL:       blobs.URL(s.Path),
		MimeType:  s.MimeType,
		Size:      s.Size,
		CreatedAt: s.CreatedAt,
	}
}

func NewResponses(songs []domain.Song, blobs storage.BlobStore) []Response {
	out := make([]Response, 0, len(songs))
	for i := range songs {
		out = append(out, NewResponse(&songs[i], blobs))
	}
	return out
}
