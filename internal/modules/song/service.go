package song

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"artisthub/internal/domain"
	"artisthub/internal/pkg/imagecodec"
	"artisthub/internal/pkg/upload"
	"artisthub/internal/pkg/validator"
	"artisthub/internal/repository"
	"artisthub/internal/storage"
)

const Folder = "artist/songs"

var (
	ErrArtistNotFound = errors.New("artist profile not found")
	ErrNotFound       = errors.New("song not found")
	ErrForbidden      = errors.New("song belongs to another artist")
	ErrStorage        = errors.New("storage error")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation failed: %v", e.Fields) }

type ArtistRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID int64, preload ...string) (*domain.Artist, error)
	GetByID(ctx context.Context, id int64, preload ...string) (*domain.Artist, error)
}

type SongRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Song) error
	GetByID(ctx context.Context, id int64) (*domain.Song, error)
	ListByArtist(ctx context.Context, artistID int64) ([]domain.Song, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	artists ArtistRepositoryInterface
	songs   SongRepositoryInterface
	blobs   storage.BlobStore
}

func NewService(artists ArtistRepositoryInterface, songs SongRepositoryInterface, blobs storage.BlobStore) *Service {
	return &Service{artists: artists, songs: songs, blobs: blobs}
}

func (s *Service) List(ctx context.Context, callerID int64) ([]Response, error) {
	a, err := s.callerArtist(ctx, callerID)
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.ListByArtist(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return NewResponses(songs, s.blobs), nil
}

// Upload stores an audio file that was already size- and type-checked.
func (s *Service) Upload(ctx context.Context, callerID int64, req UploadSongRequest, file *upload.File) (*Response, error) {
	req.Title = strings.TrimSpace(req.Title)
	if fields := validator.Validate(&req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	a, err := s.callerArtist(ctx, callerID)
	if err != nil {
		return nil, err
	}

	name := imagecodec.NewName(Folder, file.Extension)
	if _, err := s.blobs.Put(ctx, name, file.Data); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", ErrStorage, name, err)
	}

	sg := &domain.Song{
		ArtistID: a.ID,
		Title:    req.Title,
		Path:     name,
		MimeType: file.ContentType,
		Size:     file.Size,
	}
	if req.Genre != nil && strings.TrimSpace(*req.Genre) != "" {
		genre := strings.TrimSpace(*req.Genre)
		sg.Genre = &genre
	}
	if err := s.songs.Create(ctx, sg); err != nil {
		if derr := s.blobs.Delete(ctx, name); derr != nil {
			log.Printf("song_cleanup_failed blob=%s err=%v", name, derr)
		}
		return nil, fmt.Errorf("create song: %w", err)
	}

	log.Printf("song_uploaded song_id=%d artist_id=%d mime=%s size=%d", sg.ID, a.ID, sg.MimeType, sg.Size)
	resp := NewResponse(sg, s.blobs)
	return &resp, nil
}

// Delete removes the blob first, then the row.
func (s *Service) Delete(ctx context.Context, callerID, songID int64) error {
	sg, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	owner, err := s.artists.GetByID(ctx, sg.ArtistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if callerID == 0 || owner.UserID != callerID {
		return ErrForbidden
	}

	if err := s.blobs.Delete(ctx, sg.Path); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStorage, sg.Path, err)
	}
	if err := s.songs.Delete(ctx, sg.ID); err != nil {
		return err
	}
	log.Printf("song_deleted song_id=%d artist_id=%d", sg.ID, sg.ArtistID)
	return nil
}

func (s *Service) callerArtist(ctx context.Context, callerID int64) (*domain.Artist, error) {
	a, err := s.artists.GetByUserID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return a, nil
}
