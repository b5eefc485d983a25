package photo

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

const Folder = "artist/photos"

var (
	ErrArtistNotFound = errors.New("artist profile not found")
	ErrNotFound       = errors.New("photo not found")
	ErrForbidden      = errors.New("photo belongs to another artist")
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

type PhotoRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Photo) error
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	ListByArtist(ctx context.Context, artistID int64) ([]domain.Photo, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	artists ArtistRepositoryInterface
	photos  PhotoRepositoryInterface
	blobs   storage.BlobStore
}

func NewService(artists ArtistRepositoryInterface, photos PhotoRepositoryInterface, blobs storage.BlobStore) *Service {
	return &Service{artists: artists, photos: photos, blobs: blobs}
}

func (s *Service) List(ctx context.Context, callerID int64) ([]Response, error) {
	a, err := s.callerArtist(ctx, callerID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.ListByArtist(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return NewResponses(photos, s.blobs), nil
}

// Upload stores an already type-checked image in the caller's gallery.
func (s *Service) Upload(ctx context.Context, callerID int64, req UploadPhotoRequest, file *upload.File) (*Response, error) {
	if fields := validator.Validate(&req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	a, err := s.callerArtist(ctx, callerID)
	if err != nil {
		return nil, err
	}

	img := imagecodec.FromUpload(file.Data, file.Extension)
	name := img.Name(Folder)
	if _, err := s.blobs.Put(ctx, name, img.Data); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", ErrStorage, name, err)
	}

	p := &domain.Photo{ArtistID: a.ID, Path: name}
	if req.Caption != nil && strings.TrimSpace(*req.Caption) != "" {
		caption := strings.TrimSpace(*req.Caption)
		p.Caption = &caption
	}
	if err := s.photos.Create(ctx, p); err != nil {
		if derr := s.blobs.Delete(ctx, name); derr != nil {
			log.Printf("photo_cleanup_failed blob=%s err=%v", name, derr)
		}
		return nil, fmt.Errorf("create photo: %w", err)
	}

	log.Printf("photo_uploaded photo_id=%d artist_id=%d size=%d", p.ID, a.ID, file.Size)
	resp := NewResponse(p, s.blobs)
	return &resp, nil
}

// Delete removes the blob first, then the row.
func (s *Service) Delete(ctx context.Context, callerID, photoID int64) error {
	p, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	owner, err := s.artists.GetByID(ctx, p.ArtistID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if callerID == 0 || owner.UserID != callerID {
		return ErrForbidden
	}

	if err := s.blobs.Delete(ctx, p.Path); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStorage, p.Path, err)
	}
	if err := s.photos.Delete(ctx, p.ID); err != nil {
		return err
	}
	log.Printf("photo_deleted photo_id=%d artist_id=%d", p.ID, p.ArtistID)
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
