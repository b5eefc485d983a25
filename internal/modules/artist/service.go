package artist

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

// Blob folders for artist images.
const (
	ImageFolder = "artist/images"
	CoverFolder = "artist/covers"
)

// Lookup says how the identifier of an update request is resolved.
type Lookup int

const (
	ByOwner Lookup = iota
	ByArtistID
)

type Service struct {
	artists ArtistRepositoryInterface
	users   UserRepositoryInterface
	blobs   storage.BlobStore
}

func NewService(artists ArtistRepositoryInterface, users UserRepositoryInterface, blobs storage.BlobStore) *Service {
	return &Service{artists: artists, users: users, blobs: blobs}
}

// GetMine returns the caller's own profile with photos and songs attached.
func (s *Service) GetMine(ctx context.Context, callerID int64) (*ArtistResponse, error) {
	a, err := s.artists.GetByUserID(ctx, callerID, repository.WithPhotos, repository.WithSongs)
	if err != nil {
		return nil, notFound(err)
	}
	return toResponse(a, s.blobs, true), nil
}

// GetPublic returns any profile with photos, songs and genres attached.
func (s *Service) GetPublic(ctx context.Context, artistID int64) (*ArtistResponse, error) {
	a, err := s.artists.GetByID(ctx, artistID, repository.WithPhotos, repository.WithSongs, repository.WithGenres)
	if err != nil {
		return nil, notFound(err)
	}
	return toResponse(a, s.blobs, false), nil
}

// Create stores the caller's profile. image and cover are optional uploads that
// were already size- and type-checked.
func (s *Service) Create(ctx context.Context, callerID int64, req CreateArtistRequest, image, cover *upload.File) (*ArtistResponse, error) {
	if fields := validator.Validate(&req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}

	if _, err := s.artists.GetByUserID(ctx, callerID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	a := &domain.Artist{
		UserID: callerID,
		Name:   name,
		Bio:    blankToNil(req.Bio),
		City:   blankToNil(req.City),
	}

	var written []string
	for _, up := range []struct {
		file   *upload.File
		folder string
		dst    **string
	}{
		{image, ImageFolder, &a.Image},
		{cover, CoverFolder, &a.CoverPhoto},
	} {
		if up.file == nil {
			continue
		}
		blob := imagecodec.FromUpload(up.file.Data, up.file.Extension)
		stored, err := s.put(ctx, blob.Name(up.folder), blob.Data)
		if err != nil {
			s.release(ctx, "create_cleanup", written)
			return nil, err
		}
		written = append(written, stored)
		*up.dst = &stored
	}

	if err := s.artists.Create(ctx, a); err != nil {
		s.release(ctx, "create_cleanup", written)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("create artist: %w", err)
	}

	log.Printf("artist_created artist_id=%d user_id=%d", a.ID, callerID)

	created, err := s.artists.GetByID(ctx, a.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return toResponse(created, s.blobs, true), nil
}

// pendingImage is a decoded image waiting to be written to its slot.
type pendingImage struct {
	field  string
	folder string
	image  *imagecodec.Image
	slot   **string
}

// Update applies a sparse update to the aggregate identified by id.
//
// Everything that can be rejected (ownership, fields, email uniqueness and
// image payloads) is checked before anything is written, so a rejected request
// changes nothing. New blobs are written before the save and old blobs are
// released only after it; a failed save removes the new blobs again.
func (s *Service) Update(ctx context.Context, callerID, id int64, lookup Lookup, req UpdateArtistRequest) (*ArtistResponse, error) {
	// authorizing
	user, a, err := s.load(ctx, id, lookup)
	if err != nil {
		return nil, err
	}
	if err := Authorize(callerID, a.UserID); err != nil {
		log.Printf("artist_update stage=authorize artist_id=%d caller_id=%d owner_id=%d denied", a.ID, callerID, a.UserID)
		return nil, err
	}

	// validating
	if err := s.validateUpdate(ctx, user, &req); err != nil {
		return nil, err
	}
	images, err := decodeImages(a, &req)
	if err != nil {
		return nil, err
	}

	// merging
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		user.Name = name
		a.Name = name
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Bio != nil {
		a.Bio = blankToNil(req.Bio)
	}
	if req.City != nil {
		a.City = blankToNil(req.City)
	}
	if req.Genre != nil {
		a.Genre = blankToNil(req.Genre)
	}

	// persisting images
	var written, replaced []string
	for _, p := range images {
		stored, err := s.put(ctx, p.image.Name(p.folder), p.image.Data)
		if err != nil {
			s.release(ctx, "update_cleanup", written)
			return nil, err
		}
		written = append(written, stored)
		if old := *p.slot; old != nil && *old != "" {
			replaced = append(replaced, *old)
		}
		*p.slot = &stored
	}

	// saving
	if err := s.artists.Save(ctx, user, a); err != nil {
		s.release(ctx, "update_cleanup", written)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, &ValidationError{Fields: map[string]string{"email": "has already been taken"}}
		}
		return nil, fmt.Errorf("save artist: %w", err)
	}

	s.release(ctx, "update_replace", replaced)
	log.Printf("artist_updated artist_id=%d user_id=%d images=%d", a.ID, user.ID, len(images))

	a.User = user
	return toResponse(a, s.blobs, true), nil
}

// Delete releases every blob the profile owns (image, cover, photos, songs)
// and then removes the rows. A failed blob delete aborts before the rows go.
func (s *Service) Delete(ctx context.Context, callerID, artistID int64) error {
	a, err := s.artists.GetByID(ctx, artistID, repository.WithPhotos, repository.WithSongs)
	if err != nil {
		return notFound(err)
	}
	if err := Authorize(callerID, a.UserID); err != nil {
		return err
	}

	var names []string
	if a.Image != nil && *a.Image != "" {
		names = append(names, *a.Image)
	}
	if a.CoverPhoto != nil && *a.CoverPhoto != "" {
		names = append(names, *a.CoverPhoto)
	}
	for _, p := range a.Photos {
		names = append(names, p.Path)
	}
	for _, sg := range a.Songs {
		names = append(names, sg.Path)
	}

	for _, name := range names {
		if err := s.blobs.Delete(ctx, name); err != nil {
			log.Printf("artist_delete stage=release artist_id=%d blob=%s err=%v", a.ID, name, err)
			return fmt.Errorf("%w: delete %s: %w", ErrStorage, name, err)
		}
	}

	if err := s.artists.Delete(ctx, a.ID); err != nil {
		return notFound(err)
	}

	log.Printf("artist_deleted artist_id=%d user_id=%d blobs=%d", a.ID, a.UserID, len(names))
	return nil
}

func (s *Service) load(ctx context.Context, id int64, lookup Lookup) (*domain.User, *domain.Artist, error) {
	var (
		u   *domain.User
		a   *domain.Artist
		err error
	)
	if lookup == ByArtistID {
		u, a, err = s.artists.LoadByArtistID(ctx, id)
	} else {
		u, a, err = s.artists.LoadByOwner(ctx, id)
	}
	if err != nil {
		return nil, nil, notFound(err)
	}
	return u, a, nil
}

func (s *Service) validateUpdate(ctx context.Context, user *domain.User, req *UpdateArtistRequest) error {
	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields["name"] = "is required"
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		switch {
		case email == "":
			fields["email"] = "must be a valid email address"
		case fields["email"] == "" && email != normalizeEmail(user.Email):
			taken, err := s.users.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if taken {
				fields["email"] = "has already been taken"
			}
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// decodeImages decodes every non-empty image field of req. Empty strings leave
// the slot untouched.
func decodeImages(a *domain.Artist, req *UpdateArtistRequest) ([]pendingImage, error) {
	var out []pendingImage
	for _, f := range []struct {
		field  string
		value  *string
		folder string
		slot   **string
	}{
		{"image", req.Image, ImageFolder, &a.Image},
		{"cover_photo", req.CoverPhoto, CoverFolder, &a.CoverPhoto},
	} {
		if f.value == nil || *f.value == "" {
			continue
		}
		img, err := imagecodec.DecodeDataURI(*f.value)
		if err != nil {
			return nil, &ImageError{Field: f.field, Err: err}
		}
		out = append(out, pendingImage{field: f.field, folder: f.folder, image: img, slot: f.slot})
	}
	return out, nil
}

func (s *Service) put(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := s.blobs.Put(ctx, name, data); err != nil {
		log.Printf("artist_blob_put_failed blob=%s err=%v", name, err)
		return "", fmt.Errorf("%w: put %s: %w", ErrStorage, name, err)
	}
	return name, nil
}

// release deletes blobs best-effort; failures are only logged.
func (s *Service) release(ctx context.Context, stage string, names []string) {
	for _, name := range names {
		if err := s.blobs.Delete(ctx, name); err != nil {
			log.Printf("artist_blob_release_failed stage=%s blob=%s err=%v", stage, name, err)
		}
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
