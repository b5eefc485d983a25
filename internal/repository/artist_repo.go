package repository

import (
	"context"
	"time"

	"artisthub/internal/domain"

	"gorm.io/gorm"
)

// ArtistRepository loads and persists the user+artist aggregate.
type ArtistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Relations that can be eagerly attached to an artist.
const (
	WithPhotos = "Photos"
	WithSongs  = "Songs"
	WithGenres = "Genres"
)

func (r *ArtistRepository) query(ctx context.Context, preload []string) *gorm.DB {
	q := r.db.WithContext(ctx).Preload("User")
	for _, rel := range preload {
		q = q.Preload(rel, func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
	return q
}

// GetByUserID returns the artist owned by userID with its user attached.
func (r *ArtistRepository) GetByUserID(ctx context.Context, userID int64, preload ...string) (*domain.Artist, error) {
	var a domain.Artist
	if err := r.query(ctx, preload).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	if a.User == nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

// GetByID returns the artist with its user attached.
func (r *ArtistRepository) GetByID(ctx context.Context, id int64, preload ...string) (*domain.Artist, error) {
	var a domain.Artist
	if err := r.query(ctx, preload).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	if a.User == nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

// LoadByOwner returns the aggregate for the given owner user id.
func (r *ArtistRepository) LoadByOwner(ctx context.Context, ownerID int64) (*domain.User, *domain.Artist, error) {
	a, err := r.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return a.User, a, nil
}

// LoadByArtistID returns the aggregate for the given artist id.
func (r *ArtistRepository) LoadByArtistID(ctx context.Context, artistID int64) (*domain.User, *domain.Artist, error) {
	a, err := r.GetByID(ctx, artistID)
	if err != nil {
		return nil, nil, err
	}
	return a.User, a, nil
}

func (r *ArtistRepository) Create(ctx context.Context, a *domain.Artist) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Photos", "Songs", "Genres").Create(a).Error)
}

// Save writes both records of the aggregate in one transaction. The user
// row is only touched when name or email differ from what is stored.
// user_id is never part of the artist update.
func (r *ArtistRepository) Save(ctx context.Context, u *domain.User, a *domain.Artist) error {
	now := time.Now()
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		email := normalizeEmail(u.Email)
		userRes := tx.Model(&domain.User{}).
			Where("id = ? AND (name <> ? OR email <> ?)", u.ID, u.Name, email).
			Updates(map[string]any{
				"name":       u.Name,
				"email":      email,
				"updated_at": now,
			})
		if userRes.Error != nil {
			return userRes.Error
		}

		res := tx.Model(&domain.Artist{}).Where("id = ? AND user_id = ?", a.ID, u.ID).Updates(map[string]any{
			"name":        a.Name,
			"bio":         a.Bio,
			"city":        a.City,
			"genre":       a.Genre,
			"image":       a.Image,
			"cover_photo": a.CoverPhoto,
			"updated_at":  now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if userRes.RowsAffected > 0 {
			u.UpdatedAt = now
		}
		a.UpdatedAt = now
		return nil
	}))
}

// Delete removes the artist together with its photos, songs and genres.
func (r *ArtistRepository) Delete(ctx context.Context, artistID int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&domain.Photo{}, &domain.Song{}, &domain.Genre{}} {
			if err := tx.Where("artist_id = ?", artistID).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.Artist{}, artistID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// ReplaceGenres sets the genre tags of an artist.
func (r *ArtistRepository) ReplaceGenres(ctx context.Context, artistID int64, names []string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artist_id = ?", artistID).Delete(&domain.Genre{}).Error; err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.Create(&domain.Genre{ArtistID: artistID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}
