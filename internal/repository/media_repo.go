package repository

import (
	"context"

	"artisthub/internal/domain"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, p *domain.Photo) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	var p domain.Photo
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PhotoRepository) ListByArtist(ctx context.Context, artistID int64) ([]domain.Photo, error) {
	var photos []domain.Photo
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("id ASC").Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Photo{}, id).Error
}

type SongRepository struct {
	db *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) Create(ctx context.Context, s *domain.Song) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SongRepository) GetByID(ctx context.Context, id int64) (*domain.Song, error) {
	var s domain.Song
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SongRepository) ListByArtist(ctx context.Context, artistID int64) ([]domain.Song, error) {
	var songs []domain.Song
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("id ASC").Find(&songs).Error
	return songs, err
}

func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Song{}, id).Error
}
