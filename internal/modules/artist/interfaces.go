package artist

import (
	"context"

	"artisthub/internal/domain"
)

// ArtistRepositoryInterface is the aggregate access the artist service needs.
type ArtistRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID int64, preload ...string) (*domain.Artist, error)
	GetByID(ctx context.Context, id int64, preload ...string) (*domain.Artist, error)
	LoadByOwner(ctx context.Context, ownerID int64) (*domain.User, *domain.Artist, error)
	LoadByArtistID(ctx context.Context, artistID int64) (*domain.User, *domain.Artist, error)
	Create(ctx context.Context, a *domain.Artist) error
	Save(ctx context.Context, u *domain.User, a *domain.Artist) error
	Delete(ctx context.Context, artistID int64) error
}

type UserRepositoryInterface interface {
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
}
