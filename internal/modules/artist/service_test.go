package artist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"artisthub/internal/database"
	"artisthub/internal/domain"
	"artisthub/internal/pkg/upload"
	"artisthub/internal/repository"
	"artisthub/internal/storage/storagetest"
)

const (
	ownerID  int64 = 3
	artistID int64 = 7
	otherID  int64 = 9

	oldImage = "artist/images/old.png"
	oldCover = "artist/covers/old.png"
)

// pngish encodes to a payload that contains '+' characters.
var pngish = []byte{0x89, 'P', 'N', 0xfb, 0xef, 0xbe, 'G'}

const pngishURI = "data:image/png;base64,iVBO++++Rw=="

func strPtr(s string) *string { return &s }

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:artist_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db      *gorm.DB
	artists *repository.ArtistRepository
	blobs   *storagetest.Recorder
	svc     *Service
}

// newFixture seeds owner 3 with artist 7 (image and cover set) and user 9.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &domain.User{ID: ownerID, Name: "Owner", Email: "owner@example.com", PasswordHash: "x"}))
	require.NoError(t, users.Create(ctx, &domain.User{ID: otherID, Name: "Other", Email: "other@example.com", PasswordHash: "x"}))

	artists := repository.NewArtistRepository(db)
	require.NoError(t, artists.Create(ctx, &domain.Artist{
		ID:         artistID,
		UserID:     ownerID,
		Name:       "Stage Name",
		Bio:        strPtr("old bio"),
		City:       strPtr("Almaty"),
		Image:      strPtr(oldImage),
		CoverPhoto: strPtr(oldCover),
	}))

	blobs := storagetest.NewRecorder()
	blobs.Seed(oldImage, []byte("old image"))
	blobs.Seed(oldCover, []byte("old cover"))

	return &fixture{
		db:      db,
		artists: artists,
		blobs:   blobs,
		svc:     NewService(artists, users, blobs),
	}
}

func (f *fixture) reload(t *testing.T) (*domain.User, *domain.Artist) {
	t.Helper()
	u, a, err := f.artists.LoadByArtistID(context.Background(), artistID)
	require.NoError(t, err)
	return u, a
}

func TestUpdate_OwnerChangesBio(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Bio: strPtr("new bio")})
	require.NoError(t, err)

	assert.Equal(t, artistID, resp.ID)
	assert.Equal(t, "new bio", *resp.Bio)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, "http://blobs.test/"+oldImage, *resp.ImageURL)
	assert.Equal(t, "owner@example.com", resp.Email)
	assert.Empty(t, f.blobs.Snapshot())

	_, a := f.reload(t)
	assert.Equal(t, "new bio", *a.Bio)
}

func TestUpdate_NonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)

	for _, lookup := range []struct {
		id     int64
		lookup Lookup
	}{
		{ownerID, ByOwner},
		{artistID, ByArtistID},
	} {
		_, err := f.svc.Update(context.Background(), otherID, lookup.id, lookup.lookup, UpdateArtistRequest{
			Bio:   strPtr("x"),
			Image: strPtr(pngishURI),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	}

	u, a := f.reload(t)
	assert.Equal(t, "old bio", *a.Bio)
	assert.Equal(t, oldImage, *a.Image)
	assert.Equal(t, "Owner", u.Name)
	assert.Empty(t, f.blobs.Snapshot())
}

func TestUpdate_OnlyCityLeavesOtherFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{City: strPtr("Paris")})
	require.NoError(t, err)

	u, a := f.reload(t)
	assert.Equal(t, "Paris", *a.City)
	assert.Equal(t, "Stage Name", a.Name)
	assert.Equal(t, "old bio", *a.Bio)
	assert.Equal(t, oldImage, *a.Image)
	assert.Equal(t, oldCover, *a.CoverPhoto)
	assert.Equal(t, "Owner", u.Name)
	assert.Equal(t, "owner@example.com", u.Email)
}

func TestUpdate_ByArtistIDLookup(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Update(context.Background(), ownerID, artistID, ByArtistID, UpdateArtistRequest{Genre: strPtr("jazz")})
	require.NoError(t, err)
	assert.Equal(t, "jazz", *resp.Genre)

	_, err = f.svc.Update(context.Background(), ownerID, artistID, ByOwner, UpdateArtistRequest{Genre: strPtr("rock")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_NameAndEmailGoToUser(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		Name:  strPtr(" New Name "),
		Email: strPtr("New@Example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, "new@example.com", resp.Email)

	u, a := f.reload(t)
	assert.Equal(t, "New Name", u.Name)
	assert.Equal(t, "New Name", a.Name)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, ownerID, a.UserID)
}

func TestUpdate_ReplacesImageAfterSave(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Image: strPtr(pngishURI)})
	require.NoError(t, err)

	_, a := f.reload(t)
	newName := *a.Image
	assert.True(t, strings.HasPrefix(newName, ImageFolder+"/"))
	assert.True(t, strings.HasSuffix(newName, ".png"))
	assert.Equal(t, pngish, f.blobs.Blobs[newName])
	assert.Equal(t, "http://blobs.test/"+newName, *resp.ImageURL)

	assert.Equal(t, []string{"put " + newName, "delete " + oldImage}, f.blobs.Snapshot())
	assert.False(t, f.blobs.Has(oldImage))
	assert.True(t, f.blobs.Has(oldCover))
	assert.Equal(t, oldCover, *a.CoverPhoto)
}

func TestUpdate_SpaceCorruptedPayloadDecodesLikeRepaired(t *testing.T) {
	f := newFixture(t)

	corrupted := strings.ReplaceAll(pngishURI, "+", " ")
	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{CoverPhoto: strPtr(corrupted)})
	require.NoError(t, err)

	_, a := f.reload(t)
	assert.True(t, strings.HasPrefix(*a.CoverPhoto, CoverFolder+"/"))
	assert.Equal(t, pngish, f.blobs.Blobs[*a.CoverPhoto])
}

func TestUpdate_EmptyImageStringIsIgnored(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Image: strPtr("")})
	require.NoError(t, err)

	_, a := f.reload(t)
	assert.Equal(t, oldImage, *a.Image)
	assert.Empty(t, f.blobs.Snapshot())
}

func TestUpdate_InvalidImageAppliesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		City:  strPtr("Paris"),
		Image: strPtr("not-a-data-uri"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImageFormat)

	var ierr *ImageError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "image", ierr.Field)

	_, a := f.reload(t)
	assert.Equal(t, "Almaty", *a.City)
	assert.Equal(t, oldImage, *a.Image)
	assert.Equal(t, oldCover, *a.CoverPhoto)
	assert.Empty(t, f.blobs.Snapshot())
}

func TestUpdate_BadBase64AppliesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		Image:      strPtr(pngishURI),
		CoverPhoto: strPtr("data:image/png;base64,@@@@"),
	})
	assert.ErrorIs(t, err, ErrBase64Decode)

	_, a := f.reload(t)
	assert.Equal(t, oldImage, *a.Image)
	assert.Empty(t, f.blobs.Snapshot())
}

func TestUpdate_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		Name:  strPtr("   "),
		Email: strPtr("not-an-email"),
		City:  strPtr(strings.Repeat("a", 256)),
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "may not be greater than 255 characters", verr.Fields["city"])

	u, a := f.reload(t)
	assert.Equal(t, "Owner", u.Name)
	assert.Equal(t, "Almaty", *a.City)
}

func TestUpdate_EmailMustStayUnique(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Email: strPtr("OTHER@example.com")})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "has already been taken", verr.Fields["email"])

	// re-sending the current email is not a conflict
	_, err = f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Email: strPtr("owner@example.com")})
	assert.NoError(t, err)
}

type failingSaveRepo struct {
	*repository.ArtistRepository
}

func (failingSaveRepo) Save(context.Context, *domain.User, *domain.Artist) error {
	return errors.New("database is down")
}

func TestUpdate_FailedSaveRemovesNewBlobs(t *testing.T) {
	f := newFixture(t)
	svc := NewService(failingSaveRepo{f.artists}, repository.NewUserRepository(f.db), f.blobs)

	_, err := svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		Bio:   strPtr("lost"),
		Image: strPtr(pngishURI),
	})
	require.Error(t, err)

	calls := f.blobs.Snapshot()
	require.Len(t, calls, 2)
	assert.True(t, strings.HasPrefix(calls[0], "put "+ImageFolder))
	assert.Equal(t, "delete "+strings.TrimPrefix(calls[0], "put "), calls[1])
	assert.True(t, f.blobs.Has(oldImage))

	_, a := f.reload(t)
	assert.Equal(t, "old bio", *a.Bio)
	assert.Equal(t, oldImage, *a.Image)
}

func TestUpdate_PutFailureIsStorageError(t *testing.T) {
	f := newFixture(t)
	f.blobs.FailPut = true

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{
		City:  strPtr("Paris"),
		Image: strPtr(pngishURI),
	})
	assert.ErrorIs(t, err, ErrStorage)

	_, a := f.reload(t)
	assert.Equal(t, "Almaty", *a.City)
	assert.Equal(t, oldImage, *a.Image)
}

func TestUpdate_OldBlobDeleteFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t)
	f.blobs.FailDelete = true

	_, err := f.svc.Update(context.Background(), ownerID, ownerID, ByOwner, UpdateArtistRequest{Image: strPtr(pngishURI)})
	require.NoError(t, err)

	_, a := f.reload(t)
	assert.NotEqual(t, oldImage, *a.Image)
}

func TestUpdate_UnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), 42, 42, ByOwner, UpdateArtistRequest{Bio: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_ReleasesBlobsBeforeRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	photos := repository.NewPhotoRepository(f.db)
	songs := repository.NewSongRepository(f.db)
	require.NoError(t, photos.Create(ctx, &domain.Photo{ArtistID: artistID, Path: "artist/photos/p.jpg"}))
	require.NoError(t, songs.Create(ctx, &domain.Song{ArtistID: artistID, Title: "Song", Path: "artist/songs/s.mp3"}))

	require.NoError(t, f.svc.Delete(ctx, ownerID, artistID))

	assert.Equal(t, []string{
		"delete " + oldImage,
		"delete " + oldCover,
		"delete artist/photos/p.jpg",
		"delete artist/songs/s.mp3",
	}, f.blobs.Snapshot())

	_, _, err := f.artists.LoadByArtistID(ctx, artistID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := photos.ListByArtist(ctx, artistID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_WithoutImagesMakesNoBlobCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Model(&domain.Artist{}).Where("id = ?", artistID).
		Updates(map[string]any{"image": nil, "cover_photo": nil}).Error)

	require.NoError(t, f.svc.Delete(ctx, ownerID, artistID))
	assert.Empty(t, f.blobs.Snapshot())
}

func TestDelete_NonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), otherID, artistID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.blobs.Snapshot())
	f.reload(t)
}

func TestDelete_StorageFailureKeepsRow(t *testing.T) {
	f := newFixture(t)
	f.blobs.FailDelete = true

	err := f.svc.Delete(context.Background(), ownerID, artistID)
	assert.ErrorIs(t, err, ErrStorage)
	f.reload(t)
}

func TestCreate_StoresUploads(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &domain.User{ID: 5, Name: "New", Email: "new@example.com", PasswordHash: "x"}))

	blobs := storagetest.NewRecorder()
	svc := NewService(repository.NewArtistRepository(db), users, blobs)

	image := &upload.File{Extension: "png", Data: pngish}
	resp, err := svc.Create(ctx, 5, CreateArtistRequest{Name: "Newcomer", City: strPtr("Oslo")}, image, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.UserID)
	assert.Equal(t, "new@example.com", resp.Email)
	require.NotNil(t, resp.Image)
	assert.True(t, strings.HasPrefix(*resp.Image, ImageFolder+"/"))
	assert.Equal(t, pngish, blobs.Blobs[*resp.Image])
	assert.Nil(t, resp.CoverPhoto)
	assert.Nil(t, resp.CoverPhotoURL)

	_, err = svc.Create(ctx, 5, CreateArtistRequest{Name: "Again"}, nil, nil)
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestCreate_RequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), otherID, CreateArtistRequest{Name: "  "}, nil, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
}

func TestGetMineAndPublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.GetMine(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", mine.Email)
	assert.Equal(t, "http://blobs.test/"+oldCover, *mine.CoverPhotoURL)

	public, err := f.svc.GetPublic(ctx, artistID)
	require.NoError(t, err)
	assert.Empty(t, public.Email)

	_, err = f.svc.GetMine(ctx, otherID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(3, 3))
	assert.ErrorIs(t, Authorize(9, 3), ErrForbidden)
	assert.ErrorIs(t, Authorize(0, 0), ErrForbidden)
}
