package photo

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisthub/internal/database"
	"artisthub/internal/domain"
	"artisthub/internal/pkg/upload"
	"artisthub/internal/repository"
	"artisthub/internal/storage/storagetest"
)

func setup(t *testing.T) (*Service, *repository.PhotoRepository, *storagetest.Recorder, *domain.Artist) {
	t.Helper()
	dsn := fmt.Sprintf("file:photo_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	artists := repository.NewArtistRepository(db)
	require.NoError(t, users.Create(ctx, &domain.User{ID: 3, Name: "Owner", Email: "owner@example.com", PasswordHash: "x"}))
	require.NoError(t, users.Create(ctx, &domain.User{ID: 9, Name: "Other", Email: "other@example.com", PasswordHash: "x"}))
	a := &domain.Artist{UserID: 3, Name: "Stage"}
	require.NoError(t, artists.Create(ctx, a))

	photos := repository.NewPhotoRepository(db)
	blobs := storagetest.NewRecorder()
	return NewService(artists, photos, blobs), photos, blobs, a
}

func jpeg() *upload.File {
	return &upload.File{Extension: "jpg", ContentType: "image/jpeg", Size: 4, Data: []byte{0xff, 0xd8, 0xff, 0xe0}}
}

func TestUpload_StoresBlobAndRow(t *testing.T) {
	svc, photos, blobs, a := setup(t)
	ctx := context.Background()
	caption := " live at the club "

	resp, err := svc.Upload(ctx, 3, UploadPhotoRequest{Caption: &caption}, jpeg())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Path, Folder+"/"))
	assert.True(t, strings.HasSuffix(resp.Path, ".jpg"))
	assert.Equal(t, "http://blobs.test/"+resp.Path, resp.URL)
	assert.Equal(t, "live at the club", *resp.Caption)
	assert.True(t, blobs.Has(resp.Path))

	list, err := photos.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)

	listed, err := svc.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, resp.URL, listed[0].URL)
}

func TestUpload_RequiresArtistProfile(t *testing.T) {
	svc, _, blobs, _ := setup(t)

	_, err := svc.Upload(context.Background(), 9, UploadPhotoRequest{}, jpeg())
	assert.ErrorIs(t, err, ErrArtistNotFound)
	assert.Empty(t, blobs.Snapshot())
}

func TestUpload_PutFailure(t *testing.T) {
	svc, photos, blobs, a := setup(t)
	blobs.FailPut = true

	_, err := svc.Upload(context.Background(), 3, UploadPhotoRequest{}, jpeg())
	assert.ErrorIs(t, err, ErrStorage)

	list, err := photos.ListByArtist(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc, photos, blobs, a := setup(t)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, 3, UploadPhotoRequest{}, jpeg())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 9, resp.ID), ErrForbidden)
	assert.True(t, blobs.Has(resp.Path))

	require.NoError(t, svc.Delete(ctx, 3, resp.ID))
	assert.False(t, blobs.Has(resp.Path))
	assert.Equal(t, "delete "+resp.Path, blobs.Snapshot()[len(blobs.Snapshot())-1])

	list, err := photos.ListByArtist(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.Delete(ctx, 3, resp.ID), ErrNotFound)
}

func TestDelete_OrphanedPhotoIsNotFound(t *testing.T) {
	svc, photos, blobs, _ := setup(t)
	ctx := context.Background()

	orphan := &domain.Photo{ArtistID: 999, Path: Folder + "/orphan.jpg"}
	require.NoError(t, photos.Create(ctx, orphan))
	blobs.Seed(orphan.Path, []byte{0xff, 0xd8})

	assert.ErrorIs(t, svc.Delete(ctx, 3, orphan.ID), ErrNotFound)
	assert.True(t, blobs.Has(orphan.Path))
}
