package service

import (
	"context"
	"errors"
	"testing"

	"github.com/article-cms-api/internal/config"
	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedImageUUID = "0b7c6f5e-1111-4222-8333-444455556666"

func newTestAssetManager(t *testing.T, store storage.BlobStore) (*assetManager, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewUnregistered()
	cfg := config.StorageConfig{CacheControl: "3600"}
	newUUID := func() uuid.UUID { return uuid.MustParse(fixedImageUUID) }
	return newAssetManager(store, cfg, newUUID, m, zerolog.Nop()), m
}

func newBadgerBlobStore(t *testing.T) *storage.BadgerStore {
	t.Helper()
	db, err := storage.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewBadgerStore(db, "article-images", "http://cdn.test", zerolog.Nop())
}

func TestAssetManager_UploadAndRemove(t *testing.T) {
	store := newBadgerBlobStore(t)
	a, _ := newTestAssetManager(t, store)
	ctx := context.Background()

	url, err := a.Upload(ctx, &models.ImageFile{Name: "Cover.PNG", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/storage/v1/object/public/article-images/articles/"+fixedImageUUID+".png", url)

	obj, err := store.Get(ctx, "articles/"+fixedImageUUID+".png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), obj.Data)
	assert.Equal(t, "3600", obj.CacheControl)
	assert.Equal(t, "image/png", obj.ContentType)

	a.Remove(ctx, url)

	_, err = store.Get(ctx, "articles/"+fixedImageUUID+".png")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestAssetManager_UploadWithoutExtension(t *testing.T) {
	a, _ := newTestAssetManager(t, newBadgerBlobStore(t))

	url, err := a.Upload(context.Background(), &models.ImageFile{Name: "cover", Data: []byte("x")})
	require.NoError(t, err)
	assert.Contains(t, url, "/articles/"+fixedImageUUID)
	assert.NotContains(t, url, fixedImageUUID+".")
}

func TestAssetManager_NoOverwrite(t *testing.T) {
	a, _ := newTestAssetManager(t, newBadgerBlobStore(t))
	ctx := context.Background()
	file := &models.ImageFile{Name: "a.jpg", Data: []byte("x")}

	_, err := a.Upload(ctx, file)
	require.NoError(t, err)

	// same UUID again: the store must refuse to overwrite
	_, err = a.Upload(ctx, file)
	require.Error(t, err)
	assert.Equal(t, models.CodeUpload, models.ErrorCodeOf(err))
	assert.ErrorIs(t, err, storage.ErrObjectExists)
}

func TestAssetManager_UploadRequiresData(t *testing.T) {
	a, _ := newTestAssetManager(t, newBadgerBlobStore(t))

	_, err := a.Upload(context.Background(), &models.ImageFile{Name: "empty.jpg"})
	assert.Equal(t, models.CodeUpload, models.ErrorCodeOf(err))
}

type failingRemoveStore struct {
	storage.BlobStore
}

func (failingRemoveStore) Remove(context.Context, []string) error {
	return errors.New("permission denied")
}

func TestAssetManager_RemoveFailuresAreSwallowed(t *testing.T) {
	a, m := newTestAssetManager(t, failingRemoveStore{newBadgerBlobStore(t)})
	ctx := context.Background()

	assert.NotPanics(t, func() {
		a.Remove(ctx, "")
		a.Remove(ctx, "http://cdn.test/only-one-segment")
		a.Remove(ctx, "http://cdn.test/storage/v1/object/public/article-images/articles/x.jpg")
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BestEffortFailures.WithLabelValues("image_remove")))
}
