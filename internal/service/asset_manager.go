package service

import (
	"context"

	"github.com/article-cms-api/internal/config"
	"github.com/article-cms-api/internal/metrics"
	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// imageFolder is the object path prefix for cover images
const imageFolder = "articles"

// assetManager is the concrete implementation of AssetManager
type assetManager struct {
	store        storage.BlobStore
	cacheControl string
	newUUID      func() uuid.UUID
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

func newAssetManager(store storage.BlobStore, cfg config.StorageConfig, newUUID func() uuid.UUID, m *metrics.Metrics, log zerolog.Logger) *assetManager {
	return &assetManager{
		store:        store,
		cacheControl: cfg.CacheControl,
		newUUID:      newUUID,
		metrics:      m,
		log:          log.With().Str("service", "assets").Logger(),
	}
}

// objectPath returns articles/<uuid>.<ext>, without the dot when the name has no extension
func (a *assetManager) objectPath(file *models.ImageFile) string {
	name := a.newUUID().String()
	if ext := file.Ext(); ext != "" {
		name += "." + ext
	}
	return imageFolder + "/" + name
}

// Upload stores the image under a fresh path and returns its public URL
func (a *assetManager) Upload(ctx context.Context, file *models.ImageFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", models.NewAppError(models.CodeUpload, "preview image is required", nil)
	}

	path := a.objectPath(file)
	err := a.store.Upload(ctx, path, file.Data, storage.UploadOptions{
		ContentType:  file.ContentType,
		CacheControl: a.cacheControl,
		Upsert:       false,
	})
	if err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("Image upload failed")
		return "", models.NewAppError(models.CodeUpload, "failed to upload preview image", err)
	}

	url := a.store.PublicURL(path)
	a.log.Info().Str("path", path).Int64("size", file.Size).Msg("Image uploaded")
	return url, nil
}

// Remove deletes the object behind a previously issued public URL. Failures are logged only.
func (a *assetManager) Remove(ctx context.Context, publicURL string) {
	if publicURL == "" {
		return
	}

	path, err := storage.PathFromPublicURL(publicURL)
	if err != nil {
		a.log.Warn().Err(err).Str("url", publicURL).Msg("Cannot derive image path, leaving object in place")
		a.metrics.RecordBestEffortFailure("image_remove")
		return
	}

	if err := a.store.Remove(ctx, []string{path}); err != nil {
		a.log.Warn().Err(err).Str("path", path).Msg("Image removal failed")
		a.metrics.RecordBestEffortFailure("image_remove")
		return
	}

	a.log.Info().Str("path", path).Msg("Image removed")
}
