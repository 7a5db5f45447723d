package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/article-cms-api/internal/models"
	"github.com/article-cms-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BucketStore is a BlobStore that knows its bucket name
type BucketStore interface {
	storage.BlobStore
	Bucket() string
}

// StorageHandler serves stored cover images at their public URLs
type StorageHandler struct {
	store storage.BlobStore
	log   zerolog.Logger
}

// NewStorageHandler creates a new StorageHandler
func NewStorageHandler(store storage.BlobStore, log zerolog.Logger) *StorageHandler {
	return &StorageHandler{
		store: store,
		log:   log.With().Str("handler", "storage").Logger(),
	}
}

// ServeObject handles GET /storage/v1/object/public/:bucket/*path
func (h *StorageHandler) ServeObject(c *gin.Context) {
	notFound := models.ErrorResult(models.NewAppError(models.CodeNotFound, "object not found", nil))
	if h.store == nil {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	if bs, ok := h.store.(BucketStore); ok && bs.Bucket() != c.Param("bucket") {
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	path := strings.TrimPrefix(c.Param("path"), "/")
	obj, err := h.store.Get(c.Request.Context(), path)
	if errors.Is(err, storage.ErrObjectNotFound) {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("path", path).Msg("Failed to read object")
		c.JSON(http.StatusInternalServerError, models.ErrorResult(
			models.NewAppError(models.CodeInternal, "failed to read object", err),
		))
		return
	}

	if obj.CacheControl != "" {
		c.Header("Cache-Control", "max-age="+obj.CacheControl)
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, obj.Data)
}
