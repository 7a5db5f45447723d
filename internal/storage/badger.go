package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Key prefixes for BadgerDB storage
const (
	objectKeyPrefix = "object:"
	metaKeyPrefix   = "object_meta:"
)

type objectMeta struct {
	ContentType  string `json:"content_type"`
	CacheControl string `json:"cache_control"`
	Size         int    `json:"size"`
}

// BadgerStore implements BlobStore on top of BadgerDB
type BadgerStore struct {
	db      *badger.DB
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// OpenBadger opens (or creates) a BadgerDB at path. An empty path runs in memory.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return db, nil
}

// NewBadgerStore creates a store for one bucket. baseURL is the externally reachable
// address of the API, used to build public URLs.
func NewBadgerStore(db *badger.DB, bucket, baseURL string, log zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:      db,
		bucket:  bucket,
		baseURL: baseURL,
		log:     log.With().Str("component", "blob_store").Str("bucket", bucket).Logger(),
	}
}

// Bucket returns the bucket name served by this store
func (s *BadgerStore) Bucket() string {
	return s.bucket
}

// Upload writes data at path. Without Upsert an existing object is never overwritten.
func (s *BadgerStore) Upload(ctx context.Context, path string, data []byte, opts UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta, err := json.Marshal(objectMeta{
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
		Size:         len(data),
	})
	if err != nil {
		return fmt.Errorf("marshal object meta: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := s.objectKey(path)
		if !opts.Upsert {
			_, err := txn.Get(key)
			if err == nil {
				return ErrObjectExists
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set object: %w", err)
		}
		if err := txn.Set(s.metaKey(path), meta); err != nil {
			return fmt.Errorf("set object meta: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().Str("path", path).Int("size", len(data)).Msg("Object stored")
	return nil
}

// Get reads the object stored at path
func (s *BadgerStore) Get(ctx context.Context, path string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj := &Object{Path: path}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.objectKey(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrObjectNotFound
		}
		if err != nil {
			return fmt.Errorf("get object: %w", err)
		}
		obj.Data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		metaItem, err := txn.Get(s.metaKey(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get object meta: %w", err)
		}
		return metaItem.Value(func(val []byte) error {
			var meta objectMeta
			if err := json.Unmarshal(val, &meta); err != nil {
				return err
			}
			obj.ContentType = meta.ContentType
			obj.CacheControl = meta.CacheControl
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// PublicURL returns the stable URL under which path is served
func (s *BadgerStore) PublicURL(path string) string {
	return publicURL(s.baseURL, s.bucket, path)
}

// Remove deletes the objects at paths. Missing objects are ignored.
func (s *BadgerStore) Remove(ctx context.Context, paths []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, path := range paths {
			if err := txn.Delete(s.objectKey(path)); err != nil {
				return fmt.Errorf("delete object %s: %w", path, err)
			}
			if err := txn.Delete(s.metaKey(path)); err != nil {
				return fmt.Errorf("delete object meta %s: %w", path, err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) objectKey(path string) []byte {
	return []byte(objectKeyPrefix + s.bucket + "/" + path)
}

func (s *BadgerStore) metaKey(path string) []byte {
	return []byte(metaKeyPrefix + s.bucket + "/" + path)
}
