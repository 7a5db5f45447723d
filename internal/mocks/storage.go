package mocks

import (
	"context"
	"sync"

	"github.com/article-cms-api/internal/storage"
)

// MockBlobStore is an in-memory BlobStore with error injection
type MockBlobStore struct {
	mu          sync.Mutex
	Objects     map[string]*storage.Object
	Options     map[string]storage.UploadOptions
	UploadError error
	RemoveError error
	Removed     []string
	BaseURL     string
}

var _ storage.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Objects: make(map[string]*storage.Object),
		Options: make(map[string]storage.UploadOptions),
		BaseURL: "http://localhost:8080/storage/v1/object/public/article-images/",
	}
}

func (m *MockBlobStore) Upload(ctx context.Context, path string, data []byte, opts storage.UploadOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadError != nil {
		return m.UploadError
	}
	if _, exists := m.Objects[path]; exists && !opts.Upsert {
		return storage.ErrObjectExists
	}
	m.Objects[path] = &storage.Object{
		Path:         path,
		Data:         data,
		ContentType:  opts.ContentType,
		CacheControl: opts.CacheControl,
	}
	m.Options[path] = opts
	return nil
}

func (m *MockBlobStore) Get(ctx context.Context, path string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.Objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return obj, nil
}

func (m *MockBlobStore) PublicURL(path string) string {
	return m.BaseURL + path
}

func (m *MockBlobStore) Remove(ctx context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, paths...)
	if m.RemoveError != nil {
		return m.RemoveError
	}
	for _, p := range paths {
		delete(m.Objects, p)
	}
	return nil
}

// Has reports whether an object is stored at path
func (m *MockBlobStore) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[path]
	return ok
}

// Count returns the number of stored objects
func (m *MockBlobStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
