package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

// Storage keeps parse artifacts under slash-separated keys.
type Storage interface {
	// Put stores data under key, replacing any previous object.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// NewStorage builds the backend selected by cfg.Type.
func NewStorage(ctx context.Context, cfg common.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch StorageType(strings.ToLower(cfg.Type)) {
	case StorageTypeS3:
		return NewS3Storage(ctx, cfg, logger)
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalDir, logger)
	default:
		return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unsupported storage type: %s", cfg.Type), common.ErrInvalidInput)
	}
}

// DocumentSink writes the artifacts of one document under <document id>/.
type DocumentSink struct {
	store      Storage
	documentID string
}

func NewDocumentSink(store Storage, documentID string) *DocumentSink {
	return &DocumentSink{store: store, documentID: documentID}
}

func (s *DocumentSink) Put(ctx context.Context, name string, data []byte) error {
	return s.store.Put(ctx, ArtifactKey(s.documentID, name), data)
}

// ArtifactKey is the storage key of one artifact of a document.
func ArtifactKey(documentID, name string) string {
	return path.Join(documentID, name)
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + filepath.ToSlash(key))[1:]
	if k == "" || k != strings.TrimPrefix(filepath.ToSlash(key), "/") {
		return "", fmt.Errorf("%w: invalid storage key %q", common.ErrInvalidInput, key)
	}
	return k, nil
}
