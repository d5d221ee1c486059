package database

import "context"

// KVRepository persists JSON documents by key.
type KVRepository interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	PutJSON(ctx context.Context, key string, v any) error
	PutJSONBatch(ctx context.Context, entries map[string]any) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// BlobRepository persists file bodies.
type BlobRepository interface {
	PutBlob(ctx context.Context, blob Blob) error
	GetBlob(ctx context.Context, id string) (*Blob, error)
	HasBlob(ctx context.Context, id string) (bool, error)
	DeleteBlob(ctx context.Context, id string) error
	DeleteProjectBlobs(ctx context.Context, projectID string) (int64, error)
	ListBlobIDs(ctx context.Context, projectID string) ([]string, error)
}

// Repository combines all repository interfaces.
type Repository interface {
	KVRepository
	BlobRepository
}

var _ Repository = (*Database)(nil)
