package repository

import (
	"context"
	"time"
)

// StorageRepository — контракт blob-хранилища, который видят сервисы.
// Реализация — MinIO, но сервисам это знать не нужно.
type StorageRepository interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
