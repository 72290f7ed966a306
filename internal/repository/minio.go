package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type MinIORepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, connectTimeout time.Duration, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}

	// Best-effort bootstrap: на старте не валим сервис, если MinIO ещё
	// не готов — дождёмся его при первом обращении.
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; service will keep running and retry on demand")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		if _, err := r.client.ListBuckets(ctx); err != nil {
			time.Sleep(backoff)
			continue
		}

		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			time.Sleep(backoff)
			continue
		}

		if !exists {
			if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
				time.Sleep(backoff)
				continue
			}
			r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
		}

		r.bucketEnsured = true
		return nil
	}
}

func (r *MinIORepository) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	uploadInfo, err := r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("key", key).
		Str("etag", uploadInfo.ETag).
		Int("size", len(data)).
		Msg("Object uploaded to MinIO")

	return nil
}

func (r *MinIORepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, err
	}

	if _, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	object, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

// Delete удаляет объект. Ошибка логируется, но не поднимается:
// очистка хранилища всегда best-effort.
func (r *MinIORepository) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := r.ensureBucket(ctx); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Skipping object delete, MinIO not ready")
		return
	}

	if err := r.client.RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("key", key).
		Msg("Object deleted from MinIO")
}

func (r *MinIORepository) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	url, err := r.client.PresignedGetObject(ctx, r.bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
