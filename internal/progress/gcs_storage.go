package progress

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

type gcsStorage struct {
	client *storage.Client
	bucket string
}

// NewGCSStorage stores each key as the object <namespace>/<key>.json in bucket.
func NewGCSStorage(client *storage.Client, bucket string) Storage {
	return &gcsStorage{client: client, bucket: bucket}
}

func objectPath(namespace, key string) string {
	return fmt.Sprintf("%s/%s.json", namespace, key)
}

func (s *gcsStorage) object(namespace, key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(objectPath(namespace, key))
}

func (s *gcsStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	reader, err := s.object(namespace, key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", objectPath(namespace, key), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", objectPath(namespace, key), err)
	}
	return data, nil
}

func (s *gcsStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	writer := s.object(namespace, key).NewWriter(ctx)
	writer.ContentType = "application/json"
	writer.CacheControl = "no-store"

	if _, err := writer.Write(value); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write to storage: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (s *gcsStorage) Delete(ctx context.Context, namespace, key string) error {
	err := s.object(namespace, key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", objectPath(namespace, key), err)
	}
	return nil
}
