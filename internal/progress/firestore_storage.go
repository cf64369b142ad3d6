package progress

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreCollection = "client_storage"

type firestoreStorage struct {
	client *firestore.Client
}

// NewFirestoreStorage stores each client namespace as one document with a field per key.
func NewFirestoreStorage(client *firestore.Client) Storage {
	return &firestoreStorage{client: client}
}

func (s *firestoreStorage) doc(namespace string) *firestore.DocumentRef {
	return s.client.Collection(firestoreCollection).Doc(namespace)
}

func (s *firestoreStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	snap, err := s.doc(namespace).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	raw, err := snap.DataAt(key)
	if err != nil {
		return nil, ErrNotFound
	}
	value, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("field %s has type %T", key, raw)
	}
	return []byte(value), nil
}

func (s *firestoreStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.doc(namespace).Set(ctx, map[string]interface{}{key: string(value)}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *firestoreStorage) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.doc(namespace).Update(ctx, []firestore.Update{{Path: key, Value: firestore.Delete}})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}
