package dao

import (
	"context"
	"errors"
)

var (
	// ErrNotFound signals the record does not exist in the store.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID signals an empty or malformed record id.
	ErrInvalidID = errors.New("invalid record id")
	// ErrNilEntity signals a nil record was passed to Save.
	ErrNilEntity = errors.New("nil record")
)

// Service is a minimal typed store for per-job records.
type Service[K comparable, V any] interface {
	Save(ctx context.Context, v *V) error
	Load(ctx context.Context, key K) (*V, error)
	List(ctx context.Context) ([]*V, error)
	Delete(ctx context.Context, key K) error
}
