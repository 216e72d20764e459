// Package storage is the persistence port for the storefront. Each
// collection lives under a stable key as one serialized JSON array and
// is read and rewritten wholesale on every mutation. There is no
// locking across processes: concurrent writers race and the last write
// wins.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	KeyProducts    = "products"
	KeyOrders      = "orders"
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

// Store is a key-value store of serialized collections. Get returns
// (nil, nil) for an absent key; Delete on an absent key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadList reads and decodes a whole collection. An absent key decodes
// to an empty slice; corrupt data is an unrecoverable fault for the
// caller.
func LoadList[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []T{}, nil
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode collection %q: %w", key, err)
	}
	return list, nil
}

// SaveList encodes and rewrites a whole collection.
func SaveList[T any](ctx context.Context, s Store, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
