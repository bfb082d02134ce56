// Package metadata is a small key/value table holding the client's singleton
// records: the journal key and the playback progress snapshot.
package metadata

import (
	"context"
)

// Repository stores opaque values by name. Get returns (nil, nil) when the
// key is absent so callers can tell "missing" from a storage failure.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
