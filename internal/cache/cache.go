// Package cache provides the TTL key/value store backing the resolution
// pipeline's cache-aside reads and writes.
package cache

import (
	"context"
	"time"
)

// Store is a TTL-keyed cache over a backing store.
//
// Get treats every failure as a miss: an absent key, an entry past its
// expiry, and a backing store error all report found == false. The pipeline
// prefers recomputing a result over failing a request on cache trouble.
//
// Set upserts the entry with an absolute expiry of now + ttl. Writes replace
// whole entries; concurrent writers to the same key are resolved by whichever
// write lands last in the backing store. There is no eviction beyond TTL
// expiry and no capacity bound; sizing the backing store is an operational
// concern.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
