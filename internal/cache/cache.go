// Package cache stores serialized calculator responses. Calculator outputs
// are a pure function of their inputs, plus the current date for endpoints
// that default to today, which callers fold into the key. Entries never need
// invalidating beyond an optional TTL.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/lachho/property-sub000/pkg/constants"
)

// Cache is a byte store keyed by request fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key fingerprints a request body for an endpoint.
func Key(endpoint string, body []byte) string {
	return "property-engine:" + endpoint + ":" + strconv.FormatUint(xxhash.Sum64(body), 16)
}

// New builds the cache for a configured backend. The none backend returns a
// nil Cache.
func New(backend, addr string, ttl time.Duration) (Cache, error) {
	switch backend {
	case "", constants.CacheBackendNone:
		return nil, nil
	case constants.CacheBackendMemory:
		return NewMemory(ttl), nil
	case constants.CacheBackendRedis:
		if addr == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		return NewRedis(addr, ttl), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
