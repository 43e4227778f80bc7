package pathkit

import (
	"context"
	"sync"
)

// HandleCache lazily constructs and memoizes live backend handles,
// keyed by filesystem identity when defined and by the canonicalized
// option set otherwise. It is purely a resource-sharing optimization:
// cache state never feeds into path equality.
//
// The map lock is held only for lookups and entry insertion, never
// across a factory call, so a slow construction for one key cannot
// stall readers of unrelated keys. A per-entry mutex guarantees
// at-most-one in-flight construction per key; a failed construction
// leaves no handle behind, so later calls retry.
type HandleCache struct {
	mu      sync.RWMutex
	entries map[string]*handleEntry
}

type handleEntry struct {
	mu     sync.Mutex
	handle Backend
}

// NewHandleCache creates an empty handle cache.
func NewHandleCache() *HandleCache {
	return &HandleCache{entries: make(map[string]*handleEntry)}
}

// DefaultCache is the process-wide handle cache used by Path.FileSystem.
var DefaultCache = NewHandleCache()

// cacheKey derives the sharing key for a (protocol, options) pair.
func cacheKey(protocol string, opts Options) string {
	if id, ok := Identity(protocol, opts); ok {
		return protocol + "\x00" + id
	}
	return protocol + "\x00" + opts.Canonical()
}

// GetOrCreate returns the shared handle for (protocol, opts),
// constructing it through the registered factory on first use.
// Concurrent calls for the same key await the in-flight construction;
// calls for different keys proceed independently.
func (c *HandleCache) GetOrCreate(ctx context.Context, protocol string, opts Options) (Backend, error) {
	entry, ok := Lookup(protocol)
	if !ok || entry.Factory == nil {
		return nil, addrErr("connect", "", protocol, ErrNoBackendFactory)
	}

	key := cacheKey(protocol, opts.Merge(entry.Defaults))

	c.mu.RLock()
	e := c.entries[key]
	c.mu.RUnlock()

	if e == nil {
		c.mu.Lock()
		if e = c.entries[key]; e == nil {
			e = &handleEntry{}
			c.entries[key] = e
		}
		c.mu.Unlock()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle != nil {
		return e.handle, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle, err := entry.Factory(opts.Merge(entry.Defaults))
	if err != nil {
		return nil, err
	}
	e.handle = handle

	// A backend that knows its own identity is additionally indexed
	// under it, so differently-optioned paths reaching the same
	// backend share one handle.
	if fs, ok := handle.(HasFSID); ok {
		if id := fs.FSID(); id != "" {
			c.alias(protocol+"\x00"+id, e)
		}
	}
	return handle, nil
}

func (c *HandleCache) alias(key string, e *handleEntry) {
	c.mu.Lock()
	if _, exists := c.entries[key]; !exists {
		c.entries[key] = e
	}
	c.mu.Unlock()
}

// Invalidate drops the cached handle for (protocol, opts), e.g. after
// credential rotation. The next GetOrCreate constructs a fresh handle.
func (c *HandleCache) Invalidate(protocol string, opts Options) {
	entry, _ := Lookup(protocol)
	key := cacheKey(protocol, opts.Merge(entry.Defaults))
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *HandleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
