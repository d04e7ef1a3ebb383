package cache

import (
    "net/url"
    "strings"
    "sync"
    "time"
)

// entry stores one cached payload with expiry.
type entry[V any] struct {
    expiresAt time.Time
    value     V
}

// Cache is a process-wide get-or-fetch memoizer keyed by request signature.
// Entries expire lazily on read; there is no sweeper goroutine. Concurrent
// misses on the same key may both fetch and the last writer wins; that costs
// a duplicate fetch, nothing more.
//
// Build one per process and inject it; it is not a package-level singleton.
type Cache[V any] struct {
    TTL time.Duration
    // MaxEntries bounds the map. When exceeded on write, expired entries
    // are dropped first, then arbitrary ones. <= 0 means unbounded.
    MaxEntries int

    now func() time.Time

    mu    sync.RWMutex
    items map[string]entry[V]
}

// New builds a cache with the given TTL and entry cap.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
    return &Cache[V]{TTL: ttl, MaxEntries: maxEntries, now: time.Now, items: make(map[string]entry[V])}
}

// Key canonicalizes (url, query params) into a cache key. url.Values.Encode
// emits parameters in sorted key order, so equivalent requests collide.
func Key(rawurl string, params url.Values) string {
    if len(params) == 0 { return rawurl }
    var b strings.Builder
    b.WriteString(rawurl)
    b.WriteByte('?')
    b.WriteString(params.Encode())
    return b.String()
}

// Get returns the cached value for key when present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
    c.mu.RLock()
    e, ok := c.items[key]
    c.mu.RUnlock()
    if !ok || c.now().After(e.expiresAt) {
        var zero V
        return zero, false
    }
    return e.value, true
}

// Set stores value under key with a fresh TTL window.
func (c *Cache[V]) Set(key string, value V) {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.items == nil { c.items = make(map[string]entry[V]) }
    c.items[key] = entry[V]{expiresAt: c.now().Add(c.TTL), value: value}
    if c.MaxEntries > 0 && len(c.items) > c.MaxEntries {
        c.evictLocked()
    }
}

// GetOrFetch returns the cached value for key, or invokes fetch, stores the
// result and returns it. Fetch errors are returned as-is and never cached.
func (c *Cache[V]) GetOrFetch(key string, fetch func() (V, error)) (V, error) {
    if v, ok := c.Get(key); ok {
        return v, nil
    }
    v, err := fetch()
    if err != nil {
        var zero V
        return zero, err
    }
    c.Set(key, v)
    return v, nil
}

// Len reports the current entry count, expired entries included.
func (c *Cache[V]) Len() int {
    c.mu.RLock()
    defer c.mu.RUnlock()
    return len(c.items)
}

// evictLocked drops expired entries first, then arbitrary ones until the
// map fits under MaxEntries. Caller holds the write lock.
func (c *Cache[V]) evictLocked() {
    now := c.now()
    for k, e := range c.items {
        if len(c.items) <= c.MaxEntries { return }
        if now.After(e.expiresAt) { delete(c.items, k) }
    }
    for k := range c.items {
        if len(c.items) <= c.MaxEntries { return }
        delete(c.items, k)
    }
}
