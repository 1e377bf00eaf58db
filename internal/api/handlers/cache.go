package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"tech-envelope/internal/api/models"
)

type cacheEntry struct {
	response  models.BuildResponse
	expiresAt time.Time
}

// BuildCache memoizes synthesized fragments keyed by the document hash.
// Synthesis is deterministic, so an identical document always yields the
// same fragment; for trajectory technologies over long horizons the build
// is expensive enough to be worth remembering.
type BuildCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

var buildCache *BuildCache
var buildCacheOnce sync.Once

// NewBuildCache creates a cache with the given entry lifetime and starts
// its background sweeper.
func NewBuildCache(ttl time.Duration) *BuildCache {
	c := &BuildCache{store: make(map[string]cacheEntry), ttl: ttl}
	go c.sweep()
	return c
}

// CacheFromEnv returns the process-wide build cache, or nil when disabled.
// Enable with ENABLE_BUILD_CACHE=true; BUILD_CACHE_TTL overrides the
// 1 hour default.
func CacheFromEnv() *BuildCache {
	if os.Getenv("ENABLE_BUILD_CACHE") != "true" {
		return nil
	}
	buildCacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if s := os.Getenv("BUILD_CACHE_TTL"); s != "" {
			if parsed, err := time.ParseDuration(s); err == nil {
				ttl = parsed
			}
		}
		buildCache = NewBuildCache(ttl)
	})
	return buildCache
}

// Get returns a cached response if present and not expired. Safe on a nil
// receiver so callers need not guard the disabled case.
func (c *BuildCache) Get(key string) (models.BuildResponse, bool) {
	if c == nil {
		return models.BuildResponse{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || time.Now().After(e.expiresAt) {
		return models.BuildResponse{}, false
	}
	return e.response, true
}

// Set stores a response under the key.
func (c *BuildCache) Set(key string, resp models.BuildResponse) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{response: resp, expiresAt: time.Now().Add(c.ttl)}
}

// Clear drops all entries.
func (c *BuildCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

func (c *BuildCache) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, e := range c.store {
			if now.After(e.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheKey hashes the request inputs that determine the response.
func CacheKey(document string, transform bool) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%v", document, transform)))
	return hex.EncodeToString(sum[:])
}
