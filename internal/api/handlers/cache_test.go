package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tech-envelope/internal/api/models"
)

func TestBuildCache(t *testing.T) {
	c := NewBuildCache(time.Hour)
	key := CacheKey("doc", true)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, models.BuildResponse{Technology: "tec"})
	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, "tec", got.Technology)

	// The transform flag is part of the identity.
	_, ok = c.Get(CacheKey("doc", false))
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestBuildCacheExpiry(t *testing.T) {
	c := NewBuildCache(time.Nanosecond)
	key := CacheKey("doc", false)
	c.Set(key, models.BuildResponse{Technology: "tec"})

	time.Sleep(time.Millisecond)
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestBuildCacheNilIsDisabled(t *testing.T) {
	var c *BuildCache
	c.Set("key", models.BuildResponse{})
	_, ok := c.Get("key")
	assert.False(t, ok)
	c.Clear()
}

func TestCacheKeyDeterministic(t *testing.T) {
	assert.Equal(t, CacheKey("doc", true), CacheKey("doc", true))
	assert.NotEqual(t, CacheKey("doc", true), CacheKey("other", true))
}
