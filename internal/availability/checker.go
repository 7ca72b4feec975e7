// Package availability answers whether a username is still free on the
// registration backend.
package availability

import (
	"context"
	"time"

	"github.com/zjrosen/signup/internal/cachemanager"
	"github.com/zjrosen/signup/internal/log"
)

// Checker reports whether a username may be registered. It never fails:
// anything that prevents a definite answer counts as unavailable.
type Checker interface {
	CheckUsernameAvailable(ctx context.Context, username string) bool
}

// UsernameChecker is the raw backend lookup, satisfied by *api.Client.
type UsernameChecker interface {
	CheckUsername(ctx context.Context, username string) (bool, error)
}

type cacheKey string

// RemoteChecker asks the backend for every check, optionally memoizing
// successful answers per exact username.
type RemoteChecker struct {
	remote   UsernameChecker
	cache    *cachemanager.ReadThroughCache[cacheKey, bool, string]
	cacheTTL time.Duration
}

// Option configures a RemoteChecker.
type Option func(*RemoteChecker)

// WithCache memoizes successful lookups for ttl. A ttl of zero or less
// leaves every check going to the backend.
func WithCache(ttl time.Duration) Option {
	return func(c *RemoteChecker) { c.cacheTTL = ttl }
}

// NewRemoteChecker creates a checker backed by remote.
func NewRemoteChecker(remote UsernameChecker, opts ...Option) *RemoteChecker {
	c := &RemoteChecker{remote: remote}
	for _, opt := range opts {
		opt(c)
	}

	ttl := c.cacheTTL
	if ttl <= 0 {
		ttl = cachemanager.DefaultExpiration
	}
	store := cachemanager.NewInMemoryCacheManager[cacheKey, bool]("availability", ttl, cachemanager.DefaultCleanupInterval)
	c.cache = cachemanager.NewReadThroughCache[cacheKey, bool, string](store, remote.CheckUsername, c.cacheTTL <= 0)

	return c
}

// CheckUsernameAvailable returns true only when the backend positively
// reports username as free.
func (c *RemoteChecker) CheckUsernameAvailable(ctx context.Context, username string) bool {
	available, err := c.cache.Get(ctx, cacheKey(username), username, c.cacheTTL)
	if err != nil {
		log.Warn(log.CatAPI, "Availability check failed, treating as taken", "username", username, "error", err)
		return false
	}
	return available
}

// Forget drops any memoized answer for username.
func (c *RemoteChecker) Forget(username string) {
	if username == "" {
		return
	}
	if err := c.cache.Forget(context.Background(), cacheKey(username)); err != nil {
		log.ErrorErr(log.CatCache, "Failed to forget username", err, "username", username)
	}
}
