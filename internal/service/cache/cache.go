package cache

import (
	"context"
	"errors"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	pkgcache "HealthPull/pkg/cache"
)

// SessionCache memoizes load results under a per-session key namespace.
// The key is the full (session, kind, subject, start, end) tuple, so a new
// window or subject id is a different key; nothing is invalidated in place.
type SessionCache struct {
	store  pkgcache.Service
	prefix string
	ttl    time.Duration
}

// NewSessionCache wraps store. prefix separates process lifetimes so that a
// shared L2 never serves results from a previous run; ttl bounds idle sessions.
func NewSessionCache(store pkgcache.Service, prefix string, ttl time.Duration) *SessionCache {
	return &SessionCache{store: store, prefix: prefix, ttl: ttl}
}

// Key returns the memo key for q within session.
func (c *SessionCache) Key(session string, q models.Query) string {
	return pkgcache.GenerateKeyWithParams(c.sessionPrefix(session),
		q.Kind,
		pkgcache.HashKey(q.SubjectID),
		q.Window.StartDate(),
		q.Window.EndDate(),
	)
}

func (c *SessionCache) Get(ctx context.Context, session string, q models.Query) (models.LoadResult, bool) {
	var res models.LoadResult
	if err := c.store.Get(ctx, c.Key(session, q), &res); err != nil {
		return models.LoadResult{}, false
	}
	return res, true
}

func (c *SessionCache) Set(ctx context.Context, session string, q models.Query, res models.LoadResult) error {
	return c.store.Set(ctx, c.Key(session, q), res, c.ttl)
}

// ClearSession drops every memoized result of session.
func (c *SessionCache) ClearSession(ctx context.Context, session string) error {
	if session == "" {
		return errors.New("session id is required")
	}
	return c.store.DeleteByPattern(ctx, pkgcache.BuildPattern(c.sessionPrefix(session)+":"))
}

func (c *SessionCache) sessionPrefix(session string) string {
	return pkgcache.GenerateKey(c.prefix, "session:"+session)
}

var _ drepo.ResultCache = (*SessionCache)(nil)
