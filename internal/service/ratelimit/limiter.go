package ratelimit

import (
    "strings"
    "sync"
    "time"
)

type bucket struct {
    tokens float64
    last   time.Time
}

// Limiter is a per-key token bucket; one bucket per session and endpoint.
type Limiter struct {
    mu         sync.Mutex
    m          map[string]*bucket
    capacity   float64
    refillRate float64 // tokens per second
    now        func() time.Time
}

func New(capacity, refillPerSec float64) *Limiter {
    if capacity <= 0 {
        capacity = 10
    }
    if refillPerSec <= 0 {
        refillPerSec = 2
    }
    return &Limiter{m: make(map[string]*bucket), capacity: capacity, refillRate: refillPerSec, now: time.Now}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
    now := l.now()
    l.mu.Lock()
    defer l.mu.Unlock()
    b, ok := l.m[key]
    if !ok {
        b = &bucket{tokens: l.capacity, last: now}
        l.m[key] = b
    }
    if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
        b.tokens += elapsed * l.refillRate
        if b.tokens > l.capacity {
            b.tokens = l.capacity
        }
        b.last = now
    }
    if b.tokens >= 1 {
        b.tokens--
        return true
    }
    return false
}

// Forget drops every bucket whose key starts with prefix.
func (l *Limiter) Forget(prefix string) {
    l.mu.Lock()
    defer l.mu.Unlock()
    for k := range l.m {
        if strings.HasPrefix(k, prefix) {
            delete(l.m, k)
        }
    }
}
