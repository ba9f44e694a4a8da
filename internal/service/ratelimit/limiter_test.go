package ratelimit

import (
    "testing"
    "time"
)

func TestAllowConsumesAndRefills(t *testing.T) {
    now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    l := New(2, 1)
    l.now = func() time.Time { return now }

    if !l.Allow("s1:live") || !l.Allow("s1:live") {
        t.Fatalf("expected burst of 2")
    }
    if l.Allow("s1:live") {
        t.Fatalf("bucket should be empty")
    }
    if !l.Allow("s2:live") {
        t.Fatalf("buckets are per key")
    }

    now = now.Add(1500 * time.Millisecond)
    if !l.Allow("s1:live") {
        t.Fatalf("expected refill after 1.5s")
    }
    if l.Allow("s1:live") {
        t.Fatalf("only one token should have been refilled")
    }
}

func TestForgetDropsSessionBuckets(t *testing.T) {
    l := New(1, 0.001)
    l.Allow("s1:live")
    l.Allow("s1:metrics")
    l.Allow("s2:live")
    l.Forget("s1:")
    if !l.Allow("s1:live") || !l.Allow("s1:metrics") {
        t.Fatalf("forgotten buckets should start full")
    }
    if l.Allow("s2:live") {
        t.Fatalf("s2 bucket should be untouched")
    }
}
