package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"HealthPull/internal/domain/models"
	pkgcache "HealthPull/pkg/cache"
)

func q(subject string, end int) models.Query {
	return models.Query{
		SubjectID: subject,
		Kind:      models.KindSteps,
		Window: models.Window{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, end, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestKeyCoversWholeTuple(t *testing.T) {
	c := NewSessionCache(nil, "metrics", time.Hour)
	base := c.Key("s1", q("abc", 7))
	for _, other := range []string{
		c.Key("s2", q("abc", 7)),
		c.Key("s1", q("xyz", 7)),
		c.Key("s1", q("abc", 8)),
	} {
		if other == base {
			t.Fatalf("keys must differ: %s", base)
		}
	}
	if strings.Contains(base, "abc") {
		t.Fatalf("subject id must not appear in clear text: %s", base)
	}
	if !strings.HasPrefix(base, "metrics:session:s1:steps:") {
		t.Fatalf("unexpected key layout: %s", base)
	}
}

func TestSetGetClear(t *testing.T) {
	store := pkgcache.NewMemoryCache()
	defer store.Close()
	c := NewSessionCache(store, "metrics", time.Hour)
	ctx := context.Background()

	res := models.LoadResult{Raw: models.EmptyResponse(), Table: models.Table{Kind: models.KindSteps}}
	if err := c.Set(ctx, "s1", q("abc", 7), res); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "s10", q("abc", 7), res); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok := c.Get(ctx, "s1", q("abc", 7)); !ok || got.Table.Kind != models.KindSteps {
		t.Fatalf("get = %+v, %v", got, ok)
	}
	if _, ok := c.Get(ctx, "s1", q("abc", 8)); ok {
		t.Fatalf("unexpected hit for another window")
	}

	if err := c.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := c.Get(ctx, "s1", q("abc", 7)); ok {
		t.Fatalf("session s1 should be cleared")
	}
	if _, ok := c.Get(ctx, "s10", q("abc", 7)); !ok {
		t.Fatalf("session s10 must survive clearing s1")
	}
	if err := c.ClearSession(ctx, ""); err == nil {
		t.Fatalf("expected error for empty session")
	}
}
