package spike

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"HealthPull/internal/domain/models"
)

type upstreamRecorder struct {
	mu       sync.Mutex
	statuses []int
}

func (r *upstreamRecorder) RecordLoad(string, string) {}

func (r *upstreamRecorder) RecordError(string) {}

func (r *upstreamRecorder) RecordLatency(string, float64) {}

func (r *upstreamRecorder) RecordUpstreamCall(_ string, s int) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
}

func query(kind models.Kind) models.Query {
	return models.Query{
		SubjectID: "user 1",
		Kind:      kind,
		Window: models.Window{
			Start: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestFetchSendsQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/metrics/sleep/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user_id") != "user 1" || q.Get("start_date") != "2024-01-10" || q.Get("end_date") != "2024-01-17" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get(AuthHeader) != "secret" {
			t.Errorf("auth header = %q", r.Header.Get(AuthHeader))
		}
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-01-10","total_sleep":27000}],"user_id":"user 1"}`))
	}))
	defer srv.Close()

	rec := &upstreamRecorder{}
	c := New(srv.URL+"/", "secret", time.Second, rec)
	raw, err := c.Fetch(context.Background(), query(models.KindSleep))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw.Data) != 1 {
		t.Fatalf("data = %+v", raw.Data)
	}
	if v, _ := raw.Data[0].Float("total_sleep"); v != 27000 {
		t.Fatalf("total_sleep = %v", v)
	}
	if string(raw.Extra["user_id"]) != `"user 1"` {
		t.Fatalf("extra = %v", raw.Extra)
	}
	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusOK {
		t.Fatalf("recorded = %v", rec.statuses)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	for _, status := range []int{400, 401, 404, 500, 503} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		raw, err := New(srv.URL, "s", time.Second, nil).Fetch(context.Background(), query(models.KindSteps))
		srv.Close()
		if !errors.Is(err, ErrUpstreamStatus) {
			t.Fatalf("status %d: err = %v", status, err)
		}
		if raw.Data == nil || len(raw.Data) != 0 {
			t.Fatalf("status %d: raw = %+v", status, raw)
		}
	}
}

func TestFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()
	if _, err := New(srv.URL, "s", time.Second, nil).Fetch(context.Background(), query(models.KindHeart)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFetchMissingDataIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	raw, err := New(srv.URL, "s", time.Second, nil).Fetch(context.Background(), query(models.KindGlucose))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if raw.Data == nil || len(raw.Data) != 0 {
		t.Fatalf("raw = %+v", raw)
	}
}

func TestFetchTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	rec := &upstreamRecorder{}
	_, err := New(srv.URL, "s", 50*time.Millisecond, rec).Fetch(context.Background(), query(models.KindSteps))
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if len(rec.statuses) != 1 || rec.statuses[0] != 0 {
		t.Fatalf("recorded = %v", rec.statuses)
	}
}

func TestEndpoint(t *testing.T) {
	c := New("https://api.example.com/", "s", 0, nil)
	if got := c.Endpoint(models.KindHeart); got != "https://api.example.com/metrics/heart/" {
		t.Fatalf("endpoint = %s", got)
	}
}
