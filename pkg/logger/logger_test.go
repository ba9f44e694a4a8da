package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	entries []AggregatedLogEntry
}

func (c *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = topic
	c.entries = append(c.entries, payload.([]AggregatedLogEntry)...)
	return nil
}

func TestWriterEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.DebugLevel).With(String("component", "loader"))
	l.Info("metric load",
		String("kind", "steps"),
		Int("rows", 2),
		Duration("duration_ms", 1500*time.Millisecond),
		Bool("linked", true),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["message"] != "metric load" || entry["component"] != "loader" || entry["kind"] != "steps" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["rows"] != 2.0 || entry["duration_ms"] != 1500.0 || entry["linked"] != true {
		t.Fatalf("unexpected typed fields %v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("error = %v", entry["error"])
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestCollectorDeduplicatesErrors(t *testing.T) {
	pub := &capturePublisher{}
	l := NewWriter(&bytes.Buffer{}, zerolog.DebugLevel)
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		l.Error("fetch failed", String("kind", "heart"))
	}
	l.Error("fetch failed", String("kind", "sleep"))
	l.Warn("not collected")
	if l.collector.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", l.collector.Pending())
	}

	l.RemoveCollector()
	if pub.topic != "logs" || len(pub.entries) != 2 {
		t.Fatalf("published %d entries to %q", len(pub.entries), pub.topic)
	}
	for _, e := range pub.entries {
		if e.Fields["kind"] == "heart" && e.Count != 3 {
			t.Fatalf("heart count = %d", e.Count)
		}
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error")
	}
}
