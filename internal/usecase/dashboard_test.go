package usecase

import (
	"context"
	"testing"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/normalize"
)

type tableLoader struct {
	reg  *normalize.Registry
	data map[models.Kind][]models.Row
}

func (l *tableLoader) Load(_ context.Context, _ string, q models.Query) (models.RawResponse, models.Table, error) {
	raw := models.RawResponse{Data: l.data[q.Kind]}
	if !q.Linked() || raw.Data == nil {
		raw = models.EmptyResponse()
	}
	t, err := l.reg.Normalize(q.Kind, raw)
	return raw, t, err
}

func TestBuildDashboard(t *testing.T) {
	loader := &tableLoader{reg: normalize.Default(), data: map[models.Kind][]models.Row{
		models.KindSleep: {
			{"date": "2024-01-01", "total_sleep": 25200.0, "deep": 3600.0, "rem": 5400.0, "source": "oura"},
			{"date": "2024-01-02", "total_sleep": 27000.0, "deep": 4200.0, "rem": 6000.0, "source": "oura"},
		},
		models.KindSteps: {
			{"date": "2024-01-01", "value": 500.0, "source": "fitbit"},
			{"date": "2024-01-02", "value": 700.0, "source": "fitbit"},
		},
		models.KindHeart: {
			{"date": "2024-01-01", "resting_hr": 62.0, "source": "garmin", "heart_rate_samples": []interface{}{}},
			{"date": "2024-01-02", "source": "garmin"},
			{"date": "2024-01-03", "resting_hr": 57.0, "source": "garmin"},
		},
	}}
	c := fixedController()
	b := NewDashboardBuilder(loader, c)

	d, err := b.Build(context.Background(), "s1", "abc", c.Default(), "heart")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !d.Linked() || d.ActiveTab != "heart" {
		t.Fatalf("unexpected dashboard header %+v", d)
	}
	if len(d.Sleep.Tiles) != 3 || d.Sleep.Tiles[0].Value != 450 || d.Sleep.Tiles[0].Delta != 30 {
		t.Fatalf("sleep tiles = %+v", d.Sleep.Tiles)
	}
	if len(d.Sleep.Weekdays) != 2 || d.Sleep.Series.YField != "total_sleep(min)" {
		t.Fatalf("sleep view = %+v", d.Sleep)
	}
	if len(d.Steps.Points) != 2 || d.Steps.YField != "steps" {
		t.Fatalf("steps = %+v", d.Steps)
	}
	if len(d.Heart.Points) != 2 || d.Heart.YMin != 57 || d.Heart.YMax != 62 {
		t.Fatalf("heart = %+v", d.Heart)
	}
	if len(d.Heart.Raw.Data) != 3 {
		t.Fatalf("heart raw echo should be complete, got %d rows", len(d.Heart.Raw.Data))
	}
	if !d.Glucose.Empty() {
		t.Fatalf("glucose should be empty")
	}
}

func TestBuildDashboardUnlinked(t *testing.T) {
	c := fixedController()
	b := NewDashboardBuilder(&tableLoader{reg: normalize.Default()}, c)
	d, err := b.Build(context.Background(), "s1", "", c.Default(), "sleep")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Linked() {
		t.Fatalf("expected unlinked dashboard")
	}
	if d.Sleep.Tiles != nil || !d.Steps.Empty() || !d.Heart.Empty() || !d.Glucose.Empty() {
		t.Fatalf("expected empty views, got %+v", d)
	}
}
