package usecase

import (
	"testing"
	"time"

	"HealthPull/internal/domain/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func win(start, end string) models.Window {
	return models.Window{Start: day(start), End: day(end)}
}

func fixedController() *DateRangeController {
	now := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)
	return NewDateRangeController(WithClock(func() time.Time { return now }))
}

func assertWindow(t *testing.T, got models.Window, start, end string) {
	t.Helper()
	if got.StartDate() != start || got.EndDate() != end {
		t.Fatalf("window = [%s, %s], want [%s, %s]", got.StartDate(), got.EndDate(), start, end)
	}
}

func TestDefaultWindowAndBounds(t *testing.T) {
	c := fixedController()
	assertWindow(t, c.Default(), "2024-01-25", "2024-02-01")
	lo, hi := c.Bounds()
	if lo.Format("2006-01-02") != "2024-01-02" || hi.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("bounds = [%v, %v]", lo, hi)
	}
}

func TestAdjust(t *testing.T) {
	c := fixedController()
	tests := []struct {
		name               string
		prev, proposed     models.Window
		wantStart, wantEnd string
	}{
		{"start moved keeps end", win("2024-01-20", "2024-01-27"), win("2024-01-15", "2024-01-27"), "2024-01-15", "2024-01-27"},
		{"end moved rolls start", win("2024-01-20", "2024-01-27"), win("2024-01-20", "2024-01-15"), "2024-01-08", "2024-01-15"},
		{"end moved forward", win("2024-01-10", "2024-01-15"), win("2024-01-10", "2024-01-30"), "2024-01-23", "2024-01-30"},
		{"end near lower bound is clamped", win("2024-01-20", "2024-01-27"), win("2024-01-20", "2024-01-04"), "2024-01-02", "2024-01-04"},
		{"start dragged past end", win("2024-01-10", "2024-01-15"), win("2024-01-20", "2024-01-15"), "2024-01-20", "2024-01-27"},
		{"start past end clamped to today", win("2024-01-10", "2024-01-15"), win("2024-01-30", "2024-01-15"), "2024-01-30", "2024-02-01"},
		{"both moved, start larger", win("2024-01-10", "2024-01-17"), win("2024-01-05", "2024-01-18"), "2024-01-05", "2024-01-17"},
		{"both moved, equal counts as end", win("2024-01-10", "2024-01-17"), win("2024-01-12", "2024-01-19"), "2024-01-12", "2024-01-19"},
		{"nothing moved", win("2024-01-10", "2024-01-17"), win("2024-01-10", "2024-01-17"), "2024-01-10", "2024-01-17"},
		{"future end clamped", win("2024-01-20", "2024-01-27"), win("2024-01-20", "2024-03-01"), "2024-01-25", "2024-02-01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertWindow(t, c.Adjust(tc.prev, tc.proposed), tc.wantStart, tc.wantEnd)
		})
	}
}

func TestAdjustAlwaysWithinBounds(t *testing.T) {
	c := fixedController()
	lo, hi := c.Bounds()
	prev := c.Default()
	for s := -40; s <= 5; s += 3 {
		for e := -40; e <= 5; e += 4 {
			proposed := models.Window{Start: hi.AddDate(0, 0, s), End: hi.AddDate(0, 0, e)}
			got := c.Adjust(prev, proposed)
			if got.End.Before(got.Start) {
				t.Fatalf("start after end: %+v from %+v", got, proposed)
			}
			if got.Start.Before(lo) || got.End.After(hi) {
				t.Fatalf("out of bounds: [%s, %s]", got.StartDate(), got.EndDate())
			}
			prev = got
		}
	}
}

func TestParseFallsBackToDefault(t *testing.T) {
	c := fixedController()
	assertWindow(t, c.Parse("", ""), "2024-01-25", "2024-02-01")
	assertWindow(t, c.Parse("nope", "2024-01-30"), "2024-01-25", "2024-01-30")
	assertWindow(t, c.Parse("2024-01-28", "2024-01-20"), "2024-01-20", "2024-01-28")
}

func TestWindowOptions(t *testing.T) {
	now := time.Date(2024, 2, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	c := NewDateRangeController(
		WithWindowDays(3),
		WithMaxDays(10),
		WithLocation(tokyo),
		WithClock(func() time.Time { return now }),
	)
	// 23:30 UTC is already the next day in Tokyo
	assertWindow(t, c.Default(), "2024-01-30", "2024-02-02")
	lo, _ := c.Bounds()
	if got := lo.Format("2006-01-02"); got != "2024-01-23" {
		t.Fatalf("lower bound = %s", got)
	}
}
