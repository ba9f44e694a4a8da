package features

import (
	"testing"

	"HealthPull/internal/domain/models"
)

func sleepTable(rows ...models.Row) models.Table {
	return models.NewTable(models.KindSleep, []string{"date", "total_sleep", "deep", "rem", "source"}, rows)
}

func TestAddSleepMinutesTruncates(t *testing.T) {
	tb := sleepTable(models.Row{"date": "2024-01-01", "total_sleep": 25259.0})
	out := AddSleepMinutes(tb)
	if !out.HasColumn(SleepMinutesColumn) {
		t.Fatalf("missing %s", SleepMinutesColumn)
	}
	if v, _ := out.Rows[0].Float(SleepMinutesColumn); v != 420 {
		t.Fatalf("minutes = %v, want 420", v)
	}
	if tb.HasColumn(SleepMinutesColumn) {
		t.Fatalf("input table modified")
	}
}

func TestSleepTiles(t *testing.T) {
	tb := sleepTable(
		models.Row{"date": "2024-01-01", "total_sleep": 25200.0, "deep": 3600.0, "rem": 5400.0},
		models.Row{"date": "2024-01-02", "total_sleep": 27000.0, "deep": 3000.0, "rem": 5400.0},
	)
	tiles := SleepTiles(tb)
	if len(tiles) != 3 {
		t.Fatalf("tiles = %d", len(tiles))
	}
	want := []models.Tile{
		{Label: "Total sleep", Value: 450, Delta: 30, Unit: "min"},
		{Label: "Deep sleep", Value: 50, Delta: -10, Unit: "min"},
		{Label: "Rem sleep", Value: 90, Delta: 0, Unit: "min"},
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Fatalf("tile %d = %+v, want %+v", i, tiles[i], want[i])
		}
	}
}

func TestSleepTilesNeedTwoRows(t *testing.T) {
	if tiles := SleepTiles(sleepTable(models.Row{"date": "2024-01-01", "total_sleep": 1.0})); tiles != nil {
		t.Fatalf("expected no tiles, got %v", tiles)
	}
}

func TestWeekdayAverages(t *testing.T) {
	// 2024-01-01 and 2024-01-08 are Mondays, 2024-01-02 a Tuesday
	tb := AddSleepMinutes(sleepTable(
		models.Row{"date": "2024-01-01", "total_sleep": 24000.0},
		models.Row{"date": "2024-01-08", "total_sleep": 30000.0},
		models.Row{"date": "2024-01-02", "total_sleep": 28800.0},
		models.Row{"date": "bad", "total_sleep": 1.0},
	))
	got := WeekdayAverages(tb)
	if len(got) != 2 {
		t.Fatalf("weekdays = %v", got)
	}
	if got[0].Weekday != "Tuesday" || got[0].Minutes != 480 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Weekday != "Monday" || got[1].Minutes != 450 {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestSeriesSkipsMissing(t *testing.T) {
	tb := models.NewTable(models.KindHeart, nil, []models.Row{
		{"date": "2024-01-01", "resting_hr": 61.0, "source": "garmin"},
		{"date": "2024-01-02", "source": "garmin"},
		{"date": "2024-01-03", "resting_hr": 55.0, "source": "oura"},
	})
	s := Series(tb, "date", "resting_hr", "source")
	if len(s.Points) != 2 {
		t.Fatalf("points = %v", s.Points)
	}
	if s.YMin != 55 || s.YMax != 61 {
		t.Fatalf("domain = [%v, %v]", s.YMin, s.YMax)
	}
	if s.Points[1].Series != "oura" {
		t.Fatalf("series = %q", s.Points[1].Series)
	}
}

func TestSeriesEmpty(t *testing.T) {
	s := Series(models.Table{}, "date", "steps", "source")
	if !s.Empty() || s.YMin != 0 || s.YMax != 0 {
		t.Fatalf("unexpected %+v", s)
	}
}

func TestSortByTime(t *testing.T) {
	tb := models.NewTable(models.KindGlucose, nil, []models.Row{
		{"time": "2024-01-01T10:00:00Z", "value": 110.0, "source_id": "a"},
		{"time": "garbage", "value": 90.0, "source_id": "a"},
		{"time": "2024-01-01T08:30:00Z", "value": 95.0, "source_id": "a"},
		{"time": "2024-01-01 09:00:00", "value": 100.0, "source_id": "b"},
	})
	s := SortByTime(Series(tb, "time", "value", "source_id"))
	var got []float64
	for _, p := range s.Points {
		got = append(got, p.Y)
	}
	want := []float64{95, 100, 110, 90}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if s.YMin != 90 || s.YMax != 110 {
		t.Fatalf("domain = [%v, %v]", s.YMin, s.YMax)
	}
}
