package features

import (
	"math"
	"sort"
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

// SleepMinutesColumn is the derived nightly total in whole minutes.
const SleepMinutesColumn = "total_sleep(min)"

// AddSleepMinutes returns a copy of t with total_sleep converted to minutes.
// Seconds are truncated, matching how the tiles round.
func AddSleepMinutes(t models.Table) models.Table {
	out := models.Table{Kind: t.Kind, Columns: append([]string(nil), t.Columns...)}
	if !out.HasColumn(SleepMinutesColumn) {
		out.Columns = append(out.Columns, SleepMinutesColumn)
	}
	for _, r := range t.Rows {
		cp := make(models.Row, len(r)+1)
		for k, v := range r {
			cp[k] = v
		}
		if secs, ok := r.Float("total_sleep"); ok {
			cp[SleepMinutesColumn] = float64(int(secs / 60))
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}

// SleepTiles compares the last two nights for total, deep and rem sleep.
// It returns nil when fewer than two rows exist.
func SleepTiles(t models.Table) []models.Tile {
	n := len(t.Rows)
	if n < 2 {
		return nil
	}
	last, prev := t.Rows[n-1], t.Rows[n-2]
	tiles := make([]models.Tile, 0, 3)
	for _, f := range []struct{ col, label string }{
		{"total_sleep", "Total sleep"},
		{"deep", "Deep sleep"},
		{"rem", "Rem sleep"},
	} {
		cur, _ := last.Float(f.col)
		before, _ := prev.Float(f.col)
		tiles = append(tiles, models.Tile{
			Label: f.label,
			Value: int(cur / 60),
			Delta: int((cur - before) / 60),
			Unit:  "min",
		})
	}
	return tiles
}

// WeekdayAverages groups nightly minutes by weekday and sorts by mean, descending.
// Rows with an unparseable date are skipped.
func WeekdayAverages(t models.Table) []models.WeekdayAverage {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range t.Rows {
		d, err := time.Parse("2006-01-02", r.String("date"))
		if err != nil {
			continue
		}
		mins, ok := r.Float(SleepMinutesColumn)
		if !ok {
			continue
		}
		wd := d.Weekday().String()
		sums[wd] += mins
		counts[wd]++
	}
	out := make([]models.WeekdayAverage, 0, len(sums))
	for wd, s := range sums {
		out = append(out, models.WeekdayAverage{Weekday: wd, Minutes: s / float64(counts[wd])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes == out[j].Minutes {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].Minutes > out[j].Minutes
	})
	return out
}

// Series binds x/y/color columns of t to chart points.
// Rows without a numeric y are skipped.
func Series(t models.Table, x, y, color string) models.SeriesView {
	sv := models.SeriesView{XField: x, YField: y, Color: color}
	sv.YMin, sv.YMax = math.Inf(1), math.Inf(-1)
	for _, r := range t.Rows {
		v, ok := r.Float(y)
		if !ok {
			continue
		}
		sv.Points = append(sv.Points, models.Point{X: r.String(x), Y: v, Series: r.String(color)})
		sv.YMin = math.Min(sv.YMin, v)
		sv.YMax = math.Max(sv.YMax, v)
	}
	if len(sv.Points) == 0 {
		sv.YMin, sv.YMax = 0, 0
	}
	return sv
}

// SortByTime orders points by their x timestamp. Points whose x does not
// parse keep their relative order after the parsed ones.
func SortByTime(sv models.SeriesView) models.SeriesView {
	ts := make([]time.Time, len(sv.Points))
	ok := make([]bool, len(sv.Points))
	for i, p := range sv.Points {
		ts[i], ok[i] = util.ParseTime(p.X)
	}
	idx := make([]int, len(sv.Points))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if ok[i] != ok[j] {
			return ok[i]
		}
		return ok[i] && ts[i].Before(ts[j])
	})
	pts := make([]models.Point, len(idx))
	for n, i := range idx {
		pts[n] = sv.Points[i]
	}
	sv.Points = pts
	return sv
}
