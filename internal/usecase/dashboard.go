package usecase

import (
	"context"
	"fmt"
	"sync"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/services/features"
)

// Loader is the subset of MetricLoader the dashboard needs.
type Loader interface {
	Load(ctx context.Context, session string, q models.Query) (models.RawResponse, models.Table, error)
}

// DashboardBuilder loads every metric kind for one window and derives the view.
type DashboardBuilder struct {
	loader Loader
	dates  *DateRangeController
}

func NewDashboardBuilder(loader Loader, dates *DateRangeController) *DashboardBuilder {
	return &DashboardBuilder{loader: loader, dates: dates}
}

// Build renders the dashboard view for subject over window.
// Kinds load concurrently; identical queries are collapsed by the loader.
func (b *DashboardBuilder) Build(ctx context.Context, session, subject string, window models.Window, tab string) (*models.Dashboard, error) {
	minD, maxD := b.dates.Bounds()
	d := &models.Dashboard{
		SubjectID: subject,
		Window:    window,
		MinDate:   minD,
		MaxDate:   maxD,
		ActiveTab: tab,
	}

	type item struct {
		kind  models.Kind
		raw   models.RawResponse
		table models.Table
		err   error
	}
	kinds := models.AllKinds()
	ch := make(chan item, len(kinds))
	var wg sync.WaitGroup
	for _, k := range kinds {
		wg.Add(1)
		go func(k models.Kind) {
			defer wg.Done()
			raw, t, err := b.loader.Load(ctx, session, models.Query{SubjectID: subject, Kind: k, Window: window})
			ch <- item{kind: k, raw: raw, table: t, err: err}
		}(k)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			return nil, fmt.Errorf("load %s: %w", it.kind, it.err)
		}
		switch it.kind {
		case models.KindSleep:
			d.Sleep = SleepView(it.raw, it.table)
		case models.KindSteps:
			d.Steps = features.Series(it.table, "date", "steps", "source")
			d.Steps.Raw = it.raw
		case models.KindHeart:
			d.Heart = HeartView(it.raw, it.table)
		case models.KindGlucose:
			d.Glucose = features.SortByTime(features.Series(it.table, "time", "value", "source_id"))
			d.Glucose.Raw = it.raw
		}
	}
	return d, nil
}

// SleepView derives tiles, weekday averages and the nightly line from the sleep table.
func SleepView(raw models.RawResponse, t models.Table) models.SleepView {
	v := models.SleepView{Raw: raw}
	if t.Empty() {
		return v
	}
	withMin := features.AddSleepMinutes(t)
	v.Tiles = features.SleepTiles(withMin)
	v.Weekdays = features.WeekdayAverages(withMin)
	v.Series = features.Series(withMin, "date", features.SleepMinutesColumn, "source")
	return v
}

// HeartView drops rows without resting_hr before charting.
func HeartView(raw models.RawResponse, t models.Table) models.SeriesView {
	v := features.Series(t.DropMissing("resting_hr"), "date", "resting_hr", "source")
	v.Raw = raw
	return v
}
