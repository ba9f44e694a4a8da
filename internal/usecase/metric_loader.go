package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	"HealthPull/internal/services/normalize"
	applogger "HealthPull/pkg/logger"
)

// EventSink receives load events; delivery is best-effort.
type EventSink interface {
	Process(ctx context.Context, e *models.LoadEvent) error
}

// MetricLoader fetches and normalizes one metric kind for a subject and window.
//
// Upstream failures never surface as errors: any status >= 400, transport
// failure or timeout yields the empty table for the kind. The returned table
// is the full frame; row-level filtering (e.g. rows without resting_hr) is the
// caller's job.
type MetricLoader struct {
	source   drepo.MetricsSource
	cache    drepo.ResultCache
	registry *normalize.Registry
	metrics  drepo.Metrics
	events   EventSink
	logger   *applogger.Logger
	group    singleflight.Group
	now      func() time.Time
}

// NewMetricLoader creates a loader. cache, events and logger may be nil.
func NewMetricLoader(
	source drepo.MetricsSource,
	cache drepo.ResultCache,
	registry *normalize.Registry,
	metrics drepo.Metrics,
	events EventSink,
	logger *applogger.Logger,
) *MetricLoader {
	if registry == nil {
		registry = normalize.Default()
	}
	return &MetricLoader{
		source:   source,
		cache:    cache,
		registry: registry,
		metrics:  metrics,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Load returns the raw payload and normalized table for q within session.
// The only error is an unknown kind.
func (l *MetricLoader) Load(ctx context.Context, session string, q models.Query) (models.RawResponse, models.Table, error) {
	start := l.now()
	empty, err := l.registry.Empty(q.Kind)
	if err != nil {
		return models.RawResponse{}, models.Table{}, err
	}

	if !q.Linked() {
		l.observe(ctx, q, "unlinked", 0, start)
		return models.EmptyResponse(), empty, nil
	}

	if l.cache != nil {
		if res, ok := l.cache.Get(ctx, session, q); ok {
			l.observe(ctx, q, "cache_hit", len(res.Table.Rows), start)
			return res.Raw, res.Table, nil
		}
	}

	// Identical in-flight queries of the same session share one upstream call.
	// The call outlives the caller that started it, so a caller that goes
	// away neither cancels it for the others nor leaves a result behind.
	key := session + "|" + string(q.Kind) + "|" + q.SubjectID + "|" + q.Window.StartDate() + "|" + q.Window.EndDate()
	ch := l.group.DoChan(key, func() (interface{}, error) {
		fctx := context.WithoutCancel(ctx)
		if l.cache != nil {
			if res, ok := l.cache.Get(fctx, session, q); ok {
				return res, nil
			}
		}
		res, keep := l.fetch(fctx, q, empty)
		if keep && l.cache != nil {
			if err := l.cache.Set(fctx, session, q, res); err != nil {
				l.warn("metric cache set failed", q, err)
			}
		}
		return res, nil
	})

	var res models.LoadResult
	select {
	case r := <-ch:
		res = r.Val.(models.LoadResult)
	case <-ctx.Done():
		l.observe(ctx, q, "canceled", 0, start)
		return models.EmptyResponse(), empty, nil
	}

	outcome := "ok"
	if len(res.Raw.Data) == 0 {
		outcome = "no_data"
	}
	l.observe(ctx, q, outcome, len(res.Table.Rows), start)
	return res.Raw, res.Table, nil
}

// Clear drops every memoized result of session.
func (l *MetricLoader) Clear(ctx context.Context, session string) error {
	if l.cache == nil {
		return nil
	}
	return l.cache.ClearSession(ctx, session)
}

// fetch reports whether the result may be memoized: a cancelled fetch never
// reached a verdict from the API.
func (l *MetricLoader) fetch(ctx context.Context, q models.Query, empty models.Table) (models.LoadResult, bool) {
	raw, err := l.source.Fetch(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.warn("metric fetch canceled", q, err)
			return models.LoadResult{Raw: models.EmptyResponse(), Table: empty}, false
		}
		l.warn("metric fetch failed, treating as no data", q, err)
		if l.metrics != nil {
			l.metrics.RecordError("fetch_" + string(q.Kind))
		}
		return models.LoadResult{Raw: models.EmptyResponse(), Table: empty}, true
	}
	table, err := l.registry.Normalize(q.Kind, raw)
	if err != nil {
		l.warn("metric normalize failed, treating as no data", q, err)
		return models.LoadResult{Raw: models.EmptyResponse(), Table: empty}, true
	}
	return models.LoadResult{Raw: raw, Table: table}, true
}

func (l *MetricLoader) observe(ctx context.Context, q models.Query, outcome string, rows int, start time.Time) {
	dur := l.now().Sub(start)
	if l.metrics != nil {
		l.metrics.RecordLoad(string(q.Kind), outcome)
		l.metrics.RecordLatency("load_"+string(q.Kind), dur.Seconds())
	}
	if l.logger != nil {
		l.logger.Debug("metric load",
			applogger.String("kind", string(q.Kind)),
			applogger.String("outcome", outcome),
			applogger.String("start_date", q.Window.StartDate()),
			applogger.String("end_date", q.Window.EndDate()),
			applogger.Int("rows", rows),
			applogger.Duration("duration_ms", dur),
		)
	}
	if l.events == nil {
		return
	}
	e := &models.LoadEvent{
		Kind:      q.Kind,
		SubjectID: q.SubjectID,
		StartDate: q.Window.StartDate(),
		EndDate:   q.Window.EndDate(),
		Outcome:   outcome,
		Rows:      rows,
		Duration:  float64(dur) / float64(time.Millisecond),
		Timestamp: l.now(),
	}
	if err := l.events.Process(ctx, e); err != nil && l.logger != nil {
		l.logger.Debug("load event dropped", applogger.Error(err))
	}
}

func (l *MetricLoader) warn(msg string, q models.Query, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Warn(msg,
		applogger.String("kind", string(q.Kind)),
		applogger.String("start_date", q.Window.StartDate()),
		applogger.String("end_date", q.Window.EndDate()),
		applogger.Error(err),
	)
}
