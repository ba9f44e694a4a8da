package usecase

import (
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/pkg/util"
)

// DateRangeController owns the rolling window policy. It holds no per-session
// state: the current window travels with each request and is passed explicitly
// to every loader call.
type DateRangeController struct {
	width   int // days
	maxBack int // days
	loc     *time.Location
	now     func() time.Time
}

// DateRangeOption configures DateRangeController.
type DateRangeOption func(*DateRangeController)

// WithWindowDays sets the fixed rolling width.
func WithWindowDays(days int) DateRangeOption {
	return func(c *DateRangeController) {
		if days > 0 {
			c.width = days
		}
	}
}

// WithMaxDays sets how far back the selectable range reaches.
func WithMaxDays(days int) DateRangeOption {
	return func(c *DateRangeController) {
		if days > 0 {
			c.maxBack = days
		}
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) DateRangeOption {
	return func(c *DateRangeController) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) DateRangeOption {
	return func(c *DateRangeController) {
		if now != nil {
			c.now = now
		}
	}
}

// NewDateRangeController creates a controller with a 7-day window over the last 30 days.
func NewDateRangeController(opts ...DateRangeOption) *DateRangeController {
	c := &DateRangeController{
		width:   7,
		maxBack: 30,
		loc:     time.UTC,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the zone calendar days are computed in.
func (c *DateRangeController) Location() *time.Location { return c.loc }

// Today is the current calendar day.
func (c *DateRangeController) Today() time.Time {
	return util.StartOfDay(c.now().In(c.loc))
}

// Bounds returns the selectable range [today - maxDays, today].
func (c *DateRangeController) Bounds() (time.Time, time.Time) {
	today := c.Today()
	return util.AddDays(today, -c.maxBack), today
}

// Default is the window used on first initialization: [today - width, today].
func (c *DateRangeController) Default() models.Window {
	today := c.Today()
	return models.Window{Start: util.AddDays(today, -c.width), End: today}
}

// Normalize truncates w to calendar days, orders it and clamps it to the bounds.
func (c *DateRangeController) Normalize(w models.Window) models.Window {
	minD, maxD := c.Bounds()
	w.Start = clampDay(c.day(w.Start), minD, maxD)
	w.End = clampDay(c.day(w.End), minD, maxD)
	if w.End.Before(w.Start) {
		w.Start, w.End = w.End, w.Start
	}
	return w
}

// Adjust applies the rolling policy to a user edit of previous into proposed.
//
//   - start edge moved: the end edge is kept, [proposed.start, previous.end];
//   - end edge moved: the window re-anchors at the new end, [end - width, end];
//   - both moved: the edge with the larger absolute shift counts as the moved
//     one; equal shifts count as an end move;
//   - nothing moved: previous is returned normalized.
//
// The result is clamped to Bounds and always satisfies start <= end.
func (c *DateRangeController) Adjust(previous, proposed models.Window) models.Window {
	prev := c.Normalize(previous)
	minD, maxD := c.Bounds()
	ps := clampDay(c.day(proposed.Start), minD, maxD)
	pe := clampDay(c.day(proposed.End), minD, maxD)

	ds := absInt(util.DaysBetween(prev.Start, ps))
	de := absInt(util.DaysBetween(prev.End, pe))

	var next models.Window
	switch {
	case ds == 0 && de == 0:
		return prev
	case ds > de:
		next = models.Window{Start: ps, End: prev.End}
		if ps.After(prev.End) {
			// start dragged past the end: roll forward from the new start.
			next = models.Window{Start: ps, End: util.AddDays(ps, c.width)}
		}
	default:
		next = models.Window{Start: util.AddDays(pe, -c.width), End: pe}
	}
	return c.Normalize(next)
}

// Parse builds a window from YYYY-MM-DD strings, falling back to the default
// window for missing or invalid edges.
func (c *DateRangeController) Parse(start, end string) models.Window {
	def := c.Default()
	return c.Normalize(models.Window{
		Start: util.ParseDateDefault(start, c.loc, def.Start),
		End:   util.ParseDateDefault(end, c.loc, def.End),
	})
}

func (c *DateRangeController) day(t time.Time) time.Time {
	if t.IsZero() {
		return c.Today()
	}
	return util.StartOfDay(t.In(c.loc))
}

func clampDay(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
