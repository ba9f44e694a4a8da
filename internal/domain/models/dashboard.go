package models

import "time"

// Dashboard is the fully derived view for one page render.
// Note: no transport (json/http) concerns here.
type Dashboard struct {
	SubjectID string
	Window    Window
	MinDate   time.Time
	MaxDate   time.Time
	ActiveTab string
	Sleep     SleepView
	Steps     SeriesView
	Heart     SeriesView
	Glucose   SeriesView
}

// Linked reports whether an identity was resolved for this render.
func (d Dashboard) Linked() bool { return d.SubjectID != "" }

// SleepView holds the sleep tab: tiles, weekday averages and the nightly series.
type SleepView struct {
	Raw      RawResponse
	Tiles    []Tile
	Weekdays []WeekdayAverage
	Series   SeriesView
}

// Tile is a scalar with its change against the previous day.
type Tile struct {
	Label string
	Value int
	Delta int
	Unit  string
}

// WeekdayAverage is the mean nightly sleep for one weekday.
type WeekdayAverage struct {
	Weekday string  `json:"weekday"`
	Minutes float64 `json:"minutes"`
}

// Point is a single sample on a chart line.
type Point struct {
	X      string  `json:"x"`
	Y      float64 `json:"y"`
	Series string  `json:"series"`
}

// SeriesView is a line chart bound to one value column.
type SeriesView struct {
	Raw    RawResponse
	XField string
	YField string
	Color  string
	Points []Point
	YMin   float64
	YMax   float64
}

// Empty reports whether the chart has anything to draw.
func (s SeriesView) Empty() bool { return len(s.Points) == 0 }
