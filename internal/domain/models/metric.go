package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"HealthPull/pkg/util"
)

// ErrUnknownKind is returned when a metric kind is not registered.
var ErrUnknownKind = errors.New("unknown metric kind")

// Window is a calendar-day range [Start, End], both inclusive when sent upstream.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the width of the window in whole days.
func (w Window) Days() int {
	return util.DaysBetween(w.Start, w.End)
}

// Query identifies a single metric load. SubjectID may be empty ("not yet linked").
type Query struct {
	SubjectID string
	Kind      Kind
	Window    Window
}

// StartDate is the inclusive upstream start_date.
func (w Window) StartDate() string { return util.FormatDate(w.Start) }

// EndDate is the inclusive upstream end_date.
func (w Window) EndDate() string { return util.FormatDate(w.End) }

// Linked reports whether the query carries a subject identifier.
func (q Query) Linked() bool { return q.SubjectID != "" }

// RawResponse is the payload as returned by the metrics API. Data feeds the
// table; every other top-level key is kept in Extra for the raw echo.
type RawResponse struct {
	Data  []Row
	Extra map[string]json.RawMessage
}

// MarshalJSON writes Extra and Data back as one object.
func (r RawResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Extra)+1)
	for k, v := range r.Extra {
		out[k] = v
	}
	data := r.Data
	if data == nil {
		data = []Row{}
	}
	out["data"] = data
	return json.Marshal(out)
}

// UnmarshalJSON splits the payload into Data and Extra.
func (r *RawResponse) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	r.Data, r.Extra = nil, nil
	if d, ok := fields["data"]; ok {
		if err := json.Unmarshal(d, &r.Data); err != nil {
			return fmt.Errorf("data: %w", err)
		}
		delete(fields, "data")
	}
	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

// EmptyResponse is the response used for every "no data" outcome.
func EmptyResponse() RawResponse {
	return RawResponse{Data: []Row{}}
}

// LoadResult pairs the raw payload with its normalized table.
type LoadResult struct {
	Raw   RawResponse `json:"raw"`
	Table Table       `json:"table"`
}

// LoadEvent describes one loader outcome. Published for auditing, never read back.
type LoadEvent struct {
	Kind      Kind      `json:"kind"`
	SubjectID string    `json:"subject_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Outcome   string    `json:"outcome"` // "ok", "no_data", "cache_hit", "unlinked", "canceled"
	Rows      int       `json:"rows"`
	Duration  float64   `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}
