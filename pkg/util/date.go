package util

import (
    "strconv"
    "time"
)

// DateLayout is the calendar-date format used on the wire.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, zone-less timestamps (read as UTC) and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
        if t, err := time.Parse(layout, s); err == nil {
            return t, true
        }
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if loc == nil {
        loc = time.UTC
    }
    t, err := time.ParseInLocation(DateLayout, s, loc)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// ParseDateDefault parses a date or returns def if empty/invalid.
func ParseDateDefault(s string, loc *time.Location, def time.Time) time.Time {
    if t, ok := ParseDate(s, loc); ok {
        return t
    }
    return def
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
    return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by n calendar days, keeping wall-clock midnight across DST.
func AddDays(t time.Time, n int) time.Time {
    return t.AddDate(0, 0, n)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
    ay, am, ad := a.Date()
    by, bm, bd := b.Date()
    da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
    db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
    return int(db.Sub(da).Hours() / 24)
}
