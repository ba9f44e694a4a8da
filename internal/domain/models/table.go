package models

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Row is one record as decoded from the metrics API.
type Row map[string]interface{}

// Float returns the numeric value of col, if present and numeric.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String returns the string value of col.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Table is a normalized frame: ordered columns over insertion-ordered rows.
type Table struct {
	Kind    Kind     `json:"kind"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable builds a table from rows; columns follow first appearance.
func NewTable(kind Kind, schema []string, rows []Row) Table {
	t := Table{Kind: kind, Rows: make([]Row, 0, len(rows))}
	if len(rows) == 0 {
		t.Columns = append([]string(nil), schema...)
		return t
	}
	seen := make(map[string]bool)
	for _, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		t.Rows = append(t.Rows, cp)
	}
	// Column order of a JSON object is lost on decode; schema columns lead,
	// remaining ones follow in sorted order for stable output.
	for _, c := range schema {
		for _, r := range t.Rows {
			if _, ok := r[c]; ok {
				t.Columns = append(t.Columns, c)
				seen[c] = true
				break
			}
		}
	}
	extra := make([]string, 0)
	for _, r := range t.Rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	t.Columns = append(t.Columns, extra...)
	return t
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// HasColumn reports whether col is part of the table.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// RenameColumn renames from to to in the header and every row.
func (t *Table) RenameColumn(from, to string) {
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	for _, r := range t.Rows {
		if v, ok := r[from]; ok {
			delete(r, from)
			r[to] = v
		}
	}
}

// DropColumn removes col from the header and every row.
func (t *Table) DropColumn(col string) {
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if c != col {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	for _, r := range t.Rows {
		delete(r, col)
	}
}

// Values returns the numeric values of col; missing cells are skipped.
func (t Table) Values(col string) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if f, ok := r.Float(col); ok {
			out = append(out, f)
		}
	}
	return out
}

// DropMissing returns a copy holding only rows where col has a numeric value.
func (t Table) DropMissing(col string) Table {
	out := Table{Kind: t.Kind, Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if _, ok := r.Float(col); ok {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
