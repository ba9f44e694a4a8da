package models

import (
	"reflect"
	"testing"
)

func TestNewTableColumnsSchemaFirst(t *testing.T) {
	rows := []Row{
		{"zeta": 1.0, "date": "2024-01-01", "value": 500.0},
		{"date": "2024-01-02", "value": 700.0, "alpha": "x"},
	}
	tb := NewTable(KindSteps, []string{"date", "value", "source"}, rows)
	want := []string{"date", "value", "alpha", "zeta"}
	if !reflect.DeepEqual(tb.Columns, want) {
		t.Fatalf("columns = %v, want %v", tb.Columns, want)
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("rows = %d", len(tb.Rows))
	}
	tb.Rows[0]["value"] = 1.0
	if rows[0]["value"] != 500.0 {
		t.Fatalf("table rows must be copies")
	}
}

func TestNewTableEmptyKeepsSchema(t *testing.T) {
	tb := NewTable(KindGlucose, []string{"time", "value", "source_id"}, nil)
	if !tb.Empty() {
		t.Fatalf("expected empty table")
	}
	if !reflect.DeepEqual(tb.Columns, []string{"time", "value", "source_id"}) {
		t.Fatalf("unexpected columns %v", tb.Columns)
	}
}

func TestRenameAndDropColumn(t *testing.T) {
	tb := NewTable(KindSteps, nil, []Row{{"date": "d", "value": 1.0}})
	tb.RenameColumn("value", "steps")
	if tb.HasColumn("value") || !tb.HasColumn("steps") {
		t.Fatalf("rename failed: %v", tb.Columns)
	}
	if _, ok := tb.Rows[0]["steps"]; !ok {
		t.Fatalf("row not renamed")
	}
	tb.DropColumn("steps")
	if tb.HasColumn("steps") {
		t.Fatalf("drop failed: %v", tb.Columns)
	}
	if _, ok := tb.Rows[0]["steps"]; ok {
		t.Fatalf("row still has dropped column")
	}
}

func TestDropMissing(t *testing.T) {
	tb := NewTable(KindHeart, []string{"date", "resting_hr"}, []Row{
		{"date": "a", "resting_hr": 60.0},
		{"date": "b", "resting_hr": nil},
		{"date": "c"},
		{"date": "d", "resting_hr": 58.0},
	})
	got := tb.DropMissing("resting_hr")
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if len(tb.Rows) != 4 {
		t.Fatalf("source table modified")
	}
	if v := got.Values("resting_hr"); !reflect.DeepEqual(v, []float64{60, 58}) {
		t.Fatalf("values = %v", v)
	}
}

func TestRowAccessors(t *testing.T) {
	r := Row{"n": 3.0, "s": "12.5", "i": 4, "x": true}
	if v, ok := r.Float("n"); !ok || v != 3 {
		t.Fatalf("float n = %v %v", v, ok)
	}
	if v, ok := r.Float("s"); !ok || v != 12.5 {
		t.Fatalf("float s = %v %v", v, ok)
	}
	if v, ok := r.Float("i"); !ok || v != 4 {
		t.Fatalf("float i = %v %v", v, ok)
	}
	if _, ok := r.Float("x"); ok {
		t.Fatalf("bool must not be numeric")
	}
	if r.String("n") != "3" || r.String("missing") != "" {
		t.Fatalf("unexpected string values")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds() {
		if got, err := ParseKind(string(k)); err != nil || got != k {
			t.Fatalf("ParseKind(%s) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("weight"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
