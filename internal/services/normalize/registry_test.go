package normalize

import (
	"errors"
	"reflect"
	"testing"

	"HealthPull/internal/domain/models"
)

func TestStepsRenamesValue(t *testing.T) {
	r := Default()
	raw := models.RawResponse{Data: []models.Row{
		{"date": "2024-01-01", "value": 500.0, "source": "fitbit"},
		{"date": "2024-01-02", "value": 700.0, "source": "fitbit"},
	}}
	tb, err := r.Normalize(models.KindSteps, raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if tb.HasColumn("value") {
		t.Fatalf("value column should be renamed: %v", tb.Columns)
	}
	if got := tb.Values("steps"); !reflect.DeepEqual(got, []float64{500, 700}) {
		t.Fatalf("steps = %v", got)
	}
	if _, ok := raw.Data[0]["value"]; !ok {
		t.Fatalf("raw payload must stay untouched")
	}
}

func TestHeartDropsSamples(t *testing.T) {
	r := Default()
	raw := models.RawResponse{Data: []models.Row{
		{"date": "2024-01-01", "resting_hr": 58.0, HeartSamplesColumn: []interface{}{1.0, 2.0}},
		{"date": "2024-01-02", HeartSamplesColumn: []interface{}{}},
	}}
	tb, err := r.Normalize(models.KindHeart, raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if tb.HasColumn(HeartSamplesColumn) {
		t.Fatalf("samples column kept: %v", tb.Columns)
	}
	if len(tb.Rows) != 2 {
		t.Fatalf("rows without resting_hr must be kept, got %d", len(tb.Rows))
	}
	for _, row := range tb.Rows {
		if _, ok := row[HeartSamplesColumn]; ok {
			t.Fatalf("row still carries samples")
		}
	}
	if _, ok := raw.Data[0][HeartSamplesColumn]; !ok {
		t.Fatalf("raw payload must keep samples")
	}
}

func TestSleepAndGlucosePassThrough(t *testing.T) {
	r := Default()
	sleep, _ := r.Normalize(models.KindSleep, models.RawResponse{Data: []models.Row{
		{"date": "2024-01-01", "total_sleep": 27000.0, "deep": 5400.0, "rem": 6000.0, "source": "oura"},
	}})
	if !reflect.DeepEqual(sleep.Columns, []string{"date", "total_sleep", "deep", "rem", "source"}) {
		t.Fatalf("sleep columns = %v", sleep.Columns)
	}
	glucose, _ := r.Normalize(models.KindGlucose, models.RawResponse{Data: []models.Row{
		{"time": "2024-01-01T10:00:00", "value": 5.4, "source_id": "libre"},
	}})
	if !reflect.DeepEqual(glucose.Columns, []string{"time", "value", "source_id"}) {
		t.Fatalf("glucose columns = %v", glucose.Columns)
	}
}

func TestEmptyCarriesSchema(t *testing.T) {
	r := Default()
	for _, k := range models.AllKinds() {
		tb, err := r.Normalize(k, models.EmptyResponse())
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if !tb.Empty() || len(tb.Columns) == 0 {
			t.Fatalf("%s: expected empty table with schema, got %+v", k, tb)
		}
		spec, _ := r.Lookup(k)
		if !reflect.DeepEqual(tb.Columns, spec.Schema) {
			t.Fatalf("%s: columns %v, schema %v", k, tb.Columns, spec.Schema)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	_, err := Default().Normalize(models.Kind("weight"), models.EmptyResponse())
	if !errors.Is(err, models.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRegisterNewKind(t *testing.T) {
	r := NewRegistry()
	r.Register(models.Kind("spo2"), Spec{Schema: []string{"date", "spo2"}, Transform: RenameValue("spo2")})
	tb, err := r.Normalize(models.Kind("spo2"), models.RawResponse{Data: []models.Row{{"date": "d", "value": 97.0}}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := tb.Values("spo2"); len(got) != 1 || got[0] != 97 {
		t.Fatalf("spo2 = %v", got)
	}
}
