package normalize

import (
	"fmt"
	"sync"

	"HealthPull/internal/domain/models"
)

// Transform reshapes a freshly built table in place.
type Transform func(t *models.Table)

// Spec is the declared schema plus transform for one metric kind.
type Spec struct {
	Schema    []string
	Transform Transform
}

// Registry maps metric kinds to their normalization spec.
type Registry struct {
	mu    sync.RWMutex
	specs map[models.Kind]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[models.Kind]Spec)}
}

// Default returns a registry with the four built-in kinds.
func Default() *Registry {
	r := NewRegistry()
	r.Register(models.KindSteps, Spec{
		Schema:    []string{"date", "steps", "source"},
		Transform: RenameValue("steps"),
	})
	r.Register(models.KindSleep, Spec{
		Schema: []string{"date", "total_sleep", "deep", "rem", "source"},
	})
	r.Register(models.KindHeart, Spec{
		Schema:    []string{"date", "resting_hr", "source"},
		Transform: Drop(HeartSamplesColumn),
	})
	r.Register(models.KindGlucose, Spec{
		Schema: []string{"time", "value", "source_id"},
	})
	return r
}

// HeartSamplesColumn is the bulk per-sample series returned by the heart endpoint.
const HeartSamplesColumn = "heart_rate_samples"

// Register adds or replaces the spec for kind.
func (r *Registry) Register(kind models.Kind, spec Spec) {
	r.mu.Lock()
	r.specs[kind] = spec
	r.mu.Unlock()
}

// Lookup returns the spec for kind.
func (r *Registry) Lookup(kind models.Kind) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[kind]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", models.ErrUnknownKind, kind)
	}
	return s, nil
}

// Empty builds the zero-row table carrying kind's schema.
func (r *Registry) Empty(kind models.Kind) (models.Table, error) {
	s, err := r.Lookup(kind)
	if err != nil {
		return models.Table{}, err
	}
	return models.NewTable(kind, s.Schema, nil), nil
}

// Normalize builds the table for kind from raw records.
func (r *Registry) Normalize(kind models.Kind, raw models.RawResponse) (models.Table, error) {
	s, err := r.Lookup(kind)
	if err != nil {
		return models.Table{}, err
	}
	if len(raw.Data) == 0 {
		return models.NewTable(kind, s.Schema, nil), nil
	}
	// Rows are copied so transforms never touch the raw payload.
	t := models.NewTable(kind, s.Schema, raw.Data)
	if s.Transform != nil {
		s.Transform(&t)
	}
	return t, nil
}

// RenameValue renames the generic "value" column.
func RenameValue(to string) Transform {
	return func(t *models.Table) { t.RenameColumn("value", to) }
}

// Drop removes the named columns.
func Drop(cols ...string) Transform {
	return func(t *models.Table) {
		for _, c := range cols {
			t.DropColumn(c)
		}
	}
}
