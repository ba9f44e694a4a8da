package repository

import (
	"context"

	"HealthPull/internal/domain/models"
)

// MetricsSource fetches raw records for one kind from the wellness API.
// Any non-nil error means "no data" to the caller.
type MetricsSource interface {
	Fetch(ctx context.Context, q models.Query) (models.RawResponse, error)
}

// ResultCache memoizes load results per session.
type ResultCache interface {
	Get(ctx context.Context, session string, q models.Query) (models.LoadResult, bool)
	Set(ctx context.Context, session string, q models.Query, res models.LoadResult) error
	ClearSession(ctx context.Context, session string) error
}

// IdentityStore is the client-side persisted storage for the subject identifier.
type IdentityStore interface {
	Get() (string, bool)
	Set(id string)
}

// EventPublisher ships load events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, e *models.LoadEvent) error
	PublishBatch(ctx context.Context, events []*models.LoadEvent) error
	Close() error
}

type Metrics interface {
	RecordLoad(kind, outcome string)
	RecordUpstreamCall(kind string, status int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
