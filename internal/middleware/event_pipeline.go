package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
	domrepo "HealthPull/internal/domain/repository"
)

// ErrBufferFull is returned when an event could not be queued.
var ErrBufferFull = errors.New("event pipeline: buffer full")

// EventPipeline sits between the loader and the event publisher.
// It validates and buffers load events so a slow or absent broker never
// delays a page render; events are flushed in batches in the background.
type EventPipeline struct {
	pub       domrepo.EventPublisher
	metrics   domrepo.Metrics
	bufSize   int
	batchSize int
	flushIvl  time.Duration
	bufCh     chan *models.LoadEvent
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	mu        sync.Mutex
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets the queue capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBatch sets the flush batch size and interval.
func WithBatch(size int, every time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if size > 0 {
			p.batchSize = size
		}
		if every > 0 {
			p.flushIvl = every
		}
	}
}

// NewEventPipeline creates a new pipeline.
func NewEventPipeline(pub domrepo.EventPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		pub:       pub,
		metrics:   metrics,
		bufSize:   1000,
		batchSize: 100,
		flushIvl:  time.Second,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.LoadEvent, p.bufSize)
	return p
}

// Start launches background flushing of buffered events.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.doneCh)
		ticker := time.NewTicker(p.flushIvl)
		defer ticker.Stop()
		batch := make([]*models.LoadEvent, 0, p.batchSize)
		flush := func() {
			if len(batch) == 0 {
				return
			}
			if err := p.pub.PublishBatch(ctx, batch); err != nil {
				p.record("pipeline_flush")
			}
			batch = batch[:0]
		}
		for {
			select {
			case <-p.stopCh:
				// drain what is already queued, then stop
				for {
					select {
					case e := <-p.bufCh:
						batch = append(batch, e)
						if len(batch) >= p.batchSize {
							flush()
						}
					default:
						flush()
						return
					}
				}
			case <-ctx.Done():
				flush()
				return
			case e := <-p.bufCh:
				batch = append(batch, e)
				if len(batch) >= p.batchSize {
					flush()
				}
			case <-ticker.C:
				flush()
			}
		}
	}()
}

// Stop flushes queued events and stops the background loop.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	<-p.doneCh
}

// Process validates e and queues it without blocking.
func (p *EventPipeline) Process(_ context.Context, e *models.LoadEvent) error {
	if err := validateEvent(e); err != nil {
		p.record("pipeline_validate")
		return err
	}
	select {
	case p.bufCh <- e:
		return nil
	default:
		p.record("pipeline_buffer_full")
		return ErrBufferFull
	}
}

// Pending returns the number of queued events.
func (p *EventPipeline) Pending() int { return len(p.bufCh) }

func (p *EventPipeline) record(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func validateEvent(e *models.LoadEvent) error {
	if e == nil {
		return fmt.Errorf("event nil")
	}
	if !models.IsValidKind(e.Kind) {
		return fmt.Errorf("event kind invalid: %q", e.Kind)
	}
	if e.Outcome == "" {
		return fmt.Errorf("event outcome empty")
	}
	return nil
}
