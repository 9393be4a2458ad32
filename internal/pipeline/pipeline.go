package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/grib-inventory-service/internal/domain"
	"github.com/couchcryptid/grib-inventory-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw inventory records from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw inventory record into an annotated output event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes annotated records to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline moves inventory records from the extractor through the annotator
// to the loader, one batch at a time.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	batchSize   int

	ready   atomic.Bool
	backoff time.Duration
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		backoff:     initialBackoff,
	}
}

// CheckReadiness returns nil once at least one annotated batch has been
// loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not annotated any records yet")
	}
	return nil
}

// Run processes batches until the context is cancelled. Extract and load
// failures back off from 200ms up to 5s; the backoff resets after every
// successful extract.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for ctx.Err() == nil {
		if err := p.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			if !retry.SleepWithContext(ctx, p.backoff) {
				break
			}
			p.backoff = retry.NextBackoff(p.backoff, maxBackoff)
		}
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// annotatedBatch pairs each loaded event with the raw message it came from so
// offsets are committed only for records that reached the sink.
type annotatedBatch struct {
	events []domain.OutputEvent
	raws   []domain.RawEvent
}

func (b annotatedBatch) recordIDs() []string {
	ids := make([]string, len(b.events))
	for i, e := range b.events {
		ids[i] = string(e.Key)
	}
	return ids
}

// runOnce extracts, annotates, and loads a single batch. A non-nil error means
// the caller should back off before the next attempt.
func (p *Pipeline) runOnce(ctx context.Context) error {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("extract batch failed", "error", err)
		}
		return err
	}
	if len(rawBatch) == 0 {
		return nil
	}

	p.backoff = initialBackoff
	p.metrics.RecordsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))

	batch := p.annotate(ctx, rawBatch)
	if len(batch.events) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, batch.events); err != nil {
		p.logger.Error("load batch failed",
			"error", err,
			"batch_size", len(batch.events),
			"records", batch.recordIDs(),
			"geolocation", batch.events[0].Headers["geolocation"],
		)
		return err
	}

	p.metrics.RecordsProduced.Add(float64(len(batch.events)))
	for _, raw := range batch.raws {
		p.commit(ctx, raw)
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// annotate transforms every raw record. Records that cannot be parsed are
// committed and dropped so they are not redelivered.
func (p *Pipeline) annotate(ctx context.Context, rawBatch []domain.RawEvent) annotatedBatch {
	batch := annotatedBatch{
		events: make([]domain.OutputEvent, 0, len(rawBatch)),
		raws:   make([]domain.RawEvent, 0, len(rawBatch)),
	}
	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("annotate failed, skipping record",
				"error", err,
				"key", string(raw.Key),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		batch.events = append(batch.events, out)
		batch.raws = append(batch.raws, raw)
	}
	return batch
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"key", string(raw.Key), "topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
