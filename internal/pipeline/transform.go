package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/grib-inventory-service/internal/domain"
	"github.com/couchcryptid/grib-inventory-service/internal/observability"
)

// InventoryTransformer implements Transformer by appending the configured
// geolocation token to each record's inventory line.
type InventoryTransformer struct {
	backend domain.GeolocationBackend
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates an InventoryTransformer for the selected backend.
func NewTransformer(backend domain.GeolocationBackend, logger *slog.Logger, metrics *observability.Metrics) *InventoryTransformer {
	if !backend.Valid() {
		logger.Warn("geolocation backend out of range, inventory lines will not be annotated", "backend", int(backend))
	}
	return &InventoryTransformer{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *InventoryTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	rec, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	annotated, err := domain.AnnotateRecord(rec, t.backend)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	outcome := "skipped"
	if annotated.Annotated {
		outcome = "appended"
	}
	t.metrics.GeolocationReports.WithLabelValues(annotated.Geolocation, outcome).Inc()
	t.logger.Debug("inventory record annotated",
		"record", annotated.Record,
		"mode", annotated.Mode,
		"backend", annotated.Geolocation,
		"outcome", outcome,
	)

	return domain.SerializeAnnotatedRecord(annotated)
}
