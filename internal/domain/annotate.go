package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ParseRawEvent deserializes a raw Kafka message into an InventoryRecord.
func ParseRawEvent(raw RawEvent) (InventoryRecord, error) {
	var rec InventoryRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return InventoryRecord{}, fmt.Errorf("unmarshal inventory record: %w", err)
	}
	rec.Record = strings.TrimSpace(rec.Record)
	if rec.Record == "" {
		return InventoryRecord{}, errors.New("inventory record has no record id")
	}
	return rec, nil
}

// AnnotateRecord runs the geolocation reporter against the record's inventory
// buffer and stamps the processing time.
func AnnotateRecord(rec InventoryRecord, backend GeolocationBackend) (AnnotatedRecord, error) {
	var buf strings.Builder
	buf.WriteString(rec.Inventory)

	if err := ReportGeolocation(rec.Mode, backend, &buf); err != nil {
		return AnnotatedRecord{}, fmt.Errorf("report geolocation for record %s: %w", rec.Record, err)
	}

	return AnnotatedRecord{
		Record:        rec.Record,
		Inventory:     buf.String(),
		Mode:          rec.Mode,
		ReferenceTime: rec.ReferenceTime,
		Geolocation:   backend.String(),
		Annotated:     buf.Len() > len(rec.Inventory),
		ProcessedAt:   clock.Now().UTC(),
	}, nil
}

// SerializeAnnotatedRecord marshals an AnnotatedRecord into an OutputEvent
// keyed by record id.
func SerializeAnnotatedRecord(rec AnnotatedRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize annotated record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.Record),
		Value: data,
		Headers: map[string]string{
			"geolocation":  rec.Geolocation,
			"processed_at": rec.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
