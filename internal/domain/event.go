package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// InventoryRecord is the JSON published by the upstream decoder for each
// GRIB2 record. Inventory holds the line built so far; this service only
// appends to it.
type InventoryRecord struct {
	Record        string    `json:"record"` // message.submessage, e.g. "1.2"
	Inventory     string    `json:"inventory"`
	Mode          int       `json:"mode"` // <0 suppresses output
	ReferenceTime time.Time `json:"reference_time,omitzero"`
}

// AnnotatedRecord is the record after the geolocation token has been applied.
type AnnotatedRecord struct {
	Record        string    `json:"record"`
	Inventory     string    `json:"inventory"`
	Mode          int       `json:"mode"`
	ReferenceTime time.Time `json:"reference_time,omitzero"`
	Geolocation   string    `json:"geolocation"`
	Annotated     bool      `json:"annotated"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
