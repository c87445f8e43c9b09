package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
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

// ParseRequest asks for a table to be precomputed.
type ParseRequest struct {
	File       string     `json:"file"`
	UnitSystem UnitSystem `json:"unit_system"`
	Columnar   bool       `json:"columnar,omitempty"`
}

// ParseRequestEvent decodes and validates a request message.
func ParseRequestEvent(raw RawEvent) (ParseRequest, error) {
	var req struct {
		File       string `json:"file"`
		UnitSystem string `json:"unit_system"`
		Columnar   bool   `json:"columnar"`
	}
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ParseRequest{}, fmt.Errorf("parse request event: %w: %w", ErrInvalidRequest, err)
	}
	file := strings.TrimSpace(req.File)
	if file == "" {
		return ParseRequest{}, fmt.Errorf("parse request event: %w: file is required", ErrInvalidRequest)
	}
	us, err := ParseUnitSystem(req.UnitSystem)
	if err != nil {
		return ParseRequest{}, fmt.Errorf("parse request event: %w: %w: %q", ErrInvalidRequest, err, req.UnitSystem)
	}
	return ParseRequest{File: file, UnitSystem: us, Columnar: req.Columnar}, nil
}

// TableEvent is a parsed table published to the sink topic.
type TableEvent struct {
	ID          string     `json:"id"`
	File        string     `json:"file"`
	UnitSystem  UnitSystem `json:"unit_system"`
	Strategy    Strategy   `json:"strategy"`
	Durations   []int      `json:"durations"`
	IDF         IDF        `json:"idf"`
	Units       Units      `json:"units"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// NewTableEvent wraps a parsed table for publication.
func NewTableEvent(req ParseRequest, t *RainfallTable) TableEvent {
	durs := t.Durations()
	ints := make([]int, len(durs))
	for i, d := range durs {
		ints[i] = int(d)
	}
	return TableEvent{
		ID:          tableEventID(req),
		File:        req.File,
		UnitSystem:  req.UnitSystem,
		Strategy:    t.Strategy,
		Durations:   ints,
		IDF:         t.IDF,
		Units:       t.Units,
		ProcessedAt: clock.Now().UTC(),
	}
}

// tableEventID is deterministic so replays overwrite rather than duplicate
// in compacted topics.
func tableEventID(req ParseRequest) string {
	input := fmt.Sprintf("%s|%s|%t", req.File, req.UnitSystem, req.Columnar)
	hash := sha256.Sum256([]byte(input))
	return string(req.UnitSystem) + "-" + hex.EncodeToString(hash[:8])
}
