package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

// TableSource returns parsed tables by document and unit system.
type TableSource interface {
	Get(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error)
	Columnar(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error)
}

// TableTransformer implements Transformer by parsing the requested document.
type TableTransformer struct {
	tables TableSource
	logger *slog.Logger
}

// NewTransformer creates a TableTransformer.
func NewTransformer(tables TableSource, logger *slog.Logger) *TableTransformer {
	return &TableTransformer{tables: tables, logger: logger}
}

func (t *TableTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.TableEvent, error) {
	req, err := domain.ParseRequestEvent(raw)
	if err != nil {
		return domain.TableEvent{}, err
	}

	get := t.tables.Get
	if req.Columnar {
		get = t.tables.Columnar
	}
	table, err := get(ctx, req.File, string(req.UnitSystem))
	if err != nil {
		return domain.TableEvent{}, fmt.Errorf("parse %s: %w", req.File, err)
	}

	event := domain.NewTableEvent(req, table)
	t.logger.Debug("table precomputed", "file", req.File, "unit_system", req.UnitSystem, "strategy", table.Strategy)
	return event, nil
}
