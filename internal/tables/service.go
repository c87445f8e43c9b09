// Package tables serves parsed rainfall tables, reading documents from a
// source and caching parse results per document and unit system.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-idf/internal/adapter/memcache"
	"github.com/couchcryptid/rainfall-idf/internal/domain"
	"github.com/couchcryptid/rainfall-idf/internal/observability"
)

// Source returns the decoded text of a document.
type Source interface {
	Read(ctx context.Context, name string) (string, error)
}

// Entry points, used as the metrics label and cache key namespace.
const (
	entryDocument = "document"
	entryColumnar = "columnar"
)

type parseFunc func(text string, us domain.UnitSystem) (*domain.RainfallTable, error)

// Service reads, parses and caches rainfall tables.
type Service struct {
	source  Source
	cache   *memcache.Cache[*domain.RainfallTable]
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewService creates a table service.
func NewService(source Source, cache *memcache.Cache[*domain.RainfallTable], metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{source: source, cache: cache, metrics: metrics, logger: logger}
}

// Get returns the table of sourceID in the requested unit system, parsing
// the document with every supported layout.
func (s *Service) Get(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error) {
	return s.load(ctx, entryDocument, sourceID, unitSystem, domain.ParseDocument)
}

// Columnar is Get for documents whose durations run across a header row.
func (s *Service) Columnar(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error) {
	return s.load(ctx, entryColumnar, sourceID, unitSystem, domain.ParseColumnar)
}

func (s *Service) load(ctx context.Context, entry, sourceID, unitSystem string, parse parseFunc) (*domain.RainfallTable, error) {
	us, err := domain.ParseUnitSystem(unitSystem)
	if err != nil {
		s.metrics.ParseRequests.WithLabelValues(entry, "invalid").Inc()
		return nil, fmt.Errorf("%w: %q", err, unitSystem)
	}

	key := cacheKey(entry, sourceID, us)
	cached, res := s.cache.Lookup(key)
	s.metrics.TableCache.WithLabelValues(string(res)).Inc()
	if res == memcache.Hit {
		s.metrics.ParseRequests.WithLabelValues(entry, "cached").Inc()
		return cached.Clone(), nil
	}

	text, err := s.source.Read(ctx, sourceID)
	if err != nil {
		s.metrics.ParseRequests.WithLabelValues(entry, outcome(err)).Inc()
		return nil, err
	}

	start := time.Now()
	table, err := parse(text, us)
	s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ParseRequests.WithLabelValues(entry, outcome(err)).Inc()
		s.logger.Debug("parse failed", "file", sourceID, "unit_system", us, "entry", entry, "error", err)
		return nil, err
	}

	s.metrics.ParseRequests.WithLabelValues(entry, "parsed").Inc()
	s.metrics.ParseStrategy.WithLabelValues(string(table.Strategy)).Inc()
	s.logger.Debug("table parsed",
		"file", sourceID,
		"unit_system", us,
		"entry", entry,
		"strategy", table.Strategy,
		"cells", table.IDF.DepthsMM.Cells(),
	)

	s.cache.Set(key, table)
	return table.Clone(), nil
}

// cacheKey joins the source id with the lowercase unit system, prefixed by
// the entry point for the columnar parse.
func cacheKey(entry, sourceID string, us domain.UnitSystem) string {
	key := sourceID + "|" + string(us)
	if entry != entryDocument {
		key = entry + ":" + key
	}
	return key
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, domain.ErrTableNotFound):
		return "table_not_found"
	case errors.Is(err, domain.ErrParseFailure):
		return "parse_failure"
	default:
		return "error"
	}
}
