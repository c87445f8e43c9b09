// Package stations indexes the IDF documents available to the service and
// resolves free-text queries and coordinates to a station file.
package stations

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

// Source lists and reads raw IDF documents.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) (string, error)
}

// Station is one usable IDF document and what is known about its station.
type Station struct {
	File      string  `json:"file"`
	StationID string  `json:"stationId,omitempty"`
	ClimateID string  `json:"climateId,omitempty"`
	Province  string  `json:"province,omitempty"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
}

// HasCoords reports whether the station position is known.
func (s Station) HasCoords() bool { return s.Lat != 0 || s.Lon != 0 }

// Index is an immutable, sorted set of stations built once at startup.
type Index struct {
	stations []Station
}

// Build reads every document from source and keeps those whose rainfall
// table has sub-daily durations. Unreadable documents are logged and skipped.
func Build(ctx context.Context, source Source, logger *slog.Logger) (*Index, error) {
	names, err := source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("build station index: %w", err)
	}

	stations := make([]Station, 0, len(names))
	for _, name := range names {
		text, err := source.Read(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("build station index: %w", ctx.Err())
			}
			logger.Warn("skipping unreadable document", "file", name, "error", err)
			continue
		}
		lines := domain.SplitLines(text)
		if !domain.HasSubDailyDurations(lines) {
			logger.Debug("skipping document without sub-daily durations", "file", name)
			continue
		}
		stations = append(stations, newStation(domain.ParseFileRecord(name), domain.ParseStationHeader(lines)))
	}

	logger.Info("station index built", "documents", len(names), "stations", len(stations))
	return NewIndex(stations), nil
}

// NewIndex creates an index over the given stations.
func NewIndex(stations []Station) *Index {
	sorted := slices.Clone(stations)
	slices.SortStableFunc(sorted, func(a, b Station) int {
		return cmp.Or(
			cmp.Compare(a.Province, b.Province),
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.File, b.File),
		)
	})
	return &Index{stations: sorted}
}

// newStation prefers the file name for identity and the document header for
// the display name, filling gaps from the other.
func newStation(rec domain.FileRecord, meta domain.StationMeta) Station {
	s := Station{
		File:      rec.File,
		StationID: cmp.Or(rec.StationID, meta.ClimateID),
		ClimateID: meta.ClimateID,
		Province:  cmp.Or(rec.Province, meta.Province),
		Name:      rec.Name,
		Lat:       meta.Lat,
		Lon:       meta.Lon,
	}
	if meta.Name != "" {
		s.Name = meta.Name
	}
	return s
}

// Len returns the number of indexed stations.
func (idx *Index) Len() int { return len(idx.stations) }

// All returns a copy of every station in index order.
func (idx *Index) All() []Station { return slices.Clone(idx.stations) }

// Filter returns the stations in province (any when empty) whose name, file
// or identifiers contain query, case-insensitively.
func (idx *Index) Filter(province, query string) []Station {
	prov := ""
	if strings.TrimSpace(province) != "" {
		prov = domain.NormalizeProvince(province)
		if prov == "" {
			return []Station{}
		}
	}
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Station, 0)
	for _, s := range idx.stations {
		if prov != "" && s.Province != prov {
			continue
		}
		if q != "" && !strings.Contains(searchText(s), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Lookup finds a station by file name.
func (idx *Index) Lookup(file string) (Station, bool) {
	for _, s := range idx.stations {
		if s.File == file {
			return s, true
		}
	}
	return Station{}, false
}

// ResolveStationFile maps a station id, file name or station name to a
// station. Identifiers match exactly; names are scored by shared words.
func (idx *Index) ResolveStationFile(query string) (Station, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Station{}, fmt.Errorf("empty query: %w", domain.ErrStationNotFound)
	}

	for _, s := range idx.stations {
		if strings.EqualFold(s.StationID, q) || strings.EqualFold(s.ClimateID, q) || strings.EqualFold(s.File, q) {
			return s, nil
		}
	}

	tokens := queryTokens(q)
	best, bestScore := -1, 0
	for i, s := range idx.stations {
		if score := matchScore(s, tokens); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Station{}, fmt.Errorf("%q: %w", q, domain.ErrStationNotFound)
	}
	return idx.stations[best], nil
}

// Nearest returns the closest station with coordinates and its great-circle
// distance in kilometres. A non-empty province restricts the candidates.
func (idx *Index) Nearest(lat, lon float64, province string) (Station, float64, error) {
	prov := domain.NormalizeProvince(province)
	best, bestDist := -1, 0.0
	for i, s := range idx.stations {
		if !s.HasCoords() || (prov != "" && s.Province != prov) {
			continue
		}
		d := haversineKM(lat, lon, s.Lat, s.Lon)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Station{}, 0, fmt.Errorf("no station with coordinates: %w", domain.ErrStationNotFound)
	}
	return idx.stations[best], bestDist, nil
}

func searchText(s Station) string {
	return strings.ToLower(strings.Join([]string{s.Name, s.File, s.StationID, s.ClimateID}, " "))
}

func queryTokens(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// matchScore gives two points per query word found in the station name and
// one per word found in the file name.
func matchScore(s Station, tokens []string) int {
	nameWords := queryTokens(s.Name)
	file := strings.ToLower(s.File)
	score := 0
	for _, t := range tokens {
		if slices.Contains(nameWords, t) {
			score += 2
		}
		if strings.Contains(file, t) {
			score++
		}
	}
	return score
}
