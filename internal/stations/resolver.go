package stations

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
)

// Resolution methods.
const (
	MethodGeocode = "geocode"
	MethodText    = "text"
)

// Resolution is the station chosen for a place query and how it was found.
type Resolution struct {
	Station    Station                 `json:"station"`
	Method     string                  `json:"method"`
	DistanceKM float64                 `json:"distanceKm,omitempty"`
	Geocoded   *domain.GeocodingResult `json:"geocoded,omitempty"`
}

// Resolver maps place names to stations, geocoding when a geocoder is
// configured and falling back to name matching otherwise.
type Resolver struct {
	index    *Index
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewResolver creates a Resolver. Pass a nil geocoder to use name matching only.
func NewResolver(index *Index, geocoder domain.Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{index: index, geocoder: geocoder, logger: logger}
}

// Resolve finds the station for place, optionally scoped to a province.
func (r *Resolver) Resolve(ctx context.Context, place, province string) (Resolution, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return Resolution{}, domain.ErrStationNotFound
	}
	prov := domain.NormalizeProvince(province)

	if res, ok := r.resolveByGeocode(ctx, place, prov); ok {
		return res, nil
	}

	s, err := r.index.ResolveStationFile(place)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Station: s, Method: MethodText}, nil
}

func (r *Resolver) resolveByGeocode(ctx context.Context, place, prov string) (Resolution, bool) {
	if r.geocoder == nil {
		return Resolution{}, false
	}
	geo, err := r.geocoder.ForwardGeocode(ctx, place, prov)
	if err != nil {
		r.logger.Warn("geocoding failed, falling back to name match", "place", place, "error", err)
		return Resolution{}, false
	}
	if !geo.Found() || !inCanada(geo.Lat, geo.Lon) {
		r.logger.Debug("no Canadian geocoding result", "place", place, "province", prov)
		return Resolution{}, false
	}

	s, dist, err := r.index.Nearest(geo.Lat, geo.Lon, prov)
	if errors.Is(err, domain.ErrStationNotFound) && prov != "" {
		s, dist, err = r.index.Nearest(geo.Lat, geo.Lon, "")
	}
	if err != nil {
		return Resolution{}, false
	}
	return Resolution{Station: s, Method: MethodGeocode, DistanceKM: dist, Geocoded: &geo}, true
}
