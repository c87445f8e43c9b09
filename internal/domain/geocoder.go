package domain

import "context"

// GeocodingResult is a geocoded place. A zero FormattedAddress means no match.
type GeocodingResult struct {
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	FormattedAddress string  `json:"formattedAddress"`
	PlaceName        string  `json:"placeName"`
	Confidence       float64 `json:"confidence"`
}

// Found reports whether the provider matched the query.
func (g GeocodingResult) Found() bool { return g.FormattedAddress != "" }

// Geocoder resolves free-text place names to coordinates. It is optional;
// station lookup falls back to name matching without it.
type Geocoder interface {
	// ForwardGeocode converts a place name, optionally scoped to a
	// two-letter province code, to coordinates.
	ForwardGeocode(ctx context.Context, place, province string) (GeocodingResult, error)
}
