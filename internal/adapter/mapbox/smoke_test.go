//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rainfall-idf/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Saguenay", "QC")
	require.NoError(t, err)

	assert.InDelta(t, 48.43, result.Lat, 0.3, "lat should be near Saguenay")
	assert.InDelta(t, -71.07, result.Lon, 0.3, "lon should be near Saguenay")
	assert.Contains(t, result.FormattedAddress, "Saguenay")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ForwardGeocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Fuzzy matching may still return something; only the absence of an error is checked.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99", "")
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	cached := NewCachedGeocoder(smokeClient(t), 10, observability.NewMetricsForTesting())

	r1, err := cached.ForwardGeocode(context.Background(), "Rimouski", "QC")
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Rimouski")

	r2, err := cached.ForwardGeocode(context.Background(), "Rimouski", "QC")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
