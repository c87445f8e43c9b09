package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/rainfall-idf/internal/domain"
	"github.com/couchcryptid/rainfall-idf/internal/stations"
)

// TableService returns parsed rainfall tables.
type TableService interface {
	Get(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error)
	Columnar(ctx context.Context, sourceID, unitSystem string) (*domain.RainfallTable, error)
}

// StationIndex lists and looks up known stations.
type StationIndex interface {
	Filter(province, query string) []stations.Station
	Lookup(file string) (stations.Station, bool)
	ResolveStationFile(query string) (stations.Station, error)
}

// PlaceResolver maps a place name to a station.
type PlaceResolver interface {
	Resolve(ctx context.Context, place, province string) (stations.Resolution, error)
}

// DocumentSource returns the raw text of a document.
type DocumentSource interface {
	Read(ctx context.Context, name string) (string, error)
}

// API holds the collaborators of the /api/idf handlers.
type API struct {
	tables    TableService
	stations  StationIndex
	places    PlaceResolver
	documents DocumentSource
	logger    *slog.Logger
}

// NewAPI creates the /api/idf handlers.
func NewAPI(tables TableService, index StationIndex, places PlaceResolver, documents DocumentSource, logger *slog.Logger) *API {
	return &API{tables: tables, stations: index, places: places, documents: documents, logger: logger}
}

func (a *API) routes(r chi.Router) {
	r.Get("/available", a.handleAvailable)
	r.Get("/", a.handleTable)
	r.Get("/curves", a.handleCurves)
	r.Get("/by-place", a.handleByPlace)
	r.Get("/debug/preview", a.handlePreview)
	r.Get("/ping", a.handlePing)
}

type tableResponse struct {
	File       string               `json:"file"`
	Station    *stations.Station    `json:"station,omitempty"`
	Resolution *stations.Resolution `json:"resolution,omitempty"`
	Durations  []int                `json:"durations"`
	Series     []domain.Series      `json:"series"`
	Units      domain.Units         `json:"units"`
	IDF        domain.IDF           `json:"idf"`
}

func (a *API) handleAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := a.stations.Filter(q.Get("province"), q.Get("q"))
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"count":    len(list),
		"stations": list,
	})
}

// handleTable serves a table by station id or file name.
func (a *API) handleTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	file, station, err := a.resolveFile(q.Get("stationId"), q.Get("file"))
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}

	table, err := a.tables.Get(r.Context(), file, q.Get("unitSystem"))
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newTableResponse(file, station, nil, table))
}

// handleCurves serves the header-driven parse of a station picked by id or
// place name.
func (a *API) handleCurves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		file       string
		station    *stations.Station
		resolution *stations.Resolution
		err        error
	)
	if place := strings.TrimSpace(q.Get("place")); place != "" && q.Get("stationId") == "" {
		var res stations.Resolution
		res, err = a.places.Resolve(r.Context(), place, q.Get("province"))
		if err == nil {
			file, station, resolution = res.Station.File, &res.Station, &res
		}
	} else {
		file, station, err = a.resolveFile(q.Get("stationId"), "")
	}
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}

	table, err := a.tables.Columnar(r.Context(), file, q.Get("unitSystem"))
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newTableResponse(file, station, resolution, table))
}

// handleByPlace resolves a place to a station, including its table when
// fetch is set.
func (a *API) handleByPlace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	place := strings.TrimSpace(q.Get("place"))
	if place == "" {
		a.writeError(w, r, errBadRequest("place is required"), "")
		return
	}

	res, err := a.places.Resolve(r.Context(), place, q.Get("province"))
	if err != nil {
		a.writeError(w, r, err, "")
		return
	}

	body := map[string]any{
		"place":      place,
		"province":   domain.NormalizeProvince(q.Get("province")),
		"resolution": res,
	}
	if fetch, _ := strconv.ParseBool(q.Get("fetch")); fetch {
		table, err := a.tables.Get(r.Context(), res.Station.File, q.Get("unitSystem"))
		if err != nil {
			a.writeError(w, r, err, res.Station.File)
			return
		}
		body["table"] = newTableResponse(res.Station.File, &res.Station, nil, table)
	}
	sharedobs.WriteJSON(w, http.StatusOK, body)
}

func (a *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		a.writeError(w, r, errBadRequest("file is required"), "")
		return
	}
	text, err := a.documents.Read(r.Context(), file)
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}
	preview, err := domain.Preview(domain.SplitLines(text))
	if err != nil {
		a.writeError(w, r, err, file)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"file":    file,
		"preview": preview,
	})
}

func (a *API) handlePing(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// resolveFile picks the document named by file, or the station matching
// stationID. The station is nil when a file is not in the index.
func (a *API) resolveFile(stationID, file string) (string, *stations.Station, error) {
	if file = strings.TrimSpace(file); file != "" {
		if s, ok := a.stations.Lookup(file); ok {
			return file, &s, nil
		}
		return file, nil, nil
	}
	if strings.TrimSpace(stationID) == "" {
		return "", nil, errBadRequest("stationId or file is required")
	}
	s, err := a.stations.ResolveStationFile(stationID)
	if err != nil {
		return "", nil, err
	}
	return s.File, &s, nil
}

func newTableResponse(file string, station *stations.Station, res *stations.Resolution, t *domain.RainfallTable) tableResponse {
	curves := domain.Curves(t)
	return tableResponse{
		File:       file,
		Station:    station,
		Resolution: res,
		Durations:  curves.Durations,
		Series:     curves.Series,
		Units:      t.Units,
		IDF:        t.IDF,
	}
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// writeError maps domain errors to status codes. Table format problems are
// 422 so clients can tell them apart from missing documents.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error, file string) {
	body := map[string]any{"error": err.Error()}
	if file != "" {
		body["file"] = file
	}

	var (
		badReq   badRequestError
		parseErr *domain.ParseError
		status   int
	)
	switch {
	case errors.As(err, &badReq), errors.Is(err, domain.ErrInvalidUnitSystem):
		status = http.StatusBadRequest
	case errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
		body["error"] = domain.ErrParseFailure.Error()
		body["preview"] = parseErr.Preview
	case errors.Is(err, domain.ErrTableNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceNotFound), errors.Is(err, domain.ErrStationNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		body["error"] = "internal error"
		a.logger.Error("request failed", "path", r.URL.Path, "file", file, "error", err)
	}
	sharedobs.WriteJSON(w, status, body)
}
