// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/proj"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns the HTTP handler with all routes registered.
func (s *ServerContext) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/sources", s.HandleSourcesList)
	r.Get("/api/crs", s.HandleCRSList)
	r.Get("/sources/{name}.geojson", s.HandleSource)
	r.Get("/convert", s.HandleConvert)

	return r
}

// HandleSourcesList serves the JSON list of configured sources.
func (s *ServerContext) HandleSourcesList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Sources)
}

// HandleCRSList serves the names of the registered coordinate reference systems.
func (s *ServerContext) HandleCRSList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Registry.Names())
}

// HandleSource converts a configured source on request.
func (s *ServerContext) HandleSource(w http.ResponseWriter, r *http.Request) {
	src, ok := s.Config.Lookup(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	fc, err := s.Converters[src.Name].Convert(r.Context(), src.URL, src.Delimiter)
	s.writeResult(w, fc, err)
}

// HandleConvert converts the URL given in the query string.
//
//	GET /convert?url=...&delimiter=comma&source_crs=EPSG:3857&invalid=skip
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if !s.AllowConvert {
		http.Error(w, "ad hoc conversion is disabled", http.StatusForbidden)
		return
	}

	q := r.URL.Query()
	url := q.Get("url")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		http.Error(w, "url must be an http or https URL", http.StatusBadRequest)
		return
	}

	policy, err := geo.ParseInvalidPolicy(q.Get("invalid"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	converter := &pipeline.Converter{
		Fetcher: s.Fetcher,
		Assembler: &geo.Assembler{
			Reprojector: s.Reprojector,
			SourceCRS:   queryDefault(q.Get("source_crs"), proj.WGS84),
			TargetCRS:   queryDefault(q.Get("target_crs"), proj.WGS84),
			Invalid:     policy,
		},
	}

	fc, err := converter.Convert(r.Context(), url, q.Get("delimiter"))
	s.writeResult(w, fc, err)
}

// writeResult encodes a collection or maps a conversion error to a status code.
func (s *ServerContext) writeResult(w http.ResponseWriter, fc *geo.GeoJSONFeatureCollection, err error) {
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(fc)
}

func statusFor(err error) int {
	if errors.Is(err, proj.ErrUnknownCRS) {
		return http.StatusBadRequest
	}

	stage, _ := pipeline.StageOf(err)
	switch stage {
	case pipeline.StageFetching:
		return http.StatusBadGateway
	case pipeline.StageParsing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func queryDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
