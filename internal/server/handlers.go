package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sitefinder/pkg/buildinfo"
	"github.com/matzehuels/sitefinder/pkg/core/grid"
	"github.com/matzehuels/sitefinder/pkg/core/search"
	"github.com/matzehuels/sitefinder/pkg/errors"
	"github.com/matzehuels/sitefinder/pkg/observability"
	"github.com/matzehuels/sitefinder/pkg/pipeline"
	"github.com/matzehuels/sitefinder/pkg/sites"
	"github.com/matzehuels/sitefinder/pkg/store"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Matrix  [][]int          `json:"matrix"`
	Options pipeline.Options `json:"options"`
}

// SearchResponse is the result document plus run metadata.
type SearchResponse struct {
	*sites.Document
	RunID      string       `json:"run_id"`
	MatrixHash string       `json:"matrix_hash"`
	CacheHit   bool         `json:"cache_hit"`
	DurationMS int64        `json:"duration_ms"`
	Stats      search.Stats `json:"stats"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	m, err := grid.FromRows(req.Matrix)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "invalid score matrix"))
		return
	}

	opts := s.withDefaults(req.Options)
	opts.Logger = s.logger.With("request_id", chimw.GetReqID(r.Context()))

	res, err := s.runner.Execute(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Document:   res.Document,
		RunID:      res.RunID,
		MatrixHash: res.MatrixHash,
		CacheHit:   res.CacheHit,
		DurationMS: res.Duration.Milliseconds(),
		Stats:      res.Stats,
	})
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}

	recs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.runner.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// withDefaults fills zero request options from the server defaults.
func (s *Server) withDefaults(o pipeline.Options) pipeline.Options {
	d := s.defaults
	if o.TargetSize == 0 {
		o.TargetSize = d.TargetSize
	}
	if o.Count == 0 {
		o.Count = d.Count
	}
	if o.SeedPool == 0 {
		o.SeedPool = d.SeedPool
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	return o
}

// writeError maps err to a status code and writes an ErrorResponse.
// Internal errors are logged and masked.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	route := chi.RouteContext(r.Context()).RoutePattern()
	observability.HTTP().OnError(r.Context(), r.Method, route, err)

	status, resp := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "route", route, "error", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) (int, ErrorResponse) {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest, ErrorResponse{Code: errors.GetCode(err), Error: err.Error()}
	case stderrors.Is(err, store.ErrNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound, ErrorResponse{Code: errors.ErrCodeNotFound, Error: "result not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: errors.ErrCodeInternal, Error: "internal server error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
