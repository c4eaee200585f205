package server

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sitefinder/pkg/observability"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Handlers registered in this group see the matched route pattern.
	r.Group(func(r chi.Router) {
		r.Use(s.instrument)

		r.Get("/healthz", s.health)
		if s.metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.metrics)
		}

		r.Post("/api/v1/search", s.search)
		r.Get("/api/v1/results", s.listResults)
		r.Get("/api/v1/results/{id}", s.getResult)
	})

	return r
}

// quietRoutes are logged at debug level.
var quietRoutes = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// instrument logs each request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := chi.RouteContext(r.Context()).RoutePattern()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, route, ww.status, d)

		logf := s.logger.Info
		switch {
		case ww.status >= 500:
			logf = s.logger.Error
		case ww.status >= 400:
			logf = s.logger.Warn
		case quietRoutes[route]:
			logf = s.logger.Debug
		}
		logf("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration", d,
			"request_id", chimw.GetReqID(r.Context()))
	})
}

// statusWriter captures the status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
