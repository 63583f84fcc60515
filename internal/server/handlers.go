package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/epdwave/internal/discovery"
	"github.com/muurk/epdwave/internal/export"
	"github.com/muurk/epdwave/internal/logging"
	"github.com/muurk/epdwave/internal/version"
)

// Handler returns the HTTP routes:
//
//	GET /waveforms.json  exported document (?mode=GC16,DU filters modes)
//	GET /waveforms.yaml  same, as YAML
//	GET /raw.json        addresses, lengths and control bytes
//	GET /header.json     header fields
//	GET /healthz         liveness and summary
//	GET /ws              WebSocket: current document, then pushes and requests
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+discovery.DocumentPath, s.handleDocument(export.FormatJSON))
	mux.HandleFunc("GET /waveforms.yaml", s.handleDocument(export.FormatYAML))
	mux.HandleFunc("GET /raw.json", s.handleRaw)
	mux.HandleFunc("GET /header.json", s.handleHeader)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return logRequests(mux)
}

func (s *Server) handleDocument(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := s.Document()

		if modes := r.URL.Query().Get("mode"); modes != "" {
			ids, err := export.ParseModeList(modes)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			doc = export.Build(s.Result(), export.WithModes(ids...))
		}

		writeEncoded(w, doc, format)
	}
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	writeEncoded(w, export.BuildRaw(s.Result()), export.FormatJSON)
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	writeEncoded(w, s.Result().Header.Fields(), export.FormatJSON)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	writeEncoded(w, map[string]any{
		"status":   "ok",
		"version":  version.Short(),
		"serial":   res.Header.Serial,
		"warnings": len(res.Warnings),
		"clients":  s.hub.count(),
	}, export.FormatCompact)
}

func writeEncoded(w http.ResponseWriter, v any, format export.Format) {
	data, err := export.Marshal(v, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if format == export.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	data, _ := export.Marshal(map[string]string{"error": err.Error()}, export.FormatCompact)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController and the WebSocket upgrader reach the
// underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		// The upgrader needs http.Hijacker on the original writer
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(rec, r)
		}

		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
		logging.Debug("Request served",
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
