package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health           HealthService
	API              *APIHandlers
	AllowedOrigins   []string
	AllowCredentials bool
}

type route struct {
	pattern string
	handler func(*APIHandlers) http.HandlerFunc
}

// apiRoutes lists the dashboard and assessment endpoints. Patterns ending in
// a slash take an identifier suffix parsed by the handler.
var apiRoutes = []route{
	{"/profiles", func(h *APIHandlers) http.HandlerFunc { return h.handleProfiles }},
	{"/profiles/", func(h *APIHandlers) http.HandlerFunc { return h.handleProfile }},
	{"/analytics/summary", func(h *APIHandlers) http.HandlerFunc { return h.handleAnalyticsSummary }},
	{"/export/profiles", func(h *APIHandlers) http.HandlerFunc { return h.handleExportProfiles }},
	{"/assessments", func(h *APIHandlers) http.HandlerFunc { return h.handleAssessments }},
	{"/assessments/", func(h *APIHandlers) http.HandlerFunc { return h.handleAssessment }},
}

// NewRouter wires the HTTP routes exposed by the backend API.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthzHandler(logger, deps.Health))

	if deps.API != nil {
		for _, rt := range apiRoutes {
			mux.HandleFunc(rt.pattern, rt.handler(deps.API))
		}
	}

	handler := requestLogger(logger, mux)
	if len(deps.AllowedOrigins) > 0 {
		handler = newOriginPolicy(deps.AllowedOrigins, deps.AllowCredentials).wrap(handler)
	}
	return handler
}

func healthzHandler(logger *slog.Logger, health HealthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{"status": "ok"}
		if health != nil {
			if err := health.Probe(ctx); err != nil {
				logger.Error("health probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}
		respondJSON(w, status, payload)
	}
}

// requestLogger tags each request with an id, echoed in the response headers,
// and logs its outcome. Server errors are logged at warn level.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.LogAttrs(r.Context(), level, "request completed",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// originPolicy answers CORS for the dashboard front end.
type originPolicy struct {
	origins     map[string]struct{}
	wildcard    bool
	credentials bool
}

func newOriginPolicy(allowed []string, credentials bool) originPolicy {
	p := originPolicy{origins: make(map[string]struct{}, len(allowed)), credentials: credentials}
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			p.wildcard = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.wildcard {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

func (p originPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !p.allows(origin) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		if p.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ParseAllowedOrigins splits a comma-separated origin list.
func ParseAllowedOrigins(csv string) []string {
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
