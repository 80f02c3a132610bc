package api

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/patrickprogramme/subtrad/internal/logger"
)

const RequestIDHeader = "X-Request-Id"

type ctxKey int

const loggerKey ctxKey = iota

// requestID reprend un X-Request-Id entrant s'il est un UUID valide, sinon en génère un.
func (a *API) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), loggerKey, logger.With(a.log, "request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logFor retourne le logger de la requête (avec request_id), sinon celui de l'API.
func (a *API) logFor(r *http.Request) logger.Logger {
	if l, ok := r.Context().Value(loggerKey).(logger.Logger); ok {
		return l
	}
	return a.log
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *API) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logFor(r).Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status,
			time.Since(start).Round(time.Millisecond))
	})
}

func (a *API) timeout(next http.Handler) http.Handler {
	if a.opts.RequestTimeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), a.opts.RequestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) allowOrigin(origin string) (string, bool) {
	if len(a.opts.CORSOrigins) == 0 || slices.Contains(a.opts.CORSOrigins, "*") {
		return "*", true
	}
	if origin != "" && slices.ContainsFunc(a.opts.CORSOrigins, func(o string) bool {
		return strings.EqualFold(o, origin)
	}) {
		return origin, true
	}
	return "", false
}

func (a *API) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowed, ok := a.allowOrigin(r.Header.Get("Origin")); ok {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
			} else {
				h.Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			}
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
