package app

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/klokku/burnup/internal/config"
	log "github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

type requestIdKey struct{}

// RequestId returns the id assigned to the request carrying ctx.
func RequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(requestIdMiddleware)
	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	r.Use(requestLogMiddleware)
	r.Use(timeoutMiddleware(cfg.Server.RequestTimeout))
}

// requestIdMiddleware keeps a caller supplied X-Request-Id or assigns a new one
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, id)
		ctx := context.WithValue(req.Context(), requestIdKey{}, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// corsMiddleware answers preflight requests itself; "*" allows any origin.
func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAny := slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			origin := req.Header.Get("Origin")
			if origin != "" && (allowAny || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Source-Token, "+RequestIdHeader)
				w.Header().Set("Access-Control-Expose-Headers", RequestIdHeader)
				w.Header().Add("Vary", "Origin")
			}
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		entry := log.WithFields(log.Fields{
			"requestId": RequestId(req.Context()),
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    recorder.status,
			"duration":  time.Since(start),
		})
		if recorder.status >= http.StatusInternalServerError {
			entry.Warn("Request failed")
		} else {
			entry.Debug("Request handled")
		}
	})
}

// timeoutMiddleware gives the request context a deadline of budget, so item
// source calls fail with context.DeadlineExceeded. http.TimeoutHandler cuts
// off handlers that do not return shortly after it.
func timeoutMiddleware(budget time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if budget <= 0 {
			return next
		}
		withDeadline := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx, cancel := context.WithTimeout(req.Context(), budget)
			defer cancel()
			next.ServeHTTP(w, req.WithContext(ctx))
		})
		return http.TimeoutHandler(withDeadline, budget+5*time.Second, `{"error":"Request timed out"}`)
	}
}
