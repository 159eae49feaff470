package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"globetrotter/internal/app"
	"globetrotter/internal/domain"
	"globetrotter/internal/metrics"
)

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// authMiddleware verifies the bearer token and stores the caller's identity.
func authMiddleware(users *app.UserService, rep errorReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			id, err := users.Authenticate(r.Context(), token)
			if err != nil {
				rep.fail(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFrom returns nil outside authMiddleware.
func identityFrom(r *http.Request) *domain.Identity {
	id, _ := r.Context().Value(ctxKeyIdentity).(*domain.Identity)
	return id
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		inFlight := metrics.RequestInProgress.WithLabelValues(r.Method)
		inFlight.Inc()

		defer func() {
			inFlight.Dec()
			// Route patterns keep label cardinality bounded.
			path := chi.RouteContext(r.Context()).RoutePattern()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(ww.Status())
			metrics.RequestCounter.WithLabelValues(status, r.Method, path).Inc()
			metrics.RequestDuration.WithLabelValues(status, r.Method, path).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(ww, r)
	})
}

// corsMiddleware allows the configured frontend origin with credentials. An
// empty or "*" origin allows any origin without credentials.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if allowedOrigin == "" || allowedOrigin == "*" {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowedOrigins = []string{allowedOrigin}
		opts.AllowCredentials = true
	}
	return cors.Handler(opts)
}
