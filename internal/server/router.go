package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/metrics"
	"github.com/debty-app/debty/internal/middleware"
	"github.com/debty-app/debty/internal/service"
	"github.com/debty-app/debty/pkg/api/apiconnect"
)

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health  HealthService
	Ledger  *service.LedgerService
	Auth    *service.AuthService
	JWT     *auth.JWTManager
	Metrics *metrics.Metrics // nil disables /metrics

	AllowedOrigins []string
	StaticDir      string
}

// NewRouter wires the Connect services, /healthz, /metrics and the optional
// static web client behind CORS, request logging and h2c.
func NewRouter(logger *slog.Logger, deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{"status": "ok"}

		if deps.Health != nil {
			if err := deps.Health.Check(ctx); err != nil {
				logger.Error("Health check failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	})

	// Metrics first so it also counts calls rejected by auth.
	var interceptors []connect.Interceptor
	if deps.Metrics != nil {
		interceptors = append(interceptors, deps.Metrics.Interceptor())
		mux.Handle("/metrics", deps.Metrics.Handler())
	}
	interceptors = append(interceptors,
		middleware.RequireAuth(deps.JWT, apiconnect.PublicProcedures...),
		middleware.LoggingInterceptor(logger),
	)
	opts := connect.WithInterceptors(interceptors...)

	if deps.Auth != nil {
		mux.Handle(apiconnect.NewAuthServiceHandler(deps.Auth, opts))
	}
	if deps.Ledger != nil {
		mux.Handle(apiconnect.NewLedgerServiceHandler(deps.Ledger, opts))
	}

	if deps.StaticDir != "" {
		mux.Handle("/", staticHandler(logger, deps.StaticDir))
	}

	handler := middleware.HTTPLogging(logger, mux)
	handler = middleware.CORS(deps.AllowedOrigins)(handler)

	// h2c serves HTTP/2 without TLS, which gRPC clients need.
	return h2c.NewHandler(handler, &http2.Server{})
}

// staticHandler serves files from dir and falls back to index.html for
// unknown paths so client-side routes resolve.
func staticHandler(logger *slog.Logger, dir string) http.Handler {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	logger.Info("Serving static files", "path", root)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/debty.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(root, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(root, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
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
