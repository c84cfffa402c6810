package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/billing"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/blob"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/chat"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/config"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/jobs"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/service"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage/sqlite"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// apiPrefix is the path prefix of every Connect procedure.
const apiPrefix = "/dashboardly.v1."

type routeParams struct {
	fx.In

	Config       *config.Config
	Store        *sqlite.SQLiteStore
	Files        *blob.Store
	Runner       *jobs.Runner
	Rates        *currency.Service
	Chat         *chat.Service
	Gateway      billing.Gateway
	JWT          *auth.JWTManager
	Revoker      *auth.Revoker
	Registry     *prometheus.Registry
	Interceptors connect.HandlerOption
}

func newRoutes(p routeParams) (*http.ServeMux, error) {
	cfg := p.Config
	mux := http.NewServeMux()

	urlTTL := cfg.Storage.URLTTL.Duration
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(auth.NewPasswordAuthenticator(p.Store), p.JWT, p.Revoker, p.Store), p.Interceptors))
	mux.Handle(apiconnect.NewChatServiceHandler(service.NewChatService(p.Chat), p.Interceptors))
	mux.Handle(apiconnect.NewCurrencyServiceHandler(service.NewCurrencyService(p.Rates, p.Store), p.Interceptors))
	mux.Handle(apiconnect.NewPropertyServiceHandler(
		service.NewPropertyService(p.Store, p.Runner, cfg.Server.BaseURL, cfg.Auth.InvitationTTL.Duration), p.Interceptors))
	mux.Handle(apiconnect.NewMaintenanceServiceHandler(
		service.NewMaintenanceService(p.Store, p.Files, p.Runner, cfg.Server.BaseURL, urlTTL), p.Interceptors))
	mux.Handle(apiconnect.NewDocumentServiceHandler(service.NewDocumentService(p.Store, p.Files, urlTTL), p.Interceptors))
	mux.Handle(apiconnect.NewBillingServiceHandler(
		service.NewBillingService(p.Store, p.Gateway, p.Runner, cfg.Server.BaseURL), p.Interceptors))
	mux.Handle(apiconnect.NewUtilityServiceHandler(service.NewUtilityService(p.Store, p.Runner), p.Interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry}))
	mux.Handle("/files/", p.Files.Handler())
	if cfg.Stripe.WebhookSecret != "" {
		mux.Handle("/webhooks/stripe", billing.NewWebhook(p.Store, cfg.Stripe.WebhookSecret, cfg.Stripe.Prices))
	}

	staticDir, err := filepath.Abs(cfg.Server.StaticDir)
	if err != nil {
		return nil, err
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", spaHandler(staticDir))
	return mux, nil
}

// spaHandler serves files from dir and falls back to index.html so that
// client-side routes load the app.
func spaHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, apiPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}

// statusRecorder captures the response code. It keeps Flush so streaming
// RPCs still work through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access. An empty origin list
// allows any origin.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSpace(o)] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
