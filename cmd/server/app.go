package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/auth"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/billing"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/blob"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/bus"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/cache"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/chat"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/config"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/currency"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/jobs"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/metrics"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/middleware"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/queue"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage/sqlite"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// publicProcedures run without a session.
var publicProcedures = []string{
	apiconnect.AuthServiceRegisterProcedure,
	apiconnect.AuthServiceLoginProcedure,
	apiconnect.AuthServiceRefreshProcedure,
	apiconnect.CurrencyServiceGetRatesProcedure,
	apiconnect.CurrencyServiceConvertProcedure,
	apiconnect.CurrencyServiceFormatProcedure,
}

// appModule composes the server from cfg.
func appModule(cfg *config.Config) fx.Option {
	return fx.Module("dashboardly",
		fx.Supply(cfg),
		fx.Provide(
			provideStore,
			provideCache,
			provideQueue,
			provideFiles,
			provideLimiter,
			newMailer,
			newGateway,
			newRates,
			bus.New,
			metrics.NewRegistry,
			provideRunner,
			provideJWT,
			provideRevoker,
			provideInterceptors,
			provideChat,
			newRoutes,
			provideHTTPServer,
		),
		fx.Invoke(registerWorker, registerServer),
	)
}

func provideStore(lc fx.Lifecycle, cfg *config.Config) (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage initialized", "database", cfg.Database.Path)
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

func provideCache(lc fx.Lifecycle, cfg *config.Config) (cache.Cache, error) {
	c, err := cache.New(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(c.Close))
	return c, nil
}

func provideQueue(cfg *config.Config) (queue.Queue, error) {
	return newQueue(cfg)
}

func newQueue(cfg *config.Config) (queue.Queue, error) {
	if cfg.Redis.URL == "" {
		slog.Warn("No redis url configured, running background tasks inline")
		return queue.NewInline(), nil
	}
	return queue.NewAsynq(cfg.Redis.URL, cfg.Redis.Concurrency)
}

func provideFiles(lc fx.Lifecycle, cfg *config.Config) (*blob.Store, error) {
	files, err := openFiles(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(files.Close))
	return files, nil
}

func openFiles(cfg *config.Config) (*blob.Store, error) {
	return blob.OpenDir(cfg.Storage.Dir, strings.TrimSuffix(cfg.Server.BaseURL, "/")+"/files/", cfg.Storage.SignSecret)
}

func provideLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.LimiterStore {
	limiter := middleware.NewLimiterStore(cfg.Auth.LoginRPM, cfg.Auth.LoginBurst, 5*time.Minute)
	lc.Append(fx.StopHook(limiter.Stop))
	return limiter
}

func newMailer(cfg *config.Config) email.Mailer {
	if cfg.Email.APIKey == "" {
		slog.Warn("No email api key configured, emails will only be logged")
		return email.LogMailer{}
	}
	return email.NewAPIMailer(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)
}

func newGateway(cfg *config.Config) billing.Gateway {
	if cfg.Stripe.SecretKey == "" {
		slog.Warn("No stripe key configured, payments are disabled")
		return billing.Disabled{}
	}
	base := strings.TrimSuffix(cfg.Server.BaseURL, "/")
	return billing.NewStripe(billing.StripeConfig{
		SecretKey:         cfg.Stripe.SecretKey,
		SuccessURL:        orDefault(cfg.Stripe.SuccessURL, base+"/billing?checkout=success"),
		CancelURL:         orDefault(cfg.Stripe.CancelURL, base+"/billing?checkout=cancelled"),
		Prices:            cfg.Stripe.Prices,
		ConnectReturnURL:  base + "/billing?onboarding=done",
		ConnectRefreshURL: base + "/billing?onboarding=retry",
	})
}

func newRates(cfg *config.Config, c cache.Cache) *currency.Service {
	return currency.NewService(currency.NewHTTPFetcher(cfg.Rates.APIURL), c, cfg.Rates.CacheTTL.Duration)
}

func provideRunner(cfg *config.Config, store *sqlite.SQLiteStore, q queue.Queue, mailer email.Mailer) *jobs.Runner {
	return jobs.NewRunner(store, q, mailer, cfg.Jobs.ScrapeSuccessRatio)
}

func provideJWT(cfg *config.Config) *auth.JWTManager {
	return auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration, cfg.Auth.RefreshTTL.Duration)
}

func provideRevoker(cfg *config.Config, c cache.Cache) *auth.Revoker {
	return auth.NewRevoker(c, cfg.Auth.RefreshTTL.Duration)
}

func provideInterceptors(jwtManager *auth.JWTManager, revoker *auth.Revoker, limiter *middleware.LimiterStore) connect.HandlerOption {
	return connect.WithInterceptors(
		middleware.NewMetricsInterceptor(),
		middleware.NewLoggingInterceptor(),
		middleware.NewAuthInterceptor(jwtManager, revoker, publicProcedures...),
		middleware.RateLimitInterceptor(limiter,
			apiconnect.AuthServiceLoginProcedure,
			apiconnect.AuthServiceRegisterProcedure,
		),
	)
}

func provideChat(store *sqlite.SQLiteStore, b *bus.Bus) *chat.Service {
	return chat.NewService(store, b)
}

// registerWorker runs the queue's task processor for the life of the app.
func registerWorker(lc fx.Lifecycle, q queue.Queue) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := q.Run(ctx); err != nil {
					slog.Error("Task worker stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return q.Close()
		},
	})
}

// server is the HTTP server together with the context its requests derive
// from, so that open streams end on shutdown.
type server struct {
	http   *http.Server
	cancel context.CancelFunc
}

func provideHTTPServer(cfg *config.Config, routes *http.ServeMux) *server {
	base, cancel := context.WithCancel(context.Background())
	handler := loggingMiddleware(corsMiddleware(cfg.Server.CORSOrigins, routes))
	return &server{
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return base },
		},
		cancel: cancel,
	}
}

func registerServer(lc fx.Lifecycle, srv *server, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.http.Addr)
			if err != nil {
				return err
			}
			slog.Info("Connect server starting", "address", ln.Addr().String(), "url", cfg.Server.BaseURL)
			go func() {
				if err := srv.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("Server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.cancel()
			return srv.http.Shutdown(ctx)
		},
	})
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
