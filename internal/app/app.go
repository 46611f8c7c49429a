package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/atelier-pos/internal/domain/cart"
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/operator"
	"github.com/xenking/atelier-pos/internal/domain/sales"
	"github.com/xenking/atelier-pos/internal/domain/settings"
	"github.com/xenking/atelier-pos/internal/handler"
	"github.com/xenking/atelier-pos/internal/storage"
	filedriver "github.com/xenking/atelier-pos/internal/storage/file"
	"github.com/xenking/atelier-pos/internal/storage/memory"
	"github.com/xenking/atelier-pos/internal/storage/postgres"
	"github.com/xenking/atelier-pos/pkg/health"
	"github.com/xenking/atelier-pos/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage.Driver),
	)

	drv, err := openDriver(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "open storage driver")
	}
	defer drv.Close()

	state, err := storage.LoadState(ctx, drv, defaultState(cfg.Title))
	if err != nil {
		return errors.Wrap(err, "load state")
	}

	// Stores. API clients confirm destructive actions before issuing the
	// request, so the engine-side confirmer auto-approves; notifications go
	// to the log.
	notify := operator.NotifierFunc(func(ctx context.Context, message string) {
		zctx.From(ctx).Info("operator notice", zap.String("message", message))
	})
	inv := inventory.NewStore(state.Items, state.Categories, operator.AutoConfirm)
	led := ledger.NewStore(state.Records)
	set := settings.NewStore(state.Title)

	// Persistence: write the touched record back after every mutation, and
	// flush once up front so a fresh seed reaches the medium immediately.
	persister := storage.NewPersister(drv, lg)
	persister.Bind(inv, led, set)
	persister.Flush(inv, led, set)

	// Domain services.
	checkoutCart := cart.New(inv)
	salesSvc := sales.NewService(inv, led, operator.AutoConfirm, notify)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("storage", 5*time.Second, drv.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP routes: health endpoints + API on one server.
	h := handler.New(inv, checkoutCart, salesSvc, led, set)
	api := handler.APIKeyAuth(cfg.APIKey, cfg.APIKeyPepper)(h.Routes())

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", api))

	instrumented := otelhttp.NewHandler(mux, "pos-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

func openDriver(ctx context.Context, cfg StorageConfig) (storage.Driver, error) {
	switch cfg.Driver {
	case "file":
		return filedriver.New(cfg.Dir)
	case "postgres":
		return postgres.New(ctx, cfg.DatabaseURL)
	case "memory":
		return memory.New(), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
