package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/freshbulk/internal/auth"
	"github.com/joao-fontenele/freshbulk/internal/cart"
	"github.com/joao-fontenele/freshbulk/internal/catalog"
	"github.com/joao-fontenele/freshbulk/internal/checkout"
	"github.com/joao-fontenele/freshbulk/internal/config"
	"github.com/joao-fontenele/freshbulk/internal/messaging"
	"github.com/joao-fontenele/freshbulk/internal/orders"
	"github.com/joao-fontenele/freshbulk/internal/seed"
	"github.com/joao-fontenele/freshbulk/internal/storage"
	"github.com/joao-fontenele/freshbulk/internal/telemetry"
)

const serviceVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer closeStore()

	if err := seed.Run(ctx, store, logger); err != nil {
		logger.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = messaging.NewProducer(cfg.KafkaBrokers, messaging.TopicOrderPlaced)
		defer func() { _ = producer.Close() }()
	}

	products := catalog.NewRepository(store)
	orderRepo := orders.NewRepository(store)
	authSvc := auth.NewService(store)
	cartStore := cart.NewStore()
	checkoutSvc := checkout.NewService(cartStore, products, orderRepo)

	catalogHandler := catalog.NewHandler(products, logger)
	orderHandler := orders.NewHandler(orderRepo, logger)
	authHandler := auth.NewHandler(authSvc, logger)
	cartHandler := cart.NewHandler(cartStore, products, logger)
	checkoutHandler := checkout.NewHandler(checkoutSvc, producer, logger)

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.RequireAdmin(authSvc, logger, next)
	}
	route := telemetry.WithHTTPRoute

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("GET /products", route(catalogHandler.HandleList))
	mux.HandleFunc("GET /products/{id}", route(catalogHandler.HandleGet))
	mux.HandleFunc("POST /products", route(admin(catalogHandler.HandleCreate)))
	mux.HandleFunc("PUT /products/{id}", route(admin(catalogHandler.HandleUpdate)))
	mux.HandleFunc("DELETE /products/{id}", route(admin(catalogHandler.HandleDelete)))

	mux.HandleFunc("GET /orders", route(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", route(orderHandler.HandleGet))
	mux.HandleFunc("PATCH /orders/{id}/status", route(admin(orderHandler.HandleUpdateStatus)))
	mux.HandleFunc("POST /orders/{id}/revert", route(admin(orderHandler.HandleRevert)))

	mux.HandleFunc("POST /auth/login", route(authHandler.HandleLogin))
	mux.HandleFunc("POST /auth/logout", route(authHandler.HandleLogout))
	mux.HandleFunc("GET /auth/session", route(authHandler.HandleSession))

	mux.HandleFunc("GET /cart", route(cartHandler.HandleView))
	mux.HandleFunc("POST /cart/items", route(cartHandler.HandleAddItem))
	mux.HandleFunc("PATCH /cart/items/{productId}", route(cartHandler.HandleSetQuantity))
	mux.HandleFunc("DELETE /cart/items/{productId}", route(cartHandler.HandleRemoveItem))
	mux.HandleFunc("DELETE /cart", route(cartHandler.HandleClear))

	mux.HandleFunc("GET /checkout/quote", route(checkoutHandler.HandleQuote))
	mux.HandleFunc("POST /checkout", route(checkoutHandler.HandlePlaceOrder))

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, cfg.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), noop, nil

	case config.DriverFile:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.DriverRedis:
		store := storage.NewRedisStore(cfg.RedisAddr)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case config.DriverPostgres:
		if cfg.PostgresURL == "" {
			return nil, nil, fmt.Errorf("POSTGRES_URL is required for the postgres driver")
		}
		db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres ping: %w", err)
		}
		return storage.NewPostgresStore(db), func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
