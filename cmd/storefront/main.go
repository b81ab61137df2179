package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/dispatch"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/events"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/session"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/nikolayk812/storefront/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "storefront"

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging.New: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName, cfg.Telemetry.Endpoint, cfg.Telemetry.SampleRatio)
	if err != nil {
		return fmt.Errorf("telemetry.SetupTracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		pool        *pgxpool.Pool
		catalogRepo port.CatalogRepository
		orderRepo   port.OrderRepository
	)
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("pgxpool.New: %w", err)
		}
		defer pool.Close()

		if catalogRepo, err = repository.NewCatalog(pool); err != nil {
			return fmt.Errorf("repository.NewCatalog: %w", err)
		}
		if orderRepo, err = repository.NewOrder(pool); err != nil {
			return fmt.Errorf("repository.NewOrder: %w", err)
		}
	} else {
		logger.Warn("database url is empty, catalog is empty and orders cannot be placed")
		catalogRepo = repository.NewUnconfiguredCatalog()
		orderRepo = repository.NewUnconfiguredOrders()
	}

	bus := events.NewBus(logger, events.WithDropHook(func(kind domain.ProductEventKind) {
		m.DroppedEvents.WithLabelValues(string(kind)).Inc()
	}))
	defer bus.Close()

	svc, err := catalog.NewService(catalogRepo, bus, catalog.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("catalog.NewService: %w", err)
	}
	sub := bus.Subscribe(events.DefaultBuffer)
	defer sub.Unsubscribe()
	go func() {
		_ = svc.Run(ctx, sub.C)
	}()

	if pool != nil {
		listener, err := repository.NewProductListener(pool, bus, logger)
		if err != nil {
			return fmt.Errorf("repository.NewProductListener: %w", err)
		}
		go func() {
			if err := listener.Run(ctx); err != nil {
				logger.Error("product listener stopped", zap.Error(err))
			}
		}()
	}

	storageFor, closeStorage, err := newStorageFactory(ctx, cfg.Storage, pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage.Close(); err != nil {
			logger.Warn("storage close", zap.Error(err))
		}
	}()

	dispatcher, err := newDispatcher(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	if c, ok := dispatcher.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	cartOpts := []cart.Option{
		cart.WithCurrency(cfg.Currency()),
		cart.WithObserver(m.CartMutation),
	}
	if cfg.Store.EnforceInventory {
		cartOpts = append(cartOpts, cart.WithInventoryChecks())
	}

	sessions, err := session.NewManager(storageFor, orderRepo,
		session.WithLogger(logger),
		session.WithCartOptions(cartOpts...),
		session.WithCheckoutOptions(
			checkout.WithDispatcher(dispatcher),
			checkout.WithResultObserver(m.OrderSubmitted),
			checkout.WithSettings(checkout.Settings{
				StoreName:     cfg.Store.Name,
				CustomerName:  cfg.Store.CustomerName,
				WhatsAppPhone: cfg.Store.WhatsAppPhone,
				Location:      cfg.Location(),
			}),
		))
	if err != nil {
		return fmt.Errorf("session.NewManager: %w", err)
	}
	go sessions.RunSweeper(ctx, max(cfg.Store.SessionIdle/4, time.Second), cfg.Store.SessionIdle)

	if cfg.Admin.Token == "" {
		if cfg.Admin.Insecure {
			logger.Warn("admin routes are open without a token")
		} else {
			logger.Warn("admin token is empty, admin routes are disabled")
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Sessions:      sessions,
		Catalog:       svc,
		Orders:        orderRepo,
		Metrics:       m,
		Logger:        logger,
		Currency:      cfg.Currency(),
		AdminToken:    cfg.Admin.Token,
		AdminInsecure: cfg.Admin.Insecure,
		Ready: func(ctx context.Context) error {
			if pool == nil {
				return nil
			}
			return pool.Ping(ctx)
		},
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	healthLis, err := net.Listen("tcp", cfg.Health.GRPCAddr)
	if err != nil {
		return fmt.Errorf("net.Listen %s: %w", cfg.Health.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	errs := make(chan error, 2)
	go func() {
		logger.Info("health gRPC server listening", zap.String("addr", cfg.Health.GRPCAddr))
		if err := grpcServer.Serve(healthLis); err != nil {
			errs <- fmt.Errorf("grpcServer.Serve: %w", err)
		}
	}()
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errs:
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	return runErr
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// newStorageFactory scopes the configured client storage backend to one session owner.
func newStorageFactory(ctx context.Context, cfg config.StorageConfig, pool *pgxpool.Pool) (session.StorageFactory, io.Closer, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		base := storage.NewMemory()
		return func(owner string) (port.Storage, error) {
			return storage.Namespace(base, owner), nil
		}, noopCloser, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		base, err := storage.NewRedis(client, serviceName, cfg.RedisTTL)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("storage.NewRedis: %w", err)
		}
		return func(owner string) (port.Storage, error) {
			return storage.Namespace(base, owner), nil
		}, client, nil

	case config.StorageSQLite:
		base, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("storage.OpenSQLite: %w", err)
		}
		return func(owner string) (port.Storage, error) {
			return storage.Namespace(base, owner), nil
		}, base, nil

	case config.StoragePostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("%w: postgres storage needs database.url", config.ErrMissingConfiguration)
		}
		return func(owner string) (port.Storage, error) {
			return repository.NewStorage(pool, owner)
		}, noopCloser, nil
	}

	return nil, nil, fmt.Errorf("%w: storage driver %q", config.ErrInvalidConfiguration, cfg.Driver)
}

func newDispatcher(cfg config.KafkaConfig, logger *zap.Logger) (port.Dispatcher, error) {
	if len(cfg.Brokers) == 0 {
		return dispatch.NewLog(logger), nil
	}

	k, err := dispatch.NewKafka(cfg.Brokers, cfg.Topic, logger)
	if err != nil {
		return nil, fmt.Errorf("dispatch.NewKafka: %w", err)
	}
	return k, nil
}
