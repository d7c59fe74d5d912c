package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/theatrego/internal/config"
	"github.com/kirinyoku/theatrego/internal/postgres"
	"github.com/kirinyoku/theatrego/internal/queue"
	"github.com/kirinyoku/theatrego/internal/redis"
	postgresrepo "github.com/kirinyoku/theatrego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/service"
	"github.com/kirinyoku/theatrego/internal/service/availability"
	"github.com/kirinyoku/theatrego/internal/service/booking"
	"github.com/kirinyoku/theatrego/internal/service/website"
	"github.com/kirinyoku/theatrego/internal/slots"
	httpgin "github.com/kirinyoku/theatrego/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool      *pgxpool.Pool
	rdb       *goredis.Client
	pubsub    *redisrepo.CatalogPubSub
	services  *service.Services
	publisher *queue.Publisher
	consumer  *queue.Consumer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	pgxPool, err := postgres.New(ctx, postgres.Config{
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Name:     cfg.Postgres.Name,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, pgxPool); err != nil {
			pgxPool.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
	}

	rdb, err := redis.New(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewCatalogPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "public", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.RateLimit.IdempotencyTTL)

	a := &App{
		cfg:    cfg,
		logger: logger,
		pool:   pgxPool,
		rdb:    rdb,
		pubsub: pubsub,
	}

	// Booking notifications are optional
	var notifier booking.Notifier
	if cfg.RabbitMQ.URL != "" {
		a.publisher = queue.NewPublisher(cfg.RabbitMQ.URL)
		notifier = a.publisher
		if cfg.RabbitMQ.ConsumerEnabled {
			a.consumer = queue.NewConsumer(cfg.RabbitMQ.URL, logger, nil)
		}
	}

	// Initialize services
	a.services = service.NewServices(store, cache, pubsub, limiter, notifier, logger, service.Config{
		Availability: availabilityConfig(cfg.Availability),
		Website:      website.Config{DataTTL: cfg.Cache.WebsiteDataTTL},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(a.services, logger, httpgin.Options{
		Idempotency: idempotencyStore,
		CORSOrigins: cfg.Server.CORSOrigins,
		Ready:       a.ready(store),
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func availabilityConfig(cfg config.AvailabilityConfig) availability.Config {
	var picker slots.Picker
	if cfg.PopularityEnabled {
		picker = slots.NewPicker(cfg.PopularitySeed)
	}

	return availability.Config{
		Location:     cfg.Location,
		Slots:        cfg.Slots,
		BatchPolicy:  cfg.Batch,
		SinglePolicy: cfg.Single,
		Picker:       picker,
	}
}

// ready pings postgres and redis concurrently.
func (a *App) ready(store *postgresrepo.Store) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error { return store.Ping(gCtx) })
		g.Go(func() error {
			if err := a.rdb.Ping(gCtx).Err(); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
			return nil
		})
		return g.Wait()
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	// Catalog writes on any instance re-warm the website cache here
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, entity string) {
			if err := a.services.Website.Refresh(ctx); err != nil {
				a.logger.Warn("refresh website data", "entity", entity, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("catalog subscriber: %w", err)
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			if err := a.consumer.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("booking consumer: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("close rabbitmq publisher", "error", err)
		}
	}
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("close redis", "error", err)
	}
	a.pool.Close()
}
