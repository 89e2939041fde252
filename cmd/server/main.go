// Command server wires stores, services, and HTTP routes, then runs the
// server until interrupted. Business logic lives in the internal packages;
// main only chooses implementations from configuration.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"covera/internal/application"
	apphandler "covera/internal/application/handler"
	appservice "covera/internal/application/service"
	"covera/internal/document"
	"covera/internal/plan"
	planhandler "covera/internal/plan/handler"
	"covera/internal/platform/config"
	"covera/internal/platform/httpserver"
	"covera/internal/platform/logger"
	"covera/internal/platform/metrics"
	"covera/internal/platform/middleware"
	"covera/internal/platform/postgres"
	platformredis "covera/internal/platform/redis"
	"covera/internal/ratelimit"
	ratinghandler "covera/internal/rating/handler"
	"covera/internal/underwriting"
	"covera/pkg/platform/audit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	stores, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client, cfg.RateLimit.SubmitMaxAttempts, cfg.RateLimit.SubmitWindow)
	} else {
		limiter = ratelimit.NewInMemoryLimiter(cfg.RateLimit.SubmitMaxAttempts, cfg.RateLimit.SubmitWindow)
	}

	// Audit events fan out to the persistent store (via the channel worker)
	// and, when configured, to Kafka for downstream consumers.
	channelPublisher := audit.NewChannelPublisher(256, log)
	worker := audit.NewWorker(stores.audit, channelPublisher.Inbox(), log)
	publisher := audit.FanOut{channelPublisher}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close(context.Background())
		publisher = append(publisher, kafkaPublisher)
	}

	m := metrics.New()
	scorer := underwriting.NewScorer(cfg.Underwriting.AutoApprovalCeiling)
	svc, err := appservice.New(stores.apps, stores.plans, stores.docs, stores.decisions, scorer,
		appservice.WithLogger(log),
		appservice.WithAuditPublisher(publisher),
		appservice.WithSubmitLimiter(limiter),
		appservice.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	jwtValidator := middleware.NewHMACValidator(cfg.Server.JWTSigningKey)

	router := chi.NewRouter()
	apphandler.New(svc, log, m, jwtValidator).Register(router)
	ratinghandler.New(stores.plans, log, m, jwtValidator).Register(router)
	planhandler.New(stores.plans, log, m, jwtValidator).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := worker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

type storeSet struct {
	apps      application.Store
	plans     plan.Store
	docs      document.Store
	decisions underwriting.Store
	audit     audit.Store
}

// buildStores picks Postgres-backed stores when a database URL is
// configured, in-memory stores (with a seeded catalogue) otherwise.
func buildStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*storeSet, func(), error) {
	if cfg.Postgres.URL == "" {
		log.Info("no database configured, using in-memory stores")
		planStore := plan.NewInMemoryStore()
		plan.Seed(planStore)
		return &storeSet{
			apps:      application.NewInMemoryStore(),
			plans:     planStore,
			docs:      document.NewInMemoryStore(),
			decisions: underwriting.NewInMemoryStore(),
			audit:     audit.NewInMemoryStore(),
		}, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	auditDB, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	cleanup := func() {
		_ = auditDB.Close()
		pool.Close()
	}
	return &storeSet{
		apps:      application.NewPostgresStore(pool),
		plans:     plan.NewPostgresStore(pool),
		docs:      document.NewPostgresStore(pool),
		decisions: underwriting.NewPostgresStore(pool),
		audit:     audit.NewPostgresStore(auditDB),
	}, cleanup, nil
}
