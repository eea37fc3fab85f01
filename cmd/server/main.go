package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	batchhandler "claimbank/internal/batch/handler"
	batchservice "claimbank/internal/batch/service"
	claimhandler "claimbank/internal/claim/handler"
	claimmetrics "claimbank/internal/claim/metrics"
	claimservice "claimbank/internal/claim/service"
	claimstore "claimbank/internal/claim/store"
	"claimbank/internal/events"
	eventsKafka "claimbank/internal/events/kafka"
	ledgermem "claimbank/internal/ledger/memory"
	"claimbank/internal/platform/config"
	"claimbank/internal/platform/httpserver"
	"claimbank/internal/platform/logger"
	platformredis "claimbank/internal/platform/redis"
	"claimbank/pkg/platform/middleware/auth"
	"claimbank/pkg/platform/middleware/requestmeta"
)

// main wires dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := claimmetrics.New(registry)

	var (
		claims   claimstore.Store
		txRunner claimservice.Tx
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg := claimstore.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
		claims = pg
		txRunner = newClaimPostgresTx(db)
		log.Info("claim store: postgres")
	} else {
		claims = claimstore.NewInMemory()
		log.Info("claim store: in-memory")
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		claims = claimstore.NewCached(claims, redisClient, cfg.CacheTTL)
		log.Info("claim cache enabled", "ttl", cfg.CacheTTL)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := eventsKafka.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		publisher = kafkaPub
		log.Info("event publisher: kafka", "topic", cfg.KafkaTopic)
	}

	fees, err := claimservice.NewFeePolicy(cfg.Registry.FeeCollector, cfg.Registry.FeeBasisPoints)
	if err != nil {
		log.Error("invalid fee policy", "error", err)
		os.Exit(1)
	}

	// Single-process value and ownership ledgers. Deployments that
	// settle against external ledgers swap these at the interface.
	tokens := ledgermem.NewTokenLedger()
	ownership := ledgermem.NewOwnershipRegistry()

	opts := []claimservice.Option{
		claimservice.WithLogger(log),
		claimservice.WithMetrics(metrics),
	}
	if publisher != nil {
		opts = append(opts, claimservice.WithPublisher(publisher))
	}
	if txRunner != nil {
		opts = append(opts, claimservice.WithTx(txRunner))
	}
	claimSvc := claimservice.New(claims, ownership, tokens, fees, cfg.Registry.Name, opts...)
	batchSvc := batchservice.New(claimSvc,
		batchservice.WithLogger(log),
		batchservice.WithLimit(cfg.Registry.BatchLimit),
	)

	validator := auth.NewHMACValidator(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(requestmeta.Middleware)

	claimhandler.New(claimSvc, validator, log).Register(router)
	batchhandler.New(batchSvc, validator, log).Register(router)

	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting claimbank", "addr", cfg.Addr, "registry", cfg.Registry.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
