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

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"opus/internal/audit"
	"opus/internal/content"
	gatehandler "opus/internal/gate/handler"
	gatemetrics "opus/internal/gate/metrics"
	gateservice "opus/internal/gate/service"
	"opus/internal/gate/store/throttle"
	jwttoken "opus/internal/jwt_token"
	"opus/internal/platform/config"
	"opus/internal/platform/httpserver"
	"opus/internal/platform/logger"
	platformmetrics "opus/internal/platform/metrics"
	"opus/internal/platform/middleware"
	platformredis "opus/internal/platform/redis"
	registryhandler "opus/internal/registry/handler"
	registrymetrics "opus/internal/registry/metrics"
	registryservice "opus/internal/registry/service"
	"opus/internal/registry/store/paper"
	"opus/internal/registry/store/titlecache"
	"opus/internal/scoring"
	"opus/internal/submission"
	submissionmetrics "opus/internal/submission/metrics"
	httptransport "opus/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires stores, services, and the HTTP surface. Business logic lives in
// the internal service packages; everything here is assembly and lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Durable stores when Postgres is configured, in-memory otherwise.
	var (
		papers    registryservice.PaperStore
		throttles gateservice.ThrottleStore
		auditSink audit.Store
	)
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		papers = paper.NewPostgres(db)
		throttles = throttle.NewPostgres(db)
		auditSink = audit.NewPostgresStore(db)
	} else {
		log.Warn("POSTGRES_URL not set, using in-memory stores")
		papers = paper.NewInMemory()
		throttles = throttle.NewInMemory()
		auditSink = audit.NewInMemoryStore()
	}

	// Audit events always land in the store; Kafka is an additional stream
	// when brokers are configured.
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = audit.Tee{Primary: auditSink, Secondary: kafkaSink}
	}
	publisher := audit.NewPublisher(auditSink, audit.WithLogger(log))
	defer publisher.Close()

	metrics := platformmetrics.New()

	registryOpts := []registryservice.Option{
		registryservice.WithLogger(log),
		registryservice.WithAuditPublisher(publisher),
		registryservice.WithMetrics(registrymetrics.New()),
	}
	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cache := titlecache.New(redisClient.Client, cfg.TitleCacheTTL, titlecache.WithLogger(log))
		registryOpts = append(registryOpts, registryservice.WithTitleCache(cache))
	}
	registrySvc := registryservice.New(papers, registryOpts...)

	gateSvc := gateservice.New(throttles,
		gateservice.WithLogger(log),
		gateservice.WithAuditPublisher(publisher),
		gateservice.WithMetrics(gatemetrics.New()),
	)

	// The external oracle when configured; the in-process reference scorer
	// otherwise, backed by the same content store the facade writes to.
	contents := content.NewInMemoryStore()
	var contentStore submission.ContentStore = contents
	if cfg.ContentStoreURL != "" {
		contentStore = content.NewHTTPClient(cfg.ContentStoreURL)
	}
	var scorer submission.Scorer
	if cfg.ScoringURL != "" {
		scorer = scoring.NewHTTPClient(cfg.ScoringURL, scoring.WithTimeout(cfg.ScoringTimeout))
	} else {
		log.Warn("SCORING_URL not set, using in-process scorer")
		scorer = scoring.NewLocalScorer(contents)
	}

	submissionSvc, err := submission.New(registrySvc, gateSvc, scorer,
		submission.WithLogger(log),
		submission.WithAuditPublisher(publisher),
		submission.WithMetrics(submissionmetrics.New()),
		submission.WithContentStore(contentStore),
		submission.WithPolicy(submission.Policy{
			GateVersions:                  cfg.GateVersionUpdates,
			AllowUncheckedOnScoringOutage: cfg.AllowUncheckedOnScoringOutage,
		}),
	)
	if err != nil {
		log.Error("submission service init failed", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "opus", "opus-api")
	requireAuth := middleware.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: metrics,
		Handlers: []httptransport.Registrar{
			registryhandler.New(registrySvc, log, registryhandler.WithAuth(requireAuth)),
			gatehandler.New(gateSvc, log),
			submission.NewHandler(submissionSvc, log, submission.WithAuth(requireAuth)),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
