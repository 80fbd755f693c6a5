package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"talentgate/internal/access"
	accessmetrics "talentgate/internal/access/metrics"
	"talentgate/internal/audit"
	bffhandler "talentgate/internal/bff/handler"
	"talentgate/internal/platform/config"
	"talentgate/internal/platform/httpserver"
	"talentgate/internal/platform/logger"
	platformredis "talentgate/internal/platform/redis"
	"talentgate/internal/proxy"
	"talentgate/internal/session"
	"talentgate/internal/session/store"
	"talentgate/internal/session/token"
	httptransport "talentgate/internal/transport/http"
	"talentgate/internal/upstream"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	upstreamURL, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		log.Error("invalid upstream URL", "url", cfg.UpstreamURL, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store: Redis when configured, in-memory otherwise.
	var sessionStore store.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = store.NewRedisStore(redisClient.Client, cfg.Session.TTL)
		log.Info("session store: redis")
	} else {
		sessionStore = store.NewInMemoryStore()
		log.Info("session store: in-memory")
	}

	tokens := token.NewService(cfg.Session.SigningKey, "talentgate")
	resolver := session.NewResolver(tokens, sessionStore, cfg.Session.FingerprintKey, log)

	// Audit pipeline: buffer locally, flush to whatever sinks are configured.
	trail := audit.NewTrail(cfg.Audit.BufferSize)
	sinks, closeSinks, err := buildSinks(ctx, cfg.Audit)
	if err != nil {
		log.Error("audit sink setup failed", "error", err)
		os.Exit(1)
	}
	defer closeSinks()

	worker := audit.NewWorker(trail, sinks, 5*time.Second, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	gate := access.NewMiddleware(resolver, accessmetrics.New(), trail, log)

	api := upstream.NewClient(upstreamURL)
	bff := bffhandler.New(api, sessionStore, trail, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Gate:  gate,
		BFF:   bff,
		Proxy: proxy.New(upstreamURL, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("talentgate listening", "addr", cfg.Addr, "upstream", cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// The worker does a final flush on cancellation; give it time to finish.
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn("audit worker did not finish draining")
	}
}

// buildSinks assembles the configured audit sinks. With nothing configured
// events land in a bounded in-memory sink, which is fine for development.
func buildSinks(ctx context.Context, cfg config.AuditConfig) ([]audit.Sink, func(), error) {
	var (
		sinks   []audit.Sink
		closers []func()
	)

	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, kafka)
		closers = append(closers, kafka.Close)
	}

	if cfg.PostgresDSN != "" {
		pg, err := audit.OpenPostgresSink(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, pg)
		closers = append(closers, func() { _ = pg.Close() })
	}

	if len(sinks) == 0 {
		sinks = append(sinks, audit.NewMemorySink())
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return sinks, closeAll, nil
}
