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

	"certivault/internal/audit"
	certservice "certivault/internal/certificate/service"
	certstore "certivault/internal/certificate/store"
	docstore "certivault/internal/document/store"
	"certivault/internal/issuertoken"
	"certivault/internal/platform/config"
	"certivault/internal/platform/httpserver"
	"certivault/internal/platform/logger"
	"certivault/internal/platform/metrics"
	platformredis "certivault/internal/platform/redis"
	shareservice "certivault/internal/sharetoken/service"
	sharestore "certivault/internal/sharetoken/store"
	httptransport "certivault/internal/transport/http"
	"certivault/internal/verification"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Record store: Postgres when configured, in-memory otherwise.
	var records certstore.RecordStore
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		records = certstore.NewPostgres(db)
	} else {
		log.Warn("no postgres configured, certificate records are not durable")
		records = certstore.NewInMemory()
	}

	// Documents live in an embedded content-addressed LevelDB store.
	documents, err := docstore.OpenLevelDB(cfg.DocumentPath)
	if err != nil {
		log.Error("open document store", "error", err)
		os.Exit(1)
	}
	defer documents.Close()

	// Audit sink: Kafka when configured, in-memory otherwise.
	var auditStore audit.Store
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditStore = sink
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	auditor := audit.NewPublisher(auditStore, log)

	// Token store: Redis when configured so expiry holds across replicas.
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	var tokens sharestore.TokenStore
	var janitor *shareservice.Janitor
	if redisClient != nil {
		defer redisClient.Close()
		tokens = sharestore.NewRedis(redisClient.Client)
	} else {
		memTokens := sharestore.NewInMemory()
		tokens = memTokens
		janitor = shareservice.NewJanitor(memTokens, log, cfg.JanitorInterval)
	}

	issuance := certservice.New(records, documents, auditor, log, m, cfg.StorageTimeout)
	engine := verification.NewEngine(records, documents, auditor, log, m, cfg.StorageTimeout)
	shares := shareservice.New(tokens, records, engine, auditor, log, m, cfg.ShareTokenMaxTTL, cfg.StorageTimeout)
	issuerAuth := issuertoken.NewJWTService(cfg.JWTSigningKey)

	handler := httptransport.NewHandler(issuance, engine, shares, log, cfg.ShareTokenDefaultTTL, cfg.ShareBaseURL)
	router := httptransport.NewRouter(handler, issuerAuth, m)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting certivault", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if janitor != nil {
		group.Go(func() error {
			if err := janitor.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
