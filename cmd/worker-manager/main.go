// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"visa-pathway-workers/internal/catalog"
	"visa-pathway-workers/internal/common/aws"
	"visa-pathway-workers/internal/common/camunda"
	"visa-pathway-workers/internal/common/config"
	"visa-pathway-workers/internal/common/database"
	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/common/observability"
	"visa-pathway-workers/internal/common/validation"
	"visa-pathway-workers/internal/engine"
	"visa-pathway-workers/internal/profile"
	"visa-pathway-workers/pkg/registry"

	sve "visa-pathway-workers/internal/workers/eligibility/score-visa-eligibility"
	evg "visa-pathway-workers/internal/workers/pathway/explore-visa-graph"
	rvp "visa-pathway-workers/internal/workers/pathway/recommend-visa-path"
	lup "visa-pathway-workers/internal/workers/profile/load-user-profile"
	sup "visa-pathway-workers/internal/workers/profile/save-user-profile"
	svc "visa-pathway-workers/internal/workers/catalog/search-visa-catalog"
	sps "visa-pathway-workers/internal/workers/communication/send-path-summary"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// deps holds the shared clients every handler is built from.
type deps struct {
	cfg       *config.Config
	engine    *engine.Engine
	store     profile.Store
	searcher  *catalog.Searcher
	mailer    *aws.SESClient
	publisher *aws.SNSClient
	validator *validation.Validator
	obs       *observability.Observability
	log       logger.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})
	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	obs := observability.New(cfg.Observability, nil, log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(ctx)
	}()

	ctx := context.Background()

	eng, err := engine.New(cfg.Engine, log)
	if err != nil {
		zapLog.Fatal("visa catalog load failed", zap.Error(err))
	}

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := reg.Validator()
	if err != nil {
		zapLog.Fatal("activity registry schemas invalid", zap.Error(err))
	}

	// --- Init Zeebe Client (retries internally) ---
	zeebe, err := camunda.NewClient(ctx, cfg.Camunda)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	pgStore := profile.NewPostgresStore(pg.DB)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("profile schema setup failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	store := profile.NewCachedStore(pgStore, rdb.Client,
		time.Duration(cfg.Engine.ProfileCacheTTL)*time.Second, log)

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}

	d := &deps{
		cfg:       cfg,
		engine:    eng,
		store:     store,
		searcher:  catalog.NewSearcher(es.Client, cfg.Database.Elasticsearch.CatalogIndex),
		validator: validator,
		obs:       obs,
		log:       log,
	}

	// --- Init AWS clients ---
	if cfg.Notifications.SES.Enabled {
		d.mailer, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SES.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}
	if cfg.Notifications.SNS.Enabled {
		d.publisher, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.SNS.ProfileTopicARN)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	pool := camunda.NewPool(zeebe.Zeebe(), cfg.App.Name, log)
	if err := registerWorkers(pool, d); err != nil {
		zapLog.Fatal("worker registration failed", zap.Error(err))
	}
	log.Info("workers registered", map[string]interface{}{"taskTypes": pool.TaskTypes()})

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           newServeMux(map[string]database.Pinger{"postgres": pg, "redis": rdb, "elasticsearch": es, "zeebe": zeebe}, time.Now),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

func registerWorkers(pool *camunda.Pool, d *deps) error {
	wc := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(d.cfg, taskType) }

	score, err := sve.NewHandler(sve.HandlerOptions{
		Config: sve.FromWorkerConfig(wc(sve.TaskType)), Engine: d.engine, Store: d.store,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", sve.TaskType, err)
	}
	pool.Register(sve.TaskType, score, wc(sve.TaskType))

	explore, err := evg.NewHandler(evg.HandlerOptions{
		Config: evg.FromWorkerConfig(wc(evg.TaskType)), Engine: d.engine, Store: d.store,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", evg.TaskType, err)
	}
	pool.Register(evg.TaskType, explore, wc(evg.TaskType))

	recommend, err := rvp.NewHandler(rvp.HandlerOptions{
		Config: rvp.FromWorkerConfig(wc(rvp.TaskType)), Engine: d.engine, Store: d.store,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", rvp.TaskType, err)
	}
	pool.Register(rvp.TaskType, recommend, wc(rvp.TaskType))

	load, err := lup.NewHandler(lup.HandlerOptions{
		Config: lup.FromWorkerConfig(wc(lup.TaskType)), Store: d.store,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", lup.TaskType, err)
	}
	pool.Register(lup.TaskType, load, wc(lup.TaskType))

	saveOpts := sup.HandlerOptions{
		Config: sup.FromWorkerConfig(wc(sup.TaskType)), Store: d.store,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	}
	if d.publisher != nil {
		saveOpts.Publisher = d.publisher
	}
	save, err := sup.NewHandler(saveOpts)
	if err != nil {
		return fmt.Errorf("%s: %w", sup.TaskType, err)
	}
	pool.Register(sup.TaskType, save, wc(sup.TaskType))

	search, err := svc.NewHandler(svc.HandlerOptions{
		Config: svc.FromWorkerConfig(wc(svc.TaskType)), Searcher: d.searcher,
		Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", svc.TaskType, err)
	}
	pool.Register(svc.TaskType, search, wc(svc.TaskType))

	// Without SES there is nothing to send with.
	if d.mailer == nil {
		d.log.Warn("ses disabled, send-path-summary not registered", nil)
		return nil
	}
	send, err := sps.NewHandler(sps.HandlerOptions{
		Config: sps.FromWorkerConfig(wc(sps.TaskType)), Engine: d.engine, Store: d.store,
		Mailer: d.mailer, Validator: d.validator, Observability: d.obs, Logger: d.log,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", sps.TaskType, err)
	}
	pool.Register(sps.TaskType, send, wc(sps.TaskType))
	return nil
}
