// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/pkg/registry"

	// Matching Workers (2)
	ms "scholarship-workers/internal/workers/matching/match-scholarships"
	smr "scholarship-workers/internal/workers/matching/send-match-report"

	// Scholarship Data Workers (3)
	ens "scholarship-workers/internal/workers/scholarship/enrich-scholarship"
	ss "scholarship-workers/internal/workers/scholarship/search-scholarships"
	vsd "scholarship-workers/internal/workers/scholarship/validate-scholarship-data"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Activity Registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", reg.Version),
		zap.Strings("taskTypes", reg.TaskTypes()),
	)
	for taskType := range cfg.Workers {
		if _, ok := reg.FindByTaskType(taskType); !ok {
			zapLog.Warn("worker configured but missing from activity registry",
				zap.String("taskType", taskType))
		}
	}

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.Raw()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker

	// Match Scholarships
	if taskType := ms.TaskType; cfg.Workers[taskType].Enabled {
		wcfg := ms.LoadConfig()
		wcfg.NonEligibleCap = cfg.Matching.NonEligibleCap
		wcfg.Concurrency = cfg.Matching.Concurrency
		wcfg.WithLexical = cfg.Matching.WithLexical
		wcfg.CacheTTL = time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second
		if t := cfg.Workers[taskType].Timeout; t > 0 {
			wcfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler := ms.NewHandler(wcfg, pg.GetDB(), redis.GetClient(), log)
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}

	// Search Scholarships
	if taskType := ss.TaskType; cfg.Workers[taskType].Enabled {
		wcfg := ss.LoadConfig()
		wcfg.Index = cfg.Database.Elasticsearch.Index
		if t := cfg.Workers[taskType].Timeout; t > 0 {
			wcfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler := ss.NewHandler(wcfg, esClient, redis.GetClient(), log)
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}

	// Enrich Scholarship
	if taskType := ens.TaskType; cfg.Workers[taskType].Enabled {
		handler := ens.NewHandler(ens.LoadConfig(), log)
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}

	// Validate Scholarship Data
	if taskType := vsd.TaskType; cfg.Workers[taskType].Enabled {
		handler, err := vsd.NewHandler(vsd.LoadConfig(), log)
		if err != nil {
			zapLog.Fatal("failed to create validate-scholarship-data handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}

	// Send Match Report
	if taskType := smr.TaskType; cfg.Workers[taskType].Enabled {
		wcfg := smr.LoadConfig()
		wcfg.EmailEnabled = cfg.Notifications.Email.Enabled
		wcfg.FromEmail = cfg.Notifications.Email.FromEmail
		wcfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		wcfg.SMSMaxMatches = cfg.Notifications.SMS.MaxMatches
		wcfg.AWSRegion = cfg.Notifications.AWS.Region
		handler, err := smr.NewHandler(wcfg, pg.GetDB(), log)
		if err != nil {
			zapLog.Fatal("failed to create send-match-report handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebeClient, taskType, cfg.Workers[taskType], handler, zapLog))
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		if w != nil {
			w.Stop(shutdownCtx)
		}
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) *camunda.CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	w := camunda.NewWorker(client, taskType, wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond, handler, log)
	w.Start()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return w
}
