// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pitch-workers/internal/api"
	"pitch-workers/internal/common/aws"
	"pitch-workers/internal/common/camunda"
	"pitch-workers/internal/common/config"
	"pitch-workers/internal/common/database"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/common/observability"
	"pitch-workers/internal/pitch"

	// Pitch workers
	bo "pitch-workers/internal/workers/pitch/build-offer"
	cpr "pitch-workers/internal/workers/pitch/create-pitch-record"
	sp "pitch-workers/internal/workers/pitch/score-pitch"
	spn "pitch-workers/internal/workers/pitch/send-pitch-notification"
	vpd "pitch-workers/internal/workers/pitch/validate-pitch-data"

	// Data access, CRM and marketing workers
	clu "pitch-workers/internal/workers/crm/crm-lead-upsert"
	rpl "pitch-workers/internal/workers/crm/relay-pitch-lead"
	ips "pitch-workers/internal/workers/data-access/index-pitch-submission"
	tpc "pitch-workers/internal/workers/marketing/track-pitch-conversion"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.App.Version,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	if path := cfg.Camunda.BPMNPath; path != "" {
		if _, statErr := os.Stat(path); statErr != nil {
			zapLog.Warn("BPMN file not found, skipping deployment", zap.String("path", path))
		} else if deployed, err := zeebe.DeployResources(ctx, path); err != nil {
			zapLog.Error("BPMN deployment failed", zap.String("path", path), zap.Error(err))
		} else {
			for _, d := range deployed {
				zapLog.Info("process deployed",
					zap.String("bpmnProcessId", d.BpmnProcessID),
					zap.Int32("version", d.Version),
					zap.Int64("processDefinitionKey", d.ProcessDefinitionKey))
			}
		}
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			return err
		}
		return pg.EnsureSchema(ctx)
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
		if err := esClient.Ping(); err != nil {
			return err
		}
		return esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index)
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

	// --- Init notification transports ---
	var emailSender spn.EmailSender
	if cfg.Integrations.AWS.SES.Enabled {
		from := cfg.Notifications.Email.FromEmail
		if from == "" {
			from = cfg.Integrations.AWS.SES.FromEmail
		}
		ses, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region, from)
		if err != nil {
			zapLog.Error("SES client init failed, email disabled", zap.Error(err))
		} else {
			emailSender = ses
		}
	}
	var smsSender spn.SMSSender
	if cfg.Integrations.AWS.SNS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.DefaultSMSSenderID)
		if err != nil {
			zapLog.Error("SNS client init failed, sms disabled", zap.Error(err))
		} else {
			smsSender = sns
		}
	}

	// --- Register Workers ---
	pool := camunda.NewWorkerPool(zeebe.GetClient(), log)
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		pool.Register(taskType, handler, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		})
	}

	register(vpd.TaskType, vpd.NewHandler(vpd.LoadConfig(config.GetWorkerConfig(cfg, vpd.TaskType)), log))
	register(sp.TaskType, sp.NewHandler(sp.LoadConfig(cfg), redis.GetClient(), log))
	register(bo.TaskType, bo.NewHandler(bo.LoadConfig(cfg), log))
	register(cpr.TaskType, cpr.NewHandler(cpr.LoadConfig(cfg), pg.GetDB(), log))
	register(ips.TaskType, ips.NewHandler(ips.LoadConfig(cfg), esClient.Client, log))
	register(spn.TaskType, spn.NewHandler(spn.LoadConfig(cfg), emailSender, smsSender, log))
	register(tpc.TaskType, tpc.NewHandler(tpc.LoadConfig(cfg), log))

	if handler, err := rpl.NewHandler(rpl.LoadConfig(cfg), log); err != nil {
		zapLog.Error("relay worker not registered", zap.Error(err))
	} else {
		register(rpl.TaskType, handler)
	}

	// The process always routes through crm-lead-upsert, so the worker is
	// registered even when disabled; a disabled handler completes with a
	// skip reason.
	crmCfg := clu.LoadConfig(cfg)
	if handler, err := clu.NewHandler(clu.HandlerOptions{Config: crmCfg, Logger: log}); err != nil {
		zapLog.Error("crm lead worker not registered", zap.Error(err))
	} else {
		pool.Register(clu.TaskType, handler, camunda.WorkerOptions{
			MaxJobsActive: crmCfg.MaxJobsActive,
			Timeout:       crmCfg.Timeout,
		})
	}

	zapLog.Info("Workers registered", zap.Strings("taskTypes", pool.TaskTypes()))

	// --- Intake, Health & Metrics Server ---
	server := api.NewServer(api.Options{
		Engine:         pitch.NewEngine(cfg.Pitch.Links()),
		Starter:        zeebe,
		ProcessID:      cfg.Camunda.ProcessID,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checks: map[string]api.CheckFunc{
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"zeebe":         zeebe.HealthCheck,
			"elasticsearch": func(context.Context) error { return esClient.Ping() },
		},
		Logger: log,
	})
	httpServer := server.NewHTTPServer(
		fmt.Sprintf(":%d", cfg.Server.Port),
		config.GetDuration(cfg.Server.ReadTimeout),
		config.GetDuration(cfg.Server.WriteTimeout),
	)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	pool.Close()
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
