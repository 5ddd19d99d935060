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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"loan-advisor/internal/advice"
	"loan-advisor/internal/api"
	"loan-advisor/internal/common/camunda"
	"loan-advisor/internal/common/config"
	"loan-advisor/internal/common/database"
	apphttp "loan-advisor/internal/common/http"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/observability"
	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/intake"
	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
	"loan-advisor/internal/repository"
	"loan-advisor/pkg/registry"

	// Conversation workers
	la "loan-advisor/internal/workers/conversation/loan-advice"
	pit "loan-advisor/internal/workers/conversation/process-intake-turn"

	// Communication workers
	sls "loan-advisor/internal/workers/communication/send-loan-summary"

	// Lending workers
	clt "loan-advisor/internal/workers/lending/classify-loan-type"
	rl "loan-advisor/internal/workers/lending/recommend-loans"
	se "loan-advisor/internal/workers/lending/score-eligibility"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting loan advisor",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Redis (session store) ---
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

	// --- PostgreSQL (optional lender catalog) ---
	lenders := loan.DefaultLenderCatalog()
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
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

		catalog, err := repository.NewLenderRepository(pg.DB, log).LoadCatalog(ctx)
		if err != nil {
			// the built-in table still answers every loan type
			zapLog.Warn("lender catalog unavailable, using built-in lenders", zap.Error(err))
		} else {
			lenders = lenders.Merge(catalog)
		}
	}

	// --- Domain services ---
	validator, err := validation.NewValidator()
	if err != nil {
		zapLog.Fatal("schema compilation failed", zap.Error(err))
	}

	machine := intake.NewMachine(intake.Options{
		Flow:                models.Flow(cfg.Intake.Flow),
		MatchMode:           intake.MatchMode(cfg.Intake.MatchMode),
		AffirmativeKeywords: cfg.Intake.AffirmativeKeywords,
		Lenders:             lenders,
	})
	store := intake.NewRedisStore(redis.Client, cfg.Intake.KeyPrefix, time.Duration(cfg.Intake.SessionTTL)*time.Second)
	intakeService := intake.NewService(machine, store, log)

	advisorOpts := advice.Options{Observability: obs}
	if cfg.APIs.GenAI.Enabled {
		advisorOpts.Provider = advice.NewGenAIProvider(advice.GenAIConfig{
			BaseURL:    cfg.APIs.GenAI.BaseURL,
			APIKey:     cfg.APIs.GenAI.APIKey,
			Model:      cfg.APIs.GenAI.Model,
			Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
			MaxRetries: cfg.APIs.GenAI.MaxRetries,
			MaxTokens:  cfg.APIs.GenAI.MaxTokens,
		}, log)
	} else {
		zapLog.Info("GenAI provider disabled, advice comes from the fallback table")
	}
	advisor := advice.NewAdvisor(advisorOpts, log)

	// --- Zeebe workers (optional) ---
	var workers []worker.JobWorker
	if cfg.Camunda.Enabled {
		zeebe, err := camunda.NewClient(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		zapLog.Info("Zeebe client connected successfully")

		reg, err := registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Warn("activity registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
		} else if err := reg.Validate(); err != nil {
			zapLog.Fatal("activity registry invalid", zap.Error(err))
		}

		start := func(taskType string, newHandler func(timeout time.Duration) func(worker.JobClient, entities.Job)) {
			if !config.IsWorkerEnabled(cfg, taskType) {
				zapLog.Info("worker disabled", zap.String("taskType", taskType))
				return
			}
			if reg != nil {
				if _, ok := reg.Find(taskType); !ok {
					zapLog.Warn("task type missing from activity registry", zap.String("taskType", taskType))
				}
			}
			wcfg := config.GetWorkerConfig(cfg, taskType)
			timeout := config.GetDuration(wcfg.Timeout)
			w := camunda.StartWorker(zeebe.Zeebe(), taskType, camunda.WorkerOptions{
				MaxJobsActive: wcfg.MaxJobsActive,
				Timeout:       timeout,
			}, worker.JobHandler(newHandler(timeout)), log)
			workers = append(workers, w)
		}

		start(se.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			c := se.DefaultConfig()
			c.Timeout = timeout
			return se.NewHandler(c, log).Handle
		})
		start(rl.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			return rl.NewHandler(&rl.Config{Timeout: timeout}, lenders, log).Handle
		})
		start(clt.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			return clt.NewHandler(&clt.Config{Timeout: timeout}, nil, lenders, log).Handle
		})
		start(pit.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			return pit.NewHandler(&pit.Config{Timeout: timeout}, intakeService, log).Handle
		})
		start(la.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			return la.NewHandler(&la.Config{Timeout: timeout}, advisor, log).Handle
		})

		awsCfg := cfg.APIs.AWS
		var sesClient sls.SESService
		var snsClient sls.SNSService
		if awsCfg.EmailEnabled || awsCfg.SMSEnabled {
			sesc, snsc, err := sls.NewAWSClients(ctx, awsCfg.Region)
			if err != nil {
				// summaries are reported as disabled rather than blocking startup
				zapLog.Warn("AWS clients unavailable, loan summaries disabled", zap.Error(err))
			} else {
				sesClient, snsClient = sesc, snsc
			}
		}
		start(sls.TaskType, func(timeout time.Duration) func(worker.JobClient, entities.Job) {
			return sls.NewHandler(&sls.Config{
				EmailEnabled: awsCfg.EmailEnabled,
				SMSEnabled:   awsCfg.SMSEnabled,
				FromEmail:    awsCfg.FromEmail,
				Timeout:      timeout,
			}, sesClient, snsClient, log).Handle
		})

		zapLog.Info("Zeebe workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API ---
	limiter := apphttp.NewRateLimiter(cfg.Server.RateLimitCapacity, config.GetDuration(cfg.Server.RateLimitWindow))
	defer limiter.Stop()

	server := api.NewServer(api.Deps{
		Intake:    intakeService,
		Advisor:   advisor,
		Validator: validator,
		Lenders:   lenders,
		Ready: func(ctx context.Context) error {
			if err := redis.Ping(ctx); err != nil {
				return err
			}
			if pg != nil {
				return pg.Ping(ctx)
			}
			return nil
		},
		Logger: log,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(limiter),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	zapLog.Info("Shutdown complete")
}
