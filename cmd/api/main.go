// Package main is the entry point for the API server.
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

	"github.com/gia-fashion/stylist-platform/internal/config"
	"github.com/gia-fashion/stylist-platform/internal/handler"
	"github.com/gia-fashion/stylist-platform/internal/llm"
	natsclient "github.com/gia-fashion/stylist-platform/internal/nats"
	"github.com/gia-fashion/stylist-platform/internal/postgres"
	"github.com/gia-fashion/stylist-platform/internal/service"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting API server", zap.String("llm_provider", cfg.LLMProvider), zap.String("model", cfg.Model))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "stylist-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	checkers := map[string]handler.Checker{}

	// Storage: Postgres when configured, otherwise process memory.
	var repo store.Repository
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, postgres.Migrations(), log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		pg := postgres.NewRepository(pool)
		defer pg.Close()
		repo = pg
		checkers["postgres"] = pg.Ping
	} else {
		log.Warn("DATABASE_URL not set, sessions are kept in memory")
		repo = store.NewMemory()
	}

	var (
		turns  store.TurnStore      = repo
		events store.EventPublisher = repo
	)

	// The JetStream turn log replaces the repository for turns and events.
	if cfg.NATSURL != "" {
		natsClient, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			return fmt.Errorf("ensure stream: %w", err)
		}
		go streamManager.WatchStats(ctx, 30*time.Second)

		turns, events = streamManager, streamManager
		checkers["nats"] = natsClient.Ping
	}

	provider, err := llm.NewClient(llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   cfg.LLMAPIKey(),
		BaseURL:  cfg.OpenAIBaseURL,
		Model:    cfg.Model,
		Referer:  cfg.AppURL,
		Title:    cfg.AppTitle,
	})
	if err != nil {
		return fmt.Errorf("create completion client: %w", err)
	}
	llmClient := llm.WithResilience(provider, llm.Options{
		Timeout:   cfg.CompletionTimeout,
		Retries:   cfg.CompletionRetries,
		RetryWait: cfg.CompletionRetryWait,
	}, log)

	// Services
	sessionSvc := service.NewSessionService(repo, turns, log)
	guard := service.NewInFlightGuard(repo, cfg.InFlightTTL, log)
	analysisSvc := service.NewAnalysisService(service.AnalysisDeps{
		Sessions:  sessionSvc,
		Wardrobe:  repo,
		Outfits:   repo,
		Events:    events,
		LLM:       llmClient,
		Guard:     guard,
		Model:     cfg.Model,
		AmazonTag: cfg.AmazonTag,
		Logger:    log,
	})
	chatSvc := service.NewChatService(service.ChatDeps{
		Sessions:  sessionSvc,
		Turns:     turns,
		Events:    events,
		LLM:       llmClient,
		Guard:     guard,
		Model:     cfg.Model,
		AmazonTag: cfg.AmazonTag,
		Logger:    log,
	})
	wardrobeSvc := service.NewWardrobeService(repo, llmClient, cfg.Model, log)
	diagnosisSvc := service.NewDiagnosisService(repo, llmClient, cfg.Model, log)

	router := handler.NewRouter(handler.Handlers{
		Health:    handler.NewHealthHandler(checkers),
		Sessions:  handler.NewSessionHandler(sessionSvc, log),
		Messages:  handler.NewMessageHandler(chatSvc, cfg.MaxImageBytes, log),
		Stream:    handler.NewStreamHandler(sessionSvc, log),
		Analyze:   handler.NewAnalyzeHandler(analysisSvc, cfg.MaxImageBytes, log),
		Wardrobe:  handler.NewWardrobeHandler(wardrobeSvc, cfg.MaxImageBytes, log),
		Diagnosis: handler.NewDiagnosisHandler(diagnosisSvc, cfg.MaxImageBytes, log),
	}, handler.RouterConfig{
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
