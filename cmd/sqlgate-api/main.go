package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/sqlgate/sqlgate/internal/analyzer"
	"github.com/sqlgate/sqlgate/internal/api"
	"github.com/sqlgate/sqlgate/internal/auth"
	"github.com/sqlgate/sqlgate/internal/config"
	"github.com/sqlgate/sqlgate/internal/history"
	historypostgres "github.com/sqlgate/sqlgate/internal/history/postgres"
	"github.com/sqlgate/sqlgate/internal/nl2sql"
	"github.com/sqlgate/sqlgate/internal/observability"
	"github.com/sqlgate/sqlgate/internal/schema"
	"github.com/sqlgate/sqlgate/internal/verifier"
)

func main() {
	cfg, err := config.LoadFromEnv("sqlgate-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	deps := api.Dependencies{
		Logger:            logger,
		Analyzer:          analyzer.New(logger),
		FeedbackLog:       history.NewFeedbackLog(cfg.Analyzer.FeedbackCapacity),
		DefaultRowLimit:   cfg.Analyzer.DefaultRowLimit,
		DependencyTimeout: time.Second,
	}

	var readiness []api.ReadinessCheck
	readiness = append(readiness, api.CheckAnalyzer(deps.Analyzer))

	if cfg.History.Enabled {
		historyDB, err := historypostgres.Open(context.Background(), historypostgres.DBConfig{
			DSN:             cfg.History.DSN,
			MaxOpenConns:    cfg.History.MaxOpenConns,
			MaxIdleConns:    cfg.History.MaxIdleConns,
			ConnMaxIdleTime: cfg.History.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.History.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open history db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = historyDB.Close() }()

		store := historypostgres.NewStore(historyDB)
		deps.HistoryStore = store
		readiness = append(readiness, api.CheckHistoryStore(store))
	}

	if cfg.Target.Enabled {
		targetDB, err := verifier.Open(context.Background(), verifier.DBConfig{
			Driver:         cfg.Target.Driver,
			DSN:            cfg.Target.DSN,
			ConnectTimeout: cfg.Target.ConnectTimeout,
			MaxOpenConns:   cfg.Target.MaxOpenConns,
		})
		if err != nil {
			logger.Error("failed to open verification target db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = targetDB.Close() }()

		deps.Executor = verifier.NewRunner(targetDB, verifier.Config{
			QueryTimeout: cfg.Target.QueryTimeout,
			MaxRows:      cfg.Target.MaxRows,
		})
	}

	if cfg.Schema.Dir != "" {
		provider, err := schema.NewDirProvider(cfg.Schema.Dir)
		if err != nil {
			logger.Error("failed to initialize schema provider", slog.Any("error", err))
			os.Exit(1)
		}
		deps.SchemaProvider = provider
	}

	if cfg.AI.TranslateEnabled {
		translator, err := nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize query translator", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Translator = translator
	}

	deps.Readiness = api.CombineReadinessChecks(readiness...)

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
