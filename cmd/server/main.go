package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/AngelCh415/weekly-pulse/internal/config"
	"github.com/AngelCh415/weekly-pulse/internal/httpx"
	"github.com/AngelCh415/weekly-pulse/internal/ingest"
	"github.com/AngelCh415/weekly-pulse/internal/metrics"
	"github.com/AngelCh415/weekly-pulse/internal/pipeline"
	"github.com/AngelCh415/weekly-pulse/internal/store"
	"github.com/AngelCh415/weekly-pulse/internal/summary"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	loader := ingest.NewLoader(cl, logger, cfg)
	gen := summary.NewGenerator(cl, logger, cfg)
	st := store.NewMemoryStore()
	p := pipeline.New(loader, gen, st, logger, cfg)
	mSvc := metrics.NewService(st)

	if cfg.RunOnStart {
		go func() {
			if _, err := p.Run(context.Background()); err != nil {
				logger.Error("startup pipeline run failed", slog.String("err", err.Error()))
			}
		}()
	}

	if cfg.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Schedule, func() {
			if _, err := p.Run(context.Background()); err != nil {
				logger.Error("scheduled pipeline run failed", slog.String("err", err.Error()))
			}
		}); err != nil {
			logger.Error("invalid cron schedule", slog.String("schedule", cfg.Schedule), slog.String("err", err.Error()))
			os.Exit(1)
		}
		c.Start()
		logger.Info("scheduled pipeline runs", slog.String("schedule", cfg.Schedule))
	}

	r := httpx.NewRouter(logger, p, mSvc)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
