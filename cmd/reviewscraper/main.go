// Package main wires together the review scraper service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chiragp/store-review-scraper/internal/api"
	"github.com/chiragp/store-review-scraper/internal/clock/system"
	"github.com/chiragp/store-review-scraper/internal/config"
	"github.com/chiragp/store-review-scraper/internal/export"
	"github.com/chiragp/store-review-scraper/internal/fetch/appstore"
	"github.com/chiragp/store-review-scraper/internal/fetch/googleplay"
	"github.com/chiragp/store-review-scraper/internal/id/uuid"
	"github.com/chiragp/store-review-scraper/internal/logging"
	"github.com/chiragp/store-review-scraper/internal/metrics"
	"github.com/chiragp/store-review-scraper/internal/review"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	clock := system.New()
	idGen := uuid.New()

	google := googleplay.New(googleplay.Config{
		Lang:      cfg.Scraper.Lang,
		Country:   cfg.Scraper.Country,
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.ClientTimeout(),
	})
	apple := appstore.New(appstore.Config{
		Country:   cfg.Scraper.Country,
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.ClientTimeout(),
	})
	scraper := review.NewService(google, apple, clock, logger.Named("scraper"))

	exports, err := export.New(cfg.Export.Dir, clock, idGen)
	if err != nil {
		logger.Fatal("export writer init failed", zap.Error(err))
	}
	logger.Info("export directory ready", zap.String("dir", exports.Dir()))

	apiServer := api.NewServer(scraper, exports, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
