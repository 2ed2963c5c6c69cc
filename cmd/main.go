package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/alchemist/internal/auth"
	"github.com/desertthunder/alchemist/internal/library"
	"github.com/desertthunder/alchemist/internal/player"
	"github.com/desertthunder/alchemist/internal/repositories"
	"github.com/desertthunder/alchemist/internal/services"
	"github.com/desertthunder/alchemist/internal/session"
	"github.com/desertthunder/alchemist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	sessions, err := session.Open(repositories.NewSessionRepository(db))
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}

	httpClient := &http.Client{Timeout: time.Duration(config.API.TimeoutSec) * time.Second}

	api := services.NewAPIService(config.API.BaseURL, httpClient)
	api.UseTokens(sessions.TokenSource())
	api.Throttle(config.API.RateLimit)
	client := services.NewClient(api)

	cache := library.NewCache(client, repositories.NewEntryRepository(db), logger)

	transport := player.NewStreamTransport(httpClient, config.Player.ProbeBytes)
	controller := player.New(transport, logger)
	controller.SetTimeout(time.Duration(config.Player.ProbeTimeoutSec) * time.Second)

	flow := auth.NewFlow(client, sessions, cache, controller, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		API:        api,
		Flow:       flow,
		Cache:      cache,
		Controller: controller,
		Sessions:   sessions,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "alchemist",
		Usage:    "Terminal client for a personal music library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
