// Package main is the entry point for the fxconvert currency converter.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fxconvert/internal/cli"
	"fxconvert/internal/config"
	"fxconvert/internal/converter"
	"fxconvert/internal/provider"
	"fxconvert/internal/repository"
	"fxconvert/internal/service"
)

// errReported marks failures whose message was already shown to the user.
var errReported = errors.New("reported")

// App holds all run dependencies and manages their lifecycle.
type App struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	rdbCache *redis.Client
	console  *cli.Console
	prompt   *cli.Prompter
	rates    *service.RateService
}

// NewApp wires the rate pipeline and terminal front end.
func NewApp(cfg *config.Config, logger *zap.SugaredLogger, in io.Reader, out io.Writer) (*App, error) {
	app := &App{
		cfg:     cfg,
		logger:  logger,
		console: cli.NewConsole(out, cfg.UI),
		prompt:  cli.NewPrompter(in, out),
	}

	if err := app.initCache(); err != nil {
		_ = app.close()
		return nil, err
	}

	source, err := newSnapshotSource(cfg, app.rdbCache, logger)
	if err != nil {
		_ = app.close()
		return nil, err
	}
	prober := provider.NewConnectivityProber(cfg.Probe.URLs, cfg.ProbeTimeout(), logger)
	repo := repository.NewFileSnapshotRepository(cfg.Store.Path)
	app.rates = service.NewRateService(repo, source, prober, logger, cfg.Freshness.StaleAfterDays)

	return app, nil
}

func (app *App) initCache() error {
	if app.cfg.Cache.RedisAddr == "" {
		return nil
	}
	app.rdbCache = redis.NewClient(&redis.Options{Addr: app.cfg.Cache.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := app.rdbCache.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to Redis (cache, %s): %w", app.cfg.Cache.RedisAddr, err)
	}
	app.logger.Infow("Connected to Redis cache", "addr", app.cfg.Cache.RedisAddr)
	return nil
}

// close releases the Redis connection.
func (app *App) close() error {
	if app.rdbCache != nil {
		if err := app.rdbCache.Close(); err != nil {
			return fmt.Errorf("redis cache close: %w", err)
		}
	}
	return nil
}

func newSnapshotSource(cfg *config.Config, cache *redis.Client, logger *zap.SugaredLogger) (provider.SnapshotSource, error) {
	var sources []provider.SnapshotSource
	for _, url := range cfg.Providers.URLs {
		var src provider.SnapshotSource = provider.NewEndpointProvider(url, "", cfg.ProviderTimeout())
		if cache != nil {
			src = provider.NewCachedSnapshotSource(src, cache, cfg.CacheTTL(), logger)
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, errors.New("no exchange rate providers are configured: providers.urls is empty")
	}
	return provider.NewFallbackSource(logger, sources...), nil
}

// Run resolves the active rates and runs the interactive session. It returns
// the context error or io.EOF when the user cut the run short.
func (app *App) Run(ctx context.Context) error {
	defer func() {
		if err := app.close(); err != nil {
			app.logger.Warnw("Connection cleanup error", "error", err)
		}
	}()

	c := app.console
	c.ClearScreen()
	c.Println("Checking database..")
	c.Progress(ctx, "Updating data..")

	decision, err := app.rates.Resolve(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		c.Status(decision)
		c.Println()
		c.Error("Critical error: Failed to load exchange rate data.")
		c.Println("Check your internet connection or try again later.")
		return fmt.Errorf("%w: %w", errReported, err)
	}
	c.Status(decision)
	if !c.Pause(ctx) {
		return ctx.Err()
	}

	snap := decision.Active
	c.MissingCurrencies(converter.MissingCurrencies(snap, app.cfg.Conversion.RequiredCurrencies))

	currencies, err := service.SelectCurrencies(snap, converter.DefaultCatalog)
	if err != nil {
		c.Println()
		c.Error("Critical error: No available currencies for conversion.")
		c.Println("Check your data or update the application.")
		return fmt.Errorf("%w: %w", errReported, err)
	}

	c.Welcome()
	if !c.Pause(ctx) {
		return ctx.Err()
	}

	session := cli.NewSession(c, app.prompt, snap, currencies, app.cfg.Conversion.MaxAmount, app.logger)
	return session.Run(ctx)
}
