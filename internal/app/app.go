// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/law-makers/storescrape/internal/config"
	"github.com/law-makers/storescrape/internal/downloader"
	"github.com/law-makers/storescrape/internal/engine/static"
	"github.com/law-makers/storescrape/internal/output"
	"github.com/law-makers/storescrape/internal/pipeline"
	"github.com/law-makers/storescrape/internal/proxy"
	"github.com/law-makers/storescrape/internal/ratelimit"
	"github.com/law-makers/storescrape/internal/retry"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command run from an explicit Config. Use Close() to
// release idle connections on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter *ratelimit.HostLimiter
	Proxies     *proxy.Pool
	HTTPClient  *http.Client
	Fetcher     *static.Fetcher
	Downloader  *downloader.Downloader
	ImagePool   *downloader.WorkerPool
	Writer      *output.Writer
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global zerolog logger
//   - Parses the proxy list
//   - Creates the per-host rate limiter
//   - Initializes the HTTP client with proper timeouts
//   - Creates the page fetcher, image downloader and filesystem writer
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	proxies, err := proxy.Parse(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy: %w", err)
	}
	if proxies != nil {
		logger.Debug().Int("proxies", proxies.Len()).Msg("Proxy pool initialized")
	}

	rateLimiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: proxies.Transport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}),
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	retryCfg := retry.DefaultConfig().WithAttempts(cfg.Retries + 1)
	fetcher := static.New(httpClient, rateLimiter, retryCfg, cfg.UserAgent, cfg.Headers)

	dl := downloader.NewDownloader(httpClient, cfg.UserAgent, rateLimiter)
	imagePool := downloader.NewWorkerPool(dl, cfg.ImageWorkers)
	writer := output.NewWriter(cfg.OutputDir, imagePool, cfg.Markdown)

	logger.Debug().
		Str("output", cfg.OutputDir).
		Int("image_workers", imagePool.Concurrency()).
		Int("attempts", retryCfg.MaxAttempts).
		Msg("Pipeline components initialized")

	return &Application{
		Config:      cfg,
		Logger:      logger,
		RateLimiter: rateLimiter,
		Proxies:     proxies,
		HTTPClient:  httpClient,
		Fetcher:     fetcher,
		Downloader:  dl,
		ImagePool:   imagePool,
		Writer:      writer,
		startTime:   time.Now(),
	}, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it.
// Console output is used unless JSON logging is enabled.
func SetupLogging(cfg *config.Config, w io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}

	logger := log.Logger
	logger.Debug().
		Str("level", level.String()).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return &logger
}

// Catalog returns a catalog driver wired to the application's components
func (a *Application) Catalog(onListing func(int), onProduct func(models.ProductResult)) *pipeline.Catalog {
	return pipeline.NewCatalog(a.Fetcher, a.Writer, pipeline.CatalogOptions{
		BaseURL:     a.Config.BaseURL,
		TargetsPath: a.Config.TargetsPath,
		Column:      a.Config.Column,
		Threshold:   a.Config.Threshold,
		Concurrency: a.Config.Concurrency,
		Strict:      a.Config.Strict,
		OnListing:   onListing,
		OnProduct:   onProduct,
	})
}

// Single returns a single product driver wired to the application's components
func (a *Application) Single() *pipeline.Single {
	return pipeline.NewSingle(a.Fetcher, a.Writer, pipeline.SingleOptions{
		BaseURL:   a.Config.BaseURL,
		NoArchive: a.Config.NoArchive,
	})
}

// Close gracefully shuts down the application and all its resources.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
