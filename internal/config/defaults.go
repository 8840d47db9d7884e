package config

import (
	"time"

	"github.com/law-makers/storescrape/internal/match"
	"github.com/law-makers/storescrape/internal/targets"
)

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Mozilla/5.0"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultBaseURL        = "https://globalvt-cosmetics.com"
	DefaultOutputDir      = "vt_products"
	DefaultRetries        = 0
	DefaultRateLimitRPS   = 0.0 // unlimited
	DefaultRateLimitBurst = 1

	DefaultTargetsPath  = targets.DefaultFile
	DefaultColumn       = targets.DefaultColumn
	DefaultThreshold    = match.DefaultThreshold
	DefaultConcurrency  = 1
	DefaultImageWorkers = 1
	MaxImageWorkers     = 50

	DefaultAddr = ":7860"

	EnvPrefix = "STORESCRAPE"
)
