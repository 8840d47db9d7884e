package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string
	Headers     map[string]string
	BaseURL     string
	Retries     int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Output
	OutputDir string
	Markdown  bool
	NoArchive bool
	Report    string

	// Catalog
	TargetsPath  string
	Column       string
	Threshold    int
	Concurrency  int
	ImageWorkers int
	Strict       bool

	// Form server
	Addr string
}

// Load builds a Config by combining defaults, a .env file, an optional config
// file, STORESCRAPE_* environment variables and CLI flags, in increasing order
// of precedence. Caller should pass the executing *cobra.Command so its flags
// can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	var configPath string
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
		configPath, _ = cmd.Flags().GetString("config")
	}
	if configPath == "" {
		configPath = v.GetString("config")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	cfg := &Config{
		LogLevel:       v.GetString("log-level"),
		JSONLog:        v.GetBool("json"),
		HTTPTimeout:    v.GetDuration("timeout"),
		UserAgent:      v.GetString("user-agent"),
		Proxy:          v.GetString("proxy"),
		Headers:        v.GetStringMapString("headers"),
		BaseURL:        strings.TrimRight(v.GetString("base-url"), "/"),
		Retries:        v.GetInt("retries"),
		RateLimitRPS:   v.GetFloat64("rate-limit"),
		RateLimitBurst: v.GetInt("rate-burst"),
		OutputDir:      v.GetString("output"),
		Markdown:       v.GetBool("markdown"),
		NoArchive:      v.GetBool("no-archive"),
		Report:         v.GetString("report"),
		TargetsPath:    v.GetString("targets"),
		Column:         v.GetString("column"),
		Threshold:      v.GetInt("threshold"),
		Concurrency:    v.GetInt("concurrency"),
		ImageWorkers:   v.GetInt("image-workers"),
		Strict:         v.GetBool("strict"),
		Addr:           v.GetString("addr"),
	}

	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	if cmd != nil {
		if headers, err := cmd.Flags().GetStringArray("header"); err == nil {
			for key, value := range ParseHeaders(headers) {
				cfg.Headers[key] = value
			}
		}
	}

	switch {
	case v.GetBool("verbose"):
		cfg.LogLevel = "debug"
	case v.GetBool("quiet"):
		cfg.LogLevel = "error"
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("json", DefaultJSONLog)
	v.SetDefault("timeout", DefaultHTTPTimeout)
	v.SetDefault("user-agent", DefaultUserAgent)
	v.SetDefault("proxy", "")
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("base-url", DefaultBaseURL)
	v.SetDefault("retries", DefaultRetries)
	v.SetDefault("rate-limit", DefaultRateLimitRPS)
	v.SetDefault("rate-burst", DefaultRateLimitBurst)
	v.SetDefault("output", DefaultOutputDir)
	v.SetDefault("markdown", false)
	v.SetDefault("no-archive", false)
	v.SetDefault("report", "")
	v.SetDefault("targets", DefaultTargetsPath)
	v.SetDefault("column", DefaultColumn)
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("image-workers", DefaultImageWorkers)
	v.SetDefault("strict", false)
	v.SetDefault("addr", DefaultAddr)
}

// ParseHeaders turns "Key: Value" strings into a map. Malformed entries are skipped.
func ParseHeaders(headers []string) map[string]string {
	headerMap := make(map[string]string, len(headers))
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			headerMap[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headerMap
}
