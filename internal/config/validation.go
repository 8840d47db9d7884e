package config

import (
	"fmt"

	urlutil "github.com/law-makers/storescrape/internal/utils/url"
)

func validate(c *Config) error {
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must be >= 0")
	}
	if err := urlutil.ValidateURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	if c.Threshold < 1 || c.Threshold > 100 {
		return fmt.Errorf("threshold must be between 1 and 100")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0")
	}
	if c.ImageWorkers < 1 || c.ImageWorkers > MaxImageWorkers {
		return fmt.Errorf("image workers must be between 1 and %d", MaxImageWorkers)
	}
	return nil
}
