package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the rest of the system
// depends on. The archive root is mandatory; everything else has defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootDir) == "" {
		return fmt.Errorf("archive root not configured: set root_dir in the config file or the %s environment variable", EnvRoot)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	if c.Downsize.JPEGQuality < 1 || c.Downsize.JPEGQuality > 100 {
		return fmt.Errorf("downsize jpeg_quality must be within 1..100, got %d", c.Downsize.JPEGQuality)
	}
	return nil
}
