package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Default returns a configuration populated with built-in defaults. The
// archive root is intentionally left empty; it must come from the config
// file or PWF_ROOT.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  "info",
			Format: "",
		},
		Downsize: Downsize{
			DefaultTag:  "QHD",
			JPEGQuality: 80,
		},
		Previews: Previews{
			SizeTag: "FHD",
		},
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = def.Logging.Level
	}
	if strings.TrimSpace(c.Downsize.DefaultTag) == "" {
		c.Downsize.DefaultTag = def.Downsize.DefaultTag
	}
	if c.Downsize.JPEGQuality <= 0 {
		c.Downsize.JPEGQuality = def.Downsize.JPEGQuality
	}
	if strings.TrimSpace(c.Previews.SizeTag) == "" {
		c.Previews.SizeTag = def.Previews.SizeTag
	}
	if strings.TrimSpace(c.Stats.DatabasePath) == "" && c.RootDir != "" {
		c.Stats.DatabasePath = filepath.Join(c.RootDir, ".pwf", "stats.db")
	}
	c.RootDir = expandHome(strings.TrimSpace(c.RootDir))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
