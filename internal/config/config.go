package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvRoot is the environment variable naming the archive root directory.
const EnvRoot = "PWF_ROOT"

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Downsize contains configuration for web-size image generation.
type Downsize struct {
	DefaultTag  string `toml:"default_tag"`
	JPEGQuality int    `toml:"jpeg_quality"`
}

// Previews contains configuration for lab preview generation.
type Previews struct {
	SizeTag string `toml:"size_tag"`
}

// Stats contains configuration for the statistics snapshot store.
type Stats struct {
	DatabasePath string `toml:"database_path"`
}

// Config is the top-level pwf configuration.
type Config struct {
	RootDir string `toml:"root_dir"`

	Logging  Logging  `toml:"logging"`
	Downsize Downsize `toml:"downsize"`
	Previews Previews `toml:"previews"`
	Stats    Stats    `toml:"stats"`
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pwf", "config.toml")
	}
	return filepath.Join(".", "pwf-config.toml")
}

// Load reads the configuration file at path (or the default location when
// path is empty), applies defaults and the PWF_ROOT environment override,
// and validates the result. A missing file is not an error as long as the
// archive root is resolvable from the environment.
func Load(path string) (*Config, error) {
	// A .env beside the working directory may carry PWF_ROOT.
	_ = godotenv.Load()

	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment only.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if root := strings.TrimSpace(os.Getenv(EnvRoot)); root != "" {
		cfg.RootDir = root
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to path, creating
// parent directories. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
