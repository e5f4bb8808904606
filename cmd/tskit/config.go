package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/persistence"
	"github.com/hupe1980/tskit/resource"
)

// Config is the CLI configuration file.
type Config struct {
	Log       LogConfig      `yaml:"log"`
	Resources ResourceConfig `yaml:"resources"`
	Storage   StorageConfig  `yaml:"storage"`
	Dump      DumpConfig     `yaml:"dump"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxConcurrentFiles int64 `yaml:"max_concurrent_files"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

type StorageConfig struct {
	S3    S3Config    `yaml:"s3"`
	Minio MinioConfig `yaml:"minio"`
}

type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

type DumpConfig struct {
	Compression string `yaml:"compression"`
}

type MetricsConfig struct {
	// TextFile receives the Prometheus metrics of the run in the text
	// exposition format.
	TextFile string `yaml:"textfile"`
}

func defaultConfig() Config {
	return Config{
		Log:       LogConfig{Level: "warn", Format: "text"},
		Resources: ResourceConfig{MaxConcurrentFiles: 4},
		Dump:      DumpConfig{Compression: "zstd"},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults with environment overrides applied.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if v := os.Getenv("TSKIT_MINIO_ACCESS_KEY"); v != "" {
		cfg.Storage.Minio.AccessKey = v
	}
	if v := os.Getenv("TSKIT_MINIO_SECRET_KEY"); v != "" {
		cfg.Storage.Minio.SecretKey = v
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := c.logLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := c.compression(); err != nil {
		return err
	}
	if c.Resources.MemoryLimitBytes < 0 || c.Resources.MaxConcurrentFiles < 0 || c.Resources.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("resource limits must not be negative")
	}
	return nil
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

func (c Config) compression() (persistence.Compression, error) {
	return persistence.ParseCompression(c.Dump.Compression)
}

func (c Config) logger() *tskit.Logger {
	level, _ := c.logLevel()
	if c.Log.Format == "json" {
		return tskit.NewJSONLogger(level)
	}
	return tskit.NewTextLogger(level)
}

func (c Config) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.Resources.MemoryLimitBytes,
		MaxConcurrentFiles: c.Resources.MaxConcurrentFiles,
		IOLimitBytesPerSec: c.Resources.IOLimitBytesPerSec,
	})
}
