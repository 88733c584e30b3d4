package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
)

const (
	DefaultOutput    = "dashboard.html"
	DefaultSnapshot  = "dashboard.json"
	DefaultSteps     = 60
	DefaultDuration  = 2 * time.Second
	DefaultPeriod    = 30 * time.Second
	DefaultListen    = ":8080"
	DefaultLogLevel  = "info"
	DefaultTempDays  = 30
	DefaultNDVIScope = "all"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Output    string          `yaml:"output"`
	Snapshot  string          `yaml:"snapshot"`
	ChartDir  string          `yaml:"chart_dir"`
	Listen    string          `yaml:"listen"`
	LogLevel  string          `yaml:"log_level"`
	Seed      uint64          `yaml:"seed"`
	Animation AnimationConfig `yaml:"animation"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	View      ViewConfig      `yaml:"view"`
}

type AnimationConfig struct {
	Steps    int           `yaml:"steps"`
	Duration time.Duration `yaml:"duration"`
}

type RefreshConfig struct {
	Period       time.Duration `yaml:"period"`
	TempDelta    float64       `yaml:"temp_delta"`
	TempMin      float64       `yaml:"temp_min"`
	TempMax      float64       `yaml:"temp_max"`
	NDVIDelta    float64       `yaml:"ndvi_delta"`
	DisableDrift bool          `yaml:"disable_drift"`
}

type ViewConfig struct {
	TemperatureDays int    `yaml:"temperature_days"`
	NDVIRegion      string `yaml:"ndvi_region"`
	MapLayer        string `yaml:"map_layer"`
}

func DefaultConfig() *Config {
	return &Config{
		Output:   DefaultOutput,
		Snapshot: DefaultSnapshot,
		Listen:   DefaultListen,
		LogLevel: DefaultLogLevel,
		Animation: AnimationConfig{
			Steps:    DefaultSteps,
			Duration: DefaultDuration,
		},
		Refresh: RefreshConfig{
			Period:    DefaultPeriod,
			TempDelta: 0.1,
			TempMin:   -10,
			TempMax:   50,
			NDVIDelta: 0.005,
		},
		View: ViewConfig{
			TemperatureDays: DefaultTempDays,
			NDVIRegion:      DefaultNDVIScope,
			MapLayer:        "satellite",
		},
	}
}

// Load reads a YAML config on top of the defaults. An empty path yields the
// defaults. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads .env when present and applies PAINEL_* overrides.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv("PAINEL_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("PAINEL_SNAPSHOT"); v != "" {
		c.Snapshot = v
	}
	if v := os.Getenv("PAINEL_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("PAINEL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PAINEL_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PAINEL_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("PAINEL_REFRESH_PERIOD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PAINEL_REFRESH_PERIOD: %w", err)
		}
		c.Refresh.Period = d
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Animation.Steps < 1:
		return fmt.Errorf("%w: animation.steps must be positive", ErrInvalidConfig)
	case c.Animation.Duration <= 0:
		return fmt.Errorf("%w: animation.duration must be positive", ErrInvalidConfig)
	case c.Refresh.Period <= 0:
		return fmt.Errorf("%w: refresh.period must be positive", ErrInvalidConfig)
	case c.Refresh.TempMin > c.Refresh.TempMax:
		return fmt.Errorf("%w: refresh.temp_min above temp_max", ErrInvalidConfig)
	case c.View.TemperatureDays < 1 || c.View.TemperatureDays > dataset.MaxDays:
		return fmt.Errorf("%w: view.temperature_days must be between 1 and %d", ErrInvalidConfig, dataset.MaxDays)
	}
	return nil
}
