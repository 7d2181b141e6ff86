package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reliastack/relia-engine/internal/models"
)

// Config captures the settings required to boot the prediction service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Study    StudyConfig    `yaml:"study"`
	Mission  MissionConfig  `yaml:"mission"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// DatasetConfig locates the component sheet export.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// StudyConfig controls study-pack loading for the uncertainty engines.
type StudyConfig struct {
	Path string `yaml:"path"`
}

// MissionConfig carries the mission profile constants.
type MissionConfig struct {
	CyclesPerYear      float64 `yaml:"cyclesPerYear"`
	CycleAmplitude     float64 `yaml:"cycleAmplitude"`
	MissionHours       float64 `yaml:"missionHours"`
	OverstressFactor   float64 `yaml:"overstressFactor"`
	OverstressBaseline float64 `yaml:"overstressBaseline"`
}

// AnalysisConfig bounds the statistical workloads.
type AnalysisConfig struct {
	DefaultDraws     int           `yaml:"defaultDraws"`
	MaxDraws         int           `yaml:"maxDraws"`
	VariationPercent float64       `yaml:"variationPercent"`
	Workers          int           `yaml:"workers"`
	Timeout          time.Duration `yaml:"timeout"`
}

// CacheConfig controls in-memory caching of baseline block evaluations.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("RELIA_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MissionProfile converts the configured profile into the model-facing struct.
func (c *Config) MissionProfile() models.Mission {
	m := models.DefaultMission()
	if c.Mission.CyclesPerYear > 0 {
		m.CyclesPerYear = c.Mission.CyclesPerYear
	}
	if c.Mission.CycleAmplitude > 0 {
		m.CycleAmplitude = c.Mission.CycleAmplitude
	}
	if c.Mission.MissionHours > 0 {
		m.MissionHours = c.Mission.MissionHours
	}
	if c.Mission.OverstressFactor > 0 {
		m.OverstressFactor = c.Mission.OverstressFactor
	}
	if c.Mission.OverstressBaseline > 0 {
		m.OverstressBaseline = c.Mission.OverstressBaseline
	}
	return m
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{Path: "configs/data/components.csv"},
		Study:   StudyConfig{Path: "configs/study/default.yaml"},
		Analysis: AnalysisConfig{
			DefaultDraws:     1000,
			MaxDraws:         100000,
			VariationPercent: 10,
			Workers:          1,
			Timeout:          2 * time.Minute,
		},
		Cache:   CacheConfig{Enabled: true, TTL: 5 * time.Minute},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func validate(cfg *Config) error {
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	if cfg.Analysis.DefaultDraws <= 0 {
		return fmt.Errorf("analysis defaultDraws must be positive")
	}
	if cfg.Analysis.MaxDraws < cfg.Analysis.DefaultDraws {
		return fmt.Errorf("analysis maxDraws must be at least defaultDraws")
	}
	if cfg.Analysis.VariationPercent <= 0 || cfg.Analysis.VariationPercent >= 100 {
		return fmt.Errorf("analysis variationPercent must be in (0, 100)")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELIA_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("RELIA_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("RELIA_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("RELIA_STUDY_PATH"); v != "" {
		cfg.Study.Path = v
	}
	if v := os.Getenv("RELIA_MISSION_CYCLES_PER_YEAR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mission.CyclesPerYear = f
		}
	}
	if v := os.Getenv("RELIA_MISSION_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Mission.MissionHours = f
		}
	}
	if v := os.Getenv("RELIA_ANALYSIS_DEFAULT_DRAWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.DefaultDraws = n
		}
	}
	if v := os.Getenv("RELIA_ANALYSIS_MAX_DRAWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxDraws = n
		}
	}
	if v := os.Getenv("RELIA_ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("RELIA_ANALYSIS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.Timeout = d
		}
	}
	if v := os.Getenv("RELIA_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("RELIA_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("RELIA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RELIA_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
}
