// Package config provides configuration management for the pipeline commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a config file when -config is not given.
const DefaultPath = "configs/pipeline.yaml"

// Configuration validation errors.
var (
	ErrMissingDataDir       = errors.New("paths.data_dir is required")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidProgressEvery = errors.New("normalizer.progress_every must be non-negative")
	ErrInvalidBaseURL       = errors.New("harvester.base_url must be an absolute URL")
	ErrInvalidLookback      = errors.New("harvester.lookback_days must be at least 1")
	ErrInvalidPType         = errors.New("harvester.ptype must be 'p' or 'r'")
	ErrMissingOrgCode       = errors.New("harvester.org_code is required")
	ErrInvalidPageSize      = errors.New("harvester.page_size must be between 1 and 1000")
	ErrInvalidDelay         = errors.New("harvester.roster_delay_ms must be non-negative")
	ErrInvalidTimeout       = errors.New("harvester.timeout_sec must be at least 1")
	ErrInvalidPreviewRows   = errors.New("merger.preview_rows must be non-negative")
	ErrMissingAPIKeyEnv     = errors.New("secrets.api_key_env is required")
	ErrKafkaTopicRequired   = errors.New("publish.kafka.topic is required when brokers are set")
	ErrS3RegionRequired     = errors.New("publish.s3.region is required when bucket is set")
)

// fieldErrors maps validator struct namespaces to sentinel errors.
var fieldErrors = map[string]error{
	"Config.Paths.DataDir":            ErrMissingDataDir,
	"Config.Logging.Level":            ErrInvalidLogLevel,
	"Config.Normalizer.ProgressEvery": ErrInvalidProgressEvery,
	"Config.Harvester.BaseURL":        ErrInvalidBaseURL,
	"Config.Harvester.LookbackDays":   ErrInvalidLookback,
	"Config.Harvester.PType":          ErrInvalidPType,
	"Config.Harvester.OrgCode":        ErrMissingOrgCode,
	"Config.Harvester.PageSize":       ErrInvalidPageSize,
	"Config.Harvester.RosterDelayMs":  ErrInvalidDelay,
	"Config.Harvester.TimeoutSec":     ErrInvalidTimeout,
	"Config.Merger.PreviewRows":       ErrInvalidPreviewRows,
	"Config.Secrets.APIKeyEnv":        ErrMissingAPIKeyEnv,
	"Config.Publish.Kafka.Topic":      ErrKafkaTopicRequired,
	"Config.Publish.S3.Region":        ErrS3RegionRequired,
}

// Config represents the complete pipeline configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Logging    LoggingConfig    `yaml:"logging"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Harvester  HarvesterConfig  `yaml:"harvester"`
	Merger     MergerConfig     `yaml:"merger"`
	Secrets    SecretsConfig    `yaml:"secrets"`
	Publish    PublishConfig    `yaml:"publish"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// PathsConfig locates the data tree.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" validate:"required"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// NormalizerConfig controls extract parsing.
type NormalizerConfig struct {
	LayoutFile    string `yaml:"layout_file"`
	ProgressEvery int    `yaml:"progress_every" validate:"gte=0"`
}

// HarvesterConfig controls the opportunities search and roster fetches.
type HarvesterConfig struct {
	BaseURL       string `yaml:"base_url" validate:"required,url"`
	PType         string `yaml:"ptype" validate:"oneof=p r"`
	OrgCode       string `yaml:"org_code" validate:"required"`
	LookbackDays  int    `yaml:"lookback_days" validate:"gte=1"`
	PageSize      int    `yaml:"page_size" validate:"gte=1,lte=1000"`
	RosterDelayMs int    `yaml:"roster_delay_ms" validate:"gte=0"`
	TimeoutSec    int    `yaml:"timeout_sec" validate:"gte=1"`
}

// MergerConfig controls the curated contact output.
type MergerConfig struct {
	PreviewRows int `yaml:"preview_rows" validate:"gte=0"`
}

// SecretsConfig locates the API key.
type SecretsConfig struct {
	APIKeyEnv string `yaml:"api_key_env" validate:"required"`
	EnvFile   string `yaml:"env_file"`
	SSMPath   string `yaml:"ssm_path"`
	SSMRegion string `yaml:"ssm_region"`
}

// PublishConfig lists optional sinks for run artifacts.
type PublishConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
	S3    S3Config    `yaml:"s3"`
}

// KafkaConfig publishes run summaries to a compacted topic.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic" validate:"required_with=Brokers"`
	Key     string `yaml:"key"`
}

// Enabled reports whether Kafka publishing is configured.
func (k KafkaConfig) Enabled() bool {
	return k.Brokers != ""
}

// S3Config uploads curated workbooks and summaries.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region" validate:"required_with=Bucket"`
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether S3 upload is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Paths:   PathsConfig{DataDir: "data"},
		Logging: LoggingConfig{Level: "info"},
		Normalizer: NormalizerConfig{
			ProgressEvery: 10000,
		},
		Harvester: HarvesterConfig{
			BaseURL:       "https://api.sam.gov/opportunities/v2",
			PType:         "p",
			OrgCode:       "097",
			LookbackDays:  90,
			PageSize:      1000,
			RosterDelayMs: 200,
			TimeoutSec:    40,
		},
		Merger: MergerConfig{PreviewRows: 5},
		Secrets: SecretsConfig{
			APIKeyEnv: "SAM_API_KEY",
			EnvFile:   ".env",
			SSMRegion: "us-east-1",
		},
		Publish: PublishConfig{
			Kafka: KafkaConfig{Key: "samivl-harvest-latest"},
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path when given, else DefaultPath when it exists, else Default().
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return Default(), "", nil
		}

		path = DefaultPath
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		if sentinel, ok := fieldErrors[fe.StructNamespace()]; ok {
			return fmt.Errorf("%w (got %v)", sentinel, fe.Value())
		}
	}

	return fieldErrs
}

// EntityRoot is the directory holding monthly extract folders.
func (c *Config) EntityRoot() string {
	return filepath.Join(c.Paths.DataDir, "entity")
}

// HarvestRoot is the directory holding monthly harvest folders.
func (c *Config) HarvestRoot() string {
	return filepath.Join(c.Paths.DataDir, "harvests")
}

// RosterDelay is the enforced pause between roster fetches.
func (h HarvesterConfig) RosterDelay() time.Duration {
	return time.Duration(h.RosterDelayMs) * time.Millisecond
}

// Timeout returns the per-request timeout.
func (h HarvesterConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataDir: %s, PType: %s, Org: %s, Lookback: %dd, PageSize: %d}",
		c.Paths.DataDir,
		c.Harvester.PType,
		c.Harvester.OrgCode,
		c.Harvester.LookbackDays,
		c.Harvester.PageSize,
	)
}
