package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Hyperflow HyperflowConfig `yaml:"hyperflow"`
	Source    SourceConfig    `yaml:"source"`
	Reader    ReaderConfig    `yaml:"reader"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Writer    WriterConfig    `yaml:"writer"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type HyperflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type SourceConfig struct {
	Hyperliquid HyperliquidSourceConfig `yaml:"hyperliquid"`
}

type HyperliquidSourceConfig struct {
	InfoURL        string               `yaml:"info_url"`
	LeaderboardURL string               `yaml:"leaderboard_url"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type ReaderConfig struct {
	Timeout         time.Duration   `yaml:"timeout"`
	PositionWorkers int             `yaml:"position_workers"`
	Retry           RetryConfig     `yaml:"retry"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier int           `yaml:"backoff_multiplier"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type SnapshotConfig struct {
	TopTraders            int           `yaml:"top_traders"`
	PositionAccounts      int           `yaml:"position_accounts"`
	RiskThresholdPct      float64       `yaml:"risk_threshold_pct"`
	FundingPeriodsPerYear int           `yaml:"funding_periods_per_year"`
	PnlWindow             string        `yaml:"pnl_window"`
	RunTimeout            time.Duration `yaml:"run_timeout"`
}

type WriterConfig struct {
	OutputPath       string       `yaml:"output_path"`
	FundingBoardSize int          `yaml:"funding_board_size"`
	AggregateCoins   int          `yaml:"aggregate_coins"`
	RiskyPositions   int          `yaml:"risky_positions"`
	BiggestPositions int          `yaml:"biggest_positions"`
	LiqMap           LiqMapConfig `yaml:"liq_map"`
}

type LiqMapConfig struct {
	WindowPct    float64 `yaml:"window_pct"`
	MinPositions int     `yaml:"min_positions"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Key             string `yaml:"key"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MetricsConfig struct {
	CloudWatch bool   `yaml:"cloudwatch"`
	Namespace  string `yaml:"namespace"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

const (
	defaultInfoURL        = "https://api.hyperliquid.xyz/info"
	defaultLeaderboardURL = "https://stats-data.hyperliquid.xyz/Mainnet/leaderboard"
	defaultOutputPath     = "data/hyperliquid_snapshot.json"
)

// DefaultConfig returns the built-in configuration used when no config file
// is present. The binary must run with no required arguments, so every
// value has a working default.
func DefaultConfig() *Config {
	return &Config{
		Hyperflow: HyperflowConfig{
			Name:    "hyperflow",
			Version: "1.0",
		},
		Source: SourceConfig{
			Hyperliquid: HyperliquidSourceConfig{
				InfoURL:        defaultInfoURL,
				LeaderboardURL: defaultLeaderboardURL,
				ConnectionPool: ConnectionPoolConfig{
					MaxIdleConns:    20,
					MaxConnsPerHost: 10,
					IdleConnTimeout: 60 * time.Second,
				},
			},
		},
		Reader: ReaderConfig{
			Timeout:         10 * time.Second,
			PositionWorkers: 10,
			Retry: RetryConfig{
				MaxAttempts:       3,
				BaseDelay:         500 * time.Millisecond,
				MaxDelay:          10 * time.Second,
				BackoffMultiplier: 2,
			},
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 10,
				BurstSize:         5,
			},
		},
		Snapshot: SnapshotConfig{
			TopTraders:            200,
			PositionAccounts:      50,
			RiskThresholdPct:      5.0,
			FundingPeriodsPerYear: 8760,
			PnlWindow:             "day",
			RunTimeout:            5 * time.Minute,
		},
		Writer: WriterConfig{
			OutputPath:       defaultOutputPath,
			FundingBoardSize: 50,
			AggregateCoins:   25,
			RiskyPositions:   200,
			BiggestPositions: 200,
			LiqMap: LiqMapConfig{
				WindowPct:    50.0,
				MinPositions: 2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// LoadConfig reads the yaml configuration at path, layers it over the
// defaults and applies environment overrides. A missing file is not an
// error unless the path was explicitly provided by the caller.
func LoadConfig(path string, required bool) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			applyEnvOverrides(config)
			if err := validateConfig(config); err != nil {
				return nil, fmt.Errorf("configuration validation failed: %w", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyEnvOverrides lets deploy environments adjust cutoffs and credentials
// without editing the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HYPERFLOW_OUTPUT_PATH"); v != "" {
		cfg.Writer.OutputPath = strings.TrimSpace(v)
	}
	if v := os.Getenv("HYPERFLOW_TOP_TRADERS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Snapshot.TopTraders = n
		}
	}
	if v := os.Getenv("HYPERFLOW_POSITION_ACCOUNTS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Snapshot.PositionAccounts = n
		}
	}
	if v := os.Getenv("HYPERFLOW_RISK_THRESHOLD_PCT"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.Snapshot.RiskThresholdPct = f
		}
	}

	if cfg.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			cfg.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			cfg.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			cfg.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			cfg.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}
	cfg.Storage.S3.Bucket = strings.TrimSpace(cfg.Storage.S3.Bucket)
}

func validateConfig(cfg *Config) error {
	if cfg.Hyperflow.Name == "" {
		return fmt.Errorf("hyperflow.name is required")
	}

	if cfg.Hyperflow.Version == "" {
		return fmt.Errorf("hyperflow.version is required")
	}

	if cfg.Source.Hyperliquid.InfoURL == "" {
		return fmt.Errorf("source.hyperliquid.info_url is required")
	}

	if cfg.Source.Hyperliquid.LeaderboardURL == "" {
		return fmt.Errorf("source.hyperliquid.leaderboard_url is required")
	}

	if cfg.Reader.Timeout <= 0 {
		return fmt.Errorf("reader.timeout must be greater than 0")
	}

	if cfg.Reader.PositionWorkers <= 0 {
		return fmt.Errorf("reader.position_workers must be greater than 0")
	}

	if cfg.Reader.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("reader.retry.max_attempts must be greater than 0")
	}

	if cfg.Snapshot.TopTraders <= 0 {
		return fmt.Errorf("snapshot.top_traders must be greater than 0")
	}

	if cfg.Snapshot.PositionAccounts <= 0 {
		return fmt.Errorf("snapshot.position_accounts must be greater than 0")
	}

	if cfg.Snapshot.PositionAccounts > cfg.Snapshot.TopTraders {
		return fmt.Errorf("snapshot.position_accounts cannot exceed snapshot.top_traders")
	}

	if cfg.Snapshot.RiskThresholdPct <= 0 {
		return fmt.Errorf("snapshot.risk_threshold_pct must be greater than 0")
	}

	if cfg.Snapshot.FundingPeriodsPerYear <= 0 {
		return fmt.Errorf("snapshot.funding_periods_per_year must be greater than 0")
	}

	switch cfg.Snapshot.PnlWindow {
	case "day", "week", "month", "allTime":
		// valid leaderboard windows
	default:
		return fmt.Errorf("snapshot.pnl_window must be one of day, week, month, allTime")
	}

	if cfg.Writer.OutputPath == "" {
		return fmt.Errorf("writer.output_path is required")
	}

	if cfg.Writer.FundingBoardSize < 0 || cfg.Writer.AggregateCoins < 0 ||
		cfg.Writer.RiskyPositions < 0 || cfg.Writer.BiggestPositions < 0 {
		return fmt.Errorf("writer cutoffs cannot be negative")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when s3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when s3 is enabled")
		}
	}

	return nil
}
