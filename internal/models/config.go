package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	NumAgents int       `mapstructure:"num_agents"`
	NumGroups int       `mapstructure:"num_groups"`
	Seed      int64     `mapstructure:"seed"`
	StartTime time.Time `mapstructure:"start_time"`
	LogLevel  string    `mapstructure:"log_level"`
	Progress  bool      `mapstructure:"progress"`
	BatchSize int       `mapstructure:"batch_size"`

	OutputFormat      string `mapstructure:"output_format"`
	OutputPath        string `mapstructure:"output_path"`
	OutputFolder      string `mapstructure:"output_folder"`
	OutputDestination string `mapstructure:"output_destination"`

	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix string `mapstructure:"kafka_topic_prefix"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	PostgresEnabled bool   `mapstructure:"postgres_enabled"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

// SetDefaults registers the default value of every config key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("num_agents", DefaultNumAgents)
	v.SetDefault("num_groups", DefaultNumGroups)
	v.SetDefault("seed", 0)
	v.SetDefault("start_time", "2024-01-01T08:00:00Z")
	v.SetDefault("log_level", "warn")
	v.SetDefault("progress", false)
	v.SetDefault("batch_size", 100)
	v.SetDefault("output_format", OutputFormatNone)
	v.SetDefault("output_path", "output")
	v.SetDefault("output_folder", "customsim")
	v.SetDefault("output_destination", OutputDestinationLocal)
	v.SetDefault("cloud_storage.provider", "s3")
	v.SetDefault("cloud_storage.region", "us-east-1")
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_topic_prefix", "")
	v.SetDefault("postgres_enabled", false)
}

// LoadConfig initializes and reads the configuration using Viper.
// A missing default config file is not an error; an explicit cfgFile must exist.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Default config location
		v.AddConfigPath(".")
		v.SetConfigName(".customsim")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("customsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (cfg *Config) Validate() error {
	if cfg.NumAgents < 1 {
		return fmt.Errorf("%w: num_agents must be at least 1, got %d", ErrInvalidConfig, cfg.NumAgents)
	}
	if cfg.NumGroups < 0 {
		return fmt.Errorf("%w: num_groups must not be negative, got %d", ErrInvalidConfig, cfg.NumGroups)
	}
	if cfg.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", ErrInvalidConfig, cfg.BatchSize)
	}

	switch cfg.OutputFormat {
	case "", OutputFormatNone, OutputFormatConsole, OutputFormatJSON, OutputFormatCSV, OutputFormatParquet:
	default:
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, cfg.OutputFormat)
	}

	if cfg.OutputDestination == OutputDestinationS3 {
		if cfg.OutputFormat != OutputFormatParquet {
			return fmt.Errorf("%w: s3 destination requires parquet output", ErrInvalidConfig)
		}
		if cfg.CloudStorage.BucketName == "" {
			return fmt.Errorf("%w: s3 destination requires cloud_storage.bucket_name", ErrInvalidConfig)
		}
	}

	if cfg.PostgresEnabled && cfg.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres_enabled requires postgres_dsn", ErrInvalidConfig)
	}

	return nil
}
