// Package config loads service settings from the environment and QC
// battery definitions from YAML files. Configuration is read once at
// startup and immutable afterwards; any missing required value or invalid
// format fails the process immediately.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092" validate:"required,min=1"`
	KafkaSourceTopic string   `envconfig:"KAFKA_SOURCE_TOPIC" default:"marine-reports" validate:"required"`
	KafkaSinkTopic   string   `envconfig:"KAFKA_SINK_TOPIC" default:"flagged-marine-reports" validate:"required"`
	KafkaGroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"marine-qc" validate:"required"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	BatchSize int `envconfig:"BATCH_SIZE" default:"50" validate:"gt=0"`

	// BatteryFile names the YAML battery definition the pipeline runs.
	BatteryFile string `envconfig:"BATTERY_FILE" validate:"required"`

	// ReturnMethod gates later checks on earlier outcomes per row:
	// "all" runs every check everywhere, "passed" keeps only rows that
	// pass, "failed" keeps only rows that fail.
	ReturnMethod string `envconfig:"RETURN_METHOD" default:"all" validate:"oneof=all passed failed"`

	// GroupBy names the report columns whose values define a voyage.
	GroupBy []string `envconfig:"GROUP_BY" default:"platform" validate:"required,min=1"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
