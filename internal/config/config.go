package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env string `yaml:"env" env:"CREWCLOCK_ENV" env-default:"production"`

	Log struct {
		Level  string `yaml:"level" env:"CREWCLOCK_LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"CREWCLOCK_LOG_FORMAT" env-default:"json"`
	} `yaml:"log"`

	HTTP struct {
		Host            string `yaml:"host" env:"CREWCLOCK_HTTP_HOST" env-default:"0.0.0.0"`
		Port            int    `yaml:"port" env:"CREWCLOCK_HTTP_PORT" env-default:"8080"`
		ReadTimeout     int    `yaml:"read_timeout" env-default:"15"`
		WriteTimeout    int    `yaml:"write_timeout" env-default:"15"`
		ShutdownTimeout int    `yaml:"shutdown_timeout" env-default:"5"`
	} `yaml:"http"`

	StoragePath string `yaml:"storage_path" env:"CREWCLOCK_STORAGE_PATH" env-default:"crewclock.db"`

	Export struct {
		// Directory where timesheet CSV files are written when a user
		// has no webhook configured.
		Dir string `yaml:"dir" env:"CREWCLOCK_EXPORT_DIR" env-default:"exports"`
	} `yaml:"export"`

	Webhook struct {
		TimeoutSeconds int `yaml:"timeout_seconds" env:"CREWCLOCK_WEBHOOK_TIMEOUT" env-default:"30"`
	} `yaml:"webhook"`
}

// LoadConfig reads the YAML file at path and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &cfg, nil
}
