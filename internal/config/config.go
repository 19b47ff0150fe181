package config

import (
	"github.com/nasadm/truenasctl/internal/log"
	"github.com/nasadm/truenasctl/internal/reporting/text"
)

type Config struct {
	Settings   SettingsConfig   `yaml:"settings" mapstructure:"settings"`
	Connection ConnectionConfig `yaml:"connection" mapstructure:"connection"`
}

type SettingsConfig struct {
	LogLevel     log.Level  `yaml:"log_level" mapstructure:"log_level"`
	LogFormat    log.Format `yaml:"log_format" mapstructure:"log_format"`
	Concurrency  int        `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1,lte=64"`
	ReporterType string     `yaml:"reporter" mapstructure:"reporter" validate:"oneof=text json"`

	Reporter ReporterConfigs `yaml:"reporter_config" mapstructure:"reporter_config"`
}

type ConnectionConfig struct {
	// BaseURL is the middleware endpoint, e.g. https://nas.example.net.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// APIKey authenticates every call; create one under
	// Credentials > API Keys on the NAS.
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required"`

	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds" validate:"gte=0,lte=600"`

	// RatePerSecond caps outgoing middleware calls; zero disables the cap.
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second" validate:"gte=0"`
}

type ReporterConfigs struct {
	Text *text.Config `yaml:"text,omitempty" mapstructure:"text"`
}

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			Concurrency:  4,
			ReporterType: text.ReporterTypeText,
			Reporter: ReporterConfigs{
				Text: &text.Config{NoColor: false},
			},
		},
		Connection: ConnectionConfig{
			TimeoutSeconds: 30,
			RatePerSecond:  10,
		},
	}
}
