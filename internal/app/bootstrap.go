package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/nasadm/truenasctl/internal/adapters/middleware"
	"github.com/nasadm/truenasctl/internal/config"
	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/core/service"
	"github.com/nasadm/truenasctl/internal/errors"
	"github.com/nasadm/truenasctl/internal/log"
	"github.com/nasadm/truenasctl/internal/plan"
	jsonreport "github.com/nasadm/truenasctl/internal/reporting/json"
	"github.com/nasadm/truenasctl/internal/reporting/text"
	"github.com/nasadm/truenasctl/internal/resources"
)

// BuildApplicationFromViper assembles the full application: config, logger,
// middleware gateway, resource registry, engine, runner, reporter.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logger, err := log.NewLogger(log.Config{
		Level:  cfg.Settings.LogLevel,
		Format: cfg.Settings.LogFormat,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	if err := validateConfig(ctx, cfg); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}

	client, err := middleware.NewClient(middleware.ClientConfig{
		BaseURL:       cfg.Connection.BaseURL,
		APIKey:        cfg.Connection.APIKey,
		Timeout:       time.Duration(cfg.Connection.TimeoutSeconds) * time.Second,
		RatePerSecond: cfg.Connection.RatePerSecond,
	}, logger.WithFields(map[string]any{"component": "middleware"}))
	if err != nil {
		return nil, err
	}
	gateway, err := middleware.NewGateway(client)
	if err != nil {
		return nil, err
	}

	registry := service.NewSpecRegistry()
	if err := resources.RegisterAll(registry); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "registering resource specs")
	}

	engine, err := service.NewEngine(registry, gateway,
		logger.WithFields(map[string]any{"component": "engine"}))
	if err != nil {
		return nil, err
	}

	runner, err := plan.NewRunner(engine,
		logger.WithFields(map[string]any{"component": "runner"}),
		cfg.Settings.Concurrency)
	if err != nil {
		return nil, err
	}

	reporter, err := buildReporter(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Application bootstrap complete")
	return &Application{
		Engine:   engine,
		Runner:   runner,
		Reporter: reporter,
		Gateway:  gateway,
		Logger:   logger,
		Config:   cfg,
	}, nil
}

func validateConfig(ctx context.Context, cfg *config.Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		return nil
	}
	var details strings.Builder
	details.WriteString("Configuration validation failed:")
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrors {
			details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')",
				fe.Namespace(), fe.Tag(), fe.Value()))
		}
	} else {
		details.WriteString(" " + err.Error())
	}
	return errors.NewUserFacing(errors.CodeConfigValidation, details.String(),
		"Check your configuration file, flags, and TRUENAS_* environment variables.")
}

func buildReporter(cfg *config.Config, logger ports.Logger) (ports.Reporter, error) {
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		textCfg := text.Config{}
		if cfg.Settings.Reporter.Text != nil {
			textCfg = *cfg.Settings.Reporter.Text
		}
		return text.NewReporter(textCfg,
			logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText}))
	case jsonreport.ReporterTypeJSON:
		return jsonreport.NewReporter(
			logger.WithFields(map[string]any{"component": "reporter", "type": jsonreport.ReporterTypeJSON}))
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType),
			"Supported reporters: text, json")
	}
}
