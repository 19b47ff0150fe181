package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/nasadm/truenasctl/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	baseURL   string
	apiKey    string
)

var rootCmd = &cobra.Command{
	Use:   "truenasctl",
	Short: "Declaratively manage TrueNAS resources through the middleware API.",
	Long: `truenasctl converges TrueNAS resources (iSCSI shares, users, datasets,
service configuration) toward a desired state described in YAML plan files.
Each run reads the live state, computes the minimal set of changes, and
applies only what differs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userMsg, suggestion, _ := apperrors.GetUserFacingMessage(err)
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
		if suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .truenasctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Middleware base URL (e.g. https://nas.example.net)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Middleware API key")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("connection.base_url", rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("connection.api_key", rootCmd.PersistentFlags().Lookup("api-key"))

	viper.SetEnvPrefix("TRUENAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".truenasctl")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}
	return nil
}
