// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the parallel-research CLI, a thin
// client for the Parallel.ai search and task APIs.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/parallel-research/internal/parallel"
	"github.com/pdiddy/parallel-research/internal/secrets"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "parallel-research/0.1"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// apiKey resolves a credential: an explicit flag value wins, then the
// environment variable, then the .secrets/ key file.
func apiKey(flagValue, envVar, secretName string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return loadedSecrets[secretName]
}

// httpConfig resolves HTTP settings: the --timeout flag wins, then the
// config file, then the built-in defaults.
func httpConfig(cmd *cobra.Command) types.HTTPConfig {
	cfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		cfg.Timeout = t
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return cfg
}

// newClient builds the API client shared by the search and task commands.
func newClient(cmd *cobra.Command) (*parallel.Client, error) {
	key := apiKey("", "PARALLEL_API_KEY", "parallel-api-key")
	if key == "" {
		return nil, fmt.Errorf("no API key: set PARALLEL_API_KEY or create .secrets/parallel-api-key")
	}

	baseURL := viper.GetString("base_url")
	if baseURL == "" {
		baseURL = parallel.DefaultBaseURL
	}

	cfg := httpConfig(cmd)
	return &parallel.Client{
		BaseURL:    baseURL,
		APIKey:     key,
		UserAgent:  cfg.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// rootCmd is the base command for the parallel-research CLI.
var rootCmd = &cobra.Command{
	Use:   "parallel-research",
	Short: "CLI client for the Parallel.ai search and task APIs",
	Long: `parallel-research submits web searches and deep-research tasks to the
Parallel.ai API and prints normalized results.

search performs a one-shot web search. task runs a deep-research task:
a plain question, a structured enrichment (--enrich with --output fields),
or a markdown report (--report). Tasks needing authenticated page access
attach a browser-automation MCP proxy (--browseruse-key) or a saved cookie
session (--auth-session).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./parallel-research.yaml or ~/.config/parallel-research/config.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("parallel-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "parallel-research"))
		}
	}

	viper.SetEnvPrefix("PARALLEL_RESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
