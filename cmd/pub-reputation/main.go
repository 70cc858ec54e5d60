// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pub-reputation CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pub-reputation/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	envPrefix  = "PUB_REPUTATION"
	secretsDir = ".secrets/"
	envFile    = ".env"
)

// loadedSecrets holds credentials read from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// logger is configured from --log-level and --log-format before any
// subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the pub-reputation CLI.
var rootCmd = &cobra.Command{
	Use:   "pub-reputation",
	Short: "Score the reputation of PubMed publications",
	Long: `pub-reputation rates a publication on five facets (citations, open access,
recency, journal activity, author activity), each from 0 to 100. Metadata
comes from PubMed; citation counts from PubMed's cited-by links; venue and
author output volumes from OpenAlex.

Use score for one-off lookups, batch for YAML files of identifiers, and
serve to expose the same report over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"), viper.GetString("log.format"), os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		fromEnv, err := secrets.LoadEnvFile(envFile)
		if err != nil {
			return err
		}
		fromDir, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = secrets.Merge(fromEnv, fromDir)
		if len(loadedSecrets) > 0 {
			keys := make([]string, 0, len(loadedSecrets))
			for k := range loadedSecrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pub-reputation.yaml or ~/.config/pub-reputation/pub-reputation.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
}

func initConfig() {
	// .env may carry PUB_REPUTATION_* overrides; it must be in the process
	// environment before viper reads it.
	_ = godotenv.Load(envFile)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pub-reputation")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pub-reputation"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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
