// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the analytics-scout CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/analytics-scout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// envPrefix namespaces environment overrides, e.g. ANALYTICS_SCOUT_GITHUB_TOKEN.
const envPrefix = "ANALYTICS_SCOUT"

// rootCmd is the base command for the analytics-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "analytics-scout",
	Short: "Find and audit analytics events in GitHub repositories",
	Long: `analytics-scout extracts analytics tracking calls (track, identify traits,
event constants, third-party SDK calls) from JavaScript and TypeScript sources
hosted on GitHub, checks them against naming conventions, and searches whole
organizations for a given event.

The same operations are available as CLI subcommands, as MCP tools (mcp) and
over HTTP (serve).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./analytics-scout.yaml or ~/.config/analytics-scout/analytics-scout.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory holding the github-token file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("analytics-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "analytics-scout"))
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogger installs the default slog logger. --verbose wins over the
// configured level.
func setupLogger(cmd *cobra.Command) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelInfo
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
