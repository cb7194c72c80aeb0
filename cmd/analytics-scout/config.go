// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/analytics-scout/internal/cache"
	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/internal/github"
	"github.com/pdiddy/analytics-scout/internal/metrics"
	"github.com/pdiddy/analytics-scout/internal/secrets"
	"github.com/pdiddy/analytics-scout/internal/service"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

// setConfigDefaults registers every configuration key so file values and
// environment overrides both reach loadConfig.
func setConfigDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("log_level", d.LogLevel)

	viper.SetDefault("github.base_url", d.GitHub.BaseURL)
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.timeout", d.GitHub.Timeout)
	viper.SetDefault("github.user_agent", d.GitHub.UserAgent)
	viper.SetDefault("github.max_retries", d.GitHub.MaxRetries)
	viper.SetDefault("github.requests_per_second", d.GitHub.RequestsPerSecond)

	viper.SetDefault("scan.batch_size", d.Scan.BatchSize)
	viper.SetDefault("scan.include", d.Scan.Include)
	viper.SetDefault("scan.exclude", d.Scan.Exclude)

	viper.SetDefault("org_search.max_repos", d.OrgSearch.MaxRepos)
	viper.SetDefault("org_search.max_files", d.OrgSearch.MaxFiles)
	viper.SetDefault("org_search.batch_size", d.OrgSearch.BatchSize)
	viper.SetDefault("org_search.batch_delay", d.OrgSearch.BatchDelay)

	viper.SetDefault("cache.path", d.Cache.Path)
	viper.SetDefault("cache.ttl", d.Cache.TTL)

	viper.SetDefault("server.addr", d.Server.Addr)
}

// loadConfig decodes the merged configuration and fills the GitHub token
// from the secrets directory when neither the file nor the environment
// set it.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.GitHub.Token == "" {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		token, err := secrets.Lookup(dir, secrets.GitHubToken, "", slog.Default())
		if err != nil {
			return types.Config{}, err
		}
		cfg.GitHub.Token = token
	}
	if cfg.GitHub.Token == "" {
		slog.Warn("no GitHub token configured; requests are unauthenticated and heavily rate limited")
	}
	return cfg, nil
}

// app bundles what a command needs to run operations.
type app struct {
	cfg     types.Config
	svc     *service.Service
	metrics *metrics.Recorder
	close   func()
}

// newApp builds the GitHub client, the optional cache and the service.
func newApp(cmd *cobra.Command, rec *metrics.Recorder) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()

	var host codehost.Host = github.New(cfg.GitHub, nil, logger)
	closeFn := func() {}
	if cfg.Cache.Path != "" {
		store, err := cache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		host = cache.Wrap(host, store, logger)
		closeFn = func() { store.Close() }
	}

	return &app{
		cfg:     cfg,
		svc:     service.New(host, cfg, service.Options{Logger: logger, Metrics: rec}),
		metrics: rec,
		close:   closeFn,
	}, nil
}

// offlineService serves operations that never reach the code host.
func offlineService() *service.Service {
	return service.New(nil, types.DefaultConfig(), service.Options{Logger: slog.Default()})
}
