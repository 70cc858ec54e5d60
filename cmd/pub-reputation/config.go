// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pub-reputation/internal/httputil"
	"github.com/pdiddy/pub-reputation/internal/openalex"
	"github.com/pdiddy/pub-reputation/internal/pubmed"
	"github.com/pdiddy/pub-reputation/internal/reputation"
	"github.com/pdiddy/pub-reputation/internal/secrets"
	"github.com/pdiddy/pub-reputation/internal/server"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

// setDefaults registers every config key so that environment variables are
// picked up by Unmarshal even when no config file mentions the key.
func setDefaults(v *viper.Viper) {
	cal := types.DefaultCalibration()

	v.SetDefault("http.timeout", httputil.DefaultTimeout)
	v.SetDefault("http.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("ncbi.base_url", pubmed.DefaultBaseURL)
	v.SetDefault("ncbi.tool", pubmed.DefaultTool)
	v.SetDefault("ncbi.email", "")
	v.SetDefault("ncbi.api_key", "")
	v.SetDefault("openalex.base_url", openalex.DefaultBaseURL)
	v.SetDefault("openalex.email", "")
	v.SetDefault("reputation.metadata_timeout", reputation.DefaultTimeout)
	v.SetDefault("reputation.signal_timeout", reputation.DefaultTimeout)
	v.SetDefault("calibration.citation_cap", cal.CitationCap)
	v.SetDefault("calibration.venue_works_cap", cal.VenueWorksCap)
	v.SetDefault("calibration.author_works_cap", cal.AuthorWorksCap)
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.shutdown_timeout", server.DefaultShutdownTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig decodes v into a Config and fills credentials from s.
// Calibration lives at the top level of the file but belongs to the engine.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Reputation.Calibration = types.Calibration{
		CitationCap:    v.GetInt("calibration.citation_cap"),
		VenueWorksCap:  v.GetInt("calibration.venue_works_cap"),
		AuthorWorksCap: v.GetInt("calibration.author_works_cap"),
	}
	if err := cfg.Reputation.Calibration.Validate(); err != nil {
		return types.Config{}, err
	}
	secrets.Apply(&cfg, s)
	return cfg, nil
}

// newLogger builds a slog logger writing to w.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

func clientOptions(cfg types.HTTPConfig, l *slog.Logger) []httputil.ClientOption {
	return []httputil.ClientOption{
		httputil.WithTimeout(cfg.Timeout),
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithLogger(l),
	}
}

func newPubMed(cfg types.Config, l *slog.Logger) *pubmed.Client {
	return pubmed.NewClient(cfg.NCBI, clientOptions(cfg.HTTP, l)...)
}

// newEngine wires the engine to live PubMed and OpenAlex clients.
func newEngine(cfg types.Config, l *slog.Logger) (*reputation.Engine, *pubmed.Client, error) {
	pm := newPubMed(cfg, l)
	oa := openalex.NewClient(cfg.OpenAlex, clientOptions(cfg.HTTP, l)...)
	e, err := reputation.NewEngine(pm, pm, oa, cfg.Reputation, reputation.WithLogger(l))
	if err != nil {
		return nil, nil, err
	}
	return e, pm, nil
}

// currentConfig loads the process-wide viper settings.
func currentConfig() (types.Config, error) {
	return loadConfig(viper.GetViper(), loadedSecrets)
}
