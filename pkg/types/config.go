package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every upstream client.
type HTTPConfig struct {
	// Timeout bounds a single upstream request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pub-reputation/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// NCBIConfig configures the E-utilities client for the primary registry.
type NCBIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Tool and Email identify the calling process to NCBI. Email is optional.
	Tool  string `json:"tool" yaml:"tool" mapstructure:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// OpenAlexConfig configures the secondary index client.
type OpenAlexConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`
}

// Calibration holds the caps at which each logarithmically scaled signal
// reaches a score of 100. They are tuning values, not derived constants.
type Calibration struct {
	CitationCap    int `json:"citation_cap" yaml:"citation_cap" mapstructure:"citation_cap"`
	VenueWorksCap  int `json:"venue_works_cap" yaml:"venue_works_cap" mapstructure:"venue_works_cap"`
	AuthorWorksCap int `json:"author_works_cap" yaml:"author_works_cap" mapstructure:"author_works_cap"`
}

// DefaultCalibration returns the reference caps: 200 citations, 50000 venue
// works and 300 author works.
func DefaultCalibration() Calibration {
	return Calibration{
		CitationCap:    200,
		VenueWorksCap:  50000,
		AuthorWorksCap: 300,
	}
}

// Validate reports an error if any cap is not positive.
func (c Calibration) Validate() error {
	switch {
	case c.CitationCap <= 0:
		return fmt.Errorf("calibration: citation_cap must be positive, got %d", c.CitationCap)
	case c.VenueWorksCap <= 0:
		return fmt.Errorf("calibration: venue_works_cap must be positive, got %d", c.VenueWorksCap)
	case c.AuthorWorksCap <= 0:
		return fmt.Errorf("calibration: author_works_cap must be positive, got %d", c.AuthorWorksCap)
	}
	return nil
}

// ReputationConfig holds settings for the scoring engine.
type ReputationConfig struct {
	// MetadataTimeout bounds the essential registry lookup (default 15s).
	MetadataTimeout time.Duration `json:"metadata_timeout" yaml:"metadata_timeout" mapstructure:"metadata_timeout"`

	// SignalTimeout bounds each optional lookup independently (default 15s).
	SignalTimeout time.Duration `json:"signal_timeout" yaml:"signal_timeout" mapstructure:"signal_timeout"`

	Calibration Calibration `json:"calibration" yaml:"calibration" mapstructure:"calibration"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LogConfig selects the structured logger's level and encoding.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for the process.
type Config struct {
	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	NCBI       NCBIConfig       `json:"ncbi" yaml:"ncbi" mapstructure:"ncbi"`
	OpenAlex   OpenAlexConfig   `json:"openalex" yaml:"openalex" mapstructure:"openalex"`
	Reputation ReputationConfig `json:"reputation" yaml:"reputation" mapstructure:"reputation"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
