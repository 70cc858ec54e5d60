// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and contact details from a directory of
// plain-text files and from an optional dotenv file. In the directory form
// the filename is the key name and the trimmed file contents are the value.
//
// Recognized keys: ncbi-api-key, contact-email.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/pub-reputation/pkg/types"
)

// Secret key names.
const (
	KeyNCBIAPIKey   = "ncbi-api-key"
	KeyContactEmail = "contact-email"
)

// envNames maps dotenv variable names to secret key names.
var envNames = map[string]string{
	"NCBI_API_KEY":  KeyNCBIAPIKey,
	"CONTACT_EMAIL": KeyContactEmail,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadEnvFile reads NCBI_API_KEY and CONTACT_EMAIL from a dotenv file and
// returns them under their secret key names. A missing file yields an
// empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	secrets := make(map[string]string)
	for envName, key := range envNames {
		if v := strings.TrimSpace(env[envName]); v != "" {
			secrets[key] = v
		}
	}
	return secrets, nil
}

// Merge overlays later maps onto earlier ones.
func Merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Apply fills credentials that cfg leaves empty. Values already set through
// flags, config file or environment win.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.NCBI.APIKey == "" {
		cfg.NCBI.APIKey = s[KeyNCBIAPIKey]
	}
	if email := s[KeyContactEmail]; email != "" {
		if cfg.NCBI.Email == "" {
			cfg.NCBI.Email = email
		}
		if cfg.OpenAlex.Email == "" {
			cfg.OpenAlex.Email = email
		}
	}
}
