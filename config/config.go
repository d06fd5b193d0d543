// Package config loads the server settings once at startup. The
// resulting Settings value is treated as an immutable snapshot and
// passed by value to every component that needs it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the full server configuration.
type Settings struct {
	// Bundle is the record type representing a service request.
	Bundle string `yaml:"bundle"`
	// TaxCategory and TaxStatus name the vocabularies used for
	// category and status terms.
	TaxCategory string `yaml:"tax_category"`
	TaxStatus   string `yaml:"tax_status"`

	// StatusOpen is the set of status term ids classified as open.
	// StatusClosed is kept for reference and validation; it is never
	// consulted during classification.
	StatusOpen   []string `yaml:"status_open"`
	StatusClosed []string `yaml:"status_closed"`
	// StatusOpenStart lists the status ids applied to newly created
	// requests; only the first entry is used.
	StatusOpenStart []string `yaml:"status_open_start"`

	LimitDefault int `yaml:"limit_default"`
	LimitMax     int `yaml:"limit_max"`
	// NIDLimit overrides the result limit whenever a nids filter is
	// present.
	NIDLimit int `yaml:"nid_limit"`

	// AdminKeyHash is a bcrypt hash of the privileged key. An empty
	// hash means no key ever matches.
	AdminKeyHash string `yaml:"admin_key_hash"`
	JWTSecret    string `yaml:"jwt_secret"`

	// Service discovery metadata.
	Contact    string `yaml:"contact"`
	ServerType string `yaml:"server_type"`
	KeyService string `yaml:"key_service"`
	Changeset  string `yaml:"changeset"`

	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"`
	// MediaDir receives downloaded media files; MediaBaseURL is the
	// public prefix they are served under.
	MediaDir     string `yaml:"media_dir"`
	MediaBaseURL string `yaml:"media_base_url"`
}

// Defaults returns the settings applied when no file overrides them.
func Defaults() Settings {
	return Settings{
		Bundle:       "service_request",
		TaxCategory:  "service_category",
		TaxStatus:    "service_status",
		LimitDefault: 25,
		LimitMax:     50,
		NIDLimit:     100,
		ServerType:   "production",
		Addr:         ":8080",
	}
}

// Load reads settings from path (optional) and applies environment
// overrides. An empty path yields defaults plus environment.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		s.DatabaseURL = v
	}
	if v := os.Getenv("GEOREPORT_ADDR"); v != "" {
		s.Addr = v
	}
	if v := os.Getenv("GEOREPORT_JWT_SECRET"); v != "" {
		s.JWTSecret = v
	}
	if v := os.Getenv("GEOREPORT_ADMIN_KEY_HASH"); v != "" {
		s.AdminKeyHash = v
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) validate() error {
	if s.Bundle == "" {
		return fmt.Errorf("config: bundle must not be empty")
	}
	if s.LimitDefault <= 0 {
		return fmt.Errorf("config: limit_default must be positive")
	}
	if s.LimitMax < s.LimitDefault {
		return fmt.Errorf("config: limit_max %d below limit_default %d", s.LimitMax, s.LimitDefault)
	}
	if s.NIDLimit <= 0 {
		return fmt.Errorf("config: nid_limit must be positive")
	}
	return nil
}
