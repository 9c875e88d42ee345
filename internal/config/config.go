// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultMarkerAttribute = "data-theme"
	DefaultListenAddr      = ":8422"
	DefaultReportPath      = "docs/UI-AUDIT.md"
	DefaultMaxParagraphLen = 95

	// DefaultCSP is the hardened policy published on every page. The
	// policy string is configuration, not code: editing it here or in
	// the TOML file is the supported way to change it.
	DefaultCSP = "default-src 'none'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'; upgrade-insecure-requests;"
)

// DefaultExcludeDirs are path segments skipped when scanning the site tree.
var DefaultExcludeDirs = []string{"_site", "node_modules", ".git", "_includes", "_layouts"}

// Config represents the neuroshield-site configuration.
type Config struct {
	Site    SiteConfig    `toml:"site"`
	Theme   ThemeConfig   `toml:"theme"`
	Headers HeadersConfig `toml:"headers"`
	Audit   AuditConfig   `toml:"audit"`
	Serve   ServeConfig   `toml:"serve"`
}

// SiteConfig locates the static site tree.
type SiteConfig struct {
	Root        string   `toml:"root"`         // Site root directory (default: current directory)
	ExcludeDirs []string `toml:"exclude_dirs"` // Path segments skipped when scanning
}

// ThemeConfig holds theme controller settings.
type ThemeConfig struct {
	MarkerAttribute string `toml:"marker_attribute"` // Root element attribute carrying the dark marker
	StorePath       string `toml:"store_path"`       // Preference file override (default: XDG state dir)
}

// HeadersConfig holds security header rewriting settings.
type HeadersConfig struct {
	CSP                 string `toml:"csp"`
	HashInlineScripts   bool   `toml:"hash_inline_scripts"`   // Splice sha256 source hashes into script-src
	RemoveInlineScripts bool   `toml:"remove_inline_scripts"` // Strip inline scripts instead of hashing them
}

// AuditConfig holds UI audit settings.
type AuditConfig struct {
	MaxParagraphLen int    `toml:"max_paragraph_len"` // Average paragraph length warning threshold (chars)
	ReportPath      string `toml:"report_path"`       // Markdown report destination, relative to site root
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Root:        ".",
			ExcludeDirs: append([]string(nil), DefaultExcludeDirs...),
		},
		Theme: ThemeConfig{
			MarkerAttribute: DefaultMarkerAttribute,
		},
		Headers: HeadersConfig{
			CSP:               DefaultCSP,
			HashInlineScripts: true,
		},
		Audit: AuditConfig{
			MaxParagraphLen: DefaultMaxParagraphLen,
			ReportPath:      DefaultReportPath,
		},
		Serve: ServeConfig{
			Addr: DefaultListenAddr,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "neuroshield-site", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path; a missing default file
// yields defaults, while an explicitly named missing file is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Site.ExcludeDirs) == 0 {
		cfg.Site.ExcludeDirs = append([]string(nil), DefaultExcludeDirs...)
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
