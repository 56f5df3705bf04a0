// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mondocite/mondocite/internal/export"
	"github.com/mondocite/mondocite/internal/style"
)

// Config represents repository configuration stored in .mondocite/config.json.
type Config struct {
	DefaultStyle  string `json:"default_style"`  // One of style.Available() IDs
	DefaultFormat string `json:"default_format"` // bibtex, ris, json or csv
}

const (
	RepoDir         = ".mondocite"
	ConfigFile      = "config.json"
	CitationsFile   = "citations.jsonl"
	CollectionsFile = "collections.jsonl"
	CacheDir        = "cache"
	DBFile          = "citations.db"
)

// RootEnv overrides the directory FindRepository starts from.
const RootEnv = "CITE_ROOT"

// Default returns the configuration written by "cite init".
func Default() *Config {
	return &Config{
		DefaultStyle:  string(style.Default),
		DefaultFormat: string(export.BibTeX),
	}
}

// RepoPath returns the path to the .mondocite directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// CitationsPath returns the path to citations.jsonl from a root path.
func CitationsPath(root string) string {
	return filepath.Join(root, RepoDir, CitationsFile)
}

// CollectionsPath returns the path to collections.jsonl from a root path.
func CollectionsPath(root string) string {
	return filepath.Join(root, RepoDir, CollectionsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir)
}

// DBPath returns the path to citations.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a citation repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a citation repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a citation repository (no %s directory found)", RepoDir)
		}
		abs = parent
	}
}

// StartDir returns the directory repository lookup begins from:
// $CITE_ROOT, then the global library_path, then the working directory.
func StartDir() (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		return ExpandPath(root), nil
	}
	if cfg, err := LoadGlobalConfig(); err == nil && cfg.LibraryPath != "" {
		if _, err := os.Stat(cfg.LibraryPath); err == nil {
			return cfg.LibraryPath, nil
		}
	}
	return os.Getwd()
}

// Load reads configuration from the repository at the given root.
// Missing keys fall back to Default values.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Style returns the configured default style, APA when unset or unknown.
func (c *Config) Style() style.Style {
	return style.Parse(c.DefaultStyle)
}

// Format returns the configured default export format, BibTeX when unset or unknown.
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.DefaultFormat)
	if err != nil {
		return export.BibTeX
	}
	return f
}

// ValidateStyle checks that the style name is known.
func ValidateStyle(name string) error {
	if name == "" {
		return nil // Empty defaults to APA
	}

	if !style.IsValid(name) {
		ids := make([]string, 0, len(style.Available()))
		for _, info := range style.Available() {
			ids = append(ids, string(info.ID))
		}
		return fmt.Errorf("invalid default_style: %s (valid: %v)", name, ids)
	}
	return nil
}

// ValidateFormat checks that the export format name is known.
func ValidateFormat(name string) error {
	if name == "" {
		return nil // Empty defaults to bibtex
	}

	if _, err := export.ParseFormat(name); err != nil {
		return fmt.Errorf("invalid default_format: %s (valid: %v)", name, export.Formats())
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
