package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/cite/config.yml.
type GlobalConfig struct {
	LibraryPath    string `yaml:"library_path,omitempty"`    // Repository used outside any .mondocite tree
	CrossrefMailto string `yaml:"crossref_mailto,omitempty"` // Contact address for the CrossRef polite pool
	ListenAddr     string `yaml:"listen_addr,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	LogFormat      string `yaml:"log_format,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "cite"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DefaultListenAddr is used by "cite serve" when nothing else is set.
	DefaultListenAddr = "127.0.0.1:8080"

	// MailtoEnv overrides crossref_mailto.
	MailtoEnv = "CROSSREF_MAILTO"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cite/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandPath(cfg.LibraryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetCrossrefMailto returns the CrossRef contact address.
// $CROSSREF_MAILTO wins over the global config.
func GetCrossrefMailto() string {
	if v := os.Getenv(MailtoEnv); v != "" {
		return v
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.CrossrefMailto
}

// GetListenAddr returns the HTTP listen address for "cite serve".
func GetListenAddr() string {
	cfg, err := LoadGlobalConfig()
	if err != nil || cfg.ListenAddr == "" {
		return DefaultListenAddr
	}
	return cfg.ListenAddr
}
