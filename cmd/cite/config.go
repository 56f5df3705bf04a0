package main

import (
	"fmt"
	"strings"

	"github.com/mondocite/mondocite/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set library configuration values",
	Long: `Get or set library configuration values.

Usage:
  cite config                        # Show all config
  cite config default-style          # Get specific value
  cite config default-style mla      # Set value
  cite config default-format ris

Keys:
  default-style   Style used by "cite format" (apa, mla, chicago, harvard, ieee)
  default-format  Format used by "cite export" (bibtex, ris, json, csv)

Machine-wide settings (library_path, crossref_mailto, listen_addr,
log_level, log_format) live in the global config file:
  $XDG_CONFIG_HOME/cite/config.yml`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("default-style:  %s\n", cfg.DefaultStyle)
			fmt.Printf("default-format: %s\n", cfg.DefaultFormat)
			fmt.Printf("global config:  %s\n", config.GlobalConfigPath())
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])

	if len(args) == 1 {
		value, ok := getConfigValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	value := strings.ToLower(strings.TrimSpace(args[1]))
	if err := setConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey accepts default_style, DEFAULT-STYLE and default-style alike.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

func getConfigValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "default-style":
		return cfg.DefaultStyle, true
	case "default-format":
		return cfg.DefaultFormat, true
	}
	return "", false
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "default-style":
		if err := config.ValidateStyle(value); err != nil {
			return err
		}
		cfg.DefaultStyle = value
	case "default-format":
		if err := config.ValidateFormat(value); err != nil {
			return err
		}
		if value == "bib" {
			value = "bibtex"
		}
		cfg.DefaultFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
