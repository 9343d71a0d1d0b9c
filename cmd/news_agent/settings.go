package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/news-agent/internal/config"
)

// globalFlags are shared by every command.
type globalFlags struct {
	ConfigPath string
	APIKey     string
	Provider   string
	Model      string
	UseBrowser bool
	Verbose    bool
	Timeout    int
	LogLevel   string
}

var flags globalFlags

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")
	pf.StringVar(&flags.APIKey, "api-key", "", "LLM API key (overrides config file and GEMINI_API_KEY / ANTHROPIC_API_KEY)")
	pf.StringVar(&flags.Provider, "provider", "", "LLM provider: gemini or anthropic (default: gemini)")
	pf.StringVar(&flags.Model, "model", "", "Model used for analysis (default: provider's lite model)")
	pf.BoolVar(&flags.UseBrowser, "use-browser", false, "Re-render pages with too little text in headless Chrome")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Print progress and debug logs")
	pf.IntVar(&flags.Timeout, "timeout", 0, "Download timeout in seconds (default: 30)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// resolveConfig merges flags over the config file over the environment, then fills defaults.
func resolveConfig(cmd *cobra.Command, f globalFlags, getenv func(string) string) (config.Config, error) {
	var cfg config.Config
	if f.ConfigPath != "" {
		loaded, err := config.LoadConfig(f.ConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if f.Provider != "" {
		cfg.Provider = f.Provider
	}
	if f.Model != "" {
		cfg.Model = f.Model
	}
	if f.Timeout != 0 {
		cfg.TimeoutSeconds = f.Timeout
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	// Bools from the file stay unless the flag was given explicitly.
	if cmd != nil && cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = f.UseBrowser
	}
	if cmd != nil && cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.Verbose
	}

	cfg.ApplyEnv(getenv)
	// --verbose only picks the level when no flag, file or env value did.
	if cfg.Verbose && cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	merged := cfg.MergeWithDefaults(config.Config{})

	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}

	key, err := merged.ResolveAPIKey(f.APIKey, getenv)
	if err != nil {
		return config.Config{}, err
	}
	merged.APIKey = key
	return merged, nil
}
