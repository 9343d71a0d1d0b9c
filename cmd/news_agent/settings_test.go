package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/news-agent/internal/config"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

// newFlagCmd returns a command with its own bool flags so Changed() works without touching rootCmd.
func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("use-browser", false, "")
	cmd.Flags().Bool("verbose", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(nil, globalFlags{}, envFrom(map[string]string{
		config.EnvGeminiAPIKey: "env-key",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, config.DefaultProvider, cfg.Provider)
	assert.Equal(t, config.DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultPort, cfg.Port)
}

func TestResolveConfig_MissingAPIKey(t *testing.T) {
	_, err := resolveConfig(nil, globalFlags{}, envFrom(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestResolveConfig_FlagKeyWins(t *testing.T) {
	cfg, err := resolveConfig(nil, globalFlags{APIKey: "flag-key"}, envFrom(map[string]string{
		config.EnvGeminiAPIKey: "env-key",
	}))
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestResolveConfig_AnthropicUsesItsKey(t *testing.T) {
	cfg, err := resolveConfig(nil, globalFlags{Provider: "anthropic"}, envFrom(map[string]string{
		config.EnvGeminiAPIKey:    "gemini-key",
		config.EnvAnthropicAPIKey: "anthropic-key",
	}))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "anthropic-key", cfg.APIKey)
}

func TestResolveConfig_UnknownProvider(t *testing.T) {
	_, err := resolveConfig(nil, globalFlags{Provider: "openai", APIKey: "k"}, envFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestResolveConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.yaml")
	content := "api_key: file-key\nmodel: file-model\ntimeout_seconds: 12\nuse_browser: true\nmax_candidates: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := resolveConfig(nil, globalFlags{ConfigPath: path, Model: "flag-model"}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "flag-model", cfg.Model)
	assert.Equal(t, 12, cfg.TimeoutSeconds)
	assert.Equal(t, 20, cfg.MaxCandidates)
	assert.True(t, cfg.UseBrowser)
}

func TestResolveConfig_ExplicitBoolFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key":"k","use_browser":true}`), 0644))

	cmd := newFlagCmd(t, "--use-browser=false")
	cfg, err := resolveConfig(cmd, globalFlags{ConfigPath: path}, envFrom(nil))
	require.NoError(t, err)
	assert.False(t, cfg.UseBrowser)
}

func TestResolveConfig_VerboseSetsDebug(t *testing.T) {
	cmd := newFlagCmd(t, "--verbose")
	cfg, err := resolveConfig(cmd, globalFlags{Verbose: true, APIKey: "k"}, envFrom(nil))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestResolveConfig_VerboseKeepsConfiguredLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: k\nlog_level: warn\n"), 0644))

	cmd := newFlagCmd(t, "--verbose")
	cfg, err := resolveConfig(cmd, globalFlags{ConfigPath: path, Verbose: true}, envFrom(nil))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg, err = resolveConfig(cmd, globalFlags{Verbose: true, APIKey: "k"}, envFrom(map[string]string{
		config.EnvLogLevel: "error",
	}))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestResolveConfig_MissingFile(t *testing.T) {
	_, err := resolveConfig(nil, globalFlags{ConfigPath: filepath.Join(t.TempDir(), "nope.json")}, envFrom(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
