package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"web_navigator/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates Load from the developer's environment and any .env file
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NAVIGATOR_CONFIG", "NAVIGATOR_BACKEND", "BROWSER_DRIVER_PATH", "CHROME_BINARY_PATH",
		"NAVIGATOR_LOG_LEVEL", "NAVIGATOR_STATE_DIR", "NAVIGATOR_HEADLESS",
		"NAVIGATOR_PERFORMANCE_LOGS", "NAVIGATOR_BROWSER_LOGS", "NAVIGATOR_CONFIRM",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	caps, err := cfg.ParsedCapabilities()
	require.NoError(t, err)
	assert.Equal(t, entities.Capabilities{PerformanceLogs: true}, caps)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
backend: playwright
driver:
  headless: true
  args: ["--window-size=1280,720"]
capabilities:
  performance_logs: true
  browser_logs: true
wait:
  timeout: 5s
  poll_interval: 250ms
image:
  confidence: 0.9
  grayscale: true
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "playwright", cfg.Backend)
	assert.True(t, cfg.Driver.Headless)
	assert.Equal(t, 5*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)
	assert.Equal(t, 0.9, cfg.Image.Confidence)
	assert.True(t, cfg.Image.Grayscale)

	opts, err := cfg.BrowserOptions()
	require.NoError(t, err)
	assert.Equal(t, entities.Capabilities{PerformanceLogs: true, BrowserLogs: true}, opts.Capabilities)
	assert.Equal(t, []string{"--window-size=1280,720"}, opts.Args)

	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "backend: playwright\n")
	t.Setenv("NAVIGATOR_CONFIG", path)
	t.Setenv("NAVIGATOR_BACKEND", "selenium")
	t.Setenv("BROWSER_DRIVER_PATH", "/opt/chromedriver")
	t.Setenv("NAVIGATOR_HEADLESS", "true")
	t.Setenv("NAVIGATOR_PERFORMANCE_LOGS", "false")
	t.Setenv("NAVIGATOR_BROWSER_LOGS", "1")
	t.Setenv("NAVIGATOR_CONFIRM", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "selenium", cfg.Backend)
	assert.Equal(t, "/opt/chromedriver", cfg.Driver.Path)
	assert.True(t, cfg.Driver.Headless)
	assert.False(t, cfg.ConfirmDestructive)

	caps, err := cfg.ParsedCapabilities()
	require.NoError(t, err)
	assert.Equal(t, entities.Capabilities{BrowserLogs: true}, caps)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown capability": "capabilities:\n  network_logs: true\n",
		"bad confidence":     "image:\n  confidence: 1.5\n",
		"zero interval":      "wait:\n  poll_interval: 0s\n",
		"negative timeout":   "wait:\n  timeout: -1s\n",
		"unknown backend":    "backend: firefox\n",
		"bad log level":      "log_level: loud\n",
		"bad port":           "driver:\n  port: 70000\n",
		"not yaml":           "backend: [selenium\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, entities.ErrInvalidArgument)
		})
	}
}

func TestLoadRejectsBadBoolEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAVIGATOR_HEADLESS", "sometimes")

	_, err := Load("")
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
