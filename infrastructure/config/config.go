package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"web_navigator/domain/entities"
	"web_navigator/infrastructure/browser"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the navigator
type Config struct {
	Backend      string          `yaml:"backend"`
	Driver       DriverConfig    `yaml:"driver"`
	Capabilities map[string]bool `yaml:"capabilities"`
	Wait         WaitConfig      `yaml:"wait"`
	Image        ImageConfig     `yaml:"image"`
	Display      int             `yaml:"display"`
	StateDir     string          `yaml:"state_dir"`
	LogLevel     string          `yaml:"log_level"`

	// ConfirmDestructive asks before high-risk console commands
	ConfirmDestructive bool `yaml:"confirm_destructive"`
}

type DriverConfig struct {
	Path         string   `yaml:"path"`
	ChromeBinary string   `yaml:"chrome_binary"`
	Port         int      `yaml:"port"`
	Headless     bool     `yaml:"headless"`
	UserDataDir  string   `yaml:"user_data_dir"`
	Args         []string `yaml:"args"`
}

type WaitConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type ImageConfig struct {
	Confidence float64 `yaml:"confidence"`
	Grayscale  bool    `yaml:"grayscale"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Backend: browser.BackendSelenium,
		Capabilities: map[string]bool{
			entities.CapabilityPerformanceLogs: true,
		},
		Wait: WaitConfig{
			Timeout:      10 * time.Second,
			PollInterval: time.Second,
		},
		Image: ImageConfig{
			Confidence: 0.7,
		},
		LogLevel:           "info",
		ConfirmDestructive: true,
	}
}

// Load - reads .env (optional), then the YAML file at path (optional), then
// environment overrides, and validates the result
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("NAVIGATOR_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse config %s: %v", entities.ErrInvalidArgument, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("NAVIGATOR_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("BROWSER_DRIVER_PATH"); v != "" {
		c.Driver.Path = v
	}
	if v := os.Getenv("CHROME_BINARY_PATH"); v != "" {
		c.Driver.ChromeBinary = v
	}
	if v := os.Getenv("NAVIGATOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("NAVIGATOR_STATE_DIR"); v != "" {
		c.StateDir = v
	}

	bools := []struct {
		env string
		set func(bool)
	}{
		{"NAVIGATOR_HEADLESS", func(b bool) { c.Driver.Headless = b }},
		{"NAVIGATOR_CONFIRM", func(b bool) { c.ConfirmDestructive = b }},
		{"NAVIGATOR_PERFORMANCE_LOGS", func(b bool) { c.setCapability(entities.CapabilityPerformanceLogs, b) }},
		{"NAVIGATOR_BROWSER_LOGS", func(b bool) { c.setCapability(entities.CapabilityBrowserLogs, b) }},
	}
	for _, o := range bools {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", entities.ErrInvalidArgument, o.env, v)
		}
		o.set(b)
	}
	return nil
}

func (c *Config) setCapability(key string, v bool) {
	if c.Capabilities == nil {
		c.Capabilities = map[string]bool{}
	}
	c.Capabilities[key] = v
}

// Validate - rejects unknown capability keys and out-of-range values
func (c Config) Validate() error {
	if _, err := c.ParsedCapabilities(); err != nil {
		return err
	}
	switch strings.ToLower(c.Backend) {
	case browser.BackendSelenium, browser.BackendPlaywright:
	default:
		return fmt.Errorf("%w: unknown backend %q", entities.ErrInvalidArgument, c.Backend)
	}
	if c.Wait.Timeout < 0 {
		return fmt.Errorf("%w: wait.timeout must not be negative", entities.ErrInvalidArgument)
	}
	if c.Wait.PollInterval <= 0 {
		return fmt.Errorf("%w: wait.poll_interval must be positive", entities.ErrInvalidArgument)
	}
	if c.Image.Confidence <= 0 || c.Image.Confidence > 1 {
		return fmt.Errorf("%w: image.confidence must be in (0, 1]", entities.ErrInvalidArgument)
	}
	if c.Driver.Port < 0 || c.Driver.Port > 65535 {
		return fmt.Errorf("%w: driver.port %d out of range", entities.ErrInvalidArgument, c.Driver.Port)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", entities.ErrInvalidArgument, err)
	}
	return nil
}

// ParsedCapabilities - validates the capability option map
func (c Config) ParsedCapabilities() (entities.Capabilities, error) {
	return entities.ParseCapabilities(c.Capabilities)
}

// BrowserOptions - converts the driver section into browser options
func (c Config) BrowserOptions() (browser.Options, error) {
	caps, err := c.ParsedCapabilities()
	if err != nil {
		return browser.Options{}, err
	}
	return browser.Options{
		DriverPath:   c.Driver.Path,
		ChromeBinary: c.Driver.ChromeBinary,
		Port:         c.Driver.Port,
		Headless:     c.Driver.Headless,
		UserDataDir:  c.Driver.UserDataDir,
		Args:         c.Driver.Args,
		Capabilities: caps,
	}, nil
}

// NewLogger - builds the process logger at the configured level
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
