package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/voidTensor/law-agent/internal/credential"
)

// Config holds all application configuration.
type Config struct {
	Port                int           `yaml:"port"`
	BaseURL             string        `yaml:"base_url"`
	Model               string        `yaml:"model"`
	PolishAPIKey        string        `yaml:"polish_api_key"`
	FrameworkAPIKey     string        `yaml:"framework_api_key"`
	UpstreamTimeout     time.Duration `yaml:"upstream_timeout"`
	APIKey              string        `yaml:"api_key"`
	PolishPromptPath    string        `yaml:"polish_prompt_path"`
	FrameworkPromptPath string        `yaml:"framework_prompt_path"`
	LogLevel            string        `yaml:"log_level"`
	LogFormat           string        `yaml:"log_format"`
}

const (
	DefaultBaseURL = "https://api.siliconflow.cn/v1"
	DefaultModel   = "baidu/ERNIE-4.5-300B-A47B"
)

func defaults() Config {
	return Config{
		Port:            3000,
		BaseURL:         DefaultBaseURL,
		Model:           DefaultModel,
		UpstreamTimeout: 30 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// LoadDotenv populates the process environment from .env files. Variables
// already set win, and missing files are not an error.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from a YAML file (if path is non-empty), then
// applies environment variable overrides. An empty path returns defaults +
// env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	// Unprefixed names are the legacy .env layout and
	// lose to the LAW_AGENT_ ones.
	port := firstEnv("LAW_AGENT_PORT", "PORT")
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("config: invalid port %q: %w", port, err)
		}
		cfg.Port = p
	}
	if v := firstEnv("LAW_AGENT_POLISH_API_KEY", "DEEPSEEK_API_KEY"); v != "" {
		cfg.PolishAPIKey = v
	}
	if v := firstEnv("LAW_AGENT_FRAMEWORK_API_KEY", "DEEPSEEK_FRAME_API_KEY"); v != "" {
		cfg.FrameworkAPIKey = v
	}
	if v := os.Getenv("LAW_AGENT_UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid LAW_AGENT_UPSTREAM_TIMEOUT %q: %w", v, err)
		}
		cfg.UpstreamTimeout = d
	}

	strs := []struct {
		env string
		dst *string
	}{
		{"LAW_AGENT_BASE_URL", &cfg.BaseURL},
		{"LAW_AGENT_MODEL", &cfg.Model},
		{"LAW_AGENT_API_KEY", &cfg.APIKey},
		{"LAW_AGENT_POLISH_PROMPT_PATH", &cfg.PolishPromptPath},
		{"LAW_AGENT_FRAMEWORK_PROMPT_PATH", &cfg.FrameworkPromptPath},
		{"LAW_AGENT_LOG_LEVEL", &cfg.LogLevel},
		{"LAW_AGENT_LOG_FORMAT", &cfg.LogFormat},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Validate rejects values the server cannot start with. Missing handler
// credentials are not an error here: each handler reports its own.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.Model == "" {
		return errors.New("config: model is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("config: upstream_timeout must be positive, got %s", c.UpstreamTimeout)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

// Level returns the configured slog level, info if it does not parse.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Credentials returns the per-handler upstream keys.
func (c Config) Credentials() credential.Static {
	return credential.Static{
		credential.Polish:    c.PolishAPIKey,
		credential.Framework: c.FrameworkAPIKey,
	}
}
