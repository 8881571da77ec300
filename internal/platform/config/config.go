package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "http://localhost:8080/api"
	DefaultHTTPTimeout = 15 * time.Second
	appDirName         = "smartlib"
	configFileName     = "config.yaml"
)

type Config struct {
	BaseURL     string        `yaml:"base_url"`
	DataDir     string        `yaml:"data_dir"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	RateLimit   RateLimit     `yaml:"rate_limit"`
	Cache       Cache         `yaml:"cache"`
	Log         Log           `yaml:"log"`
	Journal     Journal       `yaml:"journal"`

	// Path is the file the config was read from, empty when only defaults apply.
	Path string `yaml:"-"`
}

type RateLimit struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type Cache struct {
	Enabled bool `yaml:"enabled"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Journal struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		DataDir:     defaultDataDir(),
		HTTPTimeout: DefaultHTTPTimeout,
		RateLimit:   RateLimit{PerSecond: 10, Burst: 5},
		Cache:       Cache{Enabled: true},
		Log:         Log{Level: "info", Format: "text"},
		Journal:     Journal{Enabled: true},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/smartlib/config.yaml (or the OS equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appDirName, configFileName)
	}
	return filepath.Join(dir, appDirName, configFileName)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(dir, appDirName)
}

// Load reads path (DefaultPath when empty), then applies SMARTLIB_* environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	payload, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SMARTLIB_BASE_URL"); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup("SMARTLIB_DATA_DIR"); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup("SMARTLIB_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("SMARTLIB_LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := lookup("SMARTLIB_HTTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SMARTLIB_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	if v, ok := lookup("SMARTLIB_CACHE"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SMARTLIB_CACHE: %w", err)
		}
		c.Cache.Enabled = enabled
	}
	return nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit needs per_second > 0 and burst >= 1")
	}
	return nil
}

func (c Config) CredentialPath() string {
	return filepath.Join(c.DataDir, "credentials.json")
}

func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "smartlib.db")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "smartlib.log")
}

func (c Config) JournalDir() string {
	if c.Journal.Dir != "" {
		return c.Journal.Dir
	}
	return filepath.Join(c.DataDir, "journal")
}

// WriteDefault creates path with the default configuration. An existing file is left alone.
func WriteDefault(path string) (bool, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	payload, err := yaml.Marshal(Default())
	if err != nil {
		return false, fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
