// Package config resolves GeoIdentify settings from defaults, an optional
// YAML file, .env files and the process environment, in that order of
// increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile   = "GEOIDENTIFY_CONFIG"
	EnvAPIBase      = "GEOIDENTIFY_API_BASE"
	EnvAddr         = "GEOIDENTIFY_ADDR"
	EnvWebAddr      = "GEOIDENTIFY_WEB_ADDR"
	EnvLocale       = "GEOIDENTIFY_LOCALE"
	EnvKnowledge    = "GEOIDENTIFY_KB"
	EnvTheme        = "GEOIDENTIFY_THEME"
	EnvThemeVariant = "GEOIDENTIFY_THEME_VARIANT"
	EnvTopN         = "GEOIDENTIFY_TOP_N"
	EnvStripMarkup  = "GEOIDENTIFY_STRIP_MARKUP"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	UI     UIConfig     `yaml:"ui"`
	Model  ModelConfig  `yaml:"model"`
}

// APIConfig points the form at the prediction backend. StripMarkup removes
// HTML from labels and error details the backend sends.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	StripMarkup bool   `yaml:"strip_markup"`
}

// ServerConfig holds listen addresses for the API and the web UI.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	WebAddr string `yaml:"web_addr"`
}

type UIConfig struct {
	Locale       string `yaml:"locale"`
	Theme        string `yaml:"theme"`
	ThemeVariant string `yaml:"theme_variant"`
}

// ModelConfig configures the predictor. An empty KnowledgeBase selects the
// embedded one.
type ModelConfig struct {
	KnowledgeBase string `yaml:"knowledge_base"`
	TopN          int    `yaml:"top_n"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API:    APIConfig{BaseURL: "http://127.0.0.1:8000"},
		Server: ServerConfig{Addr: "127.0.0.1:8000", WebAddr: "127.0.0.1:8080"},
		UI:     UIConfig{Locale: "pt-BR", Theme: "geoidentify", ThemeVariant: "light"},
		Model:  ModelConfig{TopN: 10},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is a YAML config file. When empty, GEOIDENTIFY_CONFIG is used.
	File string
	// EnvFiles are dotenv files; missing files are skipped. Defaults to .env.
	EnvFiles []string
	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load resolves the configuration. Values from EnvFiles never override the
// process environment.
func Load(opts LoadOptions) (*Config, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}
	env := func(key string) string {
		if value, ok := lookup(key); ok {
			return strings.TrimSpace(value)
		}
		return strings.TrimSpace(dotenv[key])
	}

	cfg := Default()

	file := opts.File
	if file == "" {
		file = env(EnvConfigFile)
	}
	if file != "" {
		if err := cfg.mergeFile(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	present := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			present = append(present, file)
		}
	}
	if len(present) == 0 {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(present...)
	if err != nil {
		return nil, fmt.Errorf("config: read env files: %w", err)
	}
	return values, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env func(string) string) error {
	setString(&c.API.BaseURL, env(EnvAPIBase))
	setString(&c.Server.Addr, env(EnvAddr))
	setString(&c.Server.WebAddr, env(EnvWebAddr))
	setString(&c.UI.Locale, env(EnvLocale))
	setString(&c.UI.Theme, env(EnvTheme))
	setString(&c.UI.ThemeVariant, env(EnvThemeVariant))
	setString(&c.Model.KnowledgeBase, env(EnvKnowledge))

	if raw := env(EnvTopN); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvTopN, raw)
		}
		c.Model.TopN = n
	}
	if raw := env(EnvStripMarkup); raw != "" {
		strip, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, EnvStripMarkup, raw)
		}
		c.API.StripMarkup = strip
	}
	return nil
}

// Validate checks the values the commands rely on.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}
	base, err := url.Parse(c.API.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("%w: api base url %q", ErrInvalid, c.API.BaseURL)
	}
	if c.Model.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalid, c.Model.TopN)
	}
	if c.Server.Addr == "" || c.Server.WebAddr == "" {
		return fmt.Errorf("%w: listen addresses are required", ErrInvalid)
	}
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
