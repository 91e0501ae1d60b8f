package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds everything the console needs to run. Values are loaded from an
// optional yaml file pointed to by CONFIG_FILE, then overridden by CREWDESK_
// prefixed environment variables.
type Config struct {
	APIBaseURL     string        `koanf:"api_base_url"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	Environment    string        `koanf:"environment"`
	Hostname       string        `koanf:"-"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ServerHost     string        `koanf:"server_host"`
	ServerPort     int           `koanf:"server_port"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
}

const (
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "CREWDESK_"
	environmentENV = "ENVIRONMENT"
)

// requiredFields are the config values that have no sensible default and must
// be provided by the file or the environment.
var requiredFields = []string{"APIBaseURL"}

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		CacheTTL:       5 * time.Minute,
		Environment:    "development",
		Hostname:       hostname,
		RequestTimeout: 30 * time.Second,
		ServerHost:     "0.0.0.0",
		ServerPort:     4330,
		SessionTTL:     12 * time.Hour,
	}

	k := koanf.New(".")

	// a missing config file is fine, a malformed one is not
	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "loading config file %s", path)
			}
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, field := range requiredFields {
		if !isSet(cfg, field) {
			snake := strcase.ToSnake(field)
			return nil, errors.Errorf("missing required config: set %s%s or %s in the config file", envPrefix, strings.ToUpper(snake), snake)
		}
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	return cfg, nil
}

func isSet(cfg *Config, field string) bool {
	switch field {
	case "APIBaseURL":
		return cfg.APIBaseURL != ""
	}
	return true
}

// NewForTest returns a config suitable for package tests without touching the
// environment.
func NewForTest() *Config {
	return &Config{
		APIBaseURL:     "http://127.0.0.1:4331",
		CacheTTL:       5 * time.Minute,
		Environment:    "test",
		Hostname:       "test",
		RequestTimeout: 5 * time.Second,
		ServerHost:     "127.0.0.1",
		ServerPort:     0,
		SessionTTL:     time.Hour,
	}
}
