package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AIMode selects how product analyses are produced.
type AIMode string

const (
	// AIModeProxy asks the backend, which holds the provider key.
	AIModeProxy AIMode = "proxy"
	// AIModeDirect calls the provider from the storefront.
	AIModeDirect AIMode = "direct"
)

type Config struct {
	APIBaseURL string        `mapstructure:"STOREFRONT_API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"STOREFRONT_API_TIMEOUT"`

	AIMode        AIMode `mapstructure:"STOREFRONT_AI_MODE"`
	GoogleAPIKey  string `mapstructure:"GOOGLE_API_KEY"`
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"`

	PrefsPath string `mapstructure:"STOREFRONT_PREFS_PATH"`
	LogLevel  string `mapstructure:"STOREFRONT_LOG_LEVEL"`
}

// EnvConfigFile names an optional dotenv or yaml file read before the
// environment. Environment variables win.
const EnvConfigFile = "STOREFRONT_CONFIG_FILE"

var defaults = map[string]any{
	"STOREFRONT_API_BASE_URL": "http://localhost:8080",
	"STOREFRONT_API_TIMEOUT":  "10s",
	"STOREFRONT_AI_MODE":      string(AIModeProxy),
	"GOOGLE_API_KEY":          "",
	"GEMINI_API_KEY":          "",
	"GEMINI_BASE_URL":         "",
	"STOREFRONT_PREFS_PATH":   "storefront-prefs.yaml",
	"STOREFRONT_LOG_LEVEL":    "info",
}

// Load reads the configuration. An invalid value is an error; the caller
// treats it as fatal.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString(EnvConfigFile)); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	cfg.AIMode = AIMode(strings.ToLower(strings.TrimSpace(string(cfg.AIMode))))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid STOREFRONT_API_BASE_URL %q", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("invalid STOREFRONT_API_TIMEOUT %s", c.APITimeout)
	}
	switch c.AIMode {
	case AIModeProxy, AIModeDirect:
	default:
		return fmt.Errorf("invalid STOREFRONT_AI_MODE %q (want proxy or direct)", c.AIMode)
	}
	return nil
}

// AIKey returns GOOGLE_API_KEY, falling back to GEMINI_API_KEY.
func (c Config) AIKey() string {
	if k := strings.TrimSpace(c.GoogleAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GeminiAPIKey)
}
