package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	Port string

	GeminiKey   string
	GroqKey     string
	OpenAIKey   string
	CerebrasKey string

	RedisURL    string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Generation GenerationConfig
	History    HistoryConfig
}

type GenerationConfig struct {
	Provider         string `yaml:"provider"`
	Model            string `yaml:"model"`
	FallbackEnabled  bool   `yaml:"fallback_enabled"`
	FallbackProvider string `yaml:"fallback_provider"`
	FallbackModel    string `yaml:"fallback_model"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	CacheTTLSeconds  int    `yaml:"cache_ttl_seconds"`
}

type HistoryConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// Timeout is the upper bound for a single provider call.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheTTL is zero when response caching is disabled.
func (g GenerationConfig) CacheTTL() time.Duration {
	return time.Duration(g.CacheTTLSeconds) * time.Second
}

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile reads the environment, overlays the YAML file at path (if it exists)
// and applies defaults. Callers validate with ValidateServer or ValidateWorker.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		Port:                     os.Getenv("PORT"),
		GeminiKey:                os.Getenv("GEMINI_API_KEY"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		CerebrasKey:              os.Getenv("CEREBRAS_API_KEY"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTIssuer:                os.Getenv("JWT_ISSUER"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
	}

	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "creativechef"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetGenerationDefaults()
	cfg.SetHistoryDefaults()

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation GenerationConfig `yaml:"generation"`
		History    HistoryConfig    `yaml:"history"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	g := yamlConfig.Generation
	if g.Provider != "" {
		c.Generation.Provider = g.Provider
	}
	if g.Model != "" {
		c.Generation.Model = g.Model
	}
	if g.FallbackEnabled {
		c.Generation.FallbackEnabled = true
	}
	if g.FallbackProvider != "" {
		c.Generation.FallbackProvider = g.FallbackProvider
	}
	if g.FallbackModel != "" {
		c.Generation.FallbackModel = g.FallbackModel
	}
	if g.TimeoutSeconds > 0 {
		c.Generation.TimeoutSeconds = g.TimeoutSeconds
	}
	if g.CacheTTLSeconds > 0 {
		c.Generation.CacheTTLSeconds = g.CacheTTLSeconds
	}
	if yamlConfig.History.RetentionDays > 0 {
		c.History.RetentionDays = yamlConfig.History.RetentionDays
	}

	return nil
}

func (c *Config) SetGenerationDefaults() {
	if c.Generation.Provider == "" {
		c.Generation.Provider = "gemini"
	}
	if c.Generation.FallbackEnabled && c.Generation.FallbackProvider == "" {
		c.Generation.FallbackProvider = "groq"
	}
	if c.Generation.TimeoutSeconds <= 0 {
		c.Generation.TimeoutSeconds = 180
	}
}

func (c *Config) SetHistoryDefaults() {
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = 30
	}
}

// APIKey returns the credential configured for the named provider.
func (c *Config) APIKey(provider string) string {
	switch strings.ToLower(provider) {
	case "gemini":
		return c.GeminiKey
	case "groq":
		return c.GroqKey
	case "openai":
		return c.OpenAIKey
	case "cerebras":
		return c.CerebrasKey
	default:
		return ""
	}
}

// OTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OTLPHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		headers[k] = strings.TrimSpace(v)
	}
	return headers
}

// HistoryEnabled reports whether generated recipes are queued for recording.
func (c *Config) HistoryEnabled() bool {
	return c.RedisURL != ""
}

// ValidateServer checks that every provider the server may call has a key.
func (c *Config) ValidateServer() error {
	if c.APIKey(c.Generation.Provider) == "" {
		return fmt.Errorf("API key for provider %q is required", c.Generation.Provider)
	}
	if c.Generation.FallbackEnabled && c.APIKey(c.Generation.FallbackProvider) == "" {
		return fmt.Errorf("API key for fallback provider %q is required", c.Generation.FallbackProvider)
	}
	return nil
}

// ValidateWorker checks the settings the history worker cannot run without.
func (c *Config) ValidateWorker() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}
