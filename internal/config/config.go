package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	RedisURL string

	GroqKey   string
	GroqModel string

	ApifyAPIKey    string
	ProxyServerURL string
	ProxyAPIKey    string
	YouTubeAPIKey  string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Parsing ParsingConfig
}

type ParsingConfig struct {
	Strategy            string `yaml:"strategy"`
	FallbackEnabled     bool   `yaml:"fallback_enabled"`
	DefaultLanguage     string `yaml:"default_language"`
	PreferQuantityLines bool   `yaml:"prefer_quantity_lines"`
	SegmentThreshold    int    `yaml:"segment_threshold"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTIssuer:                os.Getenv("JWT_ISSUER"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		GroqModel:                os.Getenv("GROQ_MODEL"),
		ApifyAPIKey:              os.Getenv("APIFY_API_KEY"),
		ProxyServerURL:           os.Getenv("PROXY_SERVER_URL"),
		ProxyAPIKey:              os.Getenv("PROXY_API_KEY"),
		YouTubeAPIKey:            os.Getenv("YOUTUBE_API_KEY"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "recipereel-colette"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.SetParsingDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
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
		Parsing ParsingConfig `yaml:"parsing"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Parsing.Strategy != "" {
		c.Parsing.Strategy = yamlConfig.Parsing.Strategy
	}
	if yamlConfig.Parsing.FallbackEnabled {
		c.Parsing.FallbackEnabled = yamlConfig.Parsing.FallbackEnabled
	}
	if yamlConfig.Parsing.DefaultLanguage != "" {
		c.Parsing.DefaultLanguage = yamlConfig.Parsing.DefaultLanguage
	}
	if yamlConfig.Parsing.PreferQuantityLines {
		c.Parsing.PreferQuantityLines = yamlConfig.Parsing.PreferQuantityLines
	}
	if yamlConfig.Parsing.SegmentThreshold > 0 {
		c.Parsing.SegmentThreshold = yamlConfig.Parsing.SegmentThreshold
	}

	return nil
}

func (c *Config) SetParsingDefaults() {
	if c.Parsing.Strategy == "" {
		c.Parsing.Strategy = "heuristic"
	}
	if !c.Parsing.FallbackEnabled {
		c.Parsing.FallbackEnabled = true
	}
	if c.Parsing.DefaultLanguage == "" {
		c.Parsing.DefaultLanguage = "en"
	}
	if !c.Parsing.PreferQuantityLines {
		c.Parsing.PreferQuantityLines = true
	}
	if c.Parsing.SegmentThreshold == 0 {
		c.Parsing.SegmentThreshold = 120
	}
}

// AIEnabled reports whether the AI-assisted strategy can be constructed.
func (c *Config) AIEnabled() bool {
	return c.GroqKey != ""
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}
