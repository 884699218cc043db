package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Host     string `yaml:"host" env:"ASKAGENT_HOST"`
	Port     int    `yaml:"port" env:"ASKAGENT_PORT"`
	Debug    bool   `yaml:"debug" env:"ASKAGENT_DEBUG"`
	LogLevel string `yaml:"log_level" env:"ASKAGENT_LOG_LEVEL"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"ASKAGENT_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"ASKAGENT_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"ASKAGENT_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ASKAGENT_SHUTDOWN_TIMEOUT"`

	// CORS
	CORSOrigins []string `yaml:"cors_origins" env:"ASKAGENT_CORS_ORIGINS" envSeparator:","`

	// Observability
	EnableAuditLogging bool `yaml:"enable_audit_logging" env:"ASKAGENT_AUDIT_LOGGING"`
	EnableMetrics      bool `yaml:"enable_metrics" env:"ASKAGENT_METRICS"`

	LLM       LLMConfig       `yaml:"llm"`
	Agent     AgentConfig     `yaml:"agent" envPrefix:"ASKAGENT_AGENT_"`
	Wikipedia WikipediaConfig `yaml:"wikipedia" envPrefix:"ASKAGENT_WIKIPEDIA_"`
}

// LLMConfig selects the hosted model. The key and base URL use the provider's
// conventional variable names so existing shells work unchanged.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	BaseURL     string  `yaml:"base_url" env:"ANTHROPIC_BASE_URL"` // override for compatible proxies
	Model       string  `yaml:"model" env:"ASKAGENT_MODEL"`
	MaxTokens   int     `yaml:"max_tokens" env:"ASKAGENT_MAX_TOKENS"`
	Temperature float64 `yaml:"temperature" env:"ASKAGENT_TEMPERATURE"`
}

type AgentConfig struct {
	Mode                string        `yaml:"mode" env:"MODE"` // "react" | "direct"
	MaxIterations       int           `yaml:"max_iterations" env:"MAX_ITERATIONS"`
	HandleParsingErrors bool          `yaml:"handle_parsing_errors" env:"HANDLE_PARSING_ERRORS"`
	Timeout             time.Duration `yaml:"timeout" env:"TIMEOUT"` // 0 disables
}

type WikipediaConfig struct {
	APIURL         string        `yaml:"api_url" env:"API_URL"`
	Language       string        `yaml:"language" env:"LANGUAGE"`
	UserAgent      string        `yaml:"user_agent" env:"USER_AGENT"`
	TopK           int           `yaml:"top_k" env:"TOP_K"`
	MaxQueryLength int           `yaml:"max_query_length" env:"MAX_QUERY_LENGTH"`
	MaxDocChars    int           `yaml:"max_doc_chars" env:"MAX_DOC_CHARS"`
	RatePerSecond  float64       `yaml:"rate_per_second" env:"RATE_PER_SECOND"`
	Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Load builds the configuration from defaults, then the YAML file at path (or
// ASKAGENT_CONFIG when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("ASKAGENT_CONFIG")
	}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		Debug:           true,
		LogLevel:        DefaultLogLevel,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		CORSOrigins:     append([]string(nil), DefaultCORSOrigins...),

		EnableAuditLogging: true,
		EnableMetrics:      true,

		LLM: LLMConfig{
			Model:       DefaultModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Agent: AgentConfig{
			Mode:                DefaultAgentMode,
			MaxIterations:       DefaultAgentMaxIterations,
			HandleParsingErrors: DefaultHandleParsingErrors,
		},
		Wikipedia: WikipediaConfig{
			Language:       DefaultWikipediaLanguage,
			UserAgent:      DefaultWikipediaUserAgent,
			TopK:           DefaultWikipediaTopK,
			MaxQueryLength: DefaultWikipediaMaxQueryLength,
			MaxDocChars:    DefaultWikipediaMaxDocChars,
			RatePerSecond:  DefaultWikipediaRatePerSecond,
			Timeout:        DefaultWikipediaTimeout,
		},
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch strings.ToLower(c.Agent.Mode) {
	case "react", "direct":
		c.Agent.Mode = strings.ToLower(c.Agent.Mode)
	default:
		return fmt.Errorf("invalid agent mode %q (want react or direct)", c.Agent.Mode)
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("agent max_iterations must be at least 1, got %d", c.Agent.MaxIterations)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Wikipedia.TopK < 1 {
		return fmt.Errorf("wikipedia top_k must be at least 1, got %d", c.Wikipedia.TopK)
	}
	return nil
}

// WikipediaEndpoint returns the MediaWiki API URL, substituting the language
// into the default template when no explicit URL is configured.
func (c *Config) WikipediaEndpoint() string {
	if c.Wikipedia.APIURL != "" {
		return c.Wikipedia.APIURL
	}
	return fmt.Sprintf(DefaultWikipediaAPIURL, c.Wikipedia.Language)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
