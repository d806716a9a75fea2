package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the edubot service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Translate TranslateConfig `yaml:"translate"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DataConfig holds dataset discovery configuration.
type DataConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	// LoadOnStart loads the corpus before the server accepts requests.
	LoadOnStart bool `yaml:"load_on_start"`
}

// RetrieveConfig holds ranking configuration.
type RetrieveConfig struct {
	// Strategy selects the answering route: "dense" or "lexical".
	Strategy         string  `yaml:"strategy"`
	TopK             int     `yaml:"top_k"`
	DenseThreshold   float64 `yaml:"dense_threshold"`
	LexicalThreshold float64 `yaml:"lexical_threshold"`
	// CacheSize caps the in-memory rank cache (0 disables it).
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"` // "mistral", "openai", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// LLMConfig holds chat model configuration.
type LLMConfig struct {
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// TranslateConfig holds Roman Urdu handling configuration.
type TranslateConfig struct {
	Enabled bool `yaml:"enabled"`
	// Mode selects the detection heuristic: "strict" or "loose".
	Mode      string        `yaml:"mode"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CacheConfig holds the persistent cache configuration.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Data: DataConfig{
			Dir:         "data",
			Includes:    []string{"**/*.csv"},
			Excludes:    []string{"**/.git/**"},
			LoadOnStart: true,
		},
		Retrieve: RetrieveConfig{
			Strategy:         "dense",
			TopK:             3,
			DenseThreshold:   0.2,
			LexicalThreshold: 0.1,
			CacheSize:        256,
			CacheTTL:         5 * time.Minute,
		},
		Embedding: EmbeddingConfig{
			Enabled:   true,
			Provider:  "mistral",
			Model:     "mistral-embed",
			APIKeyEnv: "MISTRAL_API_KEY",
		},
		LLM: LLMConfig{
			Model:       "mistral-small-latest",
			APIKeyEnv:   "MISTRAL_API_KEY",
			Temperature: 0.3,
			MaxTokens:   500,
			Timeout:     30 * time.Second,
		},
		Translate: TranslateConfig{
			Enabled:   true,
			Mode:      "strict",
			MaxTokens: 100,
			Timeout:   10 * time.Second,
		},
		Cache: CacheConfig{
			Path: ".edubot/cache.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for edubot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "edubot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".edubot", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// EnsureCacheDir ensures the directory for the persistent cache exists.
func (c *Config) EnsureCacheDir() error {
	dir := filepath.Dir(c.Cache.Path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
