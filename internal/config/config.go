// Package config loads application configuration from a YAML file and
// API credentials from the environment, with a .env file picked up when
// present.
package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// KnowledgeConfig configures corpus ingestion.
type KnowledgeConfig struct {
	DataFile  string `yaml:"data_file"`
	ChunkSize int    `yaml:"chunk_size"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type      string `yaml:"type"`
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// ModelConfig configures the generative model used for answers. Leaving
// Model empty disables the model path; answers then come from the
// extractive fallback.
type ModelConfig struct {
	Host        string  `yaml:"host"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// ScraperConfig configures the web content collaborator. The Firecrawl
// key itself comes from the FIRECRAWL_API_KEY environment variable, not
// from the YAML file.
type ScraperConfig struct {
	Type string `yaml:"type"`
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Model     ModelConfig     `yaml:"model"`
	Scraper   ScraperConfig   `yaml:"scraper"`
}

// Load reads a config from path. A missing file yields defaults. A .env
// file in the working directory is loaded first so YAML-referenced env
// vars and API keys are available.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// FirecrawlAPIKey returns the Firecrawl credential from the environment,
// empty when unset.
func FirecrawlAPIKey() string {
	return os.Getenv("FIRECRAWL_API_KEY")
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Knowledge.DataFile == "" {
		cfg.Knowledge.DataFile = "data/uk_universities.md"
	}
	if cfg.Knowledge.ChunkSize == 0 {
		cfg.Knowledge.ChunkSize = 400
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "local"
	}
	if cfg.Embedder.Host == "" {
		cfg.Embedder.Host = "http://localhost:11434"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "nomic-embed-text"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 512
	}
	if cfg.Model.Host == "" {
		cfg.Model.Host = "http://localhost:11434"
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 2000
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.8
	}
	if cfg.Model.TimeoutSecs == 0 {
		cfg.Model.TimeoutSecs = 60
	}
	if cfg.Scraper.Type == "" {
		cfg.Scraper.Type = "http"
	}
}
