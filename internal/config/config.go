package config

import (
	"fmt"
	"time"
)

// Provider selects the model API protocol for the judge.
type Provider string

const (
	ProviderOpenAICompatible Provider = "openai_compatible"
	ProviderVLLM             Provider = "vllm"
	ProviderOllama           Provider = "ollama"
	ProviderAnthropic        Provider = "anthropic"
	ProviderBedrock          Provider = "bedrock"
)

// APIKeySentinel marks a local deployment that needs no bearer token.
// The OpenAI-compatible client omits the Authorization header for it.
const APIKeySentinel = "not-needed"

// JudgeConfig holds model connection settings for the judge engine.
// ReadTimeout is the dominant latency bound since model generation is slow.
type JudgeConfig struct {
	Provider       Provider      `yaml:"provider"`
	ModelName      string        `yaml:"model_name"`
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	AWSRegion      string        `yaml:"aws_region"`
	Temperature    float64       `yaml:"temperature"`
	MaxTokens      int           `yaml:"max_tokens"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PoolTimeout    time.Duration `yaml:"pool_timeout"`
}

// LanguageToolConfig holds settings for the grammar checker integration.
type LanguageToolConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
}

// Config is the full judge service configuration.
type Config struct {
	Judge        JudgeConfig        `yaml:"judge"`
	LanguageTool LanguageToolConfig `yaml:"languagetool"`
	RubricsDir   string             `yaml:"rubrics_dir"`
	Concurrency  int                `yaml:"concurrency"`
}

func applyDefaults(cfg *Config) {
	if cfg.Judge.Provider == "" {
		cfg.Judge.Provider = ProviderOpenAICompatible
	}
	if cfg.Judge.ModelName == "" {
		cfg.Judge.ModelName = "gpt-oss-120b"
	}
	if cfg.Judge.BaseURL == "" {
		cfg.Judge.BaseURL = "http://localhost:8080/v1"
	}
	if cfg.Judge.APIKey == "" {
		cfg.Judge.APIKey = APIKeySentinel
	}
	if cfg.Judge.Temperature == 0 {
		cfg.Judge.Temperature = 0.1
	}
	if cfg.Judge.MaxTokens == 0 {
		cfg.Judge.MaxTokens = 4096
	}
	if cfg.Judge.ConnectTimeout == 0 {
		cfg.Judge.ConnectTimeout = 30 * time.Second
	}
	if cfg.Judge.ReadTimeout == 0 {
		cfg.Judge.ReadTimeout = 120 * time.Second
	}
	if cfg.Judge.WriteTimeout == 0 {
		cfg.Judge.WriteTimeout = 30 * time.Second
	}
	if cfg.Judge.PoolTimeout == 0 {
		cfg.Judge.PoolTimeout = 30 * time.Second
	}
	if cfg.LanguageTool.BaseURL == "" {
		cfg.LanguageTool.BaseURL = "http://localhost:8081/v2"
	}
	if cfg.LanguageTool.Language == "" {
		cfg.LanguageTool.Language = "de-DE"
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 5
	}
}

// Validate rejects configurations the engine cannot run with. This is
// the fatal, construction-time check: everything past it degrades
// gracefully instead of erroring.
func (c *Config) Validate() error {
	switch c.Judge.Provider {
	case ProviderOpenAICompatible, ProviderVLLM, ProviderOllama, ProviderAnthropic, ProviderBedrock:
	default:
		return fmt.Errorf("unknown judge provider %q", c.Judge.Provider)
	}
	if c.Judge.ModelName == "" {
		return fmt.Errorf("judge model name is required")
	}
	if c.Judge.Provider == ProviderAnthropic && c.Judge.APIKey == APIKeySentinel {
		return fmt.Errorf("anthropic provider requires an API key")
	}
	if c.Judge.Provider == ProviderBedrock && c.Judge.AWSRegion == "" {
		return fmt.Errorf("bedrock provider requires an AWS region")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
