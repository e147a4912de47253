package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JUDGE_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Judge.Provider != ProviderOpenAICompatible {
		t.Errorf("expected default provider, got %q", cfg.Judge.Provider)
	}
	if cfg.Judge.APIKey != APIKeySentinel {
		t.Errorf("expected sentinel API key, got %q", cfg.Judge.APIKey)
	}
	if cfg.Judge.ReadTimeout != 120*time.Second {
		t.Errorf("expected 120s read timeout, got %v", cfg.Judge.ReadTimeout)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("expected default concurrency 5, got %d", cfg.Concurrency)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "judge.yaml")
	content := `
judge:
  provider: anthropic
  model_name: claude-sonnet-4-20250514
  api_key: sk-test
  temperature: 0.2
  max_tokens: 2048
languagetool:
  enabled: true
concurrency: 8
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JUDGE_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Judge.Provider != ProviderAnthropic {
		t.Errorf("expected anthropic provider, got %q", cfg.Judge.Provider)
	}
	if cfg.Judge.MaxTokens != 2048 {
		t.Errorf("expected max_tokens 2048, got %d", cfg.Judge.MaxTokens)
	}
	if !cfg.LanguageTool.Enabled {
		t.Error("expected languagetool enabled")
	}
	if cfg.LanguageTool.Language != "de-DE" {
		t.Errorf("expected default language de-DE, got %q", cfg.LanguageTool.Language)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.Judge.Provider = "palm" }, true},
		{"missing model", func(c *Config) { c.Judge.ModelName = "" }, true},
		{"anthropic without key", func(c *Config) {
			c.Judge.Provider = ProviderAnthropic
		}, true},
		{"bedrock without region", func(c *Config) {
			c.Judge.Provider = ProviderBedrock
		}, true},
		{"bedrock with region", func(c *Config) {
			c.Judge.Provider = ProviderBedrock
			c.Judge.AWSRegion = "us-east-1"
		}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
