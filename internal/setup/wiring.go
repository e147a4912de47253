package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/config"
	"github.com/supporteval/judge-agent/internal/judge"
	"github.com/supporteval/judge-agent/internal/languagetool"
	"github.com/supporteval/judge-agent/internal/llm"
	"github.com/supporteval/judge-agent/internal/llm/bedrock"
	"github.com/supporteval/judge-agent/internal/llm/claude"
	"github.com/supporteval/judge-agent/internal/llm/gpt"
	"github.com/supporteval/judge-agent/internal/metaeval"
	"github.com/supporteval/judge-agent/internal/rubric"
)

// Dependencies bundles the wired components shared by the binaries.
type Dependencies struct {
	Config       *config.Config
	Rubrics      *rubric.Loader
	Engine       *judge.Engine
	LanguageTool *languagetool.Client
	MetaEval     *metaeval.Service
	Logger       *zerolog.Logger
}

// LoadConfig reads the YAML config file and layers environment
// overrides on top, so deployments can tweak a single value without
// re-rendering the file.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cfg.Judge.Provider = config.Provider(getEnv("JUDGE_PROVIDER", string(cfg.Judge.Provider)))
	cfg.Judge.ModelName = getEnv("JUDGE_MODEL_NAME", cfg.Judge.ModelName)
	cfg.Judge.BaseURL = getEnv("JUDGE_BASE_URL", cfg.Judge.BaseURL)
	cfg.Judge.APIKey = getEnv("JUDGE_API_KEY", cfg.Judge.APIKey)
	cfg.Judge.AWSRegion = getEnv("AWS_REGION", cfg.Judge.AWSRegion)
	cfg.LanguageTool.BaseURL = getEnv("LANGUAGETOOL_BASE_URL", cfg.LanguageTool.BaseURL)
	cfg.RubricsDir = getEnv("RUBRICS_DIR", cfg.RubricsDir)
	cfg.Concurrency = getEnvInt("JUDGE_CONCURRENCY", cfg.Concurrency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Wire builds the evaluation stack from configuration.
func Wire(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	client, err := createModelClient(ctx, cfg.Judge)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	rubrics := rubric.NewLoader(cfg.RubricsDir, logger)
	engine := judge.NewEngine(client, rubrics, cfg.Judge.ModelName, logger)

	var lt *languagetool.Client
	if cfg.LanguageTool.Enabled {
		lt = languagetool.NewClient(cfg.LanguageTool, logger)
	}

	return &Dependencies{
		Config:       cfg,
		Rubrics:      rubrics,
		Engine:       engine,
		LanguageTool: lt,
		MetaEval:     metaeval.NewService(logger),
		Logger:       logger,
	}, nil
}

func createModelClient(ctx context.Context, cfg config.JudgeConfig) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return claude.NewClient(cfg)
	case config.ProviderBedrock:
		return bedrock.NewClient(ctx, cfg)
	default:
		// openai_compatible, vllm and ollama all speak the same chat
		// completions protocol.
		return gpt.NewClient(cfg)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
