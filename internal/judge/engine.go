package judge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/llm"
	"github.com/supporteval/judge-agent/internal/models"
	"github.com/supporteval/judge-agent/internal/rubric"
)

// DefaultConcurrency bounds how many model calls a batch keeps in
// flight when the caller does not say otherwise.
const DefaultConcurrency = 5

// Engine evaluates support conversations with an LLM judge.
type Engine struct {
	client    llm.Client
	loader    *rubric.Loader
	modelName string
	logger    *zerolog.Logger
}

func NewEngine(client llm.Client, loader *rubric.Loader, modelName string, logger *zerolog.Logger) *Engine {
	return &Engine{
		client:    client,
		loader:    loader,
		modelName: modelName,
		logger:    logger,
	}
}

// Evaluate scores a single conversation against the named rubric. It
// always returns a structured result: model-call and parse failures
// degrade to an error result with critical_error set instead of
// surfacing as an error. Processing time spans the prompt send through
// parse completion.
func (e *Engine) Evaluate(ctx context.Context, conversation models.Conversation, rubricName string, includeFewShot, includeCalibration bool) models.EvaluationResult {
	start := time.Now()

	rb := e.loader.Load(rubricName)
	systemPrompt := BuildSystemPrompt(rb, includeCalibration)
	userPrompt := BuildUserPrompt(rb, conversation, includeFewShot)

	var result models.EvaluationResult
	raw, err := e.client.Send(ctx, systemPrompt, userPrompt)
	if err != nil {
		var callErr *llm.ModelCallError
		if errors.As(err, &callErr) {
			e.logger.Error().Err(err).
				Str("conversation_id", conversation.ID).
				Str("provider", string(callErr.Provider)).
				Msg("model call failed")
		} else {
			e.logger.Error().Err(err).
				Str("conversation_id", conversation.ID).
				Msg("evaluation failed")
		}
		result = ErrorResult(conversation.ID, err.Error())
	} else {
		result = ParseResponse(rb, raw, conversation.ID)
	}

	result.ProcessingTimeMS = time.Since(start).Milliseconds()
	result.ModelName = e.modelName
	result.RubricVersion = rb.Version

	return result
}

// EvaluateBatch evaluates conversations with bounded concurrency and
// returns one result per input, in input order. Few-shot examples are
// rendered only for the first conversation to keep prompt tokens down
// across a homogeneous batch. The progress callback receives a
// monotonic completed count even though completions arrive out of
// order.
func (e *Engine) EvaluateBatch(ctx context.Context, conversations []models.Conversation, rubricName string, includeFewShot, includeCalibration bool, concurrency int, progress func(completed, total int)) []models.EvaluationResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(conversations)
	results := make([]models.EvaluationResult, total)
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for idx, conv := range conversations {
		wg.Add(1)
		go func(idx int, conv models.Conversation) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			fewShot := includeFewShot && idx == 0
			results[idx] = e.Evaluate(ctx, conv, rubricName, fewShot, includeCalibration)

			mu.Lock()
			completed++
			if progress != nil {
				progress(completed, total)
			}
			mu.Unlock()
		}(idx, conv)
	}

	wg.Wait()

	return results
}
