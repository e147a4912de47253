package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/judge"
)

// Summary counts the outcome of a batch run.
type Summary struct {
	Processed int
	Failed    int
	Flagged   int
}

// Processor drains input records, evaluates each conversation with
// bounded concurrency and writes one output line per record. Malformed
// input lines are reported as failed records; a single bad record
// never aborts the run.
type Processor struct {
	engine      *judge.Engine
	rubricName  string
	concurrency int
	logger      *zerolog.Logger
}

func NewProcessor(engine *judge.Engine, rubricName string, concurrency int, logger *zerolog.Logger) *Processor {
	if concurrency <= 0 {
		concurrency = judge.DefaultConcurrency
	}
	return &Processor{
		engine:      engine,
		rubricName:  rubricName,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run consumes records until the channel closes or the context is
// cancelled, writing each outcome to the writer.
func (p *Processor) Run(ctx context.Context, records <-chan InputRecord, writer *Writer) Summary {
	sem := make(chan struct{}, p.concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var summary Summary

	first := true
	for record := range records {
		if ctx.Err() != nil {
			break
		}

		if record.Error != nil {
			p.logger.Warn().Err(record.Error).Int("line", record.LineNumber).Msg("skipping bad input record")
			if err := writer.Write(OutputRecord{LineNumber: record.LineNumber, Error: record.Error.Error()}); err != nil {
				p.logger.Error().Err(err).Msg("failed to write output record")
			}
			mu.Lock()
			summary.Failed++
			mu.Unlock()
			continue
		}

		// Few-shot examples only for the first evaluated record, matching
		// the engine's batch behavior.
		includeFewShot := first
		first = false

		wg.Add(1)
		go func(record InputRecord, includeFewShot bool) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result := p.engine.Evaluate(ctx, record.Conversation, p.rubricName, includeFewShot, true)

			if err := writer.Write(OutputRecord{LineNumber: record.LineNumber, Result: &result}); err != nil {
				p.logger.Error().Err(err).Int("line", record.LineNumber).Msg("failed to write output record")
			}

			mu.Lock()
			summary.Processed++
			if result.Flags.CriticalError || result.Flags.ComplianceIssue || result.Flags.EscalationNeeded {
				summary.Flagged++
			}
			mu.Unlock()
		}(record, includeFewShot)
	}

	wg.Wait()

	p.logger.Info().
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Int("flagged", summary.Flagged).
		Msg("batch run complete")

	return summary
}
