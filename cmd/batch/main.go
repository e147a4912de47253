package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/supporteval/judge-agent/internal/batch"
	"github.com/supporteval/judge-agent/internal/models"
	"github.com/supporteval/judge-agent/internal/setup"
)

// humanScoreKey is the conversation metadata field carrying the 0-10
// human annotation used by validation mode.
const humanScoreKey = "human_score"

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file, one conversation per line ('-' for stdin)")
	output := flag.String("output", "", "Output JSONL file (default: stdout)")
	rubricName := flag.String("rubric", "", "Rubric name (default rubric when empty)")
	workers := flag.Int("workers", 0, "Concurrent evaluation workers (default: from config)")
	dryRun := flag.Bool("dry-run", false, "Validate input without evaluating")
	validate := flag.Bool("validate", false, "Validation mode: compute correlation with human annotations")
	corrThreshold := flag.Float64("correlation-threshold", 0.3, "Kendall's tau threshold for validation")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg, err := setup.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if *workers > 0 {
		cfg.Concurrency = *workers
	}

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, deps.Logger)

	// Dry run and validation modes buffer the whole input up front.
	if *dryRun {
		dryRunAndExit(collect(ctx, reader))
	}
	if *validate {
		runValidationMode(ctx, collect(ctx, reader), deps, *rubricName, *corrThreshold)
		return
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer := batch.NewWriter(outputFile)
	processor := batch.NewProcessor(deps.Engine, *rubricName, cfg.Concurrency, deps.Logger)

	summary := processor.Run(ctx, reader.ReadAll(ctx), writer)

	log.Info().
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Int("flagged", summary.Flagged).
		Dur("duration", time.Since(startTime)).
		Msg("Processing complete")

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func collect(ctx context.Context, reader *batch.Reader) []batch.InputRecord {
	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}
	log.Info().Int("total", len(records)).Msg("Input file parsed")
	return records
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

// runValidationMode evaluates every conversation and correlates the judge's
// scores with the human annotations carried in conversation metadata.
func runValidationMode(ctx context.Context, records []batch.InputRecord, deps *setup.Dependencies, rubricName string, threshold float64) {
	log.Info().Msg("Validation mode enabled")

	// Build map of conversation id -> human score for O(1) lookup
	humanScores := make(map[string]float64)
	missingAnnotations := 0

	var conversations []models.Conversation
	for _, record := range records {
		if record.Error != nil {
			log.Fatal().Int("line", record.LineNumber).Err(record.Error).Msg("Invalid input record")
		}

		score, ok := record.Conversation.Metadata[humanScoreKey].(float64)
		if !ok {
			log.Error().
				Int("line", record.LineNumber).
				Str("conversation_id", record.Conversation.ID).
				Msg("Record missing human_score metadata")
			missingAnnotations++
			continue
		}

		humanScores[record.Conversation.ID] = score
		conversations = append(conversations, record.Conversation)
	}

	if missingAnnotations > 0 {
		log.Fatal().
			Int("missing", missingAnnotations).
			Msg("Validation mode requires a numeric 'human_score' metadata field on every record")
	}

	log.Info().Int("total", len(conversations)).Msg("Evaluating records with human annotations...")

	results := deps.Engine.EvaluateBatch(ctx, conversations, rubricName, false, true, 0, nil)

	// Judge overall is 0-1, human annotations are 0-10.
	var pairs []models.ScorePair
	for _, result := range results {
		human, ok := humanScores[result.ConversationID]
		if !ok {
			log.Warn().Str("conversation_id", result.ConversationID).Msg("No human score found for result")
			continue
		}

		pairs = append(pairs, models.ScorePair{
			EvaluationID: result.ConversationID,
			JudgeOverall: result.OverallScore * 10,
			HumanOverall: human,
		})
	}

	log.Info().Msg("Computing correlation metrics...")
	report := deps.MetaEval.CalculateMetrics(pairs)

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal validation report")
	}
	fmt.Println(string(reportJSON))

	if report.OverallCorrelation.KendallTau < threshold {
		log.Error().
			Float64("kendall_tau", report.OverallCorrelation.KendallTau).
			Float64("threshold", threshold).
			Msg("Validation failed: Kendall's tau below threshold")
		os.Exit(1)
	}

	if report.CalibrationNeeded {
		log.Error().
			Float64("pearson_r", report.OverallCorrelation.PearsonR).
			Float64("mae", report.OverallCorrelation.MeanAbsoluteError).
			Msg("Validation failed: judge needs calibration")
		os.Exit(1)
	}

	log.Info().Msg("LLM judge validated against human annotations")
	log.Info().Msg("Safe to evaluate full dataset with these judge settings")
}
