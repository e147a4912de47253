package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/models"
)

// InputRecord is one parsed line of a JSONL conversation file. A line
// that fails to parse carries the error and its line number so the
// processor can report it without aborting the run.
type InputRecord struct {
	Conversation models.Conversation
	LineNumber   int
	Error        error
}

// Reader streams conversations from a JSONL source, one conversation
// per line. Blank lines are skipped; line numbers are preserved for
// error reporting.
type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll streams records until the source is exhausted or the context
// is cancelled. The channel is closed when reading stops.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			var conversation models.Conversation
			if err := json.Unmarshal([]byte(line), &conversation); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			} else if conversation.ID == "" {
				record.Error = fmt.Errorf("line %d: conversation id is required", lineNumber)
			} else {
				record.Conversation = conversation
			}

			select {
			case out <- record:
			case <-ctx.Done():
				r.logger.Info().Int("line", lineNumber).Msg("reader cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("failed to read input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
