package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/supporteval/judge-agent/internal/judge"
	"github.com/supporteval/judge-agent/internal/rubric"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Send(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestProcessor(client *stubClient, concurrency int) *Processor {
	logger := newTestLogger()
	loader := rubric.NewLoader("", logger)
	engine := judge.NewEngine(client, loader, "test-model", logger)
	return NewProcessor(engine, rubric.DefaultRubricName, concurrency, logger)
}

func decodeOutput(t *testing.T, buf *bytes.Buffer) []OutputRecord {
	t.Helper()
	var records []OutputRecord
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var record OutputRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("Failed to decode output line: %v", err)
		}
		records = append(records, record)
	}
	return records
}

func TestProcessor_Run(t *testing.T) {
	input := `{"id":"conv-1","category":"retoure","messages":[{"role":"customer","content":"a"}]}
{"id":"conv-2","category":"zahlung","messages":[{"role":"customer","content":"b"}]}
{"id":"conv-3","category":"lieferung","messages":[{"role":"customer","content":"c"}]}`

	processor := newTestProcessor(&stubClient{
		response: `{"dimension_scores": {"accuracy": {"score": 4}}}`,
	}, 2)

	reader := NewReader(strings.NewReader(input), newTestLogger())
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	summary := processor.Run(context.Background(), reader.ReadAll(context.Background()), writer)

	if summary.Processed != 3 {
		t.Errorf("Expected 3 processed, got %d", summary.Processed)
	}
	if summary.Failed != 0 {
		t.Errorf("Expected 0 failed, got %d", summary.Failed)
	}

	records := decodeOutput(t, &buf)
	if len(records) != 3 {
		t.Fatalf("Expected 3 output lines, got %d", len(records))
	}
	for _, record := range records {
		if record.Result == nil {
			t.Errorf("Line %d: expected a result", record.LineNumber)
		}
	}
}

func TestProcessor_BadLineDoesNotAbort(t *testing.T) {
	input := `{"id":"conv-1","category":"retoure","messages":[{"role":"customer","content":"a"}]}
{broken
{"id":"conv-2","category":"zahlung","messages":[{"role":"customer","content":"b"}]}`

	processor := newTestProcessor(&stubClient{
		response: `{"dimension_scores": {"accuracy": {"score": 4}}}`,
	}, 2)

	reader := NewReader(strings.NewReader(input), newTestLogger())
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	summary := processor.Run(context.Background(), reader.ReadAll(context.Background()), writer)

	if summary.Processed != 2 {
		t.Errorf("Expected 2 processed, got %d", summary.Processed)
	}
	if summary.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", summary.Failed)
	}

	records := decodeOutput(t, &buf)
	errorLines := 0
	for _, record := range records {
		if record.Error != "" {
			errorLines++
			if record.LineNumber != 2 {
				t.Errorf("Expected error on line 2, got %d", record.LineNumber)
			}
		}
	}
	if errorLines != 1 {
		t.Errorf("Expected 1 error record, got %d", errorLines)
	}
}

func TestProcessor_ModelFailureCountsAsFlagged(t *testing.T) {
	input := `{"id":"conv-1","category":"retoure","messages":[{"role":"customer","content":"a"}]}`

	processor := newTestProcessor(&stubClient{err: errors.New("upstream down")}, 1)

	reader := NewReader(strings.NewReader(input), newTestLogger())
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	summary := processor.Run(context.Background(), reader.ReadAll(context.Background()), writer)

	// Model failure degrades to a flagged result, not a failed record.
	if summary.Processed != 1 {
		t.Errorf("Expected 1 processed, got %d", summary.Processed)
	}
	if summary.Flagged != 1 {
		t.Errorf("Expected 1 flagged, got %d", summary.Flagged)
	}

	records := decodeOutput(t, &buf)
	if len(records) != 1 || records[0].Result == nil {
		t.Fatal("Expected a structured result for the failed evaluation")
	}
	if !records[0].Result.Flags.CriticalError {
		t.Error("Expected critical_error flag on the degraded result")
	}
}
