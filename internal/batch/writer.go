package batch

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/supporteval/judge-agent/internal/models"
)

// OutputRecord is one line of the JSONL result file. Either Result or
// Error is populated.
type OutputRecord struct {
	LineNumber int                      `json:"line_number"`
	Result     *models.EvaluationResult `json:"result,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// Writer serializes output records as JSONL. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriter(dest io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(dest)}
}

func (w *Writer) Write(record OutputRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(record)
}
