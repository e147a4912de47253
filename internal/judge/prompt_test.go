package judge

import (
	"strings"
	"testing"

	"github.com/supporteval/judge-agent/internal/models"
)

func TestBuildSystemPrompt_ListsDimensionsInOrder(t *testing.T) {
	rb := testRubric()
	prompt := BuildSystemPrompt(rb, false)

	idxAccuracy := strings.Index(prompt, "**Accuracy** (25%)")
	idxTone := strings.Index(prompt, "**Tone** (20%)")
	idxEfficiency := strings.Index(prompt, "**Efficiency** (10%)")

	if idxAccuracy == -1 || idxTone == -1 || idxEfficiency == -1 {
		t.Fatal("Expected all dimensions with percentage weights in system prompt")
	}
	if !(idxAccuracy < idxTone && idxTone < idxEfficiency) {
		t.Error("Expected dimensions rendered in rubric authoring order")
	}
	if !strings.Contains(prompt, `"dimension_scores"`) {
		t.Error("Expected JSON output schema in system prompt")
	}
	if !strings.Contains(prompt, `"chain_of_thought"`) {
		t.Error("Expected chain_of_thought block in output schema")
	}
}

func TestBuildSystemPrompt_CalibrationNotes(t *testing.T) {
	rb := testRubric()
	rb.CalibrationNotes = "Score 5 only for flawless responses."

	with := BuildSystemPrompt(rb, true)
	without := BuildSystemPrompt(rb, false)

	if !strings.Contains(with, rb.CalibrationNotes) {
		t.Error("Expected calibration notes when includeCalibration=true")
	}
	if strings.Contains(without, rb.CalibrationNotes) {
		t.Error("Expected no calibration notes when includeCalibration=false")
	}
}

func TestBuildUserPrompt_RendersAllMessagesInOrder(t *testing.T) {
	rb := testRubric()
	conv := models.Conversation{
		ID:       "conv-42",
		Category: "retoure",
		Messages: []models.Message{
			{Role: "customer", Content: "Ich möchte meine Bestellung zurückgeben."},
			{Role: "chatbot", Content: "Gerne, Sie haben 14 Tage Widerrufsrecht."},
			{Role: "customer", Content: "Danke!"},
		},
	}

	prompt := BuildUserPrompt(rb, conv, false)

	if !strings.Contains(prompt, "**Category**: retoure") {
		t.Error("Expected category in user prompt")
	}
	if !strings.Contains(prompt, "**Conversation ID**: conv-42") {
		t.Error("Expected conversation id in user prompt")
	}

	first := strings.Index(prompt, "**CUSTOMER**: Ich möchte")
	second := strings.Index(prompt, "**CHATBOT**: Gerne")
	third := strings.Index(prompt, "**CUSTOMER**: Danke!")
	if first == -1 || second == -1 || third == -1 {
		t.Fatal("Expected every message rendered as ROLE: content")
	}
	if !(first < second && second < third) {
		t.Error("Expected messages in original order")
	}
}

func TestBuildUserPrompt_FewShotCappedAtTwo(t *testing.T) {
	rb := testRubric()
	rb.FewShotExamples = []models.FewShotExample{
		{Conversation: []models.Message{{Role: "customer", Content: "a"}}},
		{Conversation: []models.Message{{Role: "customer", Content: "b"}}},
		{Conversation: []models.Message{{Role: "customer", Content: "c"}}},
	}
	conv := models.Conversation{ID: "c1", Category: "allgemein"}

	prompt := BuildUserPrompt(rb, conv, true)

	if !strings.Contains(prompt, "### Example 1") || !strings.Contains(prompt, "### Example 2") {
		t.Error("Expected two few-shot examples")
	}
	if strings.Contains(prompt, "### Example 3") {
		t.Error("Expected few-shot examples capped at 2")
	}
}

func TestBuildUserPrompt_FewShotDisabled(t *testing.T) {
	rb := testRubric()
	rb.FewShotExamples = []models.FewShotExample{
		{Conversation: []models.Message{{Role: "customer", Content: "a"}}},
	}
	conv := models.Conversation{ID: "c1", Category: "allgemein"}

	prompt := BuildUserPrompt(rb, conv, false)

	if strings.Contains(prompt, "## Examples") {
		t.Error("Expected no examples section when includeFewShot=false")
	}
}

func TestBuildUserPrompt_UnknownRole(t *testing.T) {
	rb := testRubric()
	conv := models.Conversation{
		ID:       "c1",
		Category: "allgemein",
		Messages: []models.Message{{Content: "hello"}},
	}

	prompt := BuildUserPrompt(rb, conv, false)

	if !strings.Contains(prompt, "**UNKNOWN**: hello") {
		t.Error("Expected missing role to render as UNKNOWN")
	}
}

func TestBuildPrompts_Deterministic(t *testing.T) {
	rb := testRubric()
	conv := models.Conversation{
		ID:       "c1",
		Category: "zahlung",
		Messages: []models.Message{{Role: "customer", Content: "Wo ist meine Rechnung?"}},
	}

	for i := 0; i < 5; i++ {
		if BuildSystemPrompt(rb, true) != BuildSystemPrompt(rb, true) {
			t.Fatal("Expected system prompt to be deterministic")
		}
		if BuildUserPrompt(rb, conv, true) != BuildUserPrompt(rb, conv, true) {
			t.Fatal("Expected user prompt to be deterministic")
		}
	}
}
