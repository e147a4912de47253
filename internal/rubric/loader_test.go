package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/models"
)

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	logger := zerolog.Nop()
	return NewLoader(dir, &logger)
}

func TestLoad_DefaultRubric(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())

	rb := loader.Load(DefaultRubricName)

	if rb.Name != DefaultRubricName {
		t.Errorf("Expected name '%s', got '%s'", DefaultRubricName, rb.Name)
	}
	if len(rb.Dimensions) != 6 {
		t.Fatalf("Expected 6 dimensions, got %d", len(rb.Dimensions))
	}

	wantWeights := map[string]float64{
		"accuracy":         0.25,
		"tone":             0.20,
		"compliance":       0.20,
		"completeness":     0.15,
		"language_quality": 0.10,
		"efficiency":       0.10,
	}
	for key, want := range wantWeights {
		dim, ok := rb.Dimensions[key]
		if !ok {
			t.Errorf("Expected dimension '%s'", key)
			continue
		}
		if dim.Weight != want {
			t.Errorf("Dimension '%s': expected weight %f, got %f", key, want, dim.Weight)
		}
	}

	if err := ValidateWeights(rb); err != nil {
		t.Errorf("Default rubric weights must validate: %v", err)
	}
	if len(rb.OrderedDimensions()) != 6 {
		t.Errorf("Expected ordered view of all 6 dimensions")
	}
	if rb.OrderedDimensions()[0].Key != "accuracy" {
		t.Errorf("Expected accuracy first, got '%s'", rb.OrderedDimensions()[0].Key)
	}
}

func TestLoad_CachedIdentity(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())

	first := loader.Load(DefaultRubricName)
	second := loader.Load(DefaultRubricName)

	if first != second {
		t.Error("Expected identical cached instance on repeat load")
	}
}

func TestLoad_MissingFallsBackToDefault(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())

	rb := loader.Load("does_not_exist")

	if rb.Name != DefaultRubricName {
		t.Errorf("Expected fallback to default rubric, got '%s'", rb.Name)
	}
	// The fallback shares the default's cache entry.
	if rb != loader.Load(DefaultRubricName) {
		t.Error("Expected fallback to reuse the cached default instance")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"name": "strict_rubric",
		"version": "2.1.0",
		"description": "Strict evaluation",
		"dimensions": {
			"accuracy": {"name": "Accuracy", "weight": 0.5, "description": "d1", "scoring_guidelines": {"1": "bad", "5": "great"}},
			"tone": {"name": "Tone", "weight": 0.5, "description": "d2"}
		},
		"calibration_notes": "Be harsh."
	}`
	if err := os.WriteFile(filepath.Join(dir, "strict_rubric.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := newTestLoader(t, dir)
	rb := loader.Load("strict_rubric")

	if rb.Name != "strict_rubric" {
		t.Errorf("Expected name 'strict_rubric', got '%s'", rb.Name)
	}
	if rb.Version != "2.1.0" {
		t.Errorf("Expected version '2.1.0', got '%s'", rb.Version)
	}
	if rb.Dimensions["accuracy"].Weight != 0.5 {
		t.Errorf("Expected weight 0.5, got %f", rb.Dimensions["accuracy"].Weight)
	}
	if rb.Dimensions["accuracy"].ScoringGuidelines[5] != "great" {
		t.Error("Expected scoring guidelines keyed by integer score")
	}
	if rb.CalibrationNotes != "Be harsh." {
		t.Errorf("Unexpected calibration notes: %s", rb.CalibrationNotes)
	}

	order := rb.DimensionOrder
	if len(order) != 2 || order[0] != "accuracy" || order[1] != "tone" {
		t.Errorf("Expected authoring order preserved, got %v", order)
	}
}

func TestLoad_BrokenFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := newTestLoader(t, dir)
	rb := loader.Load("broken")

	if rb.Name != DefaultRubricName {
		t.Errorf("Expected fallback to default for broken file, got '%s'", rb.Name)
	}
}

func TestListAvailable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"strict_rubric.json", "lenient.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	loader := newTestLoader(t, dir)
	names := loader.ListAvailable()

	want := map[string]bool{DefaultRubricName: false, "strict_rubric": false, "lenient": false}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Errorf("Unexpected rubric name '%s'", n)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("Expected rubric '%s' in listing", n)
		}
	}
}

func TestListAvailable_MissingDir(t *testing.T) {
	loader := newTestLoader(t, "/nonexistent/path")

	names := loader.ListAvailable()

	if len(names) != 1 || names[0] != DefaultRubricName {
		t.Errorf("Expected only the default rubric, got %v", names)
	}
}

func TestDimensionsForCategory_Overrides(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())
	rb := loader.Load(DefaultRubricName)

	tests := []struct {
		category string
		dim      string
		weight   float64
	}{
		{"retoure", "compliance", 0.25},
		{"beschwerde", "tone", 0.30},
		{"zahlung", "accuracy", 0.30},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			dims := DimensionsForCategory(rb, tt.category)
			found := false
			for _, d := range dims {
				if d.Key == tt.dim {
					found = true
					if d.Weight != tt.weight {
						t.Errorf("Expected weight %f for %s, got %f", tt.weight, tt.dim, d.Weight)
					}
				}
			}
			if !found {
				t.Fatalf("Dimension '%s' missing from category view", tt.dim)
			}
		})
	}

	// Base rubric must stay untouched by the category view.
	if rb.Dimensions["compliance"].Weight != 0.20 {
		t.Error("Expected category overrides not to mutate the base rubric")
	}
}

func TestDimensionsForCategory_UnknownCategory(t *testing.T) {
	loader := newTestLoader(t, t.TempDir())
	rb := loader.Load(DefaultRubricName)

	dims := DimensionsForCategory(rb, "allgemein")

	for _, d := range dims {
		if d.Weight != rb.Dimensions[d.Key].Weight {
			t.Errorf("Expected base weight for '%s' with no override", d.Key)
		}
	}
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{"exact", []float64{0.5, 0.5}, false},
		{"within tolerance", []float64{0.5, 0.505}, false},
		{"too high", []float64{0.6, 0.6}, true},
		{"too low", []float64{0.3, 0.3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := make(map[string]models.RubricDimension)
			for i, w := range tt.weights {
				key := string(rune('a' + i))
				dims[key] = models.RubricDimension{Key: key, Weight: w}
			}
			err := ValidateWeights(&models.Rubric{Name: "t", Dimensions: dims})
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
