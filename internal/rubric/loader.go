package rubric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/models"
)

// Loader resolves rubrics by name, caching each for the process
// lifetime. Load never fails outward: a missing or broken rubric file
// falls back to the built-in default.
type Loader struct {
	dir    string
	logger *zerolog.Logger

	mu    sync.Mutex
	cache map[string]*models.Rubric
}

func NewLoader(dir string, logger *zerolog.Logger) *Loader {
	return &Loader{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]*models.Rubric),
	}
}

// Load returns the rubric with the given name. Named rubrics come from
// <dir>/<name>.json; anything unresolvable falls back to the default.
func (l *Loader) Load(name string) *models.Rubric {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.cache[name]; ok {
		return r
	}

	if name == DefaultRubricName {
		r := defaultRubric()
		l.cache[name] = r
		return r
	}

	path := filepath.Join(l.dir, name+".json")
	r, err := loadFromFile(path)
	if err != nil {
		l.logger.Warn().
			Err(err).
			Str("rubric", name).
			Msg("rubric not loadable, using default")
		return l.loadDefaultLocked()
	}

	l.cache[name] = r
	return r
}

func (l *Loader) loadDefaultLocked() *models.Rubric {
	if r, ok := l.cache[DefaultRubricName]; ok {
		return r
	}
	r := defaultRubric()
	l.cache[DefaultRubricName] = r
	return r
}

// ListAvailable enumerates the default rubric plus every *.json stem in
// the configs directory.
func (l *Loader) ListAvailable() []string {
	names := []string{DefaultRubricName}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return names
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}

	return names
}

// rubricFile mirrors the on-disk rubric JSON format.
type rubricFile struct {
	Name             string                      `json:"name"`
	Version          string                      `json:"version"`
	Description      string                      `json:"description"`
	Dimensions       json.RawMessage             `json:"dimensions"`
	FewShotExamples  []models.FewShotExample     `json:"few_shot_examples"`
	CalibrationNotes string                      `json:"calibration_notes"`
}

type dimensionFile struct {
	Name              string            `json:"name"`
	Weight            float64           `json:"weight"`
	Description       string            `json:"description"`
	ScoringGuidelines map[string]string `json:"scoring_guidelines"`
}

func loadFromFile(path string) (*models.Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file rubricFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rubric %s: %w", path, err)
	}

	var rawDims map[string]dimensionFile
	if len(file.Dimensions) > 0 {
		if err := json.Unmarshal(file.Dimensions, &rawDims); err != nil {
			return nil, fmt.Errorf("parse rubric dimensions %s: %w", path, err)
		}
	}

	order, err := objectKeyOrder(file.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("parse rubric dimensions %s: %w", path, err)
	}

	dims := make(map[string]models.RubricDimension, len(rawDims))
	for key, d := range rawDims {
		name := d.Name
		if name == "" {
			name = key
		}
		weight := d.Weight
		if weight == 0 {
			weight = 0.1
		}
		guidelines := make(map[int]string, len(d.ScoringGuidelines))
		for k, v := range d.ScoringGuidelines {
			score, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			guidelines[score] = v
		}
		dims[key] = models.RubricDimension{
			Key:               key,
			Name:              name,
			Weight:            weight,
			Description:       d.Description,
			ScoringGuidelines: guidelines,
		}
	}

	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	version := file.Version
	if version == "" {
		version = "1.0.0"
	}

	return &models.Rubric{
		Name:             name,
		Version:          version,
		Description:      file.Description,
		Dimensions:       dims,
		DimensionOrder:   order,
		FewShotExamples:  file.FewShotExamples,
		CalibrationNotes: file.CalibrationNotes,
	}, nil
}

// objectKeyOrder extracts the top-level key order of a JSON object so
// that prompt rendering matches the authoring order of the rubric file.
func objectKeyOrder(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("dimensions must be a JSON object")
	}

	var keys []string
	depth := 0
	for dec.More() || depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		case string:
			// Top-level tokens alternate key/value; values that are
			// plain strings never appear for dimension objects.
			if depth == 0 {
				keys = append(keys, t)
			}
		}
	}

	return keys, nil
}

// categoryWeights is the fixed per-category weight override table. It is
// deliberately not part of the rubric file: operations tune it without
// re-authoring rubrics.
var categoryWeights = map[string]map[string]float64{
	"retoure": {
		"compliance": 0.25,
	},
	"beschwerde": {
		"tone": 0.30,
	},
	"zahlung": {
		"accuracy": 0.30,
	},
}

// DimensionsForCategory returns the rubric's dimensions in order with
// category-specific weight overrides layered on top of the base weights.
func DimensionsForCategory(r *models.Rubric, category string) []models.RubricDimension {
	overrides := categoryWeights[strings.ToLower(category)]

	dims := r.OrderedDimensions()
	for i := range dims {
		if w, ok := overrides[dims[i].Key]; ok {
			dims[i].Weight = w
		}
	}
	return dims
}

// ValidateWeights enforces the authoring-time invariant that dimension
// weights sum to 1.0 within a small tolerance. Scoring deliberately does
// not re-check this.
func ValidateWeights(r *models.Rubric) error {
	var total float64
	for _, d := range r.Dimensions {
		total += d.Weight
	}
	if math.Abs(total-1.0) > 0.01 {
		return fmt.Errorf("rubric %q dimension weights sum to %.4f, want 1.0 ±0.01", r.Name, total)
	}
	return nil
}
