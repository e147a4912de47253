package metaeval

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/models"
)

// minPairs is the smallest sample that supports any correlation
// statistic; minDimensionPairs gates per-dimension breakdowns and
// minAgreementGroups gates inter-annotator agreement.
const (
	minPairs           = 10
	minDimensionPairs  = 5
	minAgreementGroups = 5
	targetSampleSize   = 50
)

// Service compares judge scores against human annotations to assess
// judge reliability. Scores are on the 0-10 annotation scale; callers
// scale the engine's native 0-1 overall by 10 when building pairs.
type Service struct {
	logger *zerolog.Logger
}

func NewService(logger *zerolog.Logger) *Service {
	return &Service{logger: logger}
}

// CalculateMetrics computes correlation and error statistics between
// judge and human scores, decides whether recalibration is warranted,
// and emits actionable recommendations. With fewer than 10 pairs no
// statistic is attempted.
func (s *Service) CalculateMetrics(pairs []models.ScorePair) models.MetaEvaluationReport {
	if len(pairs) < minPairs {
		return models.MetaEvaluationReport{
			OverallCorrelation:    models.CorrelationMetrics{SampleSize: len(pairs)},
			DimensionCorrelations: map[string]models.CorrelationMetrics{},
			CalibrationNeeded:     true,
			Recommendations: []string{
				fmt.Sprintf("Insufficient data for meta-evaluation. Need at least %d human annotations.", minPairs),
			},
			LastCalculated: time.Now().UTC(),
		}
	}

	judgeScores := make([]float64, len(pairs))
	humanScores := make([]float64, len(pairs))
	for i, p := range pairs {
		judgeScores[i] = p.JudgeOverall
		humanScores[i] = p.HumanOverall
	}

	overall := correlationMetrics(judgeScores, humanScores)
	dimensions := s.dimensionCorrelations(pairs)
	calibrationNeeded := checkCalibrationNeeded(overall, dimensions)

	s.logger.Info().
		Int("sample_size", overall.SampleSize).
		Float64("pearson_r", overall.PearsonR).
		Float64("mae", overall.MeanAbsoluteError).
		Bool("calibration_needed", calibrationNeeded).
		Msg("meta-evaluation metrics calculated")

	return models.MetaEvaluationReport{
		OverallCorrelation:    overall,
		DimensionCorrelations: dimensions,
		CalibrationNeeded:     calibrationNeeded,
		Recommendations:       generateRecommendations(overall, dimensions, calibrationNeeded),
		LastCalculated:        time.Now().UTC(),
	}
}

func correlationMetrics(judge, human []float64) models.CorrelationMetrics {
	n := len(judge)
	if n < 2 {
		return models.CorrelationMetrics{SampleSize: n}
	}

	return models.CorrelationMetrics{
		PearsonR:             round4(pearson(judge, human)),
		SpearmanRho:          round4(spearman(judge, human)),
		KendallTau:           round4(kendallTau(judge, human)),
		MeanAbsoluteError:    round4(meanAbsoluteError(judge, human)),
		RootMeanSquaredError: round4(rootMeanSquaredError(judge, human)),
		CohenKappa:           round4(cohenKappa(judge, human)),
		SampleSize:           n,
	}
}

// dimensionCorrelations computes the same statistics per rubric
// dimension, over the subset of pairs where both sides scored that
// dimension.
func (s *Service) dimensionCorrelations(pairs []models.ScorePair) map[string]models.CorrelationMetrics {
	judgeByDim := make(map[string][]float64)
	humanByDim := make(map[string][]float64)

	for _, pair := range pairs {
		for key, judgeScore := range pair.JudgeDimensions {
			humanScore, ok := pair.HumanDimensions[key]
			if !ok {
				continue
			}
			judgeByDim[key] = append(judgeByDim[key], judgeScore)
			humanByDim[key] = append(humanByDim[key], humanScore)
		}
	}

	out := make(map[string]models.CorrelationMetrics)
	for key, judgeScores := range judgeByDim {
		if len(judgeScores) >= minDimensionPairs {
			out[key] = correlationMetrics(judgeScores, humanByDim[key])
		}
	}
	return out
}

func checkCalibrationNeeded(overall models.CorrelationMetrics, dimensions map[string]models.CorrelationMetrics) bool {
	if overall.PearsonR < 0.80 {
		return true
	}
	if overall.MeanAbsoluteError > 1.0 {
		return true
	}
	for _, dim := range dimensions {
		if dim.PearsonR < 0.70 {
			return true
		}
	}
	return false
}

func generateRecommendations(overall models.CorrelationMetrics, dimensions map[string]models.CorrelationMetrics, calibrationNeeded bool) []string {
	var recommendations []string

	if overall.SampleSize < targetSampleSize {
		recommendations = append(recommendations, fmt.Sprintf(
			"Current sample size (%d) is small. Aim for at least %d human annotations for reliable metrics.",
			overall.SampleSize, targetSampleSize))
	}

	switch {
	case overall.PearsonR < 0.70:
		recommendations = append(recommendations, fmt.Sprintf(
			"Overall correlation (%.2f) is below acceptable threshold (0.70). Consider reviewing prompt engineering and few-shot examples.",
			overall.PearsonR))
	case overall.PearsonR < 0.80:
		recommendations = append(recommendations, fmt.Sprintf(
			"Overall correlation (%.2f) is moderate. Minor calibration adjustments recommended.",
			overall.PearsonR))
	case overall.PearsonR >= 0.87:
		recommendations = append(recommendations, fmt.Sprintf(
			"Excellent correlation (%.2f) achieved. Judge is well-calibrated with human assessments.",
			overall.PearsonR))
	}

	if overall.MeanAbsoluteError > 1.5 {
		recommendations = append(recommendations, fmt.Sprintf(
			"High mean absolute error (%.2f). Judge scores deviate significantly from human scores on average.",
			overall.MeanAbsoluteError))
	}

	var weak []string
	for _, key := range sortedKeys(dimensions) {
		if dimensions[key].PearsonR < 0.70 {
			weak = append(weak, fmt.Sprintf("%s (%.2f)", key, dimensions[key].PearsonR))
		}
	}
	if len(weak) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Weak correlation in dimensions: %s. Review rubric criteria and scoring anchors for these dimensions.",
			strings.Join(weak, ", ")))
	}

	if calibrationNeeded {
		recommendations = append(recommendations,
			"CALIBRATION RECOMMENDED: Run recalibration process with additional human annotations to improve judge accuracy.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Judge performance is within acceptable parameters.")
	}

	return recommendations
}

func sortedKeys(m map[string]models.CorrelationMetrics) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InterAnnotatorAgreement groups human scores by evaluation and
// averages pairwise agreement 1 - |a-b|/10 across all annotator pairs.
// Fewer than 5 multi-annotated evaluations reports an insufficient
// sample instead.
func (s *Service) InterAnnotatorAgreement(annotations []models.Annotation) models.AgreementReport {
	groups := make(map[string][]float64)
	for _, a := range annotations {
		groups[a.EvaluationID] = append(groups[a.EvaluationID], a.OverallScore)
	}

	multiAnnotated := 0
	var agreements []float64
	for _, scores := range groups {
		if len(scores) < 2 {
			continue
		}
		multiAnnotated++
		for i := 0; i < len(scores); i++ {
			for j := i + 1; j < len(scores); j++ {
				diff := scores[i] - scores[j]
				if diff < 0 {
					diff = -diff
				}
				agreements = append(agreements, 1-diff/10)
			}
		}
	}

	if multiAnnotated < minAgreementGroups {
		return models.AgreementReport{
			SampleSize: multiAnnotated,
			Message:    "Insufficient multi-annotated samples for agreement calculation",
		}
	}

	return models.AgreementReport{
		AveragePairwiseAgreement: round4(mean(agreements)),
		SampleSize:               multiAnnotated,
		TotalAnnotationPairs:     len(agreements),
	}
}

// CalibrationSet draws a stratified sample of not-yet-annotated
// evaluations for future human annotation. Candidates are partitioned
// into low (<4), medium (4-7) and high (>=7) score bands and an equal
// share is drawn from each, up to the requested size.
func (s *Service) CalibrationSet(candidates []models.CalibrationCandidate, size int) []models.CalibrationCandidate {
	if len(candidates) == 0 || size <= 0 {
		return []models.CalibrationCandidate{}
	}

	var low, medium, high []models.CalibrationCandidate
	for _, c := range candidates {
		switch {
		case c.OverallScore < 4:
			low = append(low, c)
		case c.OverallScore < 7:
			medium = append(medium, c)
		default:
			high = append(high, c)
		}
	}

	perBand := size / 3
	selected := make([]models.CalibrationCandidate, 0, size)
	for _, band := range [][]models.CalibrationCandidate{low, medium, high} {
		selected = append(selected, sampleWithoutReplacement(band, perBand)...)
	}

	if len(selected) > size {
		selected = selected[:size]
	}
	return selected
}

func sampleWithoutReplacement(band []models.CalibrationCandidate, n int) []models.CalibrationCandidate {
	if n >= len(band) {
		out := make([]models.CalibrationCandidate, len(band))
		copy(out, band)
		return out
	}

	picked := make([]models.CalibrationCandidate, len(band))
	copy(picked, band)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}
