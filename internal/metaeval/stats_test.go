package metaeval

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}

	if r := pearson(xs, ys); !almostEqual(r, 1.0, 1e-9) {
		t.Errorf("Expected r=1.0 for perfectly linear data, got %f", r)
	}
}

func TestPearson_PerfectAnticorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{10, 8, 6, 4, 2}

	if r := pearson(xs, ys); !almostEqual(r, -1.0, 1e-9) {
		t.Errorf("Expected r=-1.0, got %f", r)
	}
}

func TestPearson_ZeroVariance(t *testing.T) {
	xs := []float64{3, 3, 3, 3}
	ys := []float64{1, 2, 3, 4}

	if r := pearson(xs, ys); r != 0 {
		t.Errorf("Expected r=0 for constant array, got %f", r)
	}
}

func TestPearson_KnownValue(t *testing.T) {
	// cov 16, var_x 17.5, var_y 70/3: r = 16/sqrt(17.5*70/3).
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := []float64{2, 1, 4, 3, 7, 5}

	if r := pearson(xs, ys); !almostEqual(r, 0.7918, 0.0001) {
		t.Errorf("Expected r=0.7918, got %f", r)
	}
}

func TestRanks_NoTies(t *testing.T) {
	got := ranks([]float64{30, 10, 20})
	want := []float64{3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestRanks_AverageTies(t *testing.T) {
	got := ranks([]float64{1, 2, 2, 3})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestSpearman_MonotonicNonlinear(t *testing.T) {
	// Monotonic but nonlinear: rho must be exactly 1.
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{1, 4, 9, 16, 25}

	if rho := spearman(xs, ys); !almostEqual(rho, 1.0, 1e-9) {
		t.Errorf("Expected rho=1.0 for monotonic data, got %f", rho)
	}
}

func TestKendallTau_PerfectOrder(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{10, 20, 30, 40, 50}

	if tau := kendallTau(xs, ys); !almostEqual(tau, 1.0, 1e-9) {
		t.Errorf("Expected tau=1.0, got %f", tau)
	}
}

func TestKendallTau_Reversed(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{4, 3, 2, 1}

	if tau := kendallTau(xs, ys); !almostEqual(tau, -1.0, 1e-9) {
		t.Errorf("Expected tau=-1.0, got %f", tau)
	}
}

func TestKendallTau_WithTies(t *testing.T) {
	// Reference value computed with scipy.stats.kendalltau (tau-b).
	xs := []float64{1, 2, 2, 3}
	ys := []float64{1, 2, 3, 4}

	if tau := kendallTau(xs, ys); !almostEqual(tau, 0.9129, 0.0001) {
		t.Errorf("Expected tau-b=0.9129, got %f", tau)
	}
}

func TestErrorMetrics(t *testing.T) {
	xs := []float64{1, 2, 3}
	ys := []float64{2, 2, 5}

	if mae := meanAbsoluteError(xs, ys); !almostEqual(mae, 1.0, 1e-9) {
		t.Errorf("Expected MAE=1.0, got %f", mae)
	}
	// Squared diffs: 1, 0, 4 -> mean 5/3 -> sqrt.
	if rmse := rootMeanSquaredError(xs, ys); !almostEqual(rmse, math.Sqrt(5.0/3.0), 1e-9) {
		t.Errorf("Expected RMSE=%f, got %f", math.Sqrt(5.0/3.0), rmse)
	}
}

func TestDigitize(t *testing.T) {
	tests := []struct {
		score float64
		bin   int
	}{
		{0, 0}, {2.9, 0}, {3, 1}, {4.5, 1}, {5, 2}, {6.9, 2}, {7, 3}, {8.5, 3}, {9, 4}, {10, 4},
	}
	for _, tt := range tests {
		if got := digitize(tt.score); got != tt.bin {
			t.Errorf("digitize(%f): expected bin %d, got %d", tt.score, tt.bin, got)
		}
	}
}

func TestCohenKappa_PerfectAgreement(t *testing.T) {
	xs := []float64{1, 4, 6, 8, 9.5}
	ys := []float64{1, 4, 6, 8, 9.5}

	if kappa := cohenKappa(xs, ys); !almostEqual(kappa, 1.0, 1e-9) {
		t.Errorf("Expected kappa=1.0 for identical bins, got %f", kappa)
	}
}

func TestCohenKappa_SameBinEverywhere(t *testing.T) {
	// All scores land in one bin: expected agreement is 1, kappa is
	// undefined and reported as 1 for full observed agreement.
	xs := []float64{1, 2, 2.5}
	ys := []float64{0.5, 1.5, 2.9}

	if kappa := cohenKappa(xs, ys); kappa != 1 {
		t.Errorf("Expected kappa=1 for total single-bin agreement, got %f", kappa)
	}
}

func TestCohenKappa_Disagreement(t *testing.T) {
	// Raters never land in the same bin.
	xs := []float64{1, 1, 8, 8}
	ys := []float64{8, 8, 1, 1}

	kappa := cohenKappa(xs, ys)
	if kappa >= 0 {
		t.Errorf("Expected negative kappa for systematic disagreement, got %f", kappa)
	}
}

func TestRound4(t *testing.T) {
	if got := round4(0.123456); got != 0.1235 {
		t.Errorf("Expected 0.1235, got %f", got)
	}
	if got := round4(-0.00004); got != 0.0 {
		t.Errorf("Expected 0.0, got %f", got)
	}
}
