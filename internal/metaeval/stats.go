package metaeval

import (
	"math"
	"sort"
)

// kappaBins are the fixed cut points used to discretize 0-10 scores
// into five ordinal bins for Cohen's kappa.
var kappaBins = []float64{3, 5, 7, 9}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// pearson computes the Pearson product-moment correlation coefficient.
// Returns 0 when either array has zero variance.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// ranks assigns 1-based ranks with ties receiving the average of the
// ranks they span.
func ranks(xs []float64) []float64 {
	n := len(xs)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && xs[idx[j+1]] == xs[idx[i]] {
			j++
		}
		// Positions i..j hold tied values: average rank.
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// spearman computes Spearman's rho as the Pearson correlation of the
// rank-transformed arrays.
func spearman(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return pearson(ranks(xs), ranks(ys))
}

// kendallTau computes Kendall's tau-b, correcting for ties in either
// array.
func kendallTau(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	var concordant, discordant float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := xs[i] - xs[j]
			dy := ys[i] - ys[j]
			if dx*dy > 0 {
				concordant++
			} else if dx*dy < 0 {
				discordant++
			}
		}
	}

	n0 := float64(n*(n-1)) / 2
	denom := math.Sqrt((n0 - tieCorrection(xs)) * (n0 - tieCorrection(ys)))
	if denom == 0 {
		return 0
	}
	return (concordant - discordant) / denom
}

// tieCorrection sums t(t-1)/2 over each group of tied values.
func tieCorrection(xs []float64) float64 {
	counts := make(map[float64]int)
	for _, x := range xs {
		counts[x]++
	}
	var total float64
	for _, c := range counts {
		total += float64(c*(c-1)) / 2
	}
	return total
}

// meanAbsoluteError averages |x - y| over aligned arrays.
func meanAbsoluteError(xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for i := range xs {
		sum += math.Abs(xs[i] - ys[i])
	}
	return sum / float64(len(xs))
}

// rootMeanSquaredError is the square root of the mean squared
// difference.
func rootMeanSquaredError(xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for i := range xs {
		d := xs[i] - ys[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// digitize returns the bin index for a score given the fixed kappa cut
// points: bin i holds values in [bins[i-1], bins[i]).
func digitize(x float64) int {
	bin := 0
	for _, edge := range kappaBins {
		if x >= edge {
			bin++
		}
	}
	return bin
}

// cohenKappa computes Cohen's kappa over the discretized score arrays.
// Perfect agreement yields 1; chance-level agreement yields 0.
func cohenKappa(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}

	numBins := len(kappaBins) + 1
	countX := make([]float64, numBins)
	countY := make([]float64, numBins)
	var observed float64

	for i := 0; i < n; i++ {
		bx := digitize(xs[i])
		by := digitize(ys[i])
		countX[bx]++
		countY[by]++
		if bx == by {
			observed++
		}
	}

	po := observed / float64(n)
	var pe float64
	for b := 0; b < numBins; b++ {
		pe += (countX[b] / float64(n)) * (countY[b] / float64(n))
	}

	if pe == 1 {
		if po == 1 {
			return 1
		}
		return 0
	}
	return (po - pe) / (1 - pe)
}
