package correlation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Coefficient computes the chosen correlation between x and y. Fewer than two
// observations or a constant series yield NaN.
func Coefficient(method Method, x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	if method == Spearman {
		x, y = averageRanks(x), averageRanks(y)
	}
	return pearson(x, y)
}

func pearson(x, y []float64) float64 {
	if constant(x) || constant(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

func constant(v []float64) bool {
	for _, f := range v[1:] {
		if f != v[0] {
			return false
		}
	}
	return true
}

// averageRanks assigns 1-based ranks, giving tied values the mean of their positions.
func averageRanks(v []float64) []float64 {
	order := make([]int, len(v))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return v[order[a]] < v[order[b]] })
	ranks := make([]float64, len(v))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && v[order[end]] == v[order[start]] {
			end++
		}
		// positions start..end-1 hold equal values; ranks are 1-based
		avg := float64(start+end+1) / 2
		for k := start; k < end; k++ {
			ranks[order[k]] = avg
		}
		start = end
	}
	return ranks
}
