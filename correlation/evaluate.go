package correlation

import (
	"fmt"
	"math"

	"yashubustudio/relatedness/relatedness"
)

// Result is the correlation between the human scores and one model column.
type Result struct {
	Dataset     string
	Column      string
	Method      Method
	Policy      Policy
	Coefficient float64
	// Rows is the number of pairs that entered the coefficient.
	Rows int
	// OOVCount and OOVRate are set under ExcludePairwise only.
	OOVCount int
	OOVRate  float64
}

// Evaluate correlates each selected column of ds against its human scores.
// Every column must be present; nothing is computed otherwise. A row with no human
// score counts as 0 under ZeroFill and is left out, without counting as OOV, otherwise.
func Evaluate(ds *relatedness.Dataset, columns []string, method Method, policy Policy) ([]Result, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	scores := make([][]relatedness.Score, len(columns))
	for i, col := range columns {
		s, ok := ds.Column(col)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s", ds.Name, ErrMissingColumn, col)
		}
		scores[i] = s
	}
	human := ds.HumanScores()

	var nominal int
	if policy == ExcludePairwise {
		n, err := relatedness.NominalPairCount(ds.Name)
		if err != nil {
			return nil, err
		}
		nominal = n
	}

	var keep []bool
	if policy == IntersectAll {
		keep = intersectRows(human, scores)
	}

	results := make([]Result, 0, len(columns))
	for i, col := range columns {
		res := Result{Dataset: ds.Name, Column: col, Method: method, Policy: policy}
		var x, y []float64
		for row, s := range scores[i] {
			rated := !math.IsNaN(human[row])
			switch policy {
			case ZeroFill:
				h := 0.0
				if rated {
					h = human[row]
				}
				x = append(x, h)
				y = append(y, s.OrZero())
			case IntersectAll:
				if keep[row] {
					v, _ := s.Value()
					x = append(x, human[row])
					y = append(y, v)
				}
			case ExcludePairwise:
				v, ok := s.Value()
				if !ok {
					res.OOVCount++
					continue
				}
				if !rated {
					continue
				}
				x = append(x, human[row])
				y = append(y, v)
			}
		}
		if policy == ExcludePairwise {
			res.OOVRate = float64(res.OOVCount) / float64(nominal)
		}
		res.Rows = len(x)
		res.Coefficient = Coefficient(method, x, y)
		results = append(results, res)
	}
	return results, nil
}

// intersectRows marks the rated rows scored by every selected column.
func intersectRows(human []float64, scores [][]relatedness.Score) []bool {
	keep := make([]bool, len(human))
	for row := range keep {
		keep[row] = !math.IsNaN(human[row])
		for _, col := range scores {
			if col[row].IsOOV() {
				keep[row] = false
				break
			}
		}
	}
	return keep
}
