package relatedness

import (
	"math"
	"strconv"
)

// WordPair is a single row of an evaluation dataset.
type WordPair struct {
	Word1 string  `yaml:"word1"`
	Word2 string  `yaml:"word2"`
	Human float64 `yaml:"human"`
}

// Score is the relatedness a model assigns to one pair. The zero value is OOV.
type Score struct {
	value float64
	ok    bool
}

// Similarity wraps a numeric cosine similarity.
func Similarity(v float64) Score {
	return Score{value: v, ok: true}
}

// OOV returns the missing marker used when a pair cannot be scored.
func OOV() Score {
	return Score{}
}

// Value returns the similarity and whether the score is numeric.
func (s Score) Value() (float64, bool) {
	return s.value, s.ok
}

// IsOOV reports whether the pair could not be scored.
func (s Score) IsOOV() bool {
	return !s.ok
}

// OrZero maps OOV to 0. Only the zero-fill correlation policy should call it.
func (s Score) OrZero() float64 {
	if !s.ok {
		return 0
	}
	return s.value
}

// String renders the score as a CSV cell; OOV becomes an empty cell.
func (s Score) String() string {
	if !s.ok {
		return ""
	}
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}

// ParseScore reads a CSV cell written by String. Empty and NaN cells are OOV.
func ParseScore(cell string) (Score, error) {
	cell = cleanCell(cell)
	switch cell {
	case "", "NaN", "nan", "NA", "None":
		return OOV(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return OOV(), err
	}
	if math.IsNaN(v) {
		return OOV(), nil
	}
	return Similarity(v), nil
}

// PairResult is the scorer's verdict for one pair plus the terms to report when it is OOV.
type PairResult struct {
	Score    Score
	OOVTerms []string
}

// OOVEntry records one OOV pair and the offending term(s).
type OOVEntry struct {
	Row   int      `yaml:"row"`
	Word1 string   `yaml:"word1"`
	Word2 string   `yaml:"word2"`
	Terms []string `yaml:"terms,flow"`
}

// OOVReport summarises the OOV pairs of one (dataset, model) scoring pass.
type OOVReport struct {
	Dataset      string     `yaml:"dataset"`
	Model        string     `yaml:"model"`
	Rows         int        `yaml:"rows"`
	NominalPairs int        `yaml:"nominal_pairs"`
	Count        int        `yaml:"oov_count"`
	Rate         float64    `yaml:"oov_rate"`
	Entries      []OOVEntry `yaml:"entries,omitempty"`
}

// Skewed reports whether the dataset's row count disagrees with the pair count in its name,
// in which case Rate is not count/rows.
func (r OOVReport) Skewed() bool {
	return r.Rows != r.NominalPairs
}

// ColumnResult is the outcome of scoring one dataset against one model.
type ColumnResult struct {
	Column string
	Scores []Score
	Report OOVReport
}

// ColumnName derives the dataset column for a model.
func ColumnName(model string) string {
	return model + "_Rel"
}
