package relatedness

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scorer assigns relatedness scores to word pairs using one model.
type Scorer struct {
	model  Model
	logger logrus.FieldLogger
}

// NewScorer binds a scorer to a loaded model. logger may be nil.
func NewScorer(model Model, logger logrus.FieldLogger) (*Scorer, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	return &Scorer{model: model, logger: logger}, nil
}

// Model returns the model the scorer reads from.
func (s *Scorer) Model() Model {
	return s.model
}

// Column returns the dataset column this scorer fills.
func (s *Scorer) Column() string {
	return ColumnName(s.model.Name())
}

// ScorePair scores one pair. Terms are normalized before lookup.
func (s *Scorer) ScorePair(pair WordPair) PairResult {
	w1 := NormalizeTerm(pair.Word1)
	w2 := NormalizeTerm(pair.Word2)
	if w1 == "" || w2 == "" {
		// A pair with an empty term never scores; only real terms are reported.
		var terms []string
		for _, w := range []string{w1, w2} {
			if w != "" && !s.model.Contains(w) {
				terms = append(terms, w)
			}
		}
		return PairResult{Score: OOV(), OOVTerms: terms}
	}
	in1 := s.model.Contains(w1)
	in2 := s.model.Contains(w2)

	switch {
	case in1 && in2:
		sim, err := s.model.Similarity(w1, w2)
		if err != nil {
			return PairResult{Score: OOV(), OOVTerms: []string{w1, w2}}
		}
		return PairResult{Score: Similarity(sim)}

	case in1 && !in2:
		return s.scoreAgainstCompound(w1, w2)

	case !in1 && in2:
		return s.scoreAgainstCompound(w2, w1)

	default:
		multi1 := IsCompound(w1)
		multi2 := IsCompound(w2)
		if multi1 && multi2 {
			vec1, ok1 := ResolveCompound(s.model, w1)
			vec2, ok2 := ResolveCompound(s.model, w2)
			if ok1 && ok2 {
				return PairResult{Score: Similarity(CosineSimilarity(vec1, vec2))}
			}
			var terms []string
			if !ok1 {
				terms = append(terms, w1)
			}
			if !ok2 {
				terms = append(terms, w2)
			}
			return PairResult{Score: OOV(), OOVTerms: terms}
		}
		// Only the non-compound side is reported here; a compound partner is not.
		var terms []string
		if !multi1 {
			terms = append(terms, w1)
		}
		if !multi2 {
			terms = append(terms, w2)
		}
		return PairResult{Score: OOV(), OOVTerms: terms}
	}
}

// scoreAgainstCompound handles a pair where known is in the vocabulary and missing is not.
func (s *Scorer) scoreAgainstCompound(known, missing string) PairResult {
	if !IsCompound(missing) {
		return PairResult{Score: OOV(), OOVTerms: []string{missing}}
	}
	resolved, ok := ResolveCompound(s.model, missing)
	if !ok {
		return PairResult{Score: OOV(), OOVTerms: []string{missing}}
	}
	vec, _ := s.model.Vector(known)
	return PairResult{Score: Similarity(CosineSimilarity(vec, resolved))}
}

// ScoreDataset scores every pair of ds in row order. The dataset is not modified;
// callers merge the result with Dataset.AddColumn.
func (s *Scorer) ScoreDataset(ctx context.Context, ds *Dataset) (ColumnResult, error) {
	nominal, err := NominalPairCount(ds.Name)
	if err != nil {
		return ColumnResult{}, err
	}
	pairs := ds.Pairs()
	res := ColumnResult{
		Column: s.Column(),
		Scores: make([]Score, len(pairs)),
		Report: OOVReport{
			Dataset:      ds.Name,
			Model:        s.model.Name(),
			Rows:         len(pairs),
			NominalPairs: nominal,
		},
	}
	for i, pair := range pairs {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return ColumnResult{}, fmt.Errorf("score %s: %w", ds.Name, err)
			}
		}
		pr := s.ScorePair(pair)
		res.Scores[i] = pr.Score
		if !pr.Score.IsOOV() {
			continue
		}
		res.Report.Count++
		res.Report.Entries = append(res.Report.Entries, OOVEntry{
			Row:   i,
			Word1: pair.Word1,
			Word2: pair.Word2,
			Terms: pr.OOVTerms,
		})
		s.debugf(logrus.Fields{"dataset": ds.Name, "row": i, "terms": pr.OOVTerms}, "oov pair")
	}
	res.Report.Rate = float64(res.Report.Count) / float64(nominal)
	return res, nil
}

func (s *Scorer) debugf(fields logrus.Fields, format string, args ...any) {
	if s.logger != nil {
		s.logger.WithFields(fields).WithField("model", s.model.Name()).Debugf(format, args...)
	}
}
