package relatedness

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorerFixture(t *testing.T) *Scorer {
	t.Helper()
	m := newTestModel(t, "bio", map[string][]float64{
		"heart":   {1, 0, 0},
		"attack":  {0, 1, 0},
		"disease": {1, 1, 0},
		"cardiac": {1, 0.5, 0},
		"arrest":  {0, 0, 1},
	})
	s, err := NewScorer(m, nil)
	require.NoError(t, err)
	return s
}

func cos(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestScorePairCases(t *testing.T) {
	s := scorerFixture(t)
	tests := []struct {
		name      string
		pair      WordPair
		wantScore float64
		wantOOV   bool
		wantTerms []string
	}{
		{
			name:      "both known",
			pair:      WordPair{Word1: "heart", Word2: "disease"},
			wantScore: 1 / math.Sqrt2,
		},
		{
			name:      "second is resolvable compound",
			pair:      WordPair{Word1: "cardiac", Word2: "heart_attack"},
			wantScore: cos([]float64{1, 0.5, 0}, []float64{1, 1, 0}),
		},
		{
			name:      "first is resolvable compound after hyphen normalization",
			pair:      WordPair{Word1: "Heart-Attack", Word2: "cardiac"},
			wantScore: cos([]float64{1, 0.5, 0}, []float64{1, 1, 0}),
		},
		{
			name:      "unknown single term against known",
			pair:      WordPair{Word1: "heart", Word2: "zzz"},
			wantOOV:   true,
			wantTerms: []string{"zzz"},
		},
		{
			name:      "unresolvable compound against known",
			pair:      WordPair{Word1: "heart_xyz", Word2: "heart"},
			wantOOV:   true,
			wantTerms: []string{"heart_xyz"},
		},
		{
			name:      "both compounds resolvable",
			pair:      WordPair{Word1: "heart_attack", Word2: "cardiac_arrest"},
			wantScore: cos([]float64{1, 1, 0}, []float64{1, 0.5, 1}),
		},
		{
			name:      "both compounds, one unresolvable",
			pair:      WordPair{Word1: "heart_attack", Word2: "foo_bar"},
			wantOOV:   true,
			wantTerms: []string{"foo_bar"},
		},
		{
			name:      "both compounds unresolvable",
			pair:      WordPair{Word1: "foo_bar", Word2: "baz_qux"},
			wantOOV:   true,
			wantTerms: []string{"foo_bar", "baz_qux"},
		},
		{
			name:      "both unknown singles",
			pair:      WordPair{Word1: "zzz", Word2: "yyy"},
			wantOOV:   true,
			wantTerms: []string{"zzz", "yyy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScorePair(tt.pair)
			assert.Equal(t, tt.wantOOV, got.Score.IsOOV())
			if tt.wantOOV {
				if diff := cmp.Diff(tt.wantTerms, got.OOVTerms); diff != "" {
					t.Errorf("oov terms (-want +got):\n%s", diff)
				}
				return
			}
			v, ok := got.Score.Value()
			require.True(t, ok)
			assert.InDelta(t, tt.wantScore, v, 1e-12)
			assert.Empty(t, got.OOVTerms)
		})
	}
}

// An unknown single term paired with a compound reports only the single term,
// even when the compound could be resolved on its own.
func TestScorePairReportsOnlyNonCompoundWhenBothAbsent(t *testing.T) {
	s := scorerFixture(t)

	got := s.ScorePair(WordPair{Word1: "zzz", Word2: "heart_attack"})
	assert.True(t, got.Score.IsOOV())
	assert.Equal(t, []string{"zzz"}, got.OOVTerms)

	got = s.ScorePair(WordPair{Word1: "foo_bar", Word2: "zzz"})
	assert.True(t, got.Score.IsOOV())
	assert.Equal(t, []string{"zzz"}, got.OOVTerms)
}

func TestScorePairZeroVectorIsNaNNotOOV(t *testing.T) {
	m := newTestModel(t, "m", map[string][]float64{
		"void": {0, 0},
		"real": {1, 0},
	})
	s, err := NewScorer(m, nil)
	require.NoError(t, err)

	got := s.ScorePair(WordPair{Word1: "void", Word2: "real"})
	v, ok := got.Score.Value()
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))
}

func rel353Fixture(t *testing.T) (*Scorer, *Dataset) {
	t.Helper()
	m := newTestModel(t, "pubmed", map[string][]float64{
		"culture":              {1, 0, 0},
		"context":              {0.62, math.Sqrt(1 - 0.62*0.62), 0},
		"dementia":             {0.2, 0.3, 0.9},
		"acetylcholinesterase": {0.5, 0.1, 0.4},
		"inhibitor":            {0.1, 0.6, 0.2},
		"foo":                  {0, 0, 1},
	})
	s, err := NewScorer(m, nil)
	require.NoError(t, err)
	ds := NewDataset("rel_353", []WordPair{
		{Word1: "culture", Word2: "context", Human: 6.1},
		{Word1: "acetylcholinesterase_inhibitor", Word2: "dementia", Human: 7.4},
		{Word1: "xyzzy123", Word2: "foo", Human: 0.3},
	})
	return s, ds
}

func TestScoreDatasetRel353(t *testing.T) {
	s, ds := rel353Fixture(t)

	res, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, res.Scores, 3)
	assert.Equal(t, "pubmed_Rel", res.Column)

	v, ok := res.Scores[0].Value()
	require.True(t, ok)
	assert.InDelta(t, 0.62, v, 1e-12)

	v, ok = res.Scores[1].Value()
	require.True(t, ok)
	assert.InDelta(t, cos([]float64{0.2, 0.3, 0.9}, []float64{0.6, 0.7, 0.6}), v, 1e-12)

	assert.True(t, res.Scores[2].IsOOV())

	assert.Equal(t, 1, res.Report.Count)
	assert.Equal(t, 353, res.Report.NominalPairs)
	assert.Equal(t, 3, res.Report.Rows)
	assert.True(t, res.Report.Skewed())
	assert.InDelta(t, 1.0/353, res.Report.Rate, 1e-15)
	require.Len(t, res.Report.Entries, 1)
	assert.Equal(t, OOVEntry{Row: 2, Word1: "xyzzy123", Word2: "foo", Terms: []string{"xyzzy123"}}, res.Report.Entries[0])
}

func TestScoreDatasetOOVCountMatchesEmptyCells(t *testing.T) {
	s, ds := rel353Fixture(t)
	res, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)

	empty := 0
	for _, sc := range res.Scores {
		if sc.String() == "" {
			empty++
		}
	}
	assert.Equal(t, res.Report.Count, empty)
}

func TestScoreDatasetIsIdempotent(t *testing.T) {
	s, ds := rel353Fixture(t)
	first, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)
	second, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Score{})); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestScoreDatasetRejectsNameWithoutCount(t *testing.T) {
	s, _ := rel353Fixture(t)
	ds := NewDataset("mayo", []WordPair{{Word1: "culture", Word2: "context", Human: 1}})

	_, err := s.ScoreDataset(context.Background(), ds)
	assert.ErrorIs(t, err, ErrDatasetNaming)
}

func TestScoreDatasetStopsOnCancelledContext(t *testing.T) {
	s, ds := rel353Fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScoreDataset(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewScorerRequiresModel(t *testing.T) {
	_, err := NewScorer(nil, nil)
	assert.Error(t, err)
}

func TestScoreDatasetWithoutOOVPairs(t *testing.T) {
	s, _ := rel353Fixture(t)
	ds := NewDataset("rel_353", []WordPair{
		{Word1: "culture", Word2: "context", Human: 6.1},
		{Word1: "dementia", Word2: "acetylcholinesterase-inhibitor", Human: 7.4},
		{Word1: "foo", Word2: "culture", Human: 1.2},
	})

	res, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)
	assert.Zero(t, res.Report.Count)
	assert.Zero(t, res.Report.Rate)
	assert.Empty(t, res.Report.Entries)
	for i, sc := range res.Scores {
		assert.False(t, sc.IsOOV(), "row %d", i)
		assert.NotEmpty(t, sc.String(), "row %d", i)
	}
}

func TestScoreDatasetKeepsBlankRowsAsOOV(t *testing.T) {
	s, _ := rel353Fixture(t)
	ds, err := ParseDataset(strings.NewReader("Word 1,Word 2,Human (mean)\nculture,context,6.1\n,,0\nfoo,,1\n"), "rel_353", ColumnOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	res, err := s.ScoreDataset(context.Background(), ds)
	require.NoError(t, err)
	assert.False(t, res.Scores[0].IsOOV())
	assert.True(t, res.Scores[1].IsOOV())
	assert.True(t, res.Scores[2].IsOOV())
	assert.Equal(t, 2, res.Report.Count)
	assert.Equal(t, []OOVEntry{
		{Row: 1},
		{Row: 2, Word1: "foo"},
	}, res.Report.Entries)
}
