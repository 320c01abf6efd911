package relatedness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeModel(t *testing.T) *VectorModel {
	t.Helper()
	return newTestModel(t, "m", map[string][]float64{
		"culture":    {1, 0},
		"society":    {0.9, 0.1},
		"bacteria":   {0.1, 0.9},
		"acid":       {0, 1},
		"base":       {-1, 0},
		"antibiotic": {0.2, 1},
	})
}

func TestMostSimilarOrdersByScoreAndExcludesQuery(t *testing.T) {
	idx := NewNeighbourIndex(probeModel(t))

	hits, ok := idx.MostSimilar("culture", 3)
	require.True(t, ok)
	require.Len(t, hits, 3)
	assert.Equal(t, "society", hits[0].Word)
	assert.Equal(t, []string{"society", "antibiotic", "bacteria"}, []string{hits[0].Word, hits[1].Word, hits[2].Word})
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}

	_, ok = idx.MostSimilar("polyp", 3)
	assert.False(t, ok)
}

func TestSearchCapsAtVocabulary(t *testing.T) {
	idx := NewNeighbourIndex(probeModel(t))
	hits := idx.Search([]float64{0, 1}, 50)
	assert.Len(t, hits, 6)
	assert.Equal(t, "acid", hits[0].Word)
	assert.Nil(t, idx.Search([]float64{1}, 3))
}

func TestRunProbes(t *testing.T) {
	idx := NewNeighbourIndex(probeModel(t))
	got := RunProbes(idx, []string{"culture", "prion"}, []string{"polyp", "antibiotic"}, 2)

	require.Len(t, got, 3)
	assert.Equal(t, "culture", got[0].Word)
	assert.True(t, got[0].Found)
	assert.Len(t, got[0].Neighbours, 2)
	assert.Equal(t, ProbeResult{Word: "prion"}, got[1])
	assert.Equal(t, "antibiotic", got[2].Word)
}
