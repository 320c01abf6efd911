package relatedness

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Neighbour is one entry of a nearest-neighbour listing.
type Neighbour struct {
	Word  string  `yaml:"word"`
	Score float64 `yaml:"score"`
}

// NeighbourIndex answers most-similar queries by brute-force cosine over a model's vocabulary.
type NeighbourIndex struct {
	model *VectorModel
}

// NewNeighbourIndex wraps a loaded model.
func NewNeighbourIndex(model *VectorModel) *NeighbourIndex {
	return &NeighbourIndex{model: model}
}

// MostSimilar returns the k words closest to word, excluding word itself.
// ok is false when word is not in the vocabulary.
func (idx *NeighbourIndex) MostSimilar(word string, k int) ([]Neighbour, bool) {
	i, ok := idx.model.index[word]
	if !ok {
		return nil, false
	}
	return idx.search(idx.model.vectors[i], idx.model.norms[i], k, word), true
}

// Search returns the k words closest to vec.
func (idx *NeighbourIndex) Search(vec []float64, k int) []Neighbour {
	if len(vec) != idx.model.dim {
		return nil
	}
	return idx.search(vec, floats.Norm(vec, 2), k, "")
}

func (idx *NeighbourIndex) search(vec []float64, norm float64, k int, exclude string) []Neighbour {
	m := idx.model
	if k <= 0 || len(m.words) == 0 || norm == 0 {
		return nil
	}
	top := make([]Neighbour, 0, k+1)
	for j, w := range m.words {
		if w == exclude || m.norms[j] == 0 {
			continue
		}
		score := floats.Dot(vec, m.vectors[j]) / (norm * m.norms[j])
		if len(top) == k && score <= top[k-1].Score {
			continue
		}
		pos := sort.Search(len(top), func(n int) bool { return top[n].Score < score })
		top = append(top, Neighbour{})
		copy(top[pos+1:], top[pos:])
		top[pos] = Neighbour{Word: w, Score: score}
		if len(top) > k {
			top = top[:k]
		}
	}
	return top
}
