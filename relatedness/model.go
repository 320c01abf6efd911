package relatedness

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrNotInVocabulary is returned by Model.Similarity when a token is unknown.
var ErrNotInVocabulary = errors.New("token not in vocabulary")

// Model is the vocabulary oracle the scorer consults. Implementations must be
// safe for concurrent reads once loaded.
type Model interface {
	Name() string
	Contains(token string) bool
	// Vector returns a copy of the token's vector.
	Vector(token string) ([]float64, bool)
	// Similarity is the model's own cosine shortcut for two in-vocabulary tokens.
	Similarity(a, b string) (float64, error)
	Size() int
	Dim() int
}

// VectorModel is an in-memory word -> vector table.
type VectorModel struct {
	name    string
	dim     int
	index   map[string]int
	words   []string
	vectors [][]float64
	norms   []float64
}

// NewVectorModel constructs an empty model of the given dimensionality.
func NewVectorModel(name string, dim int) *VectorModel {
	return &VectorModel{
		name:  name,
		dim:   dim,
		index: make(map[string]int),
	}
}

// Add stores a vector. The first occurrence of a word wins; later duplicates are ignored.
func (m *VectorModel) Add(word string, vec []float64) error {
	if len(vec) != m.dim {
		return fmt.Errorf("vector for %q has %d dimensions, want %d", word, len(vec), m.dim)
	}
	if _, ok := m.index[word]; ok {
		return nil
	}
	m.index[word] = len(m.words)
	m.words = append(m.words, word)
	m.vectors = append(m.vectors, cloneVector(vec))
	m.norms = append(m.norms, floats.Norm(vec, 2))
	return nil
}

// Name returns the model identifier used for column names.
func (m *VectorModel) Name() string {
	return m.name
}

// Size returns the vocabulary size.
func (m *VectorModel) Size() int {
	return len(m.words)
}

// Dim returns the vector dimensionality.
func (m *VectorModel) Dim() int {
	return m.dim
}

// Contains reports vocabulary membership.
func (m *VectorModel) Contains(token string) bool {
	_, ok := m.index[token]
	return ok
}

// Vector returns a copy of the stored vector.
func (m *VectorModel) Vector(token string) ([]float64, bool) {
	i, ok := m.index[token]
	if !ok {
		return nil, false
	}
	return cloneVector(m.vectors[i]), true
}

// Similarity returns the cosine similarity of two in-vocabulary tokens.
func (m *VectorModel) Similarity(a, b string) (float64, error) {
	i, ok := m.index[a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInVocabulary, a)
	}
	j, ok := m.index[b]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotInVocabulary, b)
	}
	return floats.Dot(m.vectors[i], m.vectors[j]) / (m.norms[i] * m.norms[j]), nil
}

// Words returns the vocabulary in load order.
func (m *VectorModel) Words() []string {
	out := make([]string, len(m.words))
	copy(out, m.words)
	return out
}

// CosineSimilarity is 1 - cosine distance. It is not clamped; a zero vector yields NaN.
func CosineSimilarity(a, b []float64) float64 {
	return floats.Dot(a, b) / (floats.Norm(a, 2) * floats.Norm(b, 2))
}

func cloneVector(vec []float64) []float64 {
	out := make([]float64, len(vec))
	copy(out, vec)
	return out
}
