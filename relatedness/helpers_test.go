package relatedness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, name string, vectors map[string][]float64) *VectorModel {
	t.Helper()
	var dim int
	for _, v := range vectors {
		dim = len(v)
		break
	}
	m := NewVectorModel(name, dim)
	for w, v := range vectors {
		require.NoError(t, m.Add(w, v))
	}
	return m
}
