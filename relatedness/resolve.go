package relatedness

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ResolveCompound builds a vector for an underscore-joined term by summing the
// vectors of its sub-tokens. It fails, rather than returning a partial sum, as soon
// as any sub-token is missing from the model.
func ResolveCompound(model Model, term string) ([]float64, bool) {
	parts := strings.Split(term, CompoundSeparator)
	acc, ok := model.Vector(parts[0])
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		vec, ok := model.Vector(part)
		if !ok {
			return nil, false
		}
		floats.Add(acc, vec)
	}
	return acc, true
}
