package relatedness

// DefaultProbes are always listed in a model report, ambiguous general-domain words.
func DefaultProbes() []string {
	return []string{"culture", "acid"}
}

// DefaultOptionalProbes are listed only when the model knows them, biomedical terms
// that general-domain vocabularies often lack.
func DefaultOptionalProbes() []string {
	return []string{"polyp", "antibiotic", "prozac", "cardiomyopathy"}
}

// ProbeResult is the neighbour listing for one probe word.
type ProbeResult struct {
	Word       string      `yaml:"word"`
	Found      bool        `yaml:"found"`
	Neighbours []Neighbour `yaml:"neighbours,omitempty"`
}

// RunProbes lists neighbours for each probe. Required probes are reported even when
// absent; optional probes are dropped when absent.
func RunProbes(idx *NeighbourIndex, required, optional []string, topN int) []ProbeResult {
	out := make([]ProbeResult, 0, len(required)+len(optional))
	for _, w := range required {
		hits, ok := idx.MostSimilar(w, topN)
		out = append(out, ProbeResult{Word: w, Found: ok, Neighbours: hits})
	}
	for _, w := range optional {
		if hits, ok := idx.MostSimilar(w, topN); ok {
			out = append(out, ProbeResult{Word: w, Found: true, Neighbours: hits})
		}
	}
	return out
}
