package correlation

import (
	"sort"
	"strings"
)

// Subset is a named, fixed list of score columns evaluated together.
type Subset string

const (
	SubsetAll  Subset = "all"
	SubsetBio  Subset = "bio"
	SubsetFull Subset = "full"
	SubsetPub  Subset = "pub"
)

var subsetColumns = map[Subset][]string{
	SubsetAll: {
		"glove-web_Rel",
		"fasttext-web_Rel",
		"fasttext-wikinews_Rel",
		"word2vec-pubmed-T1_Rel",
		"word2vec-pubmed-A1_Rel",
		"fasttext-pubmed_Rel",
		"fasttext-oas_Rel",
		"fasttext-pub+oas_Rel",
	},
	SubsetBio: {
		"word2vec-pubmed-T1_Rel",
		"word2vec-pubmed-A1_Rel",
		"fasttext-pubmed_Rel",
		"fasttext-oas_Rel",
		"fasttext-pub+oas_Rel",
	},
	SubsetFull: {
		"fasttext-webE_Rel",
		"fasttext-wikinewsE_Rel",
		"fasttext-pubmedE_Rel",
		"fasttext-oasE_Rel",
		"fasttext-pub+oasE_Rel",
	},
	SubsetPub: {
		"fasttext-pubmed_full_Rel",
		"fasttext-pubmed_fullSubword_Rel",
	},
}

// Subsets lists the known subset names.
func Subsets() []Subset {
	out := make([]Subset, 0, len(subsetColumns))
	for s := range subsetColumns {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseSubset resolves a subset name.
func ParseSubset(s string) (Subset, error) {
	sub := Subset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := subsetColumns[sub]; ok {
		return sub, nil
	}
	accepted := make([]string, 0, len(subsetColumns))
	for _, name := range Subsets() {
		accepted = append(accepted, string(name))
	}
	return "", &SelectorError{Kind: "subset", Value: s, Accepted: accepted}
}

// Columns returns the score columns of the subset, in evaluation order.
func (s Subset) Columns() []string {
	cols := subsetColumns[s]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}
