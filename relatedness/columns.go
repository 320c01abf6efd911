package relatedness

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnCandidates lists header names tried, case-insensitively, when locating dataset columns.
type ColumnCandidates struct {
	Word1 []string `toml:"word1"`
	Word2 []string `toml:"word2"`
	Human []string `toml:"human"`
}

// ColumnOptions controls how dataset columns are located. An explicit column is a
// header name or a 1-based "#N" index and takes precedence over the candidates.
type ColumnOptions struct {
	Word1      string           `toml:"word1_column"`
	Word2      string           `toml:"word2_column"`
	Human      string           `toml:"human_column"`
	Candidates ColumnCandidates `toml:"candidates"`
}

// DefaultColumnCandidates returns the built-in header names.
func DefaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Word1: []string{"Word 1", "word1", "term 1", "term1"},
		Word2: []string{"Word 2", "word2", "term 2", "term2"},
		Human: []string{"Human (mean)", "human", "score", "mean"},
	}
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := DefaultColumnCandidates()
	return ColumnCandidates{
		Word1: pickStrings(c.Word1, defaults.Word1),
		Word2: pickStrings(c.Word2, defaults.Word2),
		Human: pickStrings(c.Human, defaults.Human),
	}
}

type resolvedColumns struct {
	Word1 int
	Word2 int
	Human int
}

func resolveDatasetColumns(header []string, opts ColumnOptions) (resolvedColumns, error) {
	candidates := opts.Candidates.withDefaults()
	var (
		res resolvedColumns
		err error
	)
	if res.Word1, err = pickColumn(header, opts.Word1, candidates.Word1, "word 1"); err != nil {
		return res, err
	}
	if res.Word2, err = pickColumn(header, opts.Word2, candidates.Word2, "word 2"); err != nil {
		return res, err
	}
	if res.Human, err = pickColumn(header, opts.Human, candidates.Human, "human score"); err != nil {
		return res, err
	}
	return res, nil
}

func pickColumn(header []string, explicit string, candidates []string, role string) (int, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	if idx := findColumn(header, candidates); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("no %s column (tried %s)", role, strings.Join(candidates, ", "))
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

func matchExplicitColumn(header []string, explicit string) (int, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, err
		}
		if idx >= len(header) {
			return -1, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, nil
	}
	return -1, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}

func pickStrings(custom, fallback []string) []string {
	if len(custom) == 0 {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
