package correlation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks an invalid subset, method or policy selection.
var ErrConfiguration = errors.New("invalid configuration")

// ErrMissingColumn is returned when a selected score column is absent from a dataset.
var ErrMissingColumn = errors.New("score column not found")

// SelectorError names a rejected selector value and the values that are accepted.
type SelectorError struct {
	Kind     string
	Value    string
	Accepted []string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("unknown %s %q (accepted: %s)", e.Kind, e.Value, strings.Join(e.Accepted, ", "))
}

func (e *SelectorError) Unwrap() error {
	return ErrConfiguration
}

// Method is the correlation coefficient to compute.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// ParseMethod accepts a method name or its one-letter alias.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pearson", "p":
		return Pearson, nil
	case "spearman", "s":
		return Spearman, nil
	}
	return "", &SelectorError{Kind: "method", Value: s, Accepted: []string{"pearson (p)", "spearman (s)"}}
}

// Policy decides how OOV scores enter the coefficient.
type Policy string

const (
	// ZeroFill scores OOV pairs as 0 and keeps every row.
	ZeroFill Policy = "zero-fill"
	// IntersectAll keeps only rows scored by every selected column.
	IntersectAll Policy = "intersect-all-methods"
	// ExcludePairwise drops each column's own OOV rows and reports its OOV percentage.
	ExcludePairwise Policy = "exclude-pairwise"
)

// ParsePolicy accepts a policy name or its one-letter alias.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero-fill", "z":
		return ZeroFill, nil
	case "intersect-all-methods", "intersect", "i":
		return IntersectAll, nil
	case "exclude-pairwise", "exclude", "e":
		return ExcludePairwise, nil
	}
	return "", &SelectorError{
		Kind:     "policy",
		Value:    s,
		Accepted: []string{"zero-fill (z)", "intersect-all-methods (i)", "exclude-pairwise (e)"},
	}
}
