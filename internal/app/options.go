package app

import (
	"io"

	"github.com/sirupsen/logrus"

	"yashubustudio/relatedness/correlation"
	"yashubustudio/relatedness/relatedness"
)

// ScoreOptions names the directories of a scoring run.
type ScoreOptions struct {
	DatasetDir string
	ModelDir   string
	OutputDir  string
}

// ScoreSummary describes a finished scoring run.
type ScoreSummary struct {
	RunID    string
	Datasets []string
	Models   []string
	// Skipped maps a dataset file to the reason it was left out.
	Skipped map[string]error
	Reports []relatedness.ModelReport
}

// CorrelateOptions selects what a correlation run evaluates.
type CorrelateOptions struct {
	ResultDir string
	Subset    string
	Method    string
	Policy    string
	Format    string
}

// CorrelateSummary holds the results of a correlation run.
type CorrelateSummary struct {
	Subset  correlation.Subset
	Method  correlation.Method
	Policy  correlation.Policy
	Results []correlation.Result
	// Skipped maps a result file to the reason it was left out.
	Skipped map[string]error
}

func orDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
