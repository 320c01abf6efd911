package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"yashubustudio/relatedness/correlation"
	"yashubustudio/relatedness/relatedness"
)

// RunCorrelation evaluates every scored dataset in opts.ResultDir and renders the
// results to w. Selectors are validated before any file is read. A dataset lacking
// a selected column, or whose name gives no pair count under exclude-pairwise, is skipped.
func RunCorrelation(opts CorrelateOptions, cfg relatedness.Config, w io.Writer, logger logrus.FieldLogger) (CorrelateSummary, error) {
	log := orDiscard(logger)
	cfg.ApplyDefaults()

	var (
		summary = CorrelateSummary{Skipped: make(map[string]error)}
		err     error
	)
	if summary.Subset, err = correlation.ParseSubset(opts.Subset); err != nil {
		return summary, err
	}
	if summary.Method, err = correlation.ParseMethod(opts.Method); err != nil {
		return summary, err
	}
	if summary.Policy, err = correlation.ParsePolicy(opts.Policy); err != nil {
		return summary, err
	}
	format := correlation.FormatTable
	if opts.Format != "" {
		if format, err = correlation.ParseOutputFormat(opts.Format); err != nil {
			return summary, err
		}
	}

	files, err := listFiles(opts.ResultDir, ".csv")
	if err != nil {
		return summary, err
	}
	columns := summary.Subset.Columns()
	for _, path := range files {
		ds, err := relatedness.ReadDataset(path, cfg.Columns)
		if err != nil {
			return summary, err
		}
		results, err := correlation.Evaluate(ds, columns, summary.Method, summary.Policy)
		if err != nil {
			if errors.Is(err, correlation.ErrMissingColumn) || errors.Is(err, relatedness.ErrDatasetNaming) {
				summary.Skipped[path] = err
				log.WithField("dataset", ds.Name).Warnf("skipping dataset: %v", err)
				continue
			}
			return summary, err
		}
		log.WithFields(logrus.Fields{"dataset": ds.Name, "rows": ds.Len()}).Debug("evaluated dataset")
		summary.Results = append(summary.Results, results...)
	}

	if format == correlation.FormatTSV {
		if _, err := fmt.Fprintln(w, correlation.PolicyBanner(summary.Policy)); err != nil {
			return summary, err
		}
	}
	if err := correlation.Render(w, summary.Results, format); err != nil {
		return summary, fmt.Errorf("render results: %w", err)
	}
	return summary, nil
}
