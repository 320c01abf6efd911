package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"yashubustudio/relatedness/relatedness"
)

// ErrDuplicateModel is returned when two model files resolve to the same model name.
var ErrDuplicateModel = errors.New("duplicate model name")

// RunScoring scores every dataset in opts.DatasetDir against every model in
// opts.ModelDir and writes the scored datasets and per-model reports to opts.OutputDir.
// A dataset whose name carries no pair count is skipped; any other failure aborts the run.
func RunScoring(ctx context.Context, opts ScoreOptions, cfg relatedness.Config, logger logrus.FieldLogger) (ScoreSummary, error) {
	log := orDiscard(logger)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return ScoreSummary{}, err
	}
	summary := ScoreSummary{
		RunID:   uuid.NewString(),
		Skipped: make(map[string]error),
	}
	log = log.WithField("run", summary.RunID)

	datasets, err := loadDatasets(opts.DatasetDir, cfg, summary.Skipped, log)
	if err != nil {
		return summary, err
	}
	if len(datasets) == 0 {
		return summary, fmt.Errorf("no scorable datasets in %s", opts.DatasetDir)
	}
	modelFiles, err := listFiles(opts.ModelDir, "")
	if err != nil {
		return summary, err
	}
	if len(modelFiles) == 0 {
		return summary, fmt.Errorf("no model files in %s", opts.ModelDir)
	}
	// Reports and score columns are keyed by model name, so names must be unique.
	seen := make(map[string]string, len(modelFiles))
	for _, path := range modelFiles {
		name := relatedness.ModelNameFromPath(path)
		if prev, ok := seen[name]; ok {
			return summary, fmt.Errorf("%w: %s and %s both give %q", ErrDuplicateModel, filepath.Base(prev), filepath.Base(path), name)
		}
		seen[name] = path
		summary.Models = append(summary.Models, name)
	}
	for _, ds := range datasets {
		summary.Datasets = append(summary.Datasets, ds.Name)
	}

	// One slot per model keeps column order independent of completion order.
	columns := make([][]relatedness.ColumnResult, len(modelFiles))
	reports := make([]relatedness.ModelReport, len(modelFiles))
	reportDir := filepath.Join(opts.OutputDir, cfg.ReportDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range modelFiles {
		i, path := i, path
		g.Go(func() error {
			cols, report, err := scoreModel(gctx, path, datasets, cfg, summary.RunID, log)
			if err != nil {
				return err
			}
			if err := relatedness.WriteReportFiles(reportDir, report); err != nil {
				return fmt.Errorf("model %s: %w", report.Model, err)
			}
			columns[i] = cols
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	summary.Reports = reports

	for _, cols := range columns {
		for d, col := range cols {
			if err := datasets[d].AddColumn(col.Column, col.Scores); err != nil {
				return summary, fmt.Errorf("dataset %s: %w", datasets[d].Name, err)
			}
		}
	}
	for _, ds := range datasets {
		out := filepath.Join(opts.OutputDir, ds.Name+"_output.csv")
		if err := relatedness.WriteDataset(out, ds); err != nil {
			return summary, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		log.WithFields(logrus.Fields{"dataset": ds.Name, "rows": ds.Len()}).Info("wrote scored dataset")
	}
	return summary, nil
}

func loadDatasets(dir string, cfg relatedness.Config, skipped map[string]error, log logrus.FieldLogger) ([]*relatedness.Dataset, error) {
	files, err := listFiles(dir, ".csv")
	if err != nil {
		return nil, err
	}
	var out []*relatedness.Dataset
	for _, path := range files {
		name := relatedness.DatasetNameFromPath(path)
		if _, err := relatedness.NominalPairCount(name); err != nil {
			skipped[path] = err
			log.WithField("dataset", name).Warnf("skipping dataset: %v", err)
			continue
		}
		ds, err := relatedness.ReadDataset(path, cfg.Columns)
		if err != nil {
			return nil, err
		}
		if ds.Blank > 0 {
			log.WithFields(logrus.Fields{"dataset": ds.Name, "rows": ds.Blank}).Warn("rows with no terms will score as OOV")
		}
		out = append(out, ds)
	}
	return out, nil
}

func scoreModel(ctx context.Context, path string, datasets []*relatedness.Dataset, cfg relatedness.Config, runID string, log logrus.FieldLogger) ([]relatedness.ColumnResult, relatedness.ModelReport, error) {
	name := relatedness.ModelNameFromPath(path)
	mlog := log.WithField("model", name)
	format := cfg.FormatFor(name)
	mlog.WithField("format", format).Info("loading model")
	model, err := relatedness.LoadModel(path, format)
	if err != nil {
		return nil, relatedness.ModelReport{}, fmt.Errorf("model %s: %w", name, err)
	}
	scorer, err := relatedness.NewScorer(model, mlog)
	if err != nil {
		return nil, relatedness.ModelReport{}, err
	}
	report := relatedness.ModelReport{
		RunID:     runID,
		Model:     name,
		VocabSize: model.Size(),
		Dim:       model.Dim(),
		Probes:    relatedness.RunProbes(relatedness.NewNeighbourIndex(model), cfg.Probes, cfg.OptionalProbes, cfg.ProbeTopN),
	}
	cols := make([]relatedness.ColumnResult, len(datasets))
	for d, ds := range datasets {
		res, err := scorer.ScoreDataset(ctx, ds)
		if err != nil {
			return nil, report, fmt.Errorf("model %s: %w", name, err)
		}
		cols[d] = res
		report.Datasets = append(report.Datasets, res.Report)
		mlog.WithFields(logrus.Fields{
			"dataset": ds.Name,
			"oov":     res.Report.Count,
			"rows":    res.Report.Rows,
		}).Info("scored dataset")
		if res.Report.Skewed() {
			mlog.WithField("dataset", ds.Name).Warnf("dataset has %d rows but its name gives %d; OOV rate uses the name", res.Report.Rows, res.Report.NominalPairs)
		}
	}
	return cols, report, nil
}
