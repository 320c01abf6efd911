package app

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/relatedness/correlation"
	"yashubustudio/relatedness/relatedness"
)

const (
	fullModel     = "fasttext-pubmed_full"
	subwordModel  = "fasttext-pubmed_fullSubword"
	rel4Dataset   = "Word 1,Word 2,Human (mean)\nheart,attack,7\nculture,acid,2\nheart_attack,culture,5\nxyzzy,foo,0\n"
	fullVectors   = "4 2\nheart 1 0\nattack 0.8 0.6\nculture 0 1\nacid 0.6 0.8\n"
	subwordVector = "heart 1 0\nattack 1 0\nculture 0 1\nacid 0 1\nfoo 1 1\n"
)

type fixture struct {
	datasets string
	models   string
	out      string
	cfg      relatedness.Config
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		datasets: filepath.Join(root, "datasets"),
		models:   filepath.Join(root, "models"),
		out:      filepath.Join(root, "out"),
		cfg:      relatedness.DefaultConfig(),
	}
	f.cfg.Workers = 2
	f.cfg.Formats = map[string]relatedness.Format{subwordModel: relatedness.FormatGloVe}

	writeFile(t, filepath.Join(f.datasets, "rel_4.csv"), rel4Dataset)
	writeFile(t, filepath.Join(f.datasets, "mayo.csv"), rel4Dataset)
	writeFile(t, filepath.Join(f.datasets, "README.md"), "not a dataset")
	writeFile(t, filepath.Join(f.models, fullModel+".txt"), fullVectors)
	writeFile(t, filepath.Join(f.models, subwordModel+".vec"), subwordVector)
	return f
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func (f fixture) score(t *testing.T) ScoreSummary {
	t.Helper()
	summary, err := RunScoring(context.Background(), ScoreOptions{
		DatasetDir: f.datasets,
		ModelDir:   f.models,
		OutputDir:  f.out,
	}, f.cfg, nil)
	require.NoError(t, err)
	return summary
}

func TestRunScoringWritesColumnsInModelOrder(t *testing.T) {
	f := newFixture(t)
	summary := f.score(t)

	assert.Equal(t, []string{"rel_4"}, summary.Datasets)
	assert.Equal(t, []string{fullModel, subwordModel}, summary.Models)
	require.Len(t, summary.Skipped, 1)
	assert.ErrorIs(t, summary.Skipped[filepath.Join(f.datasets, "mayo.csv")], relatedness.ErrDatasetNaming)
	assert.NotEmpty(t, summary.RunID)

	ds, err := relatedness.ReadDataset(filepath.Join(f.out, "rel_4_output.csv"), relatedness.ColumnOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{fullModel + "_Rel", subwordModel + "_Rel"}, ds.Columns())

	full, _ := ds.Column(fullModel + "_Rel")
	require.Len(t, full, 4)
	v, ok := full[0].Value()
	require.True(t, ok)
	assert.InDelta(t, 0.8, v, 1e-9)
	v, ok = full[2].Value()
	require.True(t, ok)
	assert.InDelta(t, 0.6/math.Sqrt(1.8*1.8+0.6*0.6), v, 1e-9)
	assert.True(t, full[3].IsOOV())

	sub, _ := ds.Column(subwordModel + "_Rel")
	v, ok = sub[2].Value()
	require.True(t, ok)
	assert.InDelta(t, 0, v, 1e-12)
	assert.True(t, sub[3].IsOOV())
}

func TestRunScoringWritesReports(t *testing.T) {
	f := newFixture(t)
	summary := f.score(t)
	require.Len(t, summary.Reports, 2)

	report, err := relatedness.ReadReportFile(filepath.Join(f.out, "extra", fullModel+".oov.yaml"))
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, report.RunID)
	assert.Equal(t, 4, report.VocabSize)
	require.Len(t, report.Datasets, 1)
	assert.Equal(t, 1, report.Datasets[0].Count)
	assert.InDelta(t, 0.25, report.Datasets[0].Rate, 1e-15)
	assert.Equal(t, []string{"xyzzy", "foo"}, report.Datasets[0].Entries[0].Terms)

	text, err := os.ReadFile(filepath.Join(f.out, "extra", subwordModel+".out"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Model name: "+subwordModel)
	// the subword model knows foo, so only xyzzy is missing
	assert.Contains(t, string(text), "OOV terms:\nxyzzy\n")
	assert.Contains(t, string(text), "OOV count: 1\n")
}

func TestRunScoringFailsOnBadModel(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.models, "broken.txt"), "2 2\nheart 1\n")

	_, err := RunScoring(context.Background(), ScoreOptions{
		DatasetDir: f.datasets,
		ModelDir:   f.models,
		OutputDir:  f.out,
	}, f.cfg, nil)
	assert.ErrorContains(t, err, "model broken")
	_, statErr := os.Stat(filepath.Join(f.out, "rel_4_output.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunScoringRejectsDuplicateModelNames(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.models, fullModel+".vec"), fullVectors)

	summary, err := RunScoring(context.Background(), ScoreOptions{
		DatasetDir: f.datasets,
		ModelDir:   f.models,
		OutputDir:  f.out,
	}, f.cfg, nil)
	assert.ErrorIs(t, err, ErrDuplicateModel)
	assert.ErrorContains(t, err, fullModel+".txt")
	assert.Empty(t, summary.Reports)
	_, statErr := os.Stat(f.out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunScoringRejectsUnknownFormat(t *testing.T) {
	f := newFixture(t)
	f.cfg.Formats[fullModel] = "fasttext"
	_, err := RunScoring(context.Background(), ScoreOptions{DatasetDir: f.datasets, ModelDir: f.models, OutputDir: f.out}, f.cfg, nil)
	assert.ErrorIs(t, err, relatedness.ErrUnknownFormat)
}

func TestRunCorrelationExcludePairwise(t *testing.T) {
	f := newFixture(t)
	f.score(t)

	var buf bytes.Buffer
	summary, err := RunCorrelation(CorrelateOptions{
		ResultDir: f.out,
		Subset:    "pub",
		Method:    "p",
		Policy:    "e",
		Format:    "tsv",
	}, f.cfg, &buf, nil)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	for _, r := range summary.Results {
		assert.Equal(t, "rel_4_output", r.Dataset)
		assert.Equal(t, 3, r.Rows)
		assert.Equal(t, 1, r.OOVCount)
		assert.InDelta(t, 0.25, r.OOVRate, 1e-15)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, correlation.PolicyBanner(correlation.ExcludePairwise), lines[0])
	assert.Equal(t, "rel_4_output", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], fullModel+"_Rel\t"))
	assert.True(t, strings.HasSuffix(lines[3], "\t0.25"))
}

func TestRunCorrelationSkipsDatasetsMissingColumns(t *testing.T) {
	f := newFixture(t)
	f.score(t)

	var buf bytes.Buffer
	summary, err := RunCorrelation(CorrelateOptions{ResultDir: f.out, Subset: "all", Method: "s", Policy: "z"}, f.cfg, &buf, nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
	require.Len(t, summary.Skipped, 1)
	for _, reason := range summary.Skipped {
		assert.ErrorIs(t, reason, correlation.ErrMissingColumn)
	}
}

func TestRunCorrelationValidatesSelectorsFirst(t *testing.T) {
	var buf bytes.Buffer
	_, err := RunCorrelation(CorrelateOptions{ResultDir: "/does/not/exist", Subset: "pub", Method: "kendall", Policy: "z"}, relatedness.DefaultConfig(), &buf, nil)
	assert.ErrorIs(t, err, correlation.ErrConfiguration)
	assert.Empty(t, buf.String())
}
