package relatedness

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrDatasetNaming is returned when a dataset name carries no positive pair count.
	ErrDatasetNaming = errors.New("dataset name has no pair count")
	// ErrRowCountMismatch is returned when a score column does not line up with the dataset rows.
	ErrRowCountMismatch = errors.New("score column length does not match dataset rows")
)

// scoreColumnSuffix marks model score columns in a scored dataset.
const scoreColumnSuffix = "_Rel"

// Dataset is an ordered set of word pairs plus one score column per model.
// Columns other than the model scores are carried through unchanged.
type Dataset struct {
	Name string
	// Blank counts rows whose terms are both empty. They are kept and score as OOV.
	Blank int

	header []string
	cells  [][]string
	pairs  []WordPair

	mu      sync.RWMutex
	columns []string
	scores  map[string][]Score
}

// NewDataset builds a dataset from pairs, with a Word 1 / Word 2 / Human (mean) header.
func NewDataset(name string, pairs []WordPair) *Dataset {
	ds := &Dataset{
		Name:   name,
		header: []string{"Word 1", "Word 2", "Human (mean)"},
		scores: make(map[string][]Score),
	}
	for _, p := range pairs {
		ds.pairs = append(ds.pairs, p)
		human := ""
		if !math.IsNaN(p.Human) {
			human = strconv.FormatFloat(p.Human, 'g', -1, 64)
		}
		ds.cells = append(ds.cells, []string{p.Word1, p.Word2, human})
	}
	return ds
}

// DatasetNameFromPath derives the dataset identifier: the file base name up to its first dot.
func DatasetNameFromPath(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// NominalPairCount concatenates the decimal digits of a dataset name, e.g. "rel_353" -> 353.
func NominalPairCount(name string) (int, error) {
	var sb strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrDatasetNaming, name)
	}
	n, err := strconv.Atoi(sb.String())
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrDatasetNaming, name)
	}
	return n, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.pairs)
}

// Pairs returns the rows in order.
func (d *Dataset) Pairs() []WordPair {
	out := make([]WordPair, len(d.pairs))
	copy(out, d.pairs)
	return out
}

// HumanScores returns the human column in row order. A blank human cell reads as NaN.
func (d *Dataset) HumanScores() []float64 {
	out := make([]float64, len(d.pairs))
	for i, p := range d.pairs {
		out[i] = p.Human
	}
	return out
}

// Columns returns the model score columns in insertion order.
func (d *Dataset) Columns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneStrings(d.columns)
}

// Column returns a copy of a score column.
func (d *Dataset) Column(name string) ([]Score, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	col, ok := d.scores[name]
	if !ok {
		return nil, false
	}
	out := make([]Score, len(col))
	copy(out, col)
	return out, true
}

// AddColumn stores a score column, replacing any column of the same name.
// Safe for concurrent use by several scoring workers.
func (d *Dataset) AddColumn(name string, scores []Score) error {
	if len(scores) != len(d.pairs) {
		return fmt.Errorf("%w: %s has %d scores for %d rows", ErrRowCountMismatch, name, len(scores), len(d.pairs))
	}
	col := make([]Score, len(scores))
	copy(col, scores)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scores == nil {
		d.scores = make(map[string][]Score)
	}
	if _, exists := d.scores[name]; !exists {
		d.columns = append(d.columns, name)
	}
	d.scores[name] = col
	return nil
}

// ReadDataset loads a dataset CSV. Columns ending in _Rel are read back as score columns.
func ReadDataset(path string, opts ColumnOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	ds, err := ParseDataset(f, DatasetNameFromPath(path), opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// ParseDataset decodes dataset CSV from r.
func ParseDataset(r io.Reader, name string, opts ColumnOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	fullHeader := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		fullHeader[i] = cleanCell(cell)
	}
	cols, err := resolveDatasetColumns(fullHeader, opts)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Name: name, scores: make(map[string][]Score)}
	var keep, scoreIdx []int
	for i, col := range fullHeader {
		_, dup := ds.scores[col]
		if !dup && strings.HasSuffix(col, scoreColumnSuffix) && i != cols.Word1 && i != cols.Word2 && i != cols.Human {
			scoreIdx = append(scoreIdx, i)
			ds.columns = append(ds.columns, col)
			ds.scores[col] = []Score{}
			continue
		}
		keep = append(keep, i)
		ds.header = append(ds.header, col)
	}

	for n, row := range rows[1:] {
		line := n + 2
		word1 := cellAt(row, cols.Word1)
		word2 := cellAt(row, cols.Word2)
		if word1 == "" && word2 == "" {
			ds.Blank++
		}
		human, err := parseHuman(cellAt(row, cols.Human))
		if err != nil {
			return nil, fmt.Errorf("line %d: human score %q: %w", line, cellAt(row, cols.Human), err)
		}
		ds.pairs = append(ds.pairs, WordPair{Word1: word1, Word2: word2, Human: human})

		cells := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				cells[j] = row[idx]
			}
		}
		ds.cells = append(ds.cells, cells)

		for j, idx := range scoreIdx {
			score, err := ParseScore(cellAt(row, idx))
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, ds.columns[j], err)
			}
			ds.scores[ds.columns[j]] = append(ds.scores[ds.columns[j]], score)
		}
	}
	return ds, nil
}

// WriteDataset writes ds as CSV to path, creating parent directories.
func WriteDataset(path string, ds *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := ds.WriteCSV(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}

// WriteCSV writes the passthrough columns followed by the score columns.
// OOV scores are written as empty cells.
func (d *Dataset) WriteCSV(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	writer := csv.NewWriter(w)
	header := append(cloneStrings(d.header), d.columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, cells := range d.cells {
		row := make([]string, 0, len(header))
		row = append(row, cells...)
		for _, col := range d.columns {
			row = append(row, d.scores[col][i].String())
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush dataset: %w", err)
	}
	return nil
}

// parseHuman reads a human score cell. An empty cell is a missing rating.
func parseHuman(v string) (float64, error) {
	if v == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(v, 64)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
