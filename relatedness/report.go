package relatedness

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const reportRule = "_____________________________________________________________________________________"

// ModelReport collects everything written about one model during a scoring run.
type ModelReport struct {
	RunID     string        `yaml:"run_id"`
	Model     string        `yaml:"model"`
	VocabSize int           `yaml:"vocab_size"`
	Dim       int           `yaml:"dim"`
	Probes    []ProbeResult `yaml:"probes,omitempty"`
	Datasets  []OOVReport   `yaml:"datasets"`
}

// WriteText renders the human-readable report.
func (r ModelReport) WriteText(w io.Writer) error {
	var buf bytes.Buffer
	if r.RunID != "" {
		fmt.Fprintf(&buf, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(&buf, "Model name: %s\n", r.Model)
	fmt.Fprintf(&buf, "Vocab size: %d\n", r.VocabSize)
	for _, p := range r.Probes {
		fmt.Fprintf(&buf, "Most similar to '%s':\n", p.Word)
		if !p.Found {
			buf.WriteString("  (not in vocabulary)\n")
			continue
		}
		for _, n := range p.Neighbours {
			fmt.Fprintf(&buf, "  %-30s %s\n", n.Word, strconv.FormatFloat(n.Score, 'f', 6, 64))
		}
	}
	buf.WriteString(reportRule + "\n")
	for _, ds := range r.Datasets {
		fmt.Fprintf(&buf, "Eval dataset: %s\n", ds.Dataset)
		buf.WriteString("======================================\n")
		buf.WriteString("OOV terms:\n")
		for _, e := range ds.Entries {
			for _, term := range e.Terms {
				buf.WriteString(term + "\n")
			}
		}
		buf.WriteString("======================================\n")
		fmt.Fprintf(&buf, "OOV count: %d\n", ds.Count)
		fmt.Fprintf(&buf, "OOV %%: %s\n", strconv.FormatFloat(ds.Rate, 'g', -1, 64))
		if ds.Skewed() {
			fmt.Fprintf(&buf, "Rows scored: %d (name gives %d)\n", ds.Rows, ds.NominalPairs)
		}
		buf.WriteString(reportRule + "\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteReportFiles writes <model>.out and <model>.oov.yaml under dir.
func WriteReportFiles(dir string, r ModelReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	var text bytes.Buffer
	if err := r.WriteText(&text); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, r.Model+".out"), text.Bytes()); err != nil {
		return err
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode oov report: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, r.Model+".oov.yaml"), data)
}

// ReadReportFile loads a YAML report written by WriteReportFiles.
func ReadReportFile(path string) (ModelReport, error) {
	var r ModelReport
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read report: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("decode report %s: %w", filepath.Base(path), err)
	}
	return r, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
