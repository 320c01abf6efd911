package correlation

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"
	FormatMarkdown OutputFormat = "markdown"
	// FormatTSV prints a dataset heading followed by column<TAB>coefficient[<TAB>oov rate] lines.
	FormatTSV OutputFormat = "tsv"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatMarkdown, FormatTSV:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", &SelectorError{Kind: "format", Value: s, Accepted: []string{"table", "markdown", "tsv"}}
}

// PolicyBanner is the one-line description printed before a correlation run.
func PolicyBanner(p Policy) string {
	switch p {
	case ZeroFill:
		return "OOV word pair similarity scores set to 0."
	case IntersectAll:
		return "OOV word pair similarity scores kept only for pairs with a score from all methods."
	case ExcludePairwise:
		return "OOV word pair similarity scores ignored in correlation calculation."
	}
	return ""
}

// Render writes results grouped by dataset in their given order.
func Render(w io.Writer, results []Result, format OutputFormat) error {
	var out string
	switch format {
	case FormatTSV:
		out = renderTSV(results)
	case FormatMarkdown:
		out = buildTable(results).RenderMarkdown() + "\n"
	default:
		out = buildTable(results).Render() + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func renderTSV(results []Result) string {
	var buf bytes.Buffer
	last := ""
	for i, r := range results {
		if i == 0 || r.Dataset != last {
			if r.Policy == IntersectAll {
				fmt.Fprintf(&buf, "%s(%d pairs)\n", r.Dataset, r.Rows)
			} else {
				buf.WriteString(r.Dataset + "\n")
			}
			last = r.Dataset
		}
		buf.WriteString(r.Column + "\t" + formatFloat(r.Coefficient))
		if r.Policy == ExcludePairwise {
			buf.WriteString("\t" + formatFloat(r.OOVRate))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

func buildTable(results []Result) table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	exclude := len(results) > 0 && results[0].Policy == ExcludePairwise
	header := table.Row{"Dataset", "Column", "Pairs", "Coefficient"}
	if exclude {
		header = append(header, "OOV", "OOV %")
	}
	w.AppendHeader(header)
	for _, r := range results {
		row := table.Row{r.Dataset, r.Column, r.Rows, formatFloat(r.Coefficient)}
		if exclude {
			row = append(row, r.OOVCount, formatFloat(r.OOVRate))
		}
		w.AppendRow(row)
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return w
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
