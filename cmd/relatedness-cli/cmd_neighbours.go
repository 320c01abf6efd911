package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"yashubustudio/relatedness/relatedness"
)

var neighboursFlags struct {
	top    int
	format string
}

var neighboursCmd = &cobra.Command{
	Use:     "neighbours <model-file> <word>...",
	Aliases: []string{"neighbors"},
	Short:   "List the nearest neighbours of words in one model",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runNeighbours,
}

func init() {
	neighboursCmd.Flags().IntVarP(&neighboursFlags.top, "top", "n", 0, "Neighbours per word (default probe_top_n from config)")
	neighboursCmd.Flags().StringVar(&neighboursFlags.format, "model-format", "", "Model file format: text, binary or glove (default from config)")
}

func runNeighbours(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := args[0]
	format := cfg.FormatFor(relatedness.ModelNameFromPath(path))
	if neighboursFlags.format != "" {
		if format, err = relatedness.ParseFormat(neighboursFlags.format); err != nil {
			return err
		}
	}
	top := cfg.ProbeTopN
	if neighboursFlags.top > 0 {
		top = neighboursFlags.top
	}

	logger := newLogger(cmd)
	logger.WithField("format", format).Infof("loading %s", path)
	model, err := relatedness.LoadModel(path, format)
	if err != nil {
		return err
	}
	idx := relatedness.NewNeighbourIndex(model)

	out := cmd.OutOrStdout()
	for _, raw := range args[1:] {
		word := relatedness.NormalizeTerm(raw)
		hits, ok := idx.MostSimilar(word, top)
		if !ok {
			vec, resolved := relatedness.ResolveCompound(model, word)
			if !resolved || !relatedness.IsCompound(word) {
				fmt.Fprintf(out, "%s: not in vocabulary\n", word)
				continue
			}
			hits = idx.Search(vec, top)
		}
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetTitle(word)
		t.AppendHeader(table.Row{"#", "Word", "Similarity"})
		for i, h := range hits {
			t.AppendRow(table.Row{i + 1, h.Word, strconv.FormatFloat(h.Score, 'f', 4, 64)})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
		fmt.Fprintln(out, t.Render())
	}
	return nil
}
