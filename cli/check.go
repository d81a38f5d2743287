package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/scrubdeck/scrubdeck/quality"
	"github.com/scrubdeck/scrubdeck/table"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run a one-shot quality report on a member CSV",
	Long: `Load a member CSV and print its quality report: key-column summary
metrics, missing values per column and text-case distribution for the
name columns.

With --similarity-column the report also scans that column for pairs of
near-duplicate values.

Examples:
  scrubdeck check members.csv
  scrubdeck check members.csv --similarity-column full_name
  scrubdeck check members.csv --similarity-column last_name --threshold 0.9`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

type checkOptions struct {
	keyColumn        string
	similarityColumn string
	threshold        float64
	indexColumn      bool
}

var checkOpts = &checkOptions{}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkOpts.keyColumn, "key-column", quality.KeyColumn, "column treated as the member identity key")
	checkCmd.Flags().StringVar(&checkOpts.similarityColumn, "similarity-column", "", "text column to scan for near-duplicate values")
	checkCmd.Flags().Float64Var(&checkOpts.threshold, "threshold", quality.DefaultSimilarityThreshold, "similarity threshold for the near-duplicate scan (0..1)")
	checkCmd.Flags().BoolVar(&checkOpts.indexColumn, "index-column", false, "treat the first CSV column as the row index")
}

func runCheck(cmd *cobra.Command, args []string) error {
	t, err := loadRoster(args[0], checkOpts.indexColumn)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	pterm.DefaultSection.Println("Summary")
	m := quality.SummaryMetrics(t, checkOpts.keyColumn)
	if err := pterm.DefaultTable.WithHasHeader().WithData(metricsRows(m)).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Missing values")
	missing := quality.MissingValueSeries(t)
	if missing.Empty() {
		pterm.Info.Println("No missing values.")
	} else if err := pterm.DefaultTable.WithHasHeader().WithData(missingRows(missing)).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Text case")
	cases := quality.TextCaseSeries(t, quality.DefaultCaseColumns)
	if cases.Empty() {
		pterm.Info.Println("No name columns found.")
	} else if err := pterm.DefaultTable.WithHasHeader().WithData(caseRows(cases)).Render(); err != nil {
		return err
	}

	if checkOpts.similarityColumn != "" {
		pterm.DefaultSection.Println("Near-duplicate values")
		pairs, _ := quality.SimilarityClusters(t, checkOpts.similarityColumn, checkOpts.threshold)
		if len(pairs) == 0 {
			pterm.Info.Printfln("No pairs in %q at threshold %.2f.", checkOpts.similarityColumn, checkOpts.threshold)
		} else if err := pterm.DefaultTable.WithHasHeader().WithData(pairRows(pairs)).Render(); err != nil {
			return err
		}
	}

	return nil
}

func metricsRows(m quality.Metrics) pterm.TableData {
	return pterm.TableData{
		{"Metric", "Count"},
		{"Total rows", strconv.Itoa(m.TotalRows)},
		{"Unique keys", strconv.Itoa(m.UniqueKeys)},
		{"Duplicate keys", strconv.Itoa(m.DuplicateKeys)},
		{"Missing keys", strconv.Itoa(m.MissingKeys)},
	}
}

func missingRows(s quality.MissingSeries) pterm.TableData {
	rows := pterm.TableData{{"Column", "Missing"}}
	for i, col := range s.Columns {
		rows = append(rows, []string{table.DisplayName(col), strconv.Itoa(s.Counts[i])})
	}
	return rows
}

func caseRows(s quality.CaseSeries) pterm.TableData {
	rows := pterm.TableData{{"Column", "Uppercase", "Lowercase", "Titlecase"}}
	for i, col := range s.Columns {
		c := s.Counts[i]
		rows = append(rows, []string{
			table.DisplayName(col),
			strconv.Itoa(c.Uppercase),
			strconv.Itoa(c.Lowercase),
			strconv.Itoa(c.Titlecase),
		})
	}
	return rows
}

func pairRows(pairs []quality.Pair) pterm.TableData {
	rows := pterm.TableData{{"Value", "Similar to", "Score"}}
	for _, p := range pairs {
		rows = append(rows, []string{p.Value1, p.Value2, fmt.Sprintf("%.3f", p.Similarity)})
	}
	return rows
}
