package cli

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Normalize a member CSV and write the cleaned copy",
	Long: `Load a member CSV, normalize its column names and standardize its
field formatting, then write the result back out as CSV.

Birthdates are reformatted to YYYY-MM-DD, name columns are title-cased,
mail columns lower-cased and campus/program fields upper-cased. Output
headers use display names ("pup_webmail" becomes "Pup Webmail").

Examples:
  scrubdeck clean members.csv
  scrubdeck clean members.csv -o cleaned.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

type cleanOptions struct {
	output      string
	indexColumn bool
}

var cleanOpts = &cleanOptions{}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanOpts.output, "output", "o", "", "output file (default stdout)")
	cleanCmd.Flags().BoolVar(&cleanOpts.indexColumn, "index-column", false, "treat the first CSV column as the row index")
}

func runClean(cmd *cobra.Command, args []string) error {
	t, err := loadRoster(args[0], cleanOpts.indexColumn)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	out := os.Stdout
	if cleanOpts.output != "" {
		f, err := os.Create(cleanOpts.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cleanOpts.output, err)
		}
		defer f.Close()
		out = f
	}

	if err := t.WriteCSV(out, true); err != nil {
		return err
	}
	if cleanOpts.output != "" {
		pterm.Success.Printfln("Wrote %d rows to %s", t.NumRows(), cleanOpts.output)
	}
	return nil
}
