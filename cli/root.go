package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scrubdeck/scrubdeck/server/config"
	"github.com/scrubdeck/scrubdeck/table"
)

var rootCmd = &cobra.Command{
	Use:   "scrubdeck",
	Short: "Inspect and clean delimited member rosters",
	Long: `Scrubdeck loads a delimited file of organization members and helps you
find what is wrong with it: duplicate entries, missing values, inconsistent
text casing and near-duplicate spellings.

Run "scrubdeck serve" for the dashboard API, or use "check" and "clean"
for one-shot reports and exports straight from the terminal.`,
	Version: "0.1.0",
}

var rootOpts struct {
	configFile string
	verbose    bool
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.configFile, "config", "", "config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}
}

// loadAppConfig resolves the effective configuration: the --config file if
// given, otherwise the default file, otherwise built-in defaults.
func loadAppConfig() (*config.Config, error) {
	if rootOpts.configFile != "" {
		return config.LoadConfig(rootOpts.configFile)
	}
	cfg, err := config.LoadConfig(config.DefaultConfigFile)
	if err != nil {
		return config.LoadDefaultConfig(), nil
	}
	return cfg, nil
}

// loadRoster reads a member CSV from disk and runs it through column
// normalization and field standardization, the same pipeline the server
// applies on upload.
func loadRoster(path string, indexColumn bool) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := table.DefaultCSVOptions()
	opts.IndexColumn = indexColumn

	t, err := table.ReadCSV(f, opts)
	if err != nil {
		return nil, err
	}
	t, err = table.NormalizeColumns(t)
	if err != nil {
		return nil, err
	}
	return table.StandardizeFields(t), nil
}
