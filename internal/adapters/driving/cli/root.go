// Package cli provides the cobra command surface for cbwg.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hackerman70000/cbwg/internal/config"
	"github.com/hackerman70000/cbwg/internal/logger"
)

var (
	verboseFlag bool

	// settings carries persistent CLI defaults; nil when the settings
	// file could not be opened.
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "cbwg",
	Short: "Candidate wordlist generator",
	Long: `cbwg builds candidate password wordlists from text corpora.

A generation run acquires raw data from files, extracts candidate tokens
with a configurable parser, and expands each token into variants using
either a local rule engine or a generative AI backend. Fine-tune each
stage with per-component YAML config files.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose := verboseFlag
		if !verbose && settings != nil {
			verbose = settings.GetBool("defaults.verbose")
		}
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")

	// Settings are best effort: a missing or unreadable settings file
	// never blocks a run.
	if s, err := config.NewSettings(""); err == nil {
		settings = s
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
