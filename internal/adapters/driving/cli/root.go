// Package cli implements the apunto command tree.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/apunto-labs/apunto-cli/internal/core/ports/driving"
	"github.com/apunto-labs/apunto-cli/internal/logger"
)

// DefaultOuterTimeout bounds the whole analyze flow from the user's
// point of view, encode step included. It is deliberately wider than
// the per-request deadline inside the analysis service.
const DefaultOuterTimeout = 120 * time.Second

var (
	version = "dev"
	verbose bool

	// Services injected by Execute. Tests swap in mocks.
	analyzer      driving.Analyzer
	historyKeeper driving.HistoryKeeper

	defaultUserID    string
	outerTimeout     = DefaultOuterTimeout
	watchDir         string
	watchDescription string
)

var rootCmd = &cobra.Command{
	Use:   "apunto",
	Short: "Analyse document photos and keep their history",
	Long: `Apunto sends photos of documents to an analysis backend and keeps
a local record of every successful analysis.

Use "apunto analyze" for a single image, "apunto watch" to analyse
images as they land in a capture directory, and "apunto history" to
browse, edit and annotate past analyses.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Options carries the wiring the command tree needs from main.
type Options struct {
	Version string

	Analyzer driving.Analyzer
	History  driving.HistoryKeeper

	// UserID keys remote history requests when --user is not given.
	UserID string

	// OuterTimeout overrides DefaultOuterTimeout when positive.
	OuterTimeout time.Duration

	// WatchDir and WatchDescription configure the watch command.
	WatchDir         string
	WatchDescription string
}

// Execute wires the services into the command tree and runs it.
func Execute(opts Options) error {
	if opts.Version != "" {
		version = opts.Version
	}
	analyzer = opts.Analyzer
	historyKeeper = opts.History
	defaultUserID = opts.UserID
	if opts.OuterTimeout > 0 {
		outerTimeout = opts.OuterTimeout
	}
	watchDir = opts.WatchDir
	watchDescription = opts.WatchDescription

	return rootCmd.Execute()
}
