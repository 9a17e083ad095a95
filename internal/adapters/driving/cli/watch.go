package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/apunto-labs/apunto-cli/internal/logger"
)

var (
	watchDirFlag         string
	watchDescriptionFlag string
)

// settleDelay gives the writer time to finish the file after the
// create event fires.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Analyse images as they appear in a directory",
	Long: `Watches a capture directory and analyses every new image dropped
into it, saving successful analyses to history. Runs until
interrupted with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDirFlag, "dir", "",
		"directory to watch (defaults to the configured capture directory)")
	watchCmd.Flags().StringVarP(&watchDescriptionFlag, "description", "d", "",
		"description attached to every analysis")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if analyzer == nil {
		return errors.New("analysis service not configured")
	}

	dir := watchDirFlag
	if dir == "" {
		dir = watchDir
	}
	if dir == "" {
		return errors.New("no watch directory configured, pass --dir")
	}

	description := strings.TrimSpace(watchDescriptionFlag)
	if description == "" {
		description = watchDescription
	}
	if description == "" {
		description = "What is this document about?"
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s for new images. Press Ctrl-C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped watching.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !isImageFile(event.Name) {
				continue
			}
			analyzeCaptured(ctx, cmd, event.Name, description)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// analyzeCaptured runs one analysis for a captured file. Failures are
// reported and the watch continues.
func analyzeCaptured(ctx context.Context, cmd *cobra.Command, path, description string) {
	// Let the writer finish before reading the file.
	select {
	case <-ctx.Done():
		return
	case <-time.After(settleDelay):
	}

	cmd.Printf("Analysing %s...\n", filepath.Base(path))

	runCtx, cancel := context.WithTimeout(ctx, outerTimeout)
	defer cancel()

	result, err := analyzer.Analyze(runCtx, path, description)
	if err != nil {
		cmd.Printf("  failed: %v\n", describeFailure(err))
		return
	}

	cmd.Printf("  %s\n", result.Label)
	saveToHistory(path, description, result)
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}
