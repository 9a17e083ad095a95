package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
)

var (
	historyUserID string

	editText    string
	editSummary string

	feedbackLike    bool
	feedbackDislike bool
	feedbackClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage past analyses",
	Long: `Lists, edits and annotates the record of past analyses.

The list prefers the remote history for the configured user and falls
back to the local cache when the backend is unreachable. Edits,
feedback and clearing apply to the local cache only.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past analyses, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one past analysis in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a past analysis",
	Long:  `Deletes the item from the remote history and the local cache.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Correct the text or summary of a past analysis",
	Long: `Stores a corrected transcription or summary alongside the original.
The original analysis output is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryEdit,
}

var historyFeedbackCmd = &cobra.Command{
	Use:   "feedback <id>",
	Short: "Record whether an analysis was helpful",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryFeedback,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the local history cache",
	Long:  `Removes all locally cached analyses. Remote history is untouched.`,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyUserID, "user", "u", "",
		"user ID for remote history (defaults to the configured user)")

	historyEditCmd.Flags().StringVar(&editText, "text", "", "corrected extracted text")
	historyEditCmd.Flags().StringVar(&editSummary, "summary", "", "corrected summary")

	historyFeedbackCmd.Flags().BoolVar(&feedbackLike, "like", false, "mark the analysis as helpful")
	historyFeedbackCmd.Flags().BoolVar(&feedbackDislike, "dislike", false, "mark the analysis as unhelpful")
	historyFeedbackCmd.Flags().BoolVar(&feedbackClear, "clear", false, "remove previous feedback")
	historyFeedbackCmd.MarkFlagsMutuallyExclusive("like", "dislike", "clear")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyEditCmd)
	historyCmd.AddCommand(historyFeedbackCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func historyUser() string {
	if historyUserID != "" {
		return historyUserID
	}
	return defaultUserID
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	items := historyKeeper.List(cmd.Context(), historyUser())
	if len(items) == 0 {
		cmd.Println("No history yet.")
		return nil
	}

	for _, item := range items {
		cmd.Println(formatHistoryLine(item))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	item, ok := findHistoryItem(cmd, args[0])
	if !ok {
		return fmt.Errorf("no history item with ID %s", args[0])
	}

	cmd.Printf("ID:          %s\n", item.ID)
	cmd.Printf("When:        %s\n", formatTimestamp(item.Timestamp))
	cmd.Printf("Label:       %s\n", item.Label)
	cmd.Printf("Description: %s\n", item.Description)
	if item.ImageURI != "" {
		cmd.Printf("Image:       %s\n", item.ImageURI)
	}
	if item.IsEdited {
		cmd.Println("Edited:      yes")
	}
	if item.Liked != nil {
		cmd.Printf("Feedback:    %s\n", feedbackWord(*item.Liked))
	}
	if summary := item.DisplaySummary(); summary != "" {
		cmd.Printf("\nSummary:\n%s\n", summary)
	}
	if text := item.DisplayText(); text != "" {
		cmd.Printf("\nExtracted text:\n%s\n", text)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	historyKeeper.Delete(cmd.Context(), args[0], historyUser())
	cmd.Printf("Deleted %s.\n", args[0])
	return nil
}

func runHistoryEdit(cmd *cobra.Command, args []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	var patch domain.HistoryPatch
	if cmd.Flags().Changed("text") {
		patch.EditedExtractedText = &editText
	}
	if cmd.Flags().Changed("summary") {
		patch.EditedSummary = &editSummary
	}
	if patch.IsZero() {
		return errors.New("nothing to change, pass --text or --summary")
	}

	historyKeeper.Update(cmd.Context(), args[0], patch)
	cmd.Printf("Updated %s.\n", args[0])
	return nil
}

func runHistoryFeedback(cmd *cobra.Command, args []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	var patch domain.HistoryPatch
	switch {
	case feedbackClear:
		patch.ClearLiked = true
	case feedbackLike:
		liked := true
		patch.Liked = &liked
	case feedbackDislike:
		liked := false
		patch.Liked = &liked
	default:
		return errors.New("pass --like, --dislike or --clear")
	}

	historyKeeper.Update(cmd.Context(), args[0], patch)
	cmd.Printf("Recorded feedback for %s.\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if historyKeeper == nil {
		return errors.New("history service not configured")
	}

	historyKeeper.Clear(cmd.Context())
	cmd.Println("Local history cleared.")
	return nil
}

// findHistoryItem looks up one item from the listed history.
func findHistoryItem(cmd *cobra.Command, id string) (domain.HistoryItem, bool) {
	for _, item := range historyKeeper.List(cmd.Context(), historyUser()) {
		if item.ID == id {
			return item, true
		}
	}
	return domain.HistoryItem{}, false
}

func formatHistoryLine(item domain.HistoryItem) string {
	line := fmt.Sprintf("%s  %s  %-24s %s",
		item.ID, formatTimestamp(item.Timestamp), item.Label, item.Description)
	if item.IsEdited {
		line += "  (edited)"
	}
	if item.Liked != nil {
		line += "  [" + feedbackWord(*item.Liked) + "]"
	}
	return line
}

func formatTimestamp(millis int64) string {
	if millis <= 0 {
		return "unknown time"
	}
	return time.UnixMilli(millis).Local().Format("2006-01-02 15:04")
}

func feedbackWord(liked bool) string {
	if liked {
		return "liked"
	}
	return "disliked"
}
