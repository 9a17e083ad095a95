package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/apunto-labs/apunto-cli/internal/core/domain"
)

var analyzeDescription string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyse a document photo",
	Long: `Sends a document photo to the analysis backend and prints the
extracted text, summary and label. Successful analyses are saved to
the local history.

The description tells the backend what you want to know about the
document. When omitted and running interactively, you are prompted
for one. Press Ctrl-C to cancel a running analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDescription, "description", "d", "",
		"what to ask about the document")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutcome struct {
	result *domain.AnalysisResult
	err    error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzer == nil {
		return errors.New("analysis service not configured")
	}

	description := strings.TrimSpace(analyzeDescription)
	if description == "" {
		var err error
		description, err = promptDescription(cmd)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, outerTimeout)
	defer cancel()

	cmd.Printf("Analysing %s...\n", args[0])

	// Buffered so a result arriving after cancellation is dropped
	// rather than leaking a blocked goroutine.
	outcome := make(chan analyzeOutcome, 1)
	go func() {
		result, err := analyzer.Analyze(ctx, args[0], description)
		outcome <- analyzeOutcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			cmd.Println("Analysis cancelled.")
			return nil
		}
		return errors.New("the analysis is taking too long, giving up")
	case out := <-outcome:
		if out.err != nil {
			return describeFailure(out.err)
		}
		printResult(cmd, out.result)
		saveToHistory(args[0], description, out.result)
		return nil
	}
}

// promptDescription asks for a description on an interactive terminal.
// Non-interactive invocations must pass --description.
func promptDescription(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no description given, pass --description")
	}

	cmd.Print("What do you want to know about this document? ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading description: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("description must not be empty")
	}
	return line, nil
}

func printResult(cmd *cobra.Command, result *domain.AnalysisResult) {
	cmd.Printf("\nLabel: %s\n", result.Label)
	if result.Summary != "" {
		cmd.Printf("\nSummary:\n%s\n", result.Summary)
	}
	if result.ExtractedText != "" {
		cmd.Printf("\nExtracted text:\n%s\n", result.ExtractedText)
	}
	if info := result.DetectedInfo; info != nil {
		if info.DocumentType != "" {
			cmd.Printf("\nDocument type: %s\n", info.DocumentType)
		}
		for _, entity := range info.Entities {
			cmd.Printf("  %s: %s (%s)\n", entity.Type, entity.Value, entity.Confidence)
		}
		for _, point := range info.KeyPoints {
			cmd.Printf("  - %s\n", point)
		}
	}
	if len(result.Tags) > 0 {
		cmd.Printf("\nTags: %s\n", strings.Join(result.Tags, ", "))
	}
}

// saveToHistory records a successful analysis. Best effort, like every
// history operation.
func saveToHistory(imagePath, description string, result *domain.AnalysisResult) {
	if historyKeeper == nil {
		return
	}
	historyKeeper.Save(context.Background(), domain.HistoryItem{
		ImageURI:      imagePath,
		Description:   description,
		ExtractedText: result.ExtractedText,
		Summary:       result.Summary,
		Label:         result.Label,
	})
}

// describeFailure turns a classified analysis error into the message
// shown to the user, with a retry hint for transient failures.
func describeFailure(err error) error {
	analysisErr, ok := domain.AsAnalysisError(err)
	if !ok {
		return err
	}

	msg := userMessage(analysisErr)
	if analysisErr.Retryable() {
		msg += " Please try again."
	}
	return errors.New(msg)
}

func userMessage(err *domain.AnalysisError) string {
	switch err.Category {
	case domain.CategoryNoInternet:
		return "No internet connection."
	case domain.CategoryTimeout:
		return "The analysis took too long."
	case domain.CategoryAPIUnreachable:
		return "Could not reach the analysis service."
	case domain.CategoryServerError:
		if err.Detail != "" {
			return "The analysis service hit an error: " + err.Detail
		}
		return "The analysis service hit an internal error."
	case domain.CategoryServiceUnavailable:
		return "The analysis service is temporarily unavailable."
	case domain.CategoryInvalidInput:
		return err.Detail + "."
	case domain.CategoryEncodeFailed:
		return "Could not read the image: " + err.Detail + "."
	case domain.CategoryBackendMessage:
		return err.Detail
	default:
		return "Something went wrong during the analysis."
	}
}
