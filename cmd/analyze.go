package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/analysis"
	"github.com/spigell/ats-matcher/internal/logger"
)

const (
	PromptSummary     = "Show feedback summary"
	PromptSuggestions = "Show suggestions"
	PromptMissing     = "Show missing skills"
	PromptKeywords    = "Show keyword overlap"
	PromptReportFile  = "Dump report to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSummary, PromptSuggestions, PromptMissing, PromptKeywords, PromptReportFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx or doc)")
	analyzeCmd.Flags().StringP("jd", "J", "", "job description file (pdf, docx or doc)")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "browse the report in an interactive menu")
	analyzeCmd.Flags().StringP("output", "o", "", "write the JSON report to a file instead of stdout")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("jd")
}

func analyze(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	logger.Info("starting the ats-matcher", zap.String("version", version))

	input, err := readDocuments(flagValue(cmd, "resume"), flagValue(cmd, "jd"))
	if err != nil {
		logger.Fatal("reading documents", zap.Error(err))
	}

	analyzer, loader, err := prepareAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing analysis", zap.Error(err))
	}
	defer loader.Close()

	report, err := analyzer.Analyze(ctx, input)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err),
			zap.String("hint", "check embedding.model-path, embedding.tokenizer-path and the onnxruntime library"))
	}

	if output := flagValue(cmd, "output"); output != "" {
		if err := writeReportFile(output, report); err != nil {
			logger.Fatal("writing report", zap.Error(err))
		}
		logger.Info("report written", zap.String("filename", output))
	}

	if flagValue(cmd, "interactive") != "true" {
		if flagValue(cmd, "output") == "" {
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				logger.Fatal("printing report", zap.Error(err))
			}
		}
		return
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(cmd.OutOrStdout(), action, report, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(w io.Writer, action string, report *analysis.Report, logger *zap.Logger) error {
	switch action {
	case PromptSummary:
		fmt.Fprintf(w, "Semantic score: %.2f%% (%s)\n", report.SemanticScore, report.Rating)
		if report.LexicalScore != nil {
			fmt.Fprintf(w, "Lexical score: %.2f%%\n", *report.LexicalScore)
		}
		if report.Feedback == nil {
			fmt.Fprintln(w, "AI feedback is disabled.")
			return nil
		}
		if report.Feedback.Failed() {
			fmt.Fprintf(w, "AI feedback unavailable: %s\n", report.Feedback.Error)
			return nil
		}
		if report.Feedback.Score != nil {
			fmt.Fprintf(w, "AI match score: %d%%\n", *report.Feedback.Score)
		}
		fmt.Fprintln(w, report.Feedback.Summary)
		return nil
	case PromptSuggestions:
		if report.Feedback == nil {
			printList(w, nil)
			return nil
		}
		printList(w, report.Feedback.Suggestions)
		return nil
	case PromptMissing:
		if report.Feedback != nil && len(report.Feedback.MissingSkills) > 0 {
			printList(w, report.Feedback.MissingSkills)
			return nil
		}
		printList(w, report.Missing.Sorted())
		return nil
	case PromptKeywords:
		fmt.Fprintf(w, "Matched (%d): %s\n", report.Matched.Len(), strings.Join(report.Matched.Sorted(), ", "))
		fmt.Fprintf(w, "Missing (%d): %s\n", report.Missing.Len(), strings.Join(report.Missing.Sorted(), ", "))
		return nil
	case PromptReportFile:
		filename, err := dumpReportToTmpFile(report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}

func writeReport(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReportFile(path string, report *analysis.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return writeReport(file, report)
}

func dumpReportToTmpFile(report *analysis.Report) (string, error) {
	file, err := os.CreateTemp("", "ats_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeReport(file, report); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(flag.Value.String())
}
