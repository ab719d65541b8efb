package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spigell/ats-matcher/internal/feedback"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [FILE]",
	Short: "Parse a raw model response into structured feedback",
	Long:  "Parse a raw model response read from FILE, or from stdin when FILE is omitted or '-', and print it as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), feedback.Normalize(raw))
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read response file: %w", err)
	}
	return string(data), nil
}
