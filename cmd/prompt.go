package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/ats-matcher/internal/feedback"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the feedback prompt that would be sent to the model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, err := readDocuments(flagValue(cmd, "resume"), flagValue(cmd, "jd"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), feedback.BuildPrompt(input.Resume, input.JobDescription))
		return err
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx or doc)")
	promptCmd.Flags().StringP("jd", "J", "", "job description file (pdf, docx or doc)")

	promptCmd.MarkFlagRequired("resume")
	promptCmd.MarkFlagRequired("jd")
}
