package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Report configuration issues",
		Long: `validate loads each file and prints every issue as
FILE:PATH: CODE: MESSAGE. The exit status is 1 when any file has issues.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, file := range args {
				_, err := loadFile(cmd.Context(), file)
				switch {
				case err == nil:
					logger(cmd).Info().Str("file", file).Msg("valid")
				case printIssues(cmd.OutOrStdout(), file, err):
					failed = true
				default:
					return fmt.Errorf("%s: %w", file, err)
				}
			}
			if failed {
				return errIssues
			}
			return nil
		},
	}
}
