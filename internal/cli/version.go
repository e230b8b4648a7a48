package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionLine(info buildInfo) string {
	return fmt.Sprintf("termsel %s (commit: %s, built: %s)", info.version, info.commit, info.date)
}

func buildVersionCommand(info buildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionLine(info))
			return err
		},
	}
}
