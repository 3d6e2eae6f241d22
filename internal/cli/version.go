package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the mergebot release, set at build time with
// -ldflags "-X github.com/codex-k8s/mergebot/internal/cli.Version=...".
var Version = "dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mergebot version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mergebot %s\n", Version)
			return err
		},
	}
}
