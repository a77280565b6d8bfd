package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ignoretools/git-ignore/internal/config"
	"github.com/ignoretools/git-ignore/internal/output"
)

// newWhichCmd creates the which command, which prints the resolved
// path of every ignore surface. Unresolvable surfaces are reported
// inline; the command itself never fails.
func newWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "which",
		Short:         "Show the resolved paths of all ignore files",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			stdout := output.New(cmd.OutOrStdout(), cfg.Color)
			resolver := newResolver(cfg)
			ctx := cmd.Context()

			if path, err := resolver.GitignorePath(ctx); err == nil {
				stdout.Plainf("repository: %s", path)
			} else {
				stdout.Plainf("repository: (not in a git repository)")
			}

			if path, err := resolver.ExcludeFilePath(ctx); err == nil {
				stdout.Plainf("local:      %s", path)
			} else {
				stdout.Plainf("local:      (not in a git repository)")
			}

			if path, ok := resolver.GlobalIgnorePath(ctx); ok {
				stdout.Plainf("global:     %s", path)
			} else {
				stdout.Plainf("global:     (not configured)")
			}

			return nil
		},
	}
}
