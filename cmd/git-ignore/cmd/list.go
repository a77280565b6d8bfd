package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/ignoretools/git-ignore/internal/config"
	"github.com/ignoretools/git-ignore/internal/ignore"
	"github.com/ignoretools/git-ignore/internal/output"
)

// newListCmd creates the list command, which prints the patterns
// currently stored in the selected ignore file.
func newListCmd() *cobra.Command {
	var local, global bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show patterns in the target ignore file",
		Example: `  git-ignore list
  git-ignore list --local
  git-ignore list --global`,
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
			tgt := selectTarget(cfg, local, global)

			path, _, err := resolveTarget(cmd.Context(), resolver, tgt)
			if err != nil {
				return err
			}
			desc := targetDescription(tgt, path)

			patterns, err := ignore.ReadPatterns(path)
			if err != nil {
				return err
			}

			if len(patterns) == 0 {
				stdout.Plainf("No patterns in %s", desc)
				return nil
			}

			stdout.Plainf("%d %s in %s:", len(patterns), patternWord(len(patterns)), desc)
			sorted := make([]string, 0, len(patterns))
			for p := range patterns {
				sorted = append(sorted, p)
			}
			slices.Sort(sorted)
			for _, p := range sorted {
				stdout.Item(p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&local, "local", "l", false, "List patterns from .git/info/exclude")
	cmd.Flags().BoolVarP(&global, "global", "g", false, "List patterns from the global gitignore file")
	cmd.MarkFlagsMutuallyExclusive("local", "global")

	return cmd
}
