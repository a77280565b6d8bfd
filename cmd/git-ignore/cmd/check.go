package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ignoretools/git-ignore/internal/config"
	gierrors "github.com/ignoretools/git-ignore/internal/errors"
	"github.com/ignoretools/git-ignore/internal/ignore"
	"github.com/ignoretools/git-ignore/internal/output"
)

// newCheckCmd creates the check command, which validates patterns
// without touching any ignore file.
func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check PATTERN...",
		Short: "Validate patterns without modifying any file",
		Long: `check runs the same pattern validation as an add, reports all
issues, and exits nonzero if any pattern would be rejected. No ignore
file is read or written.`,
		Example: `  git-ignore check '*.pyc' 'build/'
  git-ignore check --strict '**/*/**'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			stdout := output.New(cmd.OutOrStdout(), cfg.Color)
			stderr := output.New(cmd.ErrOrStderr(), cfg.Color)

			issues := ignore.Validate(args)
			stderr.Issues(issues)

			level := ignore.LevelWarn
			if strict {
				level = ignore.LevelStrict
			}
			if ignore.Blocking(issues, level) {
				return gierrors.Newf(gierrors.ErrCodeValidationFailed,
					"pattern validation failed with errors")
			}

			if len(issues) == 0 {
				stdout.Successf("No issues found in %d %s", len(args), patternWord(len(args)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on any validation issue, not only errors")

	return cmd
}
