// Package cmd provides the CLI commands for git-ignore.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ignoretools/git-ignore/internal/config"
	gierrors "github.com/ignoretools/git-ignore/internal/errors"
	"github.com/ignoretools/git-ignore/internal/gitctx"
	"github.com/ignoretools/git-ignore/internal/ignore"
	"github.com/ignoretools/git-ignore/internal/logging"
	"github.com/ignoretools/git-ignore/internal/output"
	"github.com/ignoretools/git-ignore/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// newResolver builds the git context resolver for one invocation.
// Replaced in tests to avoid spawning a real git process.
var newResolver = func(cfg *config.Config) *gitctx.Resolver {
	return gitctx.NewResolver(gitctx.WithTimeout(cfg.GitTimeout))
}

// addFlags carries the root command's flag values.
type addFlags struct {
	local           bool
	global          bool
	noValidate      bool
	strict          bool
	allowDuplicates bool
	dryRun          bool
}

// NewRootCmd creates the root command for the git-ignore CLI.
func NewRootCmd() *cobra.Command {
	var flags addFlags

	cmd := &cobra.Command{
		Use:   "git-ignore [flags] PATTERN...",
		Short: "Add patterns to git ignore files",
		Long: `git-ignore appends patterns to one of three git ignore surfaces:
the repository .gitignore (default), the unversioned .git/info/exclude
(--local), or the user's global gitignore file (--global).

Patterns are sanitized, validated, and deduplicated before writing.`,
		Example: `  git-ignore '*.pyc' '__pycache__/'   # Add to .gitignore
  git-ignore --local build/            # Add to .git/info/exclude
  git-ignore --global '*.log'          # Add to global gitignore`,
		Version:       version.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd, args, flags)
		},
	}

	cmd.SetVersionTemplate("git-ignore version {{.Version}}\n")

	cmd.Flags().BoolVarP(&flags.local, "local", "l", false, "Add patterns to .git/info/exclude instead of .gitignore")
	cmd.Flags().BoolVarP(&flags.global, "global", "g", false, "Add patterns to the global gitignore file")
	cmd.MarkFlagsMutuallyExclusive("local", "global")

	cmd.Flags().BoolVar(&flags.noValidate, "no-validate", false, "Skip pattern validation")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail on any validation issue, not only errors")
	cmd.MarkFlagsMutuallyExclusive("no-validate", "strict")

	cmd.Flags().BoolVar(&flags.allowDuplicates, "allow-duplicates", false, "Allow duplicate patterns to be added")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Show what would be added without writing")

	// Debug logging flag
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to "+logging.DefaultLogDir())
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newWhichCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging sets up debug file logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Debug("debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

// stopLogging closes the debug log file.
func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := NewRootCmd().ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprint(os.Stderr, gierrors.FormatForCLI(err))
	if debugMode {
		slog.Error("command failed", slog.Any("error", gierrors.FormatForLog(err)))
	}
	return ExitCode(err)
}

// runAdd implements the add flow: resolve, ensure, validate, filter,
// write, report. Failure at any stage aborts the rest.
func runAdd(ctx context.Context, cmd *cobra.Command, patterns []string, flags addFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	stdout := output.New(cmd.OutOrStdout(), cfg.Color)
	stderr := output.New(cmd.ErrOrStderr(), cfg.Color)

	resolver := newResolver(cfg)
	tgt := selectTarget(cfg, flags.local, flags.global)

	path, baseDir, err := resolveTarget(ctx, resolver, tgt)
	if err != nil {
		return err
	}
	desc := targetDescription(tgt, path)

	if tgt == targetExclude && !flags.dryRun {
		if err := ignore.EnsureExcludeFile(path); err != nil {
			return err
		}
	}

	level := validationLevel(cfg, flags)
	if level != ignore.LevelNone {
		issues := ignore.Validate(patterns)
		stderr.Issues(issues)
		if ignore.Blocking(issues, level) {
			return gierrors.Newf(gierrors.ErrCodeValidationFailed,
				"pattern validation failed with errors")
		}
	}

	if flags.dryRun {
		pending, err := pendingPatterns(path, patterns, !flags.allowDuplicates)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			stdout.Plainf("No new patterns would be added to %s", desc)
			return nil
		}
		stdout.Plainf("Would add %d %s to %s:", len(pending), patternWord(len(pending)), desc)
		for _, p := range pending {
			stdout.Item(p)
		}
		return nil
	}

	added, err := ignore.AddPatterns(path, patterns, ignore.AddOptions{
		AvoidDuplicates: !flags.allowDuplicates,
		BaseDir:         baseDir,
	})
	if err != nil {
		return err
	}

	if len(added) == 0 {
		stdout.Plainf("No new patterns added to %s (all patterns already exist)", desc)
		return nil
	}

	stdout.Plainf("Added %d %s to %s:", len(added), patternWord(len(added)), desc)
	for _, p := range added {
		stdout.Item(p)
	}
	return nil
}

// validationLevel combines flags with the configured default.
// Flags win over env and config.
func validationLevel(cfg *config.Config, flags addFlags) ignore.Level {
	switch {
	case flags.noValidate:
		return ignore.LevelNone
	case flags.strict:
		return ignore.LevelStrict
	}
	level, _ := ignore.ParseLevel(cfg.Validation)
	return level
}

// pendingPatterns computes what AddPatterns would write, without
// touching the target file. Used by --dry-run.
func pendingPatterns(path string, patterns []string, avoidDuplicates bool) ([]string, error) {
	existing := map[string]struct{}{}
	if avoidDuplicates {
		var err error
		existing, err = ignore.ReadPatterns(path)
		if err != nil {
			return nil, err
		}
	}

	var pending []string
	for _, p := range patterns {
		s := ignore.Sanitize(p)
		if s == "" {
			continue
		}
		if avoidDuplicates {
			if _, dup := existing[s]; dup {
				continue
			}
		}
		pending = append(pending, s)
	}
	return pending, nil
}

// patternWord returns the singular or plural noun for a count.
func patternWord(n int) string {
	if n == 1 {
		return "pattern"
	}
	return "patterns"
}
