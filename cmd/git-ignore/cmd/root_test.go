package cmd

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignoretools/git-ignore/internal/config"
	gierrors "github.com/ignoretools/git-ignore/internal/errors"
	"github.com/ignoretools/git-ignore/internal/gitctx"
)

// setupTestRepo points the resolver at a temp directory standing in
// for a repository root and isolates config and global-ignore lookups
// from the host environment.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	repo, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	isolateEnv(t)
	stubResolver(t, repo, "", stderrors.New("exit status 1"))
	return repo
}

// isolateEnv redirects HOME and XDG paths to empty temp dirs and
// clears the GIT_IGNORE_* overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{"GIT_IGNORE_TARGET", "GIT_IGNORE_VALIDATION", "GIT_IGNORE_COLOR", "GIT_IGNORE_TIMEOUT"} {
		t.Setenv(key, "")
	}
	return home
}

// stubResolver replaces the package resolver factory with one backed
// by a canned exec. Discovery queries return repo; git config returns
// the given output or error.
func stubResolver(t *testing.T, repo, configOut string, configErr error) {
	t.Helper()

	prev := newResolver
	newResolver = func(_ *config.Config) *gitctx.Resolver {
		return gitctx.NewResolver(gitctx.WithExec(func(_ context.Context, args ...string) (string, string, error) {
			if len(args) > 0 && args[0] == "config" {
				return configOut, "", configErr
			}
			return repo + "\n", "", nil
		}))
	}
	t.Cleanup(func() { newResolver = prev })
}

// runRoot executes the root command with captured output.
func runRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	// A non-nil slice keeps cobra from falling back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRootCmd_AddsPatternsToGitignore(t *testing.T) {
	// Given: a repository with no .gitignore
	repo := setupTestRepo(t)

	// When: adding two patterns
	stdout, _, err := runRoot(t, "*.pyc", "__pycache__/")

	// Then: both land in .gitignore and the report names the file
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added 2 patterns to repository gitignore")
	assert.Contains(t, stdout, "  *.pyc")
	assert.Contains(t, stdout, "  __pycache__/")

	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.pyc\n__pycache__/\n", string(data))
}

func TestRootCmd_SecondRunDeduplicates(t *testing.T) {
	// Given: a pattern already added
	repo := setupTestRepo(t)
	_, _, err := runRoot(t, "*.pyc")
	require.NoError(t, err)

	// When: adding the same pattern again
	stdout, _, err := runRoot(t, "*.pyc")

	// Then: nothing is written and the report says so
	require.NoError(t, err)
	assert.Contains(t, stdout, "No new patterns added to repository gitignore")
	assert.Contains(t, stdout, "all patterns already exist")

	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.pyc\n", string(data))
}

func TestRootCmd_NewlinePatternBlocksBeforeWriting(t *testing.T) {
	// Given: a pattern with an embedded newline
	repo := setupTestRepo(t)

	// When: adding it
	_, stderr, err := runRoot(t, "*.pyc\nsecrets/")

	// Then: validation fails before any file is touched
	require.Error(t, err)
	assert.Equal(t, gierrors.ErrCodeValidationFailed, gierrors.GetCode(err))
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, stderr, "ERROR: Found problematic patterns:")

	_, statErr := os.Stat(filepath.Join(repo, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr), ".gitignore should not be created")
}

func TestRootCmd_WarningsDoNotBlockByDefault(t *testing.T) {
	// Given: a pattern that only warns
	repo := setupTestRepo(t)

	// When: adding it at the default level
	stdout, stderr, err := runRoot(t, "*")

	// Then: the warning is shown but the pattern is written
	require.NoError(t, err)
	assert.Contains(t, stderr, "WARNING:")
	assert.Contains(t, stdout, "Added 1 pattern to repository gitignore")

	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(data))
}

func TestRootCmd_StrictBlocksOnWarnings(t *testing.T) {
	// Given: a warning-level pattern and --strict
	repo := setupTestRepo(t)

	// When: adding it
	_, _, err := runRoot(t, "--strict", "*")

	// Then: the add is rejected
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))

	_, statErr := os.Stat(filepath.Join(repo, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCmd_NoValidateWritesSanitized(t *testing.T) {
	// Given: a newline pattern and --no-validate
	repo := setupTestRepo(t)

	// When: adding it
	_, _, err := runRoot(t, "--no-validate", "a\nb")

	// Then: the sanitized form is written
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "ab\n", string(data))
}

func TestRootCmd_LocalCreatesExcludeWithTemplate(t *testing.T) {
	// Given: a repository with no info/exclude
	repo := setupTestRepo(t)

	// When: adding with --local
	stdout, _, err := runRoot(t, "--local", "build/")

	// Then: the file carries the standard header plus the pattern
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added 1 pattern to local exclude file")

	data, err := os.ReadFile(filepath.Join(repo, "info", "exclude"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# git ls-files --others --exclude-from=.git/info/exclude\n"))
	assert.True(t, strings.HasSuffix(content, "\nbuild/\n"))
}

func TestRootCmd_LocalTemplateCreatedEvenWhenValidationBlocks(t *testing.T) {
	// Given: a blocking pattern aimed at info/exclude
	repo := setupTestRepo(t)

	// When: adding with --local
	_, _, err := runRoot(t, "--local", "bad\npattern")

	// Then: the template is materialized but the pattern is not written
	require.Error(t, err)
	data, err := os.ReadFile(filepath.Join(repo, "info", "exclude"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# git ls-files --others")
	assert.NotContains(t, string(data), "bad")
}

func TestRootCmd_GlobalWithoutConfigurationFails(t *testing.T) {
	// Given: no core.excludesfile and no conventional global file
	setupTestRepo(t)

	// When: adding with --global
	_, _, err := runRoot(t, "--global", "*.log")

	// Then: a config error maps to exit 3
	require.Error(t, err)
	assert.Equal(t, gierrors.ErrCodeNoGlobalIgnore, gierrors.GetCode(err))
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestRootCmd_GlobalUsesConfiguredExcludesFile(t *testing.T) {
	// Given: core.excludesfile pointing at an existing ~ path
	repo, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	home := isolateEnv(t)
	globalPath := filepath.Join(home, ".gitignore_global")
	require.NoError(t, os.WriteFile(globalPath, []byte("*.bak\n"), 0o644))
	stubResolver(t, repo, "~/.gitignore_global\n", nil)

	// When: adding with --global
	stdout, _, err := runRoot(t, "--global", "*.log")

	// Then: the pattern is appended to the configured file
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added 1 pattern to global gitignore")

	data, err := os.ReadFile(globalPath)
	require.NoError(t, err)
	assert.Equal(t, "*.bak\n\n*.log\n", string(data))
}

func TestRootCmd_AllowDuplicatesWritesAgain(t *testing.T) {
	// Given: a pattern already present
	repo := setupTestRepo(t)
	_, _, err := runRoot(t, "*.pyc")
	require.NoError(t, err)

	// When: adding it again with --allow-duplicates
	_, _, err = runRoot(t, "--allow-duplicates", "*.pyc")

	// Then: the file holds it twice
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.pyc\n\n*.pyc\n", string(data))
}

func TestRootCmd_DryRunLeavesFileUntouched(t *testing.T) {
	// Given: a repository with no .gitignore
	repo := setupTestRepo(t)

	// When: adding with --dry-run
	stdout, _, err := runRoot(t, "--dry-run", "*.pyc")

	// Then: the plan is reported and nothing is written
	require.NoError(t, err)
	assert.Contains(t, stdout, "Would add 1 pattern to repository gitignore")
	assert.Contains(t, stdout, "  *.pyc")

	_, statErr := os.Stat(filepath.Join(repo, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCmd_DryRunReportsDuplicates(t *testing.T) {
	// Given: a pattern already present
	repo := setupTestRepo(t)
	_, _, err := runRoot(t, "*.pyc")
	require.NoError(t, err)

	// When: dry-running the same pattern
	stdout, _, err := runRoot(t, "--dry-run", "*.pyc")

	// Then: no additions are planned
	require.NoError(t, err)
	assert.Contains(t, stdout, "No new patterns would be added to repository gitignore")

	data, err := os.ReadFile(filepath.Join(repo, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*.pyc\n", string(data))
}

func TestRootCmd_LocalAndGlobalAreMutuallyExclusive(t *testing.T) {
	// Given: both target flags
	setupTestRepo(t)

	// When: executing
	_, _, err := runRoot(t, "--local", "--global", "*.pyc")

	// Then: cobra rejects the combination with a generic exit
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
}

func TestRootCmd_RequiresAtLeastOnePattern(t *testing.T) {
	setupTestRepo(t)

	_, _, err := runRoot(t)

	require.Error(t, err)
}

func TestRootCmd_OutsideRepositoryMapsToGitExit(t *testing.T) {
	// Given: git discovery failing
	isolateEnv(t)
	prev := newResolver
	newResolver = func(_ *config.Config) *gitctx.Resolver {
		return gitctx.NewResolver(gitctx.WithExec(func(_ context.Context, _ ...string) (string, string, error) {
			return "", "fatal: not a git repository", stderrors.New("exit status 128")
		}))
	}
	t.Cleanup(func() { newResolver = prev })

	// When: adding a pattern
	_, _, err := runRoot(t, "*.pyc")

	// Then: the error carries the git category and exit 2
	require.Error(t, err)
	assert.Equal(t, gierrors.ErrCodeNotInRepository, gierrors.GetCode(err))
	assert.Equal(t, ExitGitError, ExitCode(err))
}

func TestRootCmd_ValidationLevelFromEnv(t *testing.T) {
	// Given: strict validation via environment
	repo := setupTestRepo(t)
	t.Setenv("GIT_IGNORE_VALIDATION", "strict")

	// When: adding a warning-level pattern
	_, _, err := runRoot(t, "*")

	// Then: the add is rejected without flags
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))

	_, statErr := os.Stat(filepath.Join(repo, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr))
}
