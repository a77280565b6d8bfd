package cmd

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignoretools/git-ignore/internal/config"
	"github.com/ignoretools/git-ignore/internal/gitctx"
)

// runWhich executes the which subcommand with the package resolver stub.
func runWhich(t *testing.T) (string, error) {
	t.Helper()

	cmd := newWhichCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	return buf.String(), err
}

func TestWhichCmd_PrintsAllSurfaces(t *testing.T) {
	// Given: a repository and no global ignore
	repo := setupTestRepo(t)

	// When: asking for paths
	out, err := runWhich(t)

	// Then: repository and local resolve, global reports unconfigured
	require.NoError(t, err)
	assert.Contains(t, out, "repository: "+filepath.Join(repo, ".gitignore"))
	assert.Contains(t, out, filepath.Join(repo, "info", "exclude"))
	assert.Contains(t, out, "global:     (not configured)")
}

func TestWhichCmd_OutsideRepositoryStillSucceeds(t *testing.T) {
	// Given: git discovery failing everywhere
	isolateEnv(t)
	prev := newResolver
	newResolver = func(_ *config.Config) *gitctx.Resolver {
		return gitctx.NewResolver(gitctx.WithExec(func(_ context.Context, _ ...string) (string, string, error) {
			return "", "fatal: not a git repository", stderrors.New("exit status 128")
		}))
	}
	t.Cleanup(func() { newResolver = prev })

	// When: asking for paths
	out, err := runWhich(t)

	// Then: the command reports what it can and exits zero
	require.NoError(t, err)
	assert.Contains(t, out, "repository: (not in a git repository)")
	assert.Contains(t, out, "local:      (not in a git repository)")
	assert.Contains(t, out, "global:     (not configured)")
}
