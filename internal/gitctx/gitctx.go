// Package gitctx resolves the filesystem locations of the three git
// ignore surfaces by querying the host git binary.
//
// Repository discovery is expensive (a subprocess per query), so the
// git directory and repository root are resolved at most once per
// Resolver: the first outcome, success or failure, is cached behind a
// write-once slot and every later call observes it.
package gitctx

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gierrors "github.com/ignoretools/git-ignore/internal/errors"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 10 * time.Second

// ExecFunc runs the git binary with the given arguments and returns
// captured stdout and stderr. Injected in tests.
type ExecFunc func(ctx context.Context, args ...string) (stdout, stderr string, err error)

// Resolver locates git ignore target files for one process.
type Resolver struct {
	timeout time.Duration
	exec    ExecFunc

	gitDirOnce sync.Once
	gitDir     string
	gitDirErr  error

	rootOnce sync.Once
	root     string
	rootErr  error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout overrides the per-invocation git timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithExec overrides the subprocess runner (test seam).
func WithExec(fn ExecFunc) Option {
	return func(r *Resolver) {
		r.exec = fn
	}
}

// NewResolver creates a Resolver with empty caches.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		timeout: DefaultTimeout,
		exec:    runGit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// runGit is the default ExecFunc backed by the host git binary.
func runGit(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// git runs one git query under the resolver timeout and classifies
// failures into the structured error taxonomy.
func (r *Resolver) git(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout, stderr, err := r.exec(ctx, args...)
	if err != nil {
		return "", r.classify(ctx, args, stderr, err)
	}

	out := strings.TrimSpace(stdout)
	if out == "" {
		return "", gierrors.Newf(gierrors.ErrCodeGitEmptyOutput,
			"git %s returned empty output", strings.Join(args, " "))
	}

	return out, nil
}

// classify maps a failed git invocation to a structured error.
func (r *Resolver) classify(ctx context.Context, args []string, stderr string, err error) error {
	query := "git " + strings.Join(args, " ")

	switch {
	case stderrors.Is(err, exec.ErrNotFound):
		return gierrors.New(gierrors.ErrCodeGitNotFound, "git not found in PATH", err).
			WithSuggestion("install git or add it to your PATH")

	case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return gierrors.Newf(gierrors.ErrCodeGitTimeout,
			"%s timed out after %s", query, r.timeout).
			WithDetail("timeout", r.timeout.String())

	default:
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		return gierrors.Newf(gierrors.ErrCodeNotInRepository,
			"not in a git repository (cwd: %s)", cwd).
			WithDetail("cwd", cwd).
			WithDetail("stderr", strings.TrimSpace(stderr)).
			WithSuggestion("run git-ignore inside a git working tree")
	}
}

// canonicalize resolves a path reported by git to an absolute path
// with symlinks evaluated.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", gierrors.New(gierrors.ErrCodePathResolve,
			"invalid path returned by git: "+path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", gierrors.New(gierrors.ErrCodePathResolve,
			"invalid path returned by git: "+path, err).
			WithDetail("path", abs)
	}

	return resolved, nil
}

// GitDir returns the absolute path of the git metadata directory
// (.git directory or file target). The first outcome is cached for the
// lifetime of the Resolver; git is never re-invoked for this query.
func (r *Resolver) GitDir(ctx context.Context) (string, error) {
	r.gitDirOnce.Do(func() {
		r.gitDir, r.gitDirErr = r.resolvePath(ctx, "rev-parse", "--absolute-git-dir")
	})
	return r.gitDir, r.gitDirErr
}

// RepoRoot returns the absolute path of the repository working-tree
// root, cached with the same contract as GitDir.
func (r *Resolver) RepoRoot(ctx context.Context) (string, error) {
	r.rootOnce.Do(func() {
		r.root, r.rootErr = r.resolvePath(ctx, "rev-parse", "--show-toplevel")
	})
	return r.root, r.rootErr
}

// resolvePath runs one discovery query and canonicalizes its output.
func (r *Resolver) resolvePath(ctx context.Context, args ...string) (string, error) {
	out, err := r.git(ctx, args...)
	if err != nil {
		return "", err
	}

	path, err := canonicalize(out)
	if err != nil {
		return "", err
	}

	slog.Debug("resolved git path",
		slog.String("query", strings.Join(args, " ")),
		slog.String("path", path))
	return path, nil
}

// GitignorePath returns the repository .gitignore path.
func (r *Resolver) GitignorePath(ctx context.Context) (string, error) {
	root, err := r.RepoRoot(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ".gitignore"), nil
}

// ExcludeFilePath returns the repository's info/exclude path.
func (r *Resolver) ExcludeFilePath(ctx context.Context) (string, error) {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "info", "exclude"), nil
}

// GlobalIgnorePath returns the user's global ignore file, trying the
// configured core.excludesfile first and then the conventional
// locations. Best effort: returns false when no candidate exists.
// Not cached; git config and the environment may change between calls
// and the lookup is cheap.
func (r *Resolver) GlobalIgnorePath(ctx context.Context) (string, bool) {
	if out, err := r.git(ctx, "config", "--global", "core.excludesfile"); err == nil {
		if path, ok := expandHome(out); ok && fileExists(path) {
			return path, true
		}
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		path := filepath.Join(xdg, "git", "ignore")
		if fileExists(path) {
			return path, true
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	for _, candidate := range []string{
		filepath.Join(home, ".config", "git", "ignore"),
		filepath.Join(home, ".gitignore_global"),
		filepath.Join(home, ".gitignore"),
	} {
		if fileExists(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// expandHome resolves a leading ~ or a relative path against the
// user's home directory. Returns false when no home is known.
func expandHome(path string) (string, bool) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), true
	}

	if !filepath.IsAbs(path) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, path), true
	}

	return path, true
}

// fileExists checks if a path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
