package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ignoretools/git-ignore/internal/config"
	gierrors "github.com/ignoretools/git-ignore/internal/errors"
	"github.com/ignoretools/git-ignore/internal/gitctx"
)

// target identifies which ignore surface a command operates on.
type target int

const (
	targetGitignore target = iota
	targetExclude
	targetGlobal
)

// selectTarget picks the ignore surface from flags, falling back to
// the configured default. Flags are mutually exclusive (enforced by
// cobra), so order here is arbitrary.
func selectTarget(cfg *config.Config, local, global bool) target {
	switch {
	case local:
		return targetExclude
	case global:
		return targetGlobal
	}

	switch cfg.Target {
	case config.TargetExclude:
		return targetExclude
	case config.TargetGlobal:
		return targetGlobal
	default:
		return targetGitignore
	}
}

// resolveTarget maps a target to its file path and the directory the
// write must stay inside. The global file has no containment base.
func resolveTarget(ctx context.Context, r *gitctx.Resolver, tgt target) (path, baseDir string, err error) {
	switch tgt {
	case targetGlobal:
		path, ok := r.GlobalIgnorePath(ctx)
		if !ok {
			return "", "", gierrors.New(gierrors.ErrCodeNoGlobalIgnore,
				"no global gitignore file configured", nil).
				WithSuggestion("git config --global core.excludesfile ~/.gitignore_global")
		}
		return path, "", nil

	case targetExclude:
		gitDir, err := r.GitDir(ctx)
		if err != nil {
			return "", "", err
		}
		return filepath.Join(gitDir, "info", "exclude"), gitDir, nil

	default:
		root, err := r.RepoRoot(ctx)
		if err != nil {
			return "", "", err
		}
		return filepath.Join(root, ".gitignore"), root, nil
	}
}

// targetDescription returns the human-readable name used in command
// output for a resolved target.
func targetDescription(tgt target, path string) string {
	switch tgt {
	case targetGlobal:
		return fmt.Sprintf("global gitignore (%s)", path)
	case targetExclude:
		return fmt.Sprintf("local exclude file (%s)", path)
	default:
		return fmt.Sprintf("repository gitignore (%s)", path)
	}
}
