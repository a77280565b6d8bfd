// Package ignore owns all content operations on git ignore files:
// reading existing patterns, sanitizing and validating new ones,
// deduplicating, and appending.
//
// Writes are line-oriented appends with no rollback: a failure mid-write
// can leave some lines already flushed, and callers must treat the file
// as being in an unknown state rather than unchanged.
package ignore

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gierrors "github.com/ignoretools/git-ignore/internal/errors"
)

// excludeTemplate is written verbatim when info/exclude is created
// from nothing. It mirrors the file git itself ships in new repositories.
const excludeTemplate = `# git ls-files --others --exclude-from=.git/info/exclude
# Lines that start with '#' are comments.
# For a project mostly in C, the following would be a good set of
# exclude patterns (uncomment them if you want to use them):
# *.[oa]
# *~
`

var newlineStripper = strings.NewReplacer("\n", "", "\r", "")

// Sanitize strips every newline and carriage return from a pattern and
// trims surrounding whitespace. Pure and idempotent; may return "".
func Sanitize(pattern string) string {
	return strings.TrimSpace(newlineStripper.Replace(pattern))
}

// ReadPatterns returns the set of patterns currently present in the
// ignore file at path. A missing file yields an empty set, not an
// error. Blank lines and #-comments are skipped; surviving lines are
// trimmed.
func ReadPatterns(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, gierrors.New(gierrors.ErrCodeFileRead,
			"failed to open ignore file: "+path, err).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	patterns := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns[line] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, gierrors.New(gierrors.ErrCodeFileRead,
			"failed to read ignore file: "+path, err).
			WithDetail("path", path)
	}

	return patterns, nil
}

// WritePatterns writes the sanitized, non-empty patterns to path, one
// per line. In append mode a leading newline is written first when the
// file already has content, so a final unterminated line is never
// extended. No-op when nothing survives sanitization.
func WritePatterns(path string, patterns []string, appendMode bool) error {
	if len(patterns) == 0 {
		return nil
	}

	sanitized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if s := Sanitize(p); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	if len(sanitized) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return gierrors.New(gierrors.ErrCodeDirCreate,
				"failed to create directory: "+dir, err).
				WithDetail("path", path)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return gierrors.New(gierrors.ErrCodeFileWrite,
			"failed to open ignore file for writing: "+path, err).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	if appendMode {
		if info, statErr := f.Stat(); statErr == nil && info.Size() > 0 {
			if _, err := f.WriteString("\n"); err != nil {
				return gierrors.New(gierrors.ErrCodeFileWrite,
					"failed to write to ignore file: "+path, err).
					WithDetail("path", path)
			}
		}
	}

	w := bufio.NewWriter(f)
	for _, p := range sanitized {
		if _, err := w.WriteString(p + "\n"); err != nil {
			return gierrors.New(gierrors.ErrCodeFileWrite,
				"failed to write pattern to ignore file: "+path, err).
				WithDetail("path", path)
		}
	}

	if err := w.Flush(); err != nil {
		return gierrors.New(gierrors.ErrCodeFileWrite,
			"failed to flush ignore file: "+path, err).
			WithDetail("path", path)
	}

	return nil
}

// AddOptions controls AddPatterns behavior.
type AddOptions struct {
	// AvoidDuplicates filters out patterns whose sanitized form is
	// already present in the target file.
	AvoidDuplicates bool

	// BaseDir, when non-empty, requires the target path to resolve
	// within it. The command surface passes the repository root for
	// .gitignore and the git dir for info/exclude.
	BaseDir string
}

// AddPatterns appends the given patterns to the ignore file at path
// and returns the sanitized patterns actually written, in their
// original relative order. The returned slice is empty when every
// pattern was either empty after sanitization or already present.
func AddPatterns(path string, patterns []string, opts AddOptions) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	if opts.BaseDir != "" {
		if err := checkWithinBase(path, opts.BaseDir); err != nil {
			return nil, err
		}
	}

	existing := map[string]struct{}{}
	if opts.AvoidDuplicates {
		var err error
		existing, err = ReadPatterns(path)
		if err != nil {
			return nil, err
		}
	}

	toAdd := make([]string, 0, len(patterns))
	for _, p := range patterns {
		s := Sanitize(p)
		if s == "" {
			continue
		}
		if opts.AvoidDuplicates {
			if _, dup := existing[s]; dup {
				// Duplicates are skipped silently, not reported.
				continue
			}
		}
		toAdd = append(toAdd, s)
	}

	if len(toAdd) > 0 {
		if err := WritePatterns(path, toAdd, true); err != nil {
			return nil, err
		}
	}

	slog.Debug("patterns added",
		slog.String("path", path),
		slog.Int("requested", len(patterns)),
		slog.Int("written", len(toAdd)))

	return toAdd, nil
}

// EnsureExcludeFile creates the info/exclude file with the standard
// template when it does not exist yet. An existing file is left
// untouched.
func EnsureExcludeFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return gierrors.New(gierrors.ErrCodeDirCreate,
				"failed to create directory: "+dir, err).
				WithDetail("path", path)
		}
	}

	if err := os.WriteFile(path, []byte(excludeTemplate), 0o644); err != nil {
		return gierrors.New(gierrors.ErrCodeFileWrite,
			"failed to initialize exclude file: "+path, err).
			WithDetail("path", path)
	}

	return nil
}

// checkWithinBase rejects a target path that escapes base once both
// are canonicalized. The target may not exist yet; its nearest
// existing ancestor anchors the resolution.
func checkWithinBase(path, base string) error {
	resolvedBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return gierrors.New(gierrors.ErrCodePathResolve,
			"invalid base directory: "+base, err)
	}

	resolved, err := resolveExistingAncestor(path)
	if err != nil {
		return gierrors.New(gierrors.ErrCodePathResolve,
			"invalid file path: "+path, err)
	}

	if resolved != resolvedBase &&
		!strings.HasPrefix(resolved, resolvedBase+string(filepath.Separator)) {
		return gierrors.Newf(gierrors.ErrCodePathOutsideBase,
			"file path %s is outside allowed directory %s", path, base).
			WithDetail("path", resolved).
			WithDetail("base", resolvedBase)
	}

	return nil
}

// resolveExistingAncestor canonicalizes path by resolving its nearest
// existing ancestor and re-joining the missing suffix.
func resolveExistingAncestor(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	suffix := ""
	current := abs
	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", err
			}
			return filepath.Join(resolved, suffix), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		suffix = filepath.Join(filepath.Base(current), suffix)
		current = parent
	}
}
