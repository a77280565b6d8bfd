package cmd

import (
	gierrors "github.com/ignoretools/git-ignore/internal/errors"
)

// Process exit codes. Scripts distinguish failure classes by code, so
// these are part of the CLI contract.
const (
	ExitSuccess          = 0
	ExitValidationFailed = 1
	ExitGitError         = 2
	ExitConfigError      = 3
	ExitFileError        = 4
)

// ExitCode maps an error to a process exit code by its category.
// Errors without a category (plain errors, cobra usage errors) exit 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch gierrors.GetCategory(err) {
	case gierrors.CategoryValidation:
		return ExitValidationFailed
	case gierrors.CategoryGit:
		return ExitGitError
	case gierrors.CategoryConfig:
		return ExitConfigError
	case gierrors.CategoryIO:
		return ExitFileError
	default:
		return ExitValidationFailed
	}
}
