// Package errors provides structured error handling for git-ignore.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Git context errors (subprocess, repository discovery)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
// Process exit codes are derived from the category, never from
// rendered message text.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryGit indicates git subprocess and repository discovery errors.
	CategoryGit Category = "GIT"
	// CategoryValidation indicates pattern validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityError indicates the operation failed.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeNoGlobalIgnore = "ERR_101_NO_GLOBAL_IGNORE"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileRead        = "ERR_201_FILE_READ"
	ErrCodeFileWrite       = "ERR_202_FILE_WRITE"
	ErrCodeDirCreate       = "ERR_203_DIR_CREATE"
	ErrCodePathResolve     = "ERR_204_PATH_RESOLVE"
	ErrCodePathOutsideBase = "ERR_205_PATH_OUTSIDE_BASE"

	// Git errors (300-399)
	ErrCodeGitNotFound     = "ERR_301_GIT_NOT_FOUND"
	ErrCodeNotInRepository = "ERR_302_NOT_IN_REPOSITORY"
	ErrCodeGitEmptyOutput  = "ERR_303_GIT_EMPTY_OUTPUT"
	ErrCodeGitTimeout      = "ERR_304_GIT_TIMEOUT"

	// Validation errors (400-499)
	ErrCodeValidationFailed = "ERR_401_VALIDATION_FAILED"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// The leading digit of the numeric portion selects the category
	// (e.g. '3' in "ERR_302_NOT_IN_REPOSITORY").
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryGit
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
