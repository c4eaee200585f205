package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MatrixFormats lists the score matrix file formats sitefinder can read,
// keyed by file extension without the dot.
var MatrixFormats = map[string]bool{
	"json": true,
	"csv":  true,
	"asc":  true,
}

// ValidatePath validates a user-supplied file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateMatrixFormat checks that path has a supported matrix extension.
func ValidateMatrixFormat(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !MatrixFormats[ext] {
		return New(ErrCodeInvalidFormat, "unsupported matrix format %q (must be json, csv, or asc)", filepath.Ext(path))
	}
	return nil
}

// ValidateSearchParams rejects parameters the search cannot run with.
// Zero and negative values are never defaulted here; callers apply defaults
// before validating.
func ValidateSearchParams(targetSize, count, seedPool int) error {
	if targetSize <= 0 {
		return New(ErrCodeInvalidTargetSize, "target size must be positive, got %d", targetSize)
	}
	if count <= 0 {
		return New(ErrCodeInvalidCount, "site count must be positive, got %d", count)
	}
	if seedPool <= 0 {
		return New(ErrCodeInvalidCount, "seed pool must be positive, got %d", seedPool)
	}
	return nil
}
