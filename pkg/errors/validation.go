package errors

import (
	"strings"
	"unicode"
)

// ValidateDesignName validates a design name used as a storage key.
// It rejects names that could be used for path traversal, since file-backed
// stores derive filenames from the design name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateDesignName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "design name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "design name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "design name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "design name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDimension validates one physical parameter in millimeters.
// Dimensions must be finite positive values; label names the parameter in
// the error message.
func ValidateDimension(label string, mm float64) error {
	if mm != mm { // NaN
		return New(ErrCodeInvalidParams, "%s must be a number", label)
	}
	if mm <= 0 {
		return New(ErrCodeInvalidParams, "%s must be positive, got %v", label, mm)
	}
	const maxMM = 1e6
	if mm > maxMM {
		return New(ErrCodeInvalidParams, "%s too large (max %v mm)", label, maxMM)
	}
	return nil
}
