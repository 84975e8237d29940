package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds layer and path identifiers.
const maxIdentifierLength = 128

// ValidateIdentifier validates a layer or path identifier.
//
// The rules are intentionally conservative because identifiers end up as
// SVG id attributes:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "identifier cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidDocument, "identifier too long (max %d characters)", maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDocument, "identifier %q contains whitespace or control characters", id)
		}
	}

	if strings.ContainsAny(id, `"'<>&`) {
		return New(ErrCodeInvalidDocument, "identifier %q contains markup characters", id)
	}

	return nil
}

// ValidatePath validates an input or output file path.
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

// colorPattern matches the paint values accepted in path styles: hex colors,
// rgb()/rgba()/hsl()/hsla() functions, url(#id) references and plain keywords.
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,4}|#[0-9a-fA-F]{6}|#[0-9a-fA-F]{8}|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\)|url\(#[A-Za-z][\w.-]*\)|[a-zA-Z]+)$`)

// ValidateColor validates an SVG paint value such as "#ff0000", "none",
// "rgb(0, 0, 0)" or "url(#gradient)".
func ValidateColor(value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if !colorPattern.MatchString(strings.TrimSpace(value)) {
		return New(ErrCodeInvalidInput, "invalid color value: %q", value)
	}
	return nil
}
