package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "background", false},
		{"valid with dash", "layer-1", false},
		{"valid with underscore", "path_0", false},
		{"valid with dot", "icon.outline", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"space", "my layer", true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
		{"quote", `foo"bar`, true},
		{"angle bracket", "foo<bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("ValidateIdentifier(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "docs/logo.json", false},
		{"absolute", "/tmp/out.svg", false},
		{"filename only", "logo.yaml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"short hex", "#f00", false},
		{"long hex", "#ff0000", false},
		{"hex with alpha", "#ff000080", false},
		{"keyword", "none", false},
		{"named", "steelblue", false},
		{"rgb", "rgb(10, 20, 30)", false},
		{"rgba", "rgba(10,20,30,0.5)", false},
		{"url", "url(#grad-1)", false},

		{"empty", "", true},
		{"bad hex", "#ggg", true},
		{"script", "javascript:alert(1)", true},
		{"url without hash", "url(http://x)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidDocument,
		ErrCodeInvalidLayout,
		ErrCodeInvalidRegion,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeUnknownAspectRatio,
		ErrCodeRegionNotFound,
		ErrCodeRegionConflict,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
