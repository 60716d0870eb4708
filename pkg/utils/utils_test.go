package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "Пески Марса", "Пески Марса"},
		{"slash and colon", "Алиби: часть 1/2", "Алиби_ часть 1_2"},
		{"windows reserved chars", `a<b>c:d"e|f?g*h`, "a_b_c_d_e_f_g_h"},
		{"collapses underscores", "a//\\b", "a_b"},
		{"trims leading trailing", "  /title/  ", "title"},
		{"empty becomes untitled", "///", "untitled"},
		{"control characters", "bad\x00name\x1f", "bad_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename_LongInput(t *testing.T) {
	long := strings.Repeat("ж", 200) // 2 bytes per rune
	got := SanitizeFilename(long)
	if len(got) > maxFilenameLength {
		t.Errorf("sanitized length %d exceeds max %d", len(got), maxFilenameLength)
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("truncation produced invalid UTF-8 remnant: %q", got)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "None"},
		{"unavailable", fmt.Errorf("%w: text for book 32", ErrUnavailable), "Unavailable"},
		{"http 404", fmt.Errorf("%w: status 404 Not Found", ErrHTTPStatus), "HTTP_404"},
		{"http 500", fmt.Errorf("%w: status 500 Internal Server Error", ErrHTTPStatus), "HTTP_5xx"},
		{"malformed heading", fmt.Errorf("detail page: %w", ErrMalformedHeading), "Extraction_MalformedHeading"},
		{"content region", ErrContentRegion, "Extraction_ContentRegion"},
		{"cover missing", ErrCoverMissing, "Extraction_CoverMissing"},
		{"filesystem permission", fmt.Errorf("%w: %w", ErrFilesystem, os.ErrPermission), "Filesystem_Permission"},
		{"filesystem other", fmt.Errorf("%w: disk full", ErrFilesystem), "Filesystem_Other"},
		{"context canceled", context.Canceled, "System_ContextCanceled"},
		{"transport refused", fmt.Errorf("%w: dial tcp: connection refused", ErrTransport), "Network_ConnectionRefused"},
		{"transport dns", fmt.Errorf("%w: lookup example.invalid: no such host", ErrTransport), "Network_DNSLookup"},
		{"transport timeout", fmt.Errorf("%w: context deadline exceeded (Client.Timeout)", ErrTransport), "Network_Timeout"},
		{"unknown", errors.New("mystery"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExtractionErrorsMatchBase(t *testing.T) {
	for _, err := range []error{ErrContentRegion, ErrHeadingMissing, ErrMalformedHeading, ErrCoverMissing} {
		if !errors.Is(err, ErrExtraction) {
			t.Errorf("%v does not match ErrExtraction", err)
		}
	}
}
