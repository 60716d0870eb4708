package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrTransport       = errors.New("transport failure")              // Wraps connection/DNS/timeout errors
	ErrHTTPStatus      = errors.New("unexpected HTTP status")         // Wraps non-2xx responses
	ErrUnavailable     = errors.New("resource silently redirected")   // Classifier verdict at a fetch boundary
	ErrRequestCreation = errors.New("failed to create HTTP request")
	ErrParsing         = errors.New("parsing error") // Wraps HTML/URL/JSON parse errors

	ErrExtraction = errors.New("extraction error") // Base for all markup-shape failures
	ErrFilesystem = errors.New("filesystem error") // Wraps os errors; fatal to the run

	ErrConfigValidation = errors.New("configuration validation error")
)

// Specific extraction failures, all matching errors.Is(err, ErrExtraction).
var (
	ErrContentRegion    = fmt.Errorf("%w: content region not found", ErrExtraction)
	ErrHeadingMissing   = fmt.Errorf("%w: heading element not found", ErrExtraction)
	ErrMalformedHeading = fmt.Errorf("%w: heading missing title/author delimiter", ErrExtraction)
	ErrCoverMissing     = fmt.Errorf("%w: cover image element not found", ErrExtraction)
)

// CategorizeError maps an error to a predefined category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrUnavailable):
		return "Unavailable"
	case errors.Is(err, ErrHTTPStatus):
		errMsg := err.Error()
		if strings.Contains(errMsg, " 404 ") {
			return "HTTP_404"
		}
		if strings.Contains(errMsg, " 403 ") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 5") {
			return "HTTP_5xx"
		}
		return "HTTP_NonSuccess"
	case errors.Is(err, ErrContentRegion):
		return "Extraction_ContentRegion"
	case errors.Is(err, ErrHeadingMissing):
		return "Extraction_HeadingMissing"
	case errors.Is(err, ErrMalformedHeading):
		return "Extraction_MalformedHeading"
	case errors.Is(err, ErrCoverMissing):
		return "Extraction_CoverMissing"
	case errors.Is(err, ErrExtraction):
		return "Extraction_Other"
	case errors.Is(err, ErrFilesystem):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrParsing):
		return "Content_Parsing"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	if errors.Is(err, ErrTransport) {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "Network_Timeout"
		}
		lowerMsg := strings.ToLower(err.Error())
		if strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline exceeded") {
			return "Network_Timeout"
		}
		if strings.Contains(lowerMsg, "connection refused") {
			return "Network_ConnectionRefused"
		}
		if strings.Contains(lowerMsg, "no such host") {
			return "Network_DNSLookup"
		}
		if strings.Contains(lowerMsg, "reset by peer") {
			return "Network_ConnectionReset"
		}
		return "Network_Other"
	}

	return "Unknown"
}
