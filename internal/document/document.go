package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is the declared type of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ErrExtraction is the sentinel matched by every *ExtractionError.
var ErrExtraction = errors.New("document extraction failed")

// ErrUnsupportedFormat is wrapped when a format or file extension is neither pdf nor docx.
var ErrUnsupportedFormat = errors.New("only PDF and DOCX files are supported")

// ExtractionError reports a document that cannot be read as its declared format.
// Malformed input is not retryable.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s: %v", ErrExtraction, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrExtraction, e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrExtraction) hold for every extraction error.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func newExtractionError(format Format, err error) error {
	return &ExtractionError{Format: format, Err: err}
}

// ParseFormat validates a declared format tag.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, ".")))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath derives the format from a file name extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}

// Extract converts raw document bytes into plain text. Text is not normalized.
// Empty PDF input yields an empty string; an empty DOCX is not a valid archive.
func Extract(data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", newExtractionError(format, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format)))
	}
}

// ExtractFile reads path and extracts its text using the format implied by the extension.
func ExtractFile(path string) (string, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return "", "", newExtractionError("", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", format, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := Extract(data, format)
	if err != nil {
		return "", format, err
	}

	return text, format, nil
}
