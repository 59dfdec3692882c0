// Package document turns uploaded resume and job description files into plain text.
package document

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"resumescan/internal/errors"
	"resumescan/internal/observability"
	"resumescan/internal/utils"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize is the largest document accepted, in bytes
const MaxFileSize = 10 * 1024 * 1024

// Supported extensions, lower case with the leading dot
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
	ExtTXT  = ".txt"
)

var supported = []string{ExtPDF, ExtDOCX, ExtTXT}

// SupportedExtensions returns the accepted file extensions
func SupportedExtensions() []string {
	return slices.Clone(supported)
}

// Ext returns the lower-cased extension of filename
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsSupported reports whether filename has an accepted extension
func IsSupported(filename string) bool {
	return slices.Contains(supported, Ext(filename))
}

// Extract decodes data according to the extension of filename.
// The returned text is whitespace-normalized and never empty.
func Extract(filename string, data []byte) (string, error) {
	ext := Ext(filename)
	if !slices.Contains(supported, ext) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("Unsupported file type: %s. Please upload PDF, DOCX, or TXT files.", ext), nil).
			WithContext("filename", filename)
	}
	if len(data) > MaxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge, "File too large (max 10MB)", nil).
			WithContext("filename", filename).
			WithContext("size", len(data))
	}
	if len(data) == 0 {
		return "", errors.NewValidationError(errors.ErrCodeEmptyDocument, "File is empty", nil).
			WithContext("filename", filename)
	}

	var text string
	var err error
	switch ext {
	case ExtPDF:
		text, err = extractPDF(data)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeExtractionFailed, fmt.Sprintf("Error reading PDF: %v", err), err).
				WithContext("filename", filename)
		}
	case ExtDOCX:
		text, err = extractDocx(data)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeExtractionFailed, fmt.Sprintf("Error reading DOCX: %v", err), err).
				WithContext("filename", filename)
		}
	case ExtTXT:
		text, err = extractText(data)
		if err != nil {
			return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, fmt.Sprintf("Error reading file: %v", err), err).
				WithContext("filename", filename)
		}
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyDocument,
			fmt.Sprintf("No text could be extracted from %s", filename), nil).
			WithContext("filename", filename)
	}
	return text, nil
}

// Extractor wraps Extract with logging and document metrics
type Extractor struct {
	logger  *errors.Logger
	metrics *observability.Metrics
}

// NewExtractor creates an Extractor. Both arguments may be nil.
func NewExtractor(logger *errors.Logger, metrics *observability.Metrics) *Extractor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Extractor{logger: logger, metrics: metrics}
}

// Extract decodes one uploaded document
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := Extract(filename, data)
	e.metrics.RecordDocument(ctx, Ext(filename), err == nil)
	if err != nil {
		e.logger.LogError(err, "Document extraction failed", "filename", filename)
		return "", err
	}
	e.logger.Debug("Document extracted",
		"filename", filename,
		"size", utils.FormatFileSize(int64(len(data))),
		"chars", utf8.RuneCountInString(text))
	return text, nil
}

// ReadFile reads path within MaxFileSize and extracts it
func (e *Extractor) ReadFile(ctx context.Context, path string) (string, error) {
	data, err := utils.ReadFileLimited(path, MaxFileSize)
	switch {
	case err == nil:
		return e.Extract(ctx, path, data)
	case stderrors.Is(err, os.ErrNotExist):
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("File not found: %s", path), err)
	case stderrors.Is(err, utils.ErrIsDirectory), stderrors.Is(err, utils.ErrEmptyFilename):
		return "", errors.NewValidationError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Invalid file: %s", path), err)
	case stderrors.Is(err, utils.ErrFileTooLarge):
		return "", errors.NewValidationError(errors.ErrCodeFileTooLarge, "File too large (max 10MB)", err).
			WithContext("filename", path)
	default:
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("Cannot read file: %s", path), err)
	}
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		// font names are page resources, so each page loads its own
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s", i, pageText)
	}
	return b.String(), nil
}

func extractText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace unifies line endings, collapses runs of spaces and
// trims every line. Single blank lines between blocks are kept.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = horizontalSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
