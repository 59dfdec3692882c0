package common

import (
	"context"
	"fmt"
	"os"

	"resumescan/internal/document"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
	"resumescan/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger    *errors.Logger
	extractor *document.Extractor
}

// NewFileProcessor creates a new file processor instance. metrics may be nil.
func NewFileProcessor(logger *errors.Logger, metrics *observability.Metrics) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{
		logger:    logger,
		extractor: document.NewExtractor(logger, metrics),
	}
}

// ReadDocument validates filename and extracts its text
func (fp *FileProcessor) ReadDocument(ctx context.Context, filename string) (string, error) {
	if !document.IsSupported(filename) {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("Unsupported file type: %s. Please upload PDF, DOCX, or TXT files.", document.Ext(filename)), nil).
			WithContext("filename", filename)
	}

	text, err := fp.extractor.ReadFile(ctx, filename)
	if err != nil {
		return "", err // Error already wrapped by the extractor
	}
	return text, nil
}

// ReadDocuments extracts every file in order. Empty names yield empty text,
// which is how optional inputs are skipped.
func (fp *FileProcessor) ReadDocuments(ctx context.Context, filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))
	for i, filename := range filenames {
		if filename == "" {
			continue
		}
		text, err := fp.ReadDocument(ctx, filename)
		if err != nil {
			return nil, err
		}
		contents[i] = text
	}
	return contents, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if err := utils.EnsureOutputDir(filename); err != nil {
		return errors.NewIOError("DIRECTORY_CREATE_FAILED",
			fmt.Sprintf("Cannot create directory for %s", filename), err)
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.EnsureOutputDir(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
