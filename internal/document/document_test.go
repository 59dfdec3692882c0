package document

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumescan/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// buildDocx packs body (the inside of w:body) into a minimal docx archive
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types/>`))
	require.NoError(t, err)

	w, err = zw.Create(docxBody)
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr), "not an AppError: %v", err)
	return appErr.Code
}

func TestExtractDocx(t *testing.T) {
	t.Run("paragraphs then table cells", func(t *testing.T) {
		body := para("Jane Doe") +
			`<w:p></w:p>` +
			`<w:tbl><w:tr>` +
			`<w:tc>` + para("Skills") + para("SQL") + `</w:tc>` +
			`<w:tc>` + para("  ") + `</w:tc>` +
			`</w:tr></w:tbl>` +
			para("Experience: 5 years")

		text, err := Extract("resume.docx", buildDocx(t, body))
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\nExperience: 5 years\nSkills\nSQL", text)
	})

	t.Run("runs tabs and breaks", func(t *testing.T) {
		body := `<w:p><w:r><w:t>Data</w:t></w:r><w:r><w:t xml:space="preserve"> Analyst</w:t><w:tab/><w:t>2020</w:t><w:br/><w:t>Acme</w:t></w:r></w:p>`
		text, err := Extract("resume.DOCX", buildDocx(t, body))
		require.NoError(t, err)
		assert.Equal(t, "Data Analyst 2020\nAcme", text)
	})

	t.Run("text box inside a paragraph", func(t *testing.T) {
		body := `<w:p><w:r><w:t>Contact</w:t></w:r>` +
			`<w:r><w:pict><w:txbxContent>` + para("jane@example.com") + `</w:txbxContent></w:pict></w:r>` +
			`<w:r><w:t xml:space="preserve"> details</w:t></w:r></w:p>` +
			para("Skills: SQL")
		text, err := Extract("resume.docx", buildDocx(t, body))
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com\nContact details\nSkills: SQL", text)
	})

	t.Run("not a zip archive", func(t *testing.T) {
		_, err := Extract("resume.docx", []byte("plain text pretending to be docx"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeExtractionFailed, appCode(t, err))
		assert.Contains(t, err.Error(), "Error reading DOCX")
	})

	t.Run("archive without document body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		_, err := zw.Create("word/styles.xml")
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		_, err = Extract("resume.docx", buf.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no word/document.xml found")
	})

	t.Run("only blank paragraphs", func(t *testing.T) {
		_, err := Extract("resume.docx", buildDocx(t, para(" ")+`<w:p/>`))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeEmptyDocument, appCode(t, err))
	})
}

func TestExtractValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		code     string
		message  string
	}{
		{
			name:     "unsupported extension",
			filename: "resume.rtf",
			data:     []byte("text"),
			code:     errors.ErrCodeUnsupportedFileType,
			message:  "Unsupported file type: .rtf",
		},
		{
			name:     "no extension",
			filename: "resume",
			data:     []byte("text"),
			code:     errors.ErrCodeUnsupportedFileType,
		},
		{
			name:     "empty file",
			filename: "resume.txt",
			data:     nil,
			code:     errors.ErrCodeEmptyDocument,
			message:  "File is empty",
		},
		{
			name:     "too large",
			filename: "resume.txt",
			data:     bytes.Repeat([]byte("a"), MaxFileSize+1),
			code:     errors.ErrCodeFileTooLarge,
			message:  "File too large (max 10MB)",
		},
		{
			name:     "whitespace only text",
			filename: "resume.txt",
			data:     []byte(" \n\t\r\n "),
			code:     errors.ErrCodeEmptyDocument,
		},
		{
			name:     "invalid utf-8 text",
			filename: "resume.txt",
			data:     []byte{0xff, 0xfe, 0x00, 0x41},
			code:     errors.ErrCodeInvalidFormat,
		},
		{
			name:     "corrupt pdf",
			filename: "resume.pdf",
			data:     []byte("%PDF-1.4 this is not really a pdf"),
			code:     errors.ErrCodeExtractionFailed,
			message:  "Error reading PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.filename, tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.code, appCode(t, err))
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	text, err := Extract("resume.txt", []byte("\xef\xbb\xbfJane   Doe\r\n\r\n\r\n\r\nSkills: SQL\t Python  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nSkills: SQL Python", text)
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  a  b  ", want: "a b"},
		{in: "a\r\nb\rc", want: "a\nb\nc"},
		{in: "a\n \n \n \nb", want: "a\n\nb"},
		{in: "\n--- Page 1 ---\nHello", want: "--- Page 1 ---\nHello"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeWhitespace(tt.in), "input %q", tt.in)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("cv.PDF"))
	assert.True(t, IsSupported("dir.v2/cv.docx"))
	assert.True(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("cv.doc"))
	assert.False(t, IsSupported("cv"))
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, SupportedExtensions())
}

func TestExtractorReadFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExtractor(nil, nil)

	t.Run("reads and extracts", func(t *testing.T) {
		path := filepath.Join(dir, "resume.txt")
		require.NoError(t, os.WriteFile(path, []byte("Experience: 3 years\nSkills: Go"), 0600))

		text, err := e.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(text, "Experience"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := e.ReadFile(context.Background(), filepath.Join(dir, "absent.txt"))
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeFileNotFound, appCode(t, err))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := e.ReadFile(context.Background(), dir)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	})
}
