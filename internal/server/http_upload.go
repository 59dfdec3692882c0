package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/document"
	"resumescan/internal/errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// multipart parts above this size are spooled to disk
const maxFormMemory = 32 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// requestError is a client error answered with its status and message
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string) error {
	return &requestError{status: http.StatusBadRequest, message: message}
}

// uploadForm is the validated shape of an analyze_resume submission
type uploadForm struct {
	Resume     *multipart.FileHeader `validate:"required"`
	JD         *multipart.FileHeader
	TargetRole string `validate:"required,max=100"`
}

// parseUploadForm reads the multipart form and checks file presence and types
func (s *Server) parseUploadForm(r *http.Request) (*uploadForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return nil, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				message: fmt.Sprintf("Request too large (limit is %d bytes)", maxBytesErr.Limit),
			}
		}
		return nil, badRequest("No resume file provided")
	}

	resumes := r.MultipartForm.File["resume"]
	if len(resumes) == 0 {
		// a part sent with an empty filename is parsed as a plain value
		if _, ok := r.MultipartForm.Value["resume"]; ok {
			return nil, badRequest("No resume file selected")
		}
		return nil, badRequest("No resume file provided")
	}

	form := &uploadForm{
		Resume:     resumes[0],
		TargetRole: strings.TrimSpace(r.FormValue("target_role")),
	}
	if form.Resume.Filename == "" {
		return nil, badRequest("No resume file selected")
	}
	if !document.IsSupported(form.Resume.Filename) {
		return nil, badRequest("Unsupported file type. Please upload PDF, DOCX, or TXT files.")
	}

	if jds := r.MultipartForm.File["jd"]; len(jds) > 0 && jds[0].Filename != "" {
		if !document.IsSupported(jds[0].Filename) {
			return nil, badRequest("Unsupported JD file type")
		}
		form.JD = jds[0]
	}

	if form.TargetRole == "" {
		form.TargetRole = s.DefaultTargetRole
	}
	if err := validate.Struct(form); err != nil {
		return nil, badRequest("Invalid target_role")
	}
	return form, nil
}

// decodeUploads extracts the résumé and the optional job description concurrently.
// An unreadable job description is dropped; an unreadable résumé fails the request.
func (s *Server) decodeUploads(ctx context.Context, form *uploadForm, logger *errors.Logger) (analyzer.Request, error) {
	req := analyzer.Request{TargetRole: form.TargetRole}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.extractPart(gctx, form.Resume)
		if err != nil {
			logger.Warn("Rejecting unreadable resume",
				"filename", form.Resume.Filename, "error", err)
			return badRequest("Failed to extract text from resume")
		}
		req.Resume = text
		return nil
	})
	if form.JD != nil {
		g.Go(func() error {
			text, err := s.extractPart(gctx, form.JD)
			if err != nil {
				logger.Warn("Ignoring unreadable job description",
					"filename", form.JD.Filename, "error", err)
				return nil
			}
			req.JobDescription = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return analyzer.Request{}, err
	}
	return req, nil
}

func (s *Server) extractPart(ctx context.Context, header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot open upload: %s", header.Filename), err)
	}
	defer func() { _ = f.Close() }()

	// one byte past the cap lets the extractor report the size error
	data, err := io.ReadAll(io.LimitReader(f, document.MaxFileSize+1))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read upload: %s", header.Filename), err)
	}
	return s.Extractor.Extract(ctx, header.Filename, data)
}
