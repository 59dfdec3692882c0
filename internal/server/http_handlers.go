package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"resumescan/internal/ai"
	"resumescan/internal/errors"

	"github.com/google/uuid"
)

// analyzeResumeHandler accepts a multipart résumé upload and returns its analysis
func (s *Server) analyzeResumeHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)
	logger := s.Logger.With("request_id", requestID)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.LogError(errors.NewInternalError(errors.ErrCodeAnalysisFailed,
				"analyze_resume handler panicked", fmt.Errorf("%v", rec)), "Request failed")
			writeErrorResponse(w, fmt.Sprintf("Internal server error: %v", rec), "", http.StatusInternalServerError)
		}
	}()

	form, err := s.parseUploadForm(r)
	if err != nil {
		s.writeRequestError(w, logger, err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	req, err := s.decodeUploads(r.Context(), form, logger)
	if err != nil {
		s.writeRequestError(w, logger, err)
		return
	}

	analysis := s.Analyzer.Analyze(r.Context(), req)
	status := http.StatusOK
	if analysis.Failed() {
		status = http.StatusBadRequest
	}

	logger.Info("analyze_resume completed",
		"status", status,
		"resume", form.Resume.Filename,
		"has_jd", req.JobDescription != "",
		"target_role", req.TargetRole,
		"duration", time.Since(start))
	writeJSON(w, status, analysis)
}

// writeRequestError answers client errors with their own status and anything else with 500
func (s *Server) writeRequestError(w http.ResponseWriter, logger *errors.Logger, err error) {
	var reqErr *requestError
	if stderrors.As(err, &reqErr) {
		logger.Info("Rejected analyze_resume request", "status", reqErr.status, "reason", reqErr.message)
		writeErrorResponse(w, reqErr.message, "", reqErr.status)
		return
	}
	logger.LogError(err, "analyze_resume failed")
	writeErrorResponse(w, fmt.Sprintf("Internal server error: %v", err), "", http.StatusInternalServerError)
}

// healthHandler reports liveness plus the summarizer breaker state
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"status":     "healthy",
		"message":    "Resume Analyzer API is running",
		"version":    s.Version,
		"summarizer": s.summarizerHealth(),
	}

	if s.certReloader != nil {
		response["certificates"] = s.certReloader.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// summarizerHealth describes the summarizer; the offline fallback is always available
func (s *Server) summarizerHealth() map[string]any {
	reporter, ok := s.Summarizer.(ai.HealthReporter)
	if !ok {
		return map[string]any{
			"healthy":  true,
			"provider": "fallback",
		}
	}
	return map[string]any{
		"healthy":         reporter.IsHealthy(),
		"circuit_breaker": reporter.GetStats(),
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service": "resumescan",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
			"tls_mode":               s.TLSConfig.Mode,
		},
		"catalog": map[string]any{
			"roles":               len(s.Analyzer.Catalog().Roles()),
			"industries":          len(s.Analyzer.Catalog().Industries()),
			"default_target_role": s.DefaultTargetRole,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
