package server

import (
	"net/http"
	"time"

	"resumescan/internal/ai"
	"resumescan/internal/analyzer"
	"resumescan/internal/config"
	"resumescan/internal/document"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// TLS Configuration
	TLSConfig    config.TLSConfig
	certReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	AllowedOrigin     string
	DefaultTargetRole string

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Analyzer   *analyzer.Analyzer
	Extractor  *document.Extractor
	Summarizer ai.Summarizer

	Logger        *errors.Logger
	Metrics       *observability.Metrics
	observability *observability.ObservabilityManager
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host              string
	Port              string
	Version           string
	TLSConfig         config.TLSConfig
	APIKeys           []string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxRequestSize    int64
	AllowedOrigin     string
	DefaultTargetRole string
	RateLimit         *config.RateLimitConfig
}

// Dependencies are the collaborators a Server serves requests with.
// Nil values fall back to defaults.
type Dependencies struct {
	Analyzer *analyzer.Analyzer
	// Summarizer is only inspected for /health when it reports breaker state
	Summarizer    ai.Summarizer
	Observability *observability.ObservabilityManager
	Logger        *errors.Logger
}

// NewServerConfig maps application configuration onto a ServerConfig
func NewServerConfig(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		Version:           version,
		TLSConfig:         cfg.Server.TLS,
		APIKeys:           cfg.Server.APIKeys,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxRequestSize:    cfg.Server.MaxUploadSize,
		AllowedOrigin:     cfg.Server.AllowedOrigin,
		DefaultTargetRole: cfg.Analysis.DefaultTargetRole,
		RateLimit:         &rateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = errors.Discard()
	}
	metrics := deps.Observability.GetMetrics()

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			cfg.RateLimit.Window,
			logger,
		)
	}

	a := deps.Analyzer
	if a == nil {
		a = analyzer.New(nil, deps.Summarizer, analyzer.Options{Logger: logger, Metrics: metrics})
	}

	defaultRole := cfg.DefaultTargetRole
	if defaultRole == "" {
		defaultRole = analyzer.AutoDetect
	}

	return &Server{
		Host:              cfg.Host,
		Port:              cfg.Port,
		Version:           cfg.Version,
		TLSConfig:         cfg.TLSConfig,
		APIKeys:           apiKeyMap,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxRequestSize:    cfg.MaxRequestSize,
		AllowedOrigin:     cfg.AllowedOrigin,
		DefaultTargetRole: defaultRole,
		RateLimit:         cfg.RateLimit,
		RateLimiter:       rateLimiter,
		Analyzer:          a,
		Extractor:         document.NewExtractor(logger, metrics),
		Summarizer:        deps.Summarizer,
		Logger:            logger,
		Metrics:           metrics,
		observability:     deps.Observability,
	}
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.observability.HTTPMiddleware()(s.setupRoutes()))
}
