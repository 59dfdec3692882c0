package cli

import (
	"context"
	"fmt"
	"time"

	"resumescan/internal/config"
	"resumescan/internal/observability"
	"resumescan/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP resume analysis API",
	Long: `Start an HTTP server that exposes resume analysis.

Available endpoints:
- POST /analyze_resume: multipart upload with "resume" (required), "jd" and "target_role"
- GET /health: Health check with summarizer circuit breaker state
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled or server
- Use --cert-file and --key-file for TLS certificates`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveCatalogFile string

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveCatalogFile, "catalog", "", "YAML role catalog (overrides analysis.catalogFile)")
}

// applyServeFlags copies explicitly set flags over the loaded server config
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	overrides := map[string]*string{
		"port":      &cfg.Port,
		"host":      &cfg.Host,
		"tls-mode":  &cfg.TLS.Mode,
		"cert-file": &cfg.TLS.CertFile,
		"key-file":  &cfg.TLS.KeyFile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeFlags(cmd, &cfg.Server)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	a, summarizer, err := buildAnalyzer(cfg, serveCatalogFile, logger, om.GetMetrics())
	if err != nil {
		return err
	}

	srv := server.NewServer(server.NewServerConfig(cfg, Version), server.Dependencies{
		Analyzer:      a,
		Summarizer:    summarizer,
		Observability: om,
		Logger:        logger,
	})
	return srv.Start(cmd.Context())
}
