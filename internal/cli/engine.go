package cli

import (
	"fmt"

	"resumescan/internal/ai"
	"resumescan/internal/analyzer"
	"resumescan/internal/catalog"
	"resumescan/internal/config"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
)

// loadCatalog reads the catalog named by override, else by config, else the built-in one
func loadCatalog(cfg *config.Config, override string, logger *errors.Logger) (*catalog.Catalog, error) {
	path := override
	if path == "" {
		path = cfg.Analysis.CatalogFile
	}
	if path == "" {
		return catalog.Default(), nil
	}

	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded role catalog", "file", path, "roles", len(c.Roles()))
	return c, nil
}

// buildAnalyzer wires the catalog, the configured summarizer and metrics into an Analyzer
func buildAnalyzer(cfg *config.Config, catalogFile string, logger *errors.Logger, metrics *observability.Metrics) (*analyzer.Analyzer, ai.Summarizer, error) {
	c, err := loadCatalog(cfg, catalogFile, logger)
	if err != nil {
		return nil, nil, err
	}

	summarizeCfg := cfg.GetSummarizeConfig()
	summarizer, err := ai.NewSummarizer(summarizeCfg, ai.Options{
		InputChars: cfg.Analysis.SummaryInputChars,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create summarizer: %w", err)
	}
	logger.Debug("Summarizer ready", "provider", summarizeCfg.Provider, "model", summarizeCfg.Model)

	a := analyzer.New(c, summarizer, analyzer.Options{
		SummaryMaxLength: cfg.Analysis.SummaryMaxLength,
		SummaryMinLength: cfg.Analysis.SummaryMinLength,
		Logger:           logger,
		Metrics:          metrics,
	})
	return a, summarizer, nil
}
