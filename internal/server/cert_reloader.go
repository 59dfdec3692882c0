package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"resumescan/internal/config"
	"resumescan/internal/errors"
)

// CertReloader serves the current server certificate and swaps it in place on reload
type CertReloader struct {
	cfg     config.TLSConfig
	cert    atomic.Pointer[tls.Certificate]
	logger  *errors.Logger
	watcher *CertWatcher

	mu           sync.Mutex
	reloads      int
	failures     int
	lastReload   time.Time
	lastError    string
	certNotAfter time.Time
}

// NewCertReloader loads the certificate once; a load failure is returned
func NewCertReloader(cfg config.TLSConfig, logger *errors.Logger) (*CertReloader, error) {
	if logger == nil {
		logger = errors.Discard()
	}
	r := &CertReloader{cfg: cfg, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the certificate again. The previous certificate stays active on failure.
func (r *CertReloader) Reload() error {
	cert, err := loadServerCertificate(r.cfg)
	if err == nil {
		err = parseLeaf(&cert)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReload = time.Now()
	if err != nil {
		r.failures++
		r.lastError = err.Error()
		r.logger.LogError(err, "Failed to load TLS certificate")
		return err
	}

	r.cert.Store(&cert)
	r.reloads++
	r.lastError = ""
	r.certNotAfter = cert.Leaf.NotAfter
	r.logger.Info("TLS certificate loaded",
		"subject", cert.Leaf.Subject.CommonName,
		"not_after", cert.Leaf.NotAfter)
	return nil
}

// GetCertificate implements tls.Config.GetCertificate
func (r *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.cert.Load()
	if cert == nil {
		return nil, fmt.Errorf("no TLS certificate loaded")
	}
	return cert, nil
}

// Watch reloads the certificate whenever its files change.
// Certificates given as inline content have nothing to watch.
func (r *CertReloader) Watch(debounce time.Duration) error {
	if certSource(r.cfg) == "content" {
		r.logger.Info("TLS certificate loaded from content, file watching skipped")
		return nil
	}

	watcher := NewCertWatcher([]string{r.cfg.CertFile, r.cfg.KeyFile}, debounce, func() {
		_ = r.Reload()
	}, r.logger)
	if err := watcher.Start(); err != nil {
		return err
	}

	r.mu.Lock()
	r.watcher = watcher
	r.mu.Unlock()
	return nil
}

// Stop stops the file watcher if one is running
func (r *CertReloader) Stop() error {
	r.mu.Lock()
	watcher := r.watcher
	r.watcher = nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	return watcher.Stop()
}

// Status describes the loaded certificate and reload history
func (r *CertReloader) Status() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := map[string]any{
		"not_after":    r.certNotAfter,
		"expires_in":   time.Until(r.certNotAfter).Round(time.Minute).String(),
		"reload_count": r.reloads,
		"failures":     r.failures,
		"last_reload":  r.lastReload,
		"auto_reload":  r.watcher != nil && r.watcher.IsRunning(),
		"healthy":      time.Now().Before(r.certNotAfter),
		"last_error":   r.lastError,
		"source":       certSource(r.cfg),
	}
	if r.watcher != nil {
		status["watched_files"] = r.watcher.GetWatchedFiles()
	}
	return status
}

func certSource(cfg config.TLSConfig) string {
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		return "content"
	}
	return "files"
}

// loadServerCertificate loads the server certificate from content or files
func loadServerCertificate(cfg config.TLSConfig) (tls.Certificate, error) {
	if cfg.CertContent != "" && cfg.KeyContent != "" {
		cert, err := tls.X509KeyPair([]byte(cfg.CertContent), []byte(cfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	}

	return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
}

func parseLeaf(cert *tls.Certificate) error {
	if cert.Leaf != nil {
		return nil
	}
	if len(cert.Certificate) == 0 {
		return fmt.Errorf("certificate chain is empty")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	cert.Leaf = leaf
	return nil
}
