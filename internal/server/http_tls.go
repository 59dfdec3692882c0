package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// TLS modes accepted in server.tls.mode
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
)

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case TLSModeServer:
		fmt.Printf("Starting server with HTTPS on https://%s\n", addr)
		tlsConfig, err := s.buildTLSConfig()
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
		return nil
	case "", TLSModeDisabled:
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}
}

// buildTLSConfig loads the server certificate behind a reloader and applies version and cipher settings
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	reloader, err := NewCertReloader(s.TLSConfig, s.Logger)
	if err != nil {
		return nil, err
	}

	if s.TLSConfig.AutoReload.Enabled {
		if err := reloader.Watch(s.TLSConfig.AutoReload.DebounceDelay); err != nil {
			return nil, fmt.Errorf("failed to start certificate watcher: %w", err)
		}
		fmt.Println("TLS auto-reload: ENABLED (watching certificate files)")
	}
	s.certReloader = reloader

	tlsConfig := &tls.Config{
		GetCertificate: reloader.GetCertificate,
		ClientAuth:     tls.NoClientCert,
	}
	s.configureTLSVersion(tlsConfig)
	s.configureCipherSuites(tlsConfig)

	return tlsConfig, nil
}

// configureTLSVersion sets the minimum TLS version
func (s *Server) configureTLSVersion(tlsConfig *tls.Config) {
	switch s.TLSConfig.MinVersion {
	case "1.3":
		tlsConfig.MinVersion = tls.VersionTLS13
	default:
		tlsConfig.MinVersion = tls.VersionTLS12
	}
}

// configureCipherSuites configures the cipher suites if specified. Unknown names are skipped.
func (s *Server) configureCipherSuites(tlsConfig *tls.Config) {
	if len(s.TLSConfig.CipherSuites) == 0 {
		return
	}

	cipherSuites := make([]uint16, 0, len(s.TLSConfig.CipherSuites))
	for _, suite := range s.TLSConfig.CipherSuites {
		if cipherID := getCipherSuiteID(suite); cipherID != 0 {
			cipherSuites = append(cipherSuites, cipherID)
		} else {
			s.Logger.Warn("Ignoring unknown cipher suite", "suite", suite)
		}
	}
	tlsConfig.CipherSuites = cipherSuites
}

// getCipherSuiteID returns the ID of a secure cipher suite by name, or 0
func getCipherSuiteID(name string) uint16 {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID
		}
	}
	return 0
}
