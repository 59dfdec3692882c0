package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumescan/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfSigned returns PEM encoded certificate and key for commonName
func selfSigned(t *testing.T, commonName string, serial int64) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{commonName},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

// writePair writes a certificate pair and pushes its mtime forward so change detection sees it
func writePair(t *testing.T, certFile, keyFile, commonName string, serial int64, mtime time.Time) {
	t.Helper()
	certPEM, keyPEM := selfSigned(t, commonName, serial)
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0600))
	require.NoError(t, os.WriteFile(certFile, certPEM, 0600))
	require.NoError(t, os.Chtimes(keyFile, mtime, mtime))
	require.NoError(t, os.Chtimes(certFile, mtime, mtime))
}

func servedSerial(t *testing.T, r *CertReloader) int64 {
	t.Helper()
	cert, err := r.GetCertificate(nil)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)
	return cert.Leaf.SerialNumber.Int64()
}

func TestCertReloader(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	writePair(t, certFile, keyFile, "one.test", 1, time.Now())

	r, err := NewCertReloader(config.TLSConfig{CertFile: certFile, KeyFile: keyFile}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), servedSerial(t, r))

	t.Run("reload swaps certificate", func(t *testing.T) {
		writePair(t, certFile, keyFile, "two.test", 2, time.Now().Add(time.Minute))
		require.NoError(t, r.Reload())
		assert.Equal(t, int64(2), servedSerial(t, r))
	})

	t.Run("failed reload keeps previous certificate", func(t *testing.T) {
		require.NoError(t, os.WriteFile(certFile, []byte("garbage"), 0600))
		assert.Error(t, r.Reload())
		assert.Equal(t, int64(2), servedSerial(t, r))

		status := r.Status()
		assert.Equal(t, 1, status["failures"])
		assert.Equal(t, 2, status["reload_count"])
		assert.NotEmpty(t, status["last_error"])
		assert.Equal(t, true, status["healthy"])
		assert.Equal(t, "files", status["source"])
	})
}

func TestCertReloaderFromContent(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, "content.test", 7)
	r, err := NewCertReloader(config.TLSConfig{CertContent: string(certPEM), KeyContent: string(keyPEM)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), servedSerial(t, r))

	// inline certificates are not watched
	require.NoError(t, r.Watch(time.Millisecond))
	assert.Equal(t, false, r.Status()["auto_reload"])
	assert.Equal(t, "content", r.Status()["source"])
	assert.NoError(t, r.Stop())
}

func TestCertReloaderRequiresCertificate(t *testing.T) {
	_, err := NewCertReloader(config.TLSConfig{}, nil)
	assert.ErrorContains(t, err, "TLS certificate and key are required")

	_, err = NewCertReloader(config.TLSConfig{CertFile: "missing.crt", KeyFile: "missing.key"}, nil)
	assert.ErrorContains(t, err, "failed to load server cert/key from files")
}

func TestCertWatcherTriggersReload(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	writePair(t, certFile, keyFile, "one.test", 1, time.Now())

	r, err := NewCertReloader(config.TLSConfig{CertFile: certFile, KeyFile: keyFile}, nil)
	require.NoError(t, err)
	require.NoError(t, r.Watch(100*time.Millisecond))
	defer func() { assert.NoError(t, r.Stop()) }()

	status := r.Status()
	assert.Equal(t, true, status["auto_reload"])
	assert.ElementsMatch(t, []string{certFile, keyFile}, status["watched_files"])

	writePair(t, certFile, keyFile, "two.test", 2, time.Now().Add(time.Minute))
	assert.Eventually(t, func() bool {
		cert, err := r.GetCertificate(nil)
		return err == nil && cert.Leaf.SerialNumber.Int64() == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCertWatcherLifecycle(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "server.crt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	cw := NewCertWatcher([]string{file, ""}, 0, func() {}, nil)
	assert.Equal(t, time.Second, cw.debounceDelay)
	assert.Equal(t, []string{file}, cw.GetWatchedFiles())

	require.NoError(t, cw.Start())
	assert.True(t, cw.IsRunning())
	assert.Error(t, cw.Start(), "double start")

	require.NoError(t, cw.Stop())
	assert.False(t, cw.IsRunning())
	assert.NoError(t, cw.Stop())
}

func TestConfigureTLS(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	writePair(t, certFile, keyFile, "localhost", 3, time.Now())

	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(ServerConfig{TLSConfig: config.TLSConfig{Mode: TLSModeDisabled}})
		httpServer := &http.Server{Addr: "127.0.0.1:0"}
		require.NoError(t, s.configureTLS(httpServer))
		assert.Nil(t, httpServer.TLSConfig)
		assert.Nil(t, s.certReloader)
	})

	t.Run("server", func(t *testing.T) {
		s := newTestServer(ServerConfig{TLSConfig: config.TLSConfig{
			Mode:         TLSModeServer,
			CertFile:     certFile,
			KeyFile:      keyFile,
			MinVersion:   "1.3",
			CipherSuites: []string{"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", "NOT_A_SUITE"},
		}})
		httpServer := &http.Server{Addr: "127.0.0.1:0"}
		require.NoError(t, s.configureTLS(httpServer))
		defer s.cleanup()

		require.NotNil(t, httpServer.TLSConfig)
		assert.Equal(t, uint16(tls.VersionTLS13), httpServer.TLSConfig.MinVersion)
		assert.Equal(t, []uint16{tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256}, httpServer.TLSConfig.CipherSuites)

		cert, err := httpServer.TLSConfig.GetCertificate(&tls.ClientHelloInfo{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), cert.Leaf.SerialNumber.Int64())
		assert.NotNil(t, s.certReloader)
	})

	t.Run("server without certificate", func(t *testing.T) {
		s := newTestServer(ServerConfig{TLSConfig: config.TLSConfig{Mode: TLSModeServer}})
		assert.Error(t, s.configureTLS(&http.Server{}))
	})

	t.Run("unknown mode", func(t *testing.T) {
		s := newTestServer(ServerConfig{TLSConfig: config.TLSConfig{Mode: "mutual"}})
		assert.ErrorContains(t, s.configureTLS(&http.Server{}), "invalid TLS mode")
	})
}
