package hue

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jmylchreest/hued/internal/errors"
)

const applicationKeyHeader = "hue-application-key"

// NewHTTPClient builds a client for talking to bridges. Bridges are addressed
// by IP and present certificates issued for their bridge ID, so when a CA
// bundle is given the chain is verified without matching the host name.
// Sessions opened with WithCAFile also require the certificate common name to
// match the bridge ID. An empty caFile disables verification.
func NewHTTPClient(caFile string, timeout time.Duration, logger *slog.Logger) (*http.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		// Verification is done in VerifyPeerCertificate below
		InsecureSkipVerify: true, //nolint:gosec
	}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", caFile)
		}
		tlsConfig.VerifyPeerCertificate = verifyChain(pool)
	} else {
		logger.Warn("bridge: no CA bundle configured, certificate verification disabled")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// verifyChain checks the presented chain against roots, ignoring the host name
func verifyChain(roots *x509.CertPool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("bridge presented no certificate")
		}
		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("failed to parse bridge certificate: %w", err)
			}
			certs = append(certs, cert)
		}
		intermediates := x509.NewCertPool()
		for _, cert := range certs[1:] {
			intermediates.AddCert(cert)
		}
		_, err := certs[0].Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
		})
		return err
	}
}

// leafCommonName returns the common name of the certificate the peer presented
func leafCommonName(state *tls.ConnectionState) (string, error) {
	if state == nil || len(state.PeerCertificates) == 0 {
		return "", fmt.Errorf("bridge presented no certificate")
	}
	return state.PeerCertificates[0].Subject.CommonName, nil
}

// matchBridgeID returns a check that the peer certificate was issued for id.
// Bridge IDs are compared case-insensitively.
func matchBridgeID(id string) func(*tls.ConnectionState) error {
	return func(state *tls.ConnectionState) error {
		cn, err := leafCommonName(state)
		if err != nil {
			return err
		}
		if !strings.EqualFold(cn, id) {
			return fmt.Errorf("certificate issued for %q, not bridge %s", cn, id)
		}
		return nil
	}
}

// transport performs JSON requests against one bridge
type transport struct {
	host   string
	client *http.Client
	logger *slog.Logger
	// verifyPeer, when set, inspects the TLS state of every response
	verifyPeer func(*tls.ConnectionState) error
}

func (t *transport) url(path string) string {
	return fmt.Sprintf("https://%s/%s", t.host, strings.TrimPrefix(path, "/"))
}

// do sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil). An empty key sends an unauthenticated request.
func (t *transport) do(ctx context.Context, method, path, key string, body, out any) error {
	url := t.url(path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(applicationKeyHeader, key)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("bridge: request failed", "method", method, "url", url, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, url, ErrConnection, err)
	}
	defer resp.Body.Close()

	if t.verifyPeer != nil {
		if err := t.verifyPeer(resp.TLS); err != nil {
			t.logger.Error("bridge: certificate rejected", "method", method, "url", url, "error", err)
			return fmt.Errorf("%s %s: %w: %w", method, url, ErrConnection, err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: status %d: %w", method, url, resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFoundf("%s %s", method, url)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.logger.Error("bridge: decode failed", "method", method, "url", url, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, url, ErrUnexpected, err)
	}

	t.logger.Debug("bridge: response", "method", method, "url", url, "status", resp.StatusCode)
	return nil
}

// StatusError is returned for non-success responses the client has no
// specific mapping for.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d, body: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Unwrap reports the status error as an unexpected response
func (e *StatusError) Unwrap() error { return ErrUnexpected }
