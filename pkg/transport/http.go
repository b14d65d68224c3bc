package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openphr/go-phr/pkg/compression"
)

// TLS version constants
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// ContentType is the content type of every platform request.
const ContentType = "text/xml; charset=utf-8"

// userAgent identifies the SDK to the platform.
const userAgent = "go-phr/1.0"

// Recommended TLS 1.2 cipher suites for platform connections
var RecommendedTLS12CipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

// Config contains HTTP client configuration
type Config struct {
	MinTLSVersion   uint16
	MaxTLSVersion   uint16
	CipherSuites    []uint16
	Certificates    []tls.Certificate
	RootCAs         *x509.CertPool
	Timeout         time.Duration
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a default transport configuration
func DefaultConfig() *Config {
	return &Config{
		MinTLSVersion:   TLS12,
		MaxTLSVersion:   TLS13,
		CipherSuites:    RecommendedTLS12CipherSuites,
		Timeout:         30 * time.Second,
		IdleConnTimeout: 90 * time.Second,
	}
}

// HTTPError is returned for non-2xx responses from the platform endpoint.
// These are HTTP-level failures; platform faults arrive inside a 200
// response and are parsed by the response package.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("phr: unexpected status code %d: %s", e.StatusCode, string(e.Body))
}

// Transient reports whether the failure is server-side and worth retrying.
func (e *HTTPError) Transient() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Request describes one envelope POST.
type Request struct {
	Endpoint string
	Body     []byte

	// ContentEncoding is set when Body has been compressed.
	ContentEncoding string

	// CorrelationID is propagated to the platform for server-side tracing.
	CorrelationID string
}

// Client handles envelope transmission over HTTP(S)
type Client struct {
	client     *http.Client
	config     *Config
	compressor *compression.Compressor
}

// NewClient creates a new transport client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	tlsConfig := &tls.Config{
		MinVersion:   config.MinTLSVersion,
		MaxVersion:   config.MaxTLSVersion,
		CipherSuites: config.CipherSuites,
		Certificates: config.Certificates,
		RootCAs:      config.RootCAs,
	}

	transport := &http.Transport{
		TLSClientConfig:     tlsConfig,
		IdleConnTimeout:     config.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config:     config,
		compressor: compression.NewCompressor(),
	}
}

// Do posts a request envelope and returns the decoded response body.
func (c *Client) Do(ctx context.Context, req *Request) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", ContentType)
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept-Encoding", compression.EncodingGzip+", "+compression.EncodingDeflate)
	if req.ContentEncoding != "" {
		httpReq.Header.Set("Content-Encoding", req.ContentEncoding)
	}
	if req.CorrelationID != "" {
		httpReq.Header.Set("X-Correlation-Id", req.CorrelationID)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	decoded, err := c.compressor.Decode(resp.Header.Get("Content-Encoding"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return decoded, nil
}
