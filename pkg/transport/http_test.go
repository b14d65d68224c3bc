package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("expected non-nil config")
	}

	if config.MinTLSVersion != TLS12 {
		t.Errorf("expected MinTLSVersion TLS12, got %d", config.MinTLSVersion)
	}
	if config.MaxTLSVersion != TLS13 {
		t.Errorf("expected MaxTLSVersion TLS13, got %d", config.MaxTLSVersion)
	}
	if len(config.CipherSuites) == 0 {
		t.Error("expected CipherSuites to be set")
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", config.Timeout)
	}
	if config.IdleConnTimeout != 90*time.Second {
		t.Errorf("expected IdleConnTimeout 90s, got %v", config.IdleConnTimeout)
	}
}

func TestNewClient_NilConfig(t *testing.T) {
	client := NewClient(nil)

	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.client == nil {
		t.Error("expected http.Client to be initialized")
	}
	if client.config == nil {
		t.Error("expected config to be set to default")
	}
}

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != ContentType {
			t.Errorf("expected content-type %q, got %q", ContentType, ct)
		}
		if r.Header.Get("User-Agent") != "go-phr/1.0" {
			t.Errorf("expected User-Agent 'go-phr/1.0'")
		}
		if r.Header.Get("X-Correlation-Id") != "corr-1" {
			t.Errorf("expected correlation id header")
		}

		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<response/>"))
	}))
	defer server.Close()

	client := NewClient(nil)

	body, err := client.Do(context.Background(), &Request{
		Endpoint:      server.URL,
		Body:          []byte("<request/>"),
		CorrelationID: "corr-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<response/>" {
		t.Errorf("unexpected response: %s", string(body))
	}
}

func TestClient_Do_ContentEncodingHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if enc := r.Header.Get("Content-Encoding"); enc != "gzip" {
			t.Errorf("expected Content-Encoding gzip, got %q", enc)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<response/>"))
	}))
	defer server.Close()

	client := NewClient(nil)

	_, err := client.Do(context.Background(), &Request{
		Endpoint:        server.URL,
		Body:            []byte{0x1f, 0x8b},
		ContentEncoding: "gzip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_GzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write([]byte("<response>payload</response>"))
		gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := NewClient(nil)

	body, err := client.Do(context.Background(), &Request{
		Endpoint: server.URL,
		Body:     []byte("<request/>"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<response>payload</response>" {
		t.Errorf("unexpected decoded response: %s", string(body))
	}
}

func TestClient_Do_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(nil)

	_, err := client.Do(context.Background(), &Request{Endpoint: server.URL, Body: []byte("<request/>")})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", httpErr.StatusCode)
	}
	if !httpErr.Transient() {
		t.Error("expected 500 to be transient")
	}
}

func TestHTTPError_Transient(t *testing.T) {
	if (&HTTPError{StatusCode: 400}).Transient() {
		t.Error("expected 400 to be permanent")
	}
	if !(&HTTPError{StatusCode: 503}).Transient() {
		t.Error("expected 503 to be transient")
	}
}

func TestClient_Do_InvalidURL(t *testing.T) {
	client := NewClient(nil)

	_, err := client.Do(context.Background(), &Request{Endpoint: "http://invalid.invalid.invalid:99999", Body: []byte("<request/>")})
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second) // Simulate slow response
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&Config{
		Timeout: 10 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.Do(ctx, &Request{Endpoint: server.URL, Body: []byte("<request/>")})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
