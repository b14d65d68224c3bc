package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openphr/go-phr/pkg/compression"
	"github.com/openphr/go-phr/pkg/config"
	"github.com/openphr/go-phr/pkg/credential"
	"github.com/openphr/go-phr/pkg/envelope"
	"github.com/openphr/go-phr/pkg/response"
	"github.com/openphr/go-phr/pkg/transport"
)

// Sentinel errors for common misconfiguration.
var (
	ErrNoEndpoint   = errors.New("phr: no endpoint configured")
	ErrNoCredential = errors.New("phr: no credential configured")
)

// Config holds connection configuration
type Config struct {
	// Endpoint is the platform service URL.
	Endpoint string

	// Language and Country are propagated in every request header.
	Language string
	Country  string

	// RequestTTL is serialized as msg-ttl.
	RequestTTL time.Duration

	// RetryAttempts is the total number of HTTP attempts per request,
	// including the first. Only transient (5xx) failures are retried.
	RetryAttempts int
	// RetryBackoff is the delay before the second attempt; it grows by
	// RetryMultiplier for each further attempt.
	RetryBackoff    time.Duration
	RetryMultiplier float64

	// CompressionThreshold is the envelope size in bytes at which gzip
	// request compression kicks in. Zero disables it.
	CompressionThreshold int
}

// DefaultConfig returns sensible defaults; Endpoint must still be set.
func DefaultConfig() *Config {
	return &Config{
		Language:             "en",
		Country:              "US",
		RequestTTL:           envelope.DefaultTTL,
		RetryAttempts:        3,
		RetryBackoff:         500 * time.Millisecond,
		RetryMultiplier:      2.0,
		CompressionThreshold: compression.DefaultThreshold,
	}
}

// Option represents a functional option for the Connection
type Option func(*Connection)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithTransport replaces the default HTTP transport client.
func WithTransport(client *transport.Client) Option {
	return func(c *Connection) {
		c.transport = client
	}
}

// Connection is the main client for platform method calls
type Connection struct {
	cfg        *Config
	cred       credential.Credential
	transport  *transport.Client
	compressor *compression.Compressor
	logger     *slog.Logger
}

// New creates a connection for the given configuration and credential.
func New(cfg *Config, cred credential.Credential, opts ...Option) (*Connection, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if cred == nil {
		return nil, ErrNoCredential
	}

	defaults := DefaultConfig()
	resolved := *cfg
	if resolved.Language == "" {
		resolved.Language = defaults.Language
	}
	if resolved.Country == "" {
		resolved.Country = defaults.Country
	}
	if resolved.RequestTTL == 0 {
		resolved.RequestTTL = defaults.RequestTTL
	}
	if resolved.RetryAttempts == 0 {
		resolved.RetryAttempts = defaults.RetryAttempts
	}
	if resolved.RetryBackoff == 0 {
		resolved.RetryBackoff = defaults.RetryBackoff
	}
	if resolved.RetryMultiplier == 0 {
		resolved.RetryMultiplier = defaults.RetryMultiplier
	}

	conn := &Connection{
		cfg:        &resolved,
		cred:       cred,
		compressor: compression.NewCompressor(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(conn)
	}

	if conn.transport == nil {
		conn.transport = transport.NewClient(nil)
	}

	return conn, nil
}

// NewFromConfig creates a connection from a loaded configuration file.
func NewFromConfig(cfg *config.Config, cred credential.Credential, opts ...Option) (*Connection, error) {
	if cfg == nil {
		return nil, ErrNoEndpoint
	}

	client := transport.NewClient(&transport.Config{
		MinTLSVersion:   transport.TLS12,
		MaxTLSVersion:   transport.TLS13,
		CipherSuites:    transport.RecommendedTLS12CipherSuites,
		Timeout:         cfg.Transport.Timeout,
		IdleConnTimeout: cfg.Transport.IdleConnTimeout,
	})

	opts = append([]Option{WithTransport(client)}, opts...)

	return New(&Config{
		Endpoint:             cfg.Platform.Endpoint,
		Language:             cfg.Platform.Language,
		Country:              cfg.Platform.Country,
		RequestTTL:           cfg.Platform.RequestTTL,
		RetryAttempts:        cfg.Retry.MaxAttempts,
		RetryBackoff:         cfg.Retry.Backoff,
		RetryMultiplier:      cfg.Retry.Multiplier,
		CompressionThreshold: cfg.Compression.Threshold,
	}, cred, opts...)
}

// CallOption adjusts a single method call.
type CallOption func(*callSettings)

type callSettings struct {
	recordID      string
	personID      string
	correlationID string
}

// WithRecord targets the call at a health record.
func WithRecord(recordID string) CallOption {
	return func(s *callSettings) {
		s.recordID = recordID
	}
}

// WithOfflinePerson targets an offline call at a person instead of a record.
func WithOfflinePerson(personID string) CallOption {
	return func(s *callSettings) {
		s.personID = personID
	}
}

// WithCorrelationID overrides the generated correlation id.
func WithCorrelationID(id string) CallOption {
	return func(s *callSettings) {
		s.correlationID = id
	}
}

// Invoke executes a platform method. The info argument is the inner XML
// of the request's info section; nil is valid for methods without
// parameters.
//
// When the platform reports an expired auth session token, the
// credential is re-authenticated and the request replayed exactly once
// with a freshly built envelope.
func (c *Connection) Invoke(ctx context.Context, method string, version int, info []byte, opts ...CallOption) (*response.Response, error) {
	settings := &callSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.correlationID == "" {
		settings.correlationID = uuid.New().String()
	}

	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	reauthenticated := false
	for {
		resp, err := c.execute(ctx, method, version, info, settings, c.cred.Signer(), c.cred.SessionToken())
		if err == nil {
			return resp, nil
		}

		if response.IsTokenExpired(err) && !reauthenticated {
			reauthenticated = true
			c.logger.Info("auth session expired, re-authenticating",
				"method", method,
				"correlation_id", settings.correlationID,
			)
			c.cred.Reset()
			if authErr := c.cred.Authenticate(ctx, c); authErr != nil {
				return nil, fmt.Errorf("re-authenticating after token expiry: %w", authErr)
			}
			continue
		}

		return nil, err
	}
}

// InvokeAnonymous executes a platform method without an auth section,
// regardless of the connection's credential. It also serves as the
// credential.Invoker the credential uses for its own session bootstrap.
func (c *Connection) InvokeAnonymous(ctx context.Context, method string, version int, info []byte) (*response.Response, error) {
	settings := &callSettings{correlationID: uuid.New().String()}
	return c.execute(ctx, method, version, info, settings, nil, "")
}

// ensureAuthenticated establishes an auth session if the credential
// requires one and none is held.
func (c *Connection) ensureAuthenticated(ctx context.Context) error {
	if c.cred.SessionToken() != "" {
		return nil
	}
	return c.cred.Authenticate(ctx, c)
}

// execute builds and posts a single envelope, retrying transient HTTP
// failures per the retry policy. The envelope is rebuilt on every
// attempt so msg-time and the auth signature stay fresh.
func (c *Connection) execute(ctx context.Context, method string, version int, info []byte, settings *callSettings, signer envelope.HeaderSigner, token string) (*response.Response, error) {
	backoff := c.cfg.RetryBackoff

	for attempt := 1; ; attempt++ {
		body, err := c.marshalRequest(method, version, info, settings, signer, token)
		if err != nil {
			return nil, err
		}

		req := &transport.Request{
			Endpoint:      c.cfg.Endpoint,
			Body:          body,
			CorrelationID: settings.correlationID,
		}

		if compression.AboveThreshold(len(body), c.cfg.CompressionThreshold) {
			compressed, err := c.compressor.Compress(body)
			if err != nil {
				return nil, fmt.Errorf("compressing request: %w", err)
			}
			req.Body = compressed
			req.ContentEncoding = compression.EncodingGzip
		}

		raw, err := c.transport.Do(ctx, req)
		if err != nil {
			var httpErr *transport.HTTPError
			if errors.As(err, &httpErr) && httpErr.Transient() && attempt < c.cfg.RetryAttempts {
				c.logger.Warn("transient failure, retrying",
					"method", method,
					"status", httpErr.StatusCode,
					"attempt", attempt,
					"backoff", backoff,
				)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
				backoff = time.Duration(float64(backoff) * c.cfg.RetryMultiplier)
				continue
			}
			return nil, err
		}

		return response.Parse(raw)
	}
}

func (c *Connection) marshalRequest(method string, version int, info []byte, settings *callSettings, signer envelope.HeaderSigner, token string) ([]byte, error) {
	opts := []envelope.Option{
		envelope.WithCulture(c.cfg.Language, c.cfg.Country),
		envelope.WithTTL(c.cfg.RequestTTL),
		envelope.WithInfo(info),
	}
	if settings.recordID != "" {
		opts = append(opts, envelope.WithRecordID(settings.recordID))
	} else if settings.personID != "" {
		opts = append(opts, envelope.WithPersonID(settings.personID))
	}
	if signer != nil {
		opts = append(opts, envelope.WithAuthToken(token))
	}

	body, err := envelope.NewRequest(method, version, opts...).Marshal(signer)
	if err != nil {
		return nil, fmt.Errorf("building request envelope: %w", err)
	}
	return body, nil
}
