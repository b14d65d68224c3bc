package envelope

import (
	"time"
)

// Namespace constants for the platform request/response protocol.
const (
	NsRequest  = "urn:org.openphr.request"
	NsResponse = "urn:org.openphr.response"
)

// Version is the protocol version string sent in every request header.
const Version = "go-phr/1.0"

// DefaultTTL bounds how long the platform will accept a request after its
// msg-time. Requests older than the TTL are rejected to limit replay.
const DefaultTTL = 9 * time.Minute

// HeaderSigner produces the auth section's keyed signature over the
// canonical header bytes. The credential package provides implementations.
type HeaderSigner interface {
	// Algorithm names the signature algorithm as sent on the wire,
	// e.g. "HMACSHA256".
	Algorithm() string
	Sign(data []byte) ([]byte, error)
}

// Request describes one platform method call before serialization.
type Request struct {
	Method        string
	MethodVersion int

	// RecordID targets a health record. PersonID is its offline
	// counterpart for record-less person operations; RecordID wins when
	// both are set.
	RecordID string
	PersonID string

	// AuthToken is the auth session token embedded in the header for
	// signed requests.
	AuthToken string

	Language string
	Country  string

	// TTL is serialized as msg-ttl in whole seconds.
	TTL time.Duration

	// Timestamp overrides msg-time; zero means time.Now().UTC().
	Timestamp time.Time

	// Info is the inner XML of the info section. Empty produces an
	// empty info element, which still gets hashed.
	Info []byte
}

// Option configures a Request.
type Option func(*Request)

// NewRequest creates a request for the given method and method version.
func NewRequest(method string, version int, opts ...Option) *Request {
	r := &Request{
		Method:        method,
		MethodVersion: version,
		Language:      "en",
		Country:       "US",
		TTL:           DefaultTTL,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithRecordID targets the request at a health record.
func WithRecordID(id string) Option {
	return func(r *Request) {
		r.RecordID = id
	}
}

// WithPersonID targets an offline request at a person instead of a record.
func WithPersonID(id string) Option {
	return func(r *Request) {
		r.PersonID = id
	}
}

// WithAuthToken sets the auth session token for the header.
func WithAuthToken(token string) Option {
	return func(r *Request) {
		r.AuthToken = token
	}
}

// WithCulture sets the language and country header fields.
func WithCulture(language, country string) Option {
	return func(r *Request) {
		r.Language = language
		r.Country = country
	}
}

// WithTTL sets the request time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(r *Request) {
		r.TTL = ttl
	}
}

// WithTimestamp pins msg-time to a fixed instant.
func WithTimestamp(ts time.Time) Option {
	return func(r *Request) {
		r.Timestamp = ts
	}
}

// WithInfo sets the inner XML of the info section.
func WithInfo(info []byte) Option {
	return func(r *Request) {
		r.Info = info
	}
}
