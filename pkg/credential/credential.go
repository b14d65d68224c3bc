package credential

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"

	"github.com/openphr/go-phr/pkg/envelope"
	"github.com/openphr/go-phr/pkg/response"
)

// Invoker executes anonymous platform methods. It is implemented by
// connection.Connection and passed back to credentials so they can run
// their token-acquisition round trip without a circular dependency.
type Invoker interface {
	InvokeAnonymous(ctx context.Context, method string, version int, info []byte) (*response.Response, error)
}

// Credential authorizes platform requests.
type Credential interface {
	// Authenticate establishes an auth session. It is a no-op when a
	// session is already held or the credential is anonymous.
	Authenticate(ctx context.Context, inv Invoker) error

	// SessionToken returns the current auth session token, or "" when
	// no session is held.
	SessionToken() string

	// Signer returns the header signer for the current session, or nil
	// when requests should be sent anonymously.
	Signer() envelope.HeaderSigner

	// Reset drops the current session so the next Authenticate acquires
	// a fresh token. Called after the platform reports token expiry.
	Reset()
}

// hmacSigner signs header bytes with HMAC-SHA256.
type hmacSigner struct {
	key []byte
}

func (s hmacSigner) Algorithm() string { return "HMACSHA256" }

func (s hmacSigner) Sign(data []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return mac.Sum(nil), nil
}
