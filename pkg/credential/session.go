package credential

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/crypto/hkdf"

	"github.com/openphr/go-phr/pkg/envelope"
)

// MethodCreateSessionToken is the anonymous platform method that issues
// auth session tokens.
const MethodCreateSessionToken = "CreateAuthenticatedSessionToken"

// sessionKeyInfo is the HKDF info string binding derived keys to their
// purpose.
const sessionKeyInfo = "org.openphr session key"

// sessionKeySize is the derived HMAC key length in bytes.
const sessionKeySize = 32

// SessionCredential authenticates an application with its pre-shared
// secret and signs requests with a session key derived from the shared
// secret the platform returns.
//
// It is safe for concurrent use; the connection may re-authenticate from
// one request while others read the session state.
type SessionCredential struct {
	appID     string
	appSecret []byte

	mu         sync.RWMutex
	token      string
	sessionKey []byte
}

// NewSessionCredential creates a credential for the given application ID
// and pre-shared application secret.
func NewSessionCredential(appID string, appSecret []byte) *SessionCredential {
	return &SessionCredential{
		appID:     appID,
		appSecret: appSecret,
	}
}

// Authenticate performs the CreateAuthenticatedSessionToken round trip
// if no session is held.
func (c *SessionCredential) Authenticate(ctx context.Context, inv Invoker) error {
	if c.appID == "" {
		return fmt.Errorf("phr: application ID is required")
	}
	if len(c.appSecret) == 0 {
		return fmt.Errorf("phr: application secret is required")
	}

	c.mu.RLock()
	held := c.token != ""
	c.mu.RUnlock()
	if held {
		return nil
	}

	info, err := c.buildAuthInfo(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("building auth info: %w", err)
	}

	resp, err := inv.InvokeAnonymous(ctx, MethodCreateSessionToken, 1, info)
	if err != nil {
		return fmt.Errorf("creating session token: %w", err)
	}

	var result struct {
		Token        string `xml:"token"`
		SharedSecret string `xml:"shared-secret"`
	}
	if err := resp.Unmarshal(&result); err != nil {
		return fmt.Errorf("parsing session token response: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("phr: platform returned an empty session token")
	}

	sharedSecret, err := base64.StdEncoding.DecodeString(result.SharedSecret)
	if err != nil {
		return fmt.Errorf("decoding shared secret: %w", err)
	}

	key, err := deriveSessionKey(sharedSecret, result.Token)
	if err != nil {
		return fmt.Errorf("deriving session key: %w", err)
	}

	c.mu.Lock()
	c.token = result.Token
	c.sessionKey = key
	c.mu.Unlock()

	return nil
}

// buildAuthInfo constructs the CreateAuthenticatedSessionToken info
// section. The content block is canonicalized and signed with the
// application secret to prove possession.
func (c *SessionCredential) buildAuthInfo(signingTime time.Time) ([]byte, error) {
	authInfo := etree.NewElement("auth-info")
	authInfo.CreateElement("app-id").SetText(c.appID)

	appServer := authInfo.CreateElement("credential").CreateElement("appserver")

	content := appServer.CreateElement("content")
	content.CreateElement("app-id").SetText(c.appID)
	content.CreateElement("sig-alg").SetText("HMACSHA256")
	content.CreateElement("signing-time").SetText(signingTime.Format(time.RFC3339))

	canonical, err := envelope.Canonicalize(content)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, c.appSecret)
	mac.Write([]byte(canonical))

	sig := appServer.CreateElement("sig")
	sig.CreateAttr("algName", "HMACSHA256")
	sig.SetText(base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	doc := etree.NewDocument()
	doc.AddChild(authInfo)
	return doc.WriteToBytes()
}

// SessionToken returns the current auth session token.
func (c *SessionCredential) SessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Signer returns the session header signer, or nil before Authenticate.
func (c *SessionCredential) Signer() envelope.HeaderSigner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sessionKey == nil {
		return nil
	}
	return hmacSigner{key: c.sessionKey}
}

// Reset drops the session state.
func (c *SessionCredential) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.sessionKey = nil
}

// deriveSessionKey derives the HMAC signing key from the shared secret,
// salted with the token so each session signs with a distinct key even
// if the platform reuses secrets.
func deriveSessionKey(sharedSecret []byte, token string) ([]byte, error) {
	reader := hkdf.New(sha256.New, sharedSecret, []byte(token), []byte(sessionKeyInfo))
	key := make([]byte, sessionKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
