package credential

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openphr/go-phr/pkg/envelope"
	"github.com/openphr/go-phr/pkg/response"
)

// fakeInvoker plays the platform side of the session bootstrap.
type fakeInvoker struct {
	t            *testing.T
	appSecret    []byte
	sharedSecret []byte
	token        string

	calls    int
	lastInfo []byte
}

func (f *fakeInvoker) InvokeAnonymous(ctx context.Context, method string, version int, info []byte) (*response.Response, error) {
	f.calls++
	f.lastInfo = info

	require.Equal(f.t, MethodCreateSessionToken, method)
	require.Equal(f.t, 1, version)

	// Verify the content signature the way the platform would.
	doc := etree.NewDocument()
	require.NoError(f.t, doc.ReadFromBytes(info))
	content := doc.FindElement("//credential/appserver/content")
	require.NotNil(f.t, content)

	canonical, err := envelope.Canonicalize(content)
	require.NoError(f.t, err)

	mac := hmac.New(sha256.New, f.appSecret)
	mac.Write([]byte(canonical))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	sig := doc.FindElement("//credential/appserver/sig")
	require.NotNil(f.t, sig)
	require.Equal(f.t, want, sig.Text(), "content signature must verify with the app secret")

	body := fmt.Sprintf(
		`<phr:response xmlns:phr="urn:org.openphr.response"><status><code>0</code></status><info><token>%s</token><shared-secret>%s</shared-secret></info></phr:response>`,
		f.token, base64.StdEncoding.EncodeToString(f.sharedSecret),
	)
	return response.Parse([]byte(body))
}

func TestSessionCredential_Authenticate(t *testing.T) {
	secret := []byte("app-secret")
	inv := &fakeInvoker{
		t:            t,
		appSecret:    secret,
		sharedSecret: []byte("shared-secret-from-platform"),
		token:        "session-token-1",
	}

	cred := NewSessionCredential("app-1", secret)
	require.Empty(t, cred.SessionToken())
	require.Nil(t, cred.Signer())

	require.NoError(t, cred.Authenticate(context.Background(), inv))

	assert.Equal(t, "session-token-1", cred.SessionToken())
	require.NotNil(t, cred.Signer())
	assert.Equal(t, "HMACSHA256", cred.Signer().Algorithm())

	// Signing is deterministic for a fixed session.
	sig1, err := cred.Signer().Sign([]byte("<header/>"))
	require.NoError(t, err)
	sig2, err := cred.Signer().Sign([]byte("<header/>"))
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, sha256.Size)
}

func TestSessionCredential_AuthenticateIdempotent(t *testing.T) {
	secret := []byte("app-secret")
	inv := &fakeInvoker{t: t, appSecret: secret, sharedSecret: []byte("s"), token: "tok"}

	cred := NewSessionCredential("app-1", secret)
	require.NoError(t, cred.Authenticate(context.Background(), inv))
	require.NoError(t, cred.Authenticate(context.Background(), inv))

	assert.Equal(t, 1, inv.calls, "held session must not trigger a second round trip")
}

func TestSessionCredential_Reset(t *testing.T) {
	secret := []byte("app-secret")
	inv := &fakeInvoker{t: t, appSecret: secret, sharedSecret: []byte("s"), token: "tok"}

	cred := NewSessionCredential("app-1", secret)
	require.NoError(t, cred.Authenticate(context.Background(), inv))

	cred.Reset()
	assert.Empty(t, cred.SessionToken())
	assert.Nil(t, cred.Signer())

	require.NoError(t, cred.Authenticate(context.Background(), inv))
	assert.Equal(t, 2, inv.calls)
}

func TestSessionCredential_DistinctKeysPerToken(t *testing.T) {
	shared := []byte("same-shared-secret")

	key1, err := deriveSessionKey(shared, "token-a")
	require.NoError(t, err)
	key2, err := deriveSessionKey(shared, "token-b")
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
	assert.Len(t, key1, sessionKeySize)
}

func TestSessionCredential_Validation(t *testing.T) {
	err := NewSessionCredential("", []byte("s")).Authenticate(context.Background(), nil)
	assert.Error(t, err)

	err = NewSessionCredential("app-1", nil).Authenticate(context.Background(), nil)
	assert.Error(t, err)
}

func TestAnonymous(t *testing.T) {
	cred := Anonymous{}
	assert.NoError(t, cred.Authenticate(context.Background(), nil))
	assert.Empty(t, cred.SessionToken())
	assert.Nil(t, cred.Signer())
	cred.Reset()
}
