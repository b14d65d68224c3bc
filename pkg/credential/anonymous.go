package credential

import (
	"context"

	"github.com/openphr/go-phr/pkg/envelope"
)

// Anonymous sends every request without an auth section. Only methods
// the platform exposes anonymously (service definition, session
// bootstrap) will accept such requests.
type Anonymous struct{}

func (Anonymous) Authenticate(ctx context.Context, inv Invoker) error { return nil }

func (Anonymous) SessionToken() string { return "" }

func (Anonymous) Signer() envelope.HeaderSigner { return nil }

func (Anonymous) Reset() {}
