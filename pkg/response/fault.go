package response

import (
	"errors"
	"fmt"

	"github.com/openphr/go-phr/pkg/status"
)

// ServerContext identifies where a fault originated inside the platform.
type ServerContext struct {
	ServerName string
	ServerIP   string
	Exception  string
}

// Error is a structured platform fault. It carries the numeric status
// code, the fault message, and the server context block when present.
type Error struct {
	Code      status.Code
	Message   string
	Context   *ServerContext
	ErrorInfo string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("phr: platform error %d (%s): %s", int(e.Code), e.Code, e.Message)
	}
	return fmt.Sprintf("phr: platform error %d (%s)", int(e.Code), e.Code)
}

// TokenExpired reports whether re-authenticating and replaying the
// request once may succeed.
func (e *Error) TokenExpired() bool {
	return e.Code.TokenExpired()
}

// IsTokenExpired reports whether err is a platform fault caused by an
// expired credential or auth session token.
func IsTokenExpired(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.TokenExpired()
}

// IsAccessDenied reports whether err is a platform authorization fault.
func IsAccessDenied(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == status.AccessDenied
}
