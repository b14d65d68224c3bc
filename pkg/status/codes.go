// Package status defines the numeric status codes returned by the platform
// in every method response.
package status

import "fmt"

// Code is the platform status code carried in the response status element.
// Zero means success; every other value identifies a specific failure.
type Code int

// Platform status codes.
const (
	OK                      Code = 0
	Failed                  Code = 1
	BadHTTP                 Code = 2
	InvalidXML              Code = 3
	BadSignature            Code = 4
	BadMethodName           Code = 5
	InvalidApp              Code = 6
	CredentialTokenExpired  Code = 7
	InvalidToken            Code = 8
	InvalidPerson           Code = 9
	InvalidRecord           Code = 10
	AccessDenied            Code = 11
	InvalidRequestIntegrity Code = 12
	RequestTimedOut         Code = 49
	AuthSessionTokenExpired Code = 65
)

var codeNames = map[Code]string{
	OK:                      "OK",
	Failed:                  "Failed",
	BadHTTP:                 "BadHTTP",
	InvalidXML:              "InvalidXML",
	BadSignature:            "BadSignature",
	BadMethodName:           "BadMethodName",
	InvalidApp:              "InvalidApp",
	CredentialTokenExpired:  "CredentialTokenExpired",
	InvalidToken:            "InvalidToken",
	InvalidPerson:           "InvalidPerson",
	InvalidRecord:           "InvalidRecord",
	AccessDenied:            "AccessDenied",
	InvalidRequestIntegrity: "InvalidRequestIntegrity",
	RequestTimedOut:         "RequestTimedOut",
	AuthSessionTokenExpired: "AuthSessionTokenExpired",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// TokenExpired reports whether the code indicates an expired credential or
// auth session token. These faults are recoverable by re-authenticating
// and replaying the request once.
func (c Code) TokenExpired() bool {
	return c == CredentialTokenExpired || c == AuthSessionTokenExpired
}

// Transient reports whether the code indicates a server-side condition
// worth retrying without changing the request.
func (c Code) Transient() bool {
	return c == RequestTimedOut
}
