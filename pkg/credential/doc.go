// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package credential provides the credentials the connection uses to
authorize platform requests.

A Credential can establish an auth session against the platform and
supply the header signer for outgoing requests. The connection drives
authentication lazily and re-authenticates once when the platform
reports an expired auth session token.

SessionCredential is the standard application credential: it calls the
anonymous CreateAuthenticatedSessionToken method, proves possession of
the application secret with an HMAC over the request content, and
derives the session signing key from the shared secret the platform
returns. Anonymous is for methods that require no authentication.

Certificate- and HSM-backed credentials are deliberately out of scope;
they plug in behind the same Credential interface.
*/
package credential
