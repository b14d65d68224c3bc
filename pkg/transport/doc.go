// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package transport implements the HTTP transport layer for platform method
calls with TLS 1.2/1.3.

The client POSTs a request envelope to the platform endpoint and returns
the decoded response body. Timeouts, cancellation, and compressed response
decoding are handled here; envelope construction and fault parsing belong
to the envelope and response packages.

	client := transport.NewClient(nil) // default config

	body, err := client.Do(ctx, &transport.Request{
	    Endpoint: "https://platform.example.com/service",
	    Body:     envelopeBytes,
	})

Non-2xx responses are returned as *HTTPError, which reports whether the
failure is transient (5xx) and therefore worth retrying.
*/
package transport
