// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package connection provides the main platform client.

A Connection executes platform methods end to end: it builds the signed
envelope, compresses it when large, posts it, and parses the typed
response. Two recovery behaviors are built in:

  - Token expiry: when the platform reports an expired auth session
    token, the connection re-authenticates the credential and replays
    the request exactly once, with a freshly built envelope. A second
    expiry is surfaced to the caller.
  - Transient HTTP failures: 5xx responses are retried with exponential
    backoff up to a configured attempt count.

Both behaviors honor context cancellation between attempts.

	conn, err := connection.New(&connection.Config{
	    Endpoint: "https://platform.example.com/service",
	}, credential.NewSessionCredential(appID, appSecret))

	resp, err := conn.Invoke(ctx, "GetThings", 3, infoXML,
	    connection.WithRecord(recordID))
*/
package connection
