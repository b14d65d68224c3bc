// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package gophr is a Go client SDK for the OpenPHR health record platform,
an XML-over-HTTP web service for personal health records.

# Overview

Every platform operation is an XML method call: the SDK builds a signed,
optionally compressed request envelope, posts it over HTTP, and parses a
typed success or fault envelope back. The envelope has three sections with
a strict dependency chain: the info section (method payload) is serialized
and hashed first, the header embeds that hash, and the auth section signs
the header bytes.

# Package Structure

The library is organized into the following packages:

	github.com/openphr/go-phr/pkg/connection  - Main platform client
	github.com/openphr/go-phr/pkg/envelope    - Request envelope construction
	github.com/openphr/go-phr/pkg/response    - Response parsing and typed faults
	github.com/openphr/go-phr/pkg/credential  - Session credentials and signing
	github.com/openphr/go-phr/pkg/transport   - HTTP transport with TLS 1.2/1.3
	github.com/openphr/go-phr/pkg/status      - Platform status codes
	github.com/openphr/go-phr/pkg/compression - Request/response compression
	github.com/openphr/go-phr/pkg/config      - YAML configuration loading

# Quick Start

To call a platform method:

	import (
	    "github.com/openphr/go-phr/pkg/connection"
	    "github.com/openphr/go-phr/pkg/credential"
	)

	cred := credential.NewSessionCredential(appID, appSecret)

	conn, _ := connection.New(&connection.Config{
	    Endpoint: "https://platform.example.com/service",
	}, cred)

	resp, err := conn.Invoke(ctx, "GetServiceDefinition", 1, nil)
	if err != nil {
	    // *response.Error carries the platform status code and server context
	}
	payload := resp.Info()

# Request Pipeline

The connection handles the full request lifecycle:

  - Envelope construction with canonicalized info-section hashing
  - HMAC-SHA256 auth section over the canonical header
  - Gzip request compression above a configurable threshold
  - Per-request cancellation and timeouts via context.Context
  - One transparent re-authentication and replay when the platform reports
    an expired auth session token
  - Configurable retry with backoff on transient HTTP 5xx failures

# License

BSD-2-Clause License
*/
package gophr
