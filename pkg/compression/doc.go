// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package compression provides request and response body compression for
platform method calls.

Request envelopes above a size threshold are gzip-compressed and sent
with a Content-Encoding header. Responses may come back gzip- or
deflate-encoded; Decode selects the right decoder from the encoding
name the server reported.

# Compression

Compress a request body before sending:

	compressor := compression.NewCompressor()
	compressed, err := compressor.Compress(body)

Decode a response body:

	plain, err := compressor.Decode(compression.EncodingGzip, body)

# Threshold

Small envelopes gain nothing from compression (the gzip header alone is
~20 bytes), so the connection only compresses bodies at or above a
configured threshold:

	if compression.AboveThreshold(len(body), threshold) {
	    // compress
	}

# References

  - GZIP RFC 1952: https://datatracker.ietf.org/doc/html/rfc1952
  - DEFLATE RFC 1951: https://datatracker.ietf.org/doc/html/rfc1951
*/
package compression
