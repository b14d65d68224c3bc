// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package response parses platform response envelopes.

A response carries a status section and, on success, an info section
holding the method result:

	<response xmlns="urn:org.openphr.response">
	  <status>
	    <code>0</code>
	  </status>
	  <info>...</info>
	</response>

Parse extracts the status code eagerly. On success the info section is
exposed as raw bytes without decoding; callers unmarshal the
method-specific payload themselves. On failure Parse returns *Error with
the status code, fault message, and server context:

	resp, err := response.Parse(body)
	var fault *response.Error
	if errors.As(err, &fault) {
	    // fault.Code, fault.Message, fault.Context
	}
*/
package response
