// Copyright (c) 2026 OpenPHR Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package envelope constructs platform request envelopes.

A request document has up to three sections in a fixed order:

	<phr:request xmlns:phr="urn:org.openphr.request">
	  <auth>...</auth>     keyed signature over the header (absent when anonymous)
	  <header>...</header> method routing, auth session, info-hash
	  <info>...</info>     method-specific payload
	</phr:request>

The sections form a strict dependency chain computed in reverse document
order: the info section is canonicalized and digested first, the header
embeds that digest as info-hash, and the auth section signs the canonical
header. Exclusive XML Canonicalization makes both the digest and the
signature independent of serializer whitespace.

	req := envelope.NewRequest("GetThings", 3,
	    envelope.WithRecordID(recordID),
	    envelope.WithAuthToken(token),
	    envelope.WithInfo(payload),
	)
	body, err := req.Marshal(signer)

A nil HeaderSigner produces an anonymous request: no auth section and no
auth-session element in the header.
*/
package envelope
