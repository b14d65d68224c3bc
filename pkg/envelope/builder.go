package envelope

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/leifj/signedxml"
)

// Marshal serializes the request to its wire form. The signer covers the
// canonical header; nil produces an anonymous request.
//
// Sections are computed in reverse document order: info is canonicalized
// and hashed first, the header embeds the hash, and the auth signature
// covers the canonical header.
func (r *Request) Marshal(signer HeaderSigner) ([]byte, error) {
	if r.Method == "" {
		return nil, fmt.Errorf("method is required")
	}
	if r.MethodVersion <= 0 {
		return nil, fmt.Errorf("method version must be positive")
	}
	if signer != nil && r.AuthToken == "" {
		return nil, fmt.Errorf("auth token is required for signed requests")
	}

	info, err := r.buildInfo()
	if err != nil {
		return nil, err
	}

	infoHash, err := digestElement(info)
	if err != nil {
		return nil, fmt.Errorf("hashing info section: %w", err)
	}

	header := r.buildHeader(infoHash, signer != nil)

	var auth *etree.Element
	if signer != nil {
		auth, err = buildAuth(header, signer)
		if err != nil {
			return nil, fmt.Errorf("signing header: %w", err)
		}
	}

	// The request namespace is bound to a prefix used only by the root
	// element. The three sections stay in no namespace, so their
	// exclusive canonical form is the same whether computed before or
	// after attachment (the unused prefix is omitted by exclusive C14N).
	doc := etree.NewDocument()
	root := doc.CreateElement("phr:request")
	root.CreateAttr("xmlns:phr", NsRequest)
	if auth != nil {
		root.AddChild(auth)
	}
	root.AddChild(header)
	root.AddChild(info)

	// No indentation: whitespace text nodes would change the canonical
	// form the receiver recomputes for hash and signature checks.
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing request: %w", err)
	}

	return data, nil
}

// buildInfo parses the caller's inner XML into the info element. The
// fragment may contain zero or more sibling elements.
func (r *Request) buildInfo() (*etree.Element, error) {
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<info>" + string(r.Info) + "</info>"); err != nil {
		return nil, fmt.Errorf("parsing info section: %w", err)
	}
	info := frag.Root()
	// Detach from the fragment document so it can be adopted by the
	// request document.
	frag.RemoveChild(info)
	return info, nil
}

// buildHeader assembles the header element. Field order is fixed by the
// platform schema.
func (r *Request) buildHeader(infoHash string, authenticated bool) *etree.Element {
	header := etree.NewElement("header")
	header.CreateElement("method").SetText(r.Method)
	header.CreateElement("method-version").SetText(strconv.Itoa(r.MethodVersion))

	if r.RecordID != "" {
		header.CreateElement("record-id").SetText(r.RecordID)
	} else if r.PersonID != "" {
		header.CreateElement("person-id").SetText(r.PersonID)
	}

	if authenticated {
		session := header.CreateElement("auth-session")
		session.CreateElement("auth-token").SetText(r.AuthToken)
	}

	header.CreateElement("language").SetText(r.Language)
	header.CreateElement("country").SetText(r.Country)

	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	header.CreateElement("msg-time").SetText(ts.Format(time.RFC3339))
	header.CreateElement("msg-ttl").SetText(strconv.Itoa(int(r.TTL.Seconds())))

	header.CreateElement("version").SetText(Version)

	hashData := header.CreateElement("info-hash").CreateElement("hash-data")
	hashData.CreateAttr("algName", "SHA256")
	hashData.SetText(infoHash)

	return header
}

// buildAuth signs the canonical header and wraps the signature in the
// auth section.
func buildAuth(header *etree.Element, signer HeaderSigner) (*etree.Element, error) {
	canonical, err := Canonicalize(header)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign([]byte(canonical))
	if err != nil {
		return nil, err
	}

	auth := etree.NewElement("auth")
	hmacData := auth.CreateElement("hmac-data")
	hmacData.CreateAttr("algName", signer.Algorithm())
	hmacData.SetText(base64.StdEncoding.EncodeToString(sig))

	return auth, nil
}

// Canonicalize renders an element in Exclusive XML Canonicalization form.
// Both the info-hash digest and the auth signature are computed over
// canonical bytes so they survive re-serialization by intermediaries.
func Canonicalize(elem *etree.Element) (string, error) {
	canonicalizer := signedxml.ExclusiveCanonicalization{WithComments: false}
	return canonicalizer.ProcessElement(elem, "")
}

// InfoHash computes the base64 SHA-256 digest of an info section's
// canonical form, as embedded in the header. Useful for receivers and
// tests verifying request integrity.
func InfoHash(info []byte) (string, error) {
	frag := etree.NewDocument()
	if err := frag.ReadFromString("<info>" + string(info) + "</info>"); err != nil {
		return "", fmt.Errorf("parsing info section: %w", err)
	}
	return digestElement(frag.Root())
}

func digestElement(elem *etree.Element) (string, error) {
	canonical, err := Canonicalize(elem)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(canonical))
	return base64.StdEncoding.EncodeToString(digest[:]), nil
}
