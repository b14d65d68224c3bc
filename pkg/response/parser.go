package response

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/openphr/go-phr/pkg/status"
)

// ErrMissingStatus is returned when the response carries no status
// element; the body is not a platform response.
var ErrMissingStatus = errors.New("phr: response missing status element")

// Response is a parsed platform success response.
type Response struct {
	Code status.Code

	raw  []byte
	info []byte
}

// Info returns the raw bytes of the info element, including its start
// and end tags. Nil when the method returned no info section.
func (r *Response) Info() []byte {
	return r.info
}

// Reader returns a reader over the raw info element bytes.
func (r *Response) Reader() io.Reader {
	return bytes.NewReader(r.info)
}

// Raw returns the full response body as received.
func (r *Response) Raw() []byte {
	return r.raw
}

// Unmarshal decodes the info element into v.
func (r *Response) Unmarshal(v any) error {
	if len(r.info) == 0 {
		return fmt.Errorf("phr: response has no info section")
	}
	if err := xml.Unmarshal(r.info, v); err != nil {
		return fmt.Errorf("phr: decoding info section: %w", err)
	}
	return nil
}

type statusXML struct {
	Code  int       `xml:"code"`
	Error *faultXML `xml:"error"`
}

type faultXML struct {
	Message   string      `xml:"message"`
	Context   *contextXML `xml:"context"`
	ErrorInfo string      `xml:"error-info"`
}

type contextXML struct {
	ServerName string `xml:"server-name"`
	ServerIP   string `xml:"server-ip"`
	Exception  string `xml:"exception"`
}

// Parse streams the response body, extracting the status code eagerly.
// On a platform fault it returns *Error; on success the info section is
// located but not decoded, so large method results cost nothing until
// the caller reads them.
func Parse(body []byte) (*Response, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	resp := &Response{raw: body}
	sawStatus := false
	depth := 0

	for {
		offset := decoder.InputOffset()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phr: parsing response: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				// The document element; descend into it.
				depth++
				continue
			}

			switch t.Name.Local {
			case "status":
				var st statusXML
				if err := decoder.DecodeElement(&st, &t); err != nil {
					return nil, fmt.Errorf("phr: parsing status section: %w", err)
				}
				sawStatus = true
				resp.Code = status.Code(st.Code)
				if resp.Code != status.OK {
					return nil, newError(resp.Code, st.Error)
				}
			case "info":
				if !sawStatus {
					return nil, ErrMissingStatus
				}
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("phr: parsing info section: %w", err)
				}
				start := skipLeadingSpace(body, offset)
				resp.info = body[start:decoder.InputOffset()]
				return resp, nil
			default:
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("phr: parsing response: %w", err)
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	if !sawStatus {
		return nil, ErrMissingStatus
	}
	return resp, nil
}

func newError(code status.Code, fault *faultXML) *Error {
	e := &Error{Code: code}
	if fault == nil {
		return e
	}
	e.Message = fault.Message
	e.ErrorInfo = fault.ErrorInfo
	if fault.Context != nil {
		e.Context = &ServerContext{
			ServerName: fault.Context.ServerName,
			ServerIP:   fault.Context.ServerIP,
			Exception:  fault.Context.Exception,
		}
	}
	return e
}

// skipLeadingSpace advances past inter-element whitespace so the info
// slice starts at its opening tag.
func skipLeadingSpace(body []byte, offset int64) int64 {
	for offset < int64(len(body)) {
		switch body[offset] {
		case ' ', '\t', '\r', '\n':
			offset++
		default:
			return offset
		}
	}
	return offset
}
