// Package response buffers the output of a single request: format, status code,
// headers and body are collected on a Response and written to the transport in
// one step by Send.
//
// A Response is created per inbound call and is not safe for concurrent use.
package response

import (
	"net/http"

	"github.com/maksimkurb/restd/src/internal/errors"
)

// StatusTextHeader carries a custom status text. net/http always writes the
// canonical reason phrase in the status line, so custom text travels here.
const StatusTextHeader = "Status-Text"

// Response is the per-call response adapter.
type Response struct {
	w          http.ResponseWriter
	header     http.Header
	formatters Formatters

	format     Format
	statusCode int
	statusText string
	body       []byte
	sent       bool
}

// Option customizes a Response.
type Option func(*Response)

// WithFormatters replaces the formatter registry.
func WithFormatters(fs Formatters) Option {
	return func(r *Response) {
		if fs != nil {
			r.formatters = fs
		}
	}
}

// New creates a Response writing to w. The default format is JSON and the
// default status is 200; no header is set until SetFormat is called.
func New(w http.ResponseWriter, opts ...Option) *Response {
	r := &Response{
		w:          w,
		header:     make(http.Header),
		formatters: DefaultFormatters(),
		format:     FormatJSON,
		statusCode: http.StatusOK,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Header returns the buffered header map.
func (r *Response) Header() http.Header {
	return r.header
}

// SetFormat sets the output format and, for known formats, the Content-Type.
func (r *Response) SetFormat(f Format) *Response {
	r.format = ParseFormat(string(f))
	if ct, ok := ContentTypes[r.format]; ok {
		r.header.Set("Content-Type", ct)
	}
	return r
}

// OutputFormat returns the current format.
func (r *Response) OutputFormat() Format {
	return r.format
}

// SetStatusCode sets the status to emit. Zero means 200. Codes outside
// [100, 600) are rejected before any state changes. A non-empty text replaces
// the standard status text.
func (r *Response) SetStatusCode(code int, text ...string) error {
	if code == 0 {
		code = http.StatusOK
	}
	if code < 100 || code >= 600 {
		return errors.NewInvalidStatusCodeError(code)
	}

	r.statusCode = code
	r.statusText = ""
	if len(text) > 0 && text[0] != "" {
		r.statusText = text[0]
	}
	return nil
}

// StatusCode returns the status that Send will emit.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// StatusText returns the custom status text or the standard one.
func (r *Response) StatusText() string {
	if r.statusText != "" {
		return r.statusText
	}
	return http.StatusText(r.statusCode)
}

// SetData formats data with the current format and buffers the result.
func (r *Response) SetData(data any) error {
	body, err := r.Format(data, r.format)
	if err != nil {
		return err
	}
	r.body = body
	return nil
}

// Format renders data with the formatter registered for format.
func (r *Response) Format(data any, format Format) ([]byte, error) {
	return r.formatters.Format(data, format)
}

// Output returns the buffered body.
func (r *Response) Output() []byte {
	return r.body
}

// AddHeader appends a header value, keeping existing values.
func (r *Response) AddHeader(name, value string) *Response {
	r.header.Add(name, value)
	return r
}

// SetHeader replaces all values of a header.
func (r *Response) SetHeader(name, value string) *Response {
	r.header.Set(name, value)
	return r
}

// Sent reports whether Send has run.
func (r *Response) Sent() bool {
	return r.sent
}

// Send writes headers, status and body to the transport. It is terminal: a
// second call fails and writes nothing. A 1xx status is rejected without
// writing, since net/http sends it as an interim response.
func (r *Response) Send() error {
	if r.sent {
		return errors.NewAlreadySentError()
	}
	if r.statusCode < http.StatusOK {
		return errors.NewInformationalStatusError(r.statusCode)
	}
	r.sent = true

	dst := r.w.Header()
	for name, values := range r.header {
		for _, v := range values {
			dst.Add(name, v)
		}
	}
	if r.statusText != "" {
		dst.Set(StatusTextHeader, r.statusText)
	}

	r.w.WriteHeader(r.statusCode)
	if !bodyAllowed(r.statusCode) || len(r.body) == 0 {
		return nil
	}
	if _, err := r.w.Write(r.body); err != nil {
		return errors.NewInternalError("failed to write response body", err)
	}
	return nil
}

// JSON is the shortcut for JSON output: it sets the status when non-zero,
// switches to JSON, buffers data when non-nil and sends.
func (r *Response) JSON(data any, statusCode int) error {
	if statusCode != 0 {
		if err := r.SetStatusCode(statusCode); err != nil {
			return err
		}
	}

	r.SetFormat(FormatJSON)

	if data != nil {
		if err := r.SetData(data); err != nil {
			return err
		}
	}

	return r.Send()
}

func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified
}
