// Package request adapts an inbound *http.Request into the values the REST
// dispatcher consumes: the effective method, content type, raw body, parsed body
// parameters and authentication credentials.
//
// A Request is built for a single inbound call and is not safe for concurrent
// use; the raw body and the parsed parameters are computed once and cached.
package request

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/maksimkurb/restd/src/internal/errors"
	"github.com/maksimkurb/restd/src/internal/log"
	"github.com/maksimkurb/restd/src/rest/opt"
)

// Method is a normalized, upper-case HTTP method.
type Method string

const (
	Get     Method = "GET"
	Post    Method = "POST"
	Put     Method = "PUT"
	Patch   Method = "PATCH"
	Delete  Method = "DELETE"
	Head    Method = "HEAD"
	Options Method = "OPTIONS"
)

const (
	// MethodOverrideHeader carries the method a client wants when its transport
	// only allows GET and POST.
	MethodOverrideHeader = "X-HTTP-Method-Override"

	// RedirectAuthorizationHeader preserves the Authorization header across
	// internal redirects of front proxies that strip it.
	RedirectAuthorizationHeader = "Redirect-Authorization"

	// DefaultMaxBodyBytes bounds RawBody.
	DefaultMaxBodyBytes int64 = 10 << 20

	jsonContentType = "application/json"
)

// Params holds structured body parameters.
type Params map[string]any

// BasicCredentials are the username and password of HTTP Basic authentication.
type BasicCredentials struct {
	Username opt.Optional[string]
	Password opt.Optional[string]
}

// Request is the per-call request adapter.
type Request struct {
	r            *http.Request
	maxBodyBytes int64

	rawBody    []byte
	rawBodyErr error
	bodyRead   bool
	bodyParams Params
}

// Option customizes a Request.
type Option func(*Request)

// WithMaxBodyBytes bounds the number of body bytes RawBody reads.
func WithMaxBodyBytes(n int64) Option {
	return func(req *Request) {
		if n > 0 {
			req.maxBodyBytes = n
		}
	}
}

// New wraps r.
func New(r *http.Request, opts ...Option) *Request {
	req := &Request{
		r:            r,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, o := range opts {
		o(req)
	}
	return req
}

// HTTP returns the wrapped transport request.
func (req *Request) HTTP() *http.Request {
	return req.r
}

// Method returns the effective method. The override header wins over the
// transport method; GET is returned when neither is set.
func (req *Request) Method() Method {
	if m := strings.TrimSpace(req.r.Header.Get(MethodOverrideHeader)); m != "" {
		return Method(strings.ToUpper(m))
	}
	if req.r.Method != "" {
		return Method(strings.ToUpper(req.r.Method))
	}
	return Get
}

// ContentType returns the Content-Type header as sent.
func (req *Request) ContentType() opt.Optional[string] {
	return opt.FromString(req.r.Header.Get("Content-Type"))
}

// RawBody returns the unparsed message body. The body is read on the first call
// and cached; later calls never touch the transport. A body over the limit is
// dropped entirely and BodyErr reports ErrCodeRequestTooLarge.
func (req *Request) RawBody() []byte {
	if req.bodyRead {
		return req.rawBody
	}
	req.bodyRead = true

	if req.r.Body == nil || req.r.Body == http.NoBody {
		req.rawBody = []byte{}
		return req.rawBody
	}

	data, err := io.ReadAll(io.LimitReader(req.r.Body, req.maxBodyBytes+1))
	switch {
	case err != nil:
		log.Warnf("Failed to read request body: %v", err)
		req.rawBodyErr = err
		data = []byte{}
	case int64(len(data)) > req.maxBodyBytes:
		req.rawBodyErr = errors.NewRequestTooLargeError(req.maxBodyBytes)
		data = []byte{}
	}
	req.rawBody = data

	// Later readers of the transport body (ParseForm) see the same bytes.
	req.r.Body = io.NopCloser(bytes.NewReader(data))
	return req.rawBody
}

// BodyErr returns the error encountered while reading the body, if any.
func (req *Request) BodyErr() error {
	return req.rawBodyErr
}

// BodyParams returns the parameters carried in the body:
//   - application/json bodies are decoded as a JSON object;
//   - POST bodies of any other type come from the transport's parsed form;
//   - everything else is decoded as a URL-encoded query string.
//
// Malformed input yields empty Params, never an error.
func (req *Request) BodyParams() Params {
	if req.bodyParams != nil {
		return req.bodyParams
	}

	switch {
	case req.isJSON():
		req.bodyParams = decodeJSONObject(req.RawBody())
	case req.Method() == Post:
		req.bodyParams = req.postForm()
	default:
		values, err := url.ParseQuery(string(req.RawBody()))
		if err != nil {
			log.Debugf("Ignoring malformed urlencoded body: %v", err)
		}
		req.bodyParams = fromValues(values)
	}

	return req.bodyParams
}

// Input is an alias of BodyParams.
func (req *Request) Input() Params {
	return req.BodyParams()
}

// BasicAuthCredentials returns the HTTP Basic credentials. Userinfo of the
// request URI is preferred when it carries both parts; net/http only fills it
// for absolute-form request targets (forward proxies, hand-built requests).
// Otherwise the Authorization header (or its redirect-preserved copy) is
// decoded. Missing parts are absent.
func (req *Request) BasicAuthCredentials() BasicCredentials {
	if u := req.r.URL; u != nil && u.User != nil {
		if pass, ok := u.User.Password(); ok && u.User.Username() != "" {
			return BasicCredentials{
				Username: opt.Some(u.User.Username()),
				Password: opt.Some(pass),
			}
		}
	}

	header := req.r.Header.Get("Authorization")
	if header == "" {
		header = req.r.Header.Get(RedirectAuthorizationHeader)
	}

	encoded, ok := cutPrefixFold(header, "basic ")
	if !ok {
		return BasicCredentials{}
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		log.Debugf("Ignoring malformed basic credentials: %v", err)
		return BasicCredentials{}
	}

	user, pass, found := strings.Cut(string(decoded), ":")
	creds := BasicCredentials{Username: opt.FromString(user)}
	if found {
		creds.Password = opt.FromString(pass)
	}
	return creds
}

// BearerAuthCredentials returns the bearer token from the Authorization header.
func (req *Request) BearerAuthCredentials() opt.Optional[string] {
	token, ok := cutPrefixFold(req.r.Header.Get("Authorization"), "bearer ")
	if !ok {
		return opt.None[string]()
	}
	return opt.FromString(token)
}

func (req *Request) isJSON() bool {
	ct, ok := req.ContentType().Get()
	if !ok {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType = strings.TrimSpace(ct)
	}
	return strings.EqualFold(mediaType, jsonContentType)
}

func (req *Request) postForm() Params {
	// Buffer the body first so RawBody stays usable after the form is parsed.
	req.RawBody()

	var err error
	if strings.HasPrefix(strings.ToLower(req.r.Header.Get("Content-Type")), "multipart/form-data") {
		err = req.r.ParseMultipartForm(req.maxBodyBytes)
	} else {
		err = req.r.ParseForm()
	}
	if err != nil {
		log.Debugf("Ignoring malformed form body: %v", err)
	}
	return fromValues(req.r.PostForm)
}

func decodeJSONObject(raw []byte) Params {
	params := Params{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return params
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		log.Debugf("Ignoring malformed JSON body: %v", err)
		return Params{}
	}
	if params == nil {
		// The body was the JSON literal null.
		return Params{}
	}
	return params
}

func fromValues(values url.Values) Params {
	params := make(Params, len(values))
	for key, vs := range values {
		switch len(vs) {
		case 0:
			params[key] = ""
		case 1:
			params[key] = vs[0]
		default:
			params[key] = append([]string(nil), vs...)
		}
	}
	return params
}

// cutPrefixFold is strings.CutPrefix with a case-insensitive prefix match.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
