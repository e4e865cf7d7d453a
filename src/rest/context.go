package rest

import (
	"context"
	"net/http"
	"reflect"

	"github.com/maksimkurb/restd/src/rest/opt"
	"github.com/maksimkurb/restd/src/rest/request"
	"github.com/maksimkurb/restd/src/rest/response"
)

// Context carries one dispatch: the request and response adapters, the
// resource id and the selected action. Handlers emit output through it.
type Context struct {
	Request  *request.Request
	Response *response.Response

	// ID is the resource identifier bound by the router.
	ID opt.Optional[string]

	// Action is the selected action; meaningless when the request fell
	// through to the default action.
	Action Action

	d *Dispatcher
}

// Context returns the context of the underlying HTTP request.
func (c *Context) Context() context.Context {
	return c.Request.HTTP().Context()
}

// JSON sends data as JSON with the given status (zero keeps the current one).
func (c *Context) JSON(data any, statusCode int) error {
	return c.Response.JSON(data, statusCode)
}

// Pack builds an envelope. The status slot is always set: statusCode when
// non-zero, the response status otherwise. The text slot is set for a
// non-empty message and the body slot for a present body.
func (c *Context) Pack(body opt.Optional[any], statusCode int, message string) map[string]any {
	names := c.d.envelope
	packed := make(map[string]any, 3)

	if statusCode != 0 {
		packed[names.StatusCode] = statusCode
	} else {
		packed[names.StatusCode] = c.Response.StatusCode()
	}

	if message != "" {
		packed[names.StatusText] = message
	}

	if v, ok := body.Get(); ok && !(names.OmitEmptyBody && isEmpty(v)) {
		packed[names.Body] = v
	}

	return packed
}

// Reply sends data as JSON. With body formatting enabled the data is packed
// into the envelope; otherwise scalars are wrapped in a one-element list so the
// document is always an object or an array.
func (c *Context) Reply(data any, statusCode int, message string) error {
	if c.d.bodyFormat {
		body := opt.None[any]()
		if data != nil {
			body = opt.Some(data)
		}
		return c.JSON(c.Pack(body, statusCode, message), statusCode)
	}

	switch {
	case data == nil:
		data = []any{}
	case !isObjectOrArray(data):
		data = []any{data}
	}
	return c.JSON(data, statusCode)
}

// Error sends a packed envelope without a body.
func (c *Context) Error(statusCode int, message string) error {
	return c.JSON(c.Pack(opt.None[any](), statusCode, message), statusCode)
}

// NotFound runs the dispatcher's default action.
func (c *Context) NotFound() error {
	return c.d.notFound(c)
}

// DefaultNotFound sends a 404 envelope.
func DefaultNotFound(c *Context) error {
	return c.Error(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func isObjectOrArray(v any) bool {
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
