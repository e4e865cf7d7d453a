package response

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/valyala/fasttemplate"
	"golang.org/x/text/cases"

	"github.com/maksimkurb/restd/src/internal/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatRaw   Format = "raw"
	FormatHTML  Format = "html"
	FormatJSON  Format = "json"
	FormatJSONP Format = "jsonp"
	FormatXML   Format = "xml"
)

// ContentTypes maps each known format to the Content-Type it is served with.
var ContentTypes = map[Format]string{
	FormatRaw:   "text/plain; charset=utf-8",
	FormatHTML:  "text/html; charset=utf-8",
	FormatJSON:  "application/json; charset=utf-8",       // RFC 4627
	FormatJSONP: "application/javascript; charset=utf-8", // RFC 4329
	FormatXML:   "application/xml; charset=utf-8",        // RFC 2376
}

// Formats lists the known formats in a stable order.
var Formats = []Format{FormatRaw, FormatHTML, FormatJSON, FormatJSONP, FormatXML}

// ParseFormat folds the case of name and returns it as a Format. Unknown names
// are returned as-is; they are legal and fall back to JSON for collections.
func ParseFormat(name string) Format {
	return Format(cases.Fold().String(name))
}

// Known reports whether f has a content type mapping.
func (f Format) Known() bool {
	_, ok := ContentTypes[ParseFormat(string(f))]
	return ok
}

// Formatter turns application data into a response body.
type Formatter func(data any) ([]byte, error)

// Formatters is a registry of formatters keyed by folded format name.
type Formatters map[Format]Formatter

// DefaultFormatters returns a fresh registry with the built-in json, jsonp and
// xml formatters. raw and html have no formatter: their data passes through.
func DefaultFormatters() Formatters {
	return Formatters{
		FormatJSON:  FormatJSONBody,
		FormatJSONP: FormatJSONPBody,
		FormatXML:   FormatXMLBody,
	}
}

// Format dispatches data to the formatter registered for format. Without a
// formatter, collections are encoded as JSON and anything else passes through.
func (fs Formatters) Format(data any, format Format) ([]byte, error) {
	if formatter, ok := fs[ParseFormat(string(format))]; ok && formatter != nil {
		return formatter(data)
	}
	if isCollection(data) {
		return FormatJSONBody(data)
	}
	return passThrough(data), nil
}

// FormatJSONBody encodes data as JSON.
func FormatJSONBody(data any) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, errors.NewFormatError("failed to encode JSON", err)
	}
	return b, nil
}

var (
	jsonpTemplate = fasttemplate.New("{{callback}}({{data}});", "{{", "}}")
	callbackName  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
)

// FormatJSONPBody wraps JSON-encoded data in a callback invocation. data must be
// a map carrying the payload under "data" and the function name under "callback".
func FormatJSONPBody(data any) ([]byte, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, errors.NewFormatError("jsonp data must be a map with \"data\" and \"callback\" keys", nil)
	}

	callback, _ := m["callback"].(string)
	if !callbackName.MatchString(callback) {
		return nil, errors.NewFormatError(fmt.Sprintf("invalid jsonp callback %q", callback), nil)
	}

	payload, err := FormatJSONBody(m["data"])
	if err != nil {
		return nil, err
	}

	return []byte(jsonpTemplate.ExecuteString(map[string]interface{}{
		"callback": callback,
		"data":     payload,
	})), nil
}

func isCollection(data any) bool {
	if data == nil {
		return false
	}
	switch reflect.TypeOf(data).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		_, isBytes := data.([]byte)
		return !isBytes
	case reflect.Pointer:
		v := reflect.ValueOf(data)
		return !v.IsNil() && isCollection(v.Elem().Interface())
	default:
		return false
	}
}

func passThrough(data any) []byte {
	switch v := data.(type) {
	case nil:
		return []byte{}
	case []byte:
		return v
	case string:
		return []byte(v)
	case fmt.Stringer:
		return []byte(v.String())
	default:
		return []byte(fmt.Sprint(v))
	}
}
