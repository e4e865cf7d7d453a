package response

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"

	"github.com/maksimkurb/restd/src/internal/errors"
)

const (
	xmlRootTag = "response"
	xmlItemTag = "item"
)

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// FormatXMLBody encodes data as an element tree rooted at <response>. Map keys
// become element names (invalid names fall back to <item>), list entries become
// <item> elements and scalars become character data.
func FormatXMLBody(data any) ([]byte, error) {
	normalized, err := normalize(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := encodeElement(enc, xmlRootTag, normalized); err != nil {
		return nil, errors.NewFormatError("failed to encode XML", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, errors.NewFormatError("failed to encode XML", err)
	}
	return buf.Bytes(), nil
}

// normalize reduces arbitrary Go values (structs, typed maps) to the generic
// JSON shapes so that the encoder only deals with maps, slices and scalars.
func normalize(data any) (any, error) {
	switch data.(type) {
	case nil, string, bool, float64, int, int64:
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.NewFormatError("failed to encode XML", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.NewFormatError("failed to encode XML", err)
	}
	return out, nil
}

func encodeElement(enc *xml.Encoder, name string, value any) error {
	if !xmlName.MatchString(name) {
		name = xmlItemTag
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeElement(enc, k, v[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := encodeElement(enc, xmlItemTag, item); err != nil {
				return err
			}
		}
	case nil:
	default:
		if err := enc.EncodeToken(xml.CharData(fmt.Sprint(v))); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}
