package response

import (
	"strings"
	"testing"

	"github.com/maksimkurb/restd/src/internal/errors"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type label string

func (l label) String() string { return "label:" + string(l) }

func TestFormattersFormat(t *testing.T) {
	fs := DefaultFormatters()

	tests := []struct {
		name   string
		data   any
		format Format
		want   string
	}{
		{name: "json map", data: map[string]any{"a": 1}, format: FormatJSON, want: `{"a":1}`},
		{name: "json is case folded", data: []int{1, 2}, format: "JSON", want: `[1,2]`},
		{name: "json scalar", data: "hi", format: FormatJSON, want: `"hi"`},
		{name: "raw string passes through", data: "<b>hi</b>", format: FormatRaw, want: "<b>hi</b>"},
		{name: "html bytes pass through", data: []byte("<p>x</p>"), format: FormatHTML, want: "<p>x</p>"},
		{name: "raw collection falls back to json", data: []string{"a"}, format: FormatRaw, want: `["a"]`},
		{name: "unknown format with struct falls back to json", data: point{1, 2}, format: "yaml", want: `{"x":1,"y":2}`},
		{name: "unknown format with pointer to struct", data: &point{3, 4}, format: "csv", want: `{"x":3,"y":4}`},
		{name: "unknown format with scalar passes through", data: 42, format: "yaml", want: "42"},
		{name: "stringer passes through", data: label("a"), format: FormatRaw, want: "label:a"},
		{name: "nil passes through as empty", data: nil, format: FormatHTML, want: ""},
		{
			name:   "jsonp",
			data:   map[string]any{"callback": "app.render", "data": map[string]any{"ok": true}},
			format: FormatJSONP,
			want:   `app.render({"ok":true});`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Format() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatJSONPErrors(t *testing.T) {
	tests := []struct {
		name string
		data any
	}{
		{name: "not a map", data: []int{1}},
		{name: "missing callback", data: map[string]any{"data": 1}},
		{name: "script injection", data: map[string]any{"callback": "alert(1);x", "data": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatJSONPBody(tt.data)
			if !errors.HasCode(err, errors.ErrCodeFormat) {
				t.Errorf("FormatJSONPBody() error = %v, want FORMAT_ERROR", err)
			}
		})
	}
}

func TestFormatJSONUnsupportedValue(t *testing.T) {
	_, err := FormatJSONBody(map[string]any{"ch": make(chan int)})
	if !errors.HasCode(err, errors.ErrCodeFormat) {
		t.Errorf("FormatJSONBody() error = %v, want FORMAT_ERROR", err)
	}
}

func TestFormatXMLBody(t *testing.T) {
	got, err := FormatXMLBody(map[string]any{
		"code":  200,
		"data":  []any{map[string]any{"id": "1"}, "two"},
		"1bad":  "x",
		"empty": nil,
	})
	if err != nil {
		t.Fatal(err)
	}

	body := strings.TrimPrefix(string(got), `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	want := `<response><item>x</item><code>200</code><data><item><id>1</id></item><item>two</item></data><empty></empty></response>`
	if body != want {
		t.Errorf("FormatXMLBody() =\n%s\nwant\n%s", body, want)
	}
}

func TestFormatXMLEscapes(t *testing.T) {
	got, err := FormatXMLBody(map[string]any{"msg": "a < b & c"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "<msg>a &lt; b &amp; c</msg>") {
		t.Errorf("FormatXMLBody() = %s", got)
	}
}

func TestParseFormatAndKnown(t *testing.T) {
	if ParseFormat("JsOn") != FormatJSON {
		t.Error("ParseFormat should fold case")
	}
	if !Format("XML").Known() {
		t.Error("XML should be known")
	}
	if Format("yaml").Known() {
		t.Error("yaml should not be known")
	}
}
