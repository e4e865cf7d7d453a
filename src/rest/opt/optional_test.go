package opt

import "testing"

func TestOptional(t *testing.T) {
	some := Some("42")
	if v, ok := some.Get(); !ok || v != "42" {
		t.Errorf("Some(\"42\").Get() = %q, %v", v, ok)
	}

	none := None[string]()
	if none.Present() {
		t.Error("None should not be present")
	}
	if got := none.OrElse("fallback"); got != "fallback" {
		t.Errorf("OrElse() = %q, want fallback", got)
	}

	// A present zero value is still present.
	empty := Some([]any{})
	if !empty.Present() {
		t.Error("Some of an empty slice must be present")
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		present bool
	}{
		{name: "empty", in: "", present: false},
		{name: "value", in: "7", present: true},
		{name: "zero", in: "0", present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromString(tt.in).Present(); got != tt.present {
				t.Errorf("FromString(%q).Present() = %v, want %v", tt.in, got, tt.present)
			}
		})
	}
}

func TestMustGetPanicsOnNone(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	None[int]().MustGet()
}

func TestString(t *testing.T) {
	if got := Some(3).String(); got != "Some(3)" {
		t.Errorf("String() = %q", got)
	}
	if got := None[int]().String(); got != "None" {
		t.Errorf("String() = %q", got)
	}
}
