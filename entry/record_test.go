package entry

import "testing"

func TestNewRecordDefaults(t *testing.T) {
	r := New()
	if r.Status != -1 {
		t.Fatalf("Status = %d, want -1", r.Status)
	}
	if r.IsSet("host") {
		t.Fatalf("fresh record should have no fields set")
	}
}

func TestMarkSetOnceLaw(t *testing.T) {
	r := New()
	r.MarkSet("host")
	if !r.IsSet("host") {
		t.Fatalf("expected host to be marked set")
	}
	if r.IsSet("date") {
		t.Fatalf("marking host should not affect date")
	}
}

func TestParseErrorMessages(t *testing.T) {
	cases := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Code: ErrSpecTokenNull, Specifier: 'h'}, "spec-token-null: unable to find specifier %h end token"},
		{&ParseError{Code: ErrSpecTokenInvalid, Specifier: 's', Token: "999"}, `spec-token-invalid: specifier %s token "999" is invalid`},
		{&ParseError{Code: ErrMissingField, Field: "host"}, `missing-field: required field "host" was not set`},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}

func TestParseErrorIs(t *testing.T) {
	a := &ParseError{Code: ErrMissingField, Field: "host"}
	b := &ParseError{Code: ErrMissingField, Field: "date"}
	if !a.Is(b) {
		t.Fatalf("errors with same code should satisfy Is")
	}
	c := &ParseError{Code: ErrLineInvalid}
	if a.Is(c) {
		t.Fatalf("errors with different codes should not satisfy Is")
	}
}
