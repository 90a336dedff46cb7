package strutil

import "testing"

func TestURLDecode(t *testing.T) {
	cases := []struct {
		in     string
		double bool
		want   string
	}{
		{"/a%20b", false, "/a b"},
		{"/a%2520b", true, "/a b"},
		{"/a%ZZb", false, "/a%ZZb"},
		{"  /a  ", false, "/a"},
		{"/a\r\nb", false, "/ab"},
	}
	for _, c := range cases {
		if got := URLDecode(c.in, c.double); got != c.want {
			t.Errorf("URLDecode(%q, %v) = %q, want %q", c.in, c.double, got, c.want)
		}
	}
}

func TestURLDecodeIdempotent(t *testing.T) {
	x := "/already/decoded/path"
	if URLDecode(URLDecode(x, false), false) != URLDecode(x, false) {
		t.Fatalf("decode not idempotent for %q", x)
	}
}

func TestUnescape(t *testing.T) {
	cases := []struct{ in, want string }{
		{`a\nb`, "a\nb"},
		{`a\tb`, "a\tb"},
		{`a\"b`, `a"b`},
		{`a\\b`, `a\b`},
		{`a\xb`, "axb"},
		{`a\`, "a"},
	}
	for _, c := range cases {
		if got := Unescape(c.in); got != c.want {
			t.Errorf("Unescape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDelimSubstringBasic(t *testing.T) {
	tok, next, ok := DelimSubstring("GET /x HTTP/1.1", 0, " ", 1)
	if !ok || tok != "GET" || next != 4 {
		t.Fatalf("got %q %d %v", tok, next, ok)
	}
}

func TestDelimSubstringEscapeSkipped(t *testing.T) {
	// the first space is escaped and must not count
	tok, next, ok := DelimSubstring(`a\ b c`, 0, " ", 1)
	if !ok || tok != `a\ b` || next != 5 {
		t.Fatalf("got %q %d %v", tok, next, ok)
	}
}

func TestDelimSubstringNotFound(t *testing.T) {
	_, _, ok := DelimSubstring("noDelimiterHere", 0, ";", 1)
	if ok {
		t.Fatalf("expected not found")
	}
}

func TestDelimSubstringEmptyDelimSet(t *testing.T) {
	tok, next, ok := DelimSubstring("rest of line", 5, "", 1)
	if !ok || tok != "of line" || next != len("rest of line") {
		t.Fatalf("got %q %d %v", tok, next, ok)
	}
}

func TestDelimSubstringOccurrenceCount(t *testing.T) {
	tok, _, ok := DelimSubstring("a,b,c,d", 0, ",", 3)
	if !ok || tok != "a,b,c" {
		t.Fatalf("got %q %v", tok, ok)
	}
}
