package validate

import "testing"

func TestClassifyIP(t *testing.T) {
	cases := []struct {
		in   string
		kind IPKind
		ok   bool
	}{
		{"114.5.1.4", IPv4, true},
		{"2001:db8::1", IPv6, true},
		{"[2001:db8::1]", IPv6, true},
		{"not-an-ip", IPInvalid, false},
	}
	for _, c := range cases {
		kind, ok := ClassifyIP(c.in)
		if kind != c.kind || ok != c.ok {
			t.Errorf("ClassifyIP(%q) = %v,%v want %v,%v", c.in, kind, ok, c.kind, c.ok)
		}
	}
}

func TestHTTPMethod(t *testing.T) {
	if m, ok := HTTPMethod("get"); !ok || m != "GET" {
		t.Fatalf("got %q %v", m, ok)
	}
	if m, ok := HTTPMethod("propfind"); !ok || m != "PROPFIND" {
		t.Fatalf("got %q %v", m, ok)
	}
	if _, ok := HTTPMethod("BOGUS"); ok {
		t.Fatalf("expected BOGUS to be rejected")
	}
}

func TestHTTPProtocol(t *testing.T) {
	if p, ok := HTTPProtocol("http/1.1"); !ok || p != "HTTP/1.1" {
		t.Fatalf("got %q %v", p, ok)
	}
	if _, ok := HTTPProtocol("FTP/1.0"); ok {
		t.Fatalf("expected FTP to be rejected")
	}
}

func TestCacheStatus(t *testing.T) {
	if c, ok := CacheStatus("hit"); !ok || c != "HIT" {
		t.Fatalf("got %q %v", c, ok)
	}
	if _, ok := CacheStatus("NOPE"); ok {
		t.Fatalf("expected unrecognized cache status to be rejected silently")
	}
}

func TestHTTPStatus(t *testing.T) {
	if !HTTPStatus(200, true) {
		t.Fatalf("200 should be valid")
	}
	if HTTPStatus(999, true) {
		t.Fatalf("999 should be invalid under strict mode")
	}
	if !HTTPStatus(999-799, true) { // 200, sanity
		t.Fatalf("sanity check failed")
	}
	if !HTTPStatus(600-1, false) {
		t.Fatalf("599 is in range, so non-strict mode should accept it")
	}
	if HTTPStatus(600, false) {
		t.Fatalf("600 is out of range regardless of strictness")
	}
	if !HTTPStatus(429, true) {
		t.Fatalf("429 should be registered")
	}
	if HTTPStatus(425, true) {
		t.Fatalf("425 should not be registered")
	}
}
