package logfmt

import (
	"testing"

	"github.com/gravwell/accesslog/entry"
)

func TestParseCombinedLine(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `192.168.1.1 - - [11/Jun/2023:01:23:45 -0700] "GET /index.html HTTP/1.1" 200 1024 "-" "curl/8.0"`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Host != "192.168.1.1" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.HostIPKind != entry.IPv4 {
		t.Errorf("host kind = %v", rec.HostIPKind)
	}
	if rec.Date != "20230611" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.Time != "01:23:45" {
		t.Errorf("time = %q", rec.Time)
	}
	if rec.Method != "GET" || rec.Protocol != "HTTP/1.1" {
		t.Errorf("method/protocol = %q/%q", rec.Method, rec.Protocol)
	}
	if rec.Request != "/index.html" {
		t.Errorf("request = %q", rec.Request)
	}
	if rec.Status != 200 {
		t.Errorf("status = %d", rec.Status)
	}
	if rec.ResponseSize != 1024 {
		t.Errorf("response size = %d", rec.ResponseSize)
	}
	if rec.UserAgent != "curl/8.0" {
		t.Errorf("user agent = %q", rec.UserAgent)
	}
}

func TestParseBracketedIPv6Host(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `[2001:db8::1] - - [11/Jun/2023:01:23:45 -0700] "GET / HTTP/1.1" 200 512 "-" "-"`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Host != "2001:db8::1" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.HostIPKind != entry.IPv6 {
		t.Errorf("host kind = %v", rec.HostIPKind)
	}
}

func TestParseInvalidStatusRejected(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `10.0.0.1 - - [11/Jun/2023:01:23:45 -0700] "GET / HTTP/1.1" 999 512 "-" "-"`
	_, err = p.Parse([]byte(line))
	if err == nil {
		t.Fatal("expected an error for status 999")
	}
	pe, ok := err.(*entry.ParseError)
	if !ok || pe.Code != entry.ErrSpecTokenInvalid {
		t.Fatalf("got %v, want spec-token-invalid", err)
	}
}

func TestParseGoogleReferrerKeyphrase(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `10.0.0.1 - - [11/Jun/2023:01:23:45 -0700] "GET / HTTP/1.1" 200 512 "https://www.google.com/search?q=gravwell+logs" "-"`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Keyphrase != "gravwell logs" {
		t.Errorf("keyphrase = %q", rec.Keyphrase)
	}
	if rec.ReferrerSite != "www.google.com" {
		t.Errorf("referrer site = %q", rec.ReferrerSite)
	}
}

func TestParseXFFKeepsHostSetByH(t *testing.T) {
	p, err := NewParser(Options{LogFormat: `%h ~h{, }"%r" %s %b [%d:%t %^]`, DateFormat: "%d/%b/%Y", TimeFormat: "%H:%M:%S"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	// host is already set by %h, so ~h only advances past the XFF tokens
	// without overwriting it.
	line := `10.0.0.1 203.0.113.9, 198.51.100.2"GET / HTTP/1.1" 200 512 [11/Jun/2023:01:23:45 -0700]`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Host != "10.0.0.1" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.Request != "/" {
		t.Errorf("request = %q", rec.Request)
	}
}

func TestParseHostDashRejectedUnderDefaultValidation(t *testing.T) {
	p, err := NewParser(Options{LogFormat: `%h ~h{, }"%r" %s %b`})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	// "-" is not a valid IPv4/IPv6 address, so under default (IP
	// validation enabled) config %h rejects it outright rather than
	// deferring to a following XFF specifier.
	line := `- 203.0.113.9, 198.51.100.2"GET / HTTP/1.1" 200 512`
	_, err = p.Parse([]byte(line))
	if err == nil {
		t.Fatal("expected an error for host \"-\"")
	}
	pe, ok := err.(*entry.ParseError)
	if !ok || pe.Code != entry.ErrSpecTokenInvalid {
		t.Fatalf("got %v, want spec-token-invalid", err)
	}
}

func TestParseCaddyDocument(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "CADDY"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `{ "ts": "1686445425.0", "request": { "client_ip": "10.0.0.5", "proto": "HTTP/1.1", "method": "GET", "host": "example.com", "uri": "/home", "headers": { "User-Agent": ["gravwell-agent/1.0"], "Referer": ["-"] }, "tls": { "cipher_suite": "TLS_AES_128_GCM_SHA256", "proto": "TLSv1.3" } }, "duration": "0.002", "size": "256", "status": "200", "resp_headers": { "Content-Type": ["text/html"] } }`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Host != "10.0.0.5" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.Protocol != "HTTP/1.1" {
		t.Errorf("protocol = %q", rec.Protocol)
	}
	if rec.Method != "GET" {
		t.Errorf("method = %q", rec.Method)
	}
	if rec.Request != "/home" {
		t.Errorf("request = %q", rec.Request)
	}
	if rec.Status != 200 {
		t.Errorf("status = %d", rec.Status)
	}
	if rec.UserAgent != "gravwell-agent/1.0" {
		t.Errorf("user agent = %q", rec.UserAgent)
	}
	if rec.TLSCipher != "TLS_AES_128_GCM_SHA256" {
		t.Errorf("tls cipher = %q", rec.TLSCipher)
	}
}

func TestParseCloudStorageDocument(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "CLOUDSTORAGE"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	// ts is microseconds since epoch (1517500599572031 -> 2018-02-01),
	// not seconds; a seconds interpretation would land around 50000 AD.
	line := `"1517500599572031","10.0.0.5",v1,v2,"GET","/home","200",v3,"512","1500",v4,"-","gravwell-agent/1.0"`
	rec, err := p.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.Host != "10.0.0.5" {
		t.Errorf("host = %q", rec.Host)
	}
	if rec.Date != "20180201" {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.Method != "GET" {
		t.Errorf("method = %q", rec.Method)
	}
	if rec.Request != "/home" {
		t.Errorf("request = %q", rec.Request)
	}
	if rec.Status != 200 {
		t.Errorf("status = %d", rec.Status)
	}
	if rec.ResponseSize != 512 {
		t.Errorf("response size = %d", rec.ResponseSize)
	}
	if rec.ServeTimeUs != 1500 {
		t.Errorf("serve time = %d", rec.ServeTimeUs)
	}
}

func TestParseBlankAndCommentLinesAreSoftIgnored(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	for _, line := range []string{"", "   ", "# a comment"} {
		_, err := p.Parse([]byte(line))
		if err != entry.SoftIgnore {
			t.Errorf("Parse(%q) err = %v, want SoftIgnore", line, err)
		}
	}
}

func TestParseUnparsableHostReported(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	line := `- - - [11/Jun/2023:01:23:45 -0700] "GET / HTTP/1.1" 200 512 "-" "-"`
	_, err = p.Parse([]byte(line))
	if err == nil {
		t.Fatal("expected an error for unparsable host")
	}
}

func TestErrorTallyCountsAndSamples(t *testing.T) {
	p, err := NewParser(Options{LogFormat: "COMBINED"})
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	tally := NewErrorTally(2)
	lines := []string{
		`10.0.0.1 - - [11/Jun/2023:01:23:45 -0700] "GET / HTTP/1.1" 200 512 "-" "-"`,
		`garbage line that will not parse as combined`,
		``,
	}
	for _, line := range lines {
		_, perr := p.Parse([]byte(line))
		tally.Record(perr)
	}
	if tally.Total() != 2 {
		t.Errorf("total = %d, want 2 (blank line soft-ignored)", tally.Total())
	}
	if tally.Invalid() != 1 {
		t.Errorf("invalid = %d, want 1", tally.Invalid())
	}
}
