package logfmt

import (
	"strconv"
	"strings"

	"github.com/gravwell/accesslog/entry"
	"github.com/gravwell/accesslog/strutil"
	"github.com/gravwell/accesslog/timegrinder"
	"github.com/gravwell/accesslog/validate"
)

// parseTemplate is the central C6 algorithm: it walks template
// character by character, advancing a matching cursor through input,
// and routes each extracted span to the per-specifier handler named by
// letter. It mutates rec in place.
func (p *Parser) parseTemplate(input, template string, rec *entry.Record) error {
	ti, ci := 0, 0
	for ti < len(template) {
		tc := template[ti]
		switch tc {
		case '%':
			ti++
			if ti >= len(template) {
				return &entry.ParseError{Code: entry.ErrLineInvalid}
			}
			letter := template[ti]
			ti++
			if letter == '~' {
				nti, nci, err := p.scanTilde(template, ti, input, ci, rec)
				if err != nil {
					return err
				}
				ti, ci = nti, nci
				continue
			}
			delim := ""
			if ti < len(template) {
				delim = template[ti : ti+1]
				ti++
			}
			nci, err := p.dispatchSpecifier(letter, delim, input, ci, rec)
			if err != nil {
				return err
			}
			ci = nci
		case '~':
			ti++
			nti, nci, err := p.scanTilde(template, ti, input, ci, rec)
			if err != nil {
				return err
			}
			ti, ci = nti, nci
		default:
			if ci < len(input) && input[ci] == tc {
				ci++
				ti++
			} else {
				// forgiving resync: skip one input byte and advance the
				// template, rather than aborting the whole line.
				if ci < len(input) {
					ci++
				}
				ti++
			}
		}
	}
	if ti >= len(template) && ci < len(input) {
		// template exhausted with input left over: success, missing fields
		// are caught by the assembler. Nothing further to do.
		return nil
	}
	return nil
}

// scanTilde handles the '~' special marker (whether it arrived via a
// literal template '~' or as the specifier letter following '%'),
// dispatching to XFF extraction for "~h{...}" or whitespace-absorption
// for any other following character. It returns the updated template
// and input cursors.
func (p *Parser) scanTilde(template string, ti int, input string, ci int, rec *entry.Record) (int, int, error) {
	if ti < len(template) && template[ti] == 'h' {
		ti++
		if ti >= len(template) || template[ti] != '{' {
			return ti, ci, &entry.ParseError{Code: entry.ErrSpecBraceMissing, Specifier: 'h'}
		}
		reject, consumed, ok := extractBraces(template[ti:])
		if !ok {
			return ti, ci, &entry.ParseError{Code: entry.ErrSpecBraceMissing, Specifier: 'h'}
		}
		ti += consumed
		hardStop := ""
		if ti < len(template) && template[ti] != '%' && template[ti] != '~' {
			hardStop = template[ti : ti+1]
			ti++
		}
		host, kind, n, ok := findXFFHost(input[ci:], reject, hardStop)
		if !ok {
			return ti, ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'h', Token: input[ci:]}
		}
		if !rec.IsSet("host") {
			rec.Host = host
			rec.HostIPKind = ipKindFrom(kind)
			rec.MarkSet("host")
		}
		return ti, ci + n, nil
	}
	// whitespace absorption: consume no extra template chars, skip
	// leading ASCII whitespace in the input.
	for ci < len(input) && isASCIISpace(input[ci]) {
		ci++
	}
	return ti, ci, nil
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func ipKindFrom(k validate.IPKind) entry.IPKind {
	switch k {
	case validate.IPv4:
		return entry.IPv4
	case validate.IPv6:
		return entry.IPv6
	default:
		return entry.IPInvalid
	}
}

// dispatchSpecifier extracts the token for letter (honoring the
// bracketed-host and padded-date special cases) and routes it to the
// matching handler. It returns the updated input cursor.
func (p *Parser) dispatchSpecifier(letter byte, delim, input string, ci int, rec *entry.Record) (int, error) {
	// skip specifiers: '^' and anything unrecognized advance the input
	// to the next template literal, best-effort, and never error.
	if !isKnownSpecifier(letter) {
		_, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
		if !ok {
			return len(input), nil
		}
		return next, nil
	}

	fieldKey := specifierFieldKey(letter)
	if fieldKey != "" && rec.IsSet(fieldKey) {
		_, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
		if !ok {
			return len(input), nil
		}
		return next, nil
	}

	switch letter {
	case 'd':
		return p.handleDate(delim, input, ci, rec)
	case 't':
		return p.handleTime(delim, input, ci, rec)
	case 'x':
		return p.handleCombinedDateTime(delim, input, ci, rec)
	case 'v':
		return p.handlePlainText(delim, input, ci, rec, "vhost", &rec.VHost)
	case 'e':
		return p.handlePlainText(delim, input, ci, rec, "userid", &rec.UserID)
	case 'C':
		return p.handleCacheStatus(delim, input, ci, rec)
	case 'h':
		return p.handleHost(delim, input, ci, rec)
	case 'm':
		return p.handleMethod(delim, input, ci, rec)
	case 'U':
		return p.handleRequestURL(delim, input, ci, rec)
	case 'q':
		return p.handleQuery(delim, input, ci, rec)
	case 'H':
		return p.handleProtocol(delim, input, ci, rec)
	case 'r':
		return p.handleFullRequest(delim, input, ci, rec)
	case 's':
		return p.handleStatus(delim, input, ci, rec)
	case 'b':
		return p.handleResponseSize(delim, input, ci, rec)
	case 'R':
		return p.handleReferrer(delim, input, ci, rec)
	case 'u':
		return p.handleUserAgent(delim, input, ci, rec)
	case 'L':
		return p.handleServeTime(delim, input, ci, rec, 1000)
	case 'T':
		return p.handleServeTimeSeconds(delim, input, ci, rec)
	case 'D':
		return p.handleServeTime(delim, input, ci, rec, 1)
	case 'n':
		return p.handleServeTimeDiv(delim, input, ci, rec, 1000)
	case 'k':
		return p.handlePlainText(delim, input, ci, rec, "tls_cipher", &rec.TLSCipher)
	case 'K':
		return p.handlePlainText(delim, input, ci, rec, "tls_version", &rec.TLSVersion)
	case 'M':
		return p.handlePlainText(delim, input, ci, rec, "mime_type", &rec.MIMEType)
	}
	return ci, nil
}

func isKnownSpecifier(letter byte) bool {
	switch letter {
	case 'd', 't', 'x', 'v', 'e', 'C', 'h', 'm', 'U', 'q', 'H', 'r', 's', 'b', 'R', 'u', 'L', 'T', 'D', 'n', 'k', 'K', 'M':
		return true
	}
	return false
}

func specifierFieldKey(letter byte) string {
	switch letter {
	case 'd':
		return "date"
	case 't':
		return "time"
	case 'v':
		return "vhost"
	case 'e':
		return "userid"
	case 'C':
		return "cache_status"
	case 'h':
		return "host"
	case 'm':
		return "method"
	case 'U':
		return "request"
	case 'q':
		return "query"
	case 'H':
		return "protocol"
	case 'r':
		return "request"
	case 's':
		return "status"
	case 'b':
		return "response_size"
	case 'R':
		return "referrer"
	case 'u':
		return "user_agent"
	case 'L', 'T', 'D', 'n':
		return "serve_time"
	case 'k':
		return "tls_cipher"
	case 'K':
		return "tls_version"
	case 'M':
		return "mime_type"
	}
	return ""
}

func (p *Parser) handlePlainText(delim, input string, ci int, rec *entry.Record, field string, dst *string) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: fieldLetter(field)}
	}
	*dst = tok
	rec.MarkSet(field)
	return next, nil
}

func fieldLetter(field string) byte {
	switch field {
	case "vhost":
		return 'v'
	case "userid":
		return 'e'
	case "tls_cipher":
		return 'k'
	case "tls_version":
		return 'K'
	case "mime_type":
		return 'M'
	}
	return '?'
}

func (p *Parser) handleHost(delim, input string, ci int, rec *entry.Record) (int, error) {
	var tok string
	var next int
	var ok bool
	if ci < len(input) && input[ci] == '[' {
		tok, next, ok = strutil.DelimSubstring(input, ci+1, "]", 1)
	} else {
		tok, next, ok = strutil.DelimSubstring(input, ci, delim, 1)
	}
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'h'}
	}
	kind, valid := validate.ClassifyIP(tok)
	if !valid && !p.opts.NoIPValidation {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'h', Token: tok}
	}
	rec.Host = tok
	if !valid {
		rec.HostIPKind = entry.IPInvalid
	} else {
		rec.HostIPKind = ipKindFrom(kind)
	}
	rec.MarkSet("host")
	return next, nil
}

func (p *Parser) handleMethod(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'm'}
	}
	canon, valid := validate.HTTPMethod(tok)
	if !valid {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'm', Token: tok}
	}
	rec.Method = canon
	rec.MarkSet("method")
	return next, nil
}

func (p *Parser) handleProtocol(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'H'}
	}
	canon, valid := validate.HTTPProtocol(tok)
	if !valid {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'H', Token: tok}
	}
	rec.Protocol = canon
	rec.MarkSet("protocol")
	return next, nil
}

func (p *Parser) handleCacheStatus(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'C'}
	}
	if canon, valid := validate.CacheStatus(tok); valid {
		rec.CacheStatus = canon
	}
	// silently discarded when not in the whitelist, per the source's
	// deliberately silent behavior here.
	rec.MarkSet("cache_status")
	return next, nil
}

func (p *Parser) handleRequestURL(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'U'}
	}
	decoded := strutil.URLDecode(tok, p.opts.DoubleDecode)
	if decoded == "" {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'U', Token: tok}
	}
	rec.Request = decoded
	rec.MarkSet("request")
	return next, nil
}

func (p *Parser) handleQuery(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'q'}
	}
	rec.Query = strutil.URLDecode(tok, p.opts.DoubleDecode)
	rec.MarkSet("query")
	return next, nil
}

func (p *Parser) handleFullRequest(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'r'}
	}
	method, url, proto, ok := splitRequestLine(tok)
	if !ok {
		rec.Request = "-"
		rec.MarkSet("request")
		return next, nil
	}
	rec.Request = strutil.URLDecode(url, p.opts.DoubleDecode)
	rec.MarkSet("request")
	if p.opts.AppendMethod {
		if canon, valid := validate.HTTPMethod(method); valid {
			rec.Method = canon
			rec.MarkSet("method")
		}
	}
	if p.opts.AppendProtocol {
		if canon, valid := validate.HTTPProtocol(proto); valid {
			rec.Protocol = canon
			rec.MarkSet("protocol")
		}
	}
	return next, nil
}

// splitRequestLine splits "METHOD URL PROTOCOL" on the first space
// (method) and the rightmost space (protocol); the remainder is the URL.
func splitRequestLine(s string) (method, url, proto string, ok bool) {
	first := strings.IndexByte(s, ' ')
	if first < 0 {
		return "", "", "", false
	}
	last := strings.LastIndexByte(s, ' ')
	if last <= first {
		return "", "", "", false
	}
	method = s[:first]
	url = s[first+1 : last]
	proto = s[last+1:]
	if method == "" || url == "" || proto == "" {
		return "", "", "", false
	}
	return method, url, proto, true
}

func (p *Parser) handleStatus(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 's'}
	}
	code, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || !validate.HTTPStatus(code, !p.opts.NoStrictStatus) {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 's', Token: tok}
	}
	rec.Status = code
	rec.MarkSet("status")
	return next, nil
}

func (p *Parser) handleResponseSize(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'b'}
	}
	v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 64)
	if err != nil {
		v = 0
	}
	rec.ResponseSize = v
	rec.BandwidthSeen = true
	rec.MarkSet("response_size")
	return next, nil
}

func (p *Parser) handleReferrer(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'R'}
	}
	decoded := strutil.URLDecode(tok, p.opts.DoubleDecode)
	if decoded == "" || decoded == "-" {
		rec.Referrer = "-"
	} else {
		rec.Referrer = decoded
		if kp, ok := extractKeyphrase(decoded); ok {
			rec.Keyphrase = kp
		}
		if site, ok := extractReferrerSite(decoded); ok {
			rec.ReferrerSite = site
		}
	}
	rec.MarkSet("referrer")
	return next, nil
}

func (p *Parser) handleUserAgent(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'u'}
	}
	decoded := strutil.URLDecode(tok, p.opts.DoubleDecode)
	if decoded == "" {
		decoded = "-"
	}
	rec.UserAgent = decoded
	rec.MarkSet("user_agent")
	return next, nil
}

// handleServeTime parses a decimal number and multiplies by mult to
// reach microseconds (used for %L, milliseconds*1000, and %D, microseconds*1).
func (p *Parser) handleServeTime(delim, input string, ci int, rec *entry.Record, mult uint64) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Token: tok}
	}
	rec.ServeTimeUs = uint64(f * float64(mult))
	rec.ServeTimeSeen = true
	rec.MarkSet("serve_time")
	return next, nil
}

// handleServeTimeDiv is the same as handleServeTime but divides instead
// of multiplying (used for %n, nanoseconds / 1000).
func (p *Parser) handleServeTimeDiv(delim, input string, ci int, rec *entry.Record, div uint64) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Token: tok}
	}
	rec.ServeTimeUs = uint64(f / float64(div))
	rec.ServeTimeSeen = true
	rec.MarkSet("serve_time")
	return next, nil
}

// handleServeTimeSeconds is %T: serve time in (possibly fractional)
// seconds, converted to microseconds.
func (p *Parser) handleServeTimeSeconds(delim, input string, ci int, rec *entry.Record) (int, error) {
	return p.handleServeTime(delim, input, ci, rec, 1000000)
}

func (p *Parser) handleDate(delim, input string, ci int, rec *entry.Record) (int, error) {
	n := p.dateOccurrenceCount(input, ci)
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, n)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'd'}
	}
	if timegrinder.IsEpochMarker(p.dateFormat) {
		t, err := p.engine.ParseEpoch(tok, p.dateFormat)
		if err != nil {
			return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'd', Token: tok}
		}
		bdt := timegrinder.FromTime(t)
		rec.BDT.MergeDate(bdt)
		rec.Date = rec.BDT.CanonicalDate()
		rec.NumDate = numDate(rec.Date)
		rec.MarkSet("date")
		return next, nil
	}
	bdt, err := p.engine.ParseTextual(tok, p.dateFormat)
	if err != nil {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'd', Token: tok}
	}
	rec.BDT.MergeDate(bdt)
	rec.Date = rec.BDT.CanonicalDate()
	rec.NumDate = numDate(rec.Date)
	rec.MarkSet("date")
	return next, nil
}

// dateOccurrenceCount implements the padded-date whitespace rule: the
// occurrence count passed to the delimiter search absorbs however many
// internal whitespace runs the configured date format and the live
// input agree could appear (e.g. "Dec  2" vs "Nov 22").
func (p *Parser) dateOccurrenceCount(input string, ci int) int {
	fmtspcs := strings.Count(p.dateFormat, " ")
	dspc := 0
	for i := ci; i < len(input) && input[i] == ' '; i++ {
		dspc++
	}
	n := fmtspcs
	if dspc > n {
		n = dspc
	}
	return n + 1
}

func (p *Parser) handleTime(delim, input string, ci int, rec *entry.Record) (int, error) {
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 't'}
	}
	bdt, err := p.engine.ParseTextual(tok, p.timeFormat)
	if err != nil {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 't', Token: tok}
	}
	rec.BDT.MergeTime(bdt)
	rec.Time = rec.BDT.CanonicalTime()
	rec.MarkSet("time")
	return next, nil
}

func (p *Parser) handleCombinedDateTime(delim, input string, ci int, rec *entry.Record) (int, error) {
	if rec.IsSet("date") || rec.IsSet("time") {
		_, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
		if !ok {
			return len(input), nil
		}
		return next, nil
	}
	tok, next, ok := strutil.DelimSubstring(input, ci, delim, 1)
	if !ok {
		return ci, &entry.ParseError{Code: entry.ErrSpecTokenNull, Specifier: 'x'}
	}
	var bdt timegrinder.BrokenDownTime
	if timegrinder.IsEpochMarker(p.xFormat) {
		t, err := p.engine.ParseEpoch(tok, p.xFormat)
		if err != nil {
			return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'x', Token: tok}
		}
		bdt = timegrinder.FromTime(t)
	} else {
		var err error
		if bdt, err = p.engine.ParseTextual(tok, p.xFormat); err != nil {
			return ci, &entry.ParseError{Code: entry.ErrSpecTokenInvalid, Specifier: 'x', Token: tok}
		}
	}
	rec.BDT = bdt
	rec.Date = bdt.CanonicalDate()
	rec.NumDate = numDate(rec.Date)
	rec.Time = bdt.CanonicalTime()
	rec.MarkSet("date")
	rec.MarkSet("time")
	return next, nil
}

func numDate(canonical string) uint32 {
	v, err := strconv.ParseUint(canonical, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
