// Package validate implements the per-specifier value validators: IP
// address classification, HTTP method/protocol whitelists, HTTP status
// code validity, and cache-status whitelist membership.
package validate

import (
	"net"
	"strings"
)

// IPKind classifies a host token.
type IPKind int

const (
	IPInvalid IPKind = iota
	IPv4
	IPv6
)

func (k IPKind) String() string {
	switch k {
	case IPv4:
		return "v4"
	case IPv6:
		return "v6"
	default:
		return "invalid"
	}
}

// ClassifyIP strips a single pair of surrounding brackets (for bracketed
// IPv6 hosts, e.g. "[::1]") before parsing, and reports whether the
// result parses as IPv4, IPv6, or neither.
func ClassifyIP(token string) (kind IPKind, ok bool) {
	token = strings.TrimSpace(token)
	if len(token) >= 2 && token[0] == '[' && token[len(token)-1] == ']' {
		token = token[1 : len(token)-1]
	}
	ip := net.ParseIP(token)
	if ip == nil {
		return IPInvalid, false
	}
	if ip.To4() != nil && !strings.Contains(token, ":") {
		return IPv4, true
	}
	return IPv6, true
}

var httpMethods = []string{
	"OPTIONS", "GET", "HEAD", "POST", "PUT", "DELETE", "TRACE", "CONNECT", "PATCH", "SEARCH",
	"PROPFIND", "PROPPATCH", "MKCOL", "COPY", "MOVE", "LOCK", "UNLOCK",
	"VERSION-CONTROL", "REPORT", "CHECKOUT", "CHECKIN", "UNCHECKOUT",
	"MKWORKSPACE", "UPDATE", "LABEL", "MERGE", "BASELINE-CONTROL",
	"MKACTIVITY", "ORDERPATCH",
}

// HTTPMethod case-insensitively matches token against the fixed method
// whitelist and returns the canonical upper-case form.
func HTTPMethod(token string) (canonical string, ok bool) {
	up := strings.ToUpper(strings.TrimSpace(token))
	for _, m := range httpMethods {
		if up == m {
			return m, true
		}
	}
	return "", false
}

var httpProtocols = []string{"HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP/3"}

// HTTPProtocol case-insensitively prefix-matches token against the
// protocol whitelist and returns the canonical upper-case form.
func HTTPProtocol(token string) (canonical string, ok bool) {
	up := strings.ToUpper(strings.TrimSpace(token))
	for _, p := range httpProtocols {
		if strings.HasPrefix(up, p) {
			return p, true
		}
	}
	return "", false
}

var cacheStatuses = map[string]string{
	"MISS":        "MISS",
	"BYPASS":      "BYPASS",
	"EXPIRED":     "EXPIRED",
	"STALE":       "STALE",
	"UPDATING":    "UPDATING",
	"REVALIDATED": "REVALIDATED",
	"HIT":         "HIT",
}

// CacheStatus case-insensitively looks token up in the cache-status
// whitelist. ok is false when token is not a recognized cache status;
// callers should silently drop the field rather than error, per the
// source's deliberately silent behavior here.
func CacheStatus(token string) (canonical string, ok bool) {
	canonical, ok = cacheStatuses[strings.ToUpper(strings.TrimSpace(token))]
	return
}

// registeredStatus holds, per status code, whether it has a registered
// description. Century membership (century*100..century*100+99 falling
// within 0..599) is implied by range; only individual-code registration
// is the binding constraint in the 0-599 range, taken verbatim from the
// reference implementation's status table.
var registeredStatus = buildRegisteredStatus()

func buildRegisteredStatus() map[int]bool {
	m := make(map[int]bool, 96)
	reg := func(codes ...int) {
		for _, c := range codes {
			m[c] = true
		}
	}
	reg(0)
	reg(100, 101)
	reg(200, 201, 202, 203, 204, 205, 206, 207, 208, 218)
	reg(300, 301, 302, 303, 304, 305, 307, 308)
	reg(400, 401, 402, 403, 404, 405, 406, 407, 408, 409,
		410, 411, 412, 413, 414, 415, 416, 417, 418, 419,
		420, 421, 422, 423, 424, 426, 428, 429, 430, 431,
		440, 444, 449, 450, 451, 460, 461, 462,
		494, 495, 496, 497, 498, 499)
	reg(500, 501, 502, 503, 504, 505, 509)
	reg(520, 521, 522, 523, 524, 525, 526, 527, 528, 530, 540, 561, 598, 599)
	return m
}

// HTTPStatus reports whether code is in 0..=599 and has a registered
// description. strict=false (no_strict_status) accepts any code in range
// regardless of registration.
func HTTPStatus(code int, strict bool) bool {
	if code < 0 || code > 599 {
		return false
	}
	if !strict {
		return true
	}
	return registeredStatus[code]
}
