package logfmt

import (
	"strings"

	"github.com/gravwell/accesslog/validate"
)

// extractBraces finds the first unescaped {...} pair starting at s[0] and
// returns its contents plus the offset just past the closing brace.
func extractBraces(s string) (contents string, rest int, ok bool) {
	if len(s) == 0 || s[0] != '{' {
		return "", 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '}' {
			return s[1:i], i + 1, true
		}
	}
	return "", 0, false
}

// findXFFHost scans input, splitting on any byte in reject, evaluating
// each sub-token as a candidate IP address. The first sub-token that
// parses as a valid IPv4/IPv6 address wins. Regardless of where in the
// field that winner sits, the scan keeps consuming the remainder of the
// field (up to hardStop, or to the end of input when hardStop is empty)
// so the caller's cursor always lands just past the whole XFF field, not
// just past the winning candidate.
func findXFFHost(input, reject, hardStop string) (host string, kind validate.IPKind, consumed int, ok bool) {
	found := false
	start := 0
	for {
		end := start
		stoppedHard := false
		for end < len(input) {
			c := input[end]
			if hardStop != "" && strings.IndexByte(hardStop, c) >= 0 {
				stoppedHard = true
				break
			}
			if strings.IndexByte(reject, c) >= 0 {
				break
			}
			end++
		}
		if !found {
			candidate := strings.TrimSpace(input[start:end])
			if k, valid := validate.ClassifyIP(candidate); valid {
				host, kind, found = candidate, k, true
			}
		}
		if stoppedHard {
			return host, kind, end + 1, found
		}
		if end >= len(input) {
			return host, kind, end, found
		}
		start = end + 1
	}
}
