package logfmt

import (
	"strings"

	"github.com/gravwell/accesslog/strutil"
)

// referrerSiteMaxLen caps the extracted referrer host, matching the
// reference implementation's fixed-capacity referrer-site buffer.
const referrerSiteMaxLen = 511

var googleHostPrefixes = []string{
	"http://www.google.", "https://www.google.",
	"http://webcache.googleusercontent.com/", "https://webcache.googleusercontent.com/",
	"http://translate.googleusercontent.com/", "https://translate.googleusercontent.com/",
}

func isGoogleSearchHost(referrer string) bool {
	for _, p := range googleHostPrefixes {
		if strings.HasPrefix(referrer, p) {
			return true
		}
	}
	return false
}

// extractKeyphrase pulls the search query out of a Google search, cache,
// or translate URL. The "/+&" pattern is checked first because any
// string containing it also contains "/+"; matching it silently aborts
// extraction rather than falling through to the "/+" case, preserving
// the reference parser's quirky "match but refuse" behavior.
func extractKeyphrase(referrer string) (phrase string, ok bool) {
	if !isGoogleSearchHost(referrer) {
		return "", false
	}
	if strings.Contains(referrer, "/+&") {
		return "", false
	}

	var start int
	encoded := false
	switch {
	case strings.Contains(referrer, "/+"):
		start = strings.Index(referrer, "/+") + 2
	case strings.Contains(referrer, "q=cache:"):
		idx := strings.Index(referrer, "q=cache:")
		rel := strings.IndexByte(referrer[idx:], '+')
		if rel < 0 {
			return "", false
		}
		start = idx + rel + 1
	case strings.Contains(referrer, "&q="):
		start = strings.Index(referrer, "&q=") + 3
	case strings.Contains(referrer, "?q="):
		start = strings.Index(referrer, "?q=") + 3
	case strings.Contains(referrer, "%26q%3D"):
		start = strings.Index(referrer, "%26q%3D") + 7
		encoded = true
	case strings.Contains(referrer, "%3Fq%3D"):
		start = strings.Index(referrer, "%3Fq%3D") + 7
		encoded = true
	default:
		return "", false
	}
	if start > len(referrer) {
		return "", false
	}

	end := len(referrer)
	if encoded {
		if i := strings.Index(referrer[start:], "%26"); i >= 0 {
			end = start + i
		}
	} else if i := strings.IndexByte(referrer[start:], '&'); i >= 0 {
		end = start + i
	}

	decoded := strutil.URLDecode(referrer[start:end], false)
	decoded = strings.ReplaceAll(decoded, "+", " ")
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return "", false
	}
	return decoded, true
}

// extractReferrerSite pulls the host portion out of a referrer URL: from
// the "//" scheme separator to the next '/' or '?', truncated to the
// fixed maximum capacity.
func extractReferrerSite(referrer string) (site string, ok bool) {
	idx := strings.Index(referrer, "//")
	if idx < 0 {
		return "", false
	}
	rest := referrer[idx+2:]
	end := len(rest)
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		end = i
	}
	site = rest[:end]
	if len(site) > referrerSiteMaxLen {
		site = site[:referrerSiteMaxLen]
	}
	if site == "" {
		return "", false
	}
	return site, true
}
