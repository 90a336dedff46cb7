// Package entry holds the output data model of the parser: the Record
// type assembled by one call to Parse, and the typed error taxonomy the
// tokenizer and record assembler raise.
package entry

import "github.com/gravwell/accesslog/timegrinder"

// IPKind mirrors validate.IPKind without creating an import cycle between
// entry and validate; logfmt converts between the two at the boundary.
type IPKind int

const (
	IPInvalid IPKind = iota
	IPv4
	IPv6
)

// Record is the normalized output of parsing one log line. Every text
// field is either unset (zero value) or populated exactly once by the
// tokenizer; a repeated specifier targeting an already-set field is a
// no-op other than advancing the input cursor.
type Record struct {
	Host       string
	HostIPKind IPKind

	Date    string // canonical YYYYMMDD
	NumDate uint32
	Time    string // canonical HH:MM:SS
	BDT     timegrinder.BrokenDownTime

	VHost       string
	UserID      string
	CacheStatus string

	Method   string
	Protocol string
	Request  string
	Query    string

	Status       int // -1 until parsed, else 0..=599
	ResponseSize uint64
	ServeTimeUs  uint64

	Referrer     string
	Keyphrase    string
	ReferrerSite string

	UserAgent string

	MIMEType   string
	TLSVersion string
	TLSCipher  string

	BandwidthSeen bool
	ServeTimeSeen bool

	set map[string]bool
}

// New returns a freshly initialized Record with Status defaulted to -1
// per the "no status parsed yet" invariant.
func New() *Record {
	return &Record{Status: -1, set: make(map[string]bool, 24)}
}

// IsSet reports whether field has already been populated once; the
// tokenizer's specifier handlers use this to implement the once-only law.
func (r *Record) IsSet(field string) bool {
	return r.set[field]
}

// MarkSet records that field has now been populated, so a later repeated
// specifier targeting it becomes a no-op.
func (r *Record) MarkSet(field string) {
	if r.set == nil {
		r.set = make(map[string]bool, 24)
	}
	r.set[field] = true
}
