/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package timegrinder parses timestamps out of access-log tokens under an
// explicitly configured strftime-style pattern, or one of the numeric epoch
// markers (seconds, milliseconds, microseconds). Unlike a format-guessing
// extractor, the caller always names the pattern up front; the package's
// job is to apply it precisely and report the broken-down result.
package timegrinder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Epoch format markers. %s matches goaccess's own seconds marker; %f
// matches its microseconds marker. There is no canonical single-letter
// milliseconds marker in the reference implementation (it leans on an
// undocumented "%*" internally), so this package names one explicitly.
const (
	EpochSeconds      = "%s"
	EpochMilliseconds = "%ms"
	EpochMicroseconds = "%f"
)

var (
	monthLookup map[string]time.Month

	// tzMu serializes process-wide timezone changes. time.LoadLocation
	// itself only touches process-local state (no env var mutation in the
	// Go runtime), so a re-entrant Location swap under this mutex is
	// sufficient to make zone-qualified conversions appear atomic to
	// callers. Location reads take the same package-wide lock, shared by
	// every Engine.
	tzMu sync.Mutex
)

func init() {
	monthLookup = make(map[string]time.Month, 48)
	populateMonthLookup(monthLookup)
}

// Engine applies configured date/time patterns to extracted tokens.
// An Engine is safe for concurrent use once constructed; SetTimezone
// is the only mutating call and is itself serialized.
type Engine struct {
	loc *time.Location
}

// New returns an Engine defaulting to UTC.
func New() *Engine {
	return &Engine{loc: time.UTC}
}

func (e *Engine) SetUTC() {
	tzMu.Lock()
	defer tzMu.Unlock()
	e.loc = time.UTC
}

func (e *Engine) SetLocalTime() {
	tzMu.Lock()
	defer tzMu.Unlock()
	e.loc = time.Local
}

// SetTimezone loads an IANA zone by name and installs it as the engine's
// conversion target. Concurrent readers that call Location after this
// returns will observe either the old or the new zone, never a partially
// loaded one, because time.Location values are immutable once built.
func (e *Engine) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	tzMu.Lock()
	e.loc = loc
	tzMu.Unlock()
	return nil
}

func (e *Engine) Location() *time.Location {
	tzMu.Lock()
	defer tzMu.Unlock()
	return e.loc
}

// ErrEmptyToken and friends describe the textual-parse failure modes
// named in the date/time engine's contract.
var (
	ErrEmptyToken      = errors.New("timegrinder: empty token")
	ErrTrailingContent = errors.New("timegrinder: trailing unparsed content")
	ErrFieldExtraction = errors.New("timegrinder: failed to extract field")
)

// IsEpochMarker reports whether pattern names one of the numeric epoch
// formats rather than a strftime-style textual layout.
func IsEpochMarker(pattern string) bool {
	switch pattern {
	case EpochSeconds, EpochMilliseconds, EpochMicroseconds:
		return true
	}
	return false
}

// ParseEpoch parses token as a (possibly fractional) decimal number of
// seconds/milliseconds/microseconds since the Unix epoch, per marker, and
// returns the corresponding UTC-based instant (epoch values carry no zone
// information so they are interpreted in the engine's configured zone only
// for display, never for the arithmetic itself).
func (e *Engine) ParseEpoch(token, marker string) (t time.Time, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		err = ErrEmptyToken
		return
	}
	f, ferr := strconv.ParseFloat(token, 64)
	if ferr != nil {
		err = fmt.Errorf("%w: %v", ErrFieldExtraction, ferr)
		return
	}
	var secs float64
	switch marker {
	case EpochSeconds:
		secs = f
	case EpochMilliseconds:
		secs = f / 1e3
	case EpochMicroseconds:
		secs = f / 1e6
	default:
		err = fmt.Errorf("timegrinder: unknown epoch marker %q", marker)
		return
	}
	whole := int64(secs)
	frac := secs - float64(whole)
	t = time.Unix(whole, int64(frac*1e9)).In(e.Location())
	return
}

// ParseTextual applies a strftime-style pattern to token, requiring the
// pattern to consume token in full. It returns whichever broken-down
// fields the pattern names; fields it does not name are left at their
// zero value so a caller combining a date pattern and a time pattern can
// merge the two results field-by-field.
func (e *Engine) ParseTextual(token, pattern string) (bdt BrokenDownTime, err error) {
	if token == "" {
		err = ErrEmptyToken
		return
	}
	ti, tn := 0, 0
	for tn < len(pattern) {
		pc := pattern[tn]
		if pc == '%' && tn+1 < len(pattern) {
			dir, width := directive(pattern[tn+1:])
			tn += 1 + width
			var adv int
			if adv, err = applyDirective(dir, token[ti:], &bdt); err != nil {
				return
			}
			ti += adv
			continue
		}
		if ti >= len(token) || token[ti] != pc {
			err = fmt.Errorf("%w: expected %q at %q", ErrFieldExtraction, string(pc), token[ti:])
			return
		}
		ti++
		tn++
	}
	if ti != len(token) {
		err = fmt.Errorf("%w: %q", ErrTrailingContent, token[ti:])
		return
	}
	return
}

// directive returns the single-byte directive letter (e.g. a literal '%'
// for "%%") and how many pattern bytes it consumes after the leading '%',
// which is always 1 for a non-empty rest.
func directive(rest string) (letter byte, width int) {
	if len(rest) == 0 {
		return 0, 0
	}
	return rest[0], 1
}

func applyDirective(dir byte, tok string, bdt *BrokenDownTime) (adv int, err error) {
	switch dir {
	case 'Y':
		adv, err = consumeDigits(tok, 4, 4, &bdt.Year)
	case 'y':
		var yy int
		if adv, err = consumeDigits(tok, 1, 2, &yy); err == nil {
			if yy < 69 {
				bdt.Year = 2000 + yy
			} else {
				bdt.Year = 1900 + yy
			}
		}
	case 'm':
		adv, err = consumeDigits(tok, 1, 2, &bdt.Month)
	case 'd':
		adv, err = consumeDayOfMonth(tok, &bdt.Day)
	case 'e':
		adv, err = consumeDayOfMonth(tok, &bdt.Day)
	case 'H':
		adv, err = consumeDigits(tok, 1, 2, &bdt.Hour)
	case 'M':
		adv, err = consumeDigits(tok, 1, 2, &bdt.Minute)
	case 'S':
		adv, err = consumeDigits(tok, 1, 2, &bdt.Second)
	case 'b', 'B':
		adv, err = consumeMonthName(tok, &bdt.Month)
	case '%':
		if len(tok) == 0 || tok[0] != '%' {
			err = fmt.Errorf("%w: expected '%%'", ErrFieldExtraction)
			return
		}
		adv = 1
	default:
		err = fmt.Errorf("timegrinder: unsupported directive %%%c", dir)
	}
	return
}

func consumeDigits(tok string, min, max int, dst *int) (adv int, err error) {
	n := 0
	for adv < len(tok) && adv < max && tok[adv] >= '0' && tok[adv] <= '9' {
		n = n*10 + int(tok[adv]-'0')
		adv++
	}
	if adv < min {
		err = fmt.Errorf("%w: numeric field too short in %q", ErrFieldExtraction, tok)
		return
	}
	*dst = n
	return
}

// consumeDayOfMonth allows a single leading space for space-padded days
// ("Dec  2") in addition to the normal zero-padded form.
func consumeDayOfMonth(tok string, dst *int) (adv int, err error) {
	if len(tok) > 0 && tok[0] == ' ' {
		adv++
		tok = tok[1:]
	}
	var n int
	var a int
	if a, err = consumeDigits(tok, 1, 2, &n); err != nil {
		return
	}
	adv += a
	*dst = n
	return
}

func consumeMonthName(tok string, dst *int) (adv int, err error) {
	for adv < len(tok) && ((tok[adv] >= 'a' && tok[adv] <= 'z') || (tok[adv] >= 'A' && tok[adv] <= 'Z')) {
		adv++
	}
	if adv == 0 {
		err = fmt.Errorf("%w: expected month name in %q", ErrFieldExtraction, tok)
		return
	}
	m, ok := monthLookup[tok[:adv]]
	if !ok {
		err = fmt.Errorf("%w: unknown month name %q", ErrFieldExtraction, tok[:adv])
		return
	}
	*dst = int(m)
	return
}

func populateMonthLookup(ml map[string]time.Month) {
	add := func(m time.Month, names ...string) {
		for _, n := range names {
			ml[n] = m
		}
	}
	add(time.January, "Jan", "jan", "JAN", "January", "january")
	add(time.February, "Feb", "feb", "FEB", "February", "february", "feburary")
	add(time.March, "Mar", "mar", "MAR", "March", "march")
	add(time.April, "Apr", "apr", "APR", "April", "april")
	add(time.May, "May", "may", "MAY")
	add(time.June, "Jun", "jun", "JUN", "June", "june", "JUNE")
	add(time.July, "Jul", "jul", "JUL", "July", "july", "JULY")
	add(time.August, "Aug", "aug", "AUG", "August", "august")
	add(time.September, "Sept", "sept", "SEPT", "September", "september", "Sep", "sep", "SEP")
	add(time.October, "Oct", "oct", "OCT", "October", "october")
	add(time.November, "Nov", "nov", "NOV", "November", "november")
	add(time.December, "Dec", "dec", "DEC", "December", "december")
}
