package timegrinder

import (
	"fmt"
	"time"
)

// BrokenDownTime mirrors a struct-tm: individually settable calendar and
// clock fields plus a daylight-saving flag. Zero value means "field not
// yet populated" for every field except DST, which defaults to false
// (unknown/not observed).
type BrokenDownTime struct {
	Year, Month, Day    int
	Hour, Minute, Second int
	DST                 bool
}

// MergeDate copies the date-related fields from other, leaving time
// fields untouched. Used to combine a separately-parsed %d token with a
// %t token into one broken-down time.
func (b *BrokenDownTime) MergeDate(other BrokenDownTime) {
	b.Year, b.Month, b.Day = other.Year, other.Month, other.Day
}

// MergeTime copies the clock-related fields from other.
func (b *BrokenDownTime) MergeTime(other BrokenDownTime) {
	b.Hour, b.Minute, b.Second = other.Hour, other.Minute, other.Second
}

// CanonicalDate renders YYYYMMDD, the bucket-key form downstream
// aggregators parse as an unsigned 32-bit integer.
func (b BrokenDownTime) CanonicalDate() string {
	return fmt.Sprintf("%04d%02d%02d", b.Year, b.Month, b.Day)
}

// CanonicalTime renders HH:MM:SS.
func (b BrokenDownTime) CanonicalTime() string {
	return fmt.Sprintf("%02d:%02d:%02d", b.Hour, b.Minute, b.Second)
}

// FromTime derives a BrokenDownTime from a time.Time already converted
// into the desired zone.
func FromTime(t time.Time) BrokenDownTime {
	return BrokenDownTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}
