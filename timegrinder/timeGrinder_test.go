package timegrinder

import "testing"

func TestParseTextualApacheDate(t *testing.T) {
	e := New()
	bdt, err := e.ParseTextual("11/Jun/2023", "%d/%b/%Y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bdt.Year != 2023 || bdt.Month != 6 || bdt.Day != 11 {
		t.Fatalf("unexpected broken down date: %+v", bdt)
	}
	if got := bdt.CanonicalDate(); got != "20230611" {
		t.Fatalf("canonical date = %q, want 20230611", got)
	}
}

func TestParseTextualSpacePaddedDay(t *testing.T) {
	e := New()
	bdt, err := e.ParseTextual("Dec  2/2023", "%b %d/%Y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bdt.Day != 2 || bdt.Month != 12 {
		t.Fatalf("unexpected broken down date: %+v", bdt)
	}
}

func TestParseTextualTime(t *testing.T) {
	e := New()
	bdt, err := e.ParseTextual("01:23:45", "%H:%M:%S")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bdt.Hour != 1 || bdt.Minute != 23 || bdt.Second != 45 {
		t.Fatalf("unexpected broken down time: %+v", bdt)
	}
	if got := bdt.CanonicalTime(); got != "01:23:45" {
		t.Fatalf("canonical time = %q, want 01:23:45", got)
	}
}

func TestParseTextualTrailingContent(t *testing.T) {
	e := New()
	if _, err := e.ParseTextual("01:23:45extra", "%H:%M:%S"); err == nil {
		t.Fatalf("expected trailing content error")
	}
}

func TestParseTextualEmptyToken(t *testing.T) {
	e := New()
	if _, err := e.ParseTextual("", "%H:%M:%S"); err != ErrEmptyToken {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestParseEpochSeconds(t *testing.T) {
	e := New()
	tt, err := e.ParseEpoch("1646861401", EpochSeconds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Unix() != 1646861401 {
		t.Fatalf("unix = %d, want 1646861401", tt.Unix())
	}
}

func TestParseEpochFractionalSeconds(t *testing.T) {
	e := New()
	tt, err := e.ParseEpoch("1646861401.5241024", EpochSeconds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Unix() != 1646861401 {
		t.Fatalf("unix = %d, want 1646861401", tt.Unix())
	}
}

func TestParseEpochMilliseconds(t *testing.T) {
	e := New()
	tt, err := e.ParseEpoch("1646861401500", EpochMilliseconds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Unix() != 1646861401 {
		t.Fatalf("unix = %d, want 1646861401", tt.Unix())
	}
}

func TestIsEpochMarker(t *testing.T) {
	for _, m := range []string{EpochSeconds, EpochMilliseconds, EpochMicroseconds} {
		if !IsEpochMarker(m) {
			t.Fatalf("%q should be recognized as epoch marker", m)
		}
	}
	if IsEpochMarker("%Y-%m-%d") {
		t.Fatalf("textual pattern misclassified as epoch marker")
	}
}

func TestSetTimezone(t *testing.T) {
	e := New()
	if err := e.SetTimezone("America/New_York"); err != nil {
		t.Fatalf("unexpected error loading timezone: %v", err)
	}
	if e.Location().String() != "America/New_York" {
		t.Fatalf("location = %v, want America/New_York", e.Location())
	}
	e.SetUTC()
	if e.Location().String() != "UTC" {
		t.Fatalf("location = %v, want UTC", e.Location())
	}
}
