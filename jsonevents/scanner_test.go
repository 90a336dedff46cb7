package jsonevents

import "testing"

func drain(t *testing.T, s *Scanner) []Event {
	t.Helper()
	var evs []Event
	for {
		e := s.Next()
		evs = append(evs, e)
		if e == Done || e == Error {
			break
		}
	}
	return evs
}

func TestScalarString(t *testing.T) {
	s := New([]byte(`"hello"`))
	if e := s.Next(); e != String || s.CurrentString() != "hello" {
		t.Fatalf("got %v %q", e, s.CurrentString())
	}
	if e := s.Next(); e != Done {
		t.Fatalf("expected Done, got %v (%s)", e, s.Err())
	}
}

func TestObjectWithKeysAndValues(t *testing.T) {
	s := New([]byte(`{"a":1,"b":"two"}`))
	evs := drain(t, s)
	want := []Event{ObjectStart, String, Number, String, String, ObjectEnd, Done}
	if len(evs) != len(want) {
		t.Fatalf("got %v, want %v (%s)", evs, want, s.Err())
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, evs[i], want[i])
		}
	}
}

func TestNestedObjectDottedWalk(t *testing.T) {
	data := []byte(`{"request":{"client_ip":"127.0.0.1","uri":"/"}}`)
	s := New(data)
	var path []string
	var gotKV [][2]string
	for {
		e := s.Next()
		switch e {
		case ObjectStart:
			// nothing, path extended on next key
		case ObjectEnd:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		case String:
			kind, count := s.Context()
			if kind == Object && count%2 == 1 {
				path = append(path, s.CurrentString())
			} else {
				gotKV = append(gotKV, [2]string{joinPath(path), s.CurrentString()})
				path = path[:len(path)-1]
			}
		case Done:
			goto done
		case Error:
			t.Fatalf("unexpected error: %s", s.Err())
		}
	}
done:
	want := map[string]string{"request.client_ip": "127.0.0.1", "request.uri": "/"}
	if len(gotKV) != 2 {
		t.Fatalf("got %v", gotKV)
	}
	for _, kv := range gotKV {
		if want[kv[0]] != kv[1] {
			t.Fatalf("path %q = %q, want %q", kv[0], kv[1], want[kv[0]])
		}
	}
}

func joinPath(p []string) string {
	out := ""
	for i, s := range p {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func TestArray(t *testing.T) {
	s := New([]byte(`[1,2,3]`))
	evs := drain(t, s)
	want := []Event{ArrayStart, Number, Number, Number, ArrayEnd, Done}
	if len(evs) != len(want) {
		t.Fatalf("got %v want %v (%s)", evs, want, s.Err())
	}
}

func TestSurrogatePair(t *testing.T) {
	s := New([]byte(`"😀"`))
	if e := s.Next(); e != String {
		t.Fatalf("got %v (%s)", e, s.Err())
	}
	if got := []rune(s.CurrentString()); len(got) != 1 || got[0] != 0x1F600 {
		t.Fatalf("got %q", s.CurrentString())
	}
}

func TestUnpairedHighSurrogateError(t *testing.T) {
	s := New([]byte(`"\uD800"`))
	if e := s.Next(); e != Error {
		t.Fatalf("expected error for unpaired surrogate, got %v", e)
	}
}

func TestNumberLeadingZeroRejected(t *testing.T) {
	s := New([]byte(`01`))
	if e := s.Next(); e != Error {
		t.Fatalf("expected error for leading zero, got %v", e)
	}
}

func TestNumberGrammar(t *testing.T) {
	cases := []string{"0", "-0", "123", "-123.456", "1e10", "1E-10", "0.5"}
	for _, c := range cases {
		s := New([]byte(c))
		e := s.Next()
		if e != Number || s.CurrentString() != c {
			t.Fatalf("case %q: got %v %q (%s)", c, e, s.CurrentString(), s.Err())
		}
	}
}

func TestTrailingContentStrictError(t *testing.T) {
	s := New([]byte(`1 garbage`))
	if e := s.Next(); e != Number {
		t.Fatalf("got %v", e)
	}
	if e := s.Next(); e != Error {
		t.Fatalf("expected trailing content error, got %v", e)
	}
}

func TestStreamingToleratesTrailingWhitespace(t *testing.T) {
	s := New([]byte("1   \n"))
	s.SetStreaming(true)
	if e := s.Next(); e != Number {
		t.Fatalf("got %v", e)
	}
	if e := s.Next(); e != Done {
		t.Fatalf("expected Done, got %v (%s)", e, s.Err())
	}
}

func TestLiterals(t *testing.T) {
	s := New([]byte(`[true,false,null]`))
	evs := drain(t, s)
	want := []Event{ArrayStart, True, False, Null, ArrayEnd, Done}
	if len(evs) != len(want) {
		t.Fatalf("got %v want %v (%s)", evs, want, s.Err())
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Fatalf("event %d = %v want %v", i, evs[i], want[i])
		}
	}
}

func TestUnescapedControlCharRejected(t *testing.T) {
	s := New([]byte("\"a\nb\""))
	if e := s.Next(); e != Error {
		t.Fatalf("expected error for unescaped control char, got %v", e)
	}
}
