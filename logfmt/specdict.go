package logfmt

import (
	"fmt"
	"strings"

	"github.com/gravwell/accesslog/jsonevents"
)

// SpecDict maps a dotted key path (built while descending a structured
// document) to the %-specifier pattern that should be applied to the
// scalar value found at that path. It is built once from the user's
// document-mode template and is read-only thereafter.
type SpecDict struct {
	m map[string]string
}

// BuildSpecDict walks template (a JSON-like document whose scalar string
// values are %-specifier patterns) and records each dotted path.
func BuildSpecDict(template string) (*SpecDict, error) {
	sd := &SpecDict{m: make(map[string]string, 16)}
	err := walkScalars([]byte(template), false, func(path, value string, isNumber bool) error {
		sd.m[path] = value
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("logfmt: invalid document template: %w", err)
	}
	return sd, nil
}

// walkScalars descends a structured document, invoking fn once per scalar
// (string/number/true/false/null) found directly inside an object, keyed
// by its dotted path from the document root. Array elements that are
// themselves scalars are reported at their parent key's path (repeated
// calls with the same path), matching the one-pattern-per-field model.
func walkScalars(data []byte, streaming bool, fn func(path, value string, isNumber bool) error) error {
	s := jsonevents.New(data)
	s.SetStreaming(streaming)

	var path []string
	// pushedForDepth[i] records whether entering stack depth i consumed a
	// pending object-key path segment (true for "key": {...} / "key": [...]),
	// so the matching End can pop exactly what Start pushed.
	var pushedForDepth []bool
	pendingKey := false

	scalar := func(value string, isNumber bool) error {
		if len(path) > 0 {
			if err := fn(strings.Join(path, "."), value, isNumber); err != nil {
				return err
			}
		}
		if pendingKey {
			path = path[:len(path)-1]
			pendingKey = false
		}
		return nil
	}

	for {
		ev := s.Next()
		switch ev {
		case jsonevents.Done:
			return nil
		case jsonevents.Error:
			return fmt.Errorf("%s", s.Err())
		case jsonevents.ObjectStart, jsonevents.ArrayStart:
			pushedForDepth = append(pushedForDepth, pendingKey)
			pendingKey = false
		case jsonevents.ObjectEnd, jsonevents.ArrayEnd:
			if n := len(pushedForDepth); n > 0 {
				popped := pushedForDepth[n-1]
				pushedForDepth = pushedForDepth[:n-1]
				if popped && len(path) > 0 {
					path = path[:len(path)-1]
				}
			}
		case jsonevents.String:
			kind, count := s.Context()
			if kind == jsonevents.Object && count%2 == 1 {
				path = append(path, s.CurrentString())
				pendingKey = true
				continue
			}
			if err := scalar(s.CurrentString(), false); err != nil {
				return err
			}
		case jsonevents.Number:
			if err := scalar(s.CurrentString(), true); err != nil {
				return err
			}
		case jsonevents.True:
			if err := scalar("true", false); err != nil {
				return err
			}
		case jsonevents.False:
			if err := scalar("false", false); err != nil {
				return err
			}
		case jsonevents.Null:
			if err := scalar("", false); err != nil {
				return err
			}
		}
	}
}

// Lookup returns the specifier pattern recorded at path, if any.
func (sd *SpecDict) Lookup(path string) (pattern string, ok bool) {
	pattern, ok = sd.m[path]
	return
}

// Len reports how many dotted paths were recorded.
func (sd *SpecDict) Len() int { return len(sd.m) }
