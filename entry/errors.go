package entry

import "fmt"

// ErrCode is the error taxonomy raised during tokenization and record
// assembly, matching the reference parser's four specifier-level codes
// plus the assembler's missing-field check.
type ErrCode int

const (
	// ErrNone indicates success; zero value so a freshly zeroed ParseError
	// is never mistaken for a populated error.
	ErrNone ErrCode = iota
	// ErrSpecTokenNull: the expected delimiter was not found before
	// end-of-input, so no token could be extracted at all.
	ErrSpecTokenNull
	// ErrSpecTokenInvalid: a token was extracted but failed its
	// per-specifier validator (bad IP, unknown method/protocol, bad
	// status, unparseable date).
	ErrSpecTokenInvalid
	// ErrSpecBraceMissing: a special specifier (~h) required a {...}
	// annotation that was absent.
	ErrSpecBraceMissing
	// ErrLineInvalid: the template still expected a specifier when the
	// input was fully consumed and the remainder cannot be matched.
	ErrLineInvalid
	// ErrMissingField: post-parse, a required field is unset.
	ErrMissingField
)

func (c ErrCode) String() string {
	switch c {
	case ErrSpecTokenNull:
		return "spec-token-null"
	case ErrSpecTokenInvalid:
		return "spec-token-invalid"
	case ErrSpecBraceMissing:
		return "spec-brace-missing"
	case ErrLineInvalid:
		return "line-invalid"
	case ErrMissingField:
		return "missing-field"
	default:
		return "none"
	}
}

// ParseError is the single error type the parser returns; Code names
// which class of failure occurred, Specifier and Token echo the
// offending input for diagnostics.
type ParseError struct {
	Code      ErrCode
	Specifier byte
	Token     string
	Field     string
}

func (e *ParseError) Error() string {
	switch e.Code {
	case ErrSpecTokenNull:
		return fmt.Sprintf("%s: unable to find specifier %%%c end token", e.Code, e.Specifier)
	case ErrSpecTokenInvalid:
		return fmt.Sprintf("%s: specifier %%%c token %q is invalid", e.Code, e.Specifier, e.Token)
	case ErrSpecBraceMissing:
		return fmt.Sprintf("%s: special specifier ~%c missing brace annotation", e.Code, e.Specifier)
	case ErrLineInvalid:
		return fmt.Sprintf("%s: line does not match the configured format", e.Code)
	case ErrMissingField:
		return fmt.Sprintf("%s: required field %q was not set", e.Code, e.Field)
	default:
		return "entry: no error"
	}
}

// Is allows errors.Is(err, &entry.ParseError{Code: entry.ErrMissingField})
// style comparisons by code, ignoring the diagnostic payload.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Code == e.Code
}

// SoftIgnore is the sentinel returned (as the error) for blank lines or
// lines starting with '#'. It is a single *ParseError value with Code
// ErrNone, distinct from every error the parser raises, so downstream
// aggregation can distinguish "not a line" from "invalid line" (by
// identity or IsSoftIgnore) and skip incrementing the invalid-lines
// counter for it.
var SoftIgnore = &ParseError{Code: ErrNone, Field: "soft-ignore"}

func (e *ParseError) IsSoftIgnore() bool { return e == SoftIgnore }
