// Package logfmt ties together C1-C6 (string primitives, timestamp
// parsing, validators, the document scanner, the specifier dictionary,
// and the tokenizer) into the single Parser entry point: one configured
// format in, one assembled entry.Record out per call.
package logfmt

import (
	"fmt"
	"strings"

	"github.com/gravwell/accesslog/entry"
	"github.com/gravwell/accesslog/timegrinder"
)

// Parser holds one resolved log format and the engine state (timezone)
// needed to apply it repeatedly. Construct one per configured format and
// reuse it across lines. Parse does not modify the Parser, and its
// timegrinder.Engine is safe for concurrent use, so one Parser may be
// shared by several goroutines.
type Parser struct {
	opts Options

	template   string
	dateFormat string
	timeFormat string
	xFormat    string

	jsonMode bool
	specDict *SpecDict

	engine *timegrinder.Engine
}

// NewParser resolves opts (expanding a named preset, if LogFormat names
// one) and builds the specifier dictionary up front when the resolved
// template is structured-document syntax.
func NewParser(opts Options) (*Parser, error) {
	template, df, tf, xf := opts.resolve()
	if template == "" {
		return nil, fmt.Errorf("logfmt: empty log format")
	}
	p := &Parser{
		opts:       opts,
		template:   template,
		dateFormat: df,
		timeFormat: tf,
		xFormat:    xf,
		engine:     timegrinder.New(),
	}
	if opts.TZName != "" {
		if err := p.engine.SetTimezone(opts.TZName); err != nil {
			return nil, fmt.Errorf("logfmt: %w", err)
		}
	}
	if IsJSONLogFormat(template) {
		sd, err := BuildSpecDict(template)
		if err != nil {
			return nil, err
		}
		p.jsonMode = true
		p.specDict = sd
	}
	return p, nil
}

// Parse assembles one entry.Record from a raw log line. Blank lines and
// lines starting with '#' return entry.SoftIgnore rather than a
// ParseError, so callers can skip them without counting them as invalid.
func (p *Parser) Parse(line []byte) (*entry.Record, error) {
	s := string(line)
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, entry.SoftIgnore
	}

	rec := entry.New()
	var err error
	if p.jsonMode {
		err = p.parseDocument(s, rec)
	} else {
		err = p.parseTemplate(s, p.template, rec)
	}
	if err != nil {
		return rec, err
	}
	return p.assemble(rec)
}

// parseDocument walks a structured-document line, looking up the
// specifier pattern recorded for each scalar's dotted path and applying
// it to that scalar's text exactly as the tokenizer would apply a
// template fragment to a delimited token.
func (p *Parser) parseDocument(line string, rec *entry.Record) error {
	return walkScalars([]byte(line), true, func(path, value string, isNumber bool) error {
		pattern, ok := p.specDict.Lookup(path)
		if !ok {
			return nil
		}
		if _, err := p.applyValuePattern(value, pattern, rec); err != nil {
			return err
		}
		return nil
	})
}

// applyValuePattern runs one decoded scalar value through parseTemplate
// under pattern, reusing the template engine so %-specifiers behave
// identically whether they came from a delimited template or a
// structured document's leaf value. A specifier with no trailing
// delimiter character consumes the value to its end, since
// strutil.DelimSubstring treats an empty delimiter set as "take the
// remainder", which is exactly the whole scalar here.
func (p *Parser) applyValuePattern(value, pattern string, rec *entry.Record) (int, error) {
	err := p.parseTemplate(value, pattern, rec)
	return len(value), err
}

// assemble enforces the required-field invariants and default values
// after tokenization, per the "missing-field" error class.
func (p *Parser) assemble(rec *entry.Record) (*entry.Record, error) {
	if !rec.IsSet("host") || rec.Host == "" {
		return rec, &entry.ParseError{Code: entry.ErrMissingField, Field: "host"}
	}
	if !rec.IsSet("date") {
		return rec, &entry.ParseError{Code: entry.ErrMissingField, Field: "date"}
	}
	if !rec.IsSet("request") || rec.Request == "" {
		return rec, &entry.ParseError{Code: entry.ErrMissingField, Field: "request"}
	}
	if rec.UserAgent == "" {
		rec.UserAgent = "-"
	}
	return rec, nil
}
