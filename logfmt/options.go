package logfmt

import (
	"github.com/gravwell/accesslog/config"
	"github.com/gravwell/accesslog/jsonevents"
)

// Options is the runtime configuration surface the parser consumes.
// config.ParserConfig loads these from an INI file; callers embedding
// the parser directly can also construct Options by hand.
type Options struct {
	LogFormat  string // template text, or a name from Presets
	DateFormat string // strftime-style pattern or an epoch marker
	TimeFormat string
	XFormat    string // pattern for a combined %x date+time token

	TZName string // IANA zone name, empty means no conversion

	DoubleDecode bool
	AppendMethod bool
	AppendProtocol bool
	NoStrictStatus bool
	NoIPValidation bool
}

// resolve expands a preset name in LogFormat, filling in default
// date/time/x formats when the caller left them blank.
func (o Options) resolve() (template, dateFormat, timeFormat, xFormat string) {
	template, dateFormat, timeFormat, xFormat = o.LogFormat, o.DateFormat, o.TimeFormat, o.XFormat
	if p, ok := Presets[o.LogFormat]; ok {
		template = p.Template
		if dateFormat == "" {
			dateFormat = p.DateFormat
		}
		if timeFormat == "" {
			timeFormat = p.TimeFormat
		}
		if xFormat == "" {
			xFormat = p.XFormat
		}
	}
	return
}

// OptionsFromConfig translates a loaded ParserConfig's [global] section
// into Options.
func OptionsFromConfig(cfg config.ParserConfig) Options {
	g := cfg.Global
	return Options{
		LogFormat:      g.Log_Format,
		DateFormat:     g.Date_Format,
		TimeFormat:     g.Time_Format,
		XFormat:        g.X_Format,
		TZName:         g.Timezone,
		DoubleDecode:   g.Double_Decode,
		AppendMethod:   g.Append_Method,
		AppendProtocol: g.Append_Protocol,
		NoStrictStatus: g.No_Strict_Status,
		NoIPValidation: g.No_IP_Validation,
	}
}

// IsJSONLogFormat runs the structured-document scanner over template in
// strict (non-streaming) mode to decide whether it is document syntax;
// a syntax error anywhere means literal/template mode.
func IsJSONLogFormat(template string) bool {
	s := jsonevents.New([]byte(template))
	for {
		switch s.Next() {
		case jsonevents.Done:
			return true
		case jsonevents.Error:
			return false
		}
	}
}
