package logfmt

import "github.com/gravwell/accesslog/timegrinder"

// Preset is a named, canned template plus the default date/time/epoch
// patterns that pair with it. The exact template strings are preserved
// verbatim from the reference parser so that configurations naming a
// preset produce byte-identical parses to the source implementation.
type Preset struct {
	Name       string
	Template   string
	DateFormat string
	TimeFormat string
	// XFormat is the default pattern applied to a combined %x date+time
	// token; only presets that use %x set this.
	XFormat string
}

const (
	apacheDateFormat = "%d/%b/%Y"
	w3cDateFormat    = "%Y-%m-%d"
	isoDateFormat    = "%Y-%m-%d"
	clockTimeFormat  = "%H:%M:%S"
)

// Presets is the full set of predefined log formats, keyed by name, as
// accepted by the log_format configuration option.
var Presets = map[string]Preset{
	"COMBINED": {
		Name:       "COMBINED",
		Template:   `%h %^[%d:%t %^] "%r" %s %b "%R" "%u"`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"VCOMBINED": {
		Name:       "VCOMBINED",
		Template:   `%v:%^ %h %^[%d:%t %^] "%r" %s %b "%R" "%u"`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"COMMON": {
		Name:       "COMMON",
		Template:   `%h %^[%d:%t %^] "%r" %s %b`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"VCOMMON": {
		Name:       "VCOMMON",
		Template:   `%v:%^ %h %^[%d:%t %^] "%r" %s %b`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"W3C": {
		Name:       "W3C",
		Template:   `%d %t %^ %m %U %q %^ %^ %h %u %R %s %^ %^ %L`,
		DateFormat: w3cDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"CLOUDFRONT": {
		Name:       "CLOUDFRONT",
		Template:   "%d\t%t\t%^\t%b\t%h\t%m\t%v\t%U\t%s\t%R\t%u\t%q\t%^\t%C\t%^\t%^\t%^\t%^\t%T\t%^\t%K\t%k\t%^\t%H\t%^",
		DateFormat: w3cDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"CLOUDSTORAGE": {
		Name:       "CLOUDSTORAGE",
		Template:   `"%x","%h",%^,%^,"%m","%U","%s",%^,"%b","%D",%^,"%R","%u"`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
		XFormat:    timegrinder.EpochMicroseconds,
	},
	"AWSELB": {
		Name:       "AWSELB",
		Template:   `%^ %dT%t.%^ %^ %h:%^ %^ %^ %T %^ %s %^ %^ %b "%r" "%u" %k %K %^ "%^" "%v"`,
		DateFormat: isoDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"SQUID": {
		Name:       "SQUID",
		Template:   `%^ %^ %^ %v %^: %x.%^ %~%L %h %^/%s %b %m %U`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
		XFormat:    "%s",
	},
	"AWSS3": {
		Name:       "AWSS3",
		Template:   `%^ %v [%d:%t %^] %h %^"%r" %s %^ %b %^ %L %^ "%R" "%u"`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"CADDY": {
		Name: "CADDY",
		Template: `{ "ts": "%x.%^", "request": { "client_ip": "%h", "proto": "%H", ` +
			`"method": "%m", "host": "%v", "uri": "%U", "headers": { "User-Agent": ["%u"], ` +
			`"Referer": ["%R"] }, "tls": { "cipher_suite": "%k", "proto": "%K" } }, ` +
			`"duration": "%T", "size": "%b", "status": "%s", "resp_headers": { "Content-Type": ["%M"] } }`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
		XFormat:    "%s",
	},
	"AWSALB": {
		Name:       "AWSALB",
		Template:   `%^ %dT%t.%^ %v %h:%^ %^ %^ %T %^ %s %^ %^ %b "%r" "%u" %k %K %^`,
		DateFormat: isoDateFormat,
		TimeFormat: clockTimeFormat,
	},
	"TRAEFIKCLF": {
		Name:       "TRAEFIKCLF",
		Template:   `%h - %e [%d:%t %^] "%r" %s %b "%R" "%u" %^ "%v" "%U" %Lms`,
		DateFormat: apacheDateFormat,
		TimeFormat: clockTimeFormat,
	},
}
