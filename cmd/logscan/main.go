/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// logscan reads an access log from stdin (or a file), parses every line
// against a configured format, and reports a running tally of valid and
// invalid lines plus samples of the first few failures.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gravwell/accesslog/config"
	"github.com/gravwell/accesslog/entry"
	"github.com/gravwell/accesslog/logfmt"
	"github.com/gravwell/accesslog/logging"
)

var (
	confPath   = flag.String("config", "", "path to a parser config INI file")
	logFormat  = flag.String("log-format", "COMBINED", "preset name or literal template, used when -config is absent")
	inputPath  = flag.String("input", "", "file to read, defaults to stdin")
	maxSamples = flag.Int("max-error-samples", 10, "number of invalid-line samples to keep")
	verbose    = flag.Bool("v", false, "log every parsed record at debug level")
	version    = flag.Bool("version", false, "print OS/build info and exit")
)

func main() {
	flag.Parse()

	if *version {
		log.PrintOSInfo(os.Stdout)
		return
	}

	lgr, err := log.NewStderrLogger(``)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	if *verbose {
		lgr.SetLevel(log.DEBUG)
	}

	opts, err := resolveOptions()
	if err != nil {
		lgr.FatalfCode(1, "failed to resolve parser options: %v", err)
	}

	p, err := logfmt.NewParser(opts)
	if err != nil {
		lgr.FatalfCode(1, "failed to build parser: %v", err)
	}

	in := os.Stdin
	if *inputPath != "" {
		if in, err = os.Open(*inputPath); err != nil {
			lgr.FatalfCode(1, "failed to open %q: %v", *inputPath, err)
		}
		defer in.Close()
	}

	tally := logfmt.NewErrorTally(*maxSamples)
	if err := scan(in, p, tally, lgr); err != nil && err != io.EOF {
		lgr.FatalfCode(1, "scan failed: %v", err)
	}

	fmt.Printf("lines seen:    %d\n", tally.Total())
	fmt.Printf("lines invalid: %d\n", tally.Invalid())
	for _, s := range tally.Samples() {
		fmt.Println("  -", s)
	}
}

func resolveOptions() (logfmt.Options, error) {
	if *confPath == "" {
		return logfmt.Options{LogFormat: *logFormat}, nil
	}
	cfg, err := config.LoadParserConfigFile(*confPath)
	if err != nil {
		return logfmt.Options{}, err
	}
	return logfmt.OptionsFromConfig(cfg), nil
}

func scan(r io.Reader, p *logfmt.Parser, tally *logfmt.ErrorTally, lgr *log.Logger) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		rec, perr := p.Parse(sc.Bytes())
		tally.Record(perr)
		if perr != nil && perr != entry.SoftIgnore {
			lgr.Debugf("reject: %v", perr)
			continue
		}
		if perr == nil {
			lgr.Debugf("host=%s status=%d request=%s", rec.Host, rec.Status, rec.Request)
		}
	}
	return sc.Err()
}
