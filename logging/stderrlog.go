/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package log

import "os"

// newStderrLogger builds a Logger that always writes to stderr. When
// fileOverride is set, stderr output is also duplicated into that file,
// matching the CLI convention of `-log <path>` tools that still want a
// copy of their own diagnostics on the terminal.
func newStderrLogger(fileOverride string, cb StderrCallback) (lgr *Logger, err error) {
	lgr = New(os.Stderr)
	if len(fileOverride) > 0 {
		var fout *os.File
		if fout, err = os.OpenFile(fileOverride, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0660); err != nil {
			return nil, err
		}
		if cb != nil {
			cb(fout)
		}
		if err = lgr.AddWriter(fout); err != nil {
			fout.Close()
			return nil, err
		}
	}
	return lgr, nil
}
