/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package config

import "github.com/gravwell/gcfg"

// ParserConfig is the on-disk INI shape for a configured log parser,
// loaded with gcfg the same way the teacher's VariableConfig loads an
// ingester config. [global] carries every option logfmt.Options needs.
type ParserConfig struct {
	Global struct {
		Log_Format        string
		Date_Format       string
		Time_Format       string
		X_Format          string
		Timezone          string
		Double_Decode     bool
		Append_Method     bool
		Append_Protocol   bool
		No_Strict_Status  bool
		No_IP_Validation  bool
		Max_Error_Samples int
	}
}

// LoadParserConfigFile reads and parses an INI file at p into a
// ParserConfig.
func LoadParserConfigFile(p string) (cfg ParserConfig, err error) {
	err = gcfg.ReadFileInto(&cfg, p)
	return
}

// LoadParserConfigBytes parses b (INI text) into a ParserConfig.
func LoadParserConfigBytes(b []byte) (cfg ParserConfig, err error) {
	err = gcfg.ReadStringInto(&cfg, string(b))
	return
}
