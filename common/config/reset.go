//
// Copyright (c) 2014-2019 Cesanta Software Limited
// All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package config turns user input (flags, environment, config file, session
// option strings) into the settings of a flash session.
package config

import (
	"strings"

	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common/cortex"
)

var resetTypes = map[string]cortex.ResetKind{
	"default":        cortex.ResetDefault,
	"hw":             cortex.ResetHardware,
	"hardware":       cortex.ResetHardware,
	"sw":             cortex.ResetSysResetReq,
	"software":       cortex.ResetSysResetReq,
	"sw_sysresetreq": cortex.ResetSysResetReq,
	"sysresetreq":    cortex.ResetSysResetReq,
	"sw_vectreset":   cortex.ResetVectReset,
	"vectreset":      cortex.ResetVectReset,
	"sw_emulated":    cortex.ResetEmulated,
	"emulated":       cortex.ResetEmulated,
}

// ParseResetType maps a reset type name to the reset kind, case insensitive.
func ParseResetType(s string) (cortex.ResetKind, error) {
	k, ok := resetTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return cortex.ResetDefault, errors.NotValidf("reset type %q", s)
	}
	return k, nil
}

var vectorCatchChars = map[rune]cortex.VectorCatch{
	'h': cortex.VC_HARDERR,
	'b': cortex.VC_BUSERR,
	'm': cortex.VC_MMERR,
	'i': cortex.VC_INTERR,
	's': cortex.VC_STATERR,
	'c': cortex.VC_CHKERR,
	'p': cortex.VC_NOCPERR,
	'r': cortex.VC_CORERESET,
}

// ParseVectorCatch parses a vector catch specification: a string of
// h (hard fault), b (bus fault), m (mem fault), i (interrupt error),
// s (state error), c (check error), p (coprocessor error), r (core reset),
// or one of a/all, n/none.
func ParseVectorCatch(s string) (cortex.VectorCatch, error) {
	switch strings.ToLower(s) {
	case "a", "all":
		return cortex.VC_ALL, nil
	case "n", "none", "":
		return cortex.VC_NONE, nil
	}
	var res cortex.VectorCatch
	for _, c := range strings.ToLower(s) {
		vc, ok := vectorCatchChars[c]
		if !ok {
			return cortex.VC_NONE, errors.NotValidf("vector catch character %q", c)
		}
		res |= vc
	}
	return res, nil
}
