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
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"
	shellwords "github.com/mattn/go-shellwords"

	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/loader"
)

// Options are the session options.
type Options struct {
	ResetType      cortex.ResetKind
	VectorCatch    cortex.VectorCatch
	Frequency      uint32
	// FlashClock is the clock argument of the flash algorithm Init call, 0 lets the algorithm decide.
	FlashClock     uint32
	FlashAlgoDebug bool
	DoubleBuffer   bool
	ChipErase      loader.EraseMode
	ConnectTimeout time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		ResetType:      cortex.ResetDefault,
		VectorCatch:    cortex.VC_HARDERR,
		Frequency:      1000000,
		DoubleBuffer:   true,
		ChipErase:      loader.EraseSector,
		ConnectTimeout: 5 * time.Second,
	}
}

type option struct {
	isBool bool
	set    func(o *Options, v string) error
}

var options = map[string]option{
	"reset_type": {set: func(o *Options, v string) (err error) {
		o.ResetType, err = ParseResetType(v)
		return err
	}},
	"vector_catch": {set: func(o *Options, v string) (err error) {
		o.VectorCatch, err = ParseVectorCatch(v)
		return err
	}},
	"frequency": {set: func(o *Options, v string) error {
		f, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return errors.NotValidf("frequency %q", v)
		}
		o.Frequency = uint32(f)
		return nil
	}},
	"flash_clock": {set: func(o *Options, v string) error {
		f, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return errors.NotValidf("flash clock %q", v)
		}
		o.FlashClock = uint32(f)
		return nil
	}},
	"flash_algo_debug": {isBool: true, set: func(o *Options, v string) (err error) {
		o.FlashAlgoDebug, err = parseBool(v)
		return err
	}},
	"double_buffer": {isBool: true, set: func(o *Options, v string) (err error) {
		o.DoubleBuffer, err = parseBool(v)
		return err
	}},
	"chip_erase": {set: func(o *Options, v string) (err error) {
		o.ChipErase, err = loader.ParseEraseMode(v)
		return err
	}},
	"connect_timeout": {set: func(o *Options, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			secs, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil {
				return errors.NotValidf("duration %q", v)
			}
			d = time.Duration(secs * float64(time.Second))
		}
		o.ConnectTimeout = d
		return nil
	}},
}

// OptionNames lists the known session options.
func OptionNames() []string {
	var res []string
	for name := range options {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, errors.NotValidf("boolean %q", v)
}

// Set sets a single option. Unknown options are logged and ignored.
func (o *Options) Set(name, value string) error {
	name = strings.Replace(strings.ToLower(name), "-", "_", -1)
	opt, ok := options[name]
	if !ok {
		glog.Warningf("unknown option %q", name)
		return nil
	}
	return errors.Annotatef(opt.set(o, value), "option %s", name)
}

// Parse applies options of the form name=value. A bool option may be given
// as just its name, or its name prefixed with no- to turn it off.
func (o *Options) Parse(args []string) error {
	for _, arg := range args {
		name, value := arg, ""
		hasValue := false
		if i := strings.IndexByte(arg, '='); i >= 0 {
			name, value, hasValue = arg[:i], arg[i+1:], true
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !hasValue {
			norm := strings.Replace(strings.ToLower(name), "-", "_", -1)
			switch {
			case options[norm].isBool:
				value = "true"
			case strings.HasPrefix(norm, "no_") && options[norm[3:]].isBool:
				name, value = norm[3:], "false"
			default:
				if _, ok := options[norm]; ok {
					return errors.NotValidf("option %s without a value", name)
				}
			}
		}
		if err := o.Set(name, value); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// ParseString splits s like a shell would and applies the options.
func (o *Options) ParseString(s string) error {
	args, err := shellwords.Parse(s)
	if err != nil {
		return errors.Annotatef(err, "invalid options %q", s)
	}
	return errors.Trace(o.Parse(args))
}

// LoaderOptions converts the session options for the flash loader.
func (o *Options) LoaderOptions() loader.Options {
	return loader.Options{
		Erase:          o.ChipErase,
		NoDoubleBuffer: !o.DoubleBuffer,
		Debug:          o.FlashAlgoDebug,
		ResetKind:      o.ResetType,
		Clock:          o.FlashClock,
	}
}

func (o *Options) String() string {
	return fmt.Sprintf("reset_type=%s vector_catch=0x%x frequency=%d flash_clock=%d flash_algo_debug=%t double_buffer=%t chip_erase=%s connect_timeout=%s",
		o.ResetType, uint32(o.VectorCatch), o.Frequency, o.FlashClock, o.FlashAlgoDebug, o.DoubleBuffer, o.ChipErase, o.ConnectTimeout)
}
