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

package main

import (
	goflag "flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/golang/glog"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/mongoose-os/cyflash/common/config"
	"github.com/mongoose-os/cyflash/common/multierror"
	"github.com/mongoose-os/cyflash/version"
)

var (
	configFile  = flag.String("config", "", "YAML file with the target and session options")
	targetName  = flag.String("target", "cy8c6xxa", "Target part, \"cyflash info\" lists them")
	coreName    = flag.String("core", "", "Core to attach to, the first core of the part if empty")
	optionList  = flag.StringArrayP("option", "O", nil, "Session option, name=value. Can be repeated")
	optionStr   = flag.String("options", "", "Session options, space separated name=value pairs")
	frequency   = flag.Uint32("frequency", 0, "SWD clock in Hz, overrides the frequency option")
	eraseFlag   = flag.String("erase", "", "Erase mode for flash: auto, sector, chip or none. Overrides the chip_erase option")
	baseAddress = flag.String("base-address", "0x10000000", "Load address of raw binary images")
	verify      = flag.Bool("verify", false, "Read back and compare after programming")
	pad         = flag.Bool("pad", false, "Pad data to page boundaries with the erased value")
	haltAfter   = flag.Bool("halt-after", false, "Leave the core halted after flash instead of resetting it")
	outFile     = flag.String("out", "-", "Where read puts the data: - for a hex dump, a .hex file or a raw binary file")
	useSim      = flag.Bool("sim", false, "Use a simulated target instead of a debug probe")
	probeVID    = flag.Uint16("probe-vid", 0x04b4, "USB vendor ID of the debug probe")
	probePID    = flag.Uint16("probe-pid", 0xf155, "USB product ID of the debug probe")
	probeSerial = flag.String("probe-serial", "", "Serial number of the debug probe")
	probeBulk   = flag.Bool("probe-bulk", false, "Use the CMSIS-DAP v2 bulk transport")
	timeout     = flag.Duration("timeout", 0, "Overall timeout, none if 0")

	versionFlag = flag.Bool("version", false, "Print version and exit")
	helpFull    = flag.Bool("helpfull", false, "Show full help, including advanced flags")
)

var hiddenFlags = []string{
	"alsologtostderr",
	"log_backtrace_at",
	"log_dir",
	"logtostderr",
	"stderrthreshold",
	"v",
	"vmodule",
	"probe-bulk",
	"probe-pid",
	"probe-vid",
}

func initFlags() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	hideFlags()
	flag.Usage = usage
}

func hideFlags() {
	for _, f := range hiddenFlags {
		flag.CommandLine.MarkHidden(f)
	}
}

func unhideFlags() {
	for _, f := range hiddenFlags {
		f := flag.Lookup(f)
		if f != nil {
			f.Hidden = false
		}
	}
}

// applyEnv picks up flags from CYFLASH_* environment variables.
func applyEnv() error {
	set, err := config.ApplyEnv(flag.CommandLine, config.EnvPrefix)
	if err != nil {
		return errors.Trace(err)
	}
	for _, name := range set {
		glog.V(1).Infof("--%s set from %s", name, config.EnvName(name, config.EnvPrefix))
	}
	return nil
}

func checkArgs(c *command, args []string) error {
	var errs error
	if len(args) < c.minArgs {
		errs = multierror.Append(errs, errors.Errorf("%s: not enough arguments, usage: %s %s", c.name, c.name, c.args))
	}
	if c.maxArgs >= 0 && len(args) > c.maxArgs {
		errs = multierror.Append(errs, errors.Errorf("%s: too many arguments, usage: %s %s", c.name, c.name, c.args))
	}
	for _, name := range c.required {
		f := flag.Lookup(name)
		if f == nil || !f.Changed {
			errs = multierror.Append(errs, errors.Errorf("--%s is required", name))
		}
	}
	return errs
}

func printFlag(w io.Writer, opt string, name string) {
	f := flag.Lookup(name)
	if f == nil {
		return
	}
	arg := "<" + f.Value.Type() + ">"
	if f.Value.Type() == "bool" {
		arg = ""
	}
	fmt.Fprintf(w, "  --%s %s\t%s. %s, default value: %q\n", name, arg, f.Usage, opt, f.DefValue)
}

func usage() {
	w := tabwriter.NewWriter(os.Stderr, 0, 0, 1, ' ', 0)

	if len(os.Args) == 3 && os.Args[1] == "help" {
		for _, c := range commands {
			if c.name == os.Args[2] {
				fmt.Fprintf(w, "%s %s %s\n\n%s\n", os.Args[0], c.name, c.args, c.short)
				fmt.Fprintf(w, "\nFlags:\n")
				for _, name := range c.required {
					printFlag(w, "Required", name)
				}
				for _, name := range c.optional {
					printFlag(w, "Optional", name)
				}
				w.Flush()
				os.Exit(1)
			}
		}
	}

	fmt.Fprintf(w, "PSoC 6 flash tool %s.\n", version.GetVersion())
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s <command> [args]\n", os.Args[0])
	fmt.Fprintf(w, "\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s %s\t\t%s\n", c.name, c.args, c.short)
	}

	fmt.Fprintf(w, "\nGlobal Flags:\n")
	if *helpFull {
		fmt.Fprint(w, flag.CommandLine.FlagUsages())
	} else {
		for _, name := range []string{"target", "core", "config", "option", "frequency", "sim"} {
			printFlag(w, "Optional", name)
		}
	}
	fmt.Fprintf(w, "\nSession options: %v\n", config.OptionNames())

	w.Flush()
}
