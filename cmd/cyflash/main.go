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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/mongoose-os/cyflash/common/ourutil"
)

type handler func(ctx context.Context, dc *devConn, args []string) error

type command struct {
	name     string
	handler  handler
	short    string
	args     string
	minArgs  int
	maxArgs  int // -1 for no limit
	noConn   bool
	required []string
	optional []string
}

var commands = []command{
	{"flash", flashCmd, "Write .hex or raw binary images to flash", "<file>...", 1, -1, false, nil,
		[]string{"base-address", "erase", "verify", "pad", "halt-after"}},
	{"erase", eraseCmd, "Erase all flash, a region or an address range", "[chip | <region> | <addr> <len>]", 0, 2, false, nil, []string{"erase"}},
	{"read", readCmd, "Read memory, flash regions are read through their algorithm if needed", "<addr> <len>", 2, 2, false, nil, []string{"out"}},
	{"reset", resetCmd, "Reset the target and let it run", "", 0, 0, false, nil, nil},
	{"reset-halt", resetHaltCmd, "Reset the target and halt it before the application runs", "", 0, 0, false, nil, nil},
	{"halt", haltCmd, "Halt the core and print its registers", "", 0, 0, false, nil, nil},
	{"resume", resumeCmd, "Resume a halted core", "", 0, 0, false, nil, nil},
	{"step", stepCmd, "Execute a single instruction", "", 0, 0, false, nil, nil},
	{"status", statusCmd, "Print the core state and, if halted, its registers", "", 0, 0, false, nil, nil},
	{"info", infoCmd, "List the supported parts and their memory maps", "[<part>...]", 0, -1, true, nil, nil},
	{"version", versionCmd, "Print version", "", 0, 0, true, nil, nil},
}

func findCommand(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.Errorf("no command given")
	}
	if args[0] == "help" {
		usage()
		return nil
	}
	c := findCommand(args[0])
	if c == nil {
		usage()
		return errors.NotFoundf("command %q", args[0])
	}
	args = args[1:]
	if err := checkArgs(c, args); err != nil {
		return errors.Trace(err)
	}
	if c.noConn {
		return errors.Trace(c.handler(ctx, nil, args))
	}
	dc, err := connect(ctx)
	if err != nil {
		return errors.Annotatef(err, "failed to connect")
	}
	defer dc.Close(ctx)
	return errors.Trace(c.handler(ctx, dc, args))
}

func main() {
	initFlags()
	flag.Parse()
	if err := applyEnv(); err != nil {
		ourutil.Errorf("Error: %s", err)
		os.Exit(1)
	}

	if *helpFull {
		unhideFlags()
		usage()
		return
	} else if *versionFlag {
		versionCmd(context.Background(), nil, nil)
		return
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "Interrupted")
		cancel()
	}()

	err := run(ctx, flag.Args())
	cancel()
	if err != nil {
		glog.Infof("Error: %s", errors.ErrorStack(err))
		ourutil.Errorf("Error: %s", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
