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
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/common/ourutil"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/loader"
	"github.com/mongoose-os/cyflash/flash/memmap"
	"github.com/mongoose-os/cyflash/flash/psoc6"
	"github.com/mongoose-os/cyflash/version"
)

func flashCmd(ctx context.Context, dc *devConn, args []string) error {
	base, err := parseUint32("base address", *baseAddress)
	if err != nil {
		return errors.Trace(err)
	}
	var segs []segment
	for _, path := range args {
		s, err := loadImage(path, base)
		if err != nil {
			return errors.Trace(err)
		}
		segs = append(segs, s...)
	}
	core := dc.target.Core()
	if err := core.ResetAndHalt(ctx, dc.opts.ResetType); err != nil {
		return errors.Annotatef(err, "failed to halt %s", dc.target.Name())
	}
	start := time.Now()
	total := 0
	for _, s := range segs {
		p := ourutil.NewProgress(ourutil.Output, fmt.Sprintf("0x%08x", s.addr))
		ourutil.Reportf("Writing %d bytes @ 0x%08x", len(s.data), s.addr)
		err := dc.newLoader(p.Update).Program(ctx, s.addr, s.data)
		p.Finish()
		if err != nil {
			return errors.Annotatef(err, "failed to write 0x%08x", s.addr)
		}
		total += len(s.data)
	}
	if *haltAfter {
		ourutil.Successf("Wrote %d bytes in %.3fs, target halted", total, time.Since(start).Seconds())
		return nil
	}
	if err := core.Reset(ctx, dc.opts.ResetType); err != nil {
		return errors.Annotatef(err, "failed to reset %s", dc.target.Name())
	}
	ourutil.Successf("Wrote %d bytes in %.3fs", total, time.Since(start).Seconds())
	return nil
}

func eraseCmd(ctx context.Context, dc *devConn, args []string) error {
	l := dc.newLoader(nil)
	if err := dc.target.Core().ResetAndHalt(ctx, dc.opts.ResetType); err != nil {
		return errors.Annotatef(err, "failed to halt %s", dc.target.Name())
	}
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "chip"):
		ourutil.Reportf("Erasing all flash of %s", dc.part.Name)
		return errors.Trace(l.MassErase(ctx))
	case len(args) == 1:
		r := dc.target.MemoryMap().RegionByName(args[0])
		if r == nil || !r.IsFlash() {
			return errors.NotFoundf("flash region %q", args[0])
		}
		ourutil.Reportf("Erasing %s", r)
		return errors.Trace(l.EraseRegion(ctx, r))
	}
	addr, err := parseUint32("address", args[0])
	if err != nil {
		return errors.Trace(err)
	}
	length, err := parseUint32("length", args[1])
	if err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("Erasing 0x%08x-0x%08x", addr, uint64(addr)+uint64(length))
	return errors.Trace(l.EraseSectors(ctx, addr, length))
}

func readCmd(ctx context.Context, dc *devConn, args []string) error {
	addr, err := parseUint32("address", args[0])
	if err != nil {
		return errors.Trace(err)
	}
	length, err := parseUint32("length", args[1])
	if err != nil {
		return errors.Trace(err)
	}
	if err := dc.target.Core().Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	data, err := dc.newLoader(nil).ReadMemory(ctx, addr, int(length))
	if err != nil {
		return errors.Trace(err)
	}
	if err := saveData(*outFile, addr, data); err != nil {
		return errors.Trace(err)
	}
	if *outFile != "-" {
		ourutil.Reportf("Wrote %d bytes to %s", len(data), *outFile)
	}
	return nil
}

func resetCmd(ctx context.Context, dc *devConn, args []string) error {
	if err := dc.target.Core().Reset(ctx, dc.opts.ResetType); err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("%s reset", dc.target.Name())
	return nil
}

func resetHaltCmd(ctx context.Context, dc *devConn, args []string) error {
	if err := dc.target.Core().ResetAndHalt(ctx, dc.opts.ResetType); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(printRegs(ctx, dc))
}

func haltCmd(ctx context.Context, dc *devConn, args []string) error {
	core := dc.target.Core()
	if err := core.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := core.WaitHalted(ctx, 2*time.Second); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(printRegs(ctx, dc))
}

func resumeCmd(ctx context.Context, dc *devConn, args []string) error {
	if err := dc.target.Core().Resume(ctx, loader.Flashing(dc.target)); err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("%s running", dc.target.Name())
	return nil
}

func stepCmd(ctx context.Context, dc *devConn, args []string) error {
	if err := dc.target.Core().Step(ctx); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(printRegs(ctx, dc))
}

func statusCmd(ctx context.Context, dc *devConn, args []string) error {
	return errors.Trace(printRegs(ctx, dc))
}

func printRegs(ctx context.Context, dc *devConn) error {
	core := dc.target.Core()
	st, err := core.GetState(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Printf("%s: %s\n", dc.target.Name(), st)
	if sc, ok := core.(*psoc6.SecureCore); ok {
		fmt.Printf("Acquired: %t\n", sc.Acquired())
	}
	if st != cortex.StateHalted {
		return nil
	}
	regs, err := core.GetRegs(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Println(regs)
	return nil
}

func printMemoryMap(mm *memmap.Map) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name\tKind\tStart\tEnd\tBlock\tAlgorithm\n")
	for _, r := range mm.Regions() {
		block, algoName := "-", "-"
		if r.IsFlash() {
			block = fmt.Sprintf("0x%x", r.BlockSize)
			if r.Algo != nil {
				algoName = r.Algo.Name
			}
		}
		fmt.Fprintf(w, "  %s\t%s\t0x%08x\t0x%08x\t%s\t%s\n", r.Name, r.Kind, r.Start, r.End(), block, algoName)
	}
	w.Flush()
}

func infoCmd(ctx context.Context, _ *devConn, args []string) error {
	if len(args) == 0 {
		fmt.Println("Supported parts:")
		for _, p := range psoc6.Parts {
			var cores []string
			for _, ci := range p.Cores {
				cores = append(cores, fmt.Sprintf("%s (AP %d)", ci.Name, ci.AP))
			}
			fmt.Printf("  %s, cores: %v\n", p, cores)
		}
		fmt.Println()
		args = []string{*targetName}
	}
	for _, name := range args {
		p, err := psoc6.Lookup(name)
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Printf("%s memory map:\n", p)
		printMemoryMap(p.MemoryMap())
	}
	return nil
}

func versionCmd(ctx context.Context, _ *devConn, args []string) error {
	return errors.Trace(printVersion(os.Stdout))
}

func printVersion(w io.Writer) error {
	v := version.GetVersionJson()
	fmt.Fprintf(w, "%s\nVersion: %s\nBuild ID: %s\n", version.GetUserAgent(), v.BuildVersion, v.BuildId)
	if parts := version.GetBuildIdParts(v.BuildId); parts != nil {
		fmt.Fprintf(w, "Commit: %s\n", parts["hash"])
		if parts["distr"] != "" {
			fmt.Fprintf(w, "Distribution: %s\n", parts["distr"])
		}
	}
	if !v.BuildTimestamp.IsZero() {
		fmt.Fprintf(w, "Built: %s\n", v.BuildTimestamp.Format(time.RFC3339))
	}
	_, err := fmt.Fprintln(w)
	return errors.Trace(err)
}
