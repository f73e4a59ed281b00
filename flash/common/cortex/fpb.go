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
package cortex

import (
	"context"

	"github.com/golang/glog"
	"github.com/juju/errors"
)

const (
	fpCtrlEnable = 1 << 0
	fpCtrlKey    = 1 << 1

	fpCompEnable = 1 << 0
	// Rev 1 comparators can only match the code region.
	fpMaxAddr = 0x20000000
)

// fpb keeps the breakpoint table, so it can be put back after the FPB is reset.
type fpb struct {
	probed   bool
	numComps int
	bps      map[uint32]int // address -> comparator
}

func fpCompValue(addr uint32) uint32 {
	v := addr&0x1ffffffc | fpCompEnable
	if addr&2 == 0 {
		return v | 0x40000000 // Lower halfword.
	}
	return v | 0x80000000 // Upper halfword.
}

func (c *Core) probeFPB(ctx context.Context) error {
	if c.fpb.probed {
		return nil
	}
	ctrl, err := c.ReadTargetReg(ctx, regFPCtrl)
	if err != nil {
		return errors.Annotatef(err, "failed to read FP_CTRL")
	}
	if rev := ctrl >> 28; rev != 0 {
		return errors.NotSupportedf("FPB revision %d", rev+1)
	}
	c.fpb.numComps = int((ctrl>>8)&0x70 | (ctrl>>4)&0xf)
	c.fpb.bps = map[uint32]int{}
	c.fpb.probed = true
	glog.V(2).Infof("%s: FPB with %d comparators", c.name, c.fpb.numComps)
	return c.enableFPB(ctx)
}

func (c *Core) enableFPB(ctx context.Context) error {
	return errors.Annotatef(c.WriteTargetReg(ctx, regFPCtrl, fpCtrlKey|fpCtrlEnable), "failed to enable FPB")
}

func (c *Core) SetBreakpoint(ctx context.Context, addr uint32) error {
	if addr >= fpMaxAddr {
		return errors.NotSupportedf("hardware breakpoint at 0x%08x", addr)
	}
	if err := c.probeFPB(ctx); err != nil {
		return errors.Trace(err)
	}
	addr &^= 1
	if _, ok := c.fpb.bps[addr]; ok {
		return nil
	}
	used := make([]bool, c.fpb.numComps)
	for _, i := range c.fpb.bps {
		used[i] = true
	}
	for i, u := range used {
		if u {
			continue
		}
		if err := c.WriteTargetReg(ctx, regFPComp0+uint32(i)*4, fpCompValue(addr)); err != nil {
			return errors.Annotatef(err, "failed to set breakpoint at 0x%08x", addr)
		}
		c.fpb.bps[addr] = i
		glog.V(3).Infof("%s: breakpoint %d at 0x%08x", c.name, i, addr)
		return nil
	}
	return errors.Errorf("no free hardware breakpoints for 0x%08x", addr)
}

func (c *Core) RemoveBreakpoint(ctx context.Context, addr uint32) error {
	addr &^= 1
	i, ok := c.fpb.bps[addr]
	if !ok {
		return errors.NotFoundf("breakpoint at 0x%08x", addr)
	}
	if err := c.WriteTargetReg(ctx, regFPComp0+uint32(i)*4, 0); err != nil {
		return errors.Annotatef(err, "failed to remove breakpoint at 0x%08x", addr)
	}
	delete(c.fpb.bps, addr)
	return nil
}

// Breakpoints returns the addresses of the installed breakpoints.
func (c *Core) Breakpoints() []uint32 {
	var res []uint32
	for addr := range c.fpb.bps {
		res = append(res, addr)
	}
	return res
}

// ReinstallBreakpoints enables the FPB and writes all comparators again.
func (c *Core) ReinstallBreakpoints(ctx context.Context) error {
	if !c.fpb.probed {
		return nil
	}
	if err := c.enableFPB(ctx); err != nil {
		return errors.Trace(err)
	}
	for addr, i := range c.fpb.bps {
		if err := c.WriteTargetReg(ctx, regFPComp0+uint32(i)*4, fpCompValue(addr)); err != nil {
			return errors.Annotatef(err, "failed to restore breakpoint at 0x%08x", addr)
		}
	}
	return nil
}
