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
package psoc6

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/common/timeout"
)

// Doc: PSoC 6 MCU Architecture and Registers Technical Reference Manual

const (
	regVTBaseCM0 uint32 = 0x40201120
	regVTBaseCM4 uint32 = 0x40200200

	// IPC structure 2 data, the boot code acknowledges test mode here.
	regIPC2Data  uint32 = 0x4023004C
	acquireMagic uint32 = 0x12344321

	regTstCtrl      uint32 = 0x40260100
	tstCtrlTestMode uint32 = 0x80000000

	regCM4PwrCtl   uint32 = 0x40210080
	cm4PwrModeMask uint32 = 3
	cm4PwrCtlWake  uint32 = 0x05FA0003
)

// Delays of the reset sequences.
const (
	DefaultResetSettle   = 500 * time.Millisecond
	DefaultEntrySettle   = 200 * time.Millisecond
	DefaultListenWindow  = 5 * time.Second
	defaultHWResetSettle = 500 * time.Millisecond
)

// EntryCore halts at the application entry point on reset-and-halt, if
// the vector table of the core points into main flash.
type EntryCore struct {
	*cortex.Core

	vtbaseReg uint32
	// Main flash, inclusive.
	mainStart, mainEnd uint32

	// ResetSettle is the pause between the reset and the halt request.
	ResetSettle time.Duration
	// EntrySettle is the pause between the second reset and waiting for the breakpoint.
	EntrySettle time.Duration
}

func NewEntryCore(name string, link common.Link, vtbaseReg, mainStart, mainEnd uint32) *EntryCore {
	c := &EntryCore{
		Core:        cortex.NewCore(name, link),
		vtbaseReg:   vtbaseReg,
		mainStart:   mainStart,
		mainEnd:     mainEnd,
		ResetSettle: DefaultResetSettle,
		EntrySettle: DefaultEntrySettle,
	}
	c.Core.DefaultReset = cortex.ResetSysResetReq
	// FPB is re-enabled by Reset after this.
	c.Core.ResetSettle = defaultHWResetSettle
	return c
}

func (c *EntryCore) inMainFlash(addr uint32) bool {
	return addr >= c.mainStart && addr <= c.mainEnd
}

// ResetAndHalt resets and halts the core, then resets again with a breakpoint
// on the entry point so the core stops right before the application starts.
func (c *EntryCore) ResetAndHalt(ctx context.Context, kind cortex.ResetKind) error {
	if err := c.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.Reset(ctx, kind); err != nil {
		return errors.Trace(err)
	}
	if err := timeout.Sleep(ctx, c.ResetSettle); err != nil {
		return errors.Trace(err)
	}
	if err := c.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.WaitHalted(ctx, c.HaltTimeout); err != nil {
		return errors.Trace(err)
	}
	vtbase, err := c.ReadTargetReg(ctx, c.vtbaseReg)
	if err != nil {
		return errors.Annotatef(err, "%s: failed to read vector table base", c.Name())
	}
	vtbase &= 0xFFFFFF00
	if !c.inMainFlash(vtbase) {
		glog.Infof("%s: Vector table address invalid (0x%08x), will not halt at main()", c.Name(), vtbase)
		return nil
	}
	entry, err := c.ReadTargetReg(ctx, vtbase+4)
	if err != nil {
		return errors.Annotatef(err, "%s: failed to read entry point", c.Name())
	}
	if !c.inMainFlash(entry) {
		glog.Infof("%s: Entry point address invalid (0x%08x), will not halt at main()", c.Name(), entry)
		return nil
	}
	bp := entry &^ 1
	if err := c.SetBreakpoint(ctx, bp); err != nil {
		return errors.Trace(err)
	}
	err = c.haltAtEntry(ctx)
	if rerr := c.RemoveBreakpoint(ctx, bp); rerr != nil && err == nil {
		err = rerr
	}
	return errors.Trace(err)
}

func (c *EntryCore) haltAtEntry(ctx context.Context) error {
	if err := c.Reset(ctx, cortex.ResetSysResetReq); err != nil {
		return errors.Trace(err)
	}
	if err := timeout.Sleep(ctx, c.EntrySettle); err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(c.WaitHalted(ctx, c.HaltTimeout), "%s: failed to halt at entry point", c.Name())
}

// SecureCore is a core of a secure part. Debug access is granted only if test
// mode is requested within the listen window of the boot code after reset.
type SecureCore struct {
	*cortex.Core

	cm4 bool
	// ListenWindow bounds the acquisition handshake.
	ListenWindow time.Duration

	acquired bool
}

func NewSecureCore(name string, link common.Link, cm4 bool) *SecureCore {
	c := &SecureCore{
		Core:         cortex.NewCore(name, link),
		cm4:          cm4,
		ListenWindow: DefaultListenWindow,
	}
	c.Core.DefaultReset = cortex.ResetSysResetReq
	c.Core.ResetSettle = defaultHWResetSettle
	// Debug port goes away until the boot code is done with it.
	c.Core.ReconnectEveryPoll = true
	return c
}

// Acquired reports whether the last handshake was acknowledged.
func (c *SecureCore) Acquired() bool {
	return c.acquired
}

// arm requests test mode.
func (c *SecureCore) arm(ctx context.Context) error {
	if err := c.Reconnect(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.WriteTargetReg(ctx, regIPC2Data, 0); err != nil {
		return errors.Trace(err)
	}
	if err := c.WriteTargetReg(ctx, regTstCtrl, tstCtrlTestMode); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.Flush(ctx))
}

// Acquire requests test mode and waits for the boot code to acknowledge it.
// Transfer errors restart the request, only the window expiring ends the
// loop, with an *AcquisitionError.
func (c *SecureCore) Acquire(ctx context.Context) error {
	c.acquired = false
	armed := false
	var lastErr error
	err := timeout.Poll(ctx, c.ListenWindow, c.Name()+" acquisition", func(ctx context.Context) (bool, error) {
		if !armed {
			if err := c.arm(ctx); err != nil {
				lastErr = err
				return false, errors.Trace(err)
			}
			armed = true
		}
		v, err := c.ReadTargetReg(ctx, regIPC2Data)
		if err != nil {
			lastErr = err
			armed = false
			return false, errors.Trace(err)
		}
		return v == acquireMagic, nil
	})
	if err != nil {
		if errors.IsTimeout(errors.Cause(err)) {
			return errors.Trace(&common.AcquisitionError{Window: c.ListenWindow, LastErr: lastErr})
		}
		return errors.Trace(err)
	}
	c.acquired = true
	return nil
}

// WakeCM4 powers the CM4 up if it is asleep.
func (c *SecureCore) WakeCM4(ctx context.Context) error {
	pwr, err := c.ReadTargetReg(ctx, regCM4PwrCtl)
	if err != nil {
		return errors.Annotatef(err, "failed to read CM4 power control")
	}
	if pwr&cm4PwrModeMask == cm4PwrModeMask {
		return nil
	}
	glog.Warningf("CM4 is sleeping, trying to wake it up...")
	return errors.Annotatef(c.WriteTargetReg(ctx, regCM4PwrCtl, cm4PwrCtlWake), "failed to wake up CM4")
}

// ResetAndHalt acquires the part and halts the core. The reset is always a
// system reset, the listen window only opens after one. Failing to acquire is
// not an error: the part may still be in test mode from a previous session.
func (c *SecureCore) ResetAndHalt(ctx context.Context, kind cortex.ResetKind) error {
	glog.Infof("%s: Acquiring target...", c.Name())
	if err := c.Halt(ctx); err != nil {
		glog.V(1).Infof("%s: halt before reset: %s", c.Name(), err)
	}
	if err := c.Reset(ctx, cortex.ResetSysResetReq); err != nil {
		if !errors.IsTimeout(errors.Cause(err)) {
			return errors.Trace(err)
		}
		glog.V(1).Infof("%s: %s", c.Name(), err)
	}
	if err := c.Acquire(ctx); err != nil {
		if !common.IsAcquisitionError(err) {
			return errors.Trace(err)
		}
		glog.Warningf("%s: Failed to acquire the target (listen window not implemented?): %s", c.Name(), err)
	}
	if c.cm4 {
		if err := c.WakeCM4(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	if err := c.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.WaitHalted(ctx, c.HaltTimeout); err != nil {
		return errors.Trace(err)
	}
	if err := c.WriteCoreReg(ctx, cortex.XPSR, cortex.XPSR_THUMB); err != nil {
		return errors.Annotatef(err, "failed to set xPSR")
	}
	glog.Infof("%s: Device acquired successfully", c.Name())
	return nil
}

// Resume releases the test mode latch, unless a flash session is active: the
// flash algorithm only runs in test mode.
func (c *SecureCore) Resume(ctx context.Context, flashing bool) error {
	st, err := c.GetState(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if st != cortex.StateHalted {
		glog.V(1).Infof("%s: cannot resume, core is %s", c.Name(), st)
		return nil
	}
	if !flashing {
		if err := c.WriteTargetReg(ctx, regTstCtrl, 0); err != nil {
			return errors.Annotatef(err, "failed to clear test mode")
		}
	}
	return errors.Trace(c.Run(ctx))
}
