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
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/timeout"
)

// Control is the capability set of a debugged core. Family-specific cores
// implement it by wrapping Core and replacing the methods they need.
type Control interface {
	common.TargetMemReaderWriter

	Name() string
	Halt(ctx context.Context) error
	// Resume leaves the halted state. flashing tells whether a flash session is
	// active on the target. Resuming a core that is not halted does nothing.
	Resume(ctx context.Context, flashing bool) error
	Reset(ctx context.Context, kind ResetKind) error
	ResetAndHalt(ctx context.Context, kind ResetKind) error
	WaitHalted(ctx context.Context, d time.Duration) error
	GetState(ctx context.Context) (State, error)
	Step(ctx context.Context) error
	ReadCoreReg(ctx context.Context, reg int) (uint32, error)
	WriteCoreReg(ctx context.Context, reg int, value uint32) error
	GetRegs(ctx context.Context) (*RegFile, error)
	SetBreakpoint(ctx context.Context, addr uint32) error
	RemoveBreakpoint(ctx context.Context, addr uint32) error
	SetVectorCatch(ctx context.Context, vc VectorCatch) error
	Subscribe(l Listener) func()
	// Reconnect re-establishes the debug port connection.
	Reconnect(ctx context.Context) error
}

// Defaults for Core's timeouts.
const (
	DefaultResetTimeout = 5 * time.Second
	DefaultHaltTimeout  = 5 * time.Second
	DefaultMemRetries   = 3
)

// Core is the generic ARMv6-M / ARMv7-M core control over a link.
type Core struct {
	link common.Link
	name string

	// DefaultReset is used when ResetDefault is requested.
	DefaultReset ResetKind
	// ResetTimeout bounds the wait for the reset status to clear.
	ResetTimeout time.Duration
	// HaltTimeout bounds the wait for halt in ResetAndHalt and Step.
	HaltTimeout time.Duration
	// MemRetries is how many times a memory access is issued before a transfer error is returned.
	MemRetries int
	// ResetSettle is the pause after a hardware reset before the debug port is reconnected.
	// Zero leaves reconnection to the reset status poll.
	ResetSettle time.Duration
	// ReconnectEveryPoll re-initializes the debug port before every reset status read.
	ReconnectEveryPoll bool

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int

	fpb fpb
}

// Static check
var _ Control = (*Core)(nil)

func NewCore(name string, link common.Link) *Core {
	return &Core{
		link:         link,
		name:         name,
		DefaultReset: ResetSysResetReq,
		ResetTimeout: DefaultResetTimeout,
		HaltTimeout:  DefaultHaltTimeout,
		MemRetries:   DefaultMemRetries,
		listeners:    map[int]Listener{},
	}
}

func (c *Core) Name() string {
	return c.name
}

func (c *Core) Link() common.Link {
	return c.link
}

// Init checks that there is a Cortex-M core behind the link.
func (c *Core) Init(ctx context.Context) error {
	cpuid, err := c.ReadTargetReg(ctx, regCPUID)
	if err != nil {
		return errors.Annotatef(err, "%s: failed to get CPUID", c.name)
	}
	if !IsCortexM(cpuid) {
		return errors.Errorf("%s: not a Cortex-M core (CPUID 0x%08x)", c.name, cpuid)
	}
	glog.V(1).Infof("%s: %s", c.name, TargetName(cpuid, 0))
	return nil
}

// Subscribe adds a listener, returns a function that removes it.
func (c *Core) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Core) Notify(ev Event) {
	c.mu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for i := 0; i < c.nextID; i++ {
		if l, ok := c.listeners[i]; ok {
			ls = append(ls, l)
		}
	}
	c.mu.Unlock()
	glog.V(3).Infof("%s: %s", c.name, ev)
	for _, l := range ls {
		l(ev)
	}
}

// retry issues op until it succeeds, flushing the link after every transfer error.
func (c *Core) retry(ctx context.Context, what string, op func() error) error {
	var err error
	tries := c.MemRetries
	if tries < 1 {
		tries = 1
	}
	for i := 0; i < tries; i++ {
		if err = op(); err == nil || !common.IsTransferError(err) {
			return errors.Trace(err)
		}
		glog.V(3).Infof("%s: %s failed (attempt %d): %s", c.name, what, i+1, err)
		c.link.Flush(ctx) // Clears sticky errors, the result is the same error.
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Annotatef(err, "%s: %s", c.name, what)
}

func (c *Core) ReadTargetReg(ctx context.Context, addr uint32) (uint32, error) {
	var v uint32
	err := c.retry(ctx, "read", func() (err error) {
		v, err = c.link.ReadTargetReg(ctx, addr)
		return err
	})
	return v, err
}

func (c *Core) ReadTargetMem(ctx context.Context, addr uint32, length int) ([]uint32, error) {
	var v []uint32
	err := c.retry(ctx, "read", func() (err error) {
		v, err = c.link.ReadTargetMem(ctx, addr, length)
		return err
	})
	return v, err
}

func (c *Core) ReadTargetMem8(ctx context.Context, addr uint32, length int) ([]byte, error) {
	var v []byte
	err := c.retry(ctx, "read", func() (err error) {
		v, err = c.link.ReadTargetMem8(ctx, addr, length)
		return err
	})
	return v, err
}

func (c *Core) WriteTargetReg(ctx context.Context, addr uint32, value uint32) error {
	return c.retry(ctx, "write", func() error {
		return c.link.WriteTargetReg(ctx, addr, value)
	})
}

func (c *Core) WriteTargetMem(ctx context.Context, addr uint32, data []uint32) error {
	return c.retry(ctx, "write", func() error {
		return c.link.WriteTargetMem(ctx, addr, data)
	})
}

func (c *Core) WriteTargetMem8(ctx context.Context, addr uint32, data []byte) error {
	return c.retry(ctx, "write", func() error {
		return c.link.WriteTargetMem8(ctx, addr, data)
	})
}

func (c *Core) Reconnect(ctx context.Context) error {
	return errors.Trace(c.link.ReconnectDP(ctx))
}

// Flush commits queued link transactions, retrying transfer errors.
func (c *Core) Flush(ctx context.Context) error {
	return c.retry(ctx, "flush", func() error {
		return c.link.Flush(ctx)
	})
}

// writeDHCSR writes DHCSR and flushes, the pair is re-issued on transfer errors.
func (c *Core) writeDHCSR(ctx context.Context, what string, value uint32) error {
	return c.retry(ctx, what, func() error {
		if err := c.link.WriteTargetReg(ctx, regDHCSR, regDHCSRKey|value); err != nil {
			return err
		}
		return c.link.Flush(ctx)
	})
}

func (c *Core) Halt(ctx context.Context) error {
	glog.V(3).Infof("%s: Halt()", c.name)
	return c.writeDHCSR(ctx, "failed to set DHCSR", C_DEBUGEN|C_HALT)
}

// Resume ignores flashing, only secure parts care about it.
func (c *Core) Resume(ctx context.Context, flashing bool) error {
	st, err := c.GetState(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if st != StateHalted {
		glog.V(1).Infof("%s: cannot resume, core is %s", c.name, st)
		return nil
	}
	return errors.Trace(c.Run(ctx))
}

// Run lets the halted core go, with the notifications around it.
func (c *Core) Run(ctx context.Context) error {
	c.Notify(EventPreRun)
	if err := c.writeDHCSR(ctx, "failed to set DHCSR", C_DEBUGEN); err != nil {
		return errors.Trace(err)
	}
	c.Notify(EventPostRun)
	return nil
}

func (c *Core) readDHCSR(ctx context.Context) (uint32, error) {
	var dhcsr uint32
	err := c.retry(ctx, "failed to get DHCSR", func() (err error) {
		dhcsr, err = c.link.ReadTargetReg(ctx, regDHCSR)
		return err
	})
	return dhcsr, errors.Trace(err)
}

// GetState reads DHCSR every time. S_RESET_ST is sticky, so it is read again
// to tell a held reset from one that has already passed.
func (c *Core) GetState(ctx context.Context) (State, error) {
	dhcsr, err := c.readDHCSR(ctx)
	if err != nil {
		return StateUnknown, errors.Trace(err)
	}
	if dhcsr&S_RESET_ST != 0 {
		dhcsr2, err := c.readDHCSR(ctx)
		if err != nil {
			return StateUnknown, errors.Trace(err)
		}
		if dhcsr2&S_RESET_ST != 0 && dhcsr2&S_RETIRE == 0 {
			return StateReset, nil
		}
		dhcsr = dhcsr2
	}
	switch {
	case dhcsr&S_LOCKUP != 0:
		return StateUnknown, nil
	case dhcsr&S_HALT != 0:
		return StateHalted, nil
	}
	return StateRunning, nil
}

func (c *Core) IsHalted(ctx context.Context) (bool, error) {
	st, err := c.GetState(ctx)
	return st == StateHalted, errors.Trace(err)
}

// WaitHalted polls the run state until the core halts. Transfer errors are retried.
func (c *Core) WaitHalted(ctx context.Context, d time.Duration) error {
	return errors.Trace(timeout.Poll(ctx, d, c.name+" to halt", func(ctx context.Context) (bool, error) {
		return c.IsHalted(ctx)
	}))
}

// Step executes one instruction with interrupts masked.
func (c *Core) Step(ctx context.Context) error {
	dhcsr, err := c.readDHCSR(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if dhcsr&S_HALT == 0 {
		glog.V(1).Infof("%s: cannot step, core is not halted", c.name)
		return nil
	}
	if dhcsr&C_MASKINTS == 0 {
		if err := c.writeDHCSR(ctx, "failed to mask interrupts", C_DEBUGEN|C_HALT|C_MASKINTS); err != nil {
			return errors.Trace(err)
		}
	}
	c.Notify(EventPreRun)
	if err := c.writeDHCSR(ctx, "failed to step", C_DEBUGEN|C_MASKINTS|C_STEP); err != nil {
		return errors.Trace(err)
	}
	if err := c.WaitHalted(ctx, c.HaltTimeout); err != nil {
		return errors.Trace(err)
	}
	c.Notify(EventPostRun)
	if dhcsr&C_MASKINTS == 0 {
		if err := c.writeDHCSR(ctx, "failed to unmask interrupts", C_DEBUGEN|C_HALT); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (c *Core) waitRegReady(ctx context.Context) error {
	return timeout.Poll(ctx, c.HaltTimeout, "register transfer", func(ctx context.Context) (bool, error) {
		dhcsr, err := c.readDHCSR(ctx)
		return dhcsr&S_REGRDY != 0, err
	})
}

func (c *Core) WriteCoreReg(ctx context.Context, reg int, value uint32) error {
	glog.V(4).Infof("%s: SetReg(%d, 0x%x)", c.name, reg, value)
	if err := c.WriteTargetReg(ctx, regDCRDR, value); err != nil {
		return errors.Annotatef(err, "failed to set DCRDR")
	}
	if err := c.WriteTargetReg(ctx, regDCRSR, dcrsrWrite|uint32(reg)); err != nil {
		return errors.Annotatef(err, "failed to set DCRSR")
	}
	return errors.Trace(c.waitRegReady(ctx))
}

func (c *Core) ReadCoreReg(ctx context.Context, reg int) (uint32, error) {
	if err := c.WriteTargetReg(ctx, regDCRSR, uint32(reg)); err != nil {
		return 0, errors.Annotatef(err, "failed to set DCRSR")
	}
	if err := c.waitRegReady(ctx); err != nil {
		return 0, errors.Annotatef(err, "failed to wait for reg read")
	}
	value, err := c.ReadTargetReg(ctx, regDCRDR)
	if err != nil {
		return 0, errors.Annotatef(err, "failed to read DCRDR")
	}
	glog.V(4).Infof("%s: GetReg(%d) == 0x%x", c.name, reg, value)
	return value, nil
}

func (c *Core) GetRegs(ctx context.Context) (*RegFile, error) {
	regs := &RegFile{}
	var err error
	for i := 0; i < 16; i++ {
		if regs.R[i], err = c.ReadCoreReg(ctx, i); err != nil {
			return nil, errors.Annotatef(err, "failed to get R%d", i)
		}
	}
	if regs.XPSR, err = c.ReadCoreReg(ctx, XPSR); err != nil {
		return nil, errors.Annotatef(err, "failed to get xPSR")
	}
	if regs.MSP, err = c.ReadCoreReg(ctx, MSP); err != nil {
		return nil, errors.Annotatef(err, "failed to get MSP")
	}
	if regs.PSP, err = c.ReadCoreReg(ctx, PSP); err != nil {
		return nil, errors.Annotatef(err, "failed to get PSP")
	}
	return regs, nil
}

func (c *Core) SetVectorCatch(ctx context.Context, vc VectorCatch) error {
	demcr, err := c.ReadTargetReg(ctx, regDEMCR)
	if err != nil {
		return errors.Annotatef(err, "failed to read DEMCR")
	}
	demcr = demcr&^uint32(VC_ALL) | uint32(vc)
	return errors.Annotatef(c.WriteTargetReg(ctx, regDEMCR, demcr), "failed to set DEMCR")
}

func (c *Core) GetVectorCatch(ctx context.Context) (VectorCatch, error) {
	demcr, err := c.ReadTargetReg(ctx, regDEMCR)
	if err != nil {
		return 0, errors.Annotatef(err, "failed to read DEMCR")
	}
	return VectorCatch(demcr) & VC_ALL, nil
}

func (c *Core) resolveReset(kind ResetKind) ResetKind {
	if kind == ResetDefault {
		kind = c.DefaultReset
	}
	if kind == ResetDefault {
		kind = ResetSysResetReq
	}
	return kind
}

// Reset performs the reset and waits for it to complete.
func (c *Core) Reset(ctx context.Context, kind ResetKind) error {
	kind = c.resolveReset(kind)
	glog.V(3).Infof("%s: Reset(%s)", c.name, kind)
	c.Notify(EventPreReset)
	if err := c.ResetStimulus(ctx, kind); err != nil {
		return errors.Trace(err)
	}
	if kind != ResetEmulated {
		if err := c.WaitResetDone(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	if kind == ResetHardware {
		// Hardware reset takes the FPB down with the rest of the chip.
		if err := c.ReinstallBreakpoints(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	c.Notify(EventPostReset)
	return nil
}

// ResetStimulus issues the reset without waiting for it.
func (c *Core) ResetStimulus(ctx context.Context, kind ResetKind) error {
	switch c.resolveReset(kind) {
	case ResetHardware:
		if err := c.link.HardwareReset(ctx); err != nil {
			return errors.Annotatef(err, "%s: hardware reset failed", c.name)
		}
		if c.ResetSettle <= 0 {
			return nil
		}
		if err := timeout.Sleep(ctx, c.ResetSettle); err != nil {
			return errors.Trace(err)
		}
		return errors.Annotatef(c.link.ReconnectDP(ctx), "%s: failed to reconnect after reset", c.name)
	case ResetSysResetReq:
		return errors.Trace(c.writeAIRCR(ctx, aircrSysResetReq))
	case ResetVectReset:
		return errors.Trace(c.writeAIRCR(ctx, aircrVectReset))
	case ResetEmulated:
		return errors.Trace(c.emulatedReset(ctx))
	}
	return errors.NotSupportedf("reset kind %s", kind)
}

func (c *Core) writeAIRCR(ctx context.Context, bits uint32) error {
	if err := c.link.WriteTargetReg(ctx, regAIRCR, regAIRCRKey|bits); err != nil {
		if !common.IsTransferError(err) {
			return errors.Annotatef(err, "%s: failed to write AIRCR", c.name)
		}
		// The core may go into reset before the write is acknowledged.
		glog.V(3).Infof("%s: AIRCR write: %s", c.name, err)
	}
	if err := c.link.Flush(ctx); err != nil && !common.IsTransferError(err) {
		return errors.Trace(err)
	}
	return nil
}

// WaitResetDone polls until S_RESET_ST reads as clear. Resets drop the debug
// port connection, so it is re-established after every failed attempt
// (or before every attempt with ReconnectEveryPoll).
func (c *Core) WaitResetDone(ctx context.Context) error {
	reconnect := false
	return errors.Trace(timeout.Poll(ctx, c.ResetTimeout, c.name+" reset", func(ctx context.Context) (bool, error) {
		if reconnect || c.ReconnectEveryPoll {
			if err := c.link.ReconnectDP(ctx); err != nil {
				return false, errors.Trace(err)
			}
			reconnect = false
		}
		dhcsr, err := c.readDHCSR(ctx)
		if err != nil {
			reconnect = true
			return false, errors.Trace(err)
		}
		return dhcsr&S_RESET_ST == 0, nil
	}))
}

// emulatedReset halts the core and loads SP and PC from the vector table
// without resetting anything else.
func (c *Core) emulatedReset(ctx context.Context) error {
	if err := c.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := c.WaitHalted(ctx, c.HaltTimeout); err != nil {
		return errors.Trace(err)
	}
	vtor, err := c.ReadTargetReg(ctx, regVTOR)
	if err != nil {
		return errors.Annotatef(err, "failed to read VTOR")
	}
	vt, err := c.ReadTargetMem(ctx, vtor, 2)
	if err != nil {
		return errors.Annotatef(err, "failed to read vector table at 0x%08x", vtor)
	}
	for _, r := range []struct {
		reg   int
		value uint32
	}{
		{XPSR, XPSR_THUMB},
		{MSP, vt[0]},
		{SP, vt[0]},
		{PC, vt[1] &^ 1},
		{LR, 0xffffffff},
	} {
		if err := c.WriteCoreReg(ctx, r.reg, r.value); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// ResetAndHalt resets the core and catches it before it executes anything.
func (c *Core) ResetAndHalt(ctx context.Context, kind ResetKind) error {
	kind = c.resolveReset(kind)
	if kind == ResetEmulated {
		return errors.Trace(c.Reset(ctx, kind))
	}
	if err := c.Halt(ctx); err != nil {
		return errors.Trace(err)
	}
	demcr, err := c.ReadTargetReg(ctx, regDEMCR)
	if err != nil {
		return errors.Annotatef(err, "failed to read DEMCR")
	}
	if err := c.WriteTargetReg(ctx, regDEMCR, demcr|uint32(VC_CORERESET)); err != nil {
		return errors.Annotatef(err, "failed to set DEMCR")
	}
	if err := c.Reset(ctx, kind); err != nil {
		return errors.Trace(err)
	}
	if kind == ResetHardware {
		// Debug logic has been reset too, catch the core now and fix up afterwards.
		if err := c.Halt(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	if err := c.WaitHalted(ctx, c.HaltTimeout); err != nil {
		return errors.Annotatef(err, "%s: failed to halt after reset", c.name)
	}
	if err := c.WriteTargetReg(ctx, regDEMCR, demcr); err != nil {
		return errors.Annotatef(err, "failed to restore DEMCR")
	}
	return errors.Trace(c.EnsureThumb(ctx))
}

// EnsureThumb sets the Thumb bit in xPSR if it is missing.
func (c *Core) EnsureThumb(ctx context.Context) error {
	xpsr, err := c.ReadCoreReg(ctx, XPSR)
	if err != nil {
		return errors.Annotatef(err, "failed to read xPSR")
	}
	if xpsr&XPSR_THUMB != 0 {
		return nil
	}
	return errors.Trace(c.WriteCoreReg(ctx, XPSR, xpsr|XPSR_THUMB))
}

