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
package algo

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
)

// Core is what the runner needs from core control.
type Core interface {
	common.TargetMemReaderWriter

	Halt(ctx context.Context) error
	Resume(ctx context.Context, flashing bool) error
	ResetAndHalt(ctx context.Context, kind cortex.ResetKind) error
	WaitHalted(ctx context.Context, d time.Duration) error
	ReadCoreReg(ctx context.Context, reg int) (uint32, error)
	WriteCoreReg(ctx context.Context, reg int, value uint32) error
	GetRegs(ctx context.Context) (*cortex.RegFile, error)
}

// Timeouts bound the algorithm function calls.
type Timeouts struct {
	Init        time.Duration
	UnInit      time.Duration
	EraseAll    time.Duration
	EraseSector time.Duration
	ProgramPage time.Duration
}

var DefaultTimeouts = Timeouts{
	Init:        5 * time.Second,
	UnInit:      5 * time.Second,
	EraseAll:    120 * time.Second,
	EraseSector: 5 * time.Second,
	ProgramPage: 5 * time.Second,
}

// Weights are relative durations used to estimate progress.
type Weights struct {
	ChipErase   float64
	SectorErase float64
	ProgramPage float64
}

var DefaultWeights = Weights{
	ChipErase:   0.174,
	SectorErase: 0.048,
	ProgramPage: 0.130,
}

// PageInfo describes the erase unit containing an address.
type PageInfo struct {
	BaseAddr      uint32
	Size          uint32
	EraseWeight   float64
	ProgramWeight float64
}

type Stats struct {
	Calls    int
	Erase    time.Duration
	Transfer time.Duration
	Program  time.Duration
}

// Flash runs an algorithm on a core.
type Flash struct {
	core Core
	algo *Algorithm

	Timeouts Timeouts
	Weights  Weights
	// Clock is passed to Init.
	Clock uint32
	// ResetOnInit resets and halts the core before the algorithm is loaded.
	ResetOnInit bool
	ResetKind   cortex.ResetKind

	debug        bool
	doubleBuffer bool
	op           Operation
	stats        Stats
}

// FlashFactory creates the runner for a flash region.
type FlashFactory func(core Core, a *Algorithm) *Flash

func NewFlash(core Core, a *Algorithm) *Flash {
	return &Flash{
		core:         core,
		algo:         a,
		Timeouts:     DefaultTimeouts,
		Weights:      DefaultWeights,
		ResetOnInit:  true,
		doubleBuffer: len(a.PageBuffers) == 2,
	}
}

func (f *Flash) Algo() *Algorithm {
	return f.algo
}

// SetDebug enables extra checks and register dumps after every call.
func (f *Flash) SetDebug(debug bool) {
	f.debug = debug
}

// SetDoubleBuffer turns pipelining on or off. It stays off if the algorithm has less than two page buffers.
func (f *Flash) SetDoubleBuffer(enable bool) {
	f.doubleBuffer = enable && f.DoubleBufferSupported()
}

func (f *Flash) DoubleBufferSupported() bool {
	return len(f.algo.PageBuffers) == 2
}

// Active returns the operation the algorithm is initialized for, 0 if none.
func (f *Flash) Active() Operation {
	return f.op
}

func (f *Flash) Stats() Stats {
	return f.stats
}

func (f *Flash) PageInfo(addr uint32) (PageInfo, error) {
	start, size, err := f.algo.SectorAt(addr)
	if err != nil {
		return PageInfo{}, errors.Trace(err)
	}
	return PageInfo{
		BaseAddr:      start,
		Size:          size,
		EraseWeight:   f.Weights.SectorErase,
		ProgramWeight: f.Weights.ProgramPage * float64(size) / float64(f.algo.PageSize),
	}, nil
}

func (f *Flash) writeBuffer(ctx context.Context, addr uint32, data []byte) error {
	if addr%4 == 0 && len(data)%4 == 0 {
		return errors.Trace(f.core.WriteTargetMem(ctx, addr, common.ToWords(data, 0)))
	}
	return errors.Trace(f.core.WriteTargetMem8(ctx, addr, data))
}

// Load writes the algorithm image to RAM and reads it back.
func (f *Flash) Load(ctx context.Context) error {
	a := f.algo
	glog.V(1).Infof("Loading %s", a)
	if err := f.core.WriteTargetMem(ctx, a.LoadAddress, a.Instructions); err != nil {
		return errors.Annotatef(err, "failed to upload flash algorithm")
	}
	rb, err := f.core.ReadTargetMem(ctx, a.LoadAddress, len(a.Instructions))
	if err != nil {
		return errors.Annotatef(err, "failed to read back flash algorithm")
	}
	for i, w := range a.Instructions {
		if rb[i] != w {
			return errors.Errorf("failed to read back flash algorithm (%d 0x%08x 0x%08x)", i, rb[i], w)
		}
	}
	return nil
}

type regValue struct {
	reg   int
	value uint32
}

// callFunction sets up the registers and lets the core run the function.
// The return address points at the breakpoint at the start of the image.
func (f *Flash) callFunction(ctx context.Context, name string, pc uint32, args ...uint32) error {
	a := f.algo
	glog.V(3).Infof("%s(%#x)", name, args)
	regs := []regValue{
		{9, a.StaticBase},
		{cortex.SP, a.BeginStack},
		{cortex.LR, a.LoadAddress | 1},
		{cortex.PC, pc},
	}
	for i, arg := range args {
		regs = append(regs, regValue{i, arg})
	}
	for _, r := range regs {
		if err := f.core.WriteCoreReg(ctx, r.reg, r.value); err != nil {
			return errors.Annotatef(err, "%s: failed to set R%d", name, r.reg)
		}
	}
	f.stats.Calls++
	return errors.Annotatef(f.core.Resume(ctx, true /* flashing */), "%s: failed to run", name)
}

// waitForCompletion waits for the function to return and checks its result.
func (f *Flash) waitForCompletion(ctx context.Context, name string, timeout time.Duration) error {
	if err := f.core.WaitHalted(ctx, timeout); err != nil {
		if errors.IsTimeout(errors.Cause(err)) {
			if herr := f.core.Halt(ctx); herr != nil {
				glog.Errorf("failed to halt after %s timeout: %s", name, herr)
			}
			return errors.Annotatef(err, "flash algorithm %s did not return", name)
		}
		return errors.Trace(err)
	}
	if f.debug {
		regs, err := f.core.GetRegs(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		glog.V(2).Infof("%s returned: %s", name, regs)
		if regs.R[cortex.PC]&^1 != f.algo.LoadAddress {
			return errors.Errorf("flash algorithm %s stopped at 0x%08x, not at the return breakpoint", name, regs.R[cortex.PC])
		}
	}
	r0, err := f.core.ReadCoreReg(ctx, 0)
	if err != nil {
		return errors.Annotatef(err, "%s: failed to read result", name)
	}
	if r0 != 0 {
		return common.NewAlgorithmError(name, r0)
	}
	return nil
}

func (f *Flash) callFunctionAndWait(ctx context.Context, name string, timeout time.Duration, pc uint32, args ...uint32) error {
	if err := f.callFunction(ctx, name, pc, args...); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(f.waitForCompletion(ctx, name, timeout))
}

// Init prepares the algorithm for op. Initializing for another operation
// uninitializes first.
func (f *Flash) Init(ctx context.Context, op Operation) error {
	if f.op == op {
		return nil
	}
	if f.op != 0 {
		if err := f.Uninit(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	glog.V(1).Infof("Init(%s) %s", op, f.algo.Name)
	if f.ResetOnInit {
		if err := f.core.ResetAndHalt(ctx, f.ResetKind); err != nil {
			return errors.Annotatef(err, "failed to reset and halt the target")
		}
	} else {
		if err := f.core.Halt(ctx); err != nil {
			return errors.Trace(err)
		}
		if err := f.core.WaitHalted(ctx, f.Timeouts.Init); err != nil {
			return errors.Trace(err)
		}
	}
	if err := f.Load(ctx); err != nil {
		return errors.Trace(err)
	}
	if err := f.core.WriteCoreReg(ctx, cortex.XPSR, cortex.XPSR_THUMB); err != nil {
		return errors.Annotatef(err, "failed to set xPSR")
	}
	if err := f.callFunctionAndWait(ctx, "Init", f.Timeouts.Init, f.algo.PCInit, f.algo.FlashStart, f.Clock, uint32(op)); err != nil {
		return errors.Annotatef(err, "failed to init flash algorithm")
	}
	f.op = op
	return nil
}

// Uninit calls UnInit for the active operation. The session is over even if it fails.
func (f *Flash) Uninit(ctx context.Context) error {
	if f.op == 0 {
		return nil
	}
	op := f.op
	f.op = 0
	if f.algo.PCUnInit == 0 {
		return nil
	}
	glog.V(1).Infof("UnInit(%s) %s", op, f.algo.Name)
	return errors.Annotatef(
		f.callFunctionAndWait(ctx, "UnInit", f.Timeouts.UnInit, f.algo.PCUnInit, uint32(op)),
		"failed to uninit flash algorithm")
}

func (f *Flash) requireOp(op Operation) error {
	if f.op != op {
		return errors.Errorf("flash algorithm is not initialized for %s (active: %s)", op, f.op)
	}
	return nil
}

// EraseAll erases the whole flash the algorithm covers.
func (f *Flash) EraseAll(ctx context.Context) error {
	if f.algo.PCEraseAll == 0 {
		return errors.NotSupportedf("%s: erase all", f.algo.Name)
	}
	if err := f.requireOp(OpErase); err != nil {
		return errors.Trace(err)
	}
	start := time.Now()
	err := f.callFunctionAndWait(ctx, "EraseChip", f.Timeouts.EraseAll, f.algo.PCEraseAll)
	f.stats.Erase += time.Since(start)
	return errors.Trace(err)
}

// EraseSector erases the sector starting at addr.
func (f *Flash) EraseSector(ctx context.Context, addr uint32) error {
	if err := f.algo.checkSector(addr); err != nil {
		return errors.Trace(err)
	}
	if err := f.requireOp(OpErase); err != nil {
		return errors.Trace(err)
	}
	glog.V(2).Infof("EraseSector(0x%08x)", addr)
	start := time.Now()
	err := f.callFunctionAndWait(ctx, "EraseSector", f.Timeouts.EraseSector, f.algo.PCEraseSector, addr)
	f.stats.Erase += time.Since(start)
	return errors.Annotatef(err, "failed to erase sector @ 0x%x", addr)
}

func (f *Flash) bufferAddr(i int) uint32 {
	if len(f.algo.PageBuffers) == 0 {
		return f.algo.BeginData
	}
	return f.algo.PageBuffers[i%len(f.algo.PageBuffers)]
}

// ProgramPage programs a single page from the first buffer.
func (f *Flash) ProgramPage(ctx context.Context, addr uint32, data []byte) error {
	if err := f.algo.checkPage(addr, len(data)); err != nil {
		return errors.Trace(err)
	}
	if err := f.requireOp(OpProgram); err != nil {
		return errors.Trace(err)
	}
	p := page{addr: addr, data: data}
	if err := f.transfer(ctx, p, f.bufferAddr(0)); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(f.program(ctx, p, f.bufferAddr(0)))
}

type page struct {
	addr uint32
	data []byte
}

// pages splits data into page-sized chunks and validates all of them.
func (f *Flash) pages(addr uint32, data []byte) ([]page, error) {
	ps := int(f.algo.PageSize)
	if len(data) == 0 {
		return nil, common.GeometryErrorf(addr, 0, "no data")
	}
	if !f.algo.Contains(addr, uint32(len(data))) {
		return nil, common.GeometryErrorf(addr, uint32(len(data)), "outside of flash 0x%08x-0x%08x",
			f.algo.FlashStart, f.algo.FlashStart+f.algo.FlashSize)
	}
	var res []page
	for off := 0; off < len(data); off += ps {
		end := off + ps
		if end > len(data) {
			end = len(data)
		}
		p := page{addr: addr + uint32(off), data: data[off:end]}
		if err := f.algo.checkPage(p.addr, len(p.data)); err != nil {
			return nil, errors.Trace(err)
		}
		res = append(res, p)
	}
	return res, nil
}

func (f *Flash) transfer(ctx context.Context, p page, buf uint32) error {
	start := time.Now()
	glog.V(2).Infof("Sending %d to 0x%x...", len(p.data), buf)
	err := f.writeBuffer(ctx, buf, p.data)
	f.stats.Transfer += time.Since(start)
	return errors.Annotatef(err, "failed to upload data for 0x%x", p.addr)
}

func (f *Flash) startProgram(ctx context.Context, p page, buf uint32) error {
	glog.V(2).Infof("Writing %d @ 0x%x...", len(p.data), p.addr)
	return errors.Trace(f.callFunction(ctx, "ProgramPage", f.algo.PCProgramPage, p.addr, uint32(len(p.data)), buf))
}

func (f *Flash) program(ctx context.Context, p page, buf uint32) error {
	start := time.Now()
	if err := f.startProgram(ctx, p, buf); err != nil {
		return errors.Trace(err)
	}
	err := f.waitForCompletion(ctx, "ProgramPage", f.Timeouts.ProgramPage)
	f.stats.Program += time.Since(start)
	return errors.Annotatef(err, "failed to write @ 0x%x", p.addr)
}

// ProgramPages programs consecutive pages starting at addr. With double
// buffering the next page is sent to the idle buffer while the previous one is
// being programmed. Everything is validated before the first transaction.
func (f *Flash) ProgramPages(ctx context.Context, addr uint32, data []byte) error {
	pages, err := f.pages(addr, data)
	if err != nil {
		return errors.Trace(err)
	}
	if err := f.requireOp(OpProgram); err != nil {
		return errors.Trace(err)
	}
	if !f.doubleBuffer {
		for _, p := range pages {
			if err := f.transfer(ctx, p, f.bufferAddr(0)); err != nil {
				return errors.Trace(err)
			}
			if err := f.program(ctx, p, f.bufferAddr(0)); err != nil {
				return errors.Trace(err)
			}
		}
		return nil
	}
	if err := f.transfer(ctx, pages[0], f.bufferAddr(0)); err != nil {
		return errors.Trace(err)
	}
	for i, p := range pages {
		start := time.Now()
		if err := f.startProgram(ctx, p, f.bufferAddr(i)); err != nil {
			return errors.Trace(err)
		}
		var terr error
		if i+1 < len(pages) {
			terr = f.transfer(ctx, pages[i+1], f.bufferAddr(i+1))
		}
		// Always collect the page in flight, the core must be halted before anything else runs.
		err := f.waitForCompletion(ctx, "ProgramPage", f.Timeouts.ProgramPage)
		f.stats.Program += time.Since(start)
		if err != nil {
			return errors.Annotatef(err, "failed to write @ 0x%x", p.addr)
		}
		if terr != nil {
			return errors.Trace(terr)
		}
	}
	return nil
}
