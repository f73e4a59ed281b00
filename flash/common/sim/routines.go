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
package sim

import (
	"encoding/binary"

	"github.com/golang/glog"
)

// Routines are the entry points of a simulated flash algorithm. Each one
// behaves like the corresponding CMSIS flash algorithm function, taking
// arguments in r0-r2 and returning the status in r0. Zero entries are absent.
type Routines struct {
	Init        uint32
	UnInit      uint32
	EraseAll    uint32
	EraseSector uint32
	ProgramPage uint32
}

// Call is a record of a routine invocation.
type Call struct {
	Entry uint32
	Name  string
	Args  [3]uint32
}

type routine struct {
	name string
	fn   func(t *Target, args [3]uint32) uint32
	// Status returned by the next n calls instead of running the routine.
	failCode  uint32
	failCount int
}

type pendingCall struct {
	r       *routine
	args    [3]uint32
	lr      uint32
	remains int
}

// InstallRoutines makes the entry points in r executable.
func (t *Target) InstallRoutines(r Routines) {
	t.mu.Lock()
	defer t.mu.Unlock()
	add := func(addr uint32, name string, fn func(t *Target, args [3]uint32) uint32) {
		if addr != 0 {
			t.routines[addr&^1] = &routine{name: name, fn: fn}
		}
	}
	add(r.Init, "Init", (*Target).algoInitFn)
	add(r.UnInit, "UnInit", (*Target).algoUnInitFn)
	add(r.EraseAll, "EraseChip", (*Target).algoEraseAllFn)
	add(r.EraseSector, "EraseSector", (*Target).algoEraseSectorFn)
	add(r.ProgramPage, "ProgramPage", (*Target).algoProgramPageFn)
}

// FailRoutine makes the next count calls of the routine at entry return code.
func (t *Target) FailRoutine(entry uint32, code uint32, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r := t.routines[entry&^1]; r != nil {
		r.failCode, r.failCount = code, count
	}
}

// SetLatency sets how many link operations a routine takes to complete.
// Negative latency makes routines never return.
func (t *Target) SetLatency(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latency = n
}

func (t *Target) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

func (t *Target) halfword(addr uint32) uint16 {
	return uint16(t.readByte(addr)) | uint16(t.readByte(addr+1))<<8
}

// run resumes the core. Unless PC is at a routine entry it just keeps running.
func (t *Target) run() {
	pc := t.regs[regPC] &^ 1
	r := t.routines[pc]
	if r == nil {
		glog.V(4).Infof("sim: running from 0x%08x", pc)
		return
	}
	args := [3]uint32{t.regs[0], t.regs[1], t.regs[2]}
	t.calls = append(t.calls, Call{Entry: pc, Name: r.name, Args: args})
	t.pending = &pendingCall{r: r, args: args, lr: t.regs[14], remains: t.latency}
}

// advance progresses a running routine by one link operation. The routine
// takes effect when it completes, so buffers it reads can be observed in use.
func (t *Target) advance() {
	pc := t.pending
	if pc == nil || pc.remains < 0 {
		return
	}
	if pc.remains > 0 {
		pc.remains--
		return
	}
	t.pending = nil
	var rv uint32
	if pc.r.failCount > 0 {
		pc.r.failCount--
		rv = pc.r.failCode
	} else {
		rv = pc.r.fn(t, pc.args)
	}
	ret := pc.lr &^ 1
	t.regs[0] = rv
	t.regs[regPC] = ret
	// Returning anywhere but a breakpoint instruction means the core runs away.
	if t.halfword(ret) != bkptInsn {
		glog.V(3).Infof("sim: %s returned to 0x%08x, no breakpoint there", pc.r.name, ret)
		return
	}
	t.halted = true
}

func (t *Target) algoInitFn(args [3]uint32) uint32 {
	if t.findMem(args[0]) == nil {
		return 1
	}
	t.algoInit = true
	t.algoBase = args[0]
	return 0
}

func (t *Target) algoUnInitFn(args [3]uint32) uint32 {
	if !t.algoInit {
		return 1
	}
	t.algoInit = false
	return 0
}

func (t *Target) flashAt(addr uint32) *Memory {
	m := t.findMem(addr)
	if m == nil || !m.Flash {
		return nil
	}
	return m
}

func (t *Target) algoEraseAllFn(args [3]uint32) uint32 {
	m := t.flashAt(t.algoBase)
	if !t.algoInit || m == nil {
		return 1
	}
	for i := range m.Data {
		m.Data[i] = m.ErasedByte
	}
	return 0
}

func (t *Target) algoEraseSectorFn(args [3]uint32) uint32 {
	m := t.flashAt(args[0])
	if !t.algoInit || m == nil || (args[0]-m.Start)%m.SectorSize != 0 {
		return 1
	}
	off := args[0] - m.Start
	for i := off; i < off+m.SectorSize && i < uint32(len(m.Data)); i++ {
		m.Data[i] = m.ErasedByte
	}
	return 0
}

func (t *Target) algoProgramPageFn(args [3]uint32) uint32 {
	addr, size, buf := args[0], args[1], args[2]
	m := t.flashAt(addr)
	if !t.algoInit || m == nil || addr-m.Start+size > uint32(len(m.Data)) {
		return 1
	}
	src := t.findMem(buf)
	if src == nil || src.Flash || buf-src.Start+size > uint32(len(src.Data)) {
		return 1
	}
	off := buf - src.Start
	copy(m.Data[addr-m.Start:], src.Data[off:off+size])
	return 0
}

// WordsLE is a helper building little-endian images in tests.
func WordsLE(words ...uint32) []byte {
	b := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}
