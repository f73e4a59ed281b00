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

// Package sim is an in-memory Cortex-M target reachable through common.Link.
//
// It models the debug registers a host touches (DHCSR, DCRSR, DCRDR, DEMCR,
// AIRCR, VTOR, FPB), RAM and flash arrays, and flash routines that run when
// the core is resumed with PC at their entry point. Link faults can be
// injected to exercise retry paths.
package sim

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
)

const (
	regCPUID  = 0xe000ed00
	regVTOR   = 0xe000ed08
	regAIRCR  = 0xe000ed0c
	regDFSR   = 0xe000ed30
	regDHCSR  = 0xe000edf0
	regDCRSR  = 0xe000edf4
	regDCRDR  = 0xe000edf8
	regDEMCR  = 0xe000edfc
	regFPCtrl = 0xe0002000
	regFPComp = 0xe0002008

	numFPComps = 6

	dbgKey      = 0xa05f0000
	cDebugEn    = 1 << 0
	cHalt       = 1 << 1
	cStep       = 1 << 2
	cMaskInts   = 1 << 3
	sRegRdy     = 1 << 16
	sHalt       = 1 << 17
	sResetSt    = 1 << 25
	vectKey     = 0x05fa0000
	vectReset   = 1 << 0
	sysResetReq = 1 << 2
	vcCoreReset = 1 << 0

	regPC   = 15
	regXPSR = 16
	regSP   = 13

	bkptInsn = 0xbe00
)

type ResetKind int

const (
	ResetHardware ResetKind = iota
	ResetSystem
	ResetVector
)

func (k ResetKind) String() string {
	switch k {
	case ResetHardware:
		return "hardware"
	case ResetSystem:
		return "system"
	case ResetVector:
		return "vector"
	}
	return "unknown"
}

// Memory is a byte-addressable region of the simulated target.
type Memory struct {
	Name  string
	Start uint32
	Data  []byte
	// Flash regions are not writable over the bus and are changed by routines only.
	Flash      bool
	SectorSize uint32
	ErasedByte byte
}

func (m *Memory) contains(addr uint32) bool {
	return addr >= m.Start && addr-m.Start < uint32(len(m.Data))
}

// Peripheral hooks a single word-sized register. Either function may be nil.
type Peripheral struct {
	Read  func() uint32
	Write func(v uint32)
}

// Target is the simulated chip. All methods are safe for concurrent use.
type Target struct {
	mu sync.Mutex

	// CPUID is what the CPUID register reads as.
	CPUID uint32
	// ResetVectorTable is the vector table location used on reset.
	ResetVectorTable uint32

	mems        []*Memory
	io          map[uint32]uint32
	peripherals map[uint32]Peripheral
	onReset     []func(kind ResetKind)

	regs        map[uint32]uint32
	dcrdr       uint32
	debugEn     bool
	halted      bool
	maskInts    bool
	resetSticky bool
	demcr       uint32
	vtor        uint32
	fpCtrl      uint32
	fpComps     [numFPComps]uint32

	routines map[uint32]*routine
	pending  *pendingCall
	calls    []Call
	algoInit bool
	algoBase uint32
	latency  int

	transactions int
	reconnects   int
	resets       []ResetKind
	failNext     int
	failUntil    time.Time
}

func New() *Target {
	return &Target{
		CPUID:       0x410fc241,
		io:          map[uint32]uint32{},
		peripherals: map[uint32]Peripheral{},
		regs:        map[uint32]uint32{},
		routines:    map[uint32]*routine{},
	}
}

// AddRAM adds a zero-filled RAM region.
func (t *Target) AddRAM(name string, start, size uint32) *Memory {
	m := &Memory{Name: name, Start: start, Data: make([]byte, size)}
	t.mu.Lock()
	t.mems = append(t.mems, m)
	t.mu.Unlock()
	return m
}

// AddFlash adds an erased flash region.
func (t *Target) AddFlash(name string, start, size, sectorSize uint32, erased byte) *Memory {
	m := &Memory{Name: name, Start: start, Data: make([]byte, size), Flash: true, SectorSize: sectorSize, ErasedByte: erased}
	for i := range m.Data {
		m.Data[i] = erased
	}
	t.mu.Lock()
	t.mems = append(t.mems, m)
	t.mu.Unlock()
	return m
}

func (t *Target) AddPeripheral(addr uint32, p Peripheral) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peripherals[addr] = p
}

// OnReset registers a callback invoked (with the lock held) on every reset.
func (t *Target) OnReset(cb func(kind ResetKind)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = append(t.onReset, cb)
}

// FailNext makes the next n link operations fail with a transfer error.
func (t *Target) FailNext(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failNext = n
}

// FailFor makes link operations fail for the next d.
func (t *Target) FailFor(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failUntil = time.Now().Add(d)
}

// FailNextLocked is FailNext for use from hooks.
func (t *Target) FailNextLocked(n int) {
	t.failNext = n
}

// Transactions returns the number of link operations performed so far.
func (t *Target) Transactions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transactions
}

func (t *Target) Reconnects() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reconnects
}

func (t *Target) Resets() []ResetKind {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ResetKind(nil), t.resets...)
}

func (t *Target) Halted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.halted
}

func (t *Target) Reg(n uint32) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regs[n]
}

func (t *Target) SetReg(n uint32, v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regs[n] = v
}

// Halt puts the core in debug state, as if it hit a breakpoint.
func (t *Target) Halt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halted = true
}

// Peek reads memory bypassing the link. Flash contents can be inspected this way.
func (t *Target) Peek(addr uint32, length int) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	res := make([]byte, length)
	for i := range res {
		res[i] = t.readByte(addr + uint32(i))
	}
	return res
}

// Poke writes memory bypassing the link, flash included.
func (t *Target) Poke(addr uint32, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, b := range data {
		t.writeByte(addr+uint32(i), b, true)
	}
}

// PokeWord writes a word bypassing the link. Peripherals hooks are not invoked.
func (t *Target) PokeWord(addr uint32, v uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.findMem(addr) == nil {
		t.io[addr] = v
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	for i := range b {
		t.writeByte(addr+uint32(i), b[i], true)
	}
}

func (t *Target) PeekWord(addr uint32) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.findMem(addr) == nil {
		return t.io[addr]
	}
	return t.memWord(addr)
}

func (t *Target) findMem(addr uint32) *Memory {
	for _, m := range t.mems {
		if m.contains(addr) {
			return m
		}
	}
	return nil
}

func (t *Target) readByte(addr uint32) byte {
	if m := t.findMem(addr); m != nil {
		return m.Data[addr-m.Start]
	}
	return byte(t.io[addr&^3] >> ((addr & 3) * 8))
}

func (t *Target) writeByte(addr uint32, b byte, force bool) bool {
	if m := t.findMem(addr); m != nil {
		if m.Flash && !force {
			return false
		}
		m.Data[addr-m.Start] = b
		return true
	}
	shift := (addr & 3) * 8
	w := t.io[addr&^3]
	t.io[addr&^3] = w&^(0xff<<shift) | uint32(b)<<shift
	return true
}

func (t *Target) memWord(addr uint32) uint32 {
	var b [4]byte
	for i := range b {
		b[i] = t.readByte(addr + uint32(i))
	}
	return binary.LittleEndian.Uint32(b[:])
}

// tick accounts for one link operation and decides whether it fails.
func (t *Target) tick(op string, addr uint32) error {
	t.transactions++
	t.advance()
	if t.failNext > 0 {
		t.failNext--
		glog.V(4).Infof("sim: failing %s 0x%08x", op, addr)
		return common.NewTransferError(op, addr, errors.New("injected fault"))
	}
	if time.Now().Before(t.failUntil) {
		return common.NewTransferError(op, addr, errors.New("link down"))
	}
	return nil
}

func (t *Target) ReadTargetReg(ctx context.Context, addr uint32) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("read", addr); err != nil {
		return 0, err
	}
	return t.readWord(addr), nil
}

func (t *Target) ReadTargetMem(ctx context.Context, addr uint32, length int) ([]uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr%4 != 0 {
		return nil, errors.Errorf("addr must be word-aligned, got 0x%x", addr)
	}
	if err := t.tick("read", addr); err != nil {
		return nil, err
	}
	res := make([]uint32, length)
	for i := range res {
		res[i] = t.readWord(addr + uint32(i*4))
	}
	return res, nil
}

func (t *Target) ReadTargetMem8(ctx context.Context, addr uint32, length int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("read", addr); err != nil {
		return nil, err
	}
	res := make([]byte, length)
	for i := range res {
		res[i] = t.readByte(addr + uint32(i))
	}
	return res, nil
}

func (t *Target) WriteTargetReg(ctx context.Context, addr uint32, value uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("write", addr); err != nil {
		return err
	}
	return t.writeWord(addr, value)
}

func (t *Target) WriteTargetMem(ctx context.Context, addr uint32, data []uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if addr%4 != 0 {
		return errors.Errorf("addr must be word-aligned, got 0x%x", addr)
	}
	if err := t.tick("write", addr); err != nil {
		return err
	}
	for i, v := range data {
		if err := t.writeWord(addr+uint32(i*4), v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Target) WriteTargetMem8(ctx context.Context, addr uint32, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("write", addr); err != nil {
		return err
	}
	for i, b := range data {
		if !t.writeByte(addr+uint32(i), b, false) {
			return common.NewTransferError("write", addr+uint32(i), errors.New("bus fault"))
		}
	}
	return nil
}

func (t *Target) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tick("flush", 0)
}

func (t *Target) ReconnectDP(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("reconnect", 0); err != nil {
		return err
	}
	t.reconnects++
	return nil
}

// HardwareReset resets the whole chip, debug logic included. The FPB comes up
// disabled with its comparators cleared.
func (t *Target) HardwareReset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tick("nreset", 0); err != nil {
		return err
	}
	t.fpCtrl = 0
	t.fpComps = [numFPComps]uint32{}
	t.demcr = 0
	t.debugEn = false
	t.reset(ResetHardware)
	return nil
}
