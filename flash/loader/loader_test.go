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
package loader

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/algo"
	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/common/sim"
	"github.com/mongoose-os/cyflash/flash/memmap"
)

const (
	pcInit        = 0x08000021
	pcUnInit      = 0x08000027
	pcProgramPage = 0x08000041
	pcEraseSector = 0x08000035
	pcEraseAll    = 0x0800002d
)

var testInsns = func() []uint32 {
	insns := make([]uint32, 64)
	insns[0] = 0xe00abe00
	return insns
}()

func testAlgo(start, size uint32) *algo.Algorithm {
	return &algo.Algorithm{
		Name:             "test",
		LoadAddress:      0x08000000,
		Instructions:     testInsns,
		PCInit:           pcInit,
		PCUnInit:         pcUnInit,
		PCProgramPage:    pcProgramPage,
		PCEraseSector:    pcEraseSector,
		PCEraseAll:       pcEraseAll,
		StaticBase:       0x080000f0,
		BeginStack:       0x08000d00,
		BeginData:        0x08001000,
		PageBuffers:      []uint32{0x08001000, 0x08001200},
		MinProgramLength: 0x200,
		PageSize:         0x200,
		FlashStart:       start,
		FlashSize:        size,
		SectorSizes:      []algo.Sector{{Offset: 0, Size: 0x200}},
	}
}

type testTarget struct {
	core *cortex.Core
	mm   *memmap.Map
	slot Slot
}

func (t *testTarget) Name() string           { return "test" }
func (t *testTarget) Core() cortex.Control   { return t.core }
func (t *testTarget) MemoryMap() *memmap.Map { return t.mm }
func (t *testTarget) FlashSlot() *Slot       { return &t.slot }

func newTestTarget(t *testing.T) (*testTarget, *sim.Target) {
	st := sim.New()
	st.AddRAM("sram", 0x08000000, 0x10000)
	st.AddFlash("main", 0x10000000, 0x4000, 0x200, 0)
	st.AddFlash("work", 0x14000000, 0x8000, 0x200, 0)
	st.AddFlash("sflash", 0x16000000, 0x1000, 0x200, 0)
	st.InstallRoutines(sim.Routines{
		Init:        pcInit,
		UnInit:      pcUnInit,
		EraseAll:    pcEraseAll,
		EraseSector: pcEraseSector,
		ProgramPage: pcProgramPage,
	})
	mm, err := memmap.New(
		memmap.RAM("sram", 0x08000000, 0x10000),
		memmap.Flash("main", 0x10000000, 0x4000, 0x200, testAlgo(0x10000000, 0x4000), memmap.Boot(), memmap.ErasedByte(0)),
		memmap.Flash("work", 0x14000000, 0x8000, 0x200, testAlgo(0x14000000, 0x8000), memmap.ErasedByte(0)),
		memmap.Flash("sflash", 0x16000000, 0x1000, 0x200, testAlgo(0x16000000, 0x1000),
			memmap.ErasedByte(0), memmap.NotTestable(), memmap.NoMassErase(), memmap.NotPoweredOnBoot()),
	)
	require.NoError(t, err)
	core := cortex.NewCore("cm4", st)
	core.ResetTimeout = 500 * time.Millisecond
	core.HaltTimeout = 500 * time.Millisecond
	return &testTarget{core: core, mm: mm}, st
}

func testOptions() Options {
	return Options{
		Erase: EraseSector,
		Timeouts: &algo.Timeouts{
			Init:        time.Second,
			UnInit:      time.Second,
			EraseAll:    time.Second,
			EraseSector: time.Second,
			ProgramPage: time.Second,
		},
	}
}

func fill(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func callNames(st *sim.Target) []string {
	var res []string
	for _, c := range st.Calls() {
		res = append(res, c.Name)
	}
	return res
}

func TestProgramEraseSector(t *testing.T) {
	ctx := context.Background()
	tgt, _ := newTestTarget(t)
	l := New(tgt, testOptions())

	require.NoError(t, l.Program(ctx, 0x14000000, fill(0x400, 0xaa)))
	require.NoError(t, l.EraseSectors(ctx, 0x14000000, 0x200))

	data, err := l.ReadMemory(ctx, 0x14000000, 0x200)
	require.NoError(t, err)
	assert.Equal(t, fill(0x200, 0), data)
	data, err = l.ReadMemory(ctx, 0x14000200, 0x200)
	require.NoError(t, err)
	assert.Equal(t, fill(0x200, 0xaa), data)
	assert.False(t, Flashing(tgt))
}

func TestEraseIdempotenceAndIsolation(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	l := New(tgt, testOptions())
	pattern := make([]byte, 0x400)
	for i := range pattern {
		pattern[i] = byte(i*7 + 1)
	}
	require.NoError(t, l.Program(ctx, 0x14001000, pattern))

	require.NoError(t, l.EraseSectors(ctx, 0x14001200, 0x200))
	once := st.Peek(0x14001000, 0x400)
	require.NoError(t, l.EraseSectors(ctx, 0x14001200, 0x200))
	assert.Equal(t, once, st.Peek(0x14001000, 0x400))
	assert.Equal(t, pattern[:0x200], once[:0x200])
	assert.Equal(t, fill(0x200, 0), once[0x200:])
}

func TestEraseSectorsRoundsToSectors(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	st.Poke(0x14000000, fill(0x600, 0x11))
	l := New(tgt, testOptions())
	require.NoError(t, l.EraseSectors(ctx, 0x14000210, 0x10))
	assert.Equal(t, fill(0x200, 0x11), st.Peek(0x14000000, 0x200))
	assert.Equal(t, fill(0x200, 0), st.Peek(0x14000200, 0x200))
	assert.Equal(t, fill(0x200, 0x11), st.Peek(0x14000400, 0x200))
}

func TestDoubleBufferEquivalence(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 0x2400)
	for i := range data {
		data[i] = byte(i>>3) ^ byte(i)
	}
	var results [][]byte
	for _, noDB := range []bool{false, true} {
		tgt, st := newTestTarget(t)
		st.SetLatency(2)
		opts := testOptions()
		opts.NoDoubleBuffer = noDB
		require.NoError(t, New(tgt, opts).Program(ctx, 0x14000000, data))
		results = append(results, st.Peek(0x14000000, len(data)))
	}
	assert.Equal(t, data, results[0])
	assert.Equal(t, results[0], results[1])
}

func TestGeometryRejection(t *testing.T) {
	ctx := context.Background()
	for _, c := range []struct {
		name string
		addr uint32
		n    int
	}{
		{"below flash", 0x13fffe00, 0x200},
		{"past the end", 0x14007e00, 0x400},
		{"across a gap", 0x10003e00, 0x400},
		{"misaligned", 0x14000100, 0x200},
		{"short", 0x14000000, 0x100},
		{"ram", 0x08000000, 0x200},
	} {
		tgt, st := newTestTarget(t)
		before := st.Transactions()
		err := New(tgt, testOptions()).Program(ctx, c.addr, fill(c.n, 0x5a))
		assert.True(t, common.IsGeometryError(err), "%s: %v", c.name, err)
		assert.Equal(t, before, st.Transactions(), c.name)
	}

	tgt, st := newTestTarget(t)
	before := st.Transactions()
	err := New(tgt, testOptions()).EraseSectors(ctx, 0x14007e00, 0x400)
	assert.True(t, common.IsGeometryError(err), "%v", err)
	assert.Equal(t, before, st.Transactions())
}

func TestProgramPad(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	st.Poke(0x14000000, fill(0x400, 0x33))
	opts := testOptions()
	opts.Pad = true
	opts.Verify = true
	require.NoError(t, New(tgt, opts).Program(ctx, 0x14000100, fill(0x180, 0xaa)))
	got := st.Peek(0x14000000, 0x400)
	assert.Equal(t, fill(0x100, 0), got[:0x100])
	assert.Equal(t, fill(0x180, 0xaa), got[0x100:0x280])
	assert.Equal(t, fill(0x180, 0), got[0x280:])
}

func TestEraseModes(t *testing.T) {
	ctx := context.Background()
	count := func(names []string, name string) int {
		n := 0
		for _, s := range names {
			if s == name {
				n++
			}
		}
		return n
	}
	for _, c := range []struct {
		mode         EraseMode
		n            int
		chip, sector int
	}{
		{EraseAuto, 0x4000, 1, 0},
		{EraseAuto, 0x400, 0, 2},
		{EraseSector, 0x4000, 0, 32},
		{EraseChip, 0x400, 1, 0},
		{EraseNone, 0x400, 0, 0},
	} {
		tgt, st := newTestTarget(t)
		opts := testOptions()
		opts.Erase = c.mode
		require.NoError(t, New(tgt, opts).Program(ctx, 0x10000000, fill(c.n, 0x42)))
		names := callNames(st)
		assert.Equal(t, c.chip, count(names, "EraseChip"), "%s %#x", c.mode, c.n)
		assert.Equal(t, c.sector, count(names, "EraseSector"), "%s %#x", c.mode, c.n)
		assert.Equal(t, fill(c.n, 0x42), st.Peek(0x10000000, c.n))
	}
}

func TestMassErase(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	st.Poke(0x10000000, fill(0x4000, 0x77))
	st.Poke(0x14000000, fill(0x8000, 0x77))
	st.Poke(0x16000000, fill(0x1000, 0x55))
	l := New(tgt, testOptions())
	require.NoError(t, l.MassErase(ctx))
	for _, r := range tgt.MemoryMap().FlashRegions() {
		if !r.IsTestable {
			continue
		}
		assert.Equal(t, fill(int(r.Length), r.ErasedByte), st.Peek(r.Start, int(r.Length)), r.Name)
	}
	assert.Equal(t, fill(0x1000, 0x55), st.Peek(0x16000000, 0x1000))
	assert.True(t, st.Halted())
	assert.NotZero(t, st.Reconnects())
}

func TestUninitAfterFailure(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	st.FailRoutine(pcProgramPage, 7, 1)
	err := New(tgt, testOptions()).Program(ctx, 0x14000000, fill(0x400, 0xaa))
	require.Error(t, err)
	code, ok := common.AlgorithmCode(err)
	assert.True(t, ok)
	assert.Equal(t, uint32(7), code)
	names := callNames(st)
	assert.Equal(t, "UnInit", names[len(names)-1])
	assert.False(t, Flashing(tgt))
}

func TestExclusiveSession(t *testing.T) {
	ctx := context.Background()
	tgt, _ := newTestTarget(t)
	opts := testOptions()
	work := tgt.MemoryMap().RegionByName("work")
	s, err := Open(ctx, tgt, work, algo.OpProgram, &opts)
	require.NoError(t, err)
	assert.True(t, Flashing(tgt))
	assert.Equal(t, s, tgt.FlashSlot().Active())
	assert.Equal(t, algo.OpProgram, s.Flash().Active())

	_, err = Open(ctx, tgt, tgt.MemoryMap().RegionByName("main"), algo.OpErase, &opts)
	assert.True(t, errors.IsAlreadyExists(errors.Cause(err)), "%v", err)
	err = New(tgt, opts).Program(ctx, 0x14000000, fill(0x200, 1))
	assert.True(t, errors.IsAlreadyExists(errors.Cause(err)), "%v", err)

	// Another target is not affected.
	other, _ := newTestTarget(t)
	assert.False(t, Flashing(other))
	require.NoError(t, New(other, opts).Program(ctx, 0x14000000, fill(0x200, 1)))

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	assert.False(t, Flashing(tgt))
	assert.Nil(t, tgt.FlashSlot().Active())
	require.NoError(t, New(tgt, opts).Program(ctx, 0x14000000, fill(0x200, 1)))
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	l := New(tgt, testOptions())
	data := fill(0x600, 0xc3)
	require.NoError(t, l.Program(ctx, 0x14000000, data))
	require.NoError(t, l.Verify(ctx, 0x14000000, data))
	st.Poke(0x14000321, []byte{0xc2})
	err := l.Verify(ctx, 0x14000000, data)
	me, ok := errors.Cause(err).(*MismatchError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, uint32(0x14000321), me.Addr)
	assert.Equal(t, byte(0xc3), me.Want)
	assert.Equal(t, byte(0xc2), me.Got)
}

func TestReadNotPoweredRegion(t *testing.T) {
	ctx := context.Background()
	tgt, st := newTestTarget(t)
	st.Poke(0x16000000, []byte{1, 2, 3, 4})
	st.Poke(0x08000100, []byte{9, 8})
	l := New(tgt, testOptions())

	data, err := l.ReadMemory(ctx, 0x08000100, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, data)
	assert.Empty(t, st.Calls())

	data, err = l.ReadMemory(ctx, 0x16000000, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
	calls := st.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "Init", calls[0].Name)
	assert.Equal(t, uint32(algo.OpVerify), calls[0].Args[2])
	assert.Equal(t, "UnInit", calls[1].Name)
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	tgt, _ := newTestTarget(t)
	var fs []float64
	opts := testOptions()
	opts.Progress = func(f float64) { fs = append(fs, f) }
	require.NoError(t, New(tgt, opts).Program(ctx, 0x14000000, fill(0x4000, 0xaa)))
	require.NotEmpty(t, fs)
	for i := 1; i < len(fs); i++ {
		assert.True(t, fs[i] >= fs[i-1], "%v", fs)
	}
	assert.Equal(t, 1.0, fs[len(fs)-1])
	assert.Equal(t, 32+2+1, len(fs))
}

func TestParseEraseMode(t *testing.T) {
	for s, m := range map[string]EraseMode{"": EraseAuto, "auto": EraseAuto, "Chip": EraseChip, "sector": EraseSector, "none": EraseNone} {
		got, err := ParseEraseMode(s)
		require.NoError(t, err)
		assert.Equal(t, m, got, s)
	}
	_, err := ParseEraseMode("bulk")
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}
