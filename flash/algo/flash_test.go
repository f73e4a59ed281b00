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
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/common/sim"
)

func testAlgorithm() *Algorithm {
	insns := make([]uint32, 64)
	insns[0] = 0xe00abe00
	return &Algorithm{
		Name:             "test",
		LoadAddress:      0x08000000,
		Instructions:     insns,
		PCInit:           0x08000021,
		PCUnInit:         0x08000027,
		PCProgramPage:    0x08000041,
		PCEraseSector:    0x08000035,
		PCEraseAll:       0x0800002d,
		StaticBase:       0x080000f0,
		BeginStack:       0x08000d00,
		BeginData:        0x08001000,
		PageBuffers:      []uint32{0x08001000, 0x08001200},
		MinProgramLength: 0x200,
		PageSize:         0x200,
		FlashStart:       0x14000000,
		FlashSize:        0x8000,
		SectorSizes:      []Sector{{0, 0x200}},
	}
}

func newTestFlash(t *testing.T) (*Flash, *sim.Target) {
	a := testAlgorithm()
	require.NoError(t, a.Validate())
	tgt := sim.New()
	tgt.AddRAM("ram", 0x08000000, 0x10000)
	tgt.AddFlash("work", 0x14000000, 0x8000, 0x200, 0)
	tgt.InstallRoutines(sim.Routines{
		Init:        a.PCInit,
		UnInit:      a.PCUnInit,
		EraseAll:    a.PCEraseAll,
		EraseSector: a.PCEraseSector,
		ProgramPage: a.PCProgramPage,
	})
	core := cortex.NewCore("cm4", tgt)
	core.ResetTimeout = 500 * time.Millisecond
	core.HaltTimeout = 500 * time.Millisecond
	f := NewFlash(core, a)
	f.Timeouts = Timeouts{
		Init:        time.Second,
		UnInit:      time.Second,
		EraseAll:    time.Second,
		EraseSector: time.Second,
		ProgramPage: time.Second,
	}
	return f, tgt
}

func testPattern(n int, seed int64) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

func TestValidate(t *testing.T) {
	for _, c := range []struct {
		name string
		mod  func(a *Algorithm)
	}{
		{"no instructions", func(a *Algorithm) { a.Instructions = nil }},
		{"entry outside", func(a *Algorithm) { a.PCProgramPage = 0x08000401 }},
		{"no init", func(a *Algorithm) { a.PCInit = 0 }},
		{"page size", func(a *Algorithm) { a.PageSize = 0x300 }},
		{"buffers", func(a *Algorithm) { a.PageBuffers = []uint32{0x08001000, 0x08001200, 0x08001400} }},
		{"buffer overlap", func(a *Algorithm) { a.PageBuffers = []uint32{0x08000080, 0x08001200} }},
		{"no sectors", func(a *Algorithm) { a.SectorSizes = nil }},
		{"unsorted", func(a *Algorithm) { a.SectorSizes = []Sector{{0, 0x200}, {0x4000, 0x400}, {0x2000, 0x200}} }},
		{"misaligned offset", func(a *Algorithm) { a.SectorSizes = []Sector{{0, 0x400}, {0x600, 0x200}} }},
	} {
		a := testAlgorithm()
		c.mod(a)
		err := a.Validate()
		assert.Error(t, err, c.name)
		assert.True(t, errors.IsNotValid(errors.Cause(err)), c.name)
	}
}

func TestSectorLookup(t *testing.T) {
	a := testAlgorithm()
	a.FlashStart = 0x10000000
	a.FlashSize = 0x20000
	a.SectorSizes = []Sector{{0, 0x1000}, {0x8000, 0x4000}}
	require.NoError(t, a.Validate())
	for _, c := range []struct {
		addr, start, size uint32
	}{
		{0x10000000, 0x10000000, 0x1000},
		{0x10007fff, 0x10007000, 0x1000},
		{0x10008000, 0x10008000, 0x4000},
		{0x10009000, 0x10008000, 0x4000},
		{0x1000d000, 0x1000c000, 0x4000},
		{0x1001ffff, 0x1001c000, 0x4000},
	} {
		start, size, err := a.SectorAt(c.addr)
		require.NoError(t, err)
		assert.Equal(t, c.start, start, "0x%08x", c.addr)
		assert.Equal(t, c.size, size, "0x%08x", c.addr)
	}
	for _, addr := range []uint32{0x0fffffff, 0x10020000, 0xffffffff} {
		_, _, err := a.SectorAt(addr)
		assert.True(t, common.IsGeometryError(err), "0x%08x", addr)
	}
	ss, err := a.Sectors(0x10006800, 0x2000)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x10006000, 0x10007000, 0x10008000}, ss)
}

func TestProgramRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, db := range []bool{false, true} {
		f, tgt := newTestFlash(t)
		f.SetDoubleBuffer(db)
		data := testPattern(0x1400, 1)
		require.NoError(t, f.Init(ctx, OpProgram))
		require.NoError(t, f.ProgramPages(ctx, 0x14000400, data))
		require.NoError(t, f.Uninit(ctx))
		assert.Equal(t, data, tgt.Peek(0x14000400, len(data)), "double buffer: %t", db)
		assert.Equal(t, make([]byte, 0x400), tgt.Peek(0x14000000, 0x400))
	}
}

func TestDoubleBufferEquivalence(t *testing.T) {
	ctx := context.Background()
	data := testPattern(0x2000, 2)
	var images [][]byte
	for _, db := range []bool{false, true} {
		f, tgt := newTestFlash(t)
		// Keep each page in flight while the next one is sent.
		tgt.SetLatency(3)
		f.SetDoubleBuffer(db)
		require.NoError(t, f.Init(ctx, OpProgram))
		require.NoError(t, f.ProgramPages(ctx, 0x14000000, data))
		require.NoError(t, f.Uninit(ctx))
		images = append(images, tgt.Peek(0x14000000, 0x8000))

		var bufs []uint32
		for _, c := range tgt.Calls() {
			if c.Name == "ProgramPage" {
				bufs = append(bufs, c.Args[2])
			}
		}
		require.Len(t, bufs, 0x10)
		if db {
			assert.Equal(t, uint32(0x08001000), bufs[0])
			assert.Equal(t, uint32(0x08001200), bufs[1])
			assert.Equal(t, uint32(0x08001000), bufs[2])
		} else {
			for _, b := range bufs {
				assert.Equal(t, uint32(0x08001000), b)
			}
		}
	}
	assert.True(t, bytes.Equal(images[0], images[1]))
	assert.Equal(t, data, images[1][:len(data)])
}

func TestGeometryRejectedWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	f, tgt := newTestFlash(t)
	require.NoError(t, f.Init(ctx, OpProgram))
	page := make([]byte, 0x200)
	tx := tgt.Transactions()
	for _, c := range []struct {
		addr uint32
		data []byte
	}{
		{0x13fffe00, page},
		{0x14008000, page},
		{0x14007e00, make([]byte, 0x400)},
		{0x14000100, page},
		{0x14000000, make([]byte, 0x100)},
		{0x14000000, nil},
	} {
		err := f.ProgramPages(ctx, c.addr, c.data)
		assert.True(t, common.IsGeometryError(err), "0x%08x %d: %v", c.addr, len(c.data), err)
		err = f.ProgramPage(ctx, c.addr, c.data)
		assert.True(t, common.IsGeometryError(err), "0x%08x %d: %v", c.addr, len(c.data), err)
	}
	for _, addr := range []uint32{0x13fffe00, 0x14008000, 0x14000100} {
		assert.True(t, common.IsGeometryError(f.EraseSector(ctx, addr)), "0x%08x", addr)
	}
	assert.Equal(t, tx, tgt.Transactions())
}

func TestAlgorithmError(t *testing.T) {
	ctx := context.Background()
	f, tgt := newTestFlash(t)
	require.NoError(t, f.Init(ctx, OpProgram))
	tgt.FailRoutine(0x08000041, 5, 1)
	err := f.ProgramPages(ctx, 0x14000000, make([]byte, 0x400))
	require.Error(t, err)
	code, ok := common.AlgorithmCode(err)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), code)
	// The next call works.
	require.NoError(t, f.ProgramPages(ctx, 0x14000000, make([]byte, 0x400)))
	require.NoError(t, f.Uninit(ctx))
}

func TestAlgorithmTimeout(t *testing.T) {
	ctx := context.Background()
	f, tgt := newTestFlash(t)
	f.Timeouts.Init = 50 * time.Millisecond
	tgt.SetLatency(-1)
	err := f.Init(ctx, OpErase)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(errors.Cause(err)))
	assert.Equal(t, Operation(0), f.Active())
	assert.True(t, tgt.Halted())
}

func TestErase(t *testing.T) {
	ctx := context.Background()
	f, tgt := newTestFlash(t)
	tgt.Poke(0x14000000, bytes.Repeat([]byte{0xaa}, 0x8000))

	// Not initialized.
	assert.Error(t, f.EraseSector(ctx, 0x14000000))

	require.NoError(t, f.Init(ctx, OpErase))
	require.NoError(t, f.EraseSector(ctx, 0x14000200))
	assert.Equal(t, make([]byte, 0x200), tgt.Peek(0x14000200, 0x200))
	assert.Equal(t, bytes.Repeat([]byte{0xaa}, 0x200), tgt.Peek(0x14000000, 0x200))
	assert.Equal(t, bytes.Repeat([]byte{0xaa}, 0x200), tgt.Peek(0x14000400, 0x200))

	require.NoError(t, f.EraseAll(ctx))
	assert.Equal(t, make([]byte, 0x8000), tgt.Peek(0x14000000, 0x8000))
	require.NoError(t, f.Uninit(ctx))
	assert.True(t, f.Stats().Erase > 0)
}

func TestInitSwitchesOperation(t *testing.T) {
	ctx := context.Background()
	f, tgt := newTestFlash(t)
	require.NoError(t, f.Init(ctx, OpErase))
	require.NoError(t, f.Init(ctx, OpErase))
	assert.Equal(t, OpErase, f.Active())
	require.NoError(t, f.Init(ctx, OpProgram))
	assert.Equal(t, OpProgram, f.Active())
	require.NoError(t, f.Uninit(ctx))
	require.NoError(t, f.Uninit(ctx))

	var names []string
	for _, c := range tgt.Calls() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Init", "UnInit", "Init", "UnInit"}, names)
	assert.Equal(t, uint32(OpErase), tgt.Calls()[0].Args[2])
	assert.Equal(t, uint32(OpErase), tgt.Calls()[1].Args[0])
	assert.Equal(t, uint32(0x14000000), tgt.Calls()[2].Args[0])
}

func TestDebugChecksReturnAddress(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlash(t)
	f.SetDebug(true)
	require.NoError(t, f.Init(ctx, OpProgram))
	require.NoError(t, f.ProgramPages(ctx, 0x14000000, make([]byte, 0x200)))
	require.NoError(t, f.Uninit(ctx))
}

func TestMissingBreakpointTimesOut(t *testing.T) {
	ctx := context.Background()
	f, _ := newTestFlash(t)
	f.algo.Instructions = make([]uint32, 64)
	f.Timeouts.Init = 50 * time.Millisecond
	err := f.Init(ctx, OpProgram)
	assert.True(t, errors.IsTimeout(errors.Cause(err)))
}

func TestPageInfo(t *testing.T) {
	f, _ := newTestFlash(t)
	pi, err := f.PageInfo(0x14000234)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x14000200), pi.BaseAddr)
	assert.Equal(t, uint32(0x200), pi.Size)
	assert.Equal(t, DefaultWeights.SectorErase, pi.EraseWeight)
	_, err = f.PageInfo(0x15000000)
	assert.True(t, common.IsGeometryError(err))
}
