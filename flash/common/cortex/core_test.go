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
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/sim"
)

const testEntry = 0x10000400

func newTestCore(t *testing.T) (*Core, *sim.Target) {
	tgt := sim.New()
	tgt.AddRAM("ram", 0x08000000, 0x10000)
	tgt.AddFlash("main", 0x10000000, 0x10000, 0x200, 0)
	tgt.ResetVectorTable = 0x10000000
	tgt.Poke(0x10000000, sim.WordsLE(0x08002000, testEntry|1))
	c := NewCore("cm4", tgt)
	c.ResetTimeout = 500 * time.Millisecond
	c.HaltTimeout = 500 * time.Millisecond
	require.NoError(t, c.Init(context.Background()))
	return c, tgt
}

func TestHaltResume(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	var events []Event
	unsub := c.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, c.Halt(ctx))
	require.NoError(t, c.Halt(ctx))
	st, err := c.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateHalted, st)

	require.NoError(t, c.Resume(ctx, false))
	assert.False(t, tgt.Halted())
	st, err = c.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)
	assert.Equal(t, []Event{EventPreRun, EventPostRun}, events)

	// Not halted, nothing happens.
	require.NoError(t, c.Resume(ctx, false))
	assert.Len(t, events, 2)

	unsub()
	require.NoError(t, c.Halt(ctx))
	require.NoError(t, c.Resume(ctx, false))
	assert.Len(t, events, 2)
}

func TestCoreRegs(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	require.NoError(t, c.Halt(ctx))
	require.NoError(t, c.WriteCoreReg(ctx, 3, 0x12345678))
	assert.Equal(t, uint32(0x12345678), tgt.Reg(3))
	tgt.SetReg(PC, 0x10000100)
	v, err := c.ReadCoreReg(ctx, PC)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x10000100), v)

	regs, err := c.GetRegs(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), regs.R[3])
	assert.Equal(t, uint32(0x10000100), regs.R[PC])
}

func TestMemoryRetry(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)

	tgt.FailNext(2)
	require.NoError(t, c.WriteTargetMem(ctx, 0x08000100, []uint32{1, 2, 3}))
	res, err := c.ReadTargetMem(ctx, 0x08000100, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, res)

	tgt.FailNext(100)
	_, err = c.ReadTargetReg(ctx, 0x08000100)
	require.Error(t, err)
	assert.True(t, common.IsTransferError(err))
}

func TestGetStateUnknownOnFailure(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	tgt.FailNext(100)
	st, err := c.GetState(ctx)
	assert.Error(t, err)
	assert.True(t, common.IsTransferError(err))
	assert.Equal(t, StateUnknown, st)
	tgt.FailNext(0)
	st, err = c.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)
}

func TestRunControlRetriesTransferErrors(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)

	tgt.FailNext(1)
	require.NoError(t, c.Halt(ctx))
	assert.True(t, tgt.Halted())

	tgt.FailNext(1)
	st, err := c.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateHalted, st)

	tgt.SetReg(PC, 0x10000100)
	tgt.FailNext(1)
	require.NoError(t, c.Step(ctx))
	assert.Equal(t, uint32(0x10000102), tgt.Reg(PC))

	tgt.FailNext(1)
	require.NoError(t, c.Resume(ctx, false))
	assert.False(t, tgt.Halted())

	tgt.FailNext(1)
	require.NoError(t, c.Flush(ctx))
}

func TestWaitHaltedTimeout(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)
	err := c.WaitHalted(ctx, 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(errors.Cause(err)))
}

func TestResetAndHalt(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, c.ResetAndHalt(ctx, ResetDefault))
	assert.True(t, tgt.Halted())
	assert.Equal(t, uint32(testEntry), tgt.Reg(PC))
	assert.Equal(t, []sim.ResetKind{sim.ResetSystem}, tgt.Resets())
	assert.Equal(t, []Event{EventPreReset, EventPostReset}, events)

	vc, err := c.GetVectorCatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, VC_NONE, vc)

	require.NoError(t, c.ResetAndHalt(ctx, ResetVectReset))
	assert.Equal(t, sim.ResetVector, tgt.Resets()[1])
}

func TestResetSurvivesLinkDrop(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	tgt.OnReset(func(kind sim.ResetKind) {
		tgt.FailNextLocked(20)
	})
	require.NoError(t, c.ResetAndHalt(ctx, ResetSysResetReq))
	assert.True(t, tgt.Halted())
	assert.True(t, tgt.Reconnects() > 0)
}

func TestResetTimesOutIfLinkNeverComesBack(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	c.ResetTimeout = 50 * time.Millisecond
	tgt.OnReset(func(kind sim.ResetKind) {
		tgt.FailNextLocked(1000000)
	})
	err := c.Reset(ctx, ResetSysResetReq)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(errors.Cause(err)))
}

func TestHardwareResetRestoresBreakpoints(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	require.NoError(t, c.SetBreakpoint(ctx, testEntry))

	require.NoError(t, c.Reset(ctx, ResetHardware))
	assert.Equal(t, []sim.ResetKind{sim.ResetHardware}, tgt.Resets())
	assert.False(t, tgt.Halted())

	// The breakpoint must be live again.
	require.NoError(t, c.Reset(ctx, ResetSysResetReq))
	assert.True(t, tgt.Halted())
	assert.Equal(t, uint32(testEntry), tgt.Reg(PC))

	require.NoError(t, c.RemoveBreakpoint(ctx, testEntry))
	require.NoError(t, c.Reset(ctx, ResetSysResetReq))
	assert.False(t, tgt.Halted())
}

func TestBreakpointTable(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)
	for i := uint32(0); i < 6; i++ {
		require.NoError(t, c.SetBreakpoint(ctx, 0x10000000+i*4))
	}
	// Same address again is fine.
	require.NoError(t, c.SetBreakpoint(ctx, 0x10000000))
	assert.Error(t, c.SetBreakpoint(ctx, 0x10000100))
	assert.Len(t, c.Breakpoints(), 6)

	assert.True(t, errors.IsNotFound(errors.Cause(c.RemoveBreakpoint(ctx, 0x10000100))))
	assert.True(t, errors.IsNotSupported(errors.Cause(c.SetBreakpoint(ctx, 0x20000000))))
	require.NoError(t, c.RemoveBreakpoint(ctx, 0x10000004))
	require.NoError(t, c.SetBreakpoint(ctx, 0x10000100))
}

func TestStep(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	require.NoError(t, c.Halt(ctx))
	tgt.SetReg(PC, 0x10000100)
	require.NoError(t, c.Step(ctx))
	assert.True(t, tgt.Halted())
	assert.Equal(t, uint32(0x10000102), tgt.Reg(PC))
}

func TestEmulatedReset(t *testing.T) {
	ctx := context.Background()
	c, tgt := newTestCore(t)
	tgt.Poke(0x08000000, sim.WordsLE(0x08004000, 0x08000201))
	require.NoError(t, c.WriteTargetReg(ctx, regVTOR, 0x08000000))

	require.NoError(t, c.ResetAndHalt(ctx, ResetEmulated))
	assert.True(t, tgt.Halted())
	assert.Equal(t, uint32(0x08000200), tgt.Reg(PC))
	assert.Equal(t, uint32(0x08004000), tgt.Reg(SP))
	assert.Equal(t, uint32(XPSR_THUMB), tgt.Reg(XPSR))
	assert.Empty(t, tgt.Resets())
}

func TestRegisterIndex(t *testing.T) {
	for _, c := range []struct {
		name string
		reg  int
		ok   bool
	}{
		{"r0", 0, true},
		{"R12", 12, true},
		{"sp", SP, true},
		{"PC", PC, true},
		{"xpsr", XPSR, true},
		{"r16", 0, false},
		{"r1x", 0, false},
		{"foo", 0, false},
	} {
		reg, err := RegisterIndex(c.name)
		if c.ok {
			require.NoError(t, err, c.name)
			assert.Equal(t, c.reg, reg, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, "ARM Cortex-M4F r0p1", TargetName(0x410fc241, 0xc))
	assert.Equal(t, "ARM Cortex-M0+ r0p1", TargetName(0x410cc601, 0))
	assert.True(t, IsCortexM(0x410cc601))
	assert.False(t, IsCortexM(0x410fd030))
}
