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
package memap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dap"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dp"
)

// fakeDP is a MEM-AP with a word-addressed memory behind TAR/DRW.
type fakeDP struct {
	dp.DPClient

	csw       uint32
	tar       uint32
	tarWrites []uint32
	mem       map[uint32]uint32
	inits     int
	sticky    bool
	pins      []dap.Pin
}

func newFakeDP() *fakeDP {
	return &fakeDP{csw: CSW_DeviceEn, mem: map[uint32]uint32{}}
}

func (f *fakeDP) Init(ctx context.Context) error {
	f.inits++
	return nil
}

func (f *fakeDP) ClearErrors(ctx context.Context) error {
	if f.sticky {
		f.sticky = false
		return common.NewTransferError("sticky error", 4, nil)
	}
	return nil
}

func (f *fakeDP) ReadAPReg(ctx context.Context, apSel, apReg uint8) (uint32, error) {
	switch MemAPReg(apReg) {
	case CSW:
		return f.csw, nil
	case DRW:
		v := f.mem[f.tar]
		f.tar += 4
		return v, nil
	}
	return 0, nil
}

func (f *fakeDP) ReadAPRegMulti(ctx context.Context, apSel, apReg uint8, length int) ([]uint32, error) {
	res := make([]uint32, length)
	for i := range res {
		res[i], _ = f.ReadAPReg(ctx, apSel, apReg)
	}
	return res, nil
}

func (f *fakeDP) WriteAPReg(ctx context.Context, apSel, apReg uint8, value uint32) error {
	switch MemAPReg(apReg) {
	case CSW:
		f.csw = value
	case TAR:
		f.tar = value
		f.tarWrites = append(f.tarWrites, value)
	case DRW:
		f.mem[f.tar] = value
		f.tar += 4
	}
	return nil
}

func (f *fakeDP) WriteAPRegMulti(ctx context.Context, apSel, apReg uint8, values []uint32) error {
	for _, v := range values {
		f.WriteAPReg(ctx, apSel, apReg, v)
	}
	return nil
}

func (f *fakeDP) DAP() dap.DAPClient {
	return &fakePins{f: f}
}

type fakePins struct {
	dap.DAPClient
	f *fakeDP
}

func (p *fakePins) SWJPins(ctx context.Context, output, sel dap.Pin, wait time.Duration) (dap.Pin, error) {
	p.f.pins = append(p.f.pins, output&sel)
	return output, nil
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	f := newFakeDP()
	m := NewMemAPClient(f, 0)
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, uint32(cswWordInc), f.csw)

	f.csw = 0
	assert.Error(t, m.Init(ctx))
}

func TestBlockAccessSplitsAt1K(t *testing.T) {
	ctx := context.Background()
	f := newFakeDP()
	m := NewMemAPClient(f, 0)
	data := make([]uint32, 0x180)
	for i := range data {
		data[i] = uint32(i)
	}
	require.NoError(t, m.WriteTargetMem(ctx, 0x080003f0, data))
	assert.Equal(t, []uint32{0x080003f0, 0x08000400, 0x08000800}, f.tarWrites)

	res, err := m.ReadTargetMem(ctx, 0x080003f0, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, res)

	_, err = m.ReadTargetMem(ctx, 0x08000002, 1)
	assert.Error(t, err)
}

func TestByteAccess(t *testing.T) {
	ctx := context.Background()
	f := newFakeDP()
	m := NewMemAPClient(f, 0)
	f.mem[0x08000000] = 0x44332211
	f.mem[0x08000004] = 0x88776655

	b, err := m.ReadTargetMem8(ctx, 0x08000001, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x22, 0x33, 0x44, 0x55, 0x66}, b)

	// Within a single word.
	require.NoError(t, m.WriteTargetMem8(ctx, 0x08000001, []byte{0xaa, 0xbb}))
	assert.Equal(t, uint32(0x44bbaa11), f.mem[0x08000000])

	// Spanning two partial words.
	require.NoError(t, m.WriteTargetMem8(ctx, 0x08000003, []byte{0xcc, 0xdd}))
	assert.Equal(t, uint32(0xccbbaa11), f.mem[0x08000000])
	assert.Equal(t, uint32(0x887766dd), f.mem[0x08000004])
}

func TestLinkOps(t *testing.T) {
	ctx := context.Background()
	f := newFakeDP()
	m := NewMemAPClient(f, 0)

	assert.NoError(t, m.Flush(ctx))
	f.sticky = true
	err := m.Flush(ctx)
	assert.True(t, common.IsTransferError(err))

	require.NoError(t, m.ReconnectDP(ctx))
	assert.Equal(t, 1, f.inits)
	assert.Equal(t, uint32(cswWordInc), f.csw)

	ResetPulse = time.Millisecond
	require.NoError(t, m.HardwareReset(ctx))
	assert.Equal(t, []dap.Pin{0, dap.PinNRESET}, f.pins)
}
