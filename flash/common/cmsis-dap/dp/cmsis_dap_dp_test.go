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
package dp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dap"
)

// fakeDAP models the DP register file, the AP side is a flat register array.
type fakeDAP struct {
	dap.DAPClient

	idr      uint32
	ctrlStat uint32
	sel      uint32
	abort    []uint32
	selects  int
	apRegs   map[uint32]uint32
	failNext int
}

func newFakeDAP() *fakeDAP {
	return &fakeDAP{idr: 0x2ba01477, apRegs: map[uint32]uint32{}}
}

func (f *fakeDAP) GetTransferBlockMaxSize() int { return 4 }

func (f *fakeDAP) apKey(reg uint8) uint32 {
	return (f.sel & 0xff0000f0) | uint32(reg)
}

func (f *fakeDAP) Transfer(ctx context.Context, dapIndex uint8, reqs []dap.TransferRequest) (dap.TransferStatus, []uint32, error) {
	if f.failNext > 0 {
		f.failNext--
		return dap.TransferStatusFault, nil, &dap.TransferFailure{Status: dap.TransferStatusFault, Requested: len(reqs)}
	}
	var res []uint32
	for _, r := range reqs {
		switch {
		case r.AP && r.Op == dap.OpRead:
			res = append(res, f.apRegs[f.apKey(r.Reg)])
		case r.AP:
			f.apRegs[f.apKey(r.Reg)] = r.Data
		case r.Op == dap.OpRead:
			switch DPReg(r.Reg) {
			case DPIDR:
				res = append(res, f.idr)
			case DPCTRLSTAT:
				res = append(res, f.ctrlStat)
			}
		default:
			switch DPReg(r.Reg) {
			case DPABORT:
				f.abort = append(f.abort, r.Data)
				f.ctrlStat &^= 0xb2
			case DPCTRLSTAT:
				// Acks follow requests immediately.
				f.ctrlStat = r.Data | (r.Data&0x50000000)<<1
			case DPSELECT:
				f.sel = r.Data
				f.selects++
			}
		}
	}
	return dap.TransferStatusOK, res, nil
}

func (f *fakeDAP) TransferBlockRead(ctx context.Context, dapIndex uint8, ap bool, reg uint8, length int) ([]uint32, error) {
	res := make([]uint32, length)
	for i := range res {
		res[i] = f.apRegs[f.apKey(reg)] + uint32(i)
	}
	return res, nil
}

func TestInitPowersUp(t *testing.T) {
	ctx := context.Background()
	f := newFakeDAP()
	dpc := NewDPClient(f)
	require.NoError(t, dpc.Init(ctx))
	assert.Equal(t, uint32(0xf0000000), f.ctrlStat&0xf0000000)
	assert.NotEmpty(t, f.abort)

	idr, err := dpc.GetIDR(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ARM", idr.Designer().String())
	assert.Equal(t, uint8(1), idr.Version())
}

func TestSelectIsCached(t *testing.T) {
	ctx := context.Background()
	f := newFakeDAP()
	dpc := NewDPClient(f)
	require.NoError(t, dpc.Init(ctx))
	selects := f.selects

	require.NoError(t, dpc.WriteAPReg(ctx, 0, 0x04, 0x20000000))
	v, err := dpc.ReadAPReg(ctx, 0, 0x04)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20000000), v)
	assert.Equal(t, selects, f.selects)

	_, err = dpc.ReadAPReg(ctx, 0, 0xfc)
	require.NoError(t, err)
	assert.Equal(t, selects+1, f.selects)
	assert.Equal(t, uint32(0xf0), f.sel&0xf0)
}

func TestFaultIsTransferError(t *testing.T) {
	ctx := context.Background()
	f := newFakeDAP()
	dpc := NewDPClient(f)
	f.failNext = 1
	_, err := dpc.ReadDPReg(ctx, DPCTRLSTAT)
	require.Error(t, err)
	assert.True(t, common.IsTransferError(err))

	_, err = dpc.ReadDPReg(ctx, DPCTRLSTAT)
	assert.NoError(t, err)
}

func TestClearErrors(t *testing.T) {
	ctx := context.Background()
	f := newFakeDAP()
	dpc := NewDPClient(f)

	assert.NoError(t, dpc.ClearErrors(ctx))
	assert.Empty(t, f.abort)

	f.ctrlStat |= ctrlStatStickyErr
	err := dpc.ClearErrors(ctx)
	require.Error(t, err)
	assert.True(t, common.IsTransferError(err))
	require.Len(t, f.abort, 1)
	assert.Equal(t, uint32(abortClearAll), f.abort[0])
	assert.NoError(t, dpc.ClearErrors(ctx))
}

func TestReadRegMultiChunks(t *testing.T) {
	ctx := context.Background()
	f := newFakeDAP()
	dpc := NewDPClient(f)
	require.NoError(t, dpc.WriteAPReg(ctx, 0, 0x0c, 100))
	res, err := dpc.ReadAPRegMulti(ctx, 0, 0x0c, 10)
	require.NoError(t, err)
	// Chunks of 4, each counting from the register value.
	assert.Equal(t, []uint32{100, 101, 102, 103, 100, 101, 102, 103, 100, 101}, res)
}
