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
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dap"
	"github.com/mongoose-os/cyflash/flash/common/timeout"
)

type DPReg uint8

const (
	DPIDR      DPReg = 0x00
	DPABORT    DPReg = 0x00 // Write-only, shares the address with IDR.
	DPCTRLSTAT DPReg = 0x04
	DPSELECT   DPReg = 0x08
	DPRDBUFF   DPReg = 0x0c
)

const (
	ctrlStatStickyOrun = 1 << 1
	ctrlStatStickyCmp  = 1 << 4
	ctrlStatStickyErr  = 1 << 5
	ctrlStatWDataErr   = 1 << 7

	abortDAPAbort   = 1 << 0
	abortStkCmpClr  = 1 << 1
	abortStkErrClr  = 1 << 2
	abortWDErrClr   = 1 << 3
	abortOrunErrClr = 1 << 4
	abortClearAll   = abortStkCmpClr | abortStkErrClr | abortWDErrClr | abortOrunErrClr
)

// PowerUpTimeout bounds the wait for debug and system power-up acknowledgement.
var PowerUpTimeout = 2 * time.Second

type DPClient interface {
	Init(ctx context.Context) error
	GetIDR(ctx context.Context) (DPIDRValue, error)
	DbgReset(ctx context.Context) error
	SetDbgPower(ctx context.Context, dbg, sys bool) error
	// ClearErrors clears sticky error flags, returns a transfer error if any were set.
	ClearErrors(ctx context.Context) error
	ReadDPReg(ctx context.Context, reg DPReg) (uint32, error)
	WriteDPReg(ctx context.Context, reg DPReg, value uint32) error
	ReadAPReg(ctx context.Context, apSel, apReg uint8) (uint32, error)
	ReadAPRegMulti(ctx context.Context, apSel, apReg uint8, length int) ([]uint32, error)
	WriteAPReg(ctx context.Context, apSel, apReg uint8, value uint32) error
	WriteAPRegMulti(ctx context.Context, apSel, apReg uint8, values []uint32) error
	DAP() dap.DAPClient
}

func NewDPClient(dapc dap.DAPClient) DPClient {
	return &dpClient{dapc: dapc}
}

type dpClient struct {
	dapc dap.DAPClient

	selectValue uint32
	selectValid bool
}

// Connect switches the probe and the target's SWJ-DP into SWD mode.
func Connect(ctx context.Context, dapc dap.DAPClient, clockHz uint32) error {
	if err := dapc.Connect(ctx, dap.ConnectModeSWD); err != nil {
		return errors.Annotatef(err, "failed to connect to debug probe in SWD mode")
	}
	if err := dapc.SWJClock(ctx, clockHz); err != nil {
		return errors.Annotatef(err, "failed to set clock")
	}
	if err := dapc.SWDConfigure(ctx, 0); err != nil {
		return errors.Annotatef(err, "failed to configure SWD")
	}
	ones := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	seqs := []struct {
		bits int
		data []byte
	}{
		// Line reset (50+ of 1, 8+ of 0), JTAG-to-SWD switch, line reset again.
		{64, ones}, {16, []byte{0, 0}},
		{64, ones}, {16, []byte{0x9e, 0xe7}},
		{64, ones}, {16, []byte{0, 0}},
	}
	for _, s := range seqs {
		if err := dapc.SWJSequence(ctx, s.bits, s.data); err != nil {
			return errors.Annotatef(err, "SWD reset sequence failed")
		}
	}
	return errors.Annotatef(dapc.TransferConfigure(ctx, 0, 100, 100), "failed to configure transfers")
}

func (dpc *dpClient) DAP() dap.DAPClient {
	return dpc.dapc
}

func transferErr(op string, reg uint8, err error) error {
	if _, ok := errors.Cause(err).(*dap.TransferFailure); ok {
		return common.NewTransferError(op, uint32(reg), err)
	}
	return errors.Trace(err)
}

func (dpc *dpClient) ReadReg(ctx context.Context, reg uint8, ap bool) (uint32, error) {
	_, data, err := dpc.dapc.Transfer(ctx, 0, []dap.TransferRequest{
		{Op: dap.OpRead, AP: ap, Reg: reg},
	})
	if err != nil {
		return 0, transferErr("read reg", reg, err)
	}
	return data[0], nil
}

func (dpc *dpClient) ReadRegMulti(ctx context.Context, reg uint8, ap bool, length int) ([]uint32, error) {
	maxChunkSize := dpc.dapc.GetTransferBlockMaxSize()
	res := make([]uint32, 0, length)
	for length > 0 {
		chunkSize := length
		if chunkSize > maxChunkSize {
			chunkSize = maxChunkSize
		}
		chunk, err := dpc.dapc.TransferBlockRead(ctx, 0, ap, reg, chunkSize)
		if err != nil {
			return nil, transferErr("block read", reg, err)
		}
		res = append(res, chunk...)
		length -= chunkSize
	}
	return res, nil
}

func (dpc *dpClient) ReadDPReg(ctx context.Context, reg DPReg) (uint32, error) {
	value, err := dpc.ReadReg(ctx, uint8(reg), false /* ap */)
	glog.V(4).Infof("%s == 0x%08x", reg, value)
	return value, err
}

func (dpc *dpClient) WriteReg(ctx context.Context, reg uint8, ap bool, value uint32) error {
	_, _, err := dpc.dapc.Transfer(ctx, 0, []dap.TransferRequest{
		{Op: dap.OpWrite, AP: ap, Reg: reg, Data: value},
	})
	if err != nil {
		return transferErr("write reg", reg, err)
	}
	return nil
}

func (dpc *dpClient) WriteRegMulti(ctx context.Context, reg uint8, ap bool, values []uint32) error {
	offset := 0
	maxChunkSize := dpc.dapc.GetTransferBlockMaxSize()
	for offset < len(values) {
		chunk := values[offset:]
		if len(chunk) > maxChunkSize {
			chunk = chunk[:maxChunkSize]
		}
		if err := dpc.dapc.TransferBlockWrite(ctx, 0, ap, reg, chunk); err != nil {
			return transferErr("block write", reg, err)
		}
		offset += len(chunk)
	}
	return nil
}

func (dpc *dpClient) WriteDPReg(ctx context.Context, reg DPReg, value uint32) error {
	glog.V(4).Infof("%s = 0x%08x", reg, value)
	return errors.Trace(dpc.WriteReg(ctx, uint8(reg), false /* ap */, value))
}

func (dpc *dpClient) Init(ctx context.Context) error {
	if _, err := dpc.GetIDR(ctx); err != nil {
		return errors.Annotatef(err, "failed to read DP ID")
	}
	// Clear all the errors (if any) left over from before.
	if err := dpc.WriteDPReg(ctx, DPABORT, abortClearAll); err != nil {
		return errors.Trace(err)
	}
	if err := dpc.WriteDPReg(ctx, DPSELECT, 0); err != nil {
		return errors.Trace(err)
	}
	dpc.selectValue, dpc.selectValid = 0, true
	if err := dpc.SetDbgPower(ctx, true, true); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (dpc *dpClient) GetIDR(ctx context.Context) (DPIDRValue, error) {
	v, err := dpc.ReadDPReg(ctx, DPIDR)
	if err != nil {
		return 0, errors.Annotatef(err, "failed to read DPIDR")
	}
	return DPIDRValue(v), nil
}

func (dpc *dpClient) SetDbgPower(ctx context.Context, dbg, sys bool) error {
	var reqMask, ackMask uint32
	if dbg {
		reqMask |= 0x10000000
		ackMask |= 0x20000000
	}
	if sys {
		reqMask |= 0x40000000
		ackMask |= 0x80000000
	}
	return timeout.Poll(ctx, PowerUpTimeout, "debug power-up", func(ctx context.Context) (bool, error) {
		statValue, err := dpc.ReadDPReg(ctx, DPCTRLSTAT)
		if err != nil {
			return false, errors.Annotatef(err, "failed to read DPCTRLSTAT")
		}
		if statValue&0xf0000000 == (reqMask | ackMask) {
			return true, nil
		}
		ctrlValue := (statValue & 0x07ffffff) | reqMask
		if err := dpc.WriteDPReg(ctx, DPCTRLSTAT, ctrlValue); err != nil {
			return false, errors.Annotatef(err, "failed to write DPCTRLSTAT")
		}
		return false, nil
	})
}

func (dpc *dpClient) ClearErrors(ctx context.Context) error {
	statValue, err := dpc.ReadDPReg(ctx, DPCTRLSTAT)
	if err != nil {
		return errors.Annotatef(err, "failed to read DPCTRLSTAT")
	}
	sticky := statValue & (ctrlStatStickyOrun | ctrlStatStickyCmp | ctrlStatStickyErr | ctrlStatWDataErr)
	if sticky == 0 {
		return nil
	}
	if err := dpc.WriteDPReg(ctx, DPABORT, abortClearAll); err != nil {
		return errors.Annotatef(err, "failed to clear sticky errors")
	}
	return common.NewTransferError("sticky error", uint32(DPCTRLSTAT), errors.Errorf("CTRL/STAT 0x%08x", statValue))
}

func (dpc *dpClient) DbgReset(ctx context.Context) error {
	statValue, err := dpc.ReadDPReg(ctx, DPCTRLSTAT)
	if err != nil {
		return errors.Annotatef(err, "failed to read DPCTRLSTAT")
	}
	// Set reset request
	ctrlValue := (statValue & 0xf3ffffff) | 0x04000000
	if err := dpc.WriteDPReg(ctx, DPCTRLSTAT, ctrlValue); err != nil {
		return errors.Annotatef(err, "failed to write DPCTRLSTAT")
	}
	waitAck := func(want bool) error {
		return timeout.Poll(ctx, PowerUpTimeout, "debug reset ack", func(ctx context.Context) (bool, error) {
			statValue, err = dpc.ReadDPReg(ctx, DPCTRLSTAT)
			if err != nil {
				return false, errors.Annotatef(err, "failed to read DPCTRLSTAT")
			}
			return (statValue&0x08000000 != 0) == want, nil
		})
	}
	if err := waitAck(true); err != nil {
		return errors.Trace(err)
	}
	// Remove request
	ctrlValue = (statValue & 0xf3ffffff)
	if err := dpc.WriteDPReg(ctx, DPCTRLSTAT, ctrlValue); err != nil {
		return errors.Annotatef(err, "failed to write DPCTRLSTAT")
	}
	return errors.Trace(waitAck(false))
}

func (dpc *dpClient) selectAP(ctx context.Context, apSel, apBank uint8) error {
	sv := (dpc.selectValue & 0x00ffff0f) | (uint32(apSel) << 24) | ((uint32(apBank) & 0xf) << 4)
	if dpc.selectValid && sv == dpc.selectValue {
		return nil
	}
	if err := dpc.WriteDPReg(ctx, DPSELECT, sv); err != nil {
		dpc.selectValid = false
		return errors.Annotatef(err, "failed to select AP %d bank %d", apSel, apBank)
	}
	dpc.selectValue, dpc.selectValid = sv, true
	return nil
}

func (dpc *dpClient) ReadAPReg(ctx context.Context, apSel, apReg uint8) (uint32, error) {
	if err := dpc.selectAP(ctx, apSel, apReg/16); err != nil {
		return 0, errors.Trace(err)
	}
	return dpc.ReadReg(ctx, apReg%16, true /* ap */)
}

func (dpc *dpClient) ReadAPRegMulti(ctx context.Context, apSel, apReg uint8, length int) ([]uint32, error) {
	if err := dpc.selectAP(ctx, apSel, apReg/16); err != nil {
		return nil, errors.Trace(err)
	}
	return dpc.ReadRegMulti(ctx, apReg%16, true /* ap */, length)
}

func (dpc *dpClient) WriteAPReg(ctx context.Context, apSel, apReg uint8, value uint32) error {
	if err := dpc.selectAP(ctx, apSel, apReg/16); err != nil {
		return errors.Trace(err)
	}
	return dpc.WriteReg(ctx, apReg%16, true /* ap */, value)
}

func (dpc *dpClient) WriteAPRegMulti(ctx context.Context, apSel, apReg uint8, values []uint32) error {
	if err := dpc.selectAP(ctx, apSel, apReg/16); err != nil {
		return errors.Trace(err)
	}
	return dpc.WriteRegMulti(ctx, apReg%16, true /* ap */, values)
}

type DPIDRValue uint32

type DPDesigner uint16

func (v DPIDRValue) Designer() DPDesigner {
	return DPDesigner(v & 0xfff)
}

func (v DPIDRValue) Version() uint8 {
	return uint8((v >> 12) & 0xf)
}

func (v DPIDRValue) Minimal() bool {
	return (v>>16)&1 != 0
}

func (v DPIDRValue) PartNumber() uint8 {
	return uint8((v >> 20) & 0xff)
}

func (v DPIDRValue) Revision() uint8 {
	return uint8((v >> 28) & 0xf)
}

func (v DPDesigner) String() string {
	if v == 0x477 {
		return "ARM"
	}
	return fmt.Sprintf("0x%03x", uint16(v))
}

func (r DPReg) String() string {
	switch r {
	case DPIDR:
		return "DPIDR"
	case DPCTRLSTAT:
		return "DPCTRLSTAT"
	case DPSELECT:
		return "DPSELECT"
	case DPRDBUFF:
		return "DPRDBUFF"
	}
	return fmt.Sprintf("0x%x", uint8(r))
}
