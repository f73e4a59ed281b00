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
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dap"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dp"
)

type MemAPReg uint8

const (
	CSW  MemAPReg = 0x00
	TAR  MemAPReg = 0x04
	DRW  MemAPReg = 0x0c
	BD0  MemAPReg = 0x10
	BD1  MemAPReg = 0x14
	BD2  MemAPReg = 0x18
	BD3  MemAPReg = 0x1c
	BASE MemAPReg = 0xf8
	IDR  MemAPReg = 0xfc
)

const (
	CSW_DeviceEn = 0x40
	// Basic mode, word access, increment by 1.
	cswWordInc = 0x23000052
)

// ResetPulse is how long nRESET is held low by HardwareReset.
var ResetPulse = 20 * time.Millisecond

// MemAPClient is a MEM-AP behind a DP, usable as a link to the target.
type MemAPClient interface {
	common.Link

	Init(ctx context.Context) error
	ReadReg(ctx context.Context, reg MemAPReg) (uint32, error)
	WriteReg(ctx context.Context, reg MemAPReg, value uint32) error
}

type memAPClient struct {
	dpc   dp.DPClient
	apSel uint8
}

func NewMemAPClient(dpc dp.DPClient, apSel uint8) MemAPClient {
	return &memAPClient{dpc: dpc, apSel: apSel}
}

func (mapc *memAPClient) ReadReg(ctx context.Context, reg MemAPReg) (uint32, error) {
	value, err := mapc.dpc.ReadAPReg(ctx, mapc.apSel, uint8(reg))
	glog.V(4).Infof("%s == 0x%08x", reg, value)
	return value, errors.Trace(err)
}

func (mapc *memAPClient) WriteReg(ctx context.Context, reg MemAPReg, value uint32) error {
	glog.V(4).Infof("%s = 0x%08x", reg, value)
	return errors.Trace(mapc.dpc.WriteAPReg(ctx, mapc.apSel, uint8(reg), value))
}

func (mapc *memAPClient) Init(ctx context.Context) error {
	csw, err := mapc.ReadReg(ctx, CSW)
	if err != nil {
		return errors.Trace(err)
	}
	if csw&CSW_DeviceEn == 0 {
		return errors.Errorf("MEM-AP %d is disabled", mapc.apSel)
	}
	return mapc.WriteReg(ctx, CSW, cswWordInc)
}

func (mapc *memAPClient) ReadTargetReg(ctx context.Context, addr uint32) (uint32, error) {
	if err := mapc.WriteReg(ctx, TAR, addr); err != nil {
		return 0, errors.Trace(err)
	}
	value, err := mapc.ReadReg(ctx, DRW)
	glog.V(4).Infof("ReadTargetReg(0x%08x) == 0x%08x", addr, value)
	return value, errors.Trace(err)
}

func (mapc *memAPClient) ReadTargetMem(ctx context.Context, addr uint32, length int) ([]uint32, error) {
	glog.V(4).Infof("ReadTargetMem(0x%08x, %d)", addr, length)
	if addr%4 != 0 {
		return nil, errors.Errorf("addr must be word-aligned, got 0x%x", addr)
	}
	res := make([]uint32, 0, length)
	for i := 0; i < length; {
		if err := mapc.WriteReg(ctx, TAR, addr); err != nil {
			return nil, errors.Trace(err)
		}
		// Autoincrement only works on lower 10 bits.
		cl := int((0x400 - addr&0x3ff) / 4)
		if cl > length-i {
			cl = length - i
		}
		values, err := mapc.dpc.ReadAPRegMulti(ctx, mapc.apSel, uint8(DRW), cl)
		if err != nil {
			return nil, errors.Trace(err)
		}
		res = append(res, values...)
		addr += uint32(cl * 4)
		i += cl
	}
	return res, nil
}

// ReadTargetMem8 reads the words covering the range and cuts the bytes out.
func (mapc *memAPClient) ReadTargetMem8(ctx context.Context, addr uint32, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	start := addr &^ 3
	end := (addr + uint32(length) + 3) &^ 3
	words, err := mapc.ReadTargetMem(ctx, start, int(end-start)/4)
	if err != nil {
		return nil, errors.Trace(err)
	}
	data := common.ToBytes(words)
	off := addr - start
	return data[off : off+uint32(length)], nil
}

func (mapc *memAPClient) WriteTargetReg(ctx context.Context, addr uint32, value uint32) error {
	if err := mapc.WriteReg(ctx, TAR, addr); err != nil {
		return errors.Trace(err)
	}
	glog.V(4).Infof("WriteTargetReg(0x%08x, 0x%08x)", addr, value)
	return mapc.WriteReg(ctx, DRW, value)
}

func (mapc *memAPClient) WriteTargetMem(ctx context.Context, addr uint32, data []uint32) error {
	glog.V(4).Infof("WriteTargetMem(0x%08x, %d)", addr, len(data))
	if addr%4 != 0 {
		return errors.Errorf("addr must be word-aligned, got 0x%x", addr)
	}
	for i := 0; i < len(data); {
		if err := mapc.WriteReg(ctx, TAR, addr); err != nil {
			return errors.Trace(err)
		}
		// Autoincrement only works on lower 10 bits.
		cl := int((0x400 - addr&0x3ff) / 4)
		if cl > len(data)-i {
			cl = len(data) - i
		}
		if err := mapc.dpc.WriteAPRegMulti(ctx, mapc.apSel, uint8(DRW), data[i:i+cl]); err != nil {
			return errors.Trace(err)
		}
		addr += uint32(cl * 4)
		i += cl
	}
	return nil
}

// WriteTargetMem8 does read-modify-write of the partial head and tail words.
func (mapc *memAPClient) WriteTargetMem8(ctx context.Context, addr uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	start := addr &^ 3
	end := (addr + uint32(len(data)) + 3) &^ 3
	buf := make([]byte, end-start)
	headRead := false
	if start != addr {
		w, err := mapc.ReadTargetReg(ctx, start)
		if err != nil {
			return errors.Trace(err)
		}
		copy(buf, common.ToBytes([]uint32{w}))
		headRead = true
	}
	if end != addr+uint32(len(data)) && !(headRead && end-4 == start) {
		w, err := mapc.ReadTargetReg(ctx, end-4)
		if err != nil {
			return errors.Trace(err)
		}
		copy(buf[len(buf)-4:], common.ToBytes([]uint32{w}))
	}
	copy(buf[addr-start:], data)
	return errors.Trace(mapc.WriteTargetMem(ctx, start, common.ToWords(buf, 0)))
}

func (mapc *memAPClient) Flush(ctx context.Context) error {
	return errors.Trace(mapc.dpc.ClearErrors(ctx))
}

func (mapc *memAPClient) ReconnectDP(ctx context.Context) error {
	glog.V(2).Infof("Reconnecting DP")
	if err := mapc.dpc.Init(ctx); err != nil {
		return errors.Annotatef(err, "DP init failed")
	}
	return errors.Annotatef(mapc.Init(ctx), "MEM-AP init failed")
}

func (mapc *memAPClient) HardwareReset(ctx context.Context) error {
	dapc := mapc.dpc.DAP()
	glog.V(2).Infof("Asserting nRESET")
	if _, err := dapc.SWJPins(ctx, 0, dap.PinNRESET, 0); err != nil {
		return errors.Annotatef(err, "failed to assert nRESET")
	}
	select {
	case <-time.After(ResetPulse):
	case <-ctx.Done():
	}
	// Release even if the context is gone, leaving the target in reset is worse.
	if _, err := dapc.SWJPins(context.Background(), dap.PinNRESET, dap.PinNRESET, 0); err != nil {
		return errors.Annotatef(err, "failed to release nRESET")
	}
	return errors.Trace(ctx.Err())
}

func (r MemAPReg) String() string {
	switch r {
	case CSW:
		return "CSW"
	case TAR:
		return "TAR"
	case DRW:
		return "DRW"
	case BD0:
		return "BD0"
	case BD1:
		return "BD1"
	case BD2:
		return "BD2"
	case BD3:
		return "BD3"
	case BASE:
		return "BASE"
	case IDR:
		return "IDR"
	}
	return fmt.Sprintf("0x%x", uint8(r))
}
