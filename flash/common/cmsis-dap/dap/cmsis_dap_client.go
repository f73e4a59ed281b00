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
package dap

// This package implements (a subset of) the CMSIS-DAP probe interface
// https://arm-software.github.io/CMSIS_5/DAP/html/group__DAP__Commands__gr.html

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"
)

type cmd uint8

const (
	cmdInfo              cmd = 0x00
	cmdSetHostStatus     cmd = 0x01
	cmdConnect           cmd = 0x02
	cmdDisconnect        cmd = 0x03
	cmdTransferConfigure cmd = 0x04
	cmdTransfer          cmd = 0x05
	cmdTransferBlock     cmd = 0x06
	cmdDelay             cmd = 0x09
	cmdResetTarget       cmd = 0x0a
	cmdSWJPins           cmd = 0x10
	cmdSWJClock          cmd = 0x11
	cmdSWJSequence       cmd = 0x12
	cmdSWDConfigure      cmd = 0x13
)

const transferWaitRetries = 5

// transport moves whole DAP packets to and from the probe.
// Packets start with the command byte.
type transport interface {
	Write(packet []byte) error
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

type dapClient struct {
	t             transport
	maxPacketSize int
}

func newClient(ctx context.Context, t transport, initialPacketSize int) (DAPClient, error) {
	dapc := &dapClient{t: t, maxPacketSize: initialPacketSize}
	resp, err := dapc.GetInfo(ctx, 0xff)
	if err != nil {
		dapc.Close(ctx)
		return nil, errors.Annotatef(err, "failed to get max packet size")
	}
	var rl uint8
	var mps uint16
	binary.Read(resp, binary.LittleEndian, &rl)
	binary.Read(resp, binary.LittleEndian, &mps)
	if mps > 0 {
		dapc.maxPacketSize = int(mps)
	}
	glog.V(2).Infof("max packet size: %d", dapc.maxPacketSize)
	return dapc, nil
}

func newCmd(cmd cmd) *bytes.Buffer {
	return bytes.NewBuffer([]uint8{uint8(cmd)})
}

func (dapc *dapClient) exec(ctx context.Context, args *bytes.Buffer) (*bytes.Buffer, error) {
	glog.V(4).Infof(" => %s", hex.EncodeToString(args.Bytes()))
	if args.Len() > dapc.maxPacketSize {
		return nil, errors.Errorf("packet too long (max %d, got %d)", dapc.maxPacketSize, args.Len())
	}
	cmd := args.Bytes()[0]
	if err := dapc.t.Write(args.Bytes()); err != nil {
		return nil, errors.Annotatef(err, "device write failed")
	}
	resp, err := dapc.t.Read(ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "device read failed")
	}
	glog.V(4).Infof("<=  %s", hex.EncodeToString(resp))
	if len(resp) == 0 || resp[0] != cmd {
		return nil, errors.Errorf("response to wrong command (want 0x%02x, got %s)", cmd, hex.EncodeToString(resp))
	}
	return bytes.NewBuffer(resp[1:]), nil
}

func (dapc *dapClient) execCheckStatus(ctx context.Context, args *bytes.Buffer) error {
	cmd := args.Bytes()[0]
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Len() < 1 {
		return errors.Errorf("command 0x%02x: response is too short", cmd)
	}
	if status := resp.Bytes()[0]; status != 0 {
		return errors.Errorf("command 0x%02x returned error (0x%02x)", cmd, status)
	}
	return nil
}

func (dapc *dapClient) GetInfo(ctx context.Context, info uint8) (*bytes.Buffer, error) {
	glog.V(3).Infof("GetInfo(%d)", info)
	args := newCmd(cmdInfo)
	binary.Write(args, binary.LittleEndian, info)
	resp, err := dapc.exec(ctx, args)
	return resp, errors.Annotatef(err, "failed to get info 0x%02x", info)
}

func (dapc *dapClient) GetInfoString(ctx context.Context, info uint8) (string, error) {
	resp, err := dapc.GetInfo(ctx, info)
	if err != nil {
		return "", errors.Trace(err)
	}
	var sl uint8
	binary.Read(resp, binary.LittleEndian, &sl)
	s := make([]uint8, sl)
	resp.Read(s)
	return string(bytes.TrimRight(s, "\x00")), nil
}

func (dapc *dapClient) GetVendorID(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 1)
}

func (dapc *dapClient) GetProductID(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 2)
}

func (dapc *dapClient) GetSerialNumber(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 3)
}

func (dapc *dapClient) GetFirmwareVersion(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 4)
}

func (dapc *dapClient) GetTargetVendor(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 5)
}

func (dapc *dapClient) GetTargetName(ctx context.Context) (string, error) {
	return dapc.GetInfoString(ctx, 6)
}

func (dapc *dapClient) SetHostStatus(ctx context.Context, st StatusType, value bool) error {
	args := newCmd(cmdSetHostStatus)
	binary.Write(args, binary.LittleEndian, uint8(st))
	v := uint8(0)
	if value {
		v = 1
	}
	binary.Write(args, binary.LittleEndian, v)
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) Connect(ctx context.Context, mode ConnectMode) error {
	glog.V(3).Infof("Connect(%d)", mode)
	args := newCmd(cmdConnect)
	binary.Write(args, binary.LittleEndian, uint8(mode))
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return errors.Trace(err)
	}
	if resp.Len() < 1 || resp.Bytes()[0] == 0 {
		return errors.Errorf("connect error")
	}
	return nil
}

func (dapc *dapClient) Disconnect(ctx context.Context) error {
	return errors.Trace(dapc.execCheckStatus(ctx, newCmd(cmdDisconnect)))
}

func (dapc *dapClient) TransferConfigure(ctx context.Context, idleCycles uint8, waitRetry uint16, matchRetry uint16) error {
	glog.V(3).Infof("TransferConfigure(%d, %d, %d)", idleCycles, waitRetry, matchRetry)
	args := newCmd(cmdTransferConfigure)
	binary.Write(args, binary.LittleEndian, idleCycles)
	binary.Write(args, binary.LittleEndian, waitRetry)
	binary.Write(args, binary.LittleEndian, matchRetry)
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) doTransfer(ctx context.Context, dapIndex uint8, reqs []TransferRequest) (TransferStatus, []uint32, error) {
	args := newCmd(cmdTransfer)
	binary.Write(args, binary.LittleEndian, dapIndex)
	binary.Write(args, binary.LittleEndian, uint8(len(reqs)))
	for i, req := range reqs {
		if req.Reg&3 != 0 {
			return 0, nil, errors.Errorf("treq %d invalid reg 0x%x", i, req.Reg)
		}
		treq := (req.Reg & 0xc)
		haveData := true
		if req.AP {
			treq |= 1 << 0
		}
		switch req.Op {
		case OpRead:
			treq |= 1 << 1
			haveData = false
		case OpReadMatch:
			treq |= 1<<1 | 1<<4
		case OpWrite:
			// Nothing
		case OpWriteMatch:
			treq |= 1 << 5
		}
		binary.Write(args, binary.LittleEndian, treq)
		if haveData {
			binary.Write(args, binary.LittleEndian, req.Data)
		}
	}
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return 0, nil, errors.Trace(err)
	}
	var tc uint8
	var st TransferStatus
	var data []uint32
	if binary.Read(resp, binary.LittleEndian, &tc) != nil ||
		binary.Read(resp, binary.LittleEndian, &st) != nil {
		return st, nil, errors.Errorf("response is too short")
	}
	if !st.Ok() || int(tc) != len(reqs) {
		return st, nil, errors.Trace(&TransferFailure{Status: st, Completed: int(tc), Requested: len(reqs)})
	}
	for _, req := range reqs {
		if req.Op != OpRead {
			continue
		}
		var d uint32
		if binary.Read(resp, binary.LittleEndian, &d) != nil {
			return st, nil, errors.Errorf("response is too short")
		}
		data = append(data, d)
	}
	return st, data, nil
}

func (dapc *dapClient) Transfer(ctx context.Context, dapIndex uint8, reqs []TransferRequest) (TransferStatus, []uint32, error) {
	for i := 0; i < transferWaitRetries; i++ {
		st, res, err := dapc.doTransfer(ctx, dapIndex, reqs)
		if err != nil && st.AckValue() == uint8(TransferStatusWait) {
			continue
		}
		return st, res, err
	}
	return TransferStatusWait, nil, errors.Trace(&TransferFailure{Status: TransferStatusWait, Requested: len(reqs)})
}

func (dapc *dapClient) GetTransferBlockMaxSize() int {
	headerLen := 1 /* op */ + 1 /* dap index */ + 2 /* transfer count */ + 1 /* request */
	return (dapc.maxPacketSize - headerLen) / 4
}

func (dapc *dapClient) blockHeader(c cmd, dapIndex uint8, ap bool, reg uint8, length int, read bool) (*bytes.Buffer, error) {
	if reg&3 != 0 {
		return nil, errors.Errorf("invalid reg 0x%x", reg)
	}
	args := newCmd(c)
	binary.Write(args, binary.LittleEndian, dapIndex)
	binary.Write(args, binary.LittleEndian, uint16(length))
	treq := uint8(reg & 0xc)
	if read {
		treq |= 1 << 1
	}
	if ap {
		treq |= 1 << 0
	}
	binary.Write(args, binary.LittleEndian, treq)
	return args, nil
}

func blockStatus(resp *bytes.Buffer, length int) error {
	var tc uint16
	var st TransferStatus
	if binary.Read(resp, binary.LittleEndian, &tc) != nil ||
		binary.Read(resp, binary.LittleEndian, &st) != nil {
		return errors.Errorf("response is too short")
	}
	if !st.Ok() || int(tc) != length {
		return errors.Trace(&TransferFailure{Status: st, Completed: int(tc), Requested: length})
	}
	return nil
}

func (dapc *dapClient) TransferBlockRead(ctx context.Context, dapIndex uint8, ap bool, reg uint8, length int) ([]uint32, error) {
	glog.V(3).Infof("TransferBlockRead(%d, %t, 0x%x, %d)", dapIndex, ap, reg, length)
	if length > dapc.GetTransferBlockMaxSize() {
		return nil, errors.Errorf("request too big (max %d, got %d)", dapc.GetTransferBlockMaxSize(), length)
	}
	args, err := dapc.blockHeader(cmdTransferBlock, dapIndex, ap, reg, length, true)
	if err != nil {
		return nil, errors.Trace(err)
	}
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := blockStatus(resp, length); err != nil {
		return nil, errors.Trace(err)
	}
	res := make([]uint32, length)
	if binary.Read(resp, binary.LittleEndian, res) != nil {
		return nil, errors.Errorf("response is too short")
	}
	return res, nil
}

func (dapc *dapClient) TransferBlockWrite(ctx context.Context, dapIndex uint8, ap bool, reg uint8, data []uint32) error {
	glog.V(3).Infof("TransferBlockWrite(%d, %t, 0x%x, %d)", dapIndex, ap, reg, len(data))
	args, err := dapc.blockHeader(cmdTransferBlock, dapIndex, ap, reg, len(data), false)
	if err != nil {
		return errors.Trace(err)
	}
	binary.Write(args, binary.LittleEndian, data)
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(blockStatus(resp, len(data)))
}

func (dapc *dapClient) Delay(ctx context.Context, delay time.Duration) error {
	delayMicros := delay.Nanoseconds() / 1000
	if delayMicros > 65535 {
		return errors.Errorf("delay too large (%d)", delayMicros)
	}
	glog.V(3).Infof("Delay(%d)", delayMicros)
	args := newCmd(cmdDelay)
	binary.Write(args, binary.LittleEndian, uint16(delayMicros))
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) ResetTarget(ctx context.Context) error {
	return errors.Trace(dapc.execCheckStatus(ctx, newCmd(cmdResetTarget)))
}

func (dapc *dapClient) SWJPins(ctx context.Context, output, sel Pin, wait time.Duration) (Pin, error) {
	glog.V(3).Infof("SWJPins(0x%02x, 0x%02x, %s)", output, sel, wait)
	args := newCmd(cmdSWJPins)
	binary.Write(args, binary.LittleEndian, uint8(output))
	binary.Write(args, binary.LittleEndian, uint8(sel))
	binary.Write(args, binary.LittleEndian, uint32(wait.Nanoseconds()/1000))
	resp, err := dapc.exec(ctx, args)
	if err != nil {
		return 0, errors.Trace(err)
	}
	var pins uint8
	if binary.Read(resp, binary.LittleEndian, &pins) != nil {
		return 0, errors.Errorf("response is too short")
	}
	return Pin(pins), nil
}

func (dapc *dapClient) SWJClock(ctx context.Context, clockHz uint32) error {
	glog.V(3).Infof("SWJClock(%d)", clockHz)
	args := newCmd(cmdSWJClock)
	binary.Write(args, binary.LittleEndian, clockHz)
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) SWJSequence(ctx context.Context, numBits int, data []uint8) error {
	glog.V(3).Infof("SWJSequence(%d, %v)", numBits, data)
	if numBits < 1 || numBits > 256 {
		return errors.Errorf("length must be between 1 and 256 (got %d)", numBits)
	}
	args := newCmd(cmdSWJSequence)
	binary.Write(args, binary.LittleEndian, uint8(numBits))
	args.Write(data)
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) SWDConfigure(ctx context.Context, config uint8) error {
	glog.V(3).Infof("SWDConfigure(0x%02x)", config)
	args := newCmd(cmdSWDConfigure)
	binary.Write(args, binary.LittleEndian, config)
	return errors.Trace(dapc.execCheckStatus(ctx, args))
}

func (dapc *dapClient) Close(ctx context.Context) error {
	if dapc.t != nil {
		return errors.Trace(dapc.t.Close())
	}
	return nil
}
