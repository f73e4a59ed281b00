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
//go:build !no_libudev
// +build !no_libudev

package dap

import (
	"context"

	"github.com/cesanta/hid"
	"github.com/golang/glog"
	"github.com/google/gousb"
	"github.com/juju/errors"
)

// ProbeOpts selects the probe to open.
type ProbeOpts struct {
	VID    uint16
	PID    uint16
	Serial string
	// Bulk selects the CMSIS-DAP v2 bulk endpoint transport instead of HID.
	Bulk      bool
	Interface int
	EPIn      int
	EPOut     int
}

func NewClient(ctx context.Context, opts *ProbeOpts) (DAPClient, error) {
	if opts.Bulk {
		t, err := openBulk(opts)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return newClient(ctx, t, 64)
	}
	t, err := openHID(opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Start with a conservative guess
	return newClient(ctx, t, 8)
}

type hidTransport struct {
	d hid.Device
}

func openHID(opts *ProbeOpts) (transport, error) {
	devs, err := hid.Devices()
	if err != nil {
		return nil, errors.Annotatef(err, "failed to enumerate HID devices")
	}
	for i, di := range devs {
		glog.V(1).Infof("%d: %04x:%04x %s", i, di.VendorID, di.ProductID, di.Path)
		if di.VendorID != opts.VID || di.ProductID != opts.PID {
			continue
		}
		d, err := di.Open()
		if err != nil {
			return nil, errors.Annotatef(err, "failed to open device %04x:%04x (%s)", di.VendorID, di.ProductID, di.Path)
		}
		glog.Infof("Opened %04x:%04x (%s)", di.VendorID, di.ProductID, di.Path)
		return &hidTransport{d: d}, nil
	}
	return nil, errors.NotFoundf("device %04x:%04x", opts.VID, opts.PID)
}

func (ht *hidTransport) Write(packet []byte) error {
	// HID report number (unused) goes first.
	return ht.d.Write(append([]byte{0}, packet...))
}

func (ht *hidTransport) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Annotatef(ctx.Err(), "DAP exec")
	case resp, ok := <-ht.d.ReadCh():
		if !ok {
			return nil, errors.Trace(ht.d.ReadError())
		}
		return resp, nil
	}
}

func (ht *hidTransport) Close() error {
	ht.d.Close()
	return nil
}

type bulkTransport struct {
	uctx  *gousb.Context
	dev   *gousb.Device
	cfg   *gousb.Config
	intf  *gousb.Interface
	epIn  *gousb.InEndpoint
	epOut *gousb.OutEndpoint
	buf   []byte
}

func openBulk(opts *ProbeOpts) (transport, error) {
	uctx, dev, err := openUSBDevice(gousb.ID(opts.VID), gousb.ID(opts.PID), opts.Serial)
	if err != nil {
		return nil, errors.Trace(err)
	}
	bt := &bulkTransport{uctx: uctx, dev: dev}
	if err := bt.claim(opts); err != nil {
		bt.Close()
		return nil, errors.Trace(err)
	}
	return bt, nil
}

func (bt *bulkTransport) claim(opts *ProbeOpts) error {
	bt.dev.SetAutoDetach(true)
	cfgNum, err := bt.dev.ActiveConfigNum()
	if err != nil {
		return errors.Annotatef(err, "failed to get active config")
	}
	bt.cfg, err = bt.dev.Config(cfgNum)
	if err != nil {
		return errors.Annotatef(err, "failed to set config %d", cfgNum)
	}
	bt.intf, err = bt.cfg.Interface(opts.Interface, 0)
	if err != nil {
		return errors.Annotatef(err, "failed to claim interface %d", opts.Interface)
	}
	bt.epIn, err = bt.intf.InEndpoint(opts.EPIn & 0x7f)
	if err != nil {
		return errors.Annotatef(err, "failed to open IN endpoint 0x%02x", opts.EPIn)
	}
	bt.epOut, err = bt.intf.OutEndpoint(opts.EPOut & 0x7f)
	if err != nil {
		return errors.Annotatef(err, "failed to open OUT endpoint 0x%02x", opts.EPOut)
	}
	bt.buf = make([]byte, bt.epIn.Desc.MaxPacketSize*16)
	return nil
}

func (bt *bulkTransport) Write(packet []byte) error {
	_, err := bt.epOut.Write(packet)
	return errors.Trace(err)
}

func (bt *bulkTransport) Read(ctx context.Context) ([]byte, error) {
	n, err := bt.epIn.ReadContext(ctx, bt.buf)
	if err != nil {
		return nil, errors.Trace(err)
	}
	resp := make([]byte, n)
	copy(resp, bt.buf[:n])
	return resp, nil
}

func (bt *bulkTransport) Close() error {
	if bt.intf != nil {
		bt.intf.Close()
	}
	if bt.cfg != nil {
		bt.cfg.Close()
	}
	bt.dev.Close()
	return errors.Trace(bt.uctx.Close())
}

// openUSBDevice opens a USB device with specified VID, PID and (optionally) serial number.
// If serial number is empty, it is not checked.
// If multiple devices match the criteria, the first one is returned.
func openUSBDevice(vid, pid gousb.ID, serial string) (*gousb.Context, *gousb.Device, error) {
	uctx := gousb.NewContext()
	devs, err := uctx.OpenDevices(func(dd *gousb.DeviceDesc) bool {
		return dd.Vendor == vid && dd.Product == pid
	})
	// OpenDevices may fail overall but still return results. Only fail if no devices were returned.
	if err != nil && len(devs) == 0 {
		uctx.Close()
		return nil, nil, errors.Annotatef(err, "failed to enumerate USB devices")
	}
	var res *gousb.Device
	for _, dev := range devs {
		if res != nil {
			dev.Close()
			continue
		}
		sn, _ := dev.SerialNumber()
		glog.V(1).Infof("Dev %s sn '%s'", dev, sn)
		if serial == "" || sn == serial {
			res = dev
		} else {
			dev.Close()
		}
	}
	if res == nil {
		uctx.Close()
		return nil, nil, errors.NotFoundf("USB device %s:%s (serial %q)", vid, pid, serial)
	}
	return uctx, res, nil
}
