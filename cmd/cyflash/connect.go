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

package main

import (
	"context"

	"github.com/golang/glog"
	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/mongoose-os/cyflash/common/config"
	"github.com/mongoose-os/cyflash/common/ourutil"
	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dap"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/dp"
	"github.com/mongoose-os/cyflash/flash/common/cmsis-dap/memap"
	"github.com/mongoose-os/cyflash/flash/loader"
	"github.com/mongoose-os/cyflash/flash/psoc6"
)

// devConn is an attached core of a part.
type devConn struct {
	part   *psoc6.Part
	target *psoc6.Target
	opts   *config.Options
	// sim is set when running against a simulated part.
	sim *psoc6.Sim

	closeLink func(ctx context.Context) error
}

// selection is the part, the core and the session options after the config file,
// option strings and flags have been applied, in this order.
type selection struct {
	part *psoc6.Part
	core string
	opts *config.Options
}

func selectTarget() (*selection, error) {
	sel := &selection{opts: config.DefaultOptions(), core: *coreName}
	name := *targetName
	if *configFile != "" {
		f, err := config.ReadFile(*configFile)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if f.Target != "" && !flag.Lookup("target").Changed {
			name = f.Target
		}
		if f.Core != "" && !flag.Lookup("core").Changed {
			sel.core = f.Core
		}
		if err := f.Apply(sel.opts); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := sel.opts.ParseString(*optionStr); err != nil {
		return nil, errors.Annotatef(err, "--options")
	}
	if err := sel.opts.Parse(*optionList); err != nil {
		return nil, errors.Annotatef(err, "--option")
	}
	if *frequency != 0 {
		sel.opts.Frequency = *frequency
	}
	if *eraseFlag != "" {
		m, err := loader.ParseEraseMode(*eraseFlag)
		if err != nil {
			return nil, errors.Annotatef(err, "--erase")
		}
		sel.opts.ChipErase = m
	}
	p, err := psoc6.Lookup(name)
	if err != nil {
		return nil, errors.Trace(err)
	}
	sel.part = p
	if _, err := p.Core(sel.core); err != nil {
		return nil, errors.Trace(err)
	}
	glog.V(1).Infof("%s core %q, %s", p.Name, sel.core, sel.opts)
	return sel, nil
}

func openProbe(ctx context.Context, ap int, opts *config.Options) (common.Link, func(ctx context.Context) error, error) {
	dapc, err := dap.NewClient(ctx, &dap.ProbeOpts{
		VID:    *probeVID,
		PID:    *probePID,
		Serial: *probeSerial,
		Bulk:   *probeBulk,
	})
	if err != nil {
		return nil, nil, errors.Annotatef(err, "failed to open debug probe %04x:%04x", *probeVID, *probePID)
	}
	closeLink := func(ctx context.Context) error {
		return errors.Trace(dapc.Close(ctx))
	}
	if fw, err := dapc.GetFirmwareVersion(ctx); err == nil {
		glog.V(1).Infof("Probe firmware %s", fw)
	}
	if err := dp.Connect(ctx, dapc, opts.Frequency); err != nil {
		closeLink(ctx)
		return nil, nil, errors.Trace(err)
	}
	dpc := dp.NewDPClient(dapc)
	if err := dpc.Init(ctx); err != nil {
		closeLink(ctx)
		return nil, nil, errors.Annotatef(err, "failed to init DP")
	}
	idr, err := dpc.GetIDR(ctx)
	if err != nil {
		closeLink(ctx)
		return nil, nil, errors.Trace(err)
	}
	glog.V(1).Infof("DP: designer %s, version %d, part 0x%x, rev %d", idr.Designer(), idr.Version(), idr.PartNumber(), idr.Revision())
	mapc := memap.NewMemAPClient(dpc, uint8(ap))
	if err := mapc.Init(ctx); err != nil {
		closeLink(ctx)
		return nil, nil, errors.Annotatef(err, "failed to init MEM-AP %d", ap)
	}
	return mapc, closeLink, nil
}

func connect(ctx context.Context) (*devConn, error) {
	sel, err := selectTarget()
	if err != nil {
		return nil, errors.Trace(err)
	}
	dc := &devConn{
		part:      sel.part,
		opts:      sel.opts,
		closeLink: func(ctx context.Context) error { return nil },
	}
	cctx := ctx
	if sel.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, sel.opts.ConnectTimeout)
		defer cancel()
	}
	var link common.Link
	if *useSim {
		dc.sim = sel.part.NewSim()
		link = dc.sim
		ourutil.Reportf("Using simulated %s", sel.part)
	} else {
		ci, _ := sel.part.Core(sel.core)
		link, dc.closeLink, err = openProbe(cctx, ci.AP, sel.opts)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}
	dc.target, err = sel.part.NewTarget(sel.core, link)
	if err != nil {
		dc.Close(ctx)
		return nil, errors.Trace(err)
	}
	core := dc.target.Core()
	if in, ok := core.(interface{ Init(ctx context.Context) error }); ok {
		if err := in.Init(cctx); err != nil {
			dc.Close(ctx)
			return nil, errors.Trace(err)
		}
	}
	if err := core.SetVectorCatch(cctx, sel.opts.VectorCatch); err != nil {
		dc.Close(ctx)
		return nil, errors.Annotatef(err, "failed to set vector catch")
	}
	glog.V(1).Infof("Connected to %s", dc.target.Name())
	return dc, nil
}

// newLoader returns a flash loader for the target configured from the session options and flags.
func (dc *devConn) newLoader(progress func(float64)) *loader.Loader {
	opts := dc.opts.LoaderOptions()
	opts.Verify = *verify
	opts.Pad = *pad
	opts.Progress = progress
	return loader.New(dc.target, opts)
}

func (dc *devConn) Close(ctx context.Context) error {
	return errors.Trace(dc.closeLink(ctx))
}
