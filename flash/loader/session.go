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
	"context"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/algo"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/memmap"
)

// Target is a debugged core together with the memory it can program.
type Target interface {
	Name() string
	Core() cortex.Control
	MemoryMap() *memmap.Map
	// FlashSlot holds the flash session active on the target.
	FlashSlot() *Slot
}

type EraseMode int

const (
	// EraseAuto picks chip erase when the image covers the whole region and it is cheaper.
	EraseAuto EraseMode = iota
	EraseSector
	EraseChip
	EraseNone
)

func (m EraseMode) String() string {
	switch m {
	case EraseAuto:
		return "auto"
	case EraseSector:
		return "sector"
	case EraseChip:
		return "chip"
	case EraseNone:
		return "none"
	}
	return "unknown"
}

func ParseEraseMode(s string) (EraseMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return EraseAuto, nil
	case "sector":
		return EraseSector, nil
	case "chip":
		return EraseChip, nil
	case "none":
		return EraseNone, nil
	}
	return EraseAuto, errors.NotValidf("erase mode %q", s)
}

type Options struct {
	Erase EraseMode
	// Pad extends data to page boundaries with the erased byte of the region.
	Pad bool
	// Verify reads back everything that was programmed.
	Verify         bool
	NoDoubleBuffer bool
	// Debug enables algorithm register dumps and return address checks.
	Debug     bool
	Clock     uint32
	ResetKind cortex.ResetKind
	// Timeouts override the algorithm call timeouts if set.
	Timeouts *algo.Timeouts
	// Progress is called with the completed fraction of the operation.
	Progress func(fraction float64)
}

// Slot is where a target keeps its active flash session. Only one session
// may be active per target. The zero value is an empty slot.
type Slot struct {
	mu     sync.Mutex
	active *Session
}

// Active returns the open session, nil if there is none.
func (sl *Slot) Active() *Session {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.active
}

func (sl *Slot) acquire(s *Session) *Session {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.active != nil {
		return sl.active
	}
	sl.active = s
	return nil
}

func (sl *Slot) release(s *Session) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.active == s {
		sl.active = nil
	}
}

// Flashing tells whether a flash session is active on the target.
func Flashing(t Target) bool {
	return t.FlashSlot().Active() != nil
}

// Session is one init/uninit bracket of a flash algorithm on a region.
type Session struct {
	target Target
	region *memmap.Region
	flash  *algo.Flash
	op     algo.Operation
	closed bool
}

// Open creates the runner for the region, loads and initializes it for op.
// The session must be closed, even if the operation fails.
func Open(ctx context.Context, t Target, r *memmap.Region, op algo.Operation, opts *Options) (*Session, error) {
	f, err := r.CreateFlash(t.Core())
	if err != nil {
		return nil, errors.Trace(err)
	}
	if opts == nil {
		opts = &Options{}
	}
	f.SetDebug(opts.Debug)
	f.SetDoubleBuffer(!opts.NoDoubleBuffer)
	f.Clock = opts.Clock
	f.ResetKind = opts.ResetKind
	if opts.Timeouts != nil {
		f.Timeouts = *opts.Timeouts
	}
	s := &Session{target: t, region: r, flash: f, op: op}
	if as := t.FlashSlot().acquire(s); as != nil {
		return nil, errors.AlreadyExistsf("%s: flash session (%s on %s)", t.Name(), as.op, as.region.Name)
	}
	glog.V(1).Infof("%s: %s session on %s", t.Name(), op, r.Name)
	if err := f.Init(ctx, op); err != nil {
		if uerr := s.Close(ctx); uerr != nil {
			glog.Errorf("%s: %s", t.Name(), uerr)
		}
		return nil, errors.Annotatef(err, "%s: %s", t.Name(), r.Name)
	}
	return s, nil
}

func (s *Session) Region() *memmap.Region {
	return s.region
}

func (s *Session) Flash() *algo.Flash {
	return s.flash
}

func (s *Session) Op() algo.Operation {
	return s.op
}

// Close uninitializes the algorithm and releases the target.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.flash.Uninit(ctx)
	s.target.FlashSlot().release(s)
	return errors.Trace(err)
}

// withSession runs fn inside a session. Uninit runs on every exit path, the
// failure of fn takes precedence over the failure of uninit.
func withSession(ctx context.Context, t Target, r *memmap.Region, op algo.Operation, opts *Options, fn func(s *Session) error) error {
	s, err := Open(ctx, t, r, op, opts)
	if err != nil {
		return errors.Trace(err)
	}
	ferr := fn(s)
	cerr := s.Close(ctx)
	if ferr != nil {
		if cerr != nil {
			glog.Errorf("%s: %s (after %s)", t.Name(), cerr, ferr)
		}
		return errors.Trace(ferr)
	}
	return errors.Trace(cerr)
}

type progress struct {
	cb    func(float64)
	total float64
	done  float64
}

func (p *progress) add(w float64) {
	p.done += w
	if p.cb == nil || p.total <= 0 {
		return
	}
	f := p.done / p.total
	if f > 1 {
		f = 1
	}
	p.cb(f)
}

func (p *progress) finish() {
	if p.cb != nil {
		p.cb(1)
	}
}

func addStats(a, b algo.Stats) algo.Stats {
	return algo.Stats{
		Calls:    a.Calls + b.Calls,
		Erase:    a.Erase + b.Erase,
		Transfer: a.Transfer + b.Transfer,
		Program:  a.Program + b.Program,
	}
}
