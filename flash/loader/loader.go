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
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/common/ourutil"
	"github.com/mongoose-os/cyflash/flash/algo"
	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/memmap"
)

// ProgramBatch is the number of pages programmed between progress updates.
const ProgramBatch = 16

// Loader sequences flash operations on a target.
type Loader struct {
	t     Target
	opts  Options
	stats algo.Stats
}

func New(t Target, opts Options) *Loader {
	return &Loader{t: t, opts: opts}
}

func (l *Loader) Target() Target {
	return l.t
}

// Stats are the accumulated algorithm timings of all sessions so far.
func (l *Loader) Stats() algo.Stats {
	return l.stats
}

// MismatchError is the first difference found by Verify.
type MismatchError struct {
	Addr uint32
	Want byte
	Got  byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify failed at 0x%08x: expected 0x%02x, got 0x%02x", e.Addr, e.Want, e.Got)
}

type chunk struct {
	r    *memmap.Region
	addr uint32
	data []byte
	mode EraseMode
}

func (c *chunk) String() string {
	return fmt.Sprintf("%s 0x%08x-0x%08x", c.r.Name, c.addr, uint64(c.addr)+uint64(len(c.data)))
}

func (l *Loader) weights(r *memmap.Region) algo.Weights {
	f, err := r.CreateFlash(l.t.Core())
	if err != nil {
		return algo.DefaultWeights
	}
	return f.Weights
}

func (l *Loader) session(ctx context.Context, r *memmap.Region, op algo.Operation, fn func(s *Session) error) error {
	return errors.Trace(withSession(ctx, l.t, r, op, &l.opts, func(s *Session) error {
		err := fn(s)
		l.stats = addStats(l.stats, s.Flash().Stats())
		return err
	}))
}

// plan splits data into per-region chunks and checks everything it can
// before the first transaction.
func (l *Loader) plan(addr uint32, data []byte) ([]*chunk, error) {
	if len(data) == 0 {
		return nil, common.GeometryErrorf(addr, 0, "no data")
	}
	end := uint64(addr) + uint64(len(data))
	if end > 1<<32 {
		return nil, common.GeometryErrorf(addr, uint32(len(data)), "does not fit the address space")
	}
	mm := l.t.MemoryMap()
	var res []*chunk
	for cur := uint64(addr); cur < end; {
		r := mm.RegionFor(uint32(cur))
		if r == nil || !r.IsFlash() {
			return nil, common.GeometryErrorf(uint32(cur), uint32(end-cur), "not in flash")
		}
		cend := end
		if r.End() < cend {
			cend = r.End()
		}
		c := &chunk{r: r, addr: uint32(cur), data: data[cur-uint64(addr) : cend-uint64(addr)]}
		if err := l.align(c); err != nil {
			return nil, errors.Trace(err)
		}
		c.mode = l.eraseMode(c)
		res = append(res, c)
		cur = cend
	}
	return res, nil
}

// align pads the chunk to page boundaries if allowed and checks the result.
func (l *Loader) align(c *chunk) error {
	a := c.r.Algo
	if l.opts.Pad {
		head := c.addr % a.PageSize
		tail := (a.MinProgramLength - (head+uint32(len(c.data)))%a.MinProgramLength) % a.MinProgramLength
		if head != 0 || tail != 0 {
			glog.V(1).Infof("%s: padding with %d + %d bytes of 0x%02x", c, head, tail, c.r.ErasedByte)
			padded := bytes.Repeat([]byte{c.r.ErasedByte}, int(head)+len(c.data)+int(tail))
			copy(padded[head:], c.data)
			c.addr -= head
			c.data = padded
		}
	}
	length := uint32(len(c.data))
	switch {
	case !c.r.ContainsRange(c.addr, length):
		return common.GeometryErrorf(c.addr, length, "outside of %s", c.r)
	case c.addr%a.PageSize != 0:
		return common.GeometryErrorf(c.addr, length, "not aligned to page size 0x%x", a.PageSize)
	case length%a.MinProgramLength != 0:
		return common.GeometryErrorf(c.addr, length, "length not a multiple of 0x%x", a.MinProgramLength)
	}
	_, err := a.Sectors(c.addr, length)
	return errors.Trace(err)
}

func canChipErase(r *memmap.Region) bool {
	return !r.NoMassErase && r.Algo.PCEraseAll != 0
}

func (l *Loader) eraseMode(c *chunk) EraseMode {
	mode := l.opts.Erase
	if mode == EraseChip && !canChipErase(c.r) {
		glog.Warningf("%s: chip erase is not possible, erasing sectors", c.r.Name)
		return EraseSector
	}
	if mode != EraseAuto {
		return mode
	}
	if !canChipErase(c.r) || c.addr != c.r.Start || uint32(len(c.data)) != c.r.Length {
		return EraseSector
	}
	sectors, err := c.r.Algo.Sectors(c.r.Start, c.r.Length)
	if err != nil {
		return EraseSector
	}
	w := l.weights(c.r)
	if w.ChipErase < float64(len(sectors))*w.SectorErase {
		return EraseChip
	}
	return EraseSector
}

func (l *Loader) estimate(c *chunk) float64 {
	w := l.weights(c.r)
	a := c.r.Algo
	pages := (len(c.data) + int(a.PageSize) - 1) / int(a.PageSize)
	res := float64(pages) * w.ProgramPage
	switch c.mode {
	case EraseChip:
		res += w.ChipErase
	case EraseSector:
		sectors, _ := a.Sectors(c.addr, uint32(len(c.data)))
		res += float64(len(sectors)) * w.SectorErase
	}
	return res
}

// Program writes data at addr. The data may span several flash regions but
// must not extend beyond flash.
func (l *Loader) Program(ctx context.Context, addr uint32, data []byte) error {
	chunks, err := l.plan(addr, data)
	if err != nil {
		return errors.Trace(err)
	}
	p := &progress{cb: l.opts.Progress}
	for _, c := range chunks {
		p.total += l.estimate(c)
	}
	start := time.Now()
	l.stats = algo.Stats{}
	for _, c := range chunks {
		glog.V(1).Infof("Programming %s (erase: %s)", c, c.mode)
		if err := l.eraseChunk(ctx, c, p); err != nil {
			return errors.Trace(err)
		}
		if err := l.programChunk(ctx, c, p); err != nil {
			return errors.Trace(err)
		}
		if l.opts.Verify {
			if err := l.Verify(ctx, c.addr, c.data); err != nil {
				return errors.Annotatef(err, "%s", c.r.Name)
			}
		}
	}
	p.finish()
	s := l.stats
	ourutil.Reportf("Took %.3f (%.3f erase, %.3f send, %.3f write)",
		time.Since(start).Seconds(), s.Erase.Seconds(), s.Transfer.Seconds(), s.Program.Seconds())
	return nil
}

func (l *Loader) eraseChunk(ctx context.Context, c *chunk, p *progress) error {
	switch c.mode {
	case EraseNone:
		return nil
	case EraseChip:
		w := l.weights(c.r).ChipErase
		return errors.Trace(l.session(ctx, c.r, algo.OpErase, func(s *Session) error {
			if err := s.Flash().EraseAll(ctx); err != nil {
				return errors.Trace(err)
			}
			p.add(w)
			return nil
		}))
	}
	return errors.Trace(l.eraseSectors(ctx, c.r, c.addr, uint32(len(c.data)), p))
}

func (l *Loader) eraseSectors(ctx context.Context, r *memmap.Region, addr, length uint32, p *progress) error {
	sectors, err := r.Algo.Sectors(addr, length)
	if err != nil {
		return errors.Trace(err)
	}
	w := l.weights(r).SectorErase
	return errors.Trace(l.session(ctx, r, algo.OpErase, func(s *Session) error {
		for _, sa := range sectors {
			if err := s.Flash().EraseSector(ctx, sa); err != nil {
				return errors.Trace(err)
			}
			p.add(w)
		}
		return nil
	}))
}

func (l *Loader) programChunk(ctx context.Context, c *chunk, p *progress) error {
	a := c.r.Algo
	w := l.weights(c.r).ProgramPage
	batch := int(a.PageSize) * ProgramBatch
	return errors.Trace(l.session(ctx, c.r, algo.OpProgram, func(s *Session) error {
		for off := 0; off < len(c.data); off += batch {
			end := off + batch
			if end > len(c.data) {
				end = len(c.data)
			}
			if err := s.Flash().ProgramPages(ctx, c.addr+uint32(off), c.data[off:end]); err != nil {
				return errors.Trace(err)
			}
			p.add(float64((end-off+int(a.PageSize)-1)/int(a.PageSize)) * w)
		}
		return nil
	}))
}

// EraseSectors erases every sector overlapping [addr, addr+length).
func (l *Loader) EraseSectors(ctx context.Context, addr, length uint32) error {
	if length == 0 {
		return common.GeometryErrorf(addr, 0, "nothing to erase")
	}
	type span struct {
		r            *memmap.Region
		addr, length uint32
	}
	var spans []span
	end := uint64(addr) + uint64(length)
	mm := l.t.MemoryMap()
	for cur := uint64(addr); cur < end; {
		r := mm.RegionFor(uint32(cur))
		if r == nil || !r.IsFlash() {
			return common.GeometryErrorf(uint32(cur), uint32(end-cur), "not in flash")
		}
		send := end
		if r.End() < send {
			send = r.End()
		}
		spans = append(spans, span{r, uint32(cur), uint32(send - cur)})
		cur = send
	}
	p := &progress{cb: l.opts.Progress}
	for _, sp := range spans {
		sectors, err := sp.r.Algo.Sectors(sp.addr, sp.length)
		if err != nil {
			return errors.Trace(err)
		}
		p.total += float64(len(sectors)) * l.weights(sp.r).SectorErase
	}
	for _, sp := range spans {
		if err := l.eraseSectors(ctx, sp.r, sp.addr, sp.length, p); err != nil {
			return errors.Trace(err)
		}
	}
	p.finish()
	return nil
}

// EraseRegion erases a whole flash region, using erase-all when the region allows it.
func (l *Loader) EraseRegion(ctx context.Context, r *memmap.Region) error {
	if !r.IsFlash() {
		return errors.NotSupportedf("erasing %s", r)
	}
	if !canChipErase(r) {
		return errors.Trace(l.eraseSectors(ctx, r, r.Start, r.Length, &progress{}))
	}
	return errors.Trace(l.session(ctx, r, algo.OpErase, func(s *Session) error {
		return errors.Trace(s.Flash().EraseAll(ctx))
	}))
}

// MassErase erases every flash region that takes part in chip erase, then
// reconnects and halts the core.
func (l *Loader) MassErase(ctx context.Context) error {
	var regions []*memmap.Region
	for _, r := range l.t.MemoryMap().FlashRegions() {
		if r.NoMassErase {
			glog.V(1).Infof("Skipping %s", r)
			continue
		}
		regions = append(regions, r)
	}
	p := &progress{cb: l.opts.Progress, total: float64(len(regions))}
	for _, r := range regions {
		ourutil.Reportf("Erasing %s...", r)
		if err := l.EraseRegion(ctx, r); err != nil {
			return errors.Annotatef(err, "failed to erase %s", r.Name)
		}
		p.add(1)
	}
	core := l.t.Core()
	if err := core.Reconnect(ctx); err != nil {
		return errors.Annotatef(err, "failed to reconnect after mass erase")
	}
	if err := core.ResetAndHalt(ctx, l.opts.ResetKind); err != nil {
		return errors.Annotatef(err, "failed to halt after mass erase")
	}
	p.finish()
	return nil
}

// ReadMemory reads n bytes at addr. Flash that is not powered on boot is
// read inside a verify session.
func (l *Loader) ReadMemory(ctx context.Context, addr uint32, n int) ([]byte, error) {
	end := uint64(addr) + uint64(n)
	if n < 0 || end > 1<<32 {
		return nil, common.GeometryErrorf(addr, uint32(n), "does not fit the address space")
	}
	mm := l.t.MemoryMap()
	res := make([]byte, 0, n)
	for cur := uint64(addr); cur < end; {
		send := end
		r := mm.RegionFor(uint32(cur))
		if r != nil {
			if r.End() < send {
				send = r.End()
			}
		} else {
			for _, rr := range mm.RegionsIn(uint32(cur), uint32(end-cur)) {
				if uint64(rr.Start) < send {
					send = uint64(rr.Start)
				}
			}
		}
		data, err := l.readSegment(ctx, r, uint32(cur), int(send-cur))
		if err != nil {
			return nil, errors.Trace(err)
		}
		res = append(res, data...)
		cur = send
	}
	return res, nil
}

func (l *Loader) readSegment(ctx context.Context, r *memmap.Region, addr uint32, n int) ([]byte, error) {
	core := l.t.Core()
	if r == nil || !r.IsFlash() || r.IsPoweredOnBoot {
		data, err := core.ReadTargetMem8(ctx, addr, n)
		return data, errors.Annotatef(err, "failed to read 0x%08x", addr)
	}
	var data []byte
	err := l.session(ctx, r, algo.OpVerify, func(s *Session) error {
		var err error
		data, err = core.ReadTargetMem8(ctx, addr, n)
		return errors.Annotatef(err, "failed to read 0x%08x", addr)
	})
	return data, errors.Trace(err)
}

// Verify compares target memory with data and returns a *MismatchError for the first difference.
func (l *Loader) Verify(ctx context.Context, addr uint32, data []byte) error {
	rb, err := l.ReadMemory(ctx, addr, len(data))
	if err != nil {
		return errors.Trace(err)
	}
	for i := range data {
		if rb[i] != data[i] {
			return errors.Trace(&MismatchError{Addr: addr + uint32(i), Want: data[i], Got: rb[i]})
		}
	}
	glog.V(1).Infof("Verified %d bytes @ 0x%08x", len(data), addr)
	return nil
}
