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
package memmap

import (
	"fmt"
	"sort"

	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/algo"
)

type Kind int

const (
	KindROM Kind = iota
	KindRAM
	KindFlash
)

func (k Kind) String() string {
	switch k {
	case KindROM:
		return "ROM"
	case KindRAM:
		return "RAM"
	case KindFlash:
		return "flash"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Region is an address range of the target. Only flash regions have the
// flash-specific fields set.
type Region struct {
	Kind   Kind
	Name   string
	Start  uint32
	Length uint32

	BlockSize  uint32
	ErasedByte byte
	// IsBootMemory marks the flash the core boots from.
	IsBootMemory bool
	// IsTestable is false for regions that must not be touched by tests.
	IsTestable bool
	// IsPoweredOnBoot is false for regions that need the algorithm initialized to be read.
	IsPoweredOnBoot bool
	// NoMassErase excludes the region from chip erase.
	NoMassErase bool

	Algo *algo.Algorithm
	// NewFlash creates the runner for the region, algo.NewFlash if nil.
	NewFlash algo.FlashFactory
}

type Option func(r *Region)

func Boot() Option {
	return func(r *Region) { r.IsBootMemory = true }
}

func NotTestable() Option {
	return func(r *Region) { r.IsTestable = false }
}

func NotPoweredOnBoot() Option {
	return func(r *Region) { r.IsPoweredOnBoot = false }
}

func NoMassErase() Option {
	return func(r *Region) { r.NoMassErase = true }
}

func ErasedByte(b byte) Option {
	return func(r *Region) { r.ErasedByte = b }
}

func WithFactory(ff algo.FlashFactory) Option {
	return func(r *Region) { r.NewFlash = ff }
}

func ROM(name string, start, length uint32) *Region {
	return &Region{Kind: KindROM, Name: name, Start: start, Length: length, IsTestable: true, IsPoweredOnBoot: true}
}

func RAM(name string, start, length uint32) *Region {
	return &Region{Kind: KindRAM, Name: name, Start: start, Length: length, IsTestable: true, IsPoweredOnBoot: true}
}

// Flash returns a flash region programmed by a. The erased byte defaults to 0xff.
func Flash(name string, start, length, blockSize uint32, a *algo.Algorithm, opts ...Option) *Region {
	r := &Region{
		Kind:            KindFlash,
		Name:            name,
		Start:           start,
		Length:          length,
		BlockSize:       blockSize,
		ErasedByte:      0xff,
		IsTestable:      true,
		IsPoweredOnBoot: true,
		Algo:            a,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Region) IsFlash() bool {
	return r.Kind == KindFlash
}

// End is the first address after the region.
func (r *Region) End() uint64 {
	return uint64(r.Start) + uint64(r.Length)
}

func (r *Region) Contains(addr uint32) bool {
	return addr >= r.Start && uint64(addr) < r.End()
}

// ContainsRange reports whether all of [addr, addr+length) is in the region.
func (r *Region) ContainsRange(addr, length uint32) bool {
	return r.Contains(addr) && uint64(addr)+uint64(length) <= r.End()
}

func (r *Region) Overlaps(addr, length uint32) bool {
	return uint64(addr) < r.End() && uint64(addr)+uint64(length) > uint64(r.Start)
}

// CreateFlash instantiates the runner for the region on core.
func (r *Region) CreateFlash(core algo.Core) (*algo.Flash, error) {
	if !r.IsFlash() || r.Algo == nil {
		return nil, errors.NotSupportedf("flash operations on %s region %s", r.Kind, r.Name)
	}
	ff := r.NewFlash
	if ff == nil {
		ff = algo.NewFlash
	}
	return ff(core, r.Algo), nil
}

func (r *Region) String() string {
	return fmt.Sprintf("%s %s 0x%08x-0x%08x", r.Kind, r.Name, r.Start, r.End())
}

// Map is the sorted, non-overlapping set of regions of a target.
type Map struct {
	regions []*Region
}

// New validates the regions and builds a map.
func New(regions ...*Region) (*Map, error) {
	rs := append([]*Region(nil), regions...)
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })
	var boot *Region
	for i, r := range rs {
		if r.Length == 0 {
			return nil, errors.NotValidf("empty region %s", r.Name)
		}
		if r.End() > 1<<32 {
			return nil, errors.NotValidf("region %s does not fit the address space", r.Name)
		}
		if i > 0 && rs[i-1].End() > uint64(r.Start) {
			return nil, errors.NotValidf("%s overlaps %s", rs[i-1], r)
		}
		if r.IsFlash() {
			if err := checkFlash(r); err != nil {
				return nil, errors.Trace(err)
			}
			if r.IsBootMemory {
				if boot != nil {
					return nil, errors.NotValidf("both %s and %s are boot memory", boot.Name, r.Name)
				}
				boot = r
			}
		} else if r.IsBootMemory {
			return nil, errors.NotValidf("%s: only flash can be boot memory", r.Name)
		}
	}
	return &Map{regions: rs}, nil
}

func checkFlash(r *Region) error {
	a := r.Algo
	if a == nil {
		return errors.NotValidf("flash region %s has no algorithm", r.Name)
	}
	if err := a.Validate(); err != nil {
		return errors.Annotatef(err, "flash region %s", r.Name)
	}
	if !a.Contains(r.Start, r.Length) {
		return errors.NotValidf("flash region %s is not covered by %s", r, a)
	}
	if r.BlockSize == 0 || r.Start%r.BlockSize != 0 || r.Length%r.BlockSize != 0 {
		return errors.NotValidf("flash region %s block size 0x%x", r, r.BlockSize)
	}
	return nil
}

// MustNew is New for static tables.
func MustNew(regions ...*Region) *Map {
	m, err := New(regions...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Map) Regions() []*Region {
	return m.regions
}

func (m *Map) FlashRegions() []*Region {
	var res []*Region
	for _, r := range m.regions {
		if r.IsFlash() {
			res = append(res, r)
		}
	}
	return res
}

// RegionFor returns the region containing addr, nil if none.
func (m *Map) RegionFor(addr uint32) *Region {
	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].End() > uint64(addr) })
	if i < len(m.regions) && m.regions[i].Contains(addr) {
		return m.regions[i]
	}
	return nil
}

// RegionByName returns the region with the given name, nil if none.
func (m *Map) RegionByName(name string) *Region {
	for _, r := range m.regions {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// RegionsIn returns the regions overlapping [addr, addr+length), in address order.
func (m *Map) RegionsIn(addr, length uint32) []*Region {
	var res []*Region
	for _, r := range m.regions {
		if r.Overlaps(addr, length) {
			res = append(res, r)
		}
	}
	return res
}

func (m *Map) BootMemory() *Region {
	for _, r := range m.regions {
		if r.IsFlash() && r.IsBootMemory {
			return r
		}
	}
	return nil
}
