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
package algo

import (
	"fmt"
	"sort"

	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
)

// Operation is passed to the algorithm's Init and UnInit functions.
type Operation uint32

const (
	OpErase   Operation = 1
	OpProgram Operation = 2
	OpVerify  Operation = 3
)

func (op Operation) String() string {
	switch op {
	case OpErase:
		return "erase"
	case OpProgram:
		return "program"
	case OpVerify:
		return "verify"
	}
	return fmt.Sprintf("Operation(%d)", uint32(op))
}

// Sector is an entry of the sector table: sectors of Size start at Offset and
// continue up to the next entry.
type Sector struct {
	Offset uint32
	Size   uint32
}

// Algorithm describes a flash algorithm blob and the geometry it programs.
// Entry points are absolute addresses, Thumb bit included.
type Algorithm struct {
	Name string

	LoadAddress  uint32
	Instructions []uint32

	PCInit        uint32
	PCUnInit      uint32
	PCProgramPage uint32
	PCEraseSector uint32
	PCEraseAll    uint32

	StaticBase uint32
	BeginStack uint32
	BeginData  uint32

	// Zero or one buffer disables double buffering, with two pages alternate between them.
	PageBuffers []uint32

	MinProgramLength uint32
	PageSize         uint32

	AnalyzerSupported bool
	AnalyzerAddress   uint32

	FlashStart  uint32
	FlashSize   uint32
	SectorSizes []Sector
}

func (a *Algorithm) String() string {
	return fmt.Sprintf("%s @ 0x%08x (0x%08x-0x%08x)", a.Name, a.LoadAddress, a.FlashStart, a.FlashStart+a.FlashSize)
}

// ImageEnd is the first address after the instructions.
func (a *Algorithm) ImageEnd() uint32 {
	return a.LoadAddress + uint32(len(a.Instructions)*4)
}

func inImage(a *Algorithm, pc uint32) bool {
	pc &^= 1
	return pc >= a.LoadAddress && pc < a.ImageEnd()
}

// Validate checks that the descriptor is self-consistent.
func (a *Algorithm) Validate() error {
	if len(a.Instructions) == 0 {
		return errors.NotValidf("%s: no instructions", a.Name)
	}
	for _, pc := range []struct {
		name string
		addr uint32
	}{
		{"init", a.PCInit}, {"uninit", a.PCUnInit}, {"program_page", a.PCProgramPage},
		{"erase_sector", a.PCEraseSector}, {"erase_all", a.PCEraseAll},
	} {
		if pc.addr != 0 && !inImage(a, pc.addr) {
			return errors.NotValidf("%s: %s entry 0x%08x outside of the image", a.Name, pc.name, pc.addr)
		}
	}
	if a.PCInit == 0 || a.PCProgramPage == 0 || a.PCEraseSector == 0 {
		return errors.NotValidf("%s: init, program_page and erase_sector are required", a.Name)
	}
	if a.PageSize == 0 || a.MinProgramLength == 0 || a.PageSize%a.MinProgramLength != 0 {
		return errors.NotValidf("%s: page size 0x%x / min program length 0x%x", a.Name, a.PageSize, a.MinProgramLength)
	}
	if len(a.PageBuffers) > 2 {
		return errors.NotValidf("%s: %d page buffers", a.Name, len(a.PageBuffers))
	}
	for _, b := range a.PageBuffers {
		if b < a.ImageEnd() && b+a.PageSize > a.LoadAddress {
			return errors.NotValidf("%s: page buffer 0x%08x overlaps the image", a.Name, b)
		}
	}
	if a.FlashSize == 0 || uint64(a.FlashStart)+uint64(a.FlashSize) > 1<<32 {
		return errors.NotValidf("%s: flash 0x%08x size 0x%x", a.Name, a.FlashStart, a.FlashSize)
	}
	if len(a.SectorSizes) == 0 || a.SectorSizes[0].Offset != 0 {
		return errors.NotValidf("%s: sector table must start at offset 0", a.Name)
	}
	if !sort.SliceIsSorted(a.SectorSizes, func(i, j int) bool { return a.SectorSizes[i].Offset < a.SectorSizes[j].Offset }) {
		return errors.NotValidf("%s: sector table is not sorted", a.Name)
	}
	for i, s := range a.SectorSizes {
		if s.Size == 0 || s.Size%a.MinProgramLength != 0 {
			return errors.NotValidf("%s: sector size 0x%x", a.Name, s.Size)
		}
		if i > 0 {
			prev := a.SectorSizes[i-1]
			if s.Offset == prev.Offset || (s.Offset-prev.Offset)%prev.Size != 0 {
				return errors.NotValidf("%s: sector offset 0x%x", a.Name, s.Offset)
			}
		}
	}
	return nil
}

// Contains reports whether [addr, addr+length) lies within the flash.
func (a *Algorithm) Contains(addr, length uint32) bool {
	if addr < a.FlashStart {
		return false
	}
	off := uint64(addr - a.FlashStart)
	return off+uint64(length) <= uint64(a.FlashSize) && off < uint64(a.FlashSize)
}

// SectorAt returns the sector containing addr. The sector table entry is the
// one with the greatest offset not above addr.
func (a *Algorithm) SectorAt(addr uint32) (start, size uint32, err error) {
	if !a.Contains(addr, 1) {
		return 0, 0, common.GeometryErrorf(addr, 0, "outside of flash 0x%08x-0x%08x", a.FlashStart, a.FlashStart+a.FlashSize)
	}
	off := addr - a.FlashStart
	i := sort.Search(len(a.SectorSizes), func(i int) bool { return a.SectorSizes[i].Offset > off }) - 1
	if i < 0 {
		return 0, 0, common.GeometryErrorf(addr, 0, "no sector")
	}
	s := a.SectorSizes[i]
	start = a.FlashStart + s.Offset + (off-s.Offset)/s.Size*s.Size
	return start, s.Size, nil
}

// Sectors returns the start addresses of all sectors overlapping [addr, addr+length).
func (a *Algorithm) Sectors(addr, length uint32) ([]uint32, error) {
	if length == 0 {
		return nil, nil
	}
	if !a.Contains(addr, length) {
		return nil, common.GeometryErrorf(addr, length, "outside of flash 0x%08x-0x%08x", a.FlashStart, a.FlashStart+a.FlashSize)
	}
	var res []uint32
	end := uint64(addr) + uint64(length)
	for sa := addr; uint64(sa) < end; {
		start, size, err := a.SectorAt(sa)
		if err != nil {
			return nil, errors.Trace(err)
		}
		res = append(res, start)
		if uint64(start)+uint64(size) >= uint64(a.FlashStart)+uint64(a.FlashSize) {
			break
		}
		sa = start + size
	}
	return res, nil
}

// checkPage validates a program_page request.
func (a *Algorithm) checkPage(addr uint32, length int) error {
	switch {
	case !a.Contains(addr, uint32(length)):
		return common.GeometryErrorf(addr, uint32(length), "outside of flash 0x%08x-0x%08x", a.FlashStart, a.FlashStart+a.FlashSize)
	case addr%a.PageSize != 0:
		return common.GeometryErrorf(addr, uint32(length), "not aligned to page size 0x%x", a.PageSize)
	case length == 0 || length > int(a.PageSize):
		return common.GeometryErrorf(addr, uint32(length), "length must be between 1 and 0x%x", a.PageSize)
	case uint32(length)%a.MinProgramLength != 0:
		return common.GeometryErrorf(addr, uint32(length), "length not a multiple of 0x%x", a.MinProgramLength)
	}
	return nil
}

// checkSector validates an erase_sector request.
func (a *Algorithm) checkSector(addr uint32) error {
	start, size, err := a.SectorAt(addr)
	if err != nil {
		return errors.Trace(err)
	}
	if start != addr {
		return common.GeometryErrorf(addr, size, "not a sector boundary (sector at 0x%08x)", start)
	}
	return nil
}
