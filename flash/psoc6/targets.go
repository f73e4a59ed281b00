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
package psoc6

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/algo"
	"github.com/mongoose-os/cyflash/flash/common"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/loader"
	"github.com/mongoose-os/cyflash/flash/memmap"
)

// CoreInfo names a core and the access port it is behind.
type CoreInfo struct {
	Name string
	AP   int
}

// Part is a PSoC6 device family.
type Part struct {
	Name        string
	Description string
	Cores       []CoreInfo

	mm      *memmap.Map
	secure  bool
	newCore func(ci CoreInfo, link common.Link) cortex.Control
}

func (p *Part) MemoryMap() *memmap.Map {
	return p.mm
}

func (p *Part) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Description)
}

// Core returns the named core, the first one if name is empty.
func (p *Part) Core(name string) (CoreInfo, error) {
	if name == "" {
		return p.Cores[0], nil
	}
	for _, ci := range p.Cores {
		if strings.EqualFold(ci.Name, name) {
			return ci, nil
		}
	}
	return CoreInfo{}, errors.NotFoundf("core %q of %s", name, p.Name)
}

// NewTarget binds a core of the part to the link of its access port.
func (p *Part) NewTarget(core string, link common.Link) (*Target, error) {
	ci, err := p.Core(core)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Target{
		name: fmt.Sprintf("%s/%s", p.Name, ci.Name),
		core: p.newCore(ci, link),
		mm:   p.mm,
	}, nil
}

// Target is a core of a part with the memory map of the part.
type Target struct {
	name string
	core cortex.Control
	mm   *memmap.Map
	slot loader.Slot
}

var _ loader.Target = (*Target)(nil)

func (t *Target) Name() string {
	return t.name
}

func (t *Target) Core() cortex.Control {
	return t.core
}

func (t *Target) MemoryMap() *memmap.Map {
	return t.mm
}

func (t *Target) FlashSlot() *loader.Slot {
	return &t.slot
}

const (
	mainFlashStart = 0x10000000
	blockSize      = 0x200
)

func rom() *memmap.Region {
	return memmap.ROM("rom", 0x00000000, 0x20000)
}

func sram() *memmap.Region {
	return memmap.RAM("sram", 0x08000000, 0x10000)
}

func flash(name string, start, length uint32, a *algo.Algorithm, opts ...memmap.Option) *memmap.Region {
	opts = append([]memmap.Option{memmap.ErasedByte(0), memmap.WithFactory(NewFlash)}, opts...)
	return memmap.Flash(name, start, length, blockSize, a, opts...)
}

func entryCores(mainEnd uint32) func(ci CoreInfo, link common.Link) cortex.Control {
	return func(ci CoreInfo, link common.Link) cortex.Control {
		vtbase := regVTBaseCM0
		if ci.Name == "cm4" {
			vtbase = regVTBaseCM4
		}
		return NewEntryCore(ci.Name, link, vtbase, mainFlashStart, mainEnd)
	}
}

func secureCore(ci CoreInfo, link common.Link) cortex.Control {
	return NewSecureCore(ci.Name, link, ci.Name == "cm4")
}

var (
	CY8C6xxA = &Part{
		Name:        "cy8c6xxa",
		Description: "PSoC 62/63 with 2 MB flash",
		Cores:       []CoreInfo{{"cm0", 1}, {"cm4", 2}},
		mm: memmap.MustNew(
			rom(),
			flash("main", mainFlashStart, 0x200000, AlgoCY8C6xxAMain, memmap.Boot()),
			flash("work", 0x14000000, 0x8000, AlgoCY8C6xxAWork),
			flash("sflash", 0x16000000, 0x8000, AlgoCY8C6xxASFlash, memmap.NotTestable(), memmap.NoMassErase()),
			sram(),
		),
		newCore: entryCores(mainFlashStart + 0x200000),
	}

	// The main flash algorithm of the 2 MB parts also drives the 1 MB ones.
	CY8C6xx7 = &Part{
		Name:        "cy8c6xx7",
		Description: "PSoC 62/63 with 1 MB flash",
		Cores:       []CoreInfo{{"cm0", 1}, {"cm4", 2}},
		mm: memmap.MustNew(
			rom(),
			flash("main", mainFlashStart, 0x100000, AlgoCY8C6xxAMain, memmap.Boot()),
			flash("work", 0x14000000, 0x8000, AlgoCY8C6xx7Work),
			sram(),
		),
		newCore: entryCores(mainFlashStart + 0x100000),
	}

	cy8c64xxMap = memmap.MustNew(
		rom(),
		flash("main", mainFlashStart, 0x100000, AlgoCY8C6xxAMain, memmap.Boot()),
		flash("work", 0x14000000, 0x8000, AlgoCY8C6xx7Work),
		sram(),
	)

	CY8C64xxCM0 = &Part{
		Name:        "cy8c64xx_cm0",
		Description: "PSoC 64 secure, CM0+",
		Cores:       []CoreInfo{{"cm0", 1}},
		mm:          cy8c64xxMap,
		secure:      true,
		newCore:     secureCore,
	}

	CY8C64xxCM4 = &Part{
		Name:        "cy8c64xx_cm4",
		Description: "PSoC 64 secure, CM4",
		Cores:       []CoreInfo{{"cm4", 2}},
		mm:          cy8c64xxMap,
		secure:      true,
		newCore:     secureCore,
	}
)

var Parts = []*Part{CY8C6xxA, CY8C6xx7, CY8C64xxCM0, CY8C64xxCM4}

// Lookup finds a part by name, case insensitive.
func Lookup(name string) (*Part, error) {
	for _, p := range Parts {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	var names []string
	for _, p := range Parts {
		names = append(names, p.Name)
	}
	return nil, errors.NotFoundf("part %q (supported: %s)", name, strings.Join(names, ", "))
}
