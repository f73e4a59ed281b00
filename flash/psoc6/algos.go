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
	"github.com/mongoose-os/cyflash/flash/algo"
)

// Progress weights of PSoC6 flash.
var Weights = algo.Weights{
	ChipErase:   0.5,
	SectorErase: 0.05,
	ProgramPage: 0.07,
}

// NewFlash is the runner factory of all PSoC6 flash regions.
func NewFlash(core algo.Core, a *algo.Algorithm) *algo.Flash {
	f := algo.NewFlash(core, a)
	f.Weights = Weights
	return f
}

const (
	algoLoadAddress = 0x08000000
	algoStack6xxA   = 0x08000d00
	algoStack6xx7   = 0x08000b00
	algoData        = algoLoadAddress + 0x1000
	pageSize        = 0x200
)

var pageBuffers = []uint32{0x08001000, 0x08001200}

var uniformSectors = []algo.Sector{{Offset: 0, Size: pageSize}}

// The CY8C6xxA algorithms share the entry points and differ in the flash they program.
func cy8c6xxaAlgo(name string, insns []uint32, staticOffset, start, size uint32) *algo.Algorithm {
	return &algo.Algorithm{
		Name:             name,
		LoadAddress:      algoLoadAddress,
		Instructions:     insns,
		PCInit:           0x08000021,
		PCUnInit:         0x08000027,
		PCProgramPage:    0x08000041,
		PCEraseSector:    0x08000035,
		PCEraseAll:       0x0800002d,
		StaticBase:       algoLoadAddress + 0x20 + staticOffset,
		BeginStack:       algoStack6xxA,
		BeginData:        algoData,
		PageBuffers:      pageBuffers,
		MinProgramLength: pageSize,
		PageSize:         pageSize,
		FlashStart:       start,
		FlashSize:        size,
		SectorSizes:      uniformSectors,
	}
}

var (
	AlgoCY8C6xxAMain   = cy8c6xxaAlgo("CY8C6xxA main", cy8c6xxaMainInsns, 0x9f4, 0x10000000, 0x200000)
	AlgoCY8C6xxAWork   = cy8c6xxaAlgo("CY8C6xxA work", cy8c6xxaWorkInsns, 0x9f8, 0x14000000, 0x8000)
	AlgoCY8C6xxASFlash = cy8c6xxaAlgo("CY8C6xxA sflash", cy8c6xxaSFlashInsns, 0xa40, 0x16000000, 0x8000)

	AlgoCY8C6xx7Work = &algo.Algorithm{
		Name:             "CY8C6xx7 work",
		LoadAddress:      algoLoadAddress,
		Instructions:     cy8c6xx7WorkInsns,
		PCInit:           0x08000221,
		PCUnInit:         0x08000225,
		PCProgramPage:    0x0800023d,
		PCEraseSector:    0x08000235,
		PCEraseAll:       0x08000229,
		StaticBase:       algoLoadAddress + 0x20 + 0x23c,
		BeginStack:       algoStack6xx7,
		BeginData:        algoData,
		PageBuffers:      pageBuffers,
		MinProgramLength: pageSize,
		PageSize:         pageSize,
		FlashStart:       0x14000000,
		FlashSize:        0x8000,
		SectorSizes:      uniformSectors,
	}
)
