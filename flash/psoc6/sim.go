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
	"time"

	"github.com/mongoose-os/cyflash/flash/common/sim"
	"github.com/mongoose-os/cyflash/flash/memmap"
)

// Sim is a simulated part: the memory map, the flash algorithms, the vector
// table base registers and, on secure parts, the boot code listen window.
type Sim struct {
	*sim.Target

	// ListenWindow is how long after a reset the boot code accepts a test mode request.
	ListenWindow time.Duration

	secure  bool
	resetAt time.Time
	ipc2    uint32
	tstCtrl uint32
	cm4Pwr  uint32
}

// Initial stack pointer and entry point of the simulated application.
const (
	SimStack = 0x08010000
	SimEntry = mainFlashStart + 0x400
)

// NewSim builds a simulated part with an application vector table at the
// start of main flash.
func (p *Part) NewSim() *Sim {
	s := &Sim{
		Target:       sim.New(),
		ListenWindow: 200 * time.Millisecond,
		secure:       p.secure,
		resetAt:      time.Now(),
		cm4Pwr:       1,
	}
	seen := map[uint32]bool{}
	for _, r := range p.mm.Regions() {
		switch r.Kind {
		case memmap.KindFlash:
			s.AddFlash(r.Name, r.Start, r.Length, r.BlockSize, r.ErasedByte)
			a := r.Algo
			if !seen[a.PCInit] {
				seen[a.PCInit] = true
				s.InstallRoutines(sim.Routines{
					Init:        a.PCInit,
					UnInit:      a.PCUnInit,
					EraseAll:    a.PCEraseAll,
					EraseSector: a.PCEraseSector,
					ProgramPage: a.PCProgramPage,
				})
			}
		default:
			s.AddRAM(r.Name, r.Start, r.Length)
		}
	}
	s.ResetVectorTable = mainFlashStart
	s.Poke(mainFlashStart, sim.WordsLE(SimStack, SimEntry|1))
	s.PokeWord(regVTBaseCM0, mainFlashStart)
	s.PokeWord(regVTBaseCM4, mainFlashStart)
	if s.secure {
		s.AddPeripheral(regIPC2Data, sim.Peripheral{
			Read:  func() uint32 { return s.ipc2 },
			Write: func(v uint32) { s.ipc2 = v },
		})
		s.AddPeripheral(regTstCtrl, sim.Peripheral{
			Read:  func() uint32 { return s.tstCtrl },
			Write: s.writeTstCtrl,
		})
		s.AddPeripheral(regCM4PwrCtl, sim.Peripheral{
			Read:  func() uint32 { return s.cm4Pwr },
			Write: s.writeCM4Pwr,
		})
		s.OnReset(func(kind sim.ResetKind) {
			if kind == sim.ResetVector {
				return
			}
			s.resetAt = time.Now()
			s.tstCtrl = 0
		})
	}
	return s
}

// The boot code acknowledges a test mode request made in the listen window.
func (s *Sim) writeTstCtrl(v uint32) {
	s.tstCtrl = v
	if v&tstCtrlTestMode != 0 && time.Since(s.resetAt) < s.ListenWindow {
		s.ipc2 = acquireMagic
	}
}

func (s *Sim) writeCM4Pwr(v uint32) {
	if v&0xffff0000 == cm4PwrCtlWake&0xffff0000 {
		s.cm4Pwr = v & 0xffff
	}
}

// TestMode reports whether the test mode latch is set.
func (s *Sim) TestMode() bool {
	return s.PeekTstCtrl()&tstCtrlTestMode != 0
}

// PeekTstCtrl returns the test control register.
func (s *Sim) PeekTstCtrl() uint32 {
	return s.tstCtrl
}

// CM4Awake reports whether the CM4 power mode is "enabled".
func (s *Sim) CM4Awake() bool {
	return s.cm4Pwr&cm4PwrModeMask == cm4PwrModeMask
}
