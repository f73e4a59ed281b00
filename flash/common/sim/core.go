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
package sim

import (
	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
)

func (t *Target) readWord(addr uint32) uint32 {
	switch {
	case addr == regCPUID:
		return t.CPUID
	case addr == regVTOR:
		return t.vtor
	case addr == regDFSR:
		if t.halted {
			return 1 << 1 // BKPT
		}
		return 0
	case addr == regDHCSR:
		v := uint32(sRegRdy)
		if t.debugEn {
			v |= cDebugEn
		}
		if t.halted {
			v |= cHalt | sHalt
		}
		if t.maskInts {
			v |= cMaskInts
		}
		if t.resetSticky {
			v |= sResetSt
			t.resetSticky = false
		}
		return v
	case addr == regDCRDR:
		return t.dcrdr
	case addr == regDEMCR:
		return t.demcr
	case addr == regAIRCR:
		return 0xfa050000
	case addr == regFPCtrl:
		return t.fpCtrl&1 | numFPComps<<4
	case addr >= regFPComp && addr < regFPComp+numFPComps*4:
		return t.fpComps[(addr-regFPComp)/4]
	}
	if p, ok := t.peripherals[addr]; ok && p.Read != nil {
		return p.Read()
	}
	if t.findMem(addr) == nil {
		return t.io[addr]
	}
	return t.memWord(addr)
}

func (t *Target) writeWord(addr uint32, v uint32) error {
	switch {
	case addr == regVTOR:
		t.vtor = v &^ 0x7f
		return nil
	case addr == regDHCSR:
		t.writeDHCSR(v)
		return nil
	case addr == regDCRSR:
		sel := v & 0x7f
		if v&(1<<16) != 0 {
			t.regs[sel] = t.dcrdr
		} else {
			t.dcrdr = t.regs[sel]
		}
		return nil
	case addr == regDCRDR:
		t.dcrdr = v
		return nil
	case addr == regDEMCR:
		t.demcr = v
		return nil
	case addr == regAIRCR:
		if v&0xffff0000 != vectKey {
			return nil
		}
		switch {
		case v&sysResetReq != 0:
			t.reset(ResetSystem)
		case v&vectReset != 0:
			t.reset(ResetVector)
		}
		return nil
	case addr == regFPCtrl:
		if v&2 != 0 {
			t.fpCtrl = v & 1
		}
		return nil
	case addr >= regFPComp && addr < regFPComp+numFPComps*4:
		t.fpComps[(addr-regFPComp)/4] = v
		return nil
	}
	if p, ok := t.peripherals[addr]; ok {
		if p.Write != nil {
			p.Write(v)
		}
		return nil
	}
	if t.findMem(addr) == nil {
		t.io[addr] = v
		return nil
	}
	for i := uint32(0); i < 4; i++ {
		if !t.writeByte(addr+i, byte(v>>(i*8)), false) {
			return common.NewTransferError("write", addr, errors.New("bus fault"))
		}
	}
	return nil
}

func (t *Target) writeDHCSR(v uint32) {
	if v&0xffff0000 != dbgKey {
		return
	}
	t.debugEn = v&cDebugEn != 0
	if !t.debugEn {
		t.halted = false
		return
	}
	t.maskInts = v&cMaskInts != 0
	if v&cHalt != 0 {
		if !t.halted {
			glog.V(4).Infof("sim: halted at 0x%08x", t.regs[regPC])
		}
		t.halted = true
		t.pending = nil
		return
	}
	if !t.halted {
		return
	}
	t.halted = false
	if v&cStep != 0 {
		t.regs[regPC] += 2
		t.halted = true
		return
	}
	t.run()
}

// bpMatch reports whether an enabled FPB comparator covers pc.
func (t *Target) bpMatch(pc uint32) bool {
	if t.fpCtrl&1 == 0 {
		return false
	}
	for _, c := range t.fpComps {
		if c&1 == 0 {
			continue
		}
		a := c & 0x1ffffffc
		switch c >> 30 {
		case 1:
		case 2:
			a += 2
		default:
			continue
		}
		if a == pc&^1 {
			return true
		}
	}
	return false
}

func (t *Target) reset(kind ResetKind) {
	glog.V(3).Infof("sim: %s reset", kind)
	t.resets = append(t.resets, kind)
	t.resetSticky = true
	t.pending = nil
	t.algoInit = false
	t.vtor = t.ResetVectorTable
	t.regs = map[uint32]uint32{}
	t.regs[regSP] = t.memWord(t.ResetVectorTable)
	t.regs[regPC] = t.memWord(t.ResetVectorTable+4) &^ 1
	t.regs[regXPSR] = 0x01000000
	for _, cb := range t.onReset {
		cb(kind)
	}
	switch {
	case t.debugEn && t.demcr&vcCoreReset != 0:
		t.halted = true
	case t.bpMatch(t.regs[regPC]):
		t.halted = true
	default:
		t.halted = false
	}
}
