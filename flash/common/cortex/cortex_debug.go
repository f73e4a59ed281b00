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
package cortex

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/mongoose-os/cyflash/flash/common"
)

// Doc: ARM v7-M Architecture Reference Manual

const (
	regCPUID    uint32 = 0xE000ED00
	regVTOR     uint32 = 0xE000ED08
	regAIRCR    uint32 = 0xE000ED0C
	regAIRCRKey uint32 = 0x05FA0000
	regDFSR     uint32 = 0xE000ED30

	regDHCSR    uint32 = 0xE000EDF0
	regDHCSRKey uint32 = 0xA05F0000
	regDCRSR    uint32 = 0xE000EDF4
	regDCRDR    uint32 = 0xE000EDF8
	regDEMCR    uint32 = 0xE000EDFC
	regPID0     uint32 = 0xE000EFE0

	regFPCtrl  uint32 = 0xE0002000
	regFPComp0 uint32 = 0xE0002008
)

// DHCSR bits.
const (
	C_DEBUGEN  = 1 << 0
	C_HALT     = 1 << 1
	C_STEP     = 1 << 2
	C_MASKINTS = 1 << 3
	S_REGRDY   = 1 << 16
	S_HALT     = 1 << 17
	S_SLEEP    = 1 << 18
	S_LOCKUP   = 1 << 19
	S_RETIRE   = 1 << 24
	S_RESET_ST = 1 << 25
)

// AIRCR bits.
const (
	aircrVectReset   = 1 << 0
	aircrSysResetReq = 1 << 2
)

const dcrsrWrite = 1 << 16

// XPSR_THUMB is the only bit of xPSR that must be set for the core to execute.
const XPSR_THUMB = 0x01000000

// VectorCatch is the set of DEMCR vector catch bits.
type VectorCatch uint32

const (
	VC_CORERESET VectorCatch = 1 << 0
	VC_MMERR     VectorCatch = 1 << 4
	VC_NOCPERR   VectorCatch = 1 << 5
	VC_CHKERR    VectorCatch = 1 << 6
	VC_STATERR   VectorCatch = 1 << 7
	VC_BUSERR    VectorCatch = 1 << 8
	VC_INTERR    VectorCatch = 1 << 9
	VC_HARDERR   VectorCatch = 1 << 10

	VC_NONE VectorCatch = 0
	VC_ALL              = VC_CORERESET | VC_MMERR | VC_NOCPERR | VC_CHKERR | VC_STATERR | VC_BUSERR | VC_INTERR | VC_HARDERR
)

const demcrTRCENA = 1 << 24

type RegFile struct {
	R    [16]uint32
	XPSR uint32
	MSP  uint32
	PSP  uint32
}

// Core register numbers as used by DCRSR.
const (
	SP   = 13 // SP is an alias for R13
	LR   = 14 // LR is an alias for R14
	PC   = 15 // PC is an alias for R15
	XPSR = 16
	MSP  = 17
	PSP  = 18
)

// RegisterIndex maps a register name (r0-r15, sp, lr, pc, xpsr, msp, psp) to its number.
func RegisterIndex(name string) (int, error) {
	name = strings.ToLower(name)
	switch name {
	case "sp":
		return SP, nil
	case "lr":
		return LR, nil
	case "pc":
		return PC, nil
	case "xpsr":
		return XPSR, nil
	case "msp":
		return MSP, nil
	case "psp":
		return PSP, nil
	}
	var n int
	if _, err := fmt.Sscanf(name, "r%d", &n); err == nil && n >= 0 && n < 16 && name == fmt.Sprintf("r%d", n) {
		return n, nil
	}
	return 0, errors.NotFoundf("register %q", name)
}

func TargetName(cpuid, pid0 uint32) string {
	glog.V(1).Infof("CPUID: 0x%08x, PID0: 0x%08x", cpuid, pid0)
	vendorno := cpuid >> 24
	vendor := ""
	switch vendorno {
	case 0x41:
		vendor = "ARM"
	}
	patch := cpuid & 0xf
	partno := (cpuid >> 4) & 0xfff
	rev := (cpuid >> 20) & 0xf
	part := ""
	switch partno {
	case 0xc20:
		part = "Cortex-M0"
	case 0xc60:
		part = "Cortex-M0+"
	case 0xc21:
		part = "Cortex-M1"
	case 0xc23:
		part = "Cortex-M3"
	case 0xc24:
		part = "Cortex-M4"
	case 0xc27:
		part = "Cortex-M7"
	}
	fpu := ""
	if pid0 == 0xc {
		fpu = "F"
	}
	return fmt.Sprintf("%s %s%s r%dp%d", vendor, part, fpu, rev, patch)
}

// IsCortexM reports whether cpuid belongs to an M-profile ARM core.
func IsCortexM(cpuid uint32) bool {
	if cpuid>>24 != 0x41 {
		return false
	}
	switch (cpuid >> 4) & 0xfff {
	case 0xc20, 0xc60, 0xc21, 0xc23, 0xc24, 0xc27:
		return true
	}
	return false
}

func GetTargetName(ctx context.Context, tmrw common.TargetMemReader) (string, error) {
	cpuid, err := tmrw.ReadTargetReg(ctx, regCPUID)
	if err != nil {
		return "", errors.Annotatef(err, "failed to get CPUID")
	}
	pid0, err := tmrw.ReadTargetReg(ctx, regPID0)
	if err != nil {
		return "", errors.Annotatef(err, "failed to get PID0")
	}
	return TargetName(cpuid, pid0), nil
}

func (r RegFile) String() string {
	return fmt.Sprintf(
		"[R0=0x%x R1=0x%x R2=0x%x R3=0x%x R4=0x%x R5=0x%x R6=0x%x R7=0x%x "+
			"R8=0x%x R9=0x%x R10=0x%x R11=0x%x R12=0x%x SP=0x%x LR=0x%x PC=0x%x xPSR=0x%x MSP=0x%x PSP=0x%x]",
		r.R[0], r.R[1], r.R[2], r.R[3], r.R[4], r.R[5], r.R[6], r.R[7], r.R[8], r.R[9], r.R[10], r.R[11], r.R[12],
		r.R[SP], r.R[LR], r.R[PC], r.XPSR, r.MSP, r.PSP)
}

// State is the run state of a core, as seen in DHCSR.
type State int

const (
	StateUnknown State = iota
	StateReset
	StateHalted
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateHalted:
		return "halted"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

type ResetKind int

const (
	// ResetDefault selects the core's default reset kind.
	ResetDefault ResetKind = iota
	ResetHardware
	ResetSysResetReq
	ResetVectReset
	ResetEmulated
)

func (k ResetKind) String() string {
	switch k {
	case ResetDefault:
		return "default"
	case ResetHardware:
		return "hw"
	case ResetSysResetReq:
		return "sw_sysresetreq"
	case ResetVectReset:
		return "sw_vectreset"
	case ResetEmulated:
		return "sw_emulated"
	}
	return fmt.Sprintf("ResetKind(%d)", int(k))
}

// Event is delivered to listeners around resets and runs.
type Event int

const (
	EventPreReset Event = iota
	EventPostReset
	EventPreRun
	EventPostRun
)

func (e Event) String() string {
	switch e {
	case EventPreReset:
		return "pre-reset"
	case EventPostReset:
		return "post-reset"
	case EventPreRun:
		return "pre-run"
	case EventPostRun:
		return "post-run"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

type Listener func(ev Event)
