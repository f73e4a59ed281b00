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
package common

import (
	"context"
)

type TargetMemReader interface {
	// ReadTargetReg reads a single 32-bit word from the target (handy for reading registers).
	ReadTargetReg(ctx context.Context, addr uint32) (uint32, error)
	// ReadTargetMem reads length words at the specified address in the target's memory.
	// addr must be word-aligned.
	ReadTargetMem(ctx context.Context, addr uint32, length int) ([]uint32, error)
	// ReadTargetMem8 reads length bytes at the specified address, no alignment requirements.
	ReadTargetMem8(ctx context.Context, addr uint32, length int) ([]byte, error)
}

type TargetMemWriter interface {
	// WriteTargetReg writes a single 32-bit word to the target.
	WriteTargetReg(ctx context.Context, addr uint32, value uint32) error
	// WriteTargetMem writes data at the specified address to the target's memory.
	// addr must be word-aligned.
	WriteTargetMem(ctx context.Context, addr uint32, data []uint32) error
	// WriteTargetMem8 writes bytes at the specified address, no alignment requirements.
	WriteTargetMem8(ctx context.Context, addr uint32, data []byte) error
}

type TargetMemReaderWriter interface {
	TargetMemReader
	TargetMemWriter
}

// Link is the transaction layer a core is driven through.
type Link interface {
	TargetMemReaderWriter

	// Flush commits queued transactions and returns the first pending transfer error, if any.
	// Sticky error state is cleared either way.
	Flush(ctx context.Context) error
	// ReconnectDP re-initializes the debug port and powers up the debug domain.
	// Resets drop the connection, this brings it back.
	ReconnectDP(ctx context.Context) error
	// HardwareReset pulses the nRESET line.
	HardwareReset(ctx context.Context) error
}
