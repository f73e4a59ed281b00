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
	"fmt"
	"time"

	"github.com/juju/errors"
)

// TransferError is a failed link transaction: a fault or a WAIT that never cleared,
// a dropped connection during reset. Callers retry these locally.
type TransferError struct {
	Op   string
	Addr uint32
	Err  error
}

func (e *TransferError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s 0x%08x: transfer failed", e.Op, e.Addr)
	}
	return fmt.Sprintf("%s 0x%08x: transfer failed: %s", e.Op, e.Addr, e.Err)
}

func NewTransferError(op string, addr uint32, err error) error {
	return errors.Trace(&TransferError{Op: op, Addr: addr, Err: err})
}

func IsTransferError(err error) bool {
	_, ok := errors.Cause(err).(*TransferError)
	return ok
}

// AlgorithmError is a nonzero status returned by a flash algorithm entry point.
type AlgorithmError struct {
	Func string
	Code uint32
}

func (e *AlgorithmError) Error() string {
	return fmt.Sprintf("flash algorithm %s failed (rv %d)", e.Func, e.Code)
}

func NewAlgorithmError(fn string, code uint32) error {
	return errors.Trace(&AlgorithmError{Func: fn, Code: code})
}

func IsAlgorithmError(err error) bool {
	_, ok := errors.Cause(err).(*AlgorithmError)
	return ok
}

// AlgorithmCode returns the code of the algorithm error, if err is one.
func AlgorithmCode(err error) (uint32, bool) {
	ae, ok := errors.Cause(err).(*AlgorithmError)
	if !ok {
		return 0, false
	}
	return ae.Code, true
}

// GeometryError is an address or length that violates region bounds or alignment.
// It is always returned before anything is sent to the target.
type GeometryError struct {
	Addr   uint32
	Length uint32
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid flash access (0x%08x, %d): %s", e.Addr, e.Length, e.Reason)
}

func GeometryErrorf(addr, length uint32, format string, args ...interface{}) error {
	return errors.Trace(&GeometryError{Addr: addr, Length: length, Reason: fmt.Sprintf(format, args...)})
}

func IsGeometryError(err error) bool {
	_, ok := errors.Cause(err).(*GeometryError)
	return ok
}

// AcquisitionError means the listen window elapsed without acknowledgement.
// Not fatal: the part may already be unlocked.
type AcquisitionError struct {
	Window  time.Duration
	LastErr error
}

func (e *AcquisitionError) Error() string {
	s := fmt.Sprintf("failed to acquire the target within %s", e.Window)
	if e.LastErr != nil {
		s += fmt.Sprintf(" (last error: %s)", e.LastErr)
	}
	return s
}

func IsAcquisitionError(err error) bool {
	_, ok := errors.Cause(err).(*AcquisitionError)
	return ok
}
