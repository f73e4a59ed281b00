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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestToWords(t *testing.T) {
	assert.Equal(t, []uint32{0x04030201}, ToWords([]byte{1, 2, 3, 4}, 0))
	assert.Equal(t, []uint32{0x04030201, 0xffff0605}, ToWords([]byte{1, 2, 3, 4, 5, 6}, 0xff))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 0xff, 0xff}, ToBytes(ToWords([]byte{1, 2, 3, 4, 5, 6}, 0xff)))
	assert.Empty(t, ToWords(nil, 0))
}

func TestErrorKinds(t *testing.T) {
	err := errors.Annotatef(NewTransferError("read", 0x1000, errors.New("fault")), "failed to read DHCSR")
	assert.True(t, IsTransferError(err))
	assert.False(t, IsAlgorithmError(err))
	assert.Contains(t, err.Error(), "read 0x00001000: transfer failed: fault")

	err = errors.Annotatef(NewAlgorithmError("EraseSector", 5), "failed to erase sector @ 0x%x", 0x14000000)
	assert.True(t, IsAlgorithmError(err))
	code, ok := AlgorithmCode(err)
	assert.True(t, ok)
	assert.Equal(t, uint32(5), code)

	err = errors.Trace(GeometryErrorf(0x14000001, 4, "not page-aligned"))
	assert.True(t, IsGeometryError(err))
	assert.False(t, IsTransferError(err))

	assert.True(t, IsAcquisitionError(errors.Trace(&AcquisitionError{})))
}
