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
	"bytes"
	"encoding/binary"
)

// ToWords converts data to little-endian words, padding the last one with padWith.
func ToWords(data []byte, padWith byte) []uint32 {
	if len(data)%4 != 0 {
		data2 := make([]byte, (len(data)+3) & ^3)
		copy(data2, data)
		for i := len(data); i < len(data2); i++ {
			data2[i] = padWith
		}
		data = data2
	}
	words := make([]uint32, len(data)/4)
	binary.Read(bytes.NewReader(data), binary.LittleEndian, words)
	return words
}

// ToBytes is the inverse of ToWords.
func ToBytes(words []uint32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(words)*4))
	binary.Write(buf, binary.LittleEndian, words)
	return buf.Bytes()
}
