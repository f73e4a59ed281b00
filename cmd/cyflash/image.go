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

package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/marcinbor85/gohex"
)

// segment is a contiguous piece of an image.
type segment struct {
	addr uint32
	data []byte
}

func parseUint32(what, s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 32)
	if err != nil {
		return 0, errors.NotValidf("%s %q", what, s)
	}
	return uint32(v), nil
}

func isHex(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex":
		return true
	}
	return false
}

// loadImage reads an Intel HEX file or a raw binary to be placed at base.
func loadImage(path string, base uint32) ([]segment, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !isHex(path) {
		if len(data) == 0 {
			return nil, errors.Errorf("%s is empty", path)
		}
		return []segment{{addr: base, data: data}}, nil
	}
	segs, err := parseHex(bytes.NewReader(data))
	return segs, errors.Annotatef(err, "%s", path)
}

func parseHex(r io.Reader) ([]segment, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, errors.Annotatef(err, "invalid Intel HEX")
	}
	var res []segment
	for _, ds := range mem.GetDataSegments() {
		if len(ds.Data) == 0 {
			continue
		}
		res = append(res, segment{addr: ds.Address, data: ds.Data})
	}
	if len(res) == 0 {
		return nil, errors.Errorf("no data")
	}
	return res, nil
}

// saveData writes data read from addr. "-" prints a hex dump to stdout.
func saveData(path string, addr uint32, data []byte) error {
	if path == "-" {
		return errors.Trace(hexDump(os.Stdout, addr, data))
	}
	if isHex(path) {
		mem := gohex.NewMemory()
		if err := mem.AddBinary(addr, data); err != nil {
			return errors.Trace(err)
		}
		f, err := os.Create(path)
		if err != nil {
			return errors.Trace(err)
		}
		if err := mem.DumpIntelHex(f, 16); err != nil {
			f.Close()
			return errors.Trace(err)
		}
		return errors.Trace(f.Close())
	}
	return errors.Trace(ioutil.WriteFile(path, data, 0644))
}

func hexDump(w io.Writer, addr uint32, data []byte) error {
	for off := 0; off < len(data); off += 16 {
		line := data[off:]
		if len(line) > 16 {
			line = line[:16]
		}
		var hx, asc strings.Builder
		for i := 0; i < 16; i++ {
			if i == 8 {
				hx.WriteByte(' ')
			}
			if i >= len(line) {
				hx.WriteString("   ")
				continue
			}
			fmt.Fprintf(&hx, " %02x", line[i])
			if c := line[i]; c >= 0x20 && c < 0x7f {
				asc.WriteByte(c)
			} else {
				asc.WriteByte('.')
			}
		}
		if _, err := fmt.Fprintf(w, "%08x:%s  |%s|\n", addr+uint32(off), hx.String(), asc.String()); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
