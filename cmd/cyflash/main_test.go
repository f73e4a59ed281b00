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
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/marcinbor85/gohex"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/common/multierror"
	"github.com/mongoose-os/cyflash/common/ourutil"
	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/loader"
	"github.com/mongoose-os/cyflash/version"
)

// setFlags sets command line flags for the duration of the test.
func setFlags(t *testing.T, values map[string]string) {
	t.Helper()
	for name, v := range values {
		f := flag.Lookup(name)
		require.NotNil(t, f, name)
		require.NoError(t, flag.Set(name, v), name)
	}
	t.Cleanup(func() {
		for name := range values {
			f := flag.Lookup(name)
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
}

func quiet(t *testing.T) *bytes.Buffer {
	out := &bytes.Buffer{}
	old := ourutil.Output
	ourutil.Output = out
	t.Cleanup(func() { ourutil.Output = old })
	return out
}

func TestParseUint32(t *testing.T) {
	for s, want := range map[string]uint32{
		"0x10000000":  0x10000000,
		"0x1000_0000": 0x10000000,
		"4096":        4096,
		"0o10":        8,
	} {
		v, err := parseUint32("address", s)
		if assert.NoError(t, err, s) {
			assert.Equal(t, want, v, s)
		}
	}
	for _, s := range []string{"", "x", "0x100000000", "-1"} {
		_, err := parseUint32("address", s)
		assert.Error(t, err, s)
	}
}

func TestParseHex(t *testing.T) {
	mem := gohex.NewMemory()
	require.NoError(t, mem.AddBinary(0x10000000, []byte{1, 2, 3, 4}))
	require.NoError(t, mem.AddBinary(0x16000800, []byte{5, 6}))
	var buf bytes.Buffer
	require.NoError(t, mem.DumpIntelHex(&buf, 16))

	segs, err := parseHex(&buf)
	require.NoError(t, err)
	assert.Equal(t, []segment{
		{addr: 0x10000000, data: []byte{1, 2, 3, 4}},
		{addr: 0x16000800, data: []byte{5, 6}},
	}, segs)

	_, err = parseHex(bytes.NewBufferString(":00000001FF\n"))
	assert.Error(t, err)
	_, err = parseHex(bytes.NewBufferString("garbage"))
	assert.Error(t, err)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "app.bin")
	require.NoError(t, ioutil.WriteFile(bin, []byte{0xaa, 0xbb}, 0644))
	segs, err := loadImage(bin, 0x10001000)
	require.NoError(t, err)
	assert.Equal(t, []segment{{addr: 0x10001000, data: []byte{0xaa, 0xbb}}}, segs)

	hex := filepath.Join(dir, "app.HEX")
	require.NoError(t, saveData(hex, 0x14000000, []byte{1, 2, 3}))
	segs, err = loadImage(hex, 0)
	require.NoError(t, err)
	assert.Equal(t, []segment{{addr: 0x14000000, data: []byte{1, 2, 3}}}, segs)

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, ioutil.WriteFile(empty, nil, 0644))
	_, err = loadImage(empty, 0)
	assert.Error(t, err)
	_, err = loadImage(filepath.Join(dir, "missing.bin"), 0)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestHexDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, hexDump(&buf, 0x08000000, []byte("0123456789abcdefXY\x00")))
	assert.Equal(t,
		"08000000: 30 31 32 33 34 35 36 37  38 39 61 62 63 64 65 66  |0123456789abcdef|\n"+
			"08000010: 58 59 00                                          |XY.|\n",
		buf.String())
}

func TestCheckArgs(t *testing.T) {
	c := findCommand("read")
	require.NotNil(t, c)
	assert.Error(t, checkArgs(c, []string{"0x0"}))
	assert.Error(t, checkArgs(c, []string{"0x0", "4", "5"}))
	assert.NoError(t, checkArgs(c, []string{"0x0", "4"}))
	assert.NoError(t, checkArgs(findCommand("flash"), []string{"a", "b", "c"}))
	assert.Nil(t, findCommand("frobnicate"))
}

func TestSelectTarget(t *testing.T) {
	sel, err := selectTarget()
	require.NoError(t, err)
	assert.Equal(t, "cy8c6xxa", sel.part.Name)
	assert.Equal(t, loader.EraseSector, sel.opts.ChipErase)

	cfg := filepath.Join(t.TempDir(), "cyflash.yaml")
	require.NoError(t, ioutil.WriteFile(cfg, []byte(
		"target: cy8c64xx_cm4\nfrequency: 2000000\nreset_type: hw\noptions:\n  double_buffer: false\n"), 0644))
	setFlags(t, map[string]string{
		"config":  cfg,
		"options": "frequency=4000000 chip_erase=auto",
		"erase":   "chip",
	})
	sel, err = selectTarget()
	require.NoError(t, err)
	assert.Equal(t, "cy8c64xx_cm4", sel.part.Name)
	assert.Equal(t, uint32(4000000), sel.opts.Frequency)
	assert.Equal(t, cortex.ResetHardware, sel.opts.ResetType)
	assert.False(t, sel.opts.DoubleBuffer)
	assert.Equal(t, loader.EraseChip, sel.opts.ChipErase)
}

func TestSelectTargetFlagWins(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cyflash.yaml")
	require.NoError(t, ioutil.WriteFile(cfg, []byte("target: cy8c64xx_cm4\n"), 0644))
	setFlags(t, map[string]string{"config": cfg, "target": "cy8c6xx7", "core": "cm4"})
	sel, err := selectTarget()
	require.NoError(t, err)
	assert.Equal(t, "cy8c6xx7", sel.part.Name)
	assert.Equal(t, "cm4", sel.core)

	setFlags(t, map[string]string{"core": "cm7"})
	_, err = selectTarget()
	assert.Error(t, err)
}

func TestSimFlashReadErase(t *testing.T) {
	out := quiet(t)
	ctx := context.Background()
	dir := t.TempDir()
	img := make([]byte, 0x800)
	for i := range img {
		img[i] = byte(i*7 + 1)
	}
	bin := filepath.Join(dir, "app.bin")
	require.NoError(t, ioutil.WriteFile(bin, img, 0644))
	dump := filepath.Join(dir, "dump.hex")
	setFlags(t, map[string]string{
		"sim":          "true",
		"base-address": "0x10001000",
		"verify":       "true",
		"out":          dump,
	})

	dc, err := connect(ctx)
	require.NoError(t, err)
	defer dc.Close(ctx)
	require.NotNil(t, dc.sim)

	require.NoError(t, flashCmd(ctx, dc, []string{bin}))
	assert.Equal(t, img, dc.sim.Peek(0x10001000, len(img)))
	assert.Contains(t, out.String(), "Wrote 2048 bytes")

	require.NoError(t, readCmd(ctx, dc, []string{"0x10001000", "0x800"}))
	segs, err := loadImage(dump, 0)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, uint32(0x10001000), segs[0].addr)
	assert.Equal(t, img, segs[0].data)

	require.NoError(t, eraseCmd(ctx, dc, []string{"0x10001000", "0x200"}))
	assert.Equal(t, make([]byte, 0x200), dc.sim.Peek(0x10001000, 0x200))
	assert.Equal(t, img[0x200:], dc.sim.Peek(0x10001200, len(img)-0x200))

	assert.Error(t, eraseCmd(ctx, dc, []string{"nosuchregion"}))
	assert.False(t, loader.Flashing(dc.target))
}

func TestRunUnknownCommand(t *testing.T) {
	quiet(t)
	assert.Error(t, run(context.Background(), []string{"frobnicate"}))
	assert.NoError(t, run(context.Background(), []string{"version"}))
	assert.Error(t, run(context.Background(), []string{"read", "0x0"}))
}

func TestPrintVersion(t *testing.T) {
	oldID, oldVersion := version.BuildId, version.Version
	defer func() { version.BuildId, version.Version = oldID, oldVersion }()

	version.Version, version.BuildId = "1.2", "1.2+a1b2c3~bionic0"
	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf))
	assert.Contains(t, buf.String(), "Version: 1.2\n")
	assert.Contains(t, buf.String(), "Commit: a1b2c3\n")
	assert.Contains(t, buf.String(), "Distribution: bionic\n")

	version.BuildId = "dev"
	buf.Reset()
	require.NoError(t, printVersion(&buf))
	assert.NotContains(t, buf.String(), "Commit:")
}

func TestRunReportsAllArgumentProblems(t *testing.T) {
	quiet(t)
	err := run(context.Background(), []string{"read", "0x0"})
	require.Error(t, err)
	_, ok := errors.Cause(err).(*multierror.Error)
	assert.True(t, ok, "%v", err)
	assert.Contains(t, err.Error(), "not enough arguments")
}
