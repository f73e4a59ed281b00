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
package config

import (
	"os"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongoose-os/cyflash/flash/common/cortex"
	"github.com/mongoose-os/cyflash/flash/loader"
)

func TestParseResetType(t *testing.T) {
	for s, k := range map[string]cortex.ResetKind{
		"default":        cortex.ResetDefault,
		"HW":             cortex.ResetHardware,
		"hardware":       cortex.ResetHardware,
		"sw":             cortex.ResetSysResetReq,
		"Software":       cortex.ResetSysResetReq,
		"sw_sysresetreq": cortex.ResetSysResetReq,
		"sysresetreq":    cortex.ResetSysResetReq,
		"sw_vectreset":   cortex.ResetVectReset,
		"vectreset":      cortex.ResetVectReset,
		"sw_emulated":    cortex.ResetEmulated,
		" emulated ":     cortex.ResetEmulated,
	} {
		got, err := ParseResetType(s)
		require.NoError(t, err, s)
		assert.Equal(t, k, got, s)
	}
	_, err := ParseResetType("sw_core")
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}

func TestParseVectorCatch(t *testing.T) {
	for s, vc := range map[string]cortex.VectorCatch{
		"":     cortex.VC_NONE,
		"n":    cortex.VC_NONE,
		"none": cortex.VC_NONE,
		"a":    cortex.VC_ALL,
		"ALL":  cortex.VC_ALL,
		"h":    cortex.VC_HARDERR,
		"hr":   cortex.VC_HARDERR | cortex.VC_CORERESET,
		"bmiscp": cortex.VC_BUSERR | cortex.VC_MMERR | cortex.VC_INTERR | cortex.VC_STATERR |
			cortex.VC_CHKERR | cortex.VC_NOCPERR,
		"hbmiscpr": cortex.VC_ALL,
	} {
		got, err := ParseVectorCatch(s)
		require.NoError(t, err, s)
		assert.Equal(t, vc, got, s)
	}
	_, err := ParseVectorCatch("hx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'x'")
}

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.DoubleBuffer)
	require.NoError(t, o.Parse([]string{
		"reset_type=hw",
		"frequency=0x3d0900",
		"flash_algo_debug",
		"no-double_buffer",
		"chip-erase=auto",
		"connect_timeout=1.5",
		"vector_catch=hb",
		"bogus=1",
	}))
	assert.Equal(t, cortex.ResetHardware, o.ResetType)
	assert.Equal(t, uint32(4000000), o.Frequency)
	assert.True(t, o.FlashAlgoDebug)
	assert.False(t, o.DoubleBuffer)
	assert.Equal(t, loader.EraseAuto, o.ChipErase)
	assert.Equal(t, 1500*time.Millisecond, o.ConnectTimeout)
	assert.Equal(t, cortex.VC_HARDERR|cortex.VC_BUSERR, o.VectorCatch)

	lo := o.LoaderOptions()
	assert.True(t, lo.NoDoubleBuffer)
	assert.True(t, lo.Debug)
	assert.Equal(t, loader.EraseAuto, lo.Erase)
	assert.Equal(t, cortex.ResetHardware, lo.ResetKind)
	// The SWD clock is not the algorithm clock.
	assert.Zero(t, lo.Clock)

	o = DefaultOptions()
	require.NoError(t, o.Parse([]string{"flash_clock=50000000"}))
	assert.Equal(t, uint32(50000000), o.LoaderOptions().Clock)
	assert.Equal(t, uint32(1000000), o.Frequency)

	for _, bad := range []string{"frequency=fast", "flash_clock=-1", "double_buffer=maybe", "reset_type", "connect_timeout=soon", "chip_erase=all"} {
		assert.Error(t, DefaultOptions().Parse([]string{bad}), bad)
	}
}

func TestParseString(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.ParseString(`double_buffer=off connect_timeout="250ms" reset_type='sw_vectreset'`))
	assert.False(t, o.DoubleBuffer)
	assert.Equal(t, 250*time.Millisecond, o.ConnectTimeout)
	assert.Equal(t, cortex.ResetVectReset, o.ResetType)
	assert.Error(t, o.ParseString(`reset_type="hw`))
}

func TestFile(t *testing.T) {
	f, err := ParseFile([]byte(`
target: cy8c64xx_cm4
frequency: 2000000
reset_type: sw
options:
  double_buffer: false
  flash_algo_debug: yes
`))
	require.NoError(t, err)
	assert.Equal(t, "cy8c64xx_cm4", f.Target)
	o := DefaultOptions()
	require.NoError(t, f.Apply(o))
	assert.Equal(t, uint32(2000000), o.Frequency)
	assert.Equal(t, cortex.ResetSysResetReq, o.ResetType)
	assert.False(t, o.DoubleBuffer)
	assert.True(t, o.FlashAlgoDebug)

	_, err = ParseFile([]byte("targt: x\n"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TEST_MY_FLAG1": "env1",
		"TEST_MY_FLAG2": "env2",
		"TEST_MY_FLAG3": "env3",
		"TEST_COUNT":    "7",
	}
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	defer func() { lookupEnv = os.LookupEnv }()

	fs := pflag.NewFlagSet("config-test", pflag.ContinueOnError)
	var myFlag1, myFlag2, myFlag3, myFlag4 string
	var count int
	fs.StringVar(&myFlag1, "my-flag1", "def1", "")
	fs.StringVar(&myFlag2, "my-flag2", "def2", "")
	fs.StringVar(&myFlag3, "my-flag3", "def3", "")
	fs.StringVar(&myFlag4, "my-flag4", "def4", "")
	fs.IntVar(&count, "count", 1, "")
	require.NoError(t, fs.Parse([]string{"--my-flag1=cl1", "--my-flag2="}))

	set, err := ApplyEnv(fs, "TEST_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"my-flag3", "count"}, set)
	assert.Equal(t, "cl1", myFlag1)
	assert.Equal(t, "", myFlag2)
	assert.Equal(t, "env3", myFlag3)
	assert.Equal(t, "def4", myFlag4)
	assert.Equal(t, 7, count)

	env["TEST_COUNT"] = "many"
	fs = pflag.NewFlagSet("config-test", pflag.ContinueOnError)
	fs.IntVar(&count, "count", 1, "")
	require.NoError(t, fs.Parse(nil))
	_, err = ApplyEnv(fs, "TEST_")
	assert.Error(t, err)

	assert.Equal(t, "CYFLASH_BASE_ADDRESS", EnvName("base-address", EnvPrefix))
}
