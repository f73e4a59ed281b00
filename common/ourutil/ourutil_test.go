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
package ourutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Writing")
	p.Update(0)
	p.Update(0.001)
	p.Update(0.5)
	p.Update(2)
	p.Update(0.7)
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "\r"))
	assert.Contains(t, out, " 50%")
	assert.True(t, strings.HasSuffix(out, "100%\n"))

	buf.Reset()
	p = NewProgress(&buf, "Erasing")
	p.Finish()
	assert.Empty(t, buf.String())
	p = NewProgress(&buf, "Erasing")
	p.Update(0.3)
	p.Finish()
	p.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), " 30%\n"))
}

func TestReportf(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	defer func() { Output = old }()
	Reportf("Writing %d @ 0x%x...", 512, 0x14000000)
	Warnf("CM4 is sleeping")
	assert.Equal(t, "Writing 512 @ 0x14000000...\nCM4 is sleeping\n", buf.String())
}

func TestFindNamedSubmatches(t *testing.T) {
	re := regexp.MustCompile(`^(?P<version>[^+]+)\+(?P<hash>[0-9a-f]+)$`)
	assert.Equal(t, map[string]string{"version": "1.2", "hash": "abc1"}, FindNamedSubmatches(re, "1.2+abc1"))
	assert.Nil(t, FindNamedSubmatches(re, "1.2"))
	assert.Equal(t, "ab", FirstN("abc", 2))
	assert.Equal(t, "abc", FirstN("abc", 5))
}
