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
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/golang/glog"
)

// Output is where user-facing lines go.
var Output io.Writer = os.Stderr

func Reportf(f string, args ...interface{}) {
	fmt.Fprintf(Output, f+"\n", args...)
	glog.Infof(f, args...)
}

func Freportf(logFile io.Writer, f string, args ...interface{}) {
	fmt.Fprintf(logFile, f+"\n", args...)
	glog.Infof(f, args...)
}

// Warnf reports a non-fatal problem, in yellow if the output is a terminal.
func Warnf(f string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Output, f+"\n", args...)
	glog.Warningf(f, args...)
}

func Successf(f string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Output, f+"\n", args...)
	glog.Infof(f, args...)
}

func Errorf(f string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Output, f+"\n", args...)
	glog.Errorf(f, args...)
}

// Progress prints a single updating progress line.
type Progress struct {
	w      io.Writer
	prefix string
	width  int

	mu   sync.Mutex
	last int
	done bool
}

func NewProgress(w io.Writer, prefix string) *Progress {
	return &Progress{w: w, prefix: prefix, width: 40, last: -1}
}

// Update is suitable as a progress callback. fraction is clamped to [0, 1].
func (p *Progress) Update(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	pct := int(fraction * 100)
	if pct == p.last {
		return
	}
	p.last = pct
	n := int(fraction * float64(p.width))
	fmt.Fprintf(p.w, "\r%s [%s%s] %3d%%", p.prefix, strings.Repeat("=", n), strings.Repeat(" ", p.width-n), pct)
	glog.V(2).Infof("%s %d%%", p.prefix, pct)
	if pct == 100 {
		fmt.Fprintln(p.w)
		p.done = true
	}
}

// Finish terminates the line if it has not reached 100%.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done && p.last >= 0 {
		fmt.Fprintln(p.w)
	}
	p.done = true
}

func FirstN(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// FindNamedSubmatches returns the named groups of the first match of re in s, nil if no match.
func FindNamedSubmatches(re *regexp.Regexp, s string) map[string]string {
	matches := re.FindStringSubmatch(s)
	if matches == nil {
		return nil
	}
	result := map[string]string{}
	for i, name := range re.SubexpNames() {
		if i != 0 && name != "" {
			result[name] = matches[i]
		}
	}
	return result
}
