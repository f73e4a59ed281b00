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
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/juju/errors"
	yaml "gopkg.in/yaml.v2"
)

// File is the config file:
//
//	target: cy8c64xx_cm4
//	frequency: 4000000
//	reset_type: sw
//	options:
//	  double_buffer: false
type File struct {
	Target    string                 `yaml:"target,omitempty"`
	Core      string                 `yaml:"core,omitempty"`
	Frequency uint32                 `yaml:"frequency,omitempty"`
	ResetType string                 `yaml:"reset_type,omitempty"`
	Options   map[string]interface{} `yaml:"options,omitempty"`
}

func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Annotatef(err, "invalid config")
	}
	return &f, nil
}

func ReadFile(path string) (*File, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	f, err := ParseFile(data)
	return f, errors.Annotatef(err, "%s", path)
}

// Apply sets the options given in the file.
func (f *File) Apply(o *Options) error {
	if f.Frequency != 0 {
		o.Frequency = f.Frequency
	}
	if f.ResetType != "" {
		if err := o.Set("reset_type", f.ResetType); err != nil {
			return errors.Trace(err)
		}
	}
	names := make([]string, 0, len(f.Options))
	for name := range f.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := o.Set(name, fmt.Sprint(f.Options[name])); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
