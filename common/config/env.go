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
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to flag names to get the environment variable names.
const EnvPrefix = "CYFLASH_"

var lookupEnv = os.LookupEnv

// EnvName returns the variable that overrides the flag: --base-address is CYFLASH_BASE_ADDRESS.
func EnvName(flagName, prefix string) string {
	return prefix + strings.Replace(strings.ToUpper(flagName), "-", "_", -1)
}

// ApplyEnv sets flags that were not given on the command line from the
// environment. It must be called after fs is parsed. Returns the names of the
// flags set.
func ApplyEnv(fs *pflag.FlagSet, prefix string) ([]string, error) {
	// pflag does not tell a flag set to its default from a flag not set at all.
	var nonset []*pflag.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			nonset = append(nonset, f)
		}
	})
	var res []string
	for _, f := range nonset {
		v, ok := lookupEnv(EnvName(f.Name, prefix))
		if !ok || v == "" {
			continue
		}
		if err := fs.Set(f.Name, v); err != nil {
			return res, errors.Annotatef(err, "%s", EnvName(f.Name, prefix))
		}
		res = append(res, f.Name)
	}
	return res, nil
}
