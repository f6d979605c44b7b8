// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/quill-lang/quill/pkg/macro"
)

// ConfigFilename is the well-known name of the per-project configuration
// file, looked up in the working directory and its ancestors.
const ConfigFilename = ".quill.yaml"

// Config determines project-level settings for macro expansion.  The zero
// value leaves every engine default in place; boolean settings are pointers
// so that "unset" and "false" remain distinguishable.
type Config struct {
	// Maximum nesting depth for recursive expansion (0 means the engine
	// default, which the environment may also override).
	RecursionLimit int `yaml:"recursion-limit"`
	// Whether unmarked calls are considered candidates for expansion.
	ExpandRegularCalls *bool `yaml:"expand-regular-calls"`
	// Whether expansion results are themselves re-expanded.
	ReexpandResults *bool `yaml:"reexpand-results"`
	// Modules whose macros are visible everywhere, without import.
	Use []string `yaml:"use"`
}

// configFile mirrors the on-disk layout, where macro settings live under a
// dedicated section.
type configFile struct {
	Macros Config `yaml:"macros"`
}

// ReadConfig parses a configuration file in YAML format.
func ReadConfig(path string) (Config, error) {
	var file configFile
	//
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	//
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return Config{}, err
	}
	//
	return file.Macros, nil
}

// FindConfig locates and parses the nearest configuration file, starting
// from a given directory and walking towards the root.  When no file exists,
// the zero configuration is returned.
func FindConfig(dir string) (Config, error) {
	for {
		path := filepath.Join(dir, ConfigFilename)
		//
		if _, err := os.Stat(path); err == nil {
			return ReadConfig(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
		//
		parent := filepath.Dir(dir)
		if parent == dir {
			return Config{}, nil
		}
		//
		dir = parent
	}
}

// apply installs these settings into a fresh expansion context.
func (c Config) apply(ctx *macro.Context) {
	if c.RecursionLimit > 0 {
		ctx.SetRecursionLimit(c.RecursionLimit)
	}
	//
	if c.ExpandRegularCalls != nil {
		ctx.SetExpandRegularCalls(*c.ExpandRegularCalls)
	}
	//
	if c.ReexpandResults != nil {
		ctx.SetReexpandResults(*c.ReexpandResults)
	}
	//
	ctx.Use(c.Use...)
}
