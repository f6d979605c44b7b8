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
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quill-lang/quill/pkg/ir"
	"github.com/quill-lang/quill/pkg/macro"
	"github.com/quill-lang/quill/pkg/util/source"
)

// CompiledUnit is the result of successfully compiling one source file up to
// (and including) macro expansion.
type CompiledUnit struct {
	// Fully expanded compilation unit.
	Module *ir.Module
	// Snapshots of the unit at each stage of compilation.
	Checkpoints macro.Checkpoints
	// Originating source file.
	SourceFile *source.File
}

// Compiler drives compilation of source files through parsing, translation
// and macro expansion.  A compiler is safe for use across units: each unit
// gets its own expansion context, whilst the registry is shared read-only.
type Compiler struct {
	registry *macro.Registry
	config   Config
}

// NewCompiler constructs a compiler around a given macro registry.
func NewCompiler(registry *macro.Registry) *Compiler {
	return &Compiler{registry, Config{}}
}

// WithConfig sets the project-level configuration to apply to every unit.
func (c *Compiler) WithConfig(config Config) *Compiler {
	c.config = config
	return c
}

// CompileSourceFile compiles a single source file.  Returned errors are
// either syntax errors (from parsing or translation) or expansion faults;
// all are fatal and none are retried.
func (c *Compiler) CompileSourceFile(srcfile *source.File) (*CompiledUnit, []error) {
	unit, syntaxErrors := Translate(srcfile)
	if len(syntaxErrors) > 0 {
		errors := make([]error, len(syntaxErrors))
		for i := range syntaxErrors {
			errors[i] = &syntaxErrors[i]
		}
		//
		return nil, errors
	}
	//
	compiled := &CompiledUnit{unit.Module, macro.Checkpoints{}, srcfile}
	compiled.Checkpoints.Record(macro.AsParsed, unit.Module)
	// Each unit expands in its own context.
	ctx := macro.NewContext()
	c.config.apply(ctx)
	//
	log.Debugf("expanding unit %s (limit %d)", unit.Module.Name, ctx.RecursionLimit())
	//
	expander := macro.NewExpander(c.registry, ctx)
	if err := expander.ExpandUnit(unit.Module, unit.ModuleMacros); err != nil {
		return nil, []error{err}
	}
	//
	compiled.Checkpoints.Record(macro.PostExpansion, unit.Module)
	// Enforce the output contract before lowering.
	if errors := macro.VerifyExpanded(unit.Module); len(errors) > 0 {
		return nil, errors
	}
	//
	compiled.Checkpoints.Record(macro.PreLowering, unit.Module)
	//
	return compiled, nil
}

// CompileSourceFiles compiles a set of source files, one unit per file.
// Units are independent (macros defined by a unit are never visible to its
// own expansion) and hence compile in parallel.  Results retain the order of
// the given files, and errors from all units are accumulated.
func (c *Compiler) CompileSourceFiles(srcfiles []*source.File) ([]*CompiledUnit, []error) {
	var (
		wg       sync.WaitGroup
		units    = make([]*CompiledUnit, len(srcfiles))
		failures = make([][]error, len(srcfiles))
	)
	//
	for i, srcfile := range srcfiles {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			units[i], failures[i] = c.CompileSourceFile(srcfile)
		}()
	}
	//
	wg.Wait()
	//
	var errors []error
	for _, errs := range failures {
		errors = append(errors, errs...)
	}
	//
	if len(errors) > 0 {
		return nil, errors
	}
	//
	return units, nil
}

// CompileFiles reads and compiles a given set of files from disk.
func CompileFiles(registry *macro.Registry, config Config, filenames ...string) ([]*CompiledUnit, []error) {
	srcfiles, err := source.ReadFiles(filenames...)
	if err != nil {
		return nil, []error{err}
	}
	//
	return NewCompiler(registry).WithConfig(config).CompileSourceFiles(srcfiles)
}
