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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quill/pkg/ir"
	"github.com/quill-lang/quill/pkg/ir/builder"
	"github.com/quill-lang/quill/pkg/macro"
	"github.com/quill-lang/quill/pkg/util/source"
)

func Test_Compiler_01(t *testing.T) {
	unit := compileOk(t, testRegistry(), `
		(module main)
		(defun f () (return (twice 21)))`)
	//
	assert.Contains(t, ir.Dump(unit.Module), "(return 42)")
}

// Checkpoints record the unit before and after expansion.

func Test_Compiler_02(t *testing.T) {
	unit := compileOk(t, testRegistry(), `
		(module main)
		(defun f () (return (twice 21)))`)
	//
	parsed := unit.Checkpoints.Get(macro.AsParsed)
	expanded := unit.Checkpoints.Get(macro.PostExpansion)
	final := unit.Checkpoints.Get(macro.PreLowering)
	//
	assert.Contains(t, parsed, "(twice 21)")
	assert.Contains(t, expanded, "(return 42)")
	assert.Equal(t, expanded, final)
}

// Checkpoints are eager snapshots: later mutation of the tree must not
// retroactively change an earlier checkpoint.

func Test_Compiler_03(t *testing.T) {
	unit := compileOk(t, testRegistry(), `
		(module main)
		(defun f () (return 1))`)
	//
	before := unit.Checkpoints.Get(macro.PreLowering)
	unit.Module.Append(builder.Function("g").Body())
	//
	assert.Equal(t, before, unit.Checkpoints.Get(macro.PreLowering))
}

// Syntax errors surface as errors, not as units.

func Test_Compiler_04(t *testing.T) {
	_, errs := compile(testRegistry(), "(module main")
	require.NotEmpty(t, errs)
	//
	var syntaxError *source.SyntaxError
	assert.True(t, errors.As(errs[0], &syntaxError))
}

// Expansion faults surface with their positions intact.

func Test_Compiler_05(t *testing.T) {
	_, errs := compile(testRegistry(), "(module main)\n(defun f () (&missing))")
	require.Len(t, errs, 1)
	//
	var fault *macro.UnresolvedMacroError
	require.True(t, errors.As(errs[0], &fault))
	assert.Equal(t, 2, fault.Position().Line)
}

// A macro call injected into an already-expanded subtree is rejected by
// verification rather than silently expanded.

func Test_Compiler_06(t *testing.T) {
	registry := testRegistry()
	inject := macro.NewContextual("main", "inject", 0, false,
		func(call *ir.Call, args []ir.Node) (ir.Node, error) {
			block := call.Parent().(*ir.Block)
			block.InsertBefore(call, builder.MacroCall("twice", builder.Constant(int64(1))))
			//
			return nil, nil
		})
	require.NoError(t, registry.Register(inject))
	//
	_, errs := compile(registry, "(module main)\n(defun f () (inject))")
	require.Len(t, errs, 1)
	//
	var fault *macro.UnresolvedMacroError
	assert.True(t, errors.As(errs[0], &fault))
}

// Module-level macros (decorators on the header) run against the fully
// expanded unit.

func Test_Compiler_07(t *testing.T) {
	var observed string
	//
	registry := testRegistry()
	check := macro.NewSubstituting("main", "check", 1, false,
		func(args []ir.Node) (ir.Node, error) {
			observed = ir.Dump(args[0].(*ir.Module))
			return nil, nil
		})
	require.NoError(t, registry.Register(check))
	//
	compileOk(t, registry, "(@check (module main))\n(defun f () (return (twice 21)))")
	//
	assert.Contains(t, observed, "(return 42)")
}

// Configuration

func Test_Compiler_08(t *testing.T) {
	config := Config{RecursionLimit: 2}
	loop := macro.NewSubstituting("main", "loop", 0, false,
		func(args []ir.Node) (ir.Node, error) {
			return builder.Call("loop"), nil
		})
	//
	registry := testRegistry()
	require.NoError(t, registry.Register(loop))
	//
	srcfile := source.NewFile("test.quill", []byte("(module main)\n(defun f () (loop))"))
	_, errs := NewCompiler(registry).WithConfig(config).CompileSourceFile(srcfile)
	require.Len(t, errs, 1)
	//
	var fault *macro.RecursionLimitError
	require.True(t, errors.As(errs[0], &fault))
	assert.Equal(t, 2, fault.Limit)
}

func Test_Compiler_09(t *testing.T) {
	flag := false
	config := Config{ExpandRegularCalls: &flag}
	//
	srcfile := source.NewFile("test.quill", []byte("(module main)\n(defun f () (twice 21))"))
	unit, errs := NewCompiler(testRegistry()).WithConfig(config).CompileSourceFile(srcfile)
	require.Empty(t, errs)
	// Plain call left alone.
	assert.Contains(t, ir.Dump(unit.Module), "(twice 21)")
}

func Test_Compiler_10(t *testing.T) {
	config := Config{Use: []string{"lists"}}
	empty := macro.NewSubstituting("lists", "empty", 0, false,
		func(args []ir.Node) (ir.Node, error) {
			return builder.Constant(nil), nil
		})
	//
	registry := testRegistry()
	require.NoError(t, registry.Register(empty))
	//
	srcfile := source.NewFile("test.quill", []byte("(module main)\n(defun f () (return (empty)))"))
	unit, errs := NewCompiler(registry).WithConfig(config).CompileSourceFile(srcfile)
	require.Empty(t, errs)
	//
	assert.Contains(t, ir.Dump(unit.Module), "(return nil)")
}

func Test_Compiler_11(t *testing.T) {
	config, err := ReadConfig(writeConfig(t, `
macros:
  recursion-limit: 9
  expand-regular-calls: false
  use:
    - lists
    - sets
`))
	require.NoError(t, err)
	//
	assert.Equal(t, 9, config.RecursionLimit)
	require.NotNil(t, config.ExpandRegularCalls)
	assert.False(t, *config.ExpandRegularCalls)
	assert.Nil(t, config.ReexpandResults)
	assert.Equal(t, []string{"lists", "sets"}, config.Use)
}

// Parallel compilation: units are independent, results deterministic and in
// input order.

func Test_Compiler_12(t *testing.T) {
	var srcfiles []*source.File
	//
	for i := range 8 {
		text := fmt.Sprintf("(module m%d)\n(defun f () (return (twice %d)))", i, i)
		srcfiles = append(srcfiles, source.NewFile(fmt.Sprintf("m%d.quill", i), []byte(text)))
	}
	//
	units, errs := NewCompiler(testRegistry()).CompileSourceFiles(srcfiles)
	require.Empty(t, errs)
	require.Len(t, units, 8)
	//
	for i, unit := range units {
		assert.Equal(t, fmt.Sprintf("m%d", i), unit.Module.Name)
		assert.Contains(t, ir.Dump(unit.Module), fmt.Sprintf("(return %d)", i*2))
	}
}

// Errors from all units are accumulated.

func Test_Compiler_13(t *testing.T) {
	srcfiles := []*source.File{
		source.NewFile("a.quill", []byte("(module a")),
		source.NewFile("b.quill", []byte("(module b)\n(defun f () (&missing))")),
	}
	//
	_, errs := NewCompiler(testRegistry()).CompileSourceFiles(srcfiles)
	assert.Len(t, errs, 2)
}

// Configuration discovery walks from the given directory towards the root.

func Test_Compiler_14(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("macros:\n  recursion-limit: 4\n"), 0o600))
	//
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	//
	config, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, 4, config.RecursionLimit)
}

func Test_Compiler_15(t *testing.T) {
	// No configuration file anywhere: the zero configuration.
	config, err := FindConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Config{}, config)
}

// ============================================================================
// Helpers
// ============================================================================

// testRegistry provides the builtins plus a doubling macro in module "main",
// visible to every unit named main.
func testRegistry() *macro.Registry {
	registry := macro.NewRegistry()
	//
	twice := macro.NewSubstituting("main", "twice", 1, false,
		func(args []ir.Node) (ir.Node, error) {
			c, ok := args[0].(*ir.Constant)
			if !ok {
				return nil, fmt.Errorf("expected constant argument")
			}
			//
			i, ok := c.Value.(int64)
			if !ok {
				return nil, fmt.Errorf("expected integer argument")
			}
			//
			return builder.Constant(i * 2), nil
		})
	//
	if err := registry.Register(twice); err != nil {
		panic(err)
	}
	//
	return registry
}

func compile(registry *macro.Registry, text string) (*CompiledUnit, []error) {
	srcfile := source.NewFile("test.quill", []byte(text))
	return NewCompiler(registry).CompileSourceFile(srcfile)
}

func compileOk(t *testing.T, registry *macro.Registry, text string) *CompiledUnit {
	t.Helper()
	//
	unit, errs := compile(registry, text)
	require.Empty(t, errs)
	//
	return unit
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	//
	path := filepath.Join(t.TempDir(), ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	//
	return path
}
