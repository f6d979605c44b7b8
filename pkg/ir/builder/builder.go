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

// Package builder offers a fluent construction API for IR subtrees, intended
// primarily for macro bodies.  Every node kind has a constructor here, and
// constructors compose by nesting (or chaining, for modules and functions)
// into fully formed subtrees without side effects on any existing tree.
package builder

import (
	"github.com/quill-lang/quill/pkg/ir"
)

// Constant constructs a literal constant node.
func Constant(value any) *ir.Constant {
	return ir.NewConstant(value)
}

// Reference constructs a reference to a named binding.
func Reference(name string) *ir.Reference {
	return ir.NewReference(name)
}

// Call constructs a plain call.
func Call(name string, args ...ir.Node) *ir.Call {
	return ir.NewCall(name, args...)
}

// MacroCall constructs a call carrying the explicit macro-call marker.
func MacroCall(name string, args ...ir.Node) *ir.Call {
	return ir.NewMacroCall(name, args...)
}

// Block constructs a statement block.
func Block(stmts ...ir.Node) *ir.Block {
	return ir.NewBlock(stmts...)
}

// Let constructs a statement declaring a new binding.
func Let(name string, value ir.Node) *ir.Assign {
	return ir.NewLet(name, value)
}

// Set constructs a statement updating an existing binding.
func Set(name string, value ir.Node) *ir.Assign {
	return ir.NewSet(name, value)
}

// Return constructs a return statement; passing nil gives a bare return.
func Return(value ir.Node) *ir.Return {
	return ir.NewReturn(value)
}

// Noop constructs a no-operation statement.
func Noop(comment string) *ir.Noop {
	return ir.NewNoop(comment)
}

// Toplevel constructs a composite of top-level declarations.
func Toplevel(decls ...ir.Node) *ir.ToplevelElements {
	return ir.NewToplevelElements(decls...)
}

// ============================================================================
// Function builder
// ============================================================================

// FunctionBuilder accumulates the pieces of a function declaration.
type FunctionBuilder struct {
	name     string
	params   []string
	variadic bool
}

// Function begins constructing a function declaration with given parameter
// names.
func Function(name string, params ...string) *FunctionBuilder {
	return &FunctionBuilder{name: name, params: params}
}

// Variadic marks the final parameter as collecting any remaining arguments.
func (b *FunctionBuilder) Variadic() *FunctionBuilder {
	b.variadic = true
	return b
}

// Body completes the function with a body made of the given statements.
func (b *FunctionBuilder) Body(stmts ...ir.Node) *ir.Function {
	return ir.NewFunction(b.name, b.params, b.variadic, ir.NewBlock(stmts...))
}

// ============================================================================
// Module builder
// ============================================================================

// ModuleBuilder accumulates the pieces of a compilation unit.
type ModuleBuilder struct {
	module *ir.Module
}

// Module begins constructing a compilation unit with a given name.
func Module(name string) *ModuleBuilder {
	return &ModuleBuilder{ir.NewModule(name)}
}

// Import adds imports of the given modules.
func (b *ModuleBuilder) Import(paths ...string) *ModuleBuilder {
	for _, p := range paths {
		b.module.Append(ir.NewImport(p))
	}
	//
	return b
}

// Declare adds top-level declarations.
func (b *ModuleBuilder) Declare(decls ...ir.Node) *ModuleBuilder {
	for _, d := range decls {
		b.module.Append(d)
	}
	//
	return b
}

// Done returns the constructed compilation unit.
func (b *ModuleBuilder) Done() *ir.Module {
	return b.module
}
