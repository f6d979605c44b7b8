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
package macro

import (
	"fmt"

	"github.com/quill-lang/quill/pkg/ir"
)

// Kind distinguishes the three macro protocols.
type Kind uint8

const (
	// Substituting macros are invoked with their (already expanded) argument
	// nodes, and their call node is replaced by whatever they return.
	Substituting Kind = iota
	// Special macros additionally receive the expansion context as an
	// implicit first argument, letting them reconfigure the traversal (add to
	// the "use" list, toggle flags, change the recursion limit).
	Special
	// Contextual macros additionally receive their own call node (still
	// attached to the tree) as an implicit first argument, giving access to
	// its ancestors and siblings for navigation-based side effects.
	Contextual
)

func (k Kind) String() string {
	switch k {
	case Substituting:
		return "substituting"
	case Special:
		return "special"
	case Contextual:
		return "contextual"
	}
	//
	return "unknown"
}

// SubstitutingBody is the callable behind a substituting macro.  Returning a
// nil node (without an error) is the absence-of-value sentinel.
type SubstitutingBody func(args []ir.Node) (ir.Node, error)

// SpecialBody is the callable behind a special macro.
type SpecialBody func(ctx *Context, args []ir.Node) (ir.Node, error)

// ContextualBody is the callable behind a contextual macro.
type ContextualBody func(call *ir.Call, args []ir.Node) (ir.Node, error)

// invoker is the uniform invocation strategy applied to any macro kind.  It
// is selected once at definition time, so that no per-call dispatch over the
// kind is required.
type invoker func(ctx *Context, call *ir.Call, args []ir.Node) (ir.Node, error)

// Definition describes one macro: where it is defined, what call shape it
// matches and how to invoke its host-level body.  Definitions must be
// registered before any unit invoking them is expanded.
type Definition struct {
	// Module this macro is defined in.
	Module string
	// Unqualified name of this macro.
	Name string
	// Number of declared parameters.  For a variadic macro this is the
	// minimum number of arguments.
	Arity int
	// Variadic indicates this macro accepts any number of arguments beyond
	// Arity.
	Variadic bool
	// Protocol of this macro.
	kind Kind
	// Invocation strategy, fixed at construction.
	invoke invoker
}

// NewSubstituting defines a substituting macro.
func NewSubstituting(module string, name string, arity int, variadic bool, body SubstitutingBody) *Definition {
	return &Definition{
		Module: module, Name: name, Arity: arity, Variadic: variadic,
		kind: Substituting,
		invoke: func(_ *Context, _ *ir.Call, args []ir.Node) (ir.Node, error) {
			return body(args)
		},
	}
}

// NewSpecial defines a special macro.
func NewSpecial(module string, name string, arity int, variadic bool, body SpecialBody) *Definition {
	return &Definition{
		Module: module, Name: name, Arity: arity, Variadic: variadic,
		kind: Special,
		invoke: func(ctx *Context, _ *ir.Call, args []ir.Node) (ir.Node, error) {
			return body(ctx, args)
		},
	}
}

// NewContextual defines a contextual macro.
func NewContextual(module string, name string, arity int, variadic bool, body ContextualBody) *Definition {
	return &Definition{
		Module: module, Name: name, Arity: arity, Variadic: variadic,
		kind: Contextual,
		invoke: func(_ *Context, call *ir.Call, args []ir.Node) (ir.Node, error) {
			return body(call, args)
		},
	}
}

// Kind returns the protocol of this macro.
func (p *Definition) Kind() Kind {
	return p.kind
}

// QualifiedName returns the module-qualified name of this macro.
func (p *Definition) QualifiedName() string {
	return fmt.Sprintf("%s.%s", p.Module, p.Name)
}

// Matches checks whether this definition accepts a given number of arguments.
func (p *Definition) Matches(arity int) bool {
	if p.Variadic {
		return arity >= p.Arity
	}
	//
	return arity == p.Arity
}

// String returns a human-readable identification of this definition, e.g.
// for ambiguity diagnostics.
func (p *Definition) String() string {
	suffix := ""
	if p.Variadic {
		suffix = "+"
	}
	//
	return fmt.Sprintf("%s/%d%s", p.QualifiedName(), p.Arity, suffix)
}
