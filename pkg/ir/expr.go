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
package ir

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/pkg/sexp"
)

// ============================================================================
// Call
// ============================================================================

// Call represents a call-shaped node: a (possibly module-qualified) name
// applied to an ordered sequence of argument nodes.  A call written with the
// explicit macro-call marker is Marked; a plain call may nonetheless be
// treated as a macro invocation during expansion, depending on the expansion
// context.  A trailing block argument, when present, is simply the last
// argument.
type Call struct {
	tree
	// Name of the called function or macro, possibly module-qualified (e.g.
	// "lists.map").
	Name string
	// Marked indicates the call was written with the explicit macro-call
	// marker.
	Marked bool
}

var _ Node = (*Call)(nil)

// NewCall constructs a plain call.
func NewCall(name string, args ...Node) *Call {
	return newCall(name, false, args)
}

// NewMacroCall constructs a call written with the explicit macro-call marker.
func NewMacroCall(name string, args ...Node) *Call {
	return newCall(name, true, args)
}

func newCall(name string, marked bool, args []Node) *Call {
	c := &Call{Name: name, Marked: marked}
	c.init(c)
	//
	for _, a := range args {
		c.Append(a)
	}
	//
	return c
}

// Kind returns CallKind.
func (p *Call) Kind() Kind { return CallKind }

// Args returns the ordered argument nodes of this call.
func (p *Call) Args() []Node {
	return p.children
}

// Arity returns the number of arguments at this call site.
func (p *Call) Arity() int {
	return len(p.children)
}

// Qualifier splits a module-qualified name into its module part, or returns
// the empty string for an unqualified name.
func (p *Call) Qualifier() string {
	if i := strings.LastIndex(p.Name, "."); i >= 0 {
		return p.Name[:i]
	}
	//
	return ""
}

// LocalName returns the name of this call without any module qualifier.
func (p *Call) LocalName() string {
	if i := strings.LastIndex(p.Name, "."); i >= 0 {
		return p.Name[i+1:]
	}
	//
	return p.Name
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Call) Lisp() sexp.SExp {
	name := p.Name
	if p.Marked {
		name = "&" + name
	}
	//
	elements := []sexp.SExp{sexp.NewSymbol(name)}
	//
	for _, c := range p.children {
		elements = append(elements, c.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Reference
// ============================================================================

// Reference represents a reference to a named binding.
type Reference struct {
	tree
	// Name of the referenced binding.
	Name string
}

var _ Node = (*Reference)(nil)

// NewReference constructs a reference to a given name.
func NewReference(name string) *Reference {
	r := &Reference{Name: name}
	r.init(r)
	//
	return r
}

// Kind returns ReferenceKind.
func (p *Reference) Kind() Kind { return ReferenceKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Reference) Lisp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

// ============================================================================
// Constant
// ============================================================================

// Constant represents a literal constant.  The value is one of: int64,
// float64, string, bool or nil.
type Constant struct {
	tree
	// Literal value of this constant.
	Value any
}

var _ Node = (*Constant)(nil)

// NewConstant constructs a constant with a given literal value.
func NewConstant(value any) *Constant {
	c := &Constant{Value: value}
	c.init(c)
	//
	return c
}

// Kind returns ConstantKind.
func (p *Constant) Kind() Kind { return ConstantKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Constant) Lisp() sexp.SExp {
	switch v := p.Value.(type) {
	case nil:
		return sexp.NewSymbol("nil")
	case string:
		return sexp.NewSymbol(fmt.Sprintf("%q", v))
	default:
		return sexp.NewSymbol(fmt.Sprintf("%v", v))
	}
}
