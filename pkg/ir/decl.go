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
	"github.com/quill-lang/quill/pkg/sexp"
)

// ============================================================================
// Module
// ============================================================================

// Module represents one compilation unit: a named collection of imports and
// top-level declarations.
type Module struct {
	tree
	// Name of this compilation unit.
	Name string
}

var _ Node = (*Module)(nil)

// NewModule constructs an empty compilation unit with a given name.
func NewModule(name string) *Module {
	m := &Module{Name: name}
	m.init(m)
	//
	return m
}

// Kind returns ModuleKind.
func (p *Module) Kind() Kind { return ModuleKind }

// Imports returns the module names imported by this unit, in declaration
// order.
func (p *Module) Imports() []string {
	var imports []string
	//
	for _, c := range p.children {
		if imp, ok := c.(*Import); ok {
			imports = append(imports, imp.Path)
		}
	}
	//
	return imports
}

// Declarations returns the non-import children of this unit, in declaration
// order.
func (p *Module) Declarations() []Node {
	var decls []Node
	//
	for _, c := range p.children {
		if c.Kind() != ImportKind {
			decls = append(decls, c)
		}
	}
	//
	return decls
}

// Functions returns all function declarations in this unit, including those
// nested inside top-level groups.
func (p *Module) Functions() []*Function {
	var fns []*Function
	//
	for _, c := range p.children {
		switch d := c.(type) {
		case *Function:
			fns = append(fns, d)
		case *ToplevelElements:
			for _, e := range d.Children() {
				if fn, ok := e.(*Function); ok {
					fns = append(fns, fn)
				}
			}
		}
	}
	//
	return fns
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Module) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("module"), sexp.NewSymbol(p.Name)}
	//
	for _, c := range p.children {
		elements = append(elements, c.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Import
// ============================================================================

// Import represents an import of another module, making that module's
// definitions (including its macros) visible to the importing unit.
type Import struct {
	tree
	// Path of the imported module.
	Path string
}

var _ Node = (*Import)(nil)

// NewImport constructs an import of a given module.
func NewImport(path string) *Import {
	i := &Import{Path: path}
	i.init(i)
	//
	return i
}

// Kind returns ImportKind.
func (p *Import) Kind() Kind { return ImportKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Import) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("import"), sexp.NewSymbol(p.Path)})
}

// ============================================================================
// Function
// ============================================================================

// Function represents a function declaration.  Its sole child is the body
// block.
type Function struct {
	tree
	// Name of the declared function.
	Name string
	// Declared parameter names, in order.
	Params []string
	// Variadic indicates the final parameter collects any remaining
	// arguments.
	Variadic bool
}

var _ Node = (*Function)(nil)

// NewFunction constructs a function declaration with a given body.
func NewFunction(name string, params []string, variadic bool, body *Block) *Function {
	f := &Function{Name: name, Params: params, Variadic: variadic}
	f.init(f)
	f.Append(body)
	//
	return f
}

// Kind returns FunctionKind.
func (p *Function) Kind() Kind { return FunctionKind }

// Body returns the body block of this function.
func (p *Function) Body() *Block {
	return p.children[0].(*Block)
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Function) Lisp() sexp.SExp {
	params := make([]sexp.SExp, len(p.Params))
	//
	for i, param := range p.Params {
		if p.Variadic && i+1 == len(p.Params) {
			param = param + "..."
		}

		params[i] = sexp.NewSymbol(param)
	}
	//
	elements := []sexp.SExp{sexp.NewSymbol("defun"), sexp.NewSymbol(p.Name), sexp.NewList(params)}
	elements = append(elements, p.Body().Lisp())
	//
	return sexp.NewList(elements)
}

// ============================================================================
// ToplevelElements
// ============================================================================

// ToplevelElements is an ordered composite wrapping zero or more top-level
// declarations.  It is used when a macro must inject (or consume) more than
// one declaration at once.
type ToplevelElements struct {
	tree
}

var _ Node = (*ToplevelElements)(nil)

// NewToplevelElements constructs a composite of the given declarations.
func NewToplevelElements(decls ...Node) *ToplevelElements {
	t := &ToplevelElements{}
	t.init(t)
	//
	for _, d := range decls {
		t.Append(d)
	}
	//
	return t
}

// Kind returns ToplevelKind.
func (p *ToplevelElements) Kind() Kind { return ToplevelKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *ToplevelElements) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("toplevel")}
	//
	for _, c := range p.children {
		elements = append(elements, c.Lisp())
	}
	//
	return sexp.NewList(elements)
}
