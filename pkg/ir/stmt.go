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
// Block
// ============================================================================

// Block represents an ordered sequence of statements, such as a function
// body or the trailing block argument of a call.
type Block struct {
	tree
}

var _ Node = (*Block)(nil)

// NewBlock constructs a block from the given statements.
func NewBlock(stmts ...Node) *Block {
	b := &Block{}
	b.init(b)
	//
	for _, s := range stmts {
		b.Append(s)
	}
	//
	return b
}

// Kind returns BlockKind.
func (p *Block) Kind() Kind { return BlockKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Block) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(p.children))
	//
	for i, c := range p.children {
		elements[i] = c.Lisp()
	}
	//
	return sexp.NewSet(elements)
}

// ============================================================================
// Assign
// ============================================================================

// Assign represents either the declaration of a new binding (let) or the
// assignment of an existing one (set).  Its sole child is the assigned
// expression.
type Assign struct {
	tree
	// Name of the assigned binding.
	Name string
	// Declaring indicates a fresh binding is being introduced, as opposed to
	// an existing one being updated.
	Declaring bool
}

var _ Node = (*Assign)(nil)

// NewLet constructs a statement declaring a new binding.
func NewLet(name string, value Node) *Assign {
	return newAssign(name, true, value)
}

// NewSet constructs a statement updating an existing binding.
func NewSet(name string, value Node) *Assign {
	return newAssign(name, false, value)
}

func newAssign(name string, declaring bool, value Node) *Assign {
	a := &Assign{Name: name, Declaring: declaring}
	a.init(a)
	a.Append(value)
	//
	return a
}

// Kind returns AssignKind.
func (p *Assign) Kind() Kind { return AssignKind }

// Value returns the assigned expression.
func (p *Assign) Value() Node {
	return p.children[0]
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Assign) Lisp() sexp.SExp {
	head := "set"
	if p.Declaring {
		head = "let"
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol(head), sexp.NewSymbol(p.Name), p.Value().Lisp(),
	})
}

// ============================================================================
// Return
// ============================================================================

// Return represents a return statement with an optional value.
type Return struct {
	tree
}

var _ Node = (*Return)(nil)

// NewReturn constructs a return statement.  A nil value constructs a bare
// return.
func NewReturn(value Node) *Return {
	r := &Return{}
	r.init(r)
	//
	if value != nil {
		r.Append(value)
	}
	//
	return r
}

// Kind returns ReturnKind.
func (p *Return) Kind() Kind { return ReturnKind }

// Value returns the returned expression, or nil for a bare return.
func (p *Return) Value() Node {
	if len(p.children) == 0 {
		return nil
	}
	//
	return p.children[0]
}

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Return) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("return")}
	//
	if v := p.Value(); v != nil {
		elements = append(elements, v.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Noop
// ============================================================================

// Noop is the sentinel produced when a macro yields no replacement.  It is
// valid only where a statement is syntactically expected.
type Noop struct {
	tree
	// Comment records why this noop exists (e.g. which macro produced it),
	// purely for diagnostics.
	Comment string
}

var _ Node = (*Noop)(nil)

// NewNoop constructs a noop with a diagnostic comment.
func NewNoop(comment string) *Noop {
	n := &Noop{Comment: comment}
	n.init(n)
	//
	return n
}

// Kind returns NoopKind.
func (p *Noop) Kind() Kind { return NoopKind }

// Lisp converts this node into a simple S-Expression, for example so it can
// be printed.
func (p *Noop) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{sexp.NewSymbol("noop")})
}
