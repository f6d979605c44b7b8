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
	"github.com/quill-lang/quill/pkg/util/source"
)

// Kind distinguishes the different forms an IR node can take.  Observe that,
// since macros manipulate nodes structurally, the kind is deliberately coarse:
// it identifies shape (e.g. a call with n arguments) rather than meaning.
type Kind uint8

const (
	// ModuleKind identifies a compilation unit.
	ModuleKind Kind = iota
	// ImportKind identifies an import of another module.
	ImportKind
	// FunctionKind identifies a function declaration.
	FunctionKind
	// BlockKind identifies a sequence of statements.
	BlockKind
	// AssignKind identifies a binding or assignment statement.
	AssignKind
	// ReturnKind identifies a return statement.
	ReturnKind
	// CallKind identifies a call, which may (or may not) turn out to be a
	// macro invocation.
	CallKind
	// ReferenceKind identifies a reference to a named binding.
	ReferenceKind
	// ConstantKind identifies a literal constant.
	ConstantKind
	// NoopKind identifies the sentinel left behind when a macro produced no
	// replacement.  Valid only in statement position.
	NoopKind
	// ToplevelKind identifies an ordered group of top-level declarations,
	// used when a macro injects (or consumes) several declarations at once.
	ToplevelKind
)

// Node provides common functionality across all elements of the intermediate
// representation: navigation over the enclosing tree, structural mutation of
// the immediate child list, source-position metadata and conversion back into
// Lisp form for debugging.  Every node owns its ordered children exclusively,
// and holds a non-owning reference to its parent which is updated whenever the
// node is attached elsewhere.
type Node interface {
	// Kind returns the kind of this node.
	Kind() Kind
	// Parent returns the node this node is currently attached to, or nil for
	// a root.
	Parent() Node
	// Children returns the ordered children of this node.  The returned slice
	// is the node's own child list and must not be mutated directly; use the
	// mutation operations instead.
	Children() []Node
	// Ancestor walks up the parent chain until the predicate matches,
	// returning nil if the root is reached without a match.
	Ancestor(func(Node) bool) Node
	// NextSibling returns the node immediately after this one in the parent's
	// child list, or nil if this node is last (or detached).
	NextSibling() Node
	// PreviousSibling returns the node immediately before this one in the
	// parent's child list, or nil if this node is first (or detached).
	PreviousSibling() Node
	// Replace swaps the given child for a replacement subtree, re-parenting
	// the replacement and totally detaching the old child.  This panics if
	// old is not a child of this node, or if the replacement would become its
	// own ancestor.
	Replace(old Node, sub Node)
	// InsertBefore inserts a new child immediately before the given anchor
	// child.
	InsertBefore(anchor Node, child Node)
	// InsertAfter inserts a new child immediately after the given anchor
	// child.
	InsertAfter(anchor Node, child Node)
	// Append adds a new child at the end of the child list.
	Append(child Node)
	// Position returns the source position metadata for this node.  Nodes
	// synthesised by macros have an unknown position.
	Position() source.Position
	// SetPosition sets the source position metadata for this node.
	SetPosition(source.Position)
	// EnclosingModule walks the ancestor chain (including this node itself)
	// for the enclosing compilation unit, returning nil for a detached
	// fragment.
	EnclosingModule() *Module
	// Lisp converts this node into a simple S-Expression, for example so it
	// can be printed.
	Lisp() sexp.SExp

	// base exposes the embedded tree structure.  Keeping this unexported
	// confines Node implementations to this package.
	base() *tree
}

// tree is embedded by every node kind and carries the structure shared by all
// of them: the parent link, the owned child list and the source position.
type tree struct {
	// The node this tree is embedded in.  Required so that mutation can
	// re-parent children to the outer node rather than the embedded struct.
	self Node
	// Node this one is attached to (nil for a root).
	parent Node
	// Ordered children, owned exclusively by this node.
	children []Node
	// Source position metadata.
	pos source.Position
}

// init wires the embedded tree back to its enclosing node.  Every constructor
// must call this exactly once.
func (t *tree) init(self Node) {
	t.self = self
}

func (t *tree) base() *tree { return t }

// Parent returns the node this node is currently attached to.
func (t *tree) Parent() Node { return t.parent }

// Children returns the ordered children of this node.
func (t *tree) Children() []Node { return t.children }

// Position returns the source position metadata for this node.
func (t *tree) Position() source.Position { return t.pos }

// SetPosition sets the source position metadata for this node.
func (t *tree) SetPosition(pos source.Position) { t.pos = pos }

// Ancestor walks up the parent chain until the predicate matches.
func (t *tree) Ancestor(pred func(Node) bool) Node {
	for n := t.parent; n != nil; n = n.Parent() {
		if pred(n) {
			return n
		}
	}
	//
	return nil
}

// EnclosingModule walks the ancestor chain (including this node) for the
// enclosing compilation unit.
func (t *tree) EnclosingModule() *Module {
	if m, ok := t.self.(*Module); ok {
		return m
	}
	//
	if n := t.Ancestor(func(n Node) bool { return n.Kind() == ModuleKind }); n != nil {
		return n.(*Module)
	}
	//
	return nil
}

// NextSibling returns the node immediately after this one in the parent's
// child list.
func (t *tree) NextSibling() Node {
	if t.parent == nil {
		return nil
	}
	//
	siblings := t.parent.Children()
	if i := indexOf(siblings, t.self); i >= 0 && i+1 < len(siblings) {
		return siblings[i+1]
	}
	//
	return nil
}

// PreviousSibling returns the node immediately before this one in the
// parent's child list.
func (t *tree) PreviousSibling() Node {
	if t.parent == nil {
		return nil
	}
	//
	siblings := t.parent.Children()
	if i := indexOf(siblings, t.self); i >= 1 {
		return siblings[i-1]
	}
	//
	return nil
}

// Append adds a new child at the end of the child list.
func (t *tree) Append(child Node) {
	t.adopt(child)
	t.children = append(t.children, child)
}

// InsertBefore inserts a new child immediately before the given anchor child.
// Note that adoption must happen before the anchor index is taken, since
// adopting a node already attached to this parent shifts the child list.
func (t *tree) InsertBefore(anchor Node, child Node) {
	t.mustIndexOf(anchor)
	t.adopt(child)
	t.insertAt(t.mustIndexOf(anchor), child)
}

// InsertAfter inserts a new child immediately after the given anchor child.
func (t *tree) InsertAfter(anchor Node, child Node) {
	t.mustIndexOf(anchor)
	t.adopt(child)
	t.insertAt(t.mustIndexOf(anchor)+1, child)
}

// Replace swaps the given child for a replacement subtree.  Replacing a child
// with itself is a no-op.
func (t *tree) Replace(old Node, sub Node) {
	if old == sub {
		return
	}
	//
	t.mustIndexOf(old)
	t.adopt(sub)
	// Recompute the index, since adoption may have shifted the child list.
	i := t.mustIndexOf(old)
	t.children[i] = sub
	// Total detachment: the replaced node is never referenced again.
	old.base().parent = nil
}

func (t *tree) insertAt(i int, child Node) {
	t.children = append(t.children, nil)
	copy(t.children[i+1:], t.children[i:])
	t.children[i] = child
}

// adopt transfers ownership of a child to this node, detaching it from any
// previous parent.  Attaching a node as a descendant of itself is a
// programming fault in the macro concerned, hence the panic.
func (t *tree) adopt(child Node) {
	if child == nil {
		panic("cannot attach nil node")
	}
	// Enforce the "no cycles" invariant: a node may not become its own
	// ancestor.
	for n := t.self; n != nil; n = n.Parent() {
		if n == child {
			panic("node cannot become its own ancestor")
		}
	}
	// Ownership transfer is total, so detach from any previous parent.
	if p := child.Parent(); p != nil {
		p.base().remove(child)
	}
	//
	child.base().parent = t.self
}

// remove detaches a given child from this node's child list.
func (t *tree) remove(child Node) {
	if i := indexOf(t.children, child); i >= 0 {
		t.children = append(t.children[:i], t.children[i+1:]...)
		child.base().parent = nil
	}
}

func (t *tree) mustIndexOf(child Node) int {
	if i := indexOf(t.children, child); i >= 0 {
		return i
	}
	//
	panic("node is not a child of this parent")
}

func indexOf(nodes []Node, node Node) int {
	for i, n := range nodes {
		if n == node {
			return i
		}
	}
	//
	return -1
}
