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
	"testing"

	"github.com/quill-lang/quill/pkg/util/source"
)

// Navigation

func Test_Node_01(t *testing.T) {
	call := NewCall("f", NewConstant(int64(1)), NewReference("x"))
	//
	if n := len(call.Children()); n != 2 {
		t.Fatalf("expected 2 children, got %d", n)
	}
	//
	for _, child := range call.Children() {
		if child.Parent() != call {
			t.Error("child has wrong parent")
		}
	}
}

func Test_Node_02(t *testing.T) {
	var (
		a    = NewReference("a")
		b    = NewReference("b")
		c    = NewReference("c")
		call = NewCall("f", a, b, c)
	)
	//
	if b.NextSibling() != c || b.PreviousSibling() != a {
		t.Error("wrong siblings")
	}
	//
	if a.PreviousSibling() != nil || c.NextSibling() != nil {
		t.Error("expected nil siblings at the ends")
	}
	//
	_ = call
}

func Test_Node_03(t *testing.T) {
	value := NewConstant(int64(1))
	stmt := NewLet("x", value)
	block := NewBlock(stmt)
	fn := NewFunction("f", nil, false, block)
	module := NewModule("main")
	module.Append(fn)
	//
	if value.EnclosingModule() != module {
		t.Error("wrong enclosing module")
	}
	//
	if value.Ancestor(isKind(FunctionKind)) != fn {
		t.Error("wrong enclosing function")
	}
	//
	if module.Ancestor(isKind(ModuleKind)) != nil {
		t.Error("ancestor search must be strict")
	}
}

// Mutation

func Test_Node_04(t *testing.T) {
	var (
		a    = NewReference("a")
		b    = NewReference("b")
		call = NewCall("f", a)
	)
	//
	call.Replace(a, b)
	//
	if a.Parent() != nil {
		t.Error("replaced child still attached")
	}
	//
	if len(call.Children()) != 1 || call.Children()[0] != b {
		t.Error("replacement not in place")
	}
}

func Test_Node_05(t *testing.T) {
	var (
		a    = NewReference("a")
		b    = NewReference("b")
		call = NewCall("f", b)
	)
	// Self replacement is a no-op.
	call.Replace(b, b)
	//
	if b.Parent() != call || len(call.Children()) != 1 {
		t.Error("self-replacement damaged the tree")
	}
	//
	_ = a
}

func Test_Node_06(t *testing.T) {
	var (
		a     = NewReference("a")
		b     = NewReference("b")
		c     = NewReference("c")
		block = NewBlock(b)
	)
	//
	block.InsertBefore(b, a)
	block.InsertAfter(b, c)
	//
	children := block.Children()
	if len(children) != 3 || children[0] != a || children[1] != b || children[2] != c {
		t.Errorf("unexpected ordering: %s", Dump(block))
	}
}

// Ownership transfer: adopting an attached node detaches it first.

func Test_Node_07(t *testing.T) {
	var (
		a     = NewReference("a")
		left  = NewCall("f", a)
		right = NewCall("g")
	)
	//
	right.Append(a)
	//
	if len(left.Children()) != 0 {
		t.Error("node still attached to old parent")
	}
	//
	if a.Parent() != right {
		t.Error("node not adopted by new parent")
	}
}

// Moving a node within the same parent must not corrupt sibling order.

func Test_Node_08(t *testing.T) {
	var (
		a     = NewReference("a")
		b     = NewReference("b")
		c     = NewReference("c")
		block = NewBlock(a, b, c)
	)
	//
	block.InsertAfter(c, a)
	//
	children := block.Children()
	if len(children) != 3 || children[0] != b || children[1] != c || children[2] != a {
		t.Errorf("unexpected ordering: %s", Dump(block))
	}
}

// Cycles

func Test_Node_09(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	//
	inner := NewCall("g")
	outer := NewCall("f", inner)
	// Attempt to make outer a child of its own descendant.
	inner.Append(outer)
}

func Test_Node_10(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on self-adoption")
		}
	}()
	//
	call := NewCall("f")
	call.Append(call)
}

// Positions

func Test_Node_11(t *testing.T) {
	call := NewCall("f")
	//
	if call.Position().Known() {
		t.Error("fresh node should have unknown position")
	}
	//
	call.SetPosition(source.Position{Filename: "test.quill", Line: 3, Column: 7})
	//
	if pos := call.Position(); !pos.Known() || pos.Line != 3 {
		t.Errorf("unexpected position %s", pos)
	}
}

// Rendering

func Test_Node_12(t *testing.T) {
	call := NewCall("print", NewConstant("hi"), NewReference("x"))
	//
	if s := call.Lisp().String(); s != "(print \"hi\" x)" {
		t.Errorf("unexpected rendering %s", s)
	}
}

func Test_Node_13(t *testing.T) {
	call := NewMacroCall("twice", NewConstant(int64(2)))
	//
	if s := call.Lisp().String(); s != "(&twice 2)" {
		t.Errorf("unexpected rendering %s", s)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func isKind(kind Kind) func(Node) bool {
	return func(n Node) bool { return n.Kind() == kind }
}
