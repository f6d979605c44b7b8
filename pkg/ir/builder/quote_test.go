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
package builder

import (
	"testing"

	"github.com/quill-lang/quill/pkg/ir"
)

func Test_Quote_01(t *testing.T) {
	testQuote(t, "(print x)", nil, "(print x)")
}

func Test_Quote_02(t *testing.T) {
	testQuote(t, "(add 1 2)", nil, "(add 1 2)")
}

func Test_Quote_03(t *testing.T) {
	testQuote(t, "(let x 1)", nil, "(let x 1)")
}

func Test_Quote_04(t *testing.T) {
	testQuote(t, "(return (add x 1))", nil, "(return (add x 1))")
}

func Test_Quote_05(t *testing.T) {
	testQuote(t, "{(let x 1) (print x)}", nil, "{(let x 1) (print x)}")
}

func Test_Quote_06(t *testing.T) {
	testQuote(t, "(&twice 2)", nil, "(&twice 2)")
}

func Test_Quote_07(t *testing.T) {
	testQuote(t, "(defun f (a b) (return (add a b)))", nil,
		"(defun f (a b) {(return (add a b))})")
}

func Test_Quote_08(t *testing.T) {
	testQuote(t, "(defun f (a rest...) (return a))", nil,
		"(defun f (a rest...) {(return a)})")
}

// Escapes

func Test_Quote_10(t *testing.T) {
	testQuote(t, "(print $msg)", Bindings{"msg": ir.NewConstant("hi")},
		"(print \"hi\")")
}

func Test_Quote_11(t *testing.T) {
	testQuote(t, "(let $name 1)", Bindings{"name": ir.NewReference("tmp")},
		"(let tmp 1)")
}

func Test_Quote_12(t *testing.T) {
	stmt := ir.NewReturn(ir.NewConstant(int64(1)))
	testQuote(t, "(defun $name () $stmt)", Bindings{
		"name": ir.NewReference("gen"),
		"stmt": stmt,
	}, "(defun gen () {(return 1)})")
}

func Test_Quote_13(t *testing.T) {
	// Unbound escape is an instantiation error.
	template := MustQuote("(print $msg)")
	//
	if _, err := template.Instantiate(nil); err == nil {
		t.Error("expected error for unbound escape")
	}
}

// Freshness: each instantiation yields new nodes, except for the bound
// escapes themselves.

func Test_Quote_14(t *testing.T) {
	template := MustQuote("(print 1)")
	//
	first := template.MustInstantiate(nil)
	second := template.MustInstantiate(nil)
	//
	if first == second || first.Children()[0] == second.Children()[0] {
		t.Error("instantiations must not share nodes")
	}
}

func Test_Quote_15(t *testing.T) {
	var (
		bound    = ir.NewReference("x")
		template = MustQuote("(print $arg)")
		result   = template.MustInstantiate(Bindings{"arg": bound})
	)
	// The bound node itself is spliced in (and adopted).
	if result.Children()[0] != bound || bound.Parent() != result {
		t.Error("escape must splice the bound node itself")
	}
}

// Malformed quotations

func Test_Quote_20(t *testing.T) {
	testQuoteErr(t, "(let (x) 2)")
}

func Test_Quote_21(t *testing.T) {
	testQuoteErr(t, "(defun f (a... b) (return a))")
}

func Test_Quote_22(t *testing.T) {
	testQuoteErr(t, "(f g")
}

func Test_Quote_23(t *testing.T) {
	testQuoteErr(t, "(f) (g)")
}

// Plain builders

func Test_Builder_01(t *testing.T) {
	fn := Function("f", "a", "b").Body(Return(Call("add", Reference("a"), Reference("b"))))
	//
	if fn.Name != "f" || fn.Variadic || len(fn.Params) != 2 {
		t.Error("unexpected function shape")
	}
	//
	if len(fn.Body().Children()) != 1 {
		t.Error("unexpected body shape")
	}
}

func Test_Builder_02(t *testing.T) {
	module := Module("main").
		Import("lists").
		Declare(Function("f").Body()).
		Done()
	//
	if len(module.Imports()) != 1 || len(module.Functions()) != 1 {
		t.Errorf("unexpected module shape: %s", ir.Dump(module))
	}
}

func Test_Builder_03(t *testing.T) {
	fn := Function("f", "rest").Variadic().Body()
	//
	if !fn.Variadic {
		t.Error("expected variadic function")
	}
}

// ============================================================================
// Helpers
// ============================================================================

func testQuote(t *testing.T, src string, bindings Bindings, expected string) {
	template, err := Quote(src)
	if err != nil {
		t.Fatalf("unexpected error quoting %q: %s", src, err)
	}
	//
	node, err := template.Instantiate(bindings)
	if err != nil {
		t.Fatalf("unexpected error instantiating %q: %s", src, err)
	}
	//
	if s := node.Lisp().String(); s != expected {
		t.Errorf("instantiating %q gave %s, expected %s", src, s, expected)
	}
}

func testQuoteErr(t *testing.T, src string) {
	if _, err := Quote(src); err == nil {
		t.Errorf("expected error quoting %q", src)
	}
}
