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
	"testing"

	"github.com/quill-lang/quill/pkg/ir"
	"github.com/quill-lang/quill/pkg/ir/builder"
)

func Test_Registry_01(t *testing.T) {
	r := NewRegistry()
	//
	if err := r.Register(substituting("m", "f", 1, false)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Same shape again is a duplicate.
	if err := r.Register(substituting("m", "f", 1, false)); err == nil {
		t.Error("expected duplicate rejection")
	}
	// Same name at different arity is fine.
	if err := r.Register(substituting("m", "f", 2, false)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Same arity but variadic is fine.
	if err := r.Register(substituting("m", "f", 1, true)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

// Tier 1: the unit itself and its imports.

func Test_Registry_02(t *testing.T) {
	r := registryOf(substituting("main", "f", 1, false))
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "main.f/1")
}

func Test_Registry_03(t *testing.T) {
	r := registryOf(substituting("lists", "f", 1, false))
	unit := builder.Module("main").Import("lists").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "lists.f/1")
}

func Test_Registry_04(t *testing.T) {
	// Not imported, not used: unresolved (but not an error).
	r := registryOf(substituting("lists", "f", 1, false))
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	if def != nil || err != nil {
		t.Errorf("expected unresolved, got (%v, %v)", def, err)
	}
}

// Tier 2: the "use" list.

func Test_Registry_05(t *testing.T) {
	r := registryOf(substituting("lists", "f", 1, false))
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, []string{"lists"}, builder.Call("f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "lists.f/1")
}

// An earlier tier strictly shadows a later one.

func Test_Registry_06(t *testing.T) {
	r := registryOf(
		substituting("main", "f", 1, false),
		substituting("lists", "f", 1, false),
	)
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, []string{"lists"}, builder.Call("f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "main.f/1")
}

// Tier 3: the prelude (builtin macros).

func Test_Registry_07(t *testing.T) {
	r := NewRegistry()
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("use", builder.Reference("lists")))
	//
	assertResolved(t, def, err, BuiltinModule+".use/1+")
}

// Arity matching: exact beats variadic.

func Test_Registry_08(t *testing.T) {
	r := registryOf(
		substituting("main", "f", 2, false),
		substituting("main", "f", 1, true),
	)
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil,
		builder.Call("f", builder.Constant(int64(1)), builder.Constant(int64(2))))
	//
	assertResolved(t, def, err, "main.f/2")
}

func Test_Registry_09(t *testing.T) {
	r := registryOf(
		substituting("main", "f", 2, false),
		substituting("main", "f", 1, true),
	)
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil,
		builder.Call("f", builder.Constant(int64(1)), builder.Constant(int64(2)), builder.Constant(int64(3))))
	//
	assertResolved(t, def, err, "main.f/1+")
}

// Ambiguity: two equally specific candidates in one tier.

func Test_Registry_10(t *testing.T) {
	r := registryOf(
		substituting("lists", "f", 1, false),
		substituting("sets", "f", 1, false),
	)
	unit := builder.Module("main").Import("lists", "sets").Done()
	//
	_, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	if _, ok := err.(*AmbiguousMacroError); !ok {
		t.Errorf("expected ambiguity, got %v", err)
	}
}

func Test_Registry_11(t *testing.T) {
	r := registryOf(
		substituting("lists", "f", 1, true),
		substituting("sets", "f", 1, true),
	)
	unit := builder.Module("main").Import("lists", "sets").Done()
	//
	_, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	if _, ok := err.(*AmbiguousMacroError); !ok {
		t.Errorf("expected ambiguity, got %v", err)
	}
}

// An exact match suppresses the would-be variadic ambiguity.

func Test_Registry_12(t *testing.T) {
	r := registryOf(
		substituting("lists", "f", 1, false),
		substituting("lists", "f", 0, true),
		substituting("sets", "f", 0, true),
	)
	unit := builder.Module("main").Import("lists", "sets").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "lists.f/1")
}

// Qualified names search only the named module.

func Test_Registry_13(t *testing.T) {
	r := registryOf(substituting("lists", "f", 1, false))
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("lists.f", builder.Constant(int64(1))))
	//
	assertResolved(t, def, err, "lists.f/1")
}

func Test_Registry_14(t *testing.T) {
	// A qualified name never falls back to other tiers.
	r := registryOf(substituting("main", "f", 1, false))
	unit := builder.Module("main").Done()
	//
	def, err := r.Resolve(unit, nil, builder.Call("sets.f", builder.Constant(int64(1))))
	//
	if def != nil || err != nil {
		t.Errorf("expected unresolved, got (%v, %v)", def, err)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func substituting(module string, name string, arity int, variadic bool) *Definition {
	return NewSubstituting(module, name, arity, variadic,
		func(args []ir.Node) (ir.Node, error) { return nil, nil })
}

func registryOf(defs ...*Definition) *Registry {
	r := NewRegistry()
	//
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	//
	return r
}

func assertResolved(t *testing.T, def *Definition, err error, expected string) {
	t.Helper()
	//
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	} else if def == nil {
		t.Fatalf("expected %s, got no resolution", expected)
	} else if def.String() != expected {
		t.Errorf("expected %s, got %s", expected, def)
	}
}
