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

// BuiltinModule is the always-visible module holding the builtin special
// macros.  It is searched last during resolution, so user definitions can
// shadow it.
const BuiltinModule = "quill.macros"

// registerBuiltins installs the builtin special macros.  All of them operate
// purely by side effect on the expansion context, and their effect applies to
// every subsequently visited node of the same unit.
func registerBuiltins(r *Registry) {
	builtins := []*Definition{
		NewSpecial(BuiltinModule, "use", 1, true, useMacro),
		NewSpecial(BuiltinModule, "recursionLimit", 1, false, recursionLimitMacro),
		NewSpecial(BuiltinModule, "expandRegularCalls", 1, false, expandRegularCallsMacro),
		NewSpecial(BuiltinModule, "reexpandResults", 1, false, reexpandResultsMacro),
	}
	//
	for _, def := range builtins {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// useMacro adds one or more modules to the set searched for macro names.
func useMacro(ctx *Context, args []ir.Node) (ir.Node, error) {
	for _, arg := range args {
		name, err := moduleName(arg)
		if err != nil {
			return nil, err
		}
		//
		ctx.Use(name)
	}
	//
	return nil, nil
}

// recursionLimitMacro overrides the recursion limit for the remainder of the
// unit.
func recursionLimitMacro(ctx *Context, args []ir.Node) (ir.Node, error) {
	limit, err := intArg(args[0])
	if err != nil {
		return nil, err
	} else if limit <= 0 {
		return nil, fmt.Errorf("recursion limit must be positive, got %d", limit)
	}
	//
	ctx.SetRecursionLimit(limit)
	//
	return nil, nil
}

// expandRegularCallsMacro toggles whether macro resolution is attempted on
// every plain call.
func expandRegularCallsMacro(ctx *Context, args []ir.Node) (ir.Node, error) {
	flag, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	//
	ctx.SetExpandRegularCalls(flag)
	//
	return nil, nil
}

// reexpandResultsMacro toggles re-expansion of macro results.
func reexpandResultsMacro(ctx *Context, args []ir.Node) (ir.Node, error) {
	flag, err := boolArg(args[0])
	if err != nil {
		return nil, err
	}
	//
	ctx.SetReexpandResults(flag)
	//
	return nil, nil
}

// moduleName extracts a module name from an argument node, which may be
// written either as a string constant or as a bare reference.
func moduleName(arg ir.Node) (string, error) {
	switch n := arg.(type) {
	case *ir.Reference:
		return n.Name, nil
	case *ir.Constant:
		if s, ok := n.Value.(string); ok {
			return s, nil
		}
	}
	//
	return "", fmt.Errorf("expected module name, found %s", arg.Lisp().String())
}

func intArg(arg ir.Node) (int, error) {
	if c, ok := arg.(*ir.Constant); ok {
		if i, ok := c.Value.(int64); ok {
			return int(i), nil
		}
	}
	//
	return 0, fmt.Errorf("expected integer constant, found %s", arg.Lisp().String())
}

func boolArg(arg ir.Node) (bool, error) {
	if c, ok := arg.(*ir.Constant); ok {
		if b, ok := c.Value.(bool); ok {
			return b, nil
		}
	}
	//
	return false, fmt.Errorf("expected boolean constant, found %s", arg.Lisp().String())
}
