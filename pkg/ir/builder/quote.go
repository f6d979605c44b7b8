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
	"fmt"
	"strings"

	"github.com/quill-lang/quill/pkg/ir"
	"github.com/quill-lang/quill/pkg/sexp"
	"github.com/quill-lang/quill/pkg/util/source"
)

// Bindings supplies the subtrees substituted at the escape points of a
// template.
type Bindings map[string]ir.Node

// Template is a quoted code fragment compiled (once) into nested builder
// calls.  Instantiating a template evaluates those builder calls, yielding a
// subtree equivalent to the original fragment in which every escape marker
// has been replaced by its bound subtree.  All non-escaped nodes are freshly
// constructed on each instantiation, so a template can be instantiated any
// number of times.
type Template struct {
	// Original fragment, for diagnostics.
	src string
	// Compiled form of the fragment.
	build buildFn
}

// buildFn constructs one node of an instantiation.
type buildFn func(Bindings) (ir.Node, error)

// Quote compiles a literal code fragment into a template.  The fragment must
// consist of exactly one term.  Escape markers take the form $name; at
// instantiation time the corresponding binding is substituted at that
// position instead of being quoted literally.
func Quote(src string) (*Template, error) {
	srcfile := source.NewFile("<quote>", []byte(src))
	//
	terms, _, err := sexp.ParseAll(srcfile)
	if err != nil {
		return nil, err
	} else if len(terms) != 1 {
		return nil, fmt.Errorf("quoted fragment must be a single term, found %d", len(terms))
	}
	//
	build, cerr := compileTerm(terms[0])
	if cerr != nil {
		return nil, cerr
	}
	//
	return &Template{src, build}, nil
}

// MustQuote is like Quote but panics on a malformed fragment.  This is
// intended for templates fixed at macro-registration time.
func MustQuote(src string) *Template {
	tpl, err := Quote(src)
	if err != nil {
		panic(fmt.Sprintf("malformed quoted fragment %q: %v", src, err))
	}
	//
	return tpl
}

// Instantiate evaluates this template against a given set of bindings,
// producing a fresh subtree.  Every escape marker must have a binding.
func (t *Template) Instantiate(bindings Bindings) (ir.Node, error) {
	return t.build(bindings)
}

// MustInstantiate is like Instantiate but panics on a missing binding.
// Inside a macro body such a panic surfaces as a macro-execution fault.
func (t *Template) MustInstantiate(bindings Bindings) ir.Node {
	node, err := t.build(bindings)
	if err != nil {
		panic(fmt.Sprintf("instantiating quoted fragment %q: %v", t.src, err))
	}
	//
	return node
}

// ============================================================================
// Compilation
// ============================================================================

func compileTerm(term sexp.SExp) (buildFn, error) {
	switch t := term.(type) {
	case *sexp.Symbol:
		return compileSymbol(t)
	case *sexp.Set:
		return compileBlock(t)
	case *sexp.List:
		return compileList(t)
	}
	// Unreachable, given the reader only produces the above.
	return nil, fmt.Errorf("unknown term %s", term.String())
}

func compileSymbol(symbol *sexp.Symbol) (buildFn, error) {
	token := symbol.Value
	// Escape marker
	if name, ok := strings.CutPrefix(token, "$"); ok {
		return func(b Bindings) (ir.Node, error) {
			return resolveEscape(b, name)
		}, nil
	}
	// Literal constant
	if value, ok := ir.ParseLiteral(token); ok {
		return func(Bindings) (ir.Node, error) {
			return Constant(value), nil
		}, nil
	}
	// Otherwise, a reference
	return func(Bindings) (ir.Node, error) {
		return Reference(token), nil
	}, nil
}

func compileBlock(set *sexp.Set) (buildFn, error) {
	stmts, err := compileTerms(set.Elements)
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		block := Block()
		//
		if err := appendAll(block, stmts, b); err != nil {
			return nil, err
		}
		//
		return block, nil
	}, nil
}

func compileList(list *sexp.List) (buildFn, error) {
	if list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return nil, fmt.Errorf("cannot quote %s", list.String())
	}
	//
	head := list.Get(0).AsSymbol().Value
	//
	switch head {
	case "let", "set":
		return compileAssign(head, list)
	case "return":
		return compileReturn(list)
	case "defun":
		return compileFunction(list)
	case "toplevel":
		return compileToplevel(list)
	case "noop":
		return func(Bindings) (ir.Node, error) { return Noop("quoted"), nil }, nil
	}
	// Otherwise, a call
	return compileCall(head, list)
}

func compileAssign(head string, list *sexp.List) (buildFn, error) {
	if list.Len() != 3 {
		return nil, fmt.Errorf("malformed quoted %s", head)
	}
	//
	name, err := compileName(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	value, err := compileTerm(list.Get(2))
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		n, err := name(b)
		if err != nil {
			return nil, err
		}
		//
		v, err := value(b)
		if err != nil {
			return nil, err
		}
		//
		if head == "let" {
			return Let(n, v), nil
		}
		//
		return Set(n, v), nil
	}, nil
}

func compileReturn(list *sexp.List) (buildFn, error) {
	if list.Len() > 2 {
		return nil, fmt.Errorf("malformed quoted return")
	} else if list.Len() == 1 {
		return func(Bindings) (ir.Node, error) { return Return(nil), nil }, nil
	}
	//
	value, err := compileTerm(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		v, err := value(b)
		if err != nil {
			return nil, err
		}
		//
		return Return(v), nil
	}, nil
}

func compileFunction(list *sexp.List) (buildFn, error) {
	if list.Len() < 3 || list.Get(2).AsList() == nil {
		return nil, fmt.Errorf("malformed quoted defun")
	}
	//
	name, err := compileName(list.Get(1))
	if err != nil {
		return nil, err
	}
	//
	params, variadic, err := quotedParams(list.Get(2).AsList())
	if err != nil {
		return nil, err
	}
	//
	stmts, err := compileTerms(list.Elements[3:])
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		n, err := name(b)
		if err != nil {
			return nil, err
		}
		//
		body := Block()
		if err := appendAll(body, stmts, b); err != nil {
			return nil, err
		}
		//
		return ir.NewFunction(n, params, variadic, body), nil
	}, nil
}

func compileToplevel(list *sexp.List) (buildFn, error) {
	decls, err := compileTerms(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		group := Toplevel()
		//
		if err := appendAll(group, decls, b); err != nil {
			return nil, err
		}
		//
		return group, nil
	}, nil
}

func compileCall(head string, list *sexp.List) (buildFn, error) {
	name, marked := strings.CutPrefix(head, "&")
	//
	args, err := compileTerms(list.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	return func(b Bindings) (ir.Node, error) {
		call := ir.NewCall(name)
		call.Marked = marked
		//
		if err := appendAll(call, args, b); err != nil {
			return nil, err
		}
		//
		return call, nil
	}, nil
}

// compileName compiles a position at which a plain name (rather than a
// subtree) is expected.  An escape marker is permitted here, in which case
// the binding must be a reference or string constant naming the binding; this
// is how macros introduce hygienic names into quoted fragments.
func compileName(term sexp.SExp) (func(Bindings) (string, error), error) {
	symbol := term.AsSymbol()
	if symbol == nil {
		return nil, fmt.Errorf("expected name, found %s", term.String())
	}
	//
	if name, ok := strings.CutPrefix(symbol.Value, "$"); ok {
		return func(b Bindings) (string, error) {
			node, err := resolveEscape(b, name)
			if err != nil {
				return "", err
			}
			//
			switch n := node.(type) {
			case *ir.Reference:
				return n.Name, nil
			case *ir.Constant:
				if s, ok := n.Value.(string); ok {
					return s, nil
				}
			}
			//
			return "", fmt.Errorf("escape $%s does not name a binding", name)
		}, nil
	}
	//
	fixed := symbol.Value
	//
	return func(Bindings) (string, error) { return fixed, nil }, nil
}

func compileTerms(terms []sexp.SExp) ([]buildFn, error) {
	fns := make([]buildFn, len(terms))
	//
	for i, t := range terms {
		fn, err := compileTerm(t)
		if err != nil {
			return nil, err
		}
		//
		fns[i] = fn
	}
	//
	return fns, nil
}

func appendAll(parent ir.Node, fns []buildFn, b Bindings) error {
	for _, fn := range fns {
		node, err := fn(b)
		if err != nil {
			return err
		}
		//
		parent.Append(node)
	}
	//
	return nil
}

func resolveEscape(b Bindings, name string) (ir.Node, error) {
	if node, ok := b[name]; ok {
		return node, nil
	}
	//
	return nil, fmt.Errorf("no binding for escape $%s", name)
}

func quotedParams(list *sexp.List) ([]string, bool, error) {
	var (
		params   []string
		variadic bool
	)
	//
	for i, e := range list.Elements {
		symbol := e.AsSymbol()
		if symbol == nil {
			return nil, false, fmt.Errorf("expected parameter name, found %s", e.String())
		}
		//
		param := symbol.Value
		if name, ok := strings.CutSuffix(param, "..."); ok {
			if i+1 != list.Len() {
				return nil, false, fmt.Errorf("variadic parameter %s must come last", param)
			}
			//
			param, variadic = name, true
		}
		//
		params = append(params, param)
	}
	//
	return params, variadic, nil
}
