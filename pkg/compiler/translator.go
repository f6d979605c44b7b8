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
package compiler

import (
	"strings"

	"github.com/quill-lang/quill/pkg/ir"
	"github.com/quill-lang/quill/pkg/sexp"
	"github.com/quill-lang/quill/pkg/util/source"
)

// Unit packages up the result of translating one source file: a well-formed
// IR tree in which all nodes carry source-position metadata, plus any
// module-level macro applications (which have no slot in the tree itself).
type Unit struct {
	// The compilation unit.
	Module *ir.Module
	// Module-level macro applications, in textual order.  These are always
	// expanded last.
	ModuleMacros []*ir.Call
	// Originating source file.
	SourceFile *source.File
}

// Translate parses a given source file and translates it into IR, thereby
// realising the input contract of the expansion engine.  The decorator and
// block-trailing call forms are desugared here, before expansion ever sees
// the tree.
func Translate(srcfile *source.File) (*Unit, []source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}
	//
	t := &translator{srcfile, srcmap, nil}
	unit := t.translateUnit(terms)
	//
	if len(t.errors) > 0 {
		return nil, t.errors
	}
	//
	return unit, nil
}

// translator holds the state threaded through translation of one file.
type translator struct {
	srcfile *source.File
	srcmap  *source.Map[sexp.SExp]
	errors  []source.SyntaxError
}

// translateUnit translates a whole file: a module header (possibly wrapped in
// module-level decorators) followed by zero or more declarations.
func (t *translator) translateUnit(terms []sexp.SExp) *Unit {
	if len(terms) == 0 {
		t.errorAt(nil, "empty compilation unit")
		return nil
	}
	//
	header, moduleMacros := t.unwrapModuleMacros(terms[0])
	module := t.translateHeader(header)
	//
	if module == nil {
		return nil
	}
	//
	for _, term := range terms[1:] {
		if decl := t.translateDeclaration(term); decl != nil {
			module.Append(decl)
		}
	}
	//
	return &Unit{module, moduleMacros, t.srcfile}
}

// unwrapModuleMacros strips decorators wrapped around the module header.  A
// decorator applied to the header is a macro applied to the entire unit; it
// is recorded separately since there is no parent slot for it in the tree.
func (t *translator) unwrapModuleMacros(term sexp.SExp) (sexp.SExp, []*ir.Call) {
	var macros []*ir.Call
	//
	for {
		list := term.AsList()
		if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
			return term, macros
		}
		//
		name, ok := strings.CutPrefix(list.Get(0).AsSymbol().Value, "@")
		if !ok {
			return term, macros
		} else if list.Len() < 2 {
			t.errorAt(term, "malformed decorator")
			return term, macros
		}
		// Extra arguments sit between the decorator name and the wrapped
		// form.
		call := ir.NewMacroCall(name)
		t.at(call, term)
		//
		for _, arg := range list.Elements[1 : list.Len()-1] {
			if node := t.translateTerm(arg); node != nil {
				call.Append(node)
			}
		}
		//
		macros = append(macros, call)
		term = list.Get(list.Len() - 1)
	}
}

// translateHeader translates the (module name (import ...) ...) form.
func (t *translator) translateHeader(term sexp.SExp) *ir.Module {
	list := term.AsList()
	if list == nil || !list.MatchSymbols(2, "module") {
		t.errorAt(term, "expected module header")
		return nil
	}
	//
	module := ir.NewModule(list.Get(1).AsSymbol().Value)
	t.at(module, term)
	//
	for _, e := range list.Elements[2:] {
		imports := e.AsList()
		if imports == nil || !imports.MatchSymbols(1, "import") {
			t.errorAt(e, "expected import")
			continue
		}
		//
		for _, m := range imports.Elements[1:] {
			if m.AsSymbol() == nil {
				t.errorAt(m, "expected module name")
				continue
			}
			//
			imp := ir.NewImport(m.AsSymbol().Value)
			t.at(imp, m)
			module.Append(imp)
		}
	}
	//
	return module
}

// translateDeclaration translates one top-level form: a function, a
// decorated declaration, or a (possibly marked) call in declaration
// position.
func (t *translator) translateDeclaration(term sexp.SExp) ir.Node {
	list := term.AsList()
	if list == nil || list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		t.errorAt(term, "expected declaration")
		return nil
	}
	//
	head := list.Get(0).AsSymbol().Value
	//
	switch {
	case head == "defun":
		return t.translateFunction(list)
	case strings.HasPrefix(head, "@"):
		return t.translateDecorator(list)
	}
	// Otherwise a call in declaration position.
	return t.translateTerm(term)
}

// translateDecorator desugars the decorator form: a marker placed before a
// declaration becomes a marked macro call wrapping that declaration as its
// last argument.  Several wrapped declarations are grouped into a single
// composite, so that the macro receives one argument covering them all.
func (t *translator) translateDecorator(list *sexp.List) ir.Node {
	name := strings.TrimPrefix(list.Get(0).AsSymbol().Value, "@")
	//
	call := ir.NewMacroCall(name)
	t.at(call, list)
	//
	var decls []ir.Node
	//
	for _, e := range list.Elements[1:] {
		node := t.translateDeclaration(e)
		if node == nil {
			continue
		}
		//
		switch node.Kind() {
		case ir.FunctionKind, ir.ToplevelKind:
			decls = append(decls, node)
		default:
			call.Append(node)
		}
	}
	//
	switch {
	case len(decls) == 1:
		call.Append(decls[0])
	case len(decls) > 1:
		group := ir.NewToplevelElements(decls...)
		t.at(group, list)
		call.Append(group)
	default:
		t.errorAt(list, "decorator must wrap a declaration")
		return nil
	}
	//
	return call
}

// translateFunction translates a (defun name (params...) stmt...) form.
func (t *translator) translateFunction(list *sexp.List) ir.Node {
	if list.Len() < 3 || list.Get(1).AsSymbol() == nil || list.Get(2).AsList() == nil {
		t.errorAt(list, "malformed function declaration")
		return nil
	}
	//
	params, variadic := t.translateParams(list.Get(2).AsList())
	body := ir.NewBlock()
	t.at(body, list)
	//
	for _, s := range list.Elements[3:] {
		if stmt := t.translateTerm(s); stmt != nil {
			body.Append(stmt)
		}
	}
	//
	fn := ir.NewFunction(list.Get(1).AsSymbol().Value, params, variadic, body)
	t.at(fn, list)
	//
	return fn
}

func (t *translator) translateParams(list *sexp.List) ([]string, bool) {
	var (
		params   []string
		variadic bool
	)
	//
	for i, e := range list.Elements {
		symbol := e.AsSymbol()
		if symbol == nil {
			t.errorAt(e, "expected parameter name")
			continue
		}
		//
		param := symbol.Value
		if name, ok := strings.CutSuffix(param, "..."); ok {
			if i+1 != list.Len() {
				t.errorAt(e, "variadic parameter must come last")
			}
			//
			param, variadic = name, true
		}
		//
		params = append(params, param)
	}
	//
	return params, variadic
}

// translateTerm translates any statement or expression form.
func (t *translator) translateTerm(term sexp.SExp) ir.Node {
	switch s := term.(type) {
	case *sexp.Symbol:
		return t.translateSymbol(s)
	case *sexp.Set:
		return t.translateBlock(s)
	case *sexp.List:
		return t.translateList(s)
	}
	//
	t.errorAt(term, "unexpected term")
	//
	return nil
}

func (t *translator) translateSymbol(symbol *sexp.Symbol) ir.Node {
	var node ir.Node
	//
	if value, ok := ir.ParseLiteral(symbol.Value); ok {
		node = ir.NewConstant(value)
	} else {
		node = ir.NewReference(symbol.Value)
	}
	//
	t.at(node, symbol)
	//
	return node
}

// translateBlock translates a brace-delimited block.  Note that a block
// appearing as the final element of a call is precisely the block-trailing
// call form: it simply becomes the call's last argument.
func (t *translator) translateBlock(set *sexp.Set) ir.Node {
	block := ir.NewBlock()
	t.at(block, set)
	//
	for _, e := range set.Elements {
		if stmt := t.translateTerm(e); stmt != nil {
			block.Append(stmt)
		}
	}
	//
	return block
}

func (t *translator) translateList(list *sexp.List) ir.Node {
	if list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		t.errorAt(list, "expected statement or expression")
		return nil
	}
	//
	head := list.Get(0).AsSymbol().Value
	//
	switch head {
	case "let", "set":
		return t.translateAssign(head, list)
	case "return":
		return t.translateReturn(list)
	case "defun":
		return t.translateFunction(list)
	case "noop":
		noop := ir.NewNoop("source")
		t.at(noop, list)
		//
		return noop
	}
	//
	if strings.HasPrefix(head, "@") {
		t.errorAt(list, "decorator not permitted here")
		return nil
	}
	// Otherwise a call, possibly carrying the explicit macro-call marker.
	return t.translateCall(head, list)
}

func (t *translator) translateAssign(head string, list *sexp.List) ir.Node {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil {
		t.errorAt(list, "malformed "+head)
		return nil
	}
	//
	value := t.translateTerm(list.Get(2))
	if value == nil {
		return nil
	}
	//
	var node ir.Node
	//
	name := list.Get(1).AsSymbol().Value
	if head == "let" {
		node = ir.NewLet(name, value)
	} else {
		node = ir.NewSet(name, value)
	}
	//
	t.at(node, list)
	//
	return node
}

func (t *translator) translateReturn(list *sexp.List) ir.Node {
	if list.Len() > 2 {
		t.errorAt(list, "malformed return")
		return nil
	}
	//
	var value ir.Node
	//
	if list.Len() == 2 {
		if value = t.translateTerm(list.Get(1)); value == nil {
			return nil
		}
	}
	//
	node := ir.NewReturn(value)
	t.at(node, list)
	//
	return node
}

func (t *translator) translateCall(head string, list *sexp.List) ir.Node {
	name, marked := strings.CutPrefix(head, "&")
	//
	call := ir.NewCall(name)
	call.Marked = marked
	t.at(call, list)
	//
	for _, e := range list.Elements[1:] {
		if arg := t.translateTerm(e); arg != nil {
			call.Append(arg)
		}
	}
	//
	return call
}

// at records position metadata on a freshly translated node.
func (t *translator) at(node ir.Node, term sexp.SExp) {
	if term != nil && t.srcmap.Has(term) {
		node.SetPosition(t.srcmap.PositionOf(term))
	}
}

// errorAt reports a translation error against a given term (or the start of
// the file, when no term is available).
func (t *translator) errorAt(term sexp.SExp, msg string) {
	if term != nil && t.srcmap.Has(term) {
		t.errors = append(t.errors, *t.srcmap.SyntaxError(term, msg))
	} else {
		t.errors = append(t.errors, *t.srcfile.SyntaxError(source.NewSpan(0, 1), msg))
	}
}
