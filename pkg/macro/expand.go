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
	"slices"

	"github.com/quill-lang/quill/pkg/ir"
	log "github.com/sirupsen/logrus"
)

// Expander drives macro expansion over one compilation unit: a depth-first,
// left-to-right rewrite which resolves macro invocations against a registry,
// invokes them, substitutes their results and (by default) re-expands those
// results.  Expansion is synchronous and single-threaded within one unit;
// macro bodies run to completion before the traversal proceeds.
//
// One documented hazard: a node, once its expansion has completed, is never
// walked again.  A contextual (or special) macro which injects a *macro call*
// into an already-finished subtree therefore leaves that call unexpanded, to
// be rejected by downstream stages as an unresolved name.  The safe pattern
// is to inject a call to a non-macro helper function instead.
type Expander struct {
	// Registry consulted for macro resolution.  Read-only during expansion.
	registry *Registry
	// Per-unit mutable expansion state.
	ctx *Context
	// Unit being expanded.
	unit *ir.Module
}

// NewExpander constructs an expander over a given registry and per-unit
// context.
func NewExpander(registry *Registry, ctx *Context) *Expander {
	return &Expander{registry: registry, ctx: ctx}
}

// Context returns the per-unit expansion context.
func (p *Expander) Context() *Context {
	return p.ctx
}

// ExpandModule runs the expansion algorithm over one compilation unit,
// rewriting it in place.  The returned error (if any) is a Fault and is fatal
// to the unit.
func (p *Expander) ExpandModule(unit *ir.Module) error {
	return p.ExpandUnit(unit, nil)
}

// ExpandUnit is as ExpandModule, but additionally applies the given
// module-level macro calls.  These are always expanded last, once every other
// expansion in the unit has completed, and must operate purely by side effect
// since there is no parent slot to substitute into.
func (p *Expander) ExpandUnit(unit *ir.Module, moduleMacros []*ir.Call) error {
	p.unit = unit
	//
	if err := p.expandChildren(unit); err != nil {
		return err
	}
	// Module-level macros run strictly after everything else, regardless of
	// where they appeared textually.
	for _, call := range moduleMacros {
		if err := p.expandModuleMacro(call, unit); err != nil {
			return err
		}
	}
	//
	return nil
}

// expandNode dispatches on whether the given node is a macro-call candidate.
func (p *Expander) expandNode(node ir.Node) error {
	if call, ok := node.(*ir.Call); ok {
		return p.expandCall(call)
	}
	//
	return p.expandChildren(node)
}

// expandChildren visits the children of a node in left-to-right order.  The
// child list is snapshotted on entry: children injected during the visit are
// deliberately not picked up (see the hazard note on Expander), and children
// detached meanwhile are skipped.
func (p *Expander) expandChildren(node ir.Node) error {
	for _, child := range slices.Clone(node.Children()) {
		if child.Parent() != node {
			continue
		}
		//
		if err := p.expandNode(child); err != nil {
			return err
		}
	}
	//
	return nil
}

// expandCall handles one macro-call candidate.  Arguments are visited and
// fully expanded before the call itself is resolved, so that a macro body
// always receives already-expanded argument nodes.
func (p *Expander) expandCall(call *ir.Call) error {
	if err := p.expandChildren(call); err != nil {
		return err
	}
	// A plain call is only a candidate when the context says so.
	if !call.Marked && !p.ctx.ExpandRegularCalls() {
		return nil
	}
	//
	def, err := p.registry.Resolve(p.unit, p.ctx.UseList(), call)
	if err != nil {
		return err
	} else if def == nil {
		if call.Marked {
			return &UnresolvedMacroError{call.Name, call.Arity(), call.Position()}
		}
		// An unresolvable plain call is simply an ordinary call.
		return nil
	}
	//
	return p.applyMacro(def, call, call.Args())
}

// applyMacro invokes a resolved macro and substitutes its result for the
// call node.
func (p *Expander) applyMacro(def *Definition, call *ir.Call, args []ir.Node) error {
	if !p.ctx.enter(call.Position()) {
		return &RecursionLimitError{
			Limit: p.ctx.RecursionLimit(),
			Chain: append(p.ctx.callChain(), call.Position()),
		}
	}
	// The limit bounds live nesting, so the depth is only released once this
	// entire expansion subtree (including re-expansion) has completed.
	defer p.ctx.exit()
	//
	log.Debugf("expanding %s macro %s at %s (depth %d)", def.Kind(), def, call.Position(), p.ctx.Depth())
	//
	result, err := p.invoke(def, call, args)
	if err != nil {
		return err
	}
	// A macro may legitimately decline to rewrite its own call site.
	if result == call {
		return nil
	}
	//
	parent := call.Parent()
	if parent == nil {
		// A contextual macro detached its own call node; nothing to
		// substitute into.
		return nil
	}
	//
	if result == nil {
		if !statementPosition(parent) {
			return &MisplacedNoopError{def.QualifiedName(), call.Position()}
		}
		//
		noop := ir.NewNoop("expanded " + def.QualifiedName())
		noop.SetPosition(call.Position())
		parent.Replace(call, noop)
		//
		return nil
	}
	// Synthesised results inherit the call site's position, so that faults
	// raised on them report something useful.
	if !result.Position().Known() {
		result.SetPosition(call.Position())
	}
	//
	parent.Replace(call, result)
	// Re-expand the freshly substituted subtree, so that a macro's output may
	// itself contain further macro calls.
	if p.ctx.ReexpandResults() {
		return p.expandNode(result)
	}
	//
	return nil
}

// expandModuleMacro applies one module-level macro.  The unit itself is
// passed as an additional final argument, and the macro must not return a
// replacement.
func (p *Expander) expandModuleMacro(call *ir.Call, unit *ir.Module) error {
	args := append(slices.Clone(call.Args()), ir.Node(unit))
	//
	def, err := p.registry.ResolveArity(p.unit, p.ctx.UseList(), call, len(args))
	if err != nil {
		return err
	} else if def == nil {
		return &UnresolvedMacroError{call.Name, len(args), call.Position()}
	}
	//
	if !p.ctx.enter(call.Position()) {
		return &RecursionLimitError{
			Limit: p.ctx.RecursionLimit(),
			Chain: append(p.ctx.callChain(), call.Position()),
		}
	}
	//
	defer p.ctx.exit()
	//
	log.Debugf("expanding module-level macro %s over unit %s", def, unit.Name)
	//
	result, err := p.invoke(def, call, args)
	if err != nil {
		return err
	} else if result != nil && result != ir.Node(unit) {
		return &ExecutionError{
			def.QualifiedName(), call.Position(),
			fmt.Errorf("module-level macro must operate by side effect only"),
		}
	}
	//
	return nil
}

// invoke runs a macro body, converting host-level panics (and returned
// errors) into execution faults attributed to the originating call site.
func (p *Expander) invoke(def *Definition, call *ir.Call, args []ir.Node) (result ir.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{def.QualifiedName(), call.Position(), fmt.Errorf("%v", r)}
		}
	}()
	//
	result, err = def.invoke(p.ctx, call, args)
	//
	if err != nil {
		err = &ExecutionError{def.QualifiedName(), call.Position(), err}
	}
	//
	return result, err
}

// statementPosition checks whether the children of a given parent sit in
// statement (or declaration) position, i.e. where a no-op is legal.
func statementPosition(parent ir.Node) bool {
	switch parent.Kind() {
	case ir.BlockKind, ir.ModuleKind, ir.ToplevelKind:
		return true
	}
	//
	return false
}
