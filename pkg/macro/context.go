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
	"os"
	"slices"
	"strconv"

	"github.com/quill-lang/quill/pkg/util/source"
)

// DefaultRecursionLimit bounds the live nesting of macro-expanding-macro
// chains, unless overridden process-wide (via the environment) or per unit
// (via configuration or a special macro).
const DefaultRecursionLimit = 42

// RecursionLimitEnvVar names the environment variable which, when set to a
// positive integer, overrides the process-wide default recursion limit.
const RecursionLimitEnvVar = "QUILL_MACRO_LIMIT"

// GlobalRecursionLimit determines the process-wide default recursion limit,
// taking any environment override into account.
func GlobalRecursionLimit() int {
	if v := os.Getenv(RecursionLimitEnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	//
	return DefaultRecursionLimit
}

// Context holds the mutable per-unit state of an expansion: the recursion
// depth and limit, the set of additionally searched modules, and the flags
// steering traversal.  A context is exclusively owned by one unit's traversal
// and is mutated in place, in traversal order, by special macros; mutations
// take effect for all subsequently visited nodes of the same unit.
type Context struct {
	// Configured recursion limit.
	limit int
	// Current live nesting depth of macro invocations.
	depth int
	// Chain of call sites for the live invocations, outermost first.
	chain []source.Position
	// Additional modules searched for macro names.
	use []string
	// Whether to attempt macro resolution on every plain call.
	expandRegularCalls bool
	// Whether to re-expand a macro's result.
	reexpandResults bool
}

// NewContext constructs a fresh per-unit expansion context with default
// configuration.
func NewContext() *Context {
	return &Context{
		limit:              GlobalRecursionLimit(),
		expandRegularCalls: true,
		reexpandResults:    true,
	}
}

// RecursionLimit returns the currently configured recursion limit.
func (p *Context) RecursionLimit() int {
	return p.limit
}

// SetRecursionLimit overrides the recursion limit for the remainder of this
// unit's expansion.
func (p *Context) SetRecursionLimit(limit int) {
	p.limit = limit
}

// Depth returns the current live nesting depth of macro invocations.
func (p *Context) Depth() int {
	return p.depth
}

// Use adds the given modules to the set searched (after the current module
// and its imports) when resolving macro names.
func (p *Context) Use(modules ...string) {
	for _, m := range modules {
		if !slices.Contains(p.use, m) {
			p.use = append(p.use, m)
		}
	}
}

// UseList returns the modules added via Use, in order of addition.
func (p *Context) UseList() []string {
	return p.use
}

// ExpandRegularCalls determines whether macro resolution is attempted on
// every plain call (the default), rather than on explicitly marked calls
// only.
func (p *Context) ExpandRegularCalls() bool {
	return p.expandRegularCalls
}

// SetExpandRegularCalls toggles macro resolution on plain calls.
func (p *Context) SetExpandRegularCalls(flag bool) {
	p.expandRegularCalls = flag
}

// ReexpandResults determines whether the subtree substituted for a macro
// call is itself re-expanded (the default).  Disabling this is primarily a
// debugging aid.
func (p *Context) ReexpandResults() bool {
	return p.reexpandResults
}

// SetReexpandResults toggles re-expansion of macro results.
func (p *Context) SetReexpandResults(flag bool) {
	p.reexpandResults = flag
}

// enter records entry into a macro invocation at a given call site,
// returning false if doing so would exceed the configured limit.
func (p *Context) enter(pos source.Position) bool {
	if p.depth+1 > p.limit {
		return false
	}
	//
	p.depth++
	p.chain = append(p.chain, pos)
	//
	return true
}

// exit records return from a fully completed expansion subtree.
func (p *Context) exit() {
	p.depth--
	p.chain = p.chain[:len(p.chain)-1]
}

// callChain returns a copy of the chain of live call sites, outermost first.
func (p *Context) callChain() []source.Position {
	return slices.Clone(p.chain)
}
