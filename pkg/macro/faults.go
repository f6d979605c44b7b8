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
	"strings"

	"github.com/quill-lang/quill/pkg/util/source"
)

// Fault is the common shape of all expansion faults.  Every fault is a
// compile-time error, fatal to the enclosing compilation unit, reporting the
// source position of the offending call site.  Faults are never retried and
// the engine makes no attempt at partial recovery.
type Fault interface {
	error
	// Position returns the source position of the offending call site.
	Position() source.Position
}

// UnresolvedMacroError indicates an explicitly marked macro call whose name
// and arity could not be resolved in the search scope.
type UnresolvedMacroError struct {
	// Name at the call site, possibly module-qualified.
	Name string
	// Number of arguments at the call site.
	Arity int
	// Call site.
	Pos source.Position
}

// Position returns the source position of the offending call site.
func (p *UnresolvedMacroError) Position() source.Position { return p.Pos }

func (p *UnresolvedMacroError) Error() string {
	return fmt.Sprintf("%s: unresolved macro %s/%d", p.Pos, p.Name, p.Arity)
}

// AmbiguousMacroError indicates two (or more) equally specific definitions
// matched a call site.  Exact-arity matches are strictly preferred over
// variadic matches, so this only arises for matches of equal specificity.
type AmbiguousMacroError struct {
	// Name at the call site, possibly module-qualified.
	Name string
	// Number of arguments at the call site.
	Arity int
	// The equally specific candidates.
	Candidates []string
	// Call site.
	Pos source.Position
}

// Position returns the source position of the offending call site.
func (p *AmbiguousMacroError) Position() source.Position { return p.Pos }

func (p *AmbiguousMacroError) Error() string {
	return fmt.Sprintf("%s: ambiguous macro %s/%d (candidates: %s)",
		p.Pos, p.Name, p.Arity, strings.Join(p.Candidates, ", "))
}

// RecursionLimitError indicates the live nesting of macro-expanding-macro
// chains exceeded the configured limit.  Note that the limit bounds nesting
// depth, not the total count of expansions in a unit.
type RecursionLimitError struct {
	// The configured limit which was exceeded.
	Limit int
	// The full chain of nested call sites involved, outermost first.  The
	// final entry is the call which would have exceeded the limit.
	Chain []source.Position
}

// Position returns the source position of the offending (innermost) call
// site.
func (p *RecursionLimitError) Position() source.Position {
	if len(p.Chain) == 0 {
		return source.Position{}
	}
	//
	return p.Chain[len(p.Chain)-1]
}

func (p *RecursionLimitError) Error() string {
	var builder strings.Builder
	//
	fmt.Fprintf(&builder, "%s: macro recursion limit (%d) exceeded", p.Position(), p.Limit)
	//
	for _, pos := range p.Chain {
		fmt.Fprintf(&builder, "\n\texpanded from %s", pos)
	}
	//
	return builder.String()
}

// ExecutionError indicates a macro body itself failed (either by returning an
// error, or through a host-level panic), attributed to the originating call
// site.
type ExecutionError struct {
	// Qualified name of the failing macro.
	Macro string
	// Call site the failure is attributed to.
	Pos source.Position
	// Underlying failure.
	Err error
}

// Position returns the source position of the offending call site.
func (p *ExecutionError) Position() source.Position { return p.Pos }

// Unwrap exposes the underlying failure.
func (p *ExecutionError) Unwrap() error { return p.Err }

func (p *ExecutionError) Error() string {
	return fmt.Sprintf("%s: macro %s failed: %v", p.Pos, p.Macro, p.Err)
}

// MisplacedNoopError indicates a macro produced no replacement in a position
// where a statement is not syntactically expected, i.e. where the no-op
// sentinel would be illegal.
type MisplacedNoopError struct {
	// Qualified name of the macro which produced no replacement.
	Macro string
	// Call site.
	Pos source.Position
}

// Position returns the source position of the offending call site.
func (p *MisplacedNoopError) Position() source.Position { return p.Pos }

func (p *MisplacedNoopError) Error() string {
	return fmt.Sprintf("%s: macro %s produced no replacement outside statement position", p.Pos, p.Macro)
}
