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

// Registry resolves call-site names (possibly module-qualified) plus argument
// arity to macro definitions.  All definitions reachable from a unit must be
// registered before that unit is expanded; during expansion the registry is
// only read, so independent units may share one registry across goroutines.
//
// Resolution is deliberately simpler than general-purpose call resolution: it
// considers name and arity only, never argument types, since at expansion
// time all arguments are IR nodes rather than runtime values.
type Registry struct {
	// Definitions, keyed by defining module and then name.
	modules map[string]map[string][]*Definition
	// Modules searched as a last resort for every unit (e.g. the builtin
	// special macros).
	prelude []string
}

// NewRegistry constructs a registry pre-populated with the builtin special
// macros, which are visible to every unit.
func NewRegistry() *Registry {
	r := &Registry{modules: make(map[string]map[string][]*Definition)}
	//
	registerBuiltins(r)
	r.prelude = append(r.prelude, BuiltinModule)
	//
	return r
}

// Register adds a definition, rejecting duplicates: two definitions of the
// same module, name, arity and variadicity cannot coexist.
func (p *Registry) Register(def *Definition) error {
	names, ok := p.modules[def.Module]
	if !ok {
		names = make(map[string][]*Definition)
		p.modules[def.Module] = names
	}
	//
	for _, existing := range names[def.Name] {
		if existing.Arity == def.Arity && existing.Variadic == def.Variadic {
			return fmt.Errorf("macro %s already defined", def)
		}
	}
	//
	names[def.Name] = append(names[def.Name], def)
	//
	return nil
}

// Definitions returns all definitions registered for a given module, in no
// particular order.
func (p *Registry) Definitions(module string) []*Definition {
	var defs []*Definition
	//
	for _, ds := range p.modules[module] {
		defs = append(defs, ds...)
	}
	//
	return defs
}

// Resolve a call site against this registry, searching (a) the unit itself
// and its imports, then (b) the modules on the "use" list, then (c) the
// prelude.  The first tier containing a match wins.  Within a tier, an
// exact-arity match is strictly preferred over a variadic match; two equally
// specific matches are an AmbiguousMacroError.  An unresolvable call yields
// (nil, nil), leaving the caller to decide whether that is a fault.
func (p *Registry) Resolve(unit *ir.Module, useList []string, call *ir.Call) (*Definition, error) {
	return p.ResolveArity(unit, useList, call, call.Arity())
}

// ResolveArity resolves as Resolve does, except against an explicit argument
// count.  This is used for module-level macros, whose argument list is
// extended with the unit itself.
func (p *Registry) ResolveArity(unit *ir.Module, useList []string, call *ir.Call, arity int) (*Definition, error) {
	name := call.LocalName()
	// A module-qualified name searches only the named module.
	if qualifier := call.Qualifier(); qualifier != "" {
		return p.resolveIn([]string{qualifier}, name, arity, call)
	}
	// Tier 1: the unit itself, plus its imports.
	tier := []string{unit.Name}
	tier = append(tier, unit.Imports()...)
	//
	if def, err := p.resolveIn(tier, name, arity, call); def != nil || err != nil {
		return def, err
	}
	// Tier 2: the "use" list.
	if def, err := p.resolveIn(useList, name, arity, call); def != nil || err != nil {
		return def, err
	}
	// Tier 3: the prelude.
	return p.resolveIn(p.prelude, name, arity, call)
}

func (p *Registry) resolveIn(modules []string, name string, arity int, call *ir.Call) (*Definition, error) {
	var exact, variadic []*Definition
	//
	for _, m := range modules {
		for _, def := range p.modules[m][name] {
			if !def.Matches(arity) {
				continue
			} else if def.Variadic {
				variadic = append(variadic, def)
			} else {
				exact = append(exact, def)
			}
		}
	}
	// Exact-arity matches are strictly preferred over variadic matches.
	for _, candidates := range [][]*Definition{exact, variadic} {
		if len(candidates) == 1 {
			return candidates[0], nil
		} else if len(candidates) > 1 {
			names := make([]string, len(candidates))
			for i, c := range candidates {
				names[i] = c.String()
			}
			//
			return nil, &AmbiguousMacroError{call.Name, arity, names, call.Position()}
		}
	}
	//
	return nil, nil
}
