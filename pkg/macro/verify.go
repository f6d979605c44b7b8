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
	"github.com/quill-lang/quill/pkg/ir"
)

// VerifyExpanded checks a tree against the output contract of expansion: no
// marked macro calls may remain, and no placeholder may sit outside
// statement position.  Marked calls injected into already-visited subtrees
// are never revisited by the engine, so they surface here rather than being
// silently expanded.
func VerifyExpanded(root ir.Node) []error {
	var errors []error
	//
	walk(root, func(node ir.Node) {
		switch n := node.(type) {
		case *ir.Call:
			if n.Marked {
				errors = append(errors, &UnresolvedMacroError{n.Name, n.Arity(), n.Position()})
			}
		case *ir.Noop:
			if parent := n.Parent(); parent != nil && !statementPosition(parent) {
				errors = append(errors, &MisplacedNoopError{n.Comment, n.Position()})
			}
		}
	})
	//
	return errors
}

// walk applies a function to every node of a tree, parents before children.
func walk(node ir.Node, fn func(ir.Node)) {
	fn(node)
	//
	for _, child := range node.Children() {
		walk(child, fn)
	}
}
