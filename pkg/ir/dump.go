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
package ir

import (
	"strings"
)

// Dump produces a human-readable structural rendering of a given node, with
// one declaration or statement per line and nesting shown through
// indentation.  This is the form exposed to external "inspect the tree"
// tooling.
func Dump(node Node) string {
	var builder strings.Builder
	//
	dumpInto(&builder, node, 0)
	//
	return builder.String()
}

func dumpInto(builder *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	//
	switch n := node.(type) {
	case *Module:
		line(builder, indent, "(module "+n.Name)
		dumpChildren(builder, n, depth+1)
		line(builder, indent, ")")
	case *ToplevelElements:
		line(builder, indent, "(toplevel")
		dumpChildren(builder, n, depth+1)
		line(builder, indent, ")")
	case *Function:
		params := n.Lisp().AsList().Get(2).String()
		line(builder, indent, "(defun "+n.Name+" "+params)
		dumpInto(builder, n.Body(), depth+1)
		line(builder, indent, ")")
	case *Block:
		line(builder, indent, "{")
		dumpChildren(builder, n, depth+1)
		line(builder, indent, "}")
	default:
		line(builder, indent, node.Lisp().String())
	}
}

func dumpChildren(builder *strings.Builder, node Node, depth int) {
	for _, c := range node.Children() {
		dumpInto(builder, c, depth)
	}
}

func line(builder *strings.Builder, indent string, text string) {
	builder.WriteString(indent)
	builder.WriteString(text)
	builder.WriteString("\n")
}
