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
package source

import "fmt"

// Position identifies an exact point within a source file by filename, line
// number and column number (both counting from 1).  Unlike a span, a position
// survives detachment from the original file contents and, hence, is the form
// of location metadata carried on IR nodes.
type Position struct {
	// Name of the originating source file.
	Filename string
	// Line number within the file, counting from 1.
	Line int
	// Column number within the line, counting from 1.
	Column int
}

// Known determines whether this position actually identifies a point in some
// source file.  Synthesised nodes (e.g. those constructed by macros) have no
// known position.
func (p Position) Known() bool {
	return p.Filename != "" || p.Line != 0
}

// String returns this position in the conventional file:line:column form.  An
// unknown position is rendered as "<generated>".
func (p Position) String() string {
	if !p.Known() {
		return "<generated>"
	}
	//
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
