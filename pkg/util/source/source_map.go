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

// Map maps terms of some tree representation (e.g. S-expressions) to spans of
// their originating source file.  This is important for error handling when we
// wish to highlight exactly where, in the original source file, a given error
// has arisen.
type Map[T comparable] struct {
	// Source file from which the mapped terms were constructed.
	srcfile *File
	// Spans recorded for each term.
	mapping map[T]Span
}

// NewMap constructs an initially empty source map for terms of a given source
// file.
func NewMap[T comparable](srcfile *File) *Map[T] {
	return &Map[T]{srcfile, make(map[T]Span)}
}

// Source returns the source file this map is built over.
func (p *Map[T]) Source() *File {
	return p.srcfile
}

// Put records the span for a given term.  Terms can be remapped (e.g. when a
// term is rewritten during desugaring, the rewritten term inherits the span of
// the original).
func (p *Map[T]) Put(term T, span Span) {
	p.mapping[term] = span
}

// Has checks whether a given term is recorded in this map.
func (p *Map[T]) Has(term T) bool {
	_, ok := p.mapping[term]
	return ok
}

// Get returns the span recorded for a given term.  This panics if the term was
// never recorded, since that indicates a defective parser rather than a
// malformed input.
func (p *Map[T]) Get(term T) Span {
	if span, ok := p.mapping[term]; ok {
		return span
	}
	//
	panic("missing mapping for source term")
}

// Copy copies the source mapping for one term to another.  The main use of
// this is when an existing term is rewritten into some other term (e.g. during
// desugaring).
func (p *Map[T]) Copy(from T, to T) {
	if span, ok := p.mapping[from]; ok {
		p.mapping[to] = span
	}
}

// PositionOf determines the position of a given term in the originating
// source file, or an unknown position if the term was never recorded.
func (p *Map[T]) PositionOf(term T) Position {
	if span, ok := p.mapping[term]; ok {
		return p.srcfile.PositionOf(span.Start())
	}
	//
	return Position{}
}

// SyntaxError constructs a syntax error for a given term contained within the
// source file managed by this map.
func (p *Map[T]) SyntaxError(term T, msg string) *SyntaxError {
	return p.srcfile.SyntaxError(p.Get(term), msg)
}

// SyntaxErrors is really just a helper which constructs a syntax error and
// then places it into an array of size one.  This is helpful for situations
// where sets of syntax errors are being passed around.
func (p *Map[T]) SyntaxErrors(term T, msg string) []SyntaxError {
	return []SyntaxError{*p.SyntaxError(term, msg)}
}
