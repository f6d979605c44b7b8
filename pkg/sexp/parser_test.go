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
package sexp

import (
	"testing"

	"github.com/quill-lang/quill/pkg/util/source"
)

func Test_Parser_01(t *testing.T) {
	testRoundTrip(t, "x")
}

func Test_Parser_02(t *testing.T) {
	testRoundTrip(t, "()")
}

func Test_Parser_03(t *testing.T) {
	testRoundTrip(t, "(x)")
}

func Test_Parser_04(t *testing.T) {
	testRoundTrip(t, "(x y z)")
}

func Test_Parser_05(t *testing.T) {
	testRoundTrip(t, "(x (y z))")
}

func Test_Parser_06(t *testing.T) {
	testRoundTrip(t, "{x y}")
}

func Test_Parser_07(t *testing.T) {
	testRoundTrip(t, "(f a {(g b)})")
}

func Test_Parser_08(t *testing.T) {
	testParse(t, "(x ; comment\n y)", "(x y)")
}

func Test_Parser_09(t *testing.T) {
	testParse(t, "  ( x\n\ty )  ", "(x y)")
}

func Test_Parser_10(t *testing.T) {
	testRoundTrip(t, "(print \"hello world\")")
}

func Test_Parser_11(t *testing.T) {
	testParse(t, "(f \"a;b\")", "(f \"a;b\")")
}

func Test_Parser_12(t *testing.T) {
	testRoundTrip(t, "(&f a b)")
}

// Malformed inputs

func Test_Parser_20(t *testing.T) {
	testParseErr(t, "(x")
}

func Test_Parser_21(t *testing.T) {
	testParseErr(t, "x)")
}

func Test_Parser_22(t *testing.T) {
	testParseErr(t, "{x")
}

func Test_Parser_23(t *testing.T) {
	testParseErr(t, "(x}")
}

func Test_Parser_24(t *testing.T) {
	testParseErr(t, "\"unterminated")
}

func Test_Parser_25(t *testing.T) {
	testParseErr(t, "(x) y (z)")
}

// Multiple terms

func Test_ParseAll_01(t *testing.T) {
	terms, _, err := ParseAll(srcOf("(a) (b c) {d}"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(terms))
	}
}

// Source positions

func Test_ParseSpans_01(t *testing.T) {
	srcfile := srcOf("(f abc)")
	//
	term, srcmap, err := Parse(srcfile)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	//
	if span := srcmap.Get(term); span.Start() != 0 {
		t.Errorf("expected list span at 0, got %d", span.Start())
	}
	//
	arg := term.AsList().Get(1)
	if span := srcmap.Get(arg); span.Start() != 3 || span.End() != 6 {
		t.Errorf("unexpected symbol span %d..%d", span.Start(), span.End())
	}
}

// ============================================================================
// Helpers
// ============================================================================

func srcOf(input string) *source.File {
	return source.NewFile("test.quill", []byte(input))
}

func testRoundTrip(t *testing.T, input string) {
	testParse(t, input, input)
}

func testParse(t *testing.T, input string, expected string) {
	term, _, err := Parse(srcOf(input))
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %s", input, err)
	}
	//
	if term.String() != expected {
		t.Errorf("parsing %q gave %s, expected %s", input, term.String(), expected)
	}
}

func testParseErr(t *testing.T, input string) {
	if _, _, err := Parse(srcOf(input)); err == nil {
		t.Errorf("expected syntax error parsing %q", input)
	}
}
