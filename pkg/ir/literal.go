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
	"strconv"
	"strings"
)

// ParseLiteral attempts to interpret a given surface token as a literal
// constant value, returning false if the token is not a literal (and hence
// denotes a reference).  String literals arrive with their enclosing quotes
// intact.
func ParseLiteral(token string) (any, bool) {
	switch {
	case token == "nil":
		return nil, true
	case token == "true":
		return true, true
	case token == "false":
		return false, true
	case strings.HasPrefix(token, "\""):
		if s, err := strconv.Unquote(token); err == nil {
			return s, true
		}
		// Fall back on stripping the quotes for literals which are not valid
		// Go syntax (e.g. unknown escapes).
		return strings.Trim(token, "\""), true
	}
	//
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, true
	}
	//
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, true
	}
	//
	return nil, false
}
