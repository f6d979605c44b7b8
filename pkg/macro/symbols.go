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
	"sync/atomic"
)

// symbolPrefix is deliberately unpronounceable, so that generated names
// cannot collide with user-chosen names by accident.
const symbolPrefix = "__$$"

// symbolCounter is the process-wide monotonic counter behind FreshName.
var symbolCounter atomic.Uint64

// FreshName returns a name guaranteed never previously returned within this
// process.  The optional hint, when non-empty, is embedded in the name to aid
// debugging of expanded trees.  Macros use fresh names to introduce local
// bindings which are invisible to, and non-capturing of, bindings at the call
// site.
func FreshName(hint string) string {
	n := symbolCounter.Add(1)
	//
	if hint == "" {
		return fmt.Sprintf("%s_%d", symbolPrefix, n)
	}
	//
	return fmt.Sprintf("%s_%s_%d", symbolPrefix, hint, n)
}
