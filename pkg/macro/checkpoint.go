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

// Checkpoint identifies one of the stages at which the IR of a unit is
// retained for external "inspect the tree" tooling.
type Checkpoint uint8

const (
	// AsParsed is the IR as delivered by the parser, before any expansion.
	AsParsed Checkpoint = iota
	// PostExpansion is the IR immediately after macro expansion completed.
	PostExpansion
	// PreLowering is the IR as handed to the semantic-check/lowering stage.
	PreLowering
)

func (c Checkpoint) String() string {
	switch c {
	case AsParsed:
		return "parsed"
	case PostExpansion:
		return "expanded"
	case PreLowering:
		return "final"
	}
	//
	return "unknown"
}

// ParseCheckpoint maps the surface names accepted by tooling (e.g. the
// --stage flag) onto checkpoints.
func ParseCheckpoint(name string) (Checkpoint, bool) {
	switch name {
	case "parsed":
		return AsParsed, true
	case "expanded":
		return PostExpansion, true
	case "final":
		return PreLowering, true
	}
	//
	return 0, false
}

// Checkpoints retains, per compilation unit, a structural dump of the IR at
// each stage.  Dumps are taken eagerly (the tree is mutated in place between
// stages, so a deferred dump would observe the wrong tree).
type Checkpoints struct {
	dumps [3]string
}

// Record takes a structural dump of the given unit at a given stage.
func (p *Checkpoints) Record(stage Checkpoint, unit *ir.Module) {
	p.dumps[stage] = ir.Dump(unit)
}

// Get returns the dump recorded at a given stage, or the empty string if the
// unit never reached that stage.
func (p *Checkpoints) Get(stage Checkpoint) string {
	return p.dumps[stage]
}
