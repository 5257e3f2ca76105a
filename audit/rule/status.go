// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rule

// Status is a node's pass/fail disposition, ordered into the lattice spec
// §4.5 describes from best to worst: Waived, Done, PendingCurrent,
// PendingRegistered, NeedsMoreItems, Empty.
type Status int

const (
	Waived Status = iota
	Done
	PendingCurrent
	PendingRegistered
	NeedsMoreItems
	Empty
)

func (s Status) String() string {
	switch s {
	case Waived:
		return "waived"
	case Done:
		return "done"
	case PendingCurrent:
		return "pending-current"
	case PendingRegistered:
		return "pending-registered"
	case NeedsMoreItems:
		return "needs-more-items"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// IsOK reports whether a node in this status counts toward a passing audit,
// per spec §6's exit-status contract: ok iff status is one of Pass (here
// Done), Waived, PendingCurrent, or PendingRegistered.
func (s Status) IsOK() bool {
	switch s {
	case Done, Waived, PendingCurrent, PendingRegistered:
		return true
	default:
		return false
	}
}

// Worst returns the worst (highest-ordinal) status among statuses, the
// aggregation rule spec §4.5 assigns to an internal node: "the worst status
// over its contributing children." An empty input is vacuously Waived —
// callers with no children to aggregate over should not call this; Count
// and Query rules always supply at least one contributing status.
func Worst(statuses ...Status) Status {
	worst := Waived
	for _, s := range statuses {
		if s > worst {
			worst = s
		}
	}
	return worst
}
