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

// Package area implements the Area Driver & Ranker (spec §4.5): it drives
// one rule tree's solutions across every limited transcript, audits each
// candidate, and retains the best result by the ranker's tiebreak order.
package area

import (
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/stolaf-cs/degreepath/audit/rule"
)

// Event is one message in the driver's event stream (spec §4.5, §6).
// Handlers type-switch on the concrete event type.
type Event interface {
	isEvent()
}

// AuditStart is emitted once, before any solution is pulled.
type AuditStart struct {
	RunID    uuid.UUID
	AreaCode string
	StartedAt time.Time
}

func (AuditStart) isEvent() {}

// Estimate reports the sized search space, used to size a progress bar.
type Estimate struct {
	Count int
}

func (Estimate) isEvent() {}

// Progress is emitted at most once per progressInterval (one second),
// after an audited solution; there is no iteration-count trigger.
type Progress struct {
	Iterations int
	Elapsed    time.Duration
	AvgIter    time.Duration
}

func (Progress) isEvent() {}

// ResultEvent carries the final retained Result.
type ResultEvent struct {
	Result     *rule.Result
	Iterations int
	Elapsed    time.Duration
}

func (ResultEvent) isEvent() {}

// NoAuditsCompleted is emitted in place of ResultEvent when no candidate
// solution was ever produced (e.g. a root RequirementRef whose name does
// not resolve). An empty transcript against a Course rule still produces
// one failing solution, so it ends in a ResultEvent with an Empty status.
type NoAuditsCompleted struct{}

func (NoAuditsCompleted) isEvent() {}

// Cancelled is emitted instead of ResultEvent when the cooperative
// cancellation token fires mid-enumeration (spec §5).
type Cancelled struct {
	Iterations int
	Elapsed    time.Duration
}

func (Cancelled) isEvent() {}
