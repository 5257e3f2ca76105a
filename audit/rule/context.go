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

// Package rule implements the Rule Solver (spec §4.4): the tagged rule
// tree, its pull-based solution enumerator, and the audit pass that turns
// an enumerated Solution into a Result by attempting claims and folding
// rank/status upward. Grounded on the teacher's plan-node tree
// (sql/plan) for the tagged-variant shape, and on the teacher's
// RowIter pull idiom (sql/rows_test.go) for SolutionIter.
package rule

import (
	"context"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// Context is read-only, shared-by-reference state every rule variant
// consults while enumerating. It carries no Claim Ledger: enumeration is
// purely structural (spec §4.4); claims are only attempted during Audit,
// against a ledger owned exclusively by that one attempt (spec §4.2, §5).
type Context struct {
	Go context.Context

	Eval      predicate.EvalContext
	Transcript []course.CourseInstance

	// Proficiencies lists proficiency names the student holds outside of
	// any course (spec §4.4 Proficiency rule).
	Proficiencies map[string]bool

	// Requirements resolves a Requirement rule's name reference to its
	// definition, populated once at specification load time and shared
	// read-only across every attempt (spec §6: "full requirement defined
	// under root requirements key").
	Requirements map[string]*Requirement

	// Areas is the student's other declared areas, consulted by the
	// outside-the-major common requirement (spec §9 Open Question (b)).
	Areas []course.AreaPointer
}

// cancelled reports whether the cooperative cancellation token has fired,
// checked at each yielded solution boundary per spec §5.
func (ctx *Context) cancelled() bool {
	if ctx == nil || ctx.Go == nil {
		return false
	}
	select {
	case <-ctx.Go.Done():
		return true
	default:
		return false
	}
}
