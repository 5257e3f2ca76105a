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

import (
	"github.com/stolaf-cs/degreepath/audit/assertion"
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/path"
)

// Kind tags which rule variant a Solution node was produced by.
type Kind int

const (
	KindCourse Kind = iota
	KindCount
	KindQuery
	KindRequirement
	KindProficiency
	KindConditional
)

// Solution is a rule tree decorated with concrete, but not yet audited,
// choices (spec §3): every Query leaf has resolved its candidate course
// set; every Count has committed its selected children. No claim has been
// attempted against a ledger yet — that happens in Audit.
type Solution struct {
	Path Path
	Kind Kind

	// Courses holds the chosen course(s) for a Course or Query leaf.
	Courses []course.CourseInstance

	// Children holds the committed sub-solutions for Count, Requirement,
	// Proficiency, and Conditional nodes.
	Children []*Solution

	// Assertions carries a Query or Count node's audit-time aggregate
	// clauses, evaluated during Audit rather than during enumeration
	// (spec §4.4: "those are evaluated at audit time, not during
	// enumeration").
	Assertions []assertion.Assertion

	// ClaimCourses reports whether the leaf's chosen courses should be
	// claimed at all during Audit. False for allow_claimed/claim:false
	// Query variants used by cross-major common requirements (spec §4.4,
	// §6).
	ClaimCourses bool

	// AtMost marks a Count rule whose rank must be clamped so that extra
	// passing children beyond its cap don't inflate rank (spec §4.5).
	AtMost bool

	// Waived marks a Requirement or Proficiency node that short-circuits
	// to a waived pass without consulting its child at all.
	Waived         bool
	WaivedReason   string
	ProficiencyHit bool
}

// Path is a local alias so callers of this package don't need a second
// import for the identical audit/path type.
type Path = path.Path

// SolutionIter pulls one structural Solution at a time. Candidates are
// precomputed into an ordered slice at construction — the branching
// factor of a single rule node is bounded by its own children (spec
// §4.4's "input_size_range" bounds cardinality before anything is
// enumerated) — and then drip-fed through Next, mirroring the same
// slice-plus-cursor shape audit/limit.TranscriptIter uses for its own
// lazy cartesian walk.
type SolutionIter struct {
	candidates []*Solution
	pos        int
}

// NewSolutionIter wraps a precomputed, already-ordered candidate slice.
func NewSolutionIter(candidates []*Solution) *SolutionIter {
	return &SolutionIter{candidates: candidates}
}

// Next returns the next candidate Solution, or ok=false once exhausted.
func (it *SolutionIter) Next(ctx *Context) (*Solution, bool, error) {
	if ctx.cancelled() {
		return nil, false, nil
	}
	if it.pos >= len(it.candidates) {
		return nil, false, nil
	}
	sol := it.candidates[it.pos]
	it.pos++
	return sol, true, nil
}

// Rule is a node in the specification's rule tree (spec §3 RuleTree).
// Every variant enumerates its own candidate Solutions and knows how to
// size the search space it represents without committing anything.
type Rule interface {
	NodePath() Path
	Estimate(ctx *Context) int
	Solutions(ctx *Context) *SolutionIter
}
