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

package assertion

import (
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// Conditional evaluates If against Subject; dispatches to Then or Else.
// A nil Else falls back to a trivial pass (mirrors predicate.Conditional's
// vacuous-true rule for a missing else branch).
type Conditional struct {
	If      predicate.Predicate
	Subject predicate.Clausable
	Then    Assertion
	Else    Assertion
}

func (c Conditional) Evaluate(ctx predicate.EvalContext, items []course.CourseInstance) (Resolved, error) {
	ok, err := predicate.Eval(c.If, ctx, c.Subject)
	if err != nil {
		return Resolved{}, err
	}
	if ok {
		return c.Then.Evaluate(ctx, items)
	}
	if c.Else == nil {
		return Resolved{Result: true}, nil
	}
	return c.Else.Evaluate(ctx, items)
}

func (c Conditional) InputSizeRange(max int) []int {
	thenRange := c.Then.InputSizeRange(max)
	if c.Else == nil {
		return thenRange
	}
	return unionInts(thenRange, c.Else.InputSizeRange(max))
}

// SetPredicate is a predicate over the whole candidate course set, as
// opposed to predicate.Predicate which only ever sees one Clausable at a
// time. Spec §4.1 calls this the "dynamic conditional: predicate whose
// input is a candidate course set".
type SetPredicate func(items []course.CourseInstance) bool

// DynamicConditional dispatches on a SetPredicate evaluated over the
// candidate set rather than a single record.
type DynamicConditional struct {
	If   SetPredicate
	Then Assertion
	Else Assertion
}

func (d DynamicConditional) Evaluate(ctx predicate.EvalContext, items []course.CourseInstance) (Resolved, error) {
	if d.If(items) {
		return d.Then.Evaluate(ctx, items)
	}
	if d.Else == nil {
		return Resolved{Result: true}, nil
	}
	return d.Else.Evaluate(ctx, items)
}

func (d DynamicConditional) InputSizeRange(max int) []int {
	thenRange := d.Then.InputSizeRange(max)
	if d.Else == nil {
		return thenRange
	}
	return unionInts(thenRange, d.Else.InputSizeRange(max))
}

func unionInts(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		seen[v] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	// keep deterministic ordering, ascending.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
