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

// Package assertion implements aggregate assertions over a course subset,
// per spec §4.1: (command, source, operator, compare_to), plus conditional
// and dynamic-conditional variants. Modeled on the teacher's
// count/sum/min/max aggregation expressions (sql/expression/aggregation_test.go),
// here reduced over a []course.CourseInstance instead of a row set.
package assertion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// Command is the aggregate reduction applied to the source collection.
type Command string

const (
	CmdCount  Command = "count"
	CmdSum    Command = "sum"
	CmdMin    Command = "min"
	CmdMax    Command = "max"
	CmdStored Command = "stored"
)

// Source selects which attribute of each matched course feeds the command.
type Source string

const (
	SourceCourses Source = "courses"
	SourceCredits Source = "credits"
	SourceGrades  Source = "grades"
	SourceTerms   Source = "terms"
	SourceAreas   Source = "areas"
)

// Resolved is the outcome of evaluating an Assertion: the reduced value,
// the contributing subset, and the boolean result. Resolution-only mode
// (spec §4.1) simply means: call Evaluate and discard the boolean, never
// feeding the result through the Claim Ledger — that discipline lives in
// the caller (the rule/query package), not here.
type Resolved struct {
	ReducedValue  decimal.Decimal
	ResolvedItems []course.CourseInstance
	Result        bool
}

// Assertion is evaluated over a matched course subset and produces a
// Resolved outcome.
type Assertion interface {
	Evaluate(ctx predicate.EvalContext, items []course.CourseInstance) (Resolved, error)
	// InputSizeRange yields the cardinalities k in [0, max] admitted by
	// this assertion's command and operator, with the bound clamped into
	// [0, max] — used by the solver to bound candidate-subset enumeration
	// (spec §4.1).
	InputSizeRange(max int) []int
}

// NewCount builds a count(source) assertion.
func NewCount(source Source, op predicate.Operator, compareTo decimal.Decimal) Assertion {
	return &simple{command: CmdCount, source: source, op: op, compareTo: compareTo}
}

// NewSum builds a sum(source) assertion.
func NewSum(source Source, op predicate.Operator, compareTo decimal.Decimal) Assertion {
	return &simple{command: CmdSum, source: source, op: op, compareTo: compareTo}
}

// NewMin builds a min(source) assertion.
func NewMin(source Source, op predicate.Operator, compareTo decimal.Decimal) Assertion {
	return &simple{command: CmdMin, source: source, op: op, compareTo: compareTo}
}

// NewMax builds a max(source) assertion.
func NewMax(source Source, op predicate.Operator, compareTo decimal.Decimal) Assertion {
	return &simple{command: CmdMax, source: source, op: op, compareTo: compareTo}
}

// NewStored builds a "stored" assertion that compares a precomputed value
// (e.g. a proficiency's credit equivalency) rather than reducing items.
func NewStored(value decimal.Decimal, op predicate.Operator, compareTo decimal.Decimal) Assertion {
	return &simple{command: CmdStored, storedValue: value, op: op, compareTo: compareTo}
}

type simple struct {
	command     Command
	source      Source
	op          predicate.Operator
	compareTo   decimal.Decimal
	storedValue decimal.Decimal
}

func sourceValue(c course.CourseInstance, source Source) (decimal.Decimal, error) {
	switch source {
	case SourceCourses:
		return decimal.NewFromInt(1), nil
	case SourceCredits:
		return c.Credits, nil
	case SourceGrades:
		return c.GradePoints, nil
	case SourceTerms:
		return decimal.NewFromInt(int64(c.Term)), nil
	default:
		return decimal.Zero, fmt.Errorf("assertion: unsupported source %q for course reduction", source)
	}
}

func (s *simple) Evaluate(ctx predicate.EvalContext, items []course.CourseInstance) (Resolved, error) {
	if s.command == CmdStored {
		result, err := compareAgainst(s.op, s.storedValue, s.compareTo)
		return Resolved{ReducedValue: s.storedValue, Result: result}, err
	}

	switch s.command {
	case CmdCount:
		n := decimal.NewFromInt(int64(len(items)))
		result, err := compareAgainst(s.op, n, s.compareTo)
		return Resolved{ReducedValue: n, ResolvedItems: items, Result: result}, err

	case CmdSum:
		total := decimal.Zero
		for _, it := range items {
			v, err := sourceValue(it, s.source)
			if err != nil {
				return Resolved{}, err
			}
			total = total.Add(v)
		}
		result, err := compareAgainst(s.op, total, s.compareTo)
		return Resolved{ReducedValue: total, ResolvedItems: items, Result: result}, err

	case CmdMin, CmdMax:
		if len(items) == 0 {
			result, err := compareAgainst(s.op, decimal.Zero, s.compareTo)
			return Resolved{ReducedValue: decimal.Zero, Result: result}, err
		}
		best, err := sourceValue(items[0], s.source)
		if err != nil {
			return Resolved{}, err
		}
		bestItems := []course.CourseInstance{items[0]}
		for _, it := range items[1:] {
			v, err := sourceValue(it, s.source)
			if err != nil {
				return Resolved{}, err
			}
			switch {
			case s.command == CmdMin && v.LessThan(best):
				best, bestItems = v, []course.CourseInstance{it}
			case s.command == CmdMax && v.GreaterThan(best):
				best, bestItems = v, []course.CourseInstance{it}
			}
		}
		result, err := compareAgainst(s.op, best, s.compareTo)
		return Resolved{ReducedValue: best, ResolvedItems: bestItems, Result: result}, err

	default:
		return Resolved{}, fmt.Errorf("assertion: unknown command %q", s.command)
	}
}

func compareAgainst(op predicate.Operator, actual, expected decimal.Decimal) (bool, error) {
	switch op {
	case predicate.Eq:
		return actual.Equal(expected), nil
	case predicate.Neq:
		return !actual.Equal(expected), nil
	case predicate.Lt:
		return actual.LessThan(expected), nil
	case predicate.Lte:
		return actual.LessThanOrEqual(expected), nil
	case predicate.Gt:
		return actual.GreaterThan(expected), nil
	case predicate.Gte:
		return actual.GreaterThanOrEqual(expected), nil
	default:
		return false, fmt.Errorf("assertion: operator %s not valid for an aggregate comparison", op)
	}
}

// InputSizeRange implements the per-command/operator bound used by the
// solver to size candidate subsets before claiming anything: with max 5,
// count(courses) >= 4 yields 4,5 and count <= 3 yields 0,1,2,3. Assertions
// carry no at_most flag, so a >= bound always runs up to max. A >= or >
// bound above max is clamped to max, so max itself is yielded even though
// it cannot satisfy the assertion.
func (s *simple) InputSizeRange(max int) []int {
	if s.command != CmdCount || s.source != SourceCourses {
		// Non-count/non-courses assertions (sum, min, max, grades, credits)
		// don't bound cardinality directly; every size up to max remains
		// plausible.
		return rangeTo(max)
	}

	n, ok := intValue(s.compareTo)
	if !ok {
		return rangeTo(max)
	}

	switch s.op {
	case predicate.Eq:
		if n >= 0 && n <= max {
			return []int{n}
		}
		return nil
	case predicate.Gte:
		return rangeBetween(clampInt(n, 0, max), max)
	case predicate.Gt:
		return rangeBetween(clampInt(n+1, 0, max), max)
	case predicate.Lte:
		return rangeBetween(0, clampInt(n, 0, max))
	case predicate.Lt:
		return rangeBetween(0, clampInt(n-1, 0, max))
	default:
		return rangeTo(max)
	}
}

func intValue(d decimal.Decimal) (int, bool) {
	if !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rangeTo(max int) []int {
	return rangeBetween(0, max)
}

func rangeBetween(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
