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

// Package limit implements the Limit Engine (spec §4.3): per-area "at
// most N courses/credits matching predicate P" constraints, and the
// lazy-cartesian "limited transcripts" enumerator over them. Grounded
// directly on original_source/dp/limit.py's Limit/LimitSet algorithm.
package limit

import (
	"math/big"

	"github.com/mitchellh/hashstructure"
	"github.com/shopspring/decimal"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// Unit is what a Limit's at_most counts against.
type Unit int

const (
	Courses Unit = iota
	Credits
)

// Limit is a single "at most N courses|credits matching where" constraint.
type Limit struct {
	AtMost  decimal.Decimal
	Unit    Unit
	Where   predicate.Predicate
	Message string
}

// matches reports whether c satisfies this limit's where clause.
func (l Limit) matches(ctx predicate.EvalContext, c course.CourseInstance) (bool, error) {
	return predicate.Eval(l.Where, ctx, c)
}

// combinations returns every k-length combination of items, preserving
// items' relative order within each combination (mirrors Python's
// itertools.combinations, which dp/limit.py relies on directly).
func combinations(items []course.CourseInstance, k int) [][]course.CourseInstance {
	n := len(items)
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]course.CourseInstance{{}}
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]course.CourseInstance
	for {
		combo := make([]course.CourseInstance, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		out = append(out, combo)

		// advance idx like an odometer with the combinations constraint
		// (each position must stay less than the ones after it).
		pos := k - 1
		for pos >= 0 && idx[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			break
		}
		idx[pos]++
		for i := pos + 1; i < k; i++ {
			idx[i] = idx[i-1] + 1
		}
	}
	return out
}

// iterateCourses yields every combination of 0..at_most matching courses,
// per dp/limit.py's Limit.iterate_courses.
func (l Limit) iterateCourses(matched []course.CourseInstance) [][]course.CourseInstance {
	max := int(l.AtMost.IntPart())
	if max > len(matched) {
		max = len(matched)
	}
	var out [][]course.CourseInstance
	for n := 0; n <= max; n++ {
		out = append(out, combinations(matched, n)...)
	}
	return out
}

// iterateCredits yields every combination of matched courses whose total
// credits stay within at_most, per dp/limit.py's Limit.iterate_credits.
func (l Limit) iterateCredits(matched []course.CourseInstance) [][]course.CourseInstance {
	total := decimal.Zero
	for _, c := range matched {
		total = total.Add(c.Credits)
	}
	if total.LessThanOrEqual(l.AtMost) {
		return [][]course.CourseInstance{append([]course.CourseInstance(nil), matched...)}
	}

	var out [][]course.CourseInstance
	for n := 0; n <= len(matched); n++ {
		for _, combo := range combinations(matched, n) {
			sum := decimal.Zero
			for _, c := range combo {
				sum = sum.Add(c.Credits)
			}
			if sum.LessThanOrEqual(l.AtMost) {
				out = append(out, combo)
			}
		}
	}
	return out
}

// iterate dispatches on Unit, per dp/limit.py's Limit.iterate.
func (l Limit) iterate(matched []course.CourseInstance) [][]course.CourseInstance {
	course.SortByCanonicalOrder(matched)
	switch l.Unit {
	case Credits:
		return l.iterateCredits(matched)
	default:
		return l.iterateCourses(matched)
	}
}

// Estimate returns sum(C(n,k)) for k in [0,at_most] (Courses) or
// [1,len(courses)] (Credits), per spec §4.3 and dp/limit.py's estimate.
func (l Limit) Estimate(matched []course.CourseInstance) int {
	n := len(matched)
	acc := 0

	switch l.Unit {
	case Credits:
		for k := 1; k <= n; k++ {
			acc += ncr(n, k)
		}
	default:
		max := int(l.AtMost.IntPart())
		if max > n {
			max = n
		}
		for k := 0; k <= max; k++ {
			acc += ncr(n, k)
		}
	}
	return acc
}

func ncr(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	num := big.NewInt(1)
	den := big.NewInt(1)
	for i := 0; i < k; i++ {
		num.Mul(num, big.NewInt(int64(n-i)))
		den.Mul(den, big.NewInt(int64(i+1)))
	}
	num.Div(num, den)
	if !num.IsInt64() {
		return int(^uint(0) >> 1) // saturate rather than overflow
	}
	return int(num.Int64())
}

// LimitSet is the ordered tuple of Limits applied to a transcript.
type LimitSet struct {
	Limits []Limit
}

// HasLimits reports whether any Limit is configured.
func (s LimitSet) HasLimits() bool {
	return len(s.Limits) > 0
}

// Estimate sums each Limit's own combinatorial estimate against the
// courses matching it, used to size the driver's progress bar (spec §4.3).
func (s LimitSet) Estimate(ctx predicate.EvalContext, courses []course.CourseInstance) (int, error) {
	if !s.HasLimits() {
		return 1, nil
	}

	acc := 0
	for _, l := range s.Limits {
		var matched []course.CourseInstance
		for _, c := range courses {
			ok, err := l.matches(ctx, c)
			if err != nil {
				return 0, err
			}
			if ok {
				matched = append(matched, c)
			}
		}
		acc += l.Estimate(matched)
	}
	return acc, nil
}

// Check reports whether courses, taken together, satisfy every Limit —
// i.e. no Limit's matching subset exceeds its at_most. Mirrors
// dp/limit.py's LimitSet.check.
func (s LimitSet) Check(ctx predicate.EvalContext, courses []course.CourseInstance) (bool, error) {
	counters := make(map[int]decimal.Decimal, len(s.Limits))

	for _, c := range courses {
		for i, l := range s.Limits {
			ok, err := l.matches(ctx, c)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			if counters[i].GreaterThanOrEqual(l.AtMost) {
				return false, nil
			}
			switch l.Unit {
			case Credits:
				counters[i] = counters[i].Add(c.Credits)
			default:
				counters[i] = counters[i].Add(decimal.NewFromInt(1))
			}
		}
	}
	return true, nil
}

// frozenSetHash computes a structural identity for a course subset,
// independent of ordering, used to deduplicate emitted limited
// transcripts (spec §4.3 "deduplicate by the frozen set identity").
func frozenSetHash(courses []course.CourseInstance) (uint64, error) {
	clbids := make([]string, 0, len(courses))
	for _, c := range courses {
		clbids = append(clbids, string(c.Clbid))
	}
	// sort for order-independence
	for i := 1; i < len(clbids); i++ {
		for j := i; j > 0 && clbids[j-1] > clbids[j]; j-- {
			clbids[j-1], clbids[j] = clbids[j], clbids[j-1]
		}
	}
	return hashstructure.Hash(clbids, nil)
}
