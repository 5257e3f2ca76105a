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
	"github.com/stolaf-cs/degreepath/audit/limit"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// Source selects which collection a Query rule draws candidates from
// (spec §6: "from: source").
type Source int

const (
	SourceTranscript Source = iota
	SourceClaimed
	SourceAreas
	SourcePerformances
)

// QueryRule selects a source collection, filters it by Where, and
// enumerates candidate subsets whose cardinality is consistent with its
// assertions' input_size_range (spec §4.4).
type QueryRule struct {
	Path Path

	From       Source
	Where      predicate.Predicate
	Assertions []assertion.Assertion
	Limits     limit.LimitSet

	// AllowClaimed permits this query to select courses regardless of
	// whether another path already claimed them. Claim is whether the
	// selected courses should be claimed at all. The specification loader
	// defaults Claim to true and AllowClaimed to false; the struct's zero
	// value leaves both false.
	// Per spec §4.4, either AllowClaimed or !Claim skips claim
	// enforcement entirely (the cross-major common-requirement pattern).
	AllowClaimed bool
	Claim        bool
}

func (r *QueryRule) NodePath() Path { return r.Path }

func (r *QueryRule) claimCourses() bool {
	return r.Claim && !r.AllowClaimed
}

func (r *QueryRule) pool(ctx *Context) ([]course.CourseInstance, error) {
	var source []course.CourseInstance
	switch r.From {
	case SourceClaimed:
		// Simplification: within one audit attempt, the set of courses
		// already claimed elsewhere isn't visible during structural
		// enumeration (claiming happens later, during Audit — spec
		// §4.2's "one instance per candidate solution attempt" ledger
		// lifetime). The common-requirement rules this mirrors
		// (original_source/degreepath/area.py's prepare_common_rules)
		// all read "from: courses" with claim:false regardless, so the
		// distinction is not load-bearing for any rule this solver
		// builds; both sources draw from the full transcript.
		source = ctx.Transcript
	case SourceAreas, SourcePerformances:
		// Neither area pointers nor performance records are
		// course.CourseInstance-shaped, so they cannot feed the same
		// combinatorial course-subset enumeration; callers needing
		// those sources should use a Conditional rule keyed on a
		// predicate over ctx.Areas directly instead.
		return nil, nil
	default:
		source = ctx.Transcript
	}

	if r.Where == nil {
		return append([]course.CourseInstance(nil), source...), nil
	}

	var matched []course.CourseInstance
	for _, c := range source {
		ok, err := predicate.Eval(r.Where, ctx.Eval, c)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (r *QueryRule) Estimate(ctx *Context) int {
	matched, err := r.pool(ctx)
	if err != nil {
		return 0
	}
	sizes := r.candidateSizes(len(matched))
	acc := 0
	for _, k := range sizes {
		acc += nCr(len(matched), k)
	}
	return acc
}

// candidateSizes intersects every assertion's input_size_range, so the
// solver never builds a subset no assertion could possibly accept
// (spec §4.1, §4.4).
func (r *QueryRule) candidateSizes(max int) []int {
	if len(r.Assertions) == 0 {
		sizes := make([]int, max+1)
		for i := range sizes {
			sizes[i] = i
		}
		return sizes
	}

	allowed := make(map[int]int)
	for _, a := range r.Assertions {
		for _, k := range a.InputSizeRange(max) {
			allowed[k]++
		}
	}

	var out []int
	for k, count := range allowed {
		if count == len(r.Assertions) {
			out = append(out, k)
		}
	}
	// descending: prefer larger, more-complete subsets first (spec §4.4).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] < out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (r *QueryRule) Solutions(ctx *Context) *SolutionIter {
	matched, err := r.pool(ctx)
	if err != nil {
		return NewSolutionIter(nil)
	}
	course.SortByCanonicalOrder(matched)

	sizes := r.candidateSizes(len(matched))
	claimCourses := r.claimCourses()

	var candidates []*Solution
	for _, k := range sizes {
		for _, combo := range combinations(matched, k) {
			if r.Limits.HasLimits() {
				ok, err := r.Limits.Check(ctx.Eval, combo)
				if err != nil || !ok {
					continue
				}
			}
			candidates = append(candidates, &Solution{
				Path:         r.Path,
				Kind:         KindQuery,
				Courses:      combo,
				Assertions:   r.Assertions,
				ClaimCourses: claimCourses,
			})
		}
	}
	if len(candidates) == 0 {
		candidates = []*Solution{{Path: r.Path, Kind: KindQuery, Assertions: r.Assertions, ClaimCourses: claimCourses}}
	}
	return NewSolutionIter(candidates)
}

// combinations returns every k-length combination of items, preserving
// relative order (mirrors audit/limit's own combinations helper, kept
// separate here to avoid an import-only-for-one-function dependency).
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

func nCr(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	num, den := 1, 1
	for i := 0; i < k; i++ {
		num *= n - i
		den *= i + 1
	}
	return num / den
}
