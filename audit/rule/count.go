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

import "github.com/stolaf-cs/degreepath/audit/assertion"

// CountRule requires Required of its Of children to pass (spec §4.4: "M of
// N", with "all" resolved to len(Of) and "any" resolved to 1 by the
// specification loader before this struct is built). AtMost caps the
// number of children counted toward rank, per spec §4.5.
type CountRule struct {
	Path Path

	Required int
	Of       []Rule
	AtMost   bool
	Audit    []assertion.Assertion
}

func (r *CountRule) NodePath() Path { return r.Path }

func (r *CountRule) Estimate(ctx *Context) int {
	n := len(r.Of)
	childEstimates := make([]int, n)
	for i, child := range r.Of {
		childEstimates[i] = child.Estimate(ctx)
	}

	acc := 0
	for _, k := range r.sizes(n) {
		for _, combo := range indexCombinations(n, k) {
			product := 1
			for _, idx := range combo {
				product *= childEstimates[idx]
			}
			acc += product
		}
	}
	return acc
}

// sizes returns the candidate child-selection cardinalities, largest
// first, per spec §4.4: "ordered by descending k (prefer complete
// solutions first)". AtMost caps the class to exactly Required.
func (r *CountRule) sizes(n int) []int {
	if r.AtMost {
		if r.Required > n {
			return nil
		}
		return []int{r.Required}
	}
	var out []int
	for k := n; k >= r.Required; k-- {
		out = append(out, k)
	}
	return out
}

func (r *CountRule) Solutions(ctx *Context) *SolutionIter {
	n := len(r.Of)

	var candidates []*Solution
	for _, k := range r.sizes(n) {
		for _, combo := range indexCombinations(n, k) {
			childLists := make([][]*Solution, len(combo))
			for i, idx := range combo {
				childLists[i] = drain(ctx, r.Of[idx].Solutions(ctx))
				if len(childLists[i]) == 0 {
					childLists[i] = []*Solution{{Path: r.Of[idx].NodePath(), Kind: KindQuery}}
				}
			}

			for _, tuple := range cartesianSolutions(childLists) {
				candidates = append(candidates, &Solution{
					Path:       r.Path,
					Kind:       KindCount,
					Children:   tuple,
					Assertions: r.Audit,
					AtMost:     r.AtMost,
				})
			}
		}
	}
	if len(candidates) == 0 {
		candidates = []*Solution{{Path: r.Path, Kind: KindCount, Assertions: r.Audit, AtMost: r.AtMost}}
	}
	return NewSolutionIter(candidates)
}

// drain exhausts an iterator into a slice — every rule variant's own
// candidate count is small enough (bounded by input_size_range or by its
// own child count) that materialising it here, rather than threading a
// second layer of lazy pulls through the cross product, keeps this
// tractable without changing the externally observed ordering.
func drain(ctx *Context, it *SolutionIter) []*Solution {
	var out []*Solution
	for {
		sol, ok, err := it.Next(ctx)
		if err != nil || !ok {
			break
		}
		out = append(out, sol)
	}
	return out
}

// indexCombinations returns every k-length combination of indices in
// [0,n), in ascending order, mirroring audit/limit's combinations helper
// but over plain indices rather than course.CourseInstance values.
func indexCombinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]int{{}}
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var out [][]int
	for {
		combo := make([]int, k)
		copy(combo, idx)
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

// cartesianSolutions returns the cross product of per-child candidate
// lists, one chosen Solution per child per output tuple.
func cartesianSolutions(lists [][]*Solution) [][]*Solution {
	if len(lists) == 0 {
		return [][]*Solution{{}}
	}
	rest := cartesianSolutions(lists[1:])
	var out [][]*Solution
	for _, head := range lists[0] {
		for _, tail := range rest {
			tuple := make([]*Solution, 0, len(tail)+1)
			tuple = append(tuple, head)
			tuple = append(tuple, tail...)
			out = append(out, tuple)
		}
	}
	return out
}
