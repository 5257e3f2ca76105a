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

// ProficiencyRule passes if a named proficiency is held in context, or
// else delegates to its nested Course rule (spec §4.4). Course is nil
// when the specification names no fallback course.
type ProficiencyRule struct {
	Path   Path
	Name   string
	Course *CourseRule
}

func (r *ProficiencyRule) NodePath() Path { return r.Path }

func (r *ProficiencyRule) held(ctx *Context) bool {
	return ctx.Proficiencies[r.Name]
}

func (r *ProficiencyRule) Estimate(ctx *Context) int {
	if r.held(ctx) {
		return 1
	}
	if r.Course == nil {
		return 1
	}
	return r.Course.Estimate(ctx)
}

func (r *ProficiencyRule) Solutions(ctx *Context) *SolutionIter {
	if r.held(ctx) {
		return NewSolutionIter([]*Solution{{Path: r.Path, Kind: KindProficiency, Waived: true, ProficiencyHit: true}})
	}
	if r.Course == nil {
		return NewSolutionIter([]*Solution{{Path: r.Path, Kind: KindProficiency}})
	}

	var candidates []*Solution
	for _, childSol := range drain(ctx, r.Course.Solutions(ctx)) {
		candidates = append(candidates, &Solution{
			Path: r.Path, Kind: KindProficiency, Children: []*Solution{childSol},
		})
	}
	return NewSolutionIter(candidates)
}
