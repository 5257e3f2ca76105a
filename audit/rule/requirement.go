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

// Requirement is a named wrapper around a child rule (spec §3, §6: "full
// requirement defined under root requirements key"). It may be marked as
// externally audited, in which case it waives to a pass without
// consulting its child at all (spec §4.4).
type Requirement struct {
	Path Path
	Name string

	Child Rule

	DepartmentAudited bool
	RegistrarAudited  bool
	Message           string
}

func (r *Requirement) NodePath() Path { return r.Path }

func (r *Requirement) waived() bool {
	return r.DepartmentAudited || r.RegistrarAudited
}

func (r *Requirement) Estimate(ctx *Context) int {
	if r.waived() {
		return 1
	}
	return r.Child.Estimate(ctx)
}

func (r *Requirement) Solutions(ctx *Context) *SolutionIter {
	if r.waived() {
		return NewSolutionIter([]*Solution{{
			Path: r.Path, Kind: KindRequirement, Waived: true, WaivedReason: r.Message,
		}})
	}

	var candidates []*Solution
	for _, childSol := range drain(ctx, r.Child.Solutions(ctx)) {
		candidates = append(candidates, &Solution{
			Path: r.Path, Kind: KindRequirement, Children: []*Solution{childSol},
		})
	}
	return NewSolutionIter(candidates)
}

// RequirementRef is the `{requirement: name}` reference node (spec §6):
// it resolves Name against ctx.Requirements, populated once at
// specification load time, and delegates entirely to that definition.
type RequirementRef struct {
	Path Path
	Name string
}

func (r *RequirementRef) NodePath() Path { return r.Path }

func (r *RequirementRef) Estimate(ctx *Context) int {
	def, ok := ctx.Requirements[r.Name]
	if !ok {
		return 0
	}
	return def.Estimate(ctx)
}

func (r *RequirementRef) Solutions(ctx *Context) *SolutionIter {
	def, ok := ctx.Requirements[r.Name]
	if !ok {
		return NewSolutionIter(nil)
	}
	return def.Solutions(ctx)
}
