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

import "github.com/stolaf-cs/degreepath/audit/predicate"

// ConditionalRule evaluates If against Subject and dispatches to WhenTrue
// or WhenFalse (spec §4.4). A missing WhenFalse becomes a waived pass.
// Subject is typically the area's own declared pointer or constant
// record — the predicate here evaluates once per audit, not once per
// course, so there is exactly one active branch for a given Context.
type ConditionalRule struct {
	Path Path

	If        predicate.Predicate
	Subject   predicate.Clausable
	WhenTrue  Rule
	WhenFalse Rule // nil means a missing else: waived pass
}

func (r *ConditionalRule) NodePath() Path { return r.Path }

func (r *ConditionalRule) branch(ctx *Context) (Rule, bool, error) {
	ok, err := predicate.Eval(r.If, ctx.Eval, r.Subject)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return r.WhenTrue, false, nil
	}
	if r.WhenFalse == nil {
		return nil, true, nil
	}
	return r.WhenFalse, false, nil
}

func (r *ConditionalRule) Estimate(ctx *Context) int {
	branch, waived, err := r.branch(ctx)
	if err != nil || waived {
		return 1
	}
	return branch.Estimate(ctx)
}

func (r *ConditionalRule) Solutions(ctx *Context) *SolutionIter {
	branch, waived, err := r.branch(ctx)
	if err != nil {
		return NewSolutionIter(nil)
	}
	if waived {
		return NewSolutionIter([]*Solution{{Path: r.Path, Kind: KindConditional, Waived: true}})
	}

	var candidates []*Solution
	for _, childSol := range drain(ctx, branch.Solutions(ctx)) {
		candidates = append(candidates, &Solution{
			Path: r.Path, Kind: KindConditional, Children: []*Solution{childSol},
		})
	}
	return NewSolutionIter(candidates)
}
