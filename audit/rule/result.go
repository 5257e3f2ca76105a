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
	"github.com/stolaf-cs/degreepath/audit/auditerr"
	"github.com/stolaf-cs/degreepath/audit/claim"
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/rational"
)

// Result is a Solution that has been audited (spec §3): every leaf carries
// pass/fail, rank, max_rank, status, and the claim attempts it produced.
type Result struct {
	Path     Path
	Kind     Kind
	Rank     rational.Fraction
	MaxRank  rational.Fraction
	Status   Status
	Claims   []claim.ClaimAttempt
	Children []*Result
	Resolved []assertion.Resolved
	Matched  []course.CourseInstance
}

// IsOK reports whether this result counts as a passing audit outcome
// (spec §6).
func (r *Result) IsOK() bool {
	return r.Status.IsOK()
}

// Audit walks sol bottom-up, attempting claims against ledger in canonical
// path order and folding rank/status upward (spec §4.5: "pure
// transformation: solution -> result"). ledger must be freshly constructed
// for this one attempt — Audit is the only place in this package that
// mutates a Claim Ledger.
func Audit(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	switch sol.Kind {
	case KindCourse:
		return auditCourse(ledger, sol)
	case KindQuery:
		return auditQuery(ctx, ledger, sol)
	case KindCount:
		return auditCount(ctx, ledger, sol)
	case KindRequirement:
		return auditRequirement(ctx, ledger, sol)
	case KindProficiency:
		return auditProficiency(ctx, ledger, sol)
	case KindConditional:
		return auditConditional(ctx, ledger, sol)
	default:
		return nil, auditerr.Invariant(sol.Path.String(), "unknown rule kind")
	}
}

func auditCourse(ledger *claim.Ledger, sol *Solution) (*Result, error) {
	maxRank := rational.One
	if len(sol.Courses) == 0 {
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: maxRank, Status: Empty}, nil
	}

	c := sol.Courses[0]
	var claims []claim.ClaimAttempt
	passed := true
	if sol.ClaimCourses {
		attempt, err := ledger.Claim(c, sol.Path)
		if err != nil {
			return nil, err
		}
		claims = append(claims, attempt)
		passed = !attempt.Failed
	}

	if passed {
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: maxRank, MaxRank: maxRank, Status: Done, Claims: claims, Matched: sol.Courses}, nil
	}
	return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: maxRank, Status: NeedsMoreItems, Claims: claims, Matched: sol.Courses}, nil
}

func auditQuery(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	maxRank := rational.One

	if len(sol.Courses) == 0 {
		resolved, err := evaluateAssertions(ctx, sol.Assertions, nil)
		if err != nil {
			return nil, err
		}
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: maxRank, Status: Empty, Resolved: resolved}, nil
	}

	var claims []claim.ClaimAttempt
	anyClaimFailed := false
	if sol.ClaimCourses {
		for _, c := range sol.Courses {
			attempt, err := ledger.Claim(c, sol.Path)
			if err != nil {
				return nil, err
			}
			claims = append(claims, attempt)
			if attempt.Failed {
				anyClaimFailed = true
			}
		}
	}

	resolved, err := evaluateAssertions(ctx, sol.Assertions, sol.Courses)
	if err != nil {
		return nil, err
	}

	allPass := true
	for _, r := range resolved {
		if !r.Result {
			allPass = false
			break
		}
	}

	switch {
	case anyClaimFailed:
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: maxRank, Status: NeedsMoreItems, Claims: claims, Resolved: resolved, Matched: sol.Courses}, nil
	case allPass:
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: maxRank, MaxRank: maxRank, Status: Done, Claims: claims, Resolved: resolved, Matched: sol.Courses}, nil
	default:
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: maxRank, Status: pendingStatus(sol.Courses), Claims: claims, Resolved: resolved, Matched: sol.Courses}, nil
	}
}

// pendingStatus distinguishes "might still pass once in-progress work
// lands" from an outright shortfall, per the status lattice (spec §4.5).
func pendingStatus(courses []course.CourseInstance) Status {
	hasCurrent := false
	hasRegistered := false
	for _, c := range courses {
		if c.IsInProgressThisTerm {
			hasCurrent = true
		}
		if c.IsInProgressInFuture {
			hasRegistered = true
		}
	}
	switch {
	case hasCurrent:
		return PendingCurrent
	case hasRegistered:
		return PendingRegistered
	default:
		return NeedsMoreItems
	}
}

func evaluateAssertions(ctx *Context, assertions []assertion.Assertion, items []course.CourseInstance) ([]assertion.Resolved, error) {
	out := make([]assertion.Resolved, 0, len(assertions))
	for _, a := range assertions {
		resolved, err := a.Evaluate(ctx.Eval, items)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func auditCount(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	children := make([]*Result, 0, len(sol.Children))
	for _, child := range sol.Children {
		r, err := Audit(ctx, ledger, child)
		if err != nil {
			return nil, err
		}
		children = append(children, r)
	}

	sumRank := rational.Zero
	sumMax := rational.Zero
	statuses := make([]Status, 0, len(children))
	for _, c := range children {
		sumRank = sumRank.Add(c.Rank)
		sumMax = sumMax.Add(c.MaxRank)
		statuses = append(statuses, c.Status)
	}

	selfMax := rational.One
	rank := selfMax
	if !sumMax.IsZero() {
		rank = sumRank.Div(sumMax).Mul(selfMax)
	}
	if sol.AtMost {
		// extra passing children beyond the configured cap must not
		// inflate rank past what the cap represents (spec §4.5).
		rank = rational.Clamp(rank, rational.Zero, selfMax)
	}
	if selfMax.LessThan(rank) {
		return nil, auditerr.Invariant(sol.Path.String(), "rank exceeds max_rank")
	}

	status := Worst(statuses...)
	if len(children) == 0 {
		status = Done // "M=0 passes vacuously with rank = max_rank" (spec §8)
		rank = selfMax
	} else if rank.Equal(selfMax) {
		// every committed child pulled its full weight; a Waived child
		// set stays Waived only if every child is Waived.
		allWaived := true
		for _, s := range statuses {
			if s != Waived {
				allWaived = false
				break
			}
		}
		if allWaived {
			status = Waived
		} else {
			status = Done
		}
	}

	var claims []claim.ClaimAttempt
	var resolved []assertion.Resolved
	var matched []course.CourseInstance
	for _, c := range children {
		claims = append(claims, c.Claims...)
		matched = append(matched, c.Matched...)
	}
	if len(sol.Assertions) > 0 {
		r, err := evaluateAssertions(ctx, sol.Assertions, matched)
		if err != nil {
			return nil, err
		}
		resolved = r
		for _, res := range r {
			if !res.Result {
				rank = rational.Zero
				if status == Done || status == Waived {
					status = NeedsMoreItems
				}
			}
		}
	}

	return &Result{
		Path: sol.Path, Kind: sol.Kind, Rank: rank, MaxRank: selfMax, Status: status,
		Claims: claims, Children: children, Resolved: resolved, Matched: matched,
	}, nil
}

func auditRequirement(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	if sol.Waived {
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.One, MaxRank: rational.One, Status: Waived}, nil
	}
	if len(sol.Children) != 1 {
		return nil, auditerr.Invariant(sol.Path.String(), "requirement rule must wrap exactly one child")
	}
	child, err := Audit(ctx, ledger, sol.Children[0])
	if err != nil {
		return nil, err
	}
	return &Result{
		Path: sol.Path, Kind: sol.Kind, Rank: child.Rank, MaxRank: child.MaxRank, Status: child.Status,
		Claims: child.Claims, Children: []*Result{child}, Matched: child.Matched,
	}, nil
}

func auditProficiency(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	if sol.ProficiencyHit {
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.One, MaxRank: rational.One, Status: Waived}, nil
	}
	if len(sol.Children) == 0 {
		// no proficiency held and no fallback course rule configured.
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.Zero, MaxRank: rational.One, Status: Empty}, nil
	}
	if len(sol.Children) != 1 {
		return nil, auditerr.Invariant(sol.Path.String(), "proficiency rule must wrap exactly one course child")
	}
	child, err := Audit(ctx, ledger, sol.Children[0])
	if err != nil {
		return nil, err
	}
	return &Result{
		Path: sol.Path, Kind: sol.Kind, Rank: child.Rank, MaxRank: child.MaxRank, Status: child.Status,
		Claims: child.Claims, Children: []*Result{child}, Matched: child.Matched,
	}, nil
}

func auditConditional(ctx *Context, ledger *claim.Ledger, sol *Solution) (*Result, error) {
	if sol.Waived {
		return &Result{Path: sol.Path, Kind: sol.Kind, Rank: rational.One, MaxRank: rational.One, Status: Waived}, nil
	}
	if len(sol.Children) != 1 {
		return nil, auditerr.Invariant(sol.Path.String(), "conditional rule must dispatch to exactly one branch")
	}
	child, err := Audit(ctx, ledger, sol.Children[0])
	if err != nil {
		return nil, err
	}
	return &Result{
		Path: sol.Path, Kind: sol.Kind, Rank: child.Rank, MaxRank: child.MaxRank, Status: child.Status,
		Claims: child.Claims, Children: []*Result{child}, Matched: child.Matched,
	}, nil
}
