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

// Package claim implements the Claim Ledger (spec §4.2): one instance per
// candidate-solution attempt, single-writer, never shared across
// concurrent solution branches (spec §5). Modeled on the teacher's
// auth.Audit/AuditMethod wrapper (auth/audit.go), which is likewise a
// single recording layer that never aborts the caller on a denial — it
// just reports the outcome and lets the caller decide what to do next.
package claim

import (
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// ClaimAttempt is the outcome of a single Claim call.
type ClaimAttempt struct {
	Clbid           course.Clbid
	ClaimantPath    path.Path
	Failed          bool
	ConflictingPath path.Path // zero value when Failed is false
}

// Group is a set of predicates; a course belongs to the group if it
// matches at least one predicate in it.
type Group []predicate.Predicate

func (g Group) matches(ctx predicate.EvalContext, c course.CourseInstance) (bool, error) {
	for _, p := range g {
		ok, err := p.Eval(ctx, c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// ClausePolicy is one multi-count exception: a course already claimed may
// be claimed again iff it matches at least one predicate from every
// configured Group. AtMost records the clause's at_most tag (spec §9 Open
// Question (a) — the source carries two historical clause signatures,
// "mc_applies_same" vs an at_most-tagged clause); overlapAllowed decides
// from Groups alone and does not consult AtMost.
type ClausePolicy struct {
	Groups []Group
	AtMost bool
}

type entry struct {
	claimant path.Path
	failed   bool
}

// Ledger tracks which courses have been claimed by which paths. One
// instance exists per candidate-solution attempt (spec §4.2, §5); it is
// never shared across concurrent branches.
type Ledger struct {
	ctx      predicate.EvalContext
	claims   map[course.Clbid][]entry
	policies []ClausePolicy
}

// New builds an empty Ledger. ctx supplies the grade table used when a
// multi-count policy's predicates reference the "grade" key.
func New(ctx predicate.EvalContext) *Ledger {
	return &Ledger{ctx: ctx, claims: make(map[course.Clbid][]entry)}
}

// SetMulticountPolicy configures the overlap rule for this ledger. Call
// once, before any Claim calls, matching the area-level (not rule-level)
// scope the policy has in spec §4.2.
func (l *Ledger) SetMulticountPolicy(policies []ClausePolicy) {
	l.policies = policies
}

// Reset clears all claims, keeping the configured multi-count policy, so
// a new solution attempt can be drawn from the same limited transcript
// without re-configuring the ledger (spec §4.2).
func (l *Ledger) Reset() {
	l.claims = make(map[course.Clbid][]entry)
}

// Claim attempts to assign c to by. It commits unless c already has a
// non-failed claim (by any path, by itself included) and no configured
// multi-count policy
// permits the overlap, in which case it returns a failed ClaimAttempt
// referencing the conflicting claim — a normal control-flow outcome
// (spec §7), never a Go error.
func (l *Ledger) Claim(c course.CourseInstance, by path.Path) (ClaimAttempt, error) {
	existing := l.claims[c.Clbid]

	for _, e := range existing {
		if e.failed {
			continue
		}
		allowed, err := l.overlapAllowed(c)
		if err != nil {
			return ClaimAttempt{}, err
		}
		if allowed {
			continue
		}
		attempt := ClaimAttempt{Clbid: c.Clbid, ClaimantPath: by, Failed: true, ConflictingPath: e.claimant}
		l.claims[c.Clbid] = append(existing, entry{claimant: by, failed: true})
		return attempt, nil
	}

	l.claims[c.Clbid] = append(existing, entry{claimant: by, failed: false})
	return ClaimAttempt{Clbid: c.Clbid, ClaimantPath: by, Failed: false}, nil
}

// overlapAllowed reports whether c may be claimed more than once, under
// any one of the configured policies.
func (l *Ledger) overlapAllowed(c course.CourseInstance) (bool, error) {
	for _, policy := range l.policies {
		if len(policy.Groups) == 0 {
			continue
		}
		allowed := true
		for _, group := range policy.Groups {
			matched, err := group.matches(l.ctx, c)
			if err != nil {
				return false, err
			}
			if !matched {
				allowed = false
				break
			}
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

// ClaimedClbids returns the set of clbids with at least one non-failed
// claim, used by Query rules' allow_claimed variant (spec §4.4).
func (l *Ledger) ClaimedClbids() map[course.Clbid]struct{} {
	out := make(map[course.Clbid]struct{}, len(l.claims))
	for clbid, entries := range l.claims {
		for _, e := range entries {
			if !e.failed {
				out[clbid] = struct{}{}
				break
			}
		}
	}
	return out
}

// Attempts returns every ClaimAttempt recorded so far, in undefined order
// — callers needing determinism should sort by Clbid then ClaimantPath.
func (l *Ledger) Attempts() []ClaimAttempt {
	var out []ClaimAttempt
	for clbid, entries := range l.claims {
		for _, e := range entries {
			out = append(out, ClaimAttempt{Clbid: clbid, ClaimantPath: e.claimant, Failed: e.failed})
		}
	}
	return out
}
