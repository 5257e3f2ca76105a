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

package area

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/stolaf-cs/degreepath/audit/claim"
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/limit"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/rule"
)

// progressInterval bounds how often a Progress event is emitted, so a long
// search doesn't flood a caller with one event per candidate (spec §4.5).
const progressInterval = time.Second

// Driver owns one area code's audit run: pulling every rule.Solution the
// root rule produces against every limit-reduced transcript, auditing each
// with its own ledger, and retaining the single best-ranked rule.Result
// (spec §4.5's ranker).
type Driver struct {
	AreaCode string
	Degree   string

	// Kind is the document's "type" key (spec.Area.Kind). Only "major"
	// gets the three common major requirements appended to its audit
	// (original_source/degreepath/area.py:196-199: "if self.kind ==
	// 'major'"); every other kind (including the zero value, matching
	// "test" callers that build a Driver directly) audits Root alone.
	Kind string

	Root rule.Rule
	Limits   limit.LimitSet
	Forced   map[course.Clbid]struct{}

	// Multicount is the area-wide multi-count policy parsed from the
	// specification document's attributes.multicountable (spec §4.2,
	// §6); configured on every candidate's ledger before that candidate
	// is audited. Empty means at-most-one-claim semantics.
	Multicount []claim.ClausePolicy

	Log    *logrus.Entry
	Tracer opentracing.Tracer

	// Emit receives every Event in order; nil discards them.
	Emit func(Event)
}

func (d *Driver) emit(ev Event) {
	if d.Emit != nil {
		d.Emit(ev)
	}
}

func (d *Driver) log() *logrus.Entry {
	if d.Log != nil {
		return d.Log
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func (d *Driver) tracer() opentracing.Tracer {
	if d.Tracer != nil {
		return d.Tracer
	}
	return opentracing.GlobalTracer()
}

// Run drives the search to completion (or cancellation) and returns the
// best rule.Result found, along with whether it counts as a passing audit
// (spec §6: ok iff a result exists and its Status.IsOK()).
func (d *Driver) Run(ctx *rule.Context) (best *rule.Result, ok bool, err error) {
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, false, err
	}
	start := time.Now()

	d.log().WithFields(logrus.Fields{
		"run_id": runID.String(),
		"area":   d.AreaCode,
	}).Info(runLogMessage)
	d.emit(AuditStart{RunID: runID, AreaCode: d.AreaCode, StartedAt: start})

	root := d.auditedRoot(ctx)

	transcripts, err := d.Limits.LimitedTranscripts(ctx.Eval, ctx.Transcript, d.Forced)
	if err != nil {
		return nil, false, err
	}

	if estimate, err := d.Limits.Estimate(ctx.Eval, ctx.Transcript); err == nil {
		d.emit(Estimate{Count: estimate * root.Estimate(ctx)})
	}

	iterations := 0
	lastProgress := start

	for {
		if cancelled(ctx.Go) {
			d.emit(Cancelled{Iterations: iterations, Elapsed: time.Since(start)})
			return best, best != nil && best.IsOK(), nil
		}

		candidateCourses, hasMore, terr := transcripts.Next()
		if terr != nil {
			return nil, false, terr
		}
		if !hasMore {
			break
		}

		subCtx := *ctx
		subCtx.Transcript = candidateCourses
		solutions := root.Solutions(&subCtx)

		for {
			sol, hasSol, serr := solutions.Next(&subCtx)
			if serr != nil {
				return nil, false, serr
			}
			if !hasSol {
				break
			}
			if cancelled(ctx.Go) {
				d.emit(Cancelled{Iterations: iterations, Elapsed: time.Since(start)})
				return best, best != nil && best.IsOK(), nil
			}

			span := d.tracer().StartSpan("audit-solution")
			ledger := claim.New(ctx.Eval)
			ledger.SetMulticountPolicy(d.Multicount)
			result, aerr := rule.Audit(&subCtx, ledger, sol)
			span.Finish()
			if aerr != nil {
				return nil, false, aerr
			}

			iterations++
			if better(result, best) {
				best = result
			}

			if time.Since(lastProgress) >= progressInterval {
				elapsed := time.Since(start)
				d.emit(Progress{
					Iterations: iterations,
					Elapsed:    elapsed,
					AvgIter:    elapsed / time.Duration(iterations),
				})
				lastProgress = time.Now()
			}
		}
	}

	elapsed := time.Since(start)
	if best == nil {
		d.emit(NoAuditsCompleted{})
		return nil, false, nil
	}
	d.emit(ResultEvent{Result: best, Iterations: iterations, Elapsed: elapsed})
	return best, best.IsOK(), nil
}

const runLogMessage = "area audit run"

// auditRootPath is the synthetic top-level node used only when the
// document's own root isn't a Count rule to begin with, so it has no
// items list to append a sibling onto.
var auditRootPath = path.Root.Child(".audit")

// auditedRoot composes the document's root rule with CommonRequirements
// when this area is a major (original_source/degreepath/area.py:196-199:
// "if self.kind == 'major'"), exactly as the source always appends
// c_or_better/s_u_credits/outside_the_major onto the top-level result's
// own items list and bumps its count by one (area.py:196-204), rather than
// introducing an extra tree level. When the root is a Count rule (the
// overwhelmingly common case per spec §6), the common requirements are
// appended in place, in the source's own manner; otherwise they're
// wrapped in a 2-of-2 Count rule, since a bare
// Course/Query/Requirement/Proficiency root has no items list to extend.
// dept_code is always nil here, reproducing the source's anomaly: this
// driver has no notion of a "this_pointer" parent area from which a
// department code could ever be populated.
func (d *Driver) auditedRoot(ctx *rule.Context) rule.Rule {
	if d.Kind != "major" {
		return d.Root
	}

	common := rule.CommonRequirements(rule.CommonRequirementsInput{
		Degree:         d.Degree,
		DeptCode:       nil,
		AreaCode:       d.AreaCode,
		OtherAreaCodes: otherAreaCodes(ctx.Areas),
	})

	if count, ok := d.Root.(*rule.CountRule); ok {
		merged := *count
		merged.Of = append(append([]rule.Rule{}, count.Of...), common)
		merged.Required = count.Required + 1
		return &merged
	}

	return &rule.CountRule{
		Path:     auditRootPath,
		Required: 2,
		Of:       []rule.Rule{d.Root, common},
	}
}

func otherAreaCodes(areas []course.AreaPointer) []string {
	out := make([]string, len(areas))
	for i, a := range areas {
		out[i] = a.Code
	}
	return out
}

// cancelled reports whether goCtx's cooperative cancellation token has
// fired, tolerating a nil context (a caller that never wired one in).
func cancelled(goCtx context.Context) bool {
	if goCtx == nil {
		return false
	}
	select {
	case <-goCtx.Done():
		return true
	default:
		return false
	}
}

// better reports whether candidate outranks incumbent under the ranker's
// tiebreak order (spec §4.5): higher rank wins; ties broken by higher
// max_rank; remaining ties broken by IsOK() over not; remaining ties
// broken by path order, so the choice is deterministic across equally
// good candidates.
func better(candidate, incumbent *rule.Result) bool {
	if incumbent == nil {
		return true
	}
	if cmp := candidate.Rank.Cmp(incumbent.Rank); cmp != 0 {
		return cmp > 0
	}
	if cmp := candidate.MaxRank.Cmp(incumbent.MaxRank); cmp != 0 {
		return cmp > 0
	}
	if candidate.IsOK() != incumbent.IsOK() {
		return candidate.IsOK()
	}
	return candidate.Path.Less(incumbent.Path)
}
