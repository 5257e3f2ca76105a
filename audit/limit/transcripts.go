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

package limit

import (
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

// TranscriptIter pulls distinct limited-transcript subsets one at a time,
// matching the teacher's RowIter pull idiom (Next returns ok=false, not an
// io.EOF sentinel error, once exhausted — there's no second return value
// worth wrapping in an error here since exhaustion isn't a failure).
type TranscriptIter struct {
	ctx           predicate.EvalContext
	set           LimitSet
	unconstrained []course.CourseInstance
	perLimit      [][][]course.CourseInstance // perLimit[i] = combos for Limits[i]
	counters      []int                       // odometer position into perLimit
	started       bool
	exhausted     bool
	seen          map[uint64]struct{}
}

// LimitedTranscripts builds the lazy-cartesian iterator over distinct
// course subsets satisfying every Limit in s (spec §4.3). forced courses
// bypass limit accounting entirely and are always included unconstrained.
func (s LimitSet) LimitedTranscripts(ctx predicate.EvalContext, courses []course.CourseInstance, forced map[course.Clbid]struct{}) (*TranscriptIter, error) {
	if !s.HasLimits() {
		it := &TranscriptIter{ctx: ctx, set: s, unconstrained: append([]course.CourseInstance(nil), courses...)}
		it.seen = make(map[uint64]struct{})
		return it, nil
	}

	matchedByLimit := make([][]course.CourseInstance, len(s.Limits))
	matchedAny := make(map[course.Clbid]struct{})

	for _, c := range courses {
		if _, isForced := forced[c.Clbid]; isForced {
			continue
		}
		for i, l := range s.Limits {
			ok, err := l.matches(ctx, c)
			if err != nil {
				return nil, err
			}
			if ok {
				matchedByLimit[i] = append(matchedByLimit[i], c)
				matchedAny[c.Clbid] = struct{}{}
			}
		}
	}

	var unconstrained []course.CourseInstance
	for _, c := range courses {
		if _, isMatched := matchedAny[c.Clbid]; isMatched {
			continue
		}
		unconstrained = append(unconstrained, c)
	}

	perLimit := make([][][]course.CourseInstance, len(s.Limits))
	for i, l := range s.Limits {
		perLimit[i] = l.iterate(matchedByLimit[i])
		if len(perLimit[i]) == 0 {
			// no combination of this limit's matched set is viable (can
			// only happen if iterate is misconfigured); guard against a
			// zero-length odometer wheel jamming the whole product.
			perLimit[i] = [][]course.CourseInstance{{}}
		}
	}

	return &TranscriptIter{
		ctx:           ctx,
		set:           s,
		unconstrained: unconstrained,
		perLimit:      perLimit,
		counters:      make([]int, len(s.Limits)),
		seen:          make(map[uint64]struct{}),
	}, nil
}

// Next returns the next distinct satisfying subset, or ok=false once the
// cartesian space is exhausted.
func (it *TranscriptIter) Next() (result []course.CourseInstance, ok bool, err error) {
	if len(it.perLimit) == 0 {
		if it.started {
			return nil, false, nil
		}
		it.started = true
		return append([]course.CourseInstance(nil), it.unconstrained...), true, nil
	}

	for {
		if it.exhausted {
			return nil, false, nil
		}

		var chosen []course.CourseInstance
		for i, wheel := range it.perLimit {
			chosen = append(chosen, wheel[it.counters[i]]...)
		}

		it.advance()

		// Only the per-limit picks are checked: unconstrained courses match
		// no limit, and forced courses bypass limit accounting.
		okLimits, err := it.set.Check(it.ctx, chosen)
		if err != nil {
			return nil, false, err
		}
		if !okLimits {
			continue
		}

		combined := append(append([]course.CourseInstance(nil), it.unconstrained...), chosen...)

		h, err := frozenSetHash(combined)
		if err != nil {
			return nil, false, err
		}
		if _, dup := it.seen[h]; dup {
			continue
		}
		it.seen[h] = struct{}{}

		course.SortByCanonicalOrder(combined)
		return combined, true, nil
	}
}

// advance increments the odometer over perLimit's wheels by one step,
// lazily — no cross product is ever materialised, only the current
// counters tuple (spec §4.3 "lazy cartesian iterator").
func (it *TranscriptIter) advance() {
	for i := len(it.counters) - 1; i >= 0; i-- {
		it.counters[i]++
		if it.counters[i] < len(it.perLimit[i]) {
			return
		}
		it.counters[i] = 0
	}
	it.exhausted = true
}
