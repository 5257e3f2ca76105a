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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/limit"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
	"github.com/stolaf-cs/degreepath/audit/rule"
)

func baseCtx(transcript []course.CourseInstance) *rule.Context {
	return &rule.Context{
		Go:            context.Background(),
		Eval:          predicate.EvalContext{Grades: course.DefaultGradeTable()},
		Transcript:    transcript,
		Proficiencies: map[string]bool{},
		Requirements:  map[string]*rule.Requirement{},
	}
}

func TestDriverFindsPassingResult(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}
	ctx := baseCtx([]course.CourseInstance{c})

	d := &Driver{
		AreaCode: "999",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	var events []Event
	d.Emit = func(e Event) { events = append(events, e) }

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.True(ok)
	require.Equal(rule.Done, result.Status)

	var sawStart, sawResult bool
	for _, e := range events {
		switch e.(type) {
		case AuditStart:
			sawStart = true
		case ResultEvent:
			sawResult = true
		}
	}
	require.True(sawStart)
	require.True(sawResult)
}

func TestDriverEmptyTranscriptYieldsEmptyResult(t *testing.T) {
	require := require.New(t)
	ctx := baseCtx(nil)

	d := &Driver{
		AreaCode: "999",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	var events []Event
	d.Emit = func(e Event) { events = append(events, e) }

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.False(ok)
	require.Equal(rule.Empty, result.Status)
}

func TestDriverCancellation(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := &rule.Context{
		Go:            cancelCtx,
		Eval:          predicate.EvalContext{Grades: course.DefaultGradeTable()},
		Transcript:    []course.CourseInstance{c},
		Proficiencies: map[string]bool{},
		Requirements:  map[string]*rule.Requirement{},
	}

	d := &Driver{
		AreaCode: "999",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	var sawCancelled bool
	d.Emit = func(e Event) {
		if _, ok := e.(Cancelled); ok {
			sawCancelled = true
		}
	}

	_, ok, err := d.Run(ctx)
	require.NoError(err)
	require.False(ok)
	require.True(sawCancelled)
}

func TestDriverPrefersHigherRank(t *testing.T) {
	require := require.New(t)
	c1 := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "121"}
	c2 := course.CourseInstance{Clbid: "2", Subject: "CSCI", Number: "251"}
	ctx := baseCtx([]course.CourseInstance{c1, c2})

	count := &rule.CountRule{
		Path:     path.Root,
		Required: 1,
		Of: []rule.Rule{
			&rule.CourseRule{Path: path.Root.Indexed(0), CourseCode: "CSCI 121"},
			&rule.CourseRule{Path: path.Root.Indexed(1), CourseCode: "CSCI 251"},
		},
	}

	d := &Driver{AreaCode: "999", Root: count}
	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.True(ok)
	require.True(result.Rank.Equal(result.MaxRank))
}

func TestDriverMajorKindComposesCommonRequirements(t *testing.T) {
	require := require.New(t)
	courses := []course.CourseInstance{
		{Clbid: "1", Subject: "CSCI", Number: "251", Credits: decimal.NewFromInt(3), Grade: "A"},
		{Clbid: "2", Subject: "CSCI", Number: "252", Credits: decimal.NewFromInt(3), Grade: "B"},
	}
	ctx := baseCtx(courses)

	d := &Driver{
		AreaCode: "999",
		Degree:   "B.M.",
		Kind:     "major",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.True(ok, "two C-or-better courses worth 6 credits and no S/U courses should satisfy the common requirements")
	require.Equal(rule.Done, result.Status)
}

func TestDriverMajorKindFailsWhenCommonRequirementsUnmet(t *testing.T) {
	require := require.New(t)
	courses := []course.CourseInstance{
		{Clbid: "1", Subject: "CSCI", Number: "251", Credits: decimal.NewFromInt(1), Grade: "A"},
	}
	ctx := baseCtx(courses)

	d := &Driver{
		AreaCode: "999",
		Degree:   "B.M.",
		Kind:     "major",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.False(ok, "only 1 credit at C-or-better falls short of the 6-credit common requirement")
	require.NotEqual(rule.Done, result.Status)
}

func TestDriverNonMajorKindSkipsCommonRequirements(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}
	ctx := baseCtx([]course.CourseInstance{c})

	d := &Driver{
		AreaCode: "999",
		Kind:     "concentration",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.True(ok)
	require.Equal(rule.Done, result.Status)
}

func TestDriverRunToleratesNilGoContext(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}
	ctx := &rule.Context{
		Eval:          predicate.EvalContext{Grades: course.DefaultGradeTable()},
		Transcript:    []course.CourseInstance{c},
		Proficiencies: map[string]bool{},
		Requirements:  map[string]*rule.Requirement{},
	}

	d := &Driver{
		AreaCode: "999",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "CSCI 251"},
	}

	require.NotPanics(func() {
		result, ok, err := d.Run(ctx)
		require.NoError(err)
		require.True(ok)
		require.Equal(rule.Done, result.Status)
	})
}

func TestDriverRespectsLimits(t *testing.T) {
	require := require.New(t)
	courses := []course.CourseInstance{
		{Clbid: "1", Subject: "ART", Number: "100"},
		{Clbid: "2", Subject: "ART", Number: "101"},
	}
	ctx := baseCtx(courses)

	d := &Driver{
		AreaCode: "999",
		Root:     &rule.CourseRule{Path: path.Root, CourseCode: "ART 100"},
		Limits: limit.LimitSet{Limits: []limit.Limit{
			{Where: predicate.Leaf{Key: "subject", Operator: predicate.Eq, Expected: "ART"}, AtMost: decimal.NewFromInt(1), Unit: limit.Courses},
		}},
	}

	result, ok, err := d.Run(ctx)
	require.NoError(err)
	require.True(ok)
	require.Equal(rule.Done, result.Status)
}
