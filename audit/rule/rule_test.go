package rule

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stolaf-cs/degreepath/audit/assertion"
	"github.com/stolaf-cs/degreepath/audit/claim"
	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

func evalCtx() predicate.EvalContext {
	return predicate.EvalContext{Grades: course.DefaultGradeTable()}
}

func baseContext(transcript []course.CourseInstance) *Context {
	return &Context{
		Go:            context.Background(),
		Eval:          evalCtx(),
		Transcript:    transcript,
		Proficiencies: map[string]bool{},
		Requirements:  map[string]*Requirement{},
	}
}

func first(t *testing.T, it *SolutionIter, ctx *Context) *Solution {
	t.Helper()
	sol, ok, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	return sol
}

func TestCourseRuleClaims(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}
	ctx := baseContext([]course.CourseInstance{c})

	r := &CourseRule{Path: path.Root, CourseCode: "CSCI 251"}
	sol := first(t, r.Solutions(ctx), ctx)
	require.Len(sol.Courses, 1)

	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Done, result.Status)
	require.True(result.Rank.Equal(result.MaxRank))
}

func TestCourseRuleMissingCourse(t *testing.T) {
	require := require.New(t)
	ctx := baseContext(nil)
	r := &CourseRule{Path: path.Root, CourseCode: "CSCI 251"}
	sol := first(t, r.Solutions(ctx), ctx)

	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Empty, result.Status)
	require.True(result.Rank.IsZero())
}

func TestCourseRuleConflictingClaim(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "251"}
	ctx := baseContext([]course.CourseInstance{c})

	r := &CourseRule{Path: path.Root, CourseCode: "CSCI 251"}
	sol := first(t, r.Solutions(ctx), ctx)

	ledger := claim.New(ctx.Eval)
	_, err := ledger.Claim(c, path.Root)
	require.NoError(err)

	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(NeedsMoreItems, result.Status)
}

func TestQueryRuleSumAssertion(t *testing.T) {
	require := require.New(t)
	courses := []course.CourseInstance{
		{Clbid: "1", Subject: "ART", Credits: decimal.NewFromInt(3)},
		{Clbid: "2", Subject: "ART", Credits: decimal.NewFromInt(3)},
	}
	ctx := baseContext(courses)

	q := &QueryRule{
		Path:       path.Root,
		From:       SourceTranscript,
		Where:      predicate.Leaf{Key: "subject", Operator: predicate.Eq, Expected: "ART"},
		Assertions: []assertion.Assertion{assertion.NewSum(assertion.SourceCredits, predicate.Gte, decimal.NewFromInt(6))},
		Claim:      true,
	}

	it := q.Solutions(ctx)
	var best *Result
	ledger := claim.New(ctx.Eval)
	for {
		sol, ok, err := it.Next(ctx)
		require.NoError(err)
		if !ok {
			break
		}
		ledger.Reset()
		result, err := Audit(ctx, ledger, sol)
		require.NoError(err)
		if best == nil || result.Rank.Cmp(best.Rank) > 0 {
			best = result
		}
	}
	require.NotNil(best)
	require.Equal(Done, best.Status)
}

func TestCountRuleRequiresSubset(t *testing.T) {
	require := require.New(t)
	c1 := course.CourseInstance{Clbid: "1", Subject: "CSCI", Number: "121"}
	c2 := course.CourseInstance{Clbid: "2", Subject: "CSCI", Number: "251"}
	ctx := baseContext([]course.CourseInstance{c1, c2})

	count := &CountRule{
		Path:     path.Root,
		Required: 1,
		Of: []Rule{
			&CourseRule{Path: path.Root.Indexed(0), CourseCode: "CSCI 121"},
			&CourseRule{Path: path.Root.Indexed(1), CourseCode: "CSCI 251"},
		},
	}

	it := count.Solutions(ctx)
	sol := first(t, it, ctx)
	// descending k means the 2-of-2 combination is tried before any 1-of-2.
	require.Len(sol.Children, 2)

	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Done, result.Status)
	require.True(result.Rank.Equal(result.MaxRank))
}

func TestRequirementWaived(t *testing.T) {
	require := require.New(t)
	ctx := baseContext(nil)
	req := &Requirement{Path: path.Root, Name: "Outside Audit", RegistrarAudited: true}

	sol := first(t, req.Solutions(ctx), ctx)
	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Waived, result.Status)
	require.True(result.Rank.Equal(result.MaxRank))
}

func TestProficiencyHeld(t *testing.T) {
	require := require.New(t)
	ctx := baseContext(nil)
	ctx.Proficiencies["Spanish"] = true

	p := &ProficiencyRule{Path: path.Root, Name: "Spanish"}
	sol := first(t, p.Solutions(ctx), ctx)

	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Waived, result.Status)
}

func TestConditionalMissingElseWaives(t *testing.T) {
	require := require.New(t)
	ctx := baseContext(nil)

	cond := &ConditionalRule{
		Path:    path.Root,
		If:      predicate.Leaf{Key: "code", Operator: predicate.Eq, Expected: "999"},
		Subject: course.AreaPointer{Code: "100"},
	}
	sol := first(t, cond.Solutions(ctx), ctx)

	ledger := claim.New(ctx.Eval)
	result, err := Audit(ctx, ledger, sol)
	require.NoError(err)
	require.Equal(Waived, result.Status)
}

func TestCommonRequirementsDeptCodeNoneAnomaly(t *testing.T) {
	require := require.New(t)
	common := CommonRequirements(CommonRequirementsInput{
		Degree:   "B.A.",
		DeptCode: nil,
		AreaCode: "200",
	})

	var outside *Requirement
	for _, child := range common.Of {
		if r, ok := child.(*Requirement); ok && r.Name == "Credits outside the major" {
			outside = r
		}
	}
	require.NotNil(outside)
	require.True(outside.RegistrarAudited)
	require.Contains(outside.Message, "(None)")
}

func TestCommonRequirementsBMMajorSkipsOutsideTheMajor(t *testing.T) {
	require := require.New(t)
	common := CommonRequirements(CommonRequirementsInput{
		Degree:   "B.M.",
		DeptCode: nil,
		AreaCode: "200",
	})
	require.Len(common.Of, 2)
}
