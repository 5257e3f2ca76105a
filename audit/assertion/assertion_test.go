package assertion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

func credits(cs ...string) []course.CourseInstance {
	out := make([]course.CourseInstance, 0, len(cs))
	for i, c := range cs {
		out = append(out, course.CourseInstance{
			Clbid:   course.Clbid(string(rune('a' + i))),
			Subject: "CSCI",
			Credits: decimal.RequireFromString(c),
		})
	}
	return out
}

func ectx() predicate.EvalContext {
	return predicate.EvalContext{Grades: course.DefaultGradeTable()}
}

func TestSumCreditsAssertion(t *testing.T) {
	require := require.New(t)
	items := credits("2", "2", "2")

	a := NewSum(SourceCredits, predicate.Gte, decimal.RequireFromString("6"))
	r, err := a.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
	require.True(r.ReducedValue.Equal(decimal.RequireFromString("6")))
	require.Len(r.ResolvedItems, 3)
}

func TestCountAssertion(t *testing.T) {
	require := require.New(t)
	items := credits("1", "1")

	a := NewCount(SourceCourses, predicate.Eq, decimal.NewFromInt(2))
	r, err := a.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
}

func TestInputSizeRangeGte(t *testing.T) {
	require := require.New(t)
	a := NewCount(SourceCourses, predicate.Gte, decimal.NewFromInt(4))
	require.Equal([]int{4, 5}, a.InputSizeRange(5))
}

func TestInputSizeRangeLte(t *testing.T) {
	require := require.New(t)
	a := NewCount(SourceCourses, predicate.Lte, decimal.NewFromInt(3))
	require.Equal([]int{0, 1, 2, 3}, a.InputSizeRange(5))
}

func TestInputSizeRangeEq(t *testing.T) {
	require := require.New(t)
	a := NewCount(SourceCourses, predicate.Eq, decimal.NewFromInt(4))
	require.Equal([]int{4}, a.InputSizeRange(5))
}

func TestMinMax(t *testing.T) {
	require := require.New(t)
	items := credits("1", "3", "2")

	maxA := NewMax(SourceCredits, predicate.Gte, decimal.RequireFromString("3"))
	r, err := maxA.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
	require.True(r.ReducedValue.Equal(decimal.RequireFromString("3")))

	minA := NewMin(SourceCredits, predicate.Lte, decimal.RequireFromString("1"))
	r, err = minA.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
}

func TestConditionalAssertionMissingElsePasses(t *testing.T) {
	require := require.New(t)
	items := credits("1")

	cond := Conditional{
		If:      predicate.Leaf{Key: "code", Operator: predicate.Eq, Expected: "nope"},
		Subject: course.AreaPointer{Code: "CSCI"},
		Then:    NewCount(SourceCourses, predicate.Eq, decimal.NewFromInt(99)),
	}
	r, err := cond.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
}

func TestDynamicConditional(t *testing.T) {
	require := require.New(t)
	items := credits("1", "1", "1")

	dyn := DynamicConditional{
		If:   func(items []course.CourseInstance) bool { return len(items) >= 3 },
		Then: NewCount(SourceCourses, predicate.Gte, decimal.NewFromInt(3)),
		Else: NewCount(SourceCourses, predicate.Gte, decimal.NewFromInt(99)),
	}
	r, err := dyn.Evaluate(ectx(), items)
	require.NoError(err)
	require.True(r.Result)
}
