package predicate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stolaf-cs/degreepath/audit/course"
)

func mkCourse(subject string, credits string, grade string) course.CourseInstance {
	return course.CourseInstance{
		Subject: subject,
		Number:  "121",
		Credits: decimal.RequireFromString(credits),
		Grade:   grade,
	}
}

func ctx() EvalContext {
	return EvalContext{Grades: course.DefaultGradeTable()}
}

func TestLeafEquality(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")

	p := Leaf{Key: "subject", Operator: Eq, Expected: "CSCI"}
	ok, err := p.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)

	p2 := Leaf{Key: "subject", Operator: Eq, Expected: "MATH"}
	ok, err = p2.Eval(ctx(), c)
	require.NoError(err)
	require.False(ok)
}

func TestLeafMissingKeyIsFalse(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")
	p := Leaf{Key: "nonexistent", Operator: Eq, Expected: "x"}
	ok, err := p.Eval(ctx(), c)
	require.NoError(err)
	require.False(ok)
}

func TestGradeComparesByGradePoints(t *testing.T) {
	require := require.New(t)
	cB := mkCourse("CSCI", "1.0", "B")
	cC := mkCourse("CSCI", "1.0", "C")

	p := Leaf{Key: "grade", Operator: Gte, Expected: "C"}

	ok, err := p.Eval(ctx(), cB)
	require.NoError(err)
	require.True(ok, "B should be >= C")

	ok, err = p.Eval(ctx(), cC)
	require.NoError(err)
	require.True(ok, "C should be >= C")

	cD := mkCourse("CSCI", "1.0", "D")
	ok, err = p.Eval(ctx(), cD)
	require.NoError(err)
	require.False(ok, "D should not be >= C")
}

func TestCreditsDecimalComparison(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "0.25", "A")
	p := Leaf{Key: "credits", Operator: Gt, Expected: "0"}
	ok, err := p.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)
}

func TestAndOr(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")

	and := And{Children: []Predicate{
		Leaf{Key: "subject", Operator: Eq, Expected: "CSCI"},
		Leaf{Key: "grade", Operator: Gte, Expected: "C"},
	}}
	ok, err := and.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)

	or := Or{Children: []Predicate{
		Leaf{Key: "subject", Operator: Eq, Expected: "MATH"},
		Leaf{Key: "subject", Operator: Eq, Expected: "CSCI"},
	}}
	ok, err = or.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)
}

func TestEmptyAndOrIdentities(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")

	ok, err := (And{}).Eval(ctx(), c)
	require.NoError(err)
	require.True(ok, "empty And is vacuously true")

	ok, err = (Or{}).Eval(ctx(), c)
	require.NoError(err)
	require.False(ok, "empty Or is false")
}

func TestNot(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")
	n := Not{Child: Leaf{Key: "subject", Operator: Eq, Expected: "MATH"}}
	ok, err := n.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)
}

func TestConditionalMissingElseIsVacuouslyTrue(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")

	cond := Conditional{
		If:   Leaf{Key: "subject", Operator: Eq, Expected: "MATH"},
		Then: Leaf{Key: "grade", Operator: Eq, Expected: "Z"}, // would fail if reached
	}
	ok, err := cond.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)
}

func TestConditionalDispatchesThenBranch(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")

	cond := Conditional{
		If:   Leaf{Key: "subject", Operator: Eq, Expected: "CSCI"},
		Then: Leaf{Key: "grade", Operator: Eq, Expected: "A"},
		Else: Leaf{Key: "grade", Operator: Eq, Expected: "Z"},
	}
	ok, err := cond.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)
}

func TestMembershipOperators(t *testing.T) {
	require := require.New(t)
	c := course.CourseInstance{Attributes: []string{"STEM", "WRI"}}

	p := Leaf{Key: "attributes", Operator: Superset, Expected: []string{"STEM"}}
	ok, err := p.Eval(ctx(), c)
	require.NoError(err)
	require.True(ok)

	p2 := Leaf{Key: "attributes", Operator: Superset, Expected: []string{"QR"}}
	ok, err = p2.Eval(ctx(), c)
	require.NoError(err)
	require.False(ok)
}

func TestPredicateIdempotence(t *testing.T) {
	require := require.New(t)
	c := mkCourse("CSCI", "1.0", "A")
	p := Leaf{Key: "grade", Operator: Gte, Expected: "C"}

	first, err := p.Eval(ctx(), c)
	require.NoError(err)
	second, err := p.Eval(ctx(), c)
	require.NoError(err)
	require.Equal(first, second)
}

func TestKeyNormalization(t *testing.T) {
	require := require.New(t)
	require.Equal("attributes", NormalizeKey("attribute"))
	require.Equal("gereqs", NormalizeKey("gereq"))
	require.Equal("credits", NormalizeKey("credits"))
}
