package claim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stolaf-cs/degreepath/audit/course"
	"github.com/stolaf-cs/degreepath/audit/path"
	"github.com/stolaf-cs/degreepath/audit/predicate"
)

func evalCtx() predicate.EvalContext {
	return predicate.EvalContext{Grades: course.DefaultGradeTable()}
}

func TestClaimCommitsOnce(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())

	c := course.CourseInstance{Clbid: "1"}
	p1 := path.Root.Child("req-A")

	attempt, err := l.Claim(c, p1)
	require.NoError(err)
	require.False(attempt.Failed)
}

func TestClaimConflictWithoutPolicy(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())

	c := course.CourseInstance{Clbid: "1"}
	p1 := path.Root.Child("req-A")
	p2 := path.Root.Child("req-B")

	_, err := l.Claim(c, p1)
	require.NoError(err)

	attempt, err := l.Claim(c, p2)
	require.NoError(err)
	require.True(attempt.Failed)
	require.True(attempt.ConflictingPath.Equal(p1))
}

func TestMultiCountPolicyPermitsOverlap(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())

	music := Group{predicate.Leaf{Key: "subject", Operator: predicate.Eq, Expected: "MUSIC"}}
	l.SetMulticountPolicy([]ClausePolicy{{Groups: []Group{music}, AtMost: false}})

	c := course.CourseInstance{Clbid: "100", Subject: "MUSIC"}
	p1 := path.Root.Child("ensemble-req")
	p2 := path.Root.Child("perf-req")

	a1, err := l.Claim(c, p1)
	require.NoError(err)
	require.False(a1.Failed)

	a2, err := l.Claim(c, p2)
	require.NoError(err)
	require.False(a2.Failed, "multi-count policy should permit the second claim")
}

func TestMultiCountPolicyDoesNotApplyToOtherCourses(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())

	music := Group{predicate.Leaf{Key: "subject", Operator: predicate.Eq, Expected: "MUSIC"}}
	l.SetMulticountPolicy([]ClausePolicy{{Groups: []Group{music}}})

	c := course.CourseInstance{Clbid: "200", Subject: "CSCI"}
	p1 := path.Root.Child("a")
	p2 := path.Root.Child("b")

	_, err := l.Claim(c, p1)
	require.NoError(err)
	a2, err := l.Claim(c, p2)
	require.NoError(err)
	require.True(a2.Failed)
}

func TestReset(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())
	c := course.CourseInstance{Clbid: "1"}

	_, err := l.Claim(c, path.Root.Child("a"))
	require.NoError(err)
	l.Reset()

	attempt, err := l.Claim(c, path.Root.Child("b"))
	require.NoError(err)
	require.False(attempt.Failed, "reset should clear prior claims")
}

func TestEmptyGroupsPolicyDoesNotPermitOverlap(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())
	l.SetMulticountPolicy([]ClausePolicy{{AtMost: true}})

	c := course.CourseInstance{Clbid: "1", Subject: "CSCI"}
	p1 := path.Root.Child("a")
	p2 := path.Root.Child("b")

	_, err := l.Claim(c, p1)
	require.NoError(err)
	attempt, err := l.Claim(c, p2)
	require.NoError(err)
	require.True(attempt.Failed, "a policy with no configured groups must not permit overlap")
}

func TestClaimedClbids(t *testing.T) {
	require := require.New(t)
	l := New(evalCtx())
	c := course.CourseInstance{Clbid: "1"}
	_, err := l.Claim(c, path.Root.Child("a"))
	require.NoError(err)

	claimed := l.ClaimedClbids()
	_, ok := claimed["1"]
	require.True(ok)
}
