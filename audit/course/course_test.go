package course

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCourseCode(t *testing.T) {
	require := require.New(t)
	c := CourseInstance{Subject: "CSCI", Number: "121"}
	require.Equal("CSCI 121", c.Course())
}

func TestHasAttribute(t *testing.T) {
	require := require.New(t)
	c := CourseInstance{Attributes: []string{"WRI", "FYW"}}
	require.True(c.HasAttribute("WRI"))
	require.False(c.HasAttribute("QR"))
}

func TestSortByCanonicalOrder(t *testing.T) {
	require := require.New(t)
	courses := []CourseInstance{
		{Clbid: "3", Year: 2020, Term: 1},
		{Clbid: "1", Year: 2019, Term: 3},
		{Clbid: "2", Year: 2019, Term: 3},
	}
	SortByCanonicalOrder(courses)
	require.Equal([]Clbid{"1", "2", "3"}, []Clbid{courses[0].Clbid, courses[1].Clbid, courses[2].Clbid})
}

func TestDefaultGradeTable(t *testing.T) {
	require := require.New(t)
	table := DefaultGradeTable()
	pts, ok := table.GradePoints("C")
	require.True(ok)
	require.True(pts.Equal(decimal.RequireFromString("2.0")))

	_, ok = table.GradePoints("Z")
	require.False(ok)
}
