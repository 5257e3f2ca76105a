package path

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChildAndString(t *testing.T) {
	require := require.New(t)
	p := Root.Child(".count").Indexed(2).Child("$req->Name").Child(".result")
	require.Equal("$->.count->[2]->$req->Name->.result", p.String())
}

func TestRootIsImmutable(t *testing.T) {
	require := require.New(t)
	base := Root.Child(".count")
	_ = base.Indexed(1)
	_ = base.Indexed(2)
	require.Equal("$->.count", base.String())
}

func TestLessNumericBracketIndices(t *testing.T) {
	require := require.New(t)
	p2 := Root.Indexed(2)
	p10 := Root.Indexed(10)
	require.True(p2.Less(p10), "numeric [2] < [10], not lexicographic")
	require.False(p10.Less(p2))
}

func TestLessShorterSortsFirst(t *testing.T) {
	require := require.New(t)
	short := Root.Child(".count")
	long := Root.Child(".count").Child(".result")
	require.True(short.Less(long))
	require.False(long.Less(short))
}

func TestEqual(t *testing.T) {
	require := require.New(t)
	a := Root.Child(".count").Indexed(1)
	b := Root.Child(".count").Indexed(1)
	require.True(a.Equal(b))
}
