package rational

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	require := require.New(t)

	a := New(1, 3)
	b := New(1, 6)

	require.True(a.Add(b).Equal(New(1, 2)))
	require.True(a.Sub(b).Equal(New(1, 6)))
	require.True(a.Mul(New(3, 1)).Equal(One))
	require.True(New(2, 3).Div(New(1, 3)).Equal(FromInt(2)))
}

func TestCmpExactness(t *testing.T) {
	require := require.New(t)

	// 2/3 must never collapse to a float approximation.
	twoThirds := New(2, 3)
	sumOfThirds := New(1, 3).Add(New(1, 3))
	require.True(twoThirds.Equal(sumOfThirds))
	require.Equal(0, twoThirds.Cmp(sumOfThirds))
}

func TestClamp(t *testing.T) {
	require := require.New(t)

	require.True(Clamp(New(3, 2), Zero, One).Equal(One))
	require.True(Clamp(New(-1, 2), Zero, One).Equal(Zero))
	require.True(Clamp(New(1, 2), Zero, One).Equal(New(1, 2)))
}

func TestMin(t *testing.T) {
	require := require.New(t)
	require.True(Min(New(1, 2), New(1, 3)).Equal(New(1, 3)))
}

func TestString(t *testing.T) {
	require := require.New(t)
	require.Equal("2/3", New(2, 3).String())
	require.Equal("0", Zero.String())
	require.Equal("1", One.String())
}
