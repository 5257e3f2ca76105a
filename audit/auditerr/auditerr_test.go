package auditerr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindsAreDistinct(t *testing.T) {
	require := require.New(t)

	specErr := Spec("$.requirements.Foo", "unknown key 'bogus'")
	require.True(ErrSpecification.Is(specErr))
	require.False(ErrData.Is(specErr))

	dataErr := Data("missing clbid")
	require.True(ErrData.Is(dataErr))
	require.False(ErrSpecification.Is(dataErr))

	invErr := Invariant("$.count.[0]", "rank exceeded max_rank")
	require.True(ErrInvariant.Is(invErr))
}

func TestWrapPreservesKind(t *testing.T) {
	require := require.New(t)

	base := Spec("$.result", "bad operator")
	wrapped := Wrap(base, "while loading area code CSCI")
	require.Error(wrapped)
	require.True(ErrSpecification.Is(wrapped))
	require.Nil(Wrap(nil, "no-op"))
}
