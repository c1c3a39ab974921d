package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/ccbs/internal/instance"
)

func TestWithNegativeMergesOverlapping(t *testing.T) {
	s := Empty
	s = s.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 0, Hi: 2})
	s = s.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 1.5, Hi: 3})

	got := s.Negatives(1)
	require.Lenf(t, got, 1, "expected overlapping intervals to merge into one, got %+v", got)
	require.Equal(t, 0.0, got[0].Lo)
	require.Equal(t, 3.0, got[0].Hi)
}

func TestWithNegativeMergesAdjacent(t *testing.T) {
	s := Empty
	s = s.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 0, Hi: 2})
	s = s.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 2, Hi: 4})

	got := s.Negatives(1)
	require.Len(t, got, 1)
	require.Equal(t, 4.0, got[0].Hi)
}

func TestWithNegativeKeepsDistinctEdgesSeparate(t *testing.T) {
	s := Empty
	s = s.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 0, Hi: 2})
	s = s.WithNegative(Negative{Agent: 1, From: 2, To: 3, Lo: 0, Hi: 2})

	require.Len(t, s.Negatives(1), 2, "expected distinct edges to stay separate constraints")
}

func TestParentSetUnaffectedByChild(t *testing.T) {
	parent := Empty.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 0, Hi: 1})
	_ = parent.WithNegative(Negative{Agent: 1, From: 0, To: 1, Lo: 5, Hi: 6})

	require.Len(t, parent.Negatives(1), 1, "expected parent Set to be unmodified by deriving a child")
}

func TestWithPositiveRejectsIncompatibleDuplicate(t *testing.T) {
	s := Empty
	s, err := s.WithPositive(Positive{Agent: 1, From: 0, To: 1, Start: 0})
	require.NoError(t, err)

	_, err = s.WithPositive(Positive{Agent: 1, From: 2, To: 3, Start: 0})
	require.Error(t, err, "expected an incompatible duplicate positive constraint to be rejected")
}

func TestWithPositiveAllowsIdenticalRepeat(t *testing.T) {
	s := Empty
	s, _ = s.WithPositive(Positive{Agent: 1, From: 0, To: 1, Start: 0})
	s2, err := s.WithPositive(Positive{Agent: 1, From: 0, To: 1, Start: 0})
	require.NoError(t, err, "identical repeat should be a no-op")
	require.Len(t, s2.Positives(instance.AgentID(1)), 1)
}
