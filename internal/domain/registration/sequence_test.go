package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequence_Next(t *testing.T) {
	seq := NewSequence(StudentPrefix, StudentBase)

	require.Equal(t, "S1000", seq.Peek())
	require.Equal(t, "S1000", seq.Next())
	require.Equal(t, "S1001", seq.Next())
	require.Equal(t, "S1002", seq.Peek())
}

func TestSequence_Reseed_UsesCollectionSize(t *testing.T) {
	seq := NewSequence(CoursePrefix, CourseBase)

	seq.Reseed([]string{"C2000", "C2001", "C2002"})

	require.Equal(t, "C2003", seq.Next())
}

func TestSequence_Reseed_SkipsPastHighestSuffix(t *testing.T) {
	// S1000..S1006 were deleted; only S1007 is left.
	seq := NewSequence(StudentPrefix, StudentBase)

	seq.Reseed([]string{"S1007"})

	require.Equal(t, "S1008", seq.Next())
}

func TestSequence_Reseed_IgnoresForeignIDs(t *testing.T) {
	seq := NewSequence(StudentPrefix, StudentBase)

	seq.Reseed([]string{"legacy-7", "C2050", "Sxyz"})

	require.Equal(t, "S1003", seq.Next())
}

func TestSequence_Reseed_NeverMovesBackwards(t *testing.T) {
	seq := NewSequence(EnrollmentPrefix, EnrollmentBase)
	for range 5 {
		seq.Next()
	}

	seq.Reseed([]string{"E3000"})

	require.Equal(t, "E3005", seq.Next())
}
