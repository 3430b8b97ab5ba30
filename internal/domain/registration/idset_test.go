package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDSet_AddIsIdempotent(t *testing.T) {
	set := NewIDSet()

	require.True(t, set.Add("C2000"))
	require.False(t, set.Add("C2000"))
	require.True(t, set.Add("C2001"))

	require.Equal(t, []string{"C2000", "C2001"}, set.Slice())
}

func TestIDSet_RemoveIsIdempotent(t *testing.T) {
	set := NewIDSet("C2000", "C2001", "C2002")

	require.True(t, set.Remove("C2001"))
	require.False(t, set.Remove("C2001"))
	require.False(t, set.Remove("C9999"))

	require.Equal(t, []string{"C2000", "C2002"}, set.Slice())
}

func TestIDSet_NewSkipsDuplicates(t *testing.T) {
	set := NewIDSet("a", "b", "a")
	require.Equal(t, 2, set.Len())
	require.True(t, set.Contains("a"))
}

func TestIDSet_SliceIsACopy(t *testing.T) {
	set := NewIDSet("a")
	ids := set.Slice()
	ids[0] = "changed"
	require.Equal(t, []string{"a"}, set.Slice())
}

func TestIDSet_NilIsEmpty(t *testing.T) {
	var set *IDSet
	require.Equal(t, 0, set.Len())
	require.False(t, set.Contains("a"))
	require.Empty(t, set.Slice())
}
