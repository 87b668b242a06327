package pkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOdometer_LastWheelVariesFastest(t *testing.T) {
	odo := NewOdometer([][]string{
		{"a", "b"},
		{"1", "2", "3"},
	})

	require.Equal(t, uint64(6), odo.Len())

	want := [][]string{
		{"a", "1"}, {"a", "2"}, {"a", "3"},
		{"b", "1"}, {"b", "2"}, {"b", "3"},
	}

	for _, expected := range want {
		combo, ok := odo.Next()
		require.True(t, ok)
		require.Equal(t, expected, combo)
	}

	_, ok := odo.Next()
	require.False(t, ok)
}

func TestOdometer_ZeroWheelsYieldOneEmptyCombination(t *testing.T) {
	odo := NewOdometer[int](nil)

	require.Equal(t, uint64(1), odo.Len())

	combo, ok := odo.Next()
	require.True(t, ok)
	require.Empty(t, combo)

	_, ok = odo.Next()
	require.False(t, ok)
}

func TestOdometer_EmptyWheelYieldsNothing(t *testing.T) {
	odo := NewOdometer([][]int{{1, 2}, {}})

	require.Equal(t, uint64(0), odo.Len())

	_, ok := odo.Next()
	require.False(t, ok)
}

func TestOdometer_ResetRestartsTheSequence(t *testing.T) {
	odo := NewOdometer([][]int{{1, 2}})

	first, ok := odo.Next()
	require.True(t, ok)

	for {
		if _, more := odo.Next(); !more {
			break
		}
	}

	odo.Reset()

	again, ok := odo.Next()
	require.True(t, ok)
	require.Equal(t, first, again)
}

func TestOdometer_SingleWheelEnumeratesInOrder(t *testing.T) {
	odo := NewOdometer([][]int{{7, 8, 9}})

	var got []int

	for {
		combo, ok := odo.Next()
		if !ok {
			break
		}

		require.Len(t, combo, 1)
		got = append(got, combo[0])
	}

	require.Equal(t, []int{7, 8, 9}, got)
}

func TestOdometer_DuplicateValuesAreNotDeduplicated(t *testing.T) {
	odo := NewOdometer([][]string{{"x", "x"}})

	require.Equal(t, uint64(2), odo.Len())

	first, ok := odo.Next()
	require.True(t, ok)

	second, ok := odo.Next()
	require.True(t, ok)
	require.Equal(t, first, second)
}
