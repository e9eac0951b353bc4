package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func ints(ns ...int64) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = value.NewInteger(n)
	}
	return out
}

func TestListConstructsProperList(t *testing.T) {
	lst, err := listPrimitive.Fn(ints(1, 2, 3))
	require.NoError(t, err)
	items, ok := value.ListToSlice(lst)
	require.True(t, ok)
	assert.Len(t, items, 3)
}

func TestTakeAndDrop(t *testing.T) {
	lst := value.SliceToList(ints(1, 2, 3, 4, 5))

	taken, err := takePrimitive.Fn([]value.Value{lst, value.NewInteger(2)})
	require.NoError(t, err)
	takenItems, ok := value.ListToSlice(taken)
	require.True(t, ok)
	assert.Equal(t, ints(1, 2), takenItems)

	dropped, err := dropPrimitive.Fn([]value.Value{lst, value.NewInteger(2)})
	require.NoError(t, err)
	droppedItems, ok := value.ListToSlice(dropped)
	require.True(t, ok)
	assert.Equal(t, ints(3, 4, 5), droppedItems)
}

func TestLastAndLength(t *testing.T) {
	lst := value.SliceToList(ints(1, 2, 3))

	last, err := lastPrimitive.Fn([]value.Value{lst})
	require.NoError(t, err)
	assert.Equal(t, value.NewInteger(3), last)

	length, err := lengthPrimitive.Fn([]value.Value{lst})
	require.NoError(t, err)
	assert.Equal(t, value.NewInteger(3), length)
}

func TestIotaDefaultStartAndStep(t *testing.T) {
	lst, err := iotaPrimitive.Fn([]value.Value{value.NewInteger(3)})
	require.NoError(t, err)
	items, ok := value.ListToSlice(lst)
	require.True(t, ok)
	assert.Equal(t, ints(0, 1, 2), items)
}

func TestAppendAndReverse(t *testing.T) {
	a := value.SliceToList(ints(1, 2))
	b := value.SliceToList(ints(3, 4))

	appended, err := appendPrimitive.Fn([]value.Value{a, b})
	require.NoError(t, err)
	appendedItems, ok := value.ListToSlice(appended)
	require.True(t, ok)
	assert.Equal(t, ints(1, 2, 3, 4), appendedItems)

	reversed, err := reversePrimitive.Fn([]value.Value{value.SliceToList(ints(1, 2, 3))})
	require.NoError(t, err)
	reversedItems, ok := value.ListToSlice(reversed)
	require.True(t, ok)
	assert.Equal(t, ints(3, 2, 1), reversedItems)
}
