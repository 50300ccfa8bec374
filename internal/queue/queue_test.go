package queue_test

import (
	"slices"
	"testing"

	"github.com/randomizedcoder/lfq/internal/queue"
	"github.com/stretchr/testify/require"
)

func newLockFree[T any](t *testing.T, capacity int, opts ...queue.Option) *queue.LockFree[T] {
	t.Helper()
	q, err := queue.New[T](capacity, opts...)
	require.NoError(t, err)
	return q
}

func TestLockFree_FIFO(t *testing.T) {
	q := newLockFree[int](t, 10)

	for i := 1; i <= 5; i++ {
		require.True(t, q.Push(i))
	}
	for i := 1; i <= 5; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, v, "FIFO violation")
	}
}

func TestLockFree_Capacity(t *testing.T) {
	q := newLockFree[int](t, 5)
	require.Equal(t, 5, q.Cap())

	for i := 0; i < 5; i++ {
		require.True(t, q.Push(i), "push %d", i)
	}
	require.False(t, q.Push(5))
	require.Equal(t, 5, q.Len())
	require.False(t, q.Push(6))
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	// Room again after popping.
	require.True(t, q.Push(7))
}

func TestLockFree_HardBound(t *testing.T) {
	q := newLockFree[int](t, 3, queue.WithHardBound())

	for i := 0; i < 3; i++ {
		require.NoError(t, q.TryPush(i))
	}
	require.ErrorIs(t, q.TryPush(3), queue.ErrCapacityExceeded)
	require.Equal(t, 3, q.Len())
}

func TestLockFree_EmptyPop(t *testing.T) {
	q := newLockFree[int](t, queue.Unbounded)

	v, ok := q.Pop()
	require.False(t, ok)
	require.Zero(t, v)
	require.Equal(t, 0, q.Len())
}

func TestLockFree_RepeatedEmptyPop(t *testing.T) {
	q := newLockFree[string](t, 4)
	require.True(t, q.Push("x"))
	_, ok := q.Pop()
	require.True(t, ok)

	for i := 0; i < 100; i++ {
		_, ok := q.Pop()
		require.False(t, ok)
	}
	require.Equal(t, 0, q.Len())
	require.Equal(t, 1, q.Nodes())
}

func TestLockFree_Drain(t *testing.T) {
	q := newLockFree[int](t, 10)
	for i := 0; i < 10; i++ {
		require.True(t, q.Push(i))
	}

	var got []int
	n := q.Drain(func(v int) { got = append(got, v) })

	require.Equal(t, 10, n)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	require.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestLockFree_Clear(t *testing.T) {
	q := newLockFree[int](t, queue.Unbounded)
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	require.Equal(t, 10, q.Clear())
	require.Equal(t, 0, q.Len())
	require.Equal(t, 0, q.Clear())
}

func TestLockFree_All(t *testing.T) {
	q := newLockFree[int](t, queue.Unbounded)
	for i := 0; i < 6; i++ {
		q.Push(i)
	}

	var got []int
	for v := range q.All() {
		got = append(got, v)
		if v == 2 {
			break
		}
	}
	require.Equal(t, []int{0, 1, 2}, got)
	require.Equal(t, []int{3, 4, 5}, slices.Collect(q.All()))
	require.Equal(t, 0, q.Len())
}

func TestLockFree_NewErrors(t *testing.T) {
	for _, capacity := range []int{0, -2, -100} {
		_, err := queue.New[int](capacity)
		require.ErrorIs(t, err, queue.ErrInvalidCapacity, "capacity %d", capacity)
	}

	q, err := queue.New[int](queue.Unbounded, queue.WithMaxNodes(0))
	require.ErrorIs(t, err, queue.ErrAllocation)
	require.Nil(t, q)
}

func TestLockFree_AllocationFailure(t *testing.T) {
	// The sentinel takes one of the three nodes.
	q := newLockFree[int](t, queue.Unbounded, queue.WithMaxNodes(3))

	require.NoError(t, q.TryPush(1))
	require.NoError(t, q.TryPush(2))
	require.ErrorIs(t, q.TryPush(3), queue.ErrAllocation)
	require.False(t, q.Push(3))
	require.Equal(t, 2, q.Len(), "failed allocation must roll back its reservation")

	// Popping one retires the old sentinel and frees a node.
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.NoError(t, q.TryPush(3))

	require.Equal(t, []int{2, 3}, slices.Collect(q.All()))
}

func TestLockFree_NodesRecycled(t *testing.T) {
	q := newLockFree[int](t, queue.Unbounded)
	require.Equal(t, 1, q.Nodes())

	for round := 0; round < 3; round++ {
		for i := 0; i < 100; i++ {
			q.Push(i)
		}
		require.Equal(t, 101, q.Nodes())
		require.Equal(t, 100, q.Clear())
		require.Equal(t, 1, q.Nodes())
	}
}

func TestLockFree_PointerValuesReleased(t *testing.T) {
	type payload struct{ n int }
	q := newLockFree[*payload](t, queue.Unbounded)

	p := &payload{n: 1}
	require.True(t, q.Push(p))
	v, ok := q.Pop()
	require.True(t, ok)
	require.Same(t, p, v)

	var nilPayload *payload
	require.True(t, q.Push(nilPayload))
	v, ok = q.Pop()
	require.True(t, ok)
	require.Nil(t, v)
}
