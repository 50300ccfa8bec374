package queue_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randomizedcoder/lfq/internal/queue"
	"github.com/stretchr/testify/require"
)

// Run with: go test -race ./internal/queue

// TestLockFree_ContentionProducersOnly pushes from GOMAXPROCS goroutines,
// checks the count, then pops everything and compares the multisets.
func TestLockFree_ContentionProducersOnly(t *testing.T) {
	producers := runtime.GOMAXPROCS(0)
	perProducer := 20_000
	if testing.Short() {
		perProducer = 2_000
	}
	total := producers * perProducer

	q, err := queue.New[int](queue.Unbounded)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if !q.Push(p*perProducer + i) {
					t.Errorf("push rejected on unbounded queue")
					return
				}
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, total, q.Len())

	seen := make([]bool, total)
	lastFromProducer := make([]int, producers)
	for i := range lastFromProducer {
		lastFromProducer[i] = -1
	}
	for i := 0; i < total; i++ {
		v, ok := q.Pop()
		require.True(t, ok, "pop %d of %d", i, total)
		require.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true

		// Items of one producer keep their relative order.
		p, seq := v/perProducer, v%perProducer
		require.Greater(t, seq, lastFromProducer[p])
		lastFromProducer[p] = seq
	}

	_, ok := q.Pop()
	require.False(t, ok)
	require.Equal(t, 0, q.Len())
	require.Equal(t, 1, q.Nodes())
}

// TestLockFree_MPMC runs producers and consumers at the same time and checks
// that every value is consumed exactly once.
func TestLockFree_MPMC(t *testing.T) {
	for _, tc := range []struct {
		name     string
		capacity int
		opts     []queue.Option
	}{
		{"Unbounded", queue.Unbounded, nil},
		{"SoftBound", 64, nil},
		{"HardBound", 64, []queue.Option{queue.WithHardBound()}},
		{"NodeLimit", queue.Unbounded, []queue.Option{queue.WithMaxNodes(32)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q, err := queue.New[int](tc.capacity, tc.opts...)
			require.NoError(t, err)
			runMPMC(t, q, 8, 8, 5_000)
			require.Equal(t, 1, q.Nodes())
		})
	}
}

func TestBaselines_MPMC(t *testing.T) {
	runMPMC(t, queue.NewChannel[int](64), 4, 4, 5_000)
	runMPMC(t, queue.NewMutex[int](64), 4, 4, 5_000)
}

func runMPMC(t *testing.T, q queue.Queue[int], producers, consumers, perProducer int) {
	t.Helper()
	if testing.Short() {
		perProducer /= 10
	}
	total := producers * perProducer

	counts := make([]atomic.Int32, total)
	var received atomic.Int64

	var pwg sync.WaitGroup
	for p := 0; p < producers; p++ {
		pwg.Add(1)
		go func(p int) {
			defer pwg.Done()
			for i := 0; i < perProducer; i++ {
				for !q.Push(p*perProducer + i) {
					runtime.Gosched()
				}
			}
		}(p)
	}

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for received.Load() < int64(total) {
				v, ok := q.Pop()
				if !ok {
					runtime.Gosched()
					continue
				}
				counts[v].Add(1)
				received.Add(1)
			}
		}()
	}

	pwg.Wait()

	done := make(chan struct{})
	go func() {
		cwg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("timeout waiting for consumers: received %d/%d", received.Load(), total)
	}

	for v := range counts {
		require.Equal(t, int32(1), counts[v].Load(), "value %d", v)
	}
	require.Equal(t, 0, q.Len())
}

// TestLockFree_HardBoundNeverExceeded samples Len while producers race
// against a hard bound.
func TestLockFree_HardBoundNeverExceeded(t *testing.T) {
	const capacity = 16
	q, err := queue.New[int](capacity, queue.WithHardBound())
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if !q.Push(1) {
					q.Pop()
				}
			}
		}()
	}

	for i := 0; i < 100_000; i++ {
		require.LessOrEqual(t, q.Len(), capacity)
	}
	close(stop)
	wg.Wait()
}

// TestLockFree_SoftBoundSettles checks that rejected reservations are always
// rolled back, even if Len overshot while they were in flight.
func TestLockFree_SoftBoundSettles(t *testing.T) {
	const capacity = 16
	q, err := queue.New[int](capacity)
	require.NoError(t, err)

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1_000; i++ {
				if q.Push(i) {
					accepted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(capacity), accepted.Load())
	require.Equal(t, capacity, q.Len())
	require.Equal(t, capacity, q.Clear())
}
