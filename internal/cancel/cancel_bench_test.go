package cancel_test

import (
	"context"
	"testing"

	"github.com/randomizedcoder/lfq/internal/cancel"
)

var sinkBool bool

// cancelers builds every Canceler a stress worker may poll. The returned
// func releases it.
var cancelers = []struct {
	name string
	new  func() (cancel.Canceler, func())
}{
	{"Context", func() (cancel.Canceler, func()) {
		c := cancel.NewContext(context.Background())
		return c, c.Cancel
	}},
	{"Atomic", func() (cancel.Canceler, func()) {
		return cancel.NewAtomic(), func() {}
	}},
	{"Bridged", func() (cancel.Canceler, func()) {
		return cancel.FromContext(context.Background())
	}},
}

// BenchmarkDone measures one poll through the interface, the way the stress
// workers call it between retries.
func BenchmarkDone(b *testing.B) {
	for _, tc := range cancelers {
		b.Run(tc.name, func(b *testing.B) {
			c, release := tc.new()
			defer release()
			b.ReportAllocs()
			b.ResetTimer()

			var result bool
			for i := 0; i < b.N; i++ {
				result = c.Done()
			}
			sinkBool = result
		})
	}
}

// BenchmarkDone_Parallel polls one canceler from every P, as all producers
// and consumers of a run share the same stop signal.
func BenchmarkDone_Parallel(b *testing.B) {
	for _, tc := range cancelers {
		b.Run(tc.name, func(b *testing.B) {
			c, release := tc.new()
			defer release()
			b.ReportAllocs()
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				var result bool
				for pb.Next() {
					result = c.Done()
				}
				sinkBool = result
			})
		})
	}
}

// BenchmarkDone_Direct calls AtomicCanceler without the interface.
func BenchmarkDone_Direct(b *testing.B) {
	c := cancel.NewAtomic()
	b.ReportAllocs()

	var result bool
	for i := 0; i < b.N; i++ {
		result = c.Done()
	}
	sinkBool = result
}
