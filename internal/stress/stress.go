// Package stress runs contention scenarios against the queues in
// internal/queue and verifies that every produced item is consumed exactly
// once.
//
// Producer p pushes the values p*K .. p*K+K-1 for K items per producer, so
// the expected multiset is the sequence [0, producers*K). Consumers record
// what they pop in private tallies that are merged and compared after the
// run.
package stress

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/randomizedcoder/lfq/internal/cancel"
	"github.com/randomizedcoder/lfq/internal/log"
	"github.com/randomizedcoder/lfq/internal/queue"
	"github.com/randomizedcoder/lfq/internal/tick"
	"golang.org/x/sync/errgroup"
)

// maxReported caps how many missing or extra values an error message lists.
const maxReported = 8

// Report summarizes a finished run.
type Report struct {
	Impl      string
	Mode      string
	Producers int
	Consumers int
	Pushed    int64
	Popped    int64
	// Rejected counts Push calls refused by a full queue or node limit.
	Rejected int64
	// Nodes is the number of live lock-free nodes after the run, or -1 for
	// the baselines.
	Nodes   int
	Elapsed time.Duration
}

// Throughput returns completed push and pop operations per second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Pushed+r.Popped) / r.Elapsed.Seconds()
}

// NewQueue builds the queue a configuration asks for.
func NewQueue(cfg Config) (queue.Queue[int64], error) {
	switch cfg.Impl {
	case ImplLockFree:
		var opts []queue.Option
		if cfg.HardBound {
			opts = append(opts, queue.WithHardBound())
		}
		if cfg.MaxNodes > 0 {
			opts = append(opts, queue.WithMaxNodes(cfg.MaxNodes))
		}
		return queue.New[int64](cfg.Capacity, opts...)
	case ImplChannel:
		return queue.NewChannel[int64](cfg.Capacity), nil
	case ImplMutex:
		return queue.NewMutex[int64](cfg.Capacity), nil
	}
	return nil, fmt.Errorf("%w: unknown impl %q", ErrInvalidConfig, cfg.Impl)
}

type runner struct {
	cfg    Config
	q      queue.Queue[int64]
	ticker tick.Ticker

	pushed   atomic.Int64
	popped   atomic.Int64
	rejected atomic.Int64
}

func (r *runner) String() string {
	return "stress-" + r.cfg.Impl
}

// Run executes one contention run. A non-nil error wraps one of the package
// errors; the report is filled in as far as the run got.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	q, err := NewQueue(cfg)
	if err != nil {
		return Report{}, err
	}
	ticker, err := tick.New(cfg.Ticker, cfg.Progress)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	defer ticker.Stop()

	r := &runner{cfg: cfg, q: q, ticker: ticker}
	log.Info(r, "Run started", "mode", cfg.Mode, "producers", cfg.Producers,
		"consumers", cfg.Consumers, "items", cfg.Total(), "capacity", q.Cap())

	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	start := time.Now()
	var got *Tally[int64]
	switch cfg.Mode {
	case ModeFillDrain:
		got, err = r.fillDrain(ctx)
	default:
		got, err = r.mpmc(ctx)
	}
	rep := r.report(time.Since(start))
	if err == nil {
		err = r.verify(got, &rep)
	}

	if err != nil {
		log.Error(r, "Run failed", "err", err, "popped", rep.Popped, "total", cfg.Total())
		return rep, err
	}
	log.Info(r, "Run finished", "elapsed", rep.Elapsed, "ops/s", int64(rep.Throughput()),
		"rejected", rep.Rejected)
	return rep, nil
}

func (r *runner) report(elapsed time.Duration) Report {
	rep := Report{
		Impl:      r.cfg.Impl,
		Mode:      r.cfg.Mode,
		Producers: r.cfg.Producers,
		Consumers: r.cfg.Consumers,
		Pushed:    r.pushed.Load(),
		Popped:    r.popped.Load(),
		Rejected:  r.rejected.Load(),
		Nodes:     -1,
		Elapsed:   elapsed,
	}
	if r.cfg.Mode == ModeFillDrain {
		rep.Consumers = 1
	}
	if lf, ok := r.q.(*queue.LockFree[int64]); ok {
		rep.Nodes = lf.Nodes()
	}
	return rep
}

// mpmc runs producers and consumers concurrently until every item has been
// popped or the context ends.
func (r *runner) mpmc(ctx context.Context) (*Tally[int64], error) {
	g, gctx := errgroup.WithContext(ctx)
	stop, release := cancel.FromContext(gctx)
	defer release()

	for p := range r.cfg.Producers {
		g.Go(func() error {
			return r.produce(stop, p)
		})
	}

	total := int64(r.cfg.Total())
	tallies := make([]*Tally[int64], r.cfg.Consumers)
	for c := range tallies {
		tallies[c] = NewTally[int64]()
		g.Go(func() error {
			return r.consume(stop, c, tallies[c], total)
		})
	}

	err := g.Wait()
	got := NewTally[int64]()
	for _, t := range tallies {
		got.Merge(t)
	}
	return got, err
}

// fillDrain pushes every item, checks the length, then pops everything from
// the calling goroutine.
func (r *runner) fillDrain(ctx context.Context) (*Tally[int64], error) {
	g, gctx := errgroup.WithContext(ctx)
	stop, release := cancel.FromContext(gctx)
	defer release()

	for p := range r.cfg.Producers {
		g.Go(func() error {
			return r.produce(stop, p)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := r.cfg.Total()
	if n := r.q.Len(); n != total {
		return nil, fmt.Errorf("%w: len %d after pushing %d", ErrLenMismatch, n, total)
	}
	log.Debug(r, "Fill complete", "len", total)

	got := NewTally[int64]()
	for i := range total {
		v, ok := r.q.Pop()
		if !ok {
			return got, fmt.Errorf("%w: queue empty after %d of %d pops", ErrLostItems, i, total)
		}
		got.Add(v)
		r.popped.Add(1)
	}
	return got, nil
}

func (r *runner) produce(stop cancel.Canceler, p int) error {
	k := r.cfg.ItemsPerProducer
	base := int64(p) * int64(k)
	for i := range k {
		for !r.q.Push(base + int64(i)) {
			r.rejected.Add(1)
			if stop.Done() {
				return fmt.Errorf("%w: producer %d stopped after %d of %d items", ErrTimeout, p, i, k)
			}
			runtime.Gosched()
		}
		r.pushed.Add(1)
	}
	log.Trace(r, "Producer done", "producer", p)
	return nil
}

func (r *runner) consume(stop cancel.Canceler, c int, t *Tally[int64], total int64) error {
	for r.popped.Load() < total {
		if r.ticker.Tick() {
			log.Info(r, "Progress", "pushed", r.pushed.Load(), "popped", r.popped.Load(),
				"len", r.q.Len(), "rejected", r.rejected.Load())
		}
		v, ok := r.q.Pop()
		if !ok {
			if stop.Done() {
				return fmt.Errorf("%w: consumer %d stopped at %d of %d items", ErrTimeout, c, r.popped.Load(), total)
			}
			runtime.Gosched()
			continue
		}
		t.Add(v)
		r.popped.Add(1)
	}
	log.Trace(r, "Consumer done", "consumer", c, "popped", t.Total())
	return nil
}

// verify checks exactly-once delivery and that the queue ended empty.
func (r *runner) verify(got *Tally[int64], rep *Report) error {
	want := Sequence(int64(r.cfg.Total()))
	missing, extra := got.Diff(want)
	if len(extra) > 0 {
		return fmt.Errorf("%w: %d extra, first %v", ErrDuplicateItems, len(extra), extra[:min(len(extra), maxReported)])
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %d missing, first %v", ErrLostItems, len(missing), missing[:min(len(missing), maxReported)])
	}
	if n := r.q.Len(); n != 0 {
		return fmt.Errorf("%w: len %d after draining", ErrLenMismatch, n)
	}
	if _, ok := r.q.Pop(); ok {
		return fmt.Errorf("%w: pop succeeded after draining", ErrDuplicateItems)
	}
	if rep.Nodes > 1 {
		return fmt.Errorf("%w: %d live nodes, want 1", ErrLeakedNodes, rep.Nodes)
	}
	return nil
}
