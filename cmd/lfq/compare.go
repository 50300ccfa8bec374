package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/randomizedcoder/lfq/internal/stress"
	"github.com/spf13/cobra"
)

type compareArgs struct {
	cfg        stress.Config
	iterations int
}

func cmdCompare() *cobra.Command {
	args := &compareArgs{cfg: stress.DefaultConfig()}
	args.cfg.Capacity = 1024

	cmd := &cobra.Command{
		GroupID: "run",
		Use:     "compare",
		Short:   "Run the same workload against every queue implementation",
		Args:    cobra.NoArgs,
		Example: `  lfq compare -p 4 -c 4 -n 1000000 --capacity 1024`,
		RunE:    args.run,
	}

	f := cmd.Flags()
	f.IntVar(&args.iterations, "iterations", 10_000_000, "Push+pop pairs in the single-goroutine pass, 0 to skip")
	f.StringVar(&args.cfg.Mode, "mode", args.cfg.Mode, "Run mode (mpmc, fill-drain)")
	f.IntVarP(&args.cfg.Producers, "producers", "p", args.cfg.Producers, "Number of producers")
	f.IntVarP(&args.cfg.Consumers, "consumers", "c", args.cfg.Consumers, "Number of consumers")
	f.IntVarP(&args.cfg.ItemsPerProducer, "items", "n", args.cfg.ItemsPerProducer, "Items pushed by each producer")
	f.IntVar(&args.cfg.Capacity, "capacity", args.cfg.Capacity, "Capacity shared by every implementation")
	f.DurationVar(&args.cfg.Timeout, "timeout", args.cfg.Timeout, "Abort each run after this long")
	f.StringVar(&args.cfg.LogLevel, "log-level", "WARN", "Log level")

	return cmd
}

func (a *compareArgs) run(*cobra.Command, []string) error {
	if err := setLogLevel(a.cfg.LogLevel); err != nil {
		return err
	}

	if a.iterations > 0 {
		if err := a.uncontended(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("\nComparing queues (%d producers, %d consumers, %d items, capacity=%d, GOMAXPROCS=%d)\n",
		a.cfg.Producers, a.cfg.Consumers, a.cfg.Total(), a.cfg.Capacity, runtime.GOMAXPROCS(0))
	fmt.Println("─────────────────────────────────────────────────")

	reports := make([]stress.Report, 0, len(stress.Impls))
	for _, impl := range stress.Impls {
		cfg := a.cfg
		cfg.Impl = impl
		rep, err := stress.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", impl, err)
		}
		reports = append(reports, rep)
	}

	base := reports[0]
	fmt.Printf("\nResults (contended, push + pop per item):\n")
	for _, rep := range reports {
		perOp := float64(rep.Elapsed.Nanoseconds()) / float64(rep.Pushed+rep.Popped)
		fmt.Printf("  %-10s %12v  %8.2f ns/op  %6.2f M ops/sec  %5.2fx\n",
			rep.Impl, rep.Elapsed, perOp, rep.Throughput()/1e6,
			base.Elapsed.Seconds()/rep.Elapsed.Seconds())
	}
	fmt.Printf("\n  Speedup is relative to %s; above 1 means faster.\n", base.Impl)
	return nil
}

// uncontended times push+pop pairs from one goroutine, so the numbers show
// the bare cost of each implementation without cache-line traffic.
func (a *compareArgs) uncontended() error {
	fmt.Printf("Benchmarking push+pop from one goroutine (%d iterations, capacity=%d)\n",
		a.iterations, a.cfg.Capacity)
	fmt.Println("─────────────────────────────────────────────────")

	type result struct {
		impl  string
		perOp float64
	}
	results := make([]result, 0, len(stress.Impls))
	for _, impl := range stress.Impls {
		cfg := a.cfg
		cfg.Impl = impl
		q, err := stress.NewQueue(cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", impl, err)
		}

		start := time.Now()
		for i := range int64(a.iterations) {
			q.Push(i)
			q.Pop()
		}
		dur := time.Since(start)
		results = append(results, result{impl, float64(dur.Nanoseconds()) / float64(a.iterations)})
	}

	fmt.Printf("\nResults (push + pop per iteration):\n")
	for _, r := range results {
		fmt.Printf("  %-10s %8.2f ns/op  %8.2f M ops/sec  %5.2fx\n",
			r.impl, r.perOp, 1000/r.perOp, results[0].perOp/r.perOp)
	}
	return nil
}
