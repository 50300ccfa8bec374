package main

import (
	"context"
	"fmt"
	"time"

	"github.com/randomizedcoder/lfq/internal/cancel"
	"github.com/randomizedcoder/lfq/internal/tick"
	"github.com/spf13/cobra"
)

// overheadInterval is long enough that no tick fires; only the check is
// measured.
const overheadInterval = time.Hour

type overheadArgs struct {
	iterations int
}

type pollResult struct {
	name  string
	total time.Duration
	perOp float64
}

func cmdOverhead() *cobra.Command {
	args := &overheadArgs{}

	cmd := &cobra.Command{
		GroupID: "run",
		Use:     "overhead",
		Short:   "Measure the stop and progress checks a spinning worker pays per retry",
		Args:    cobra.NoArgs,
		Example: `  lfq overhead -n 10000000`,
		Run:     args.run,
	}
	cmd.Flags().IntVarP(&args.iterations, "iterations", "n", 10_000_000, "Number of iterations")

	return cmd
}

func (a *overheadArgs) run(*cobra.Command, []string) {
	fmt.Printf("Benchmarking worker poll checks (%d iterations)\n", a.iterations)
	fmt.Println("─────────────────────────────────────────────────────────")
	fmt.Println()
	fmt.Println("Every retry of a rejected Push or an empty Pop runs:")
	fmt.Println()
	fmt.Println("  if stop.Done() { return }")
	fmt.Println("  if ticker.Tick() { logProgress() }")
	fmt.Println()

	ctxCancel := cancel.NewContext(context.Background())
	stdTicker := tick.NewTicker(overheadInterval)
	std := a.poll("ctx + time.Ticker", ctxCancel, stdTicker)
	stdTicker.Stop()

	atomicCancel := cancel.NewAtomic()
	mixedTicker := tick.NewTicker(overheadInterval)
	mixed := a.poll("atomic + time.Ticker", atomicCancel, mixedTicker)
	mixedTicker.Stop()

	opt := a.poll("atomic + AtomicTicker", cancel.NewAtomic(), tick.NewAtomicTicker(overheadInterval))

	fmt.Println("Results:")
	fmt.Println("─────────────────────────────────────────────────────────")
	for _, r := range []pollResult{std, mixed, opt} {
		fmt.Printf("  %s:\n", r.name)
		fmt.Printf("    Total: %v, Per-op: %.2f ns, Speedup: %.2fx\n", r.total, r.perOp, std.perOp/r.perOp)
	}
	fmt.Println()

	fmt.Println("Impact Analysis:")
	fmt.Println("─────────────────────────────────────────────────────────")
	savedNs := std.perOp - opt.perOp
	fmt.Printf("  Savings per retry: %.2f ns\n", savedNs)
	fmt.Println()

	for _, rate := range []int{100_000, 1_000_000, 10_000_000} {
		savedPerSec := savedNs * float64(rate) / 1e9
		fmt.Printf("  At %dK retries/sec: save %.2f ms/sec (%.2f%% of 1 core)\n",
			rate/1000, savedPerSec*1000, savedPerSec*100)
	}
}

func (a *overheadArgs) poll(name string, stop cancel.Canceler, ticker tick.Ticker) pollResult {
	start := time.Now()
	for i := 0; i < a.iterations; i++ {
		_ = stop.Done()
		_ = ticker.Tick()
	}
	total := time.Since(start)
	return pollResult{
		name:  name,
		total: total,
		perOp: float64(total.Nanoseconds()) / float64(max(a.iterations, 1)),
	}
}
