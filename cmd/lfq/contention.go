package main

import (
	"fmt"
	"os"

	"github.com/randomizedcoder/lfq/internal/stress"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type contentionArgs struct {
	cfg         stress.Config
	configFile  string
	printConfig bool
}

func cmdContention() *cobra.Command {
	args := &contentionArgs{cfg: stress.DefaultConfig()}

	cmd := &cobra.Command{
		GroupID: "run",
		Use:     "contention",
		Short:   "Run one contention test and verify delivery",
		Args:    cobra.NoArgs,
		Example: `  lfq contention -p 8 -c 8 -n 1000000
  lfq contention --impl lockfree --capacity 64 --hard-bound
  lfq contention --config run.yml --log-level debug`,
		RunE: args.run,
	}

	args.flags(cmd.Flags())

	return cmd
}

func (a *contentionArgs) flags(f *pflag.FlagSet) {
	f.StringVar(&a.configFile, "config", "", "YAML configuration file; flags override it")
	f.BoolVar(&a.printConfig, "print-config", false, "Print the effective configuration and exit")
	f.StringVar(&a.cfg.Impl, "impl", a.cfg.Impl, "Queue implementation (lockfree, channel, mutex)")
	f.StringVar(&a.cfg.Mode, "mode", a.cfg.Mode, "Run mode (mpmc, fill-drain)")
	f.IntVarP(&a.cfg.Producers, "producers", "p", a.cfg.Producers, "Number of producers")
	f.IntVarP(&a.cfg.Consumers, "consumers", "c", a.cfg.Consumers, "Number of consumers")
	f.IntVarP(&a.cfg.ItemsPerProducer, "items", "n", a.cfg.ItemsPerProducer, "Items pushed by each producer")
	f.IntVar(&a.cfg.Capacity, "capacity", a.cfg.Capacity, "Queue capacity, -1 for unbounded")
	f.BoolVar(&a.cfg.HardBound, "hard-bound", a.cfg.HardBound, "Never exceed capacity, even transiently")
	f.IntVar(&a.cfg.MaxNodes, "max-nodes", a.cfg.MaxNodes, "Node allocation limit, 0 for none")
	f.DurationVar(&a.cfg.Timeout, "timeout", a.cfg.Timeout, "Abort the run after this long")
	f.DurationVar(&a.cfg.Progress, "progress", a.cfg.Progress, "Progress log interval")
	f.StringVar(&a.cfg.Ticker, "ticker", a.cfg.Ticker, "Progress ticker (atomic, std)")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "Log level")
}

func (a *contentionArgs) run(cmd *cobra.Command, _ []string) error {
	if a.configFile != "" {
		if err := a.load(cmd.Flags()); err != nil {
			return err
		}
	}
	if err := setLogLevel(a.cfg.LogLevel); err != nil {
		return err
	}

	if a.printConfig {
		out, err := a.cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep, err := stress.Run(ctx, a.cfg)
	printReport(rep)
	return err
}

// load replaces the configuration with the file's, then reapplies every
// flag given on the command line.
func (a *contentionArgs) load(flags *pflag.FlagSet) error {
	overrides := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})

	cfg, err := stress.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	for name, value := range overrides {
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

func printReport(rep stress.Report) {
	fmt.Printf("\n%s %s: %d producers, %d consumers\n", rep.Impl, rep.Mode, rep.Producers, rep.Consumers)
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("  Pushed:      %d\n", rep.Pushed)
	fmt.Printf("  Popped:      %d\n", rep.Popped)
	fmt.Printf("  Rejected:    %d\n", rep.Rejected)
	if rep.Nodes >= 0 {
		fmt.Printf("  Live nodes:  %d\n", rep.Nodes)
	}
	fmt.Printf("  Elapsed:     %v\n", rep.Elapsed)
	fmt.Printf("  Throughput:  %.2f M ops/sec\n", rep.Throughput()/1e6)
}
