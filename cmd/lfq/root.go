package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/randomizedcoder/lfq/internal/log"
	"github.com/spf13/cobra"
)

func cmdLfq() *cobra.Command {
	root := &cobra.Command{
		Use:   "lfq",
		Short: "Lock-free MPMC queue contention tool",
		Long: `Lock-free MPMC queue contention tool

Runs producers and consumers against a queue and checks that every
item is delivered exactly once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.EnableCommandSorting = false
	root.CompletionOptions.HiddenDefaultCmd = true
	root.PersistentFlags().BoolP("help", "h", false, "Print usage")
	root.PersistentFlags().Lookup("help").Hidden = true
	root.PersistentFlags().Bool("json", false, "Write logs as JSON")

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if asJson, _ := cmd.Flags().GetBool("json"); asJson {
			prev := log.SetDefault(log.NewJson(os.Stderr))
			log.Default().SetLevel(prev.Level())
		}
	}

	root.AddGroup(&cobra.Group{ID: "run", Title: "Queue Runs"})
	root.AddCommand(cmdContention())
	root.AddCommand(cmdCompare())
	root.AddCommand(cmdOverhead())

	return root
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func setLogLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	log.Default().SetLevel(level)
	return nil
}
