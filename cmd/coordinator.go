package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tahsinrahman/tuple-shuffle/internal"
)

var (
	reduceTasks int
	listenAddr  string
	timeout     time.Duration
)

// coordinatorCmd represents the coordinator command
var coordinatorCmd = &cobra.Command{
	Use: "coordinator [input files...]",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("expected at least one input file")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if reduceTasks <= 0 {
			return errors.New("--reduce-tasks must be positive")
		}
		c := internal.NewCoordinator(internal.NewCoordinatorConfig{
			ListenAddress: listenAddr,
			InputFiles:    args,
			ReduceWorkers: reduceTasks,
			Timeout:       timeout,
		})
		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(coordinatorCmd)

	coordinatorCmd.Flags().IntVar(&reduceTasks, "reduce-tasks", 10, "total reduce tasks")
	coordinatorCmd.Flags().StringVar(&listenAddr, "listen-addr", ":8080", "coordinator listen address")
	coordinatorCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "time after which an unfinished task is reassigned")

	_ = coordinatorCmd.MarkFlagRequired("reduce-tasks")
}
