package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "delete-deployment-environment",
	Short: "Deactivate and delete the deployments of a GitHub environment",
	Long: `Deactivates every deployment of a GitHub environment, then deletes the deployments
and the environment itself unless told otherwise. Inputs are read from the GitHub
Actions INPUT_* variables or from flags.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           runCleanup,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
