package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/step-security/delete-deployment-environment/internal/actionlog"
	"github.com/step-security/delete-deployment-environment/internal/cleanup"
	"github.com/step-security/delete-deployment-environment/internal/deployments"
	"github.com/step-security/delete-deployment-environment/internal/inputs"
	"github.com/step-security/delete-deployment-environment/internal/repocontext"
	"github.com/step-security/delete-deployment-environment/internal/subscription"
)

var (
	cleanupDryRun bool
	cleanupYes    bool

	// Mode flags
	cleanupInteractive    bool
	cleanupNonInteractive bool
)

func init() {
	flags := rootCmd.Flags()
	flags.String("token", "", "GitHub token (or INPUT_TOKEN/GITHUB_TOKEN env)")
	flags.String("environment", "", "Environment to clean up (or INPUT_ENVIRONMENT env)")
	flags.String("ref", "", "Only touch deployments of this ref (or INPUT_REF env)")
	flags.Bool("only-remove-deployments", false, "Delete deployments but keep the environment")
	flags.Bool("only-deactivate-deployments", false, "Deactivate deployments without deleting anything")
	flags.String("repository", "", "Repository as owner/repo (or GITHUB_REPOSITORY env, default: origin remote)")
	flags.String("api-url", "", "GitHub REST API URL (or GITHUB_API_URL env)")

	flags.BoolVar(&cleanupDryRun, "dry-run", false, "List deployments and show what would be done without making changes")
	flags.BoolVarP(&cleanupYes, "yes", "y", false, "Skip the confirmation prompt")

	flags.BoolVarP(&cleanupInteractive, "interactive", "i", false, "Force interactive mode")
	flags.BoolVar(&cleanupNonInteractive, "non-interactive", false, "Force non-interactive mode")
}

func runCleanup(cmd *cobra.Command, args []string) {
	logger := actionlog.New(os.Stdout)

	v, err := inputs.NewViper(cmd.Flags())
	if err != nil {
		os.Exit(reportFailure(logger, err))
	}

	config := &CleanupConfig{
		SubscriptionURL: subscription.DefaultBaseURL,
		DryRun:          cleanupDryRun,
		Yes:             cleanupYes,
	}

	// Determine mode
	if cleanupNonInteractive {
		config.Interactive = false
	} else if cleanupInteractive {
		config.Interactive = true
	} else {
		config.Interactive = os.Getenv("GITHUB_ACTIONS") != "true" &&
			(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
	}

	if err := executeCleanup(cmd.Context(), v, config, logger); err != nil {
		os.Exit(reportFailure(logger, err))
	}
}

// executeCleanup gates on the subscription, resolves inputs and runs the cleanup
func executeCleanup(ctx context.Context, v *viper.Viper, config *CleanupConfig, logger *slog.Logger) error {
	sub := subscription.NewClientWithHTTPClient(config.SubscriptionURL,
		&http.Client{Timeout: subscription.DefaultTimeout}, logger)
	if err := sub.Validate(ctx, inputs.Repository(v)); err != nil {
		return err
	}

	in, err := inputs.Load(v)
	if err != nil {
		return err
	}

	repo, err := repocontext.Resolve(in.Repository, in.Workspace)
	if err != nil {
		return err
	}

	client, err := deployments.NewClient(in.Token, in.APIURL)
	if err != nil {
		return err
	}
	svc := deployments.NewService(client, repo, logger)

	var confirm cleanup.ConfirmFunc
	if config.Interactive && !config.Yes && !config.DryRun {
		confirm = confirmCleanup(repo)
	}

	runner := cleanup.NewRunner(svc, logger, confirm)
	_, err = runner.Run(ctx, cleanup.Options{
		Environment: in.Environment,
		Ref:         in.Ref,
		Flags:       in.Flags,
		DryRun:      config.DryRun,
	})
	return err
}

// reportFailure logs err as the terminal failure of the run and returns the
// process exit code. A rejected subscription is reported on its own.
func reportFailure(logger *slog.Logger, err error) int {
	if errors.Is(err, subscription.ErrRejected) {
		logger.Error("Subscription is not valid. Reach out to support@stepsecurity.io")
		return 1
	}
	logger.Error(fmt.Sprintf("Action failed: %s", err.Error()))
	return 1
}
