// Package cleanup sequences the deployment and environment cleanup of a
// single run.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/step-security/delete-deployment-environment/internal/deployments"
	"github.com/step-security/delete-deployment-environment/internal/inputs"
)

// Service is the remote API surface the cleanup needs
type Service interface {
	List(ctx context.Context, environment, ref string) ([]deployments.Record, error)
	Deactivate(ctx context.Context, records []deployments.Record) error
	Delete(ctx context.Context, records []deployments.Record) error
	DeleteEnvironment(ctx context.Context, name string) (bool, error)
}

// Options selects what a run does
type Options struct {
	Environment string
	Ref         string
	Flags       inputs.OperationFlags
	DryRun      bool
}

// Plan describes the mutations a run is about to perform
type Plan struct {
	Environment       string
	Ref               string
	Deployments       []deployments.Record
	DeleteDeployments bool
	DeleteEnvironment bool
}

// ConfirmFunc is asked before any mutation; returning false cancels the run
type ConfirmFunc func(ctx context.Context, plan Plan) (bool, error)

// Result summarises a finished run
type Result struct {
	Plan               Plan
	Deactivated        int
	Deleted            int
	EnvironmentDeleted bool
	Cancelled          bool
}

// Runner executes the cleanup sequence
type Runner struct {
	service Service
	logger  *slog.Logger
	confirm ConfirmFunc
}

// NewRunner creates a Runner. confirm may be nil.
func NewRunner(service Service, logger *slog.Logger, confirm ConfirmFunc) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		service: service,
		logger:  logger,
		confirm: confirm,
	}
}

// Run lists the deployments of the environment, deactivates them, and
// then deletes the deployments and the environment as opts allow.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	r.logger.Info(fmt.Sprintf("Starting deployment management for environment: %s", opts.Environment))

	records, err := r.service.List(ctx, opts.Environment, opts.Ref)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}

	plan := Plan{
		Environment:       opts.Environment,
		Ref:               opts.Ref,
		Deployments:       records,
		DeleteDeployments: opts.Flags.ShouldDeleteDeployments(),
		DeleteEnvironment: opts.Flags.ShouldDeleteEnvironment(),
	}
	result := &Result{Plan: plan}

	if len(records) == 0 {
		r.logger.Info("No deployments found for the specified environment")
		return result, nil
	}

	r.logger.Info(fmt.Sprintf("Found %d deployment(s) to process", len(records)))

	if opts.DryRun {
		r.logPlan(plan)
		return result, nil
	}

	if r.confirm != nil {
		ok, err := r.confirm(ctx, plan)
		if err != nil {
			return nil, fmt.Errorf("confirmation: %w", err)
		}
		if !ok {
			r.logger.Info("Cancelled.")
			result.Cancelled = true
			return result, nil
		}
	}

	r.logger.Info("Deactivating deployments...")
	if err := r.service.Deactivate(ctx, records); err != nil {
		return nil, fmt.Errorf("deactivating deployments: %w", err)
	}
	result.Deactivated = len(records)
	r.logger.Info(fmt.Sprintf("Successfully deactivated %d deployment(s)", len(records)))

	if plan.DeleteDeployments {
		r.logger.Info("Deleting deployments...")
		if err := r.service.Delete(ctx, records); err != nil {
			return nil, fmt.Errorf("deleting deployments: %w", err)
		}
		result.Deleted = len(records)
		r.logger.Info(fmt.Sprintf("Successfully deleted %d deployment(s)", len(records)))
	}

	if plan.DeleteEnvironment {
		r.logger.Info(fmt.Sprintf("Deleting environment: %s", opts.Environment))
		deleted, err := r.service.DeleteEnvironment(ctx, opts.Environment)
		if err != nil {
			return nil, fmt.Errorf("deleting environment: %w", err)
		}
		result.EnvironmentDeleted = deleted
		if deleted {
			r.logger.Info(fmt.Sprintf("Successfully deleted environment: %s", opts.Environment))
		} else {
			r.logger.Info(fmt.Sprintf("Environment %s not found, skipping deletion", opts.Environment))
		}
	}

	r.logger.Info("Action completed successfully")
	return result, nil
}

func (r *Runner) logPlan(plan Plan) {
	r.logger.Info("Dry run: no changes will be made")
	for _, d := range plan.Deployments {
		r.logger.Info(fmt.Sprintf("Would deactivate deployment %d", d.ID), "ref", d.Ref)
	}
	if plan.DeleteDeployments {
		r.logger.Info(fmt.Sprintf("Would delete %d deployment(s)", len(plan.Deployments)))
	}
	if plan.DeleteEnvironment {
		r.logger.Info(fmt.Sprintf("Would delete environment: %s", plan.Environment))
	}
}
