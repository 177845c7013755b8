// Package deployments lists, deactivates and deletes the GitHub deployments
// of one environment, and deletes the environment itself.
package deployments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v66/github"
	"golang.org/x/sync/errgroup"

	"github.com/step-security/delete-deployment-environment/internal/repocontext"
)

// Service performs deployment and environment operations on one repository.
type Service struct {
	client *github.Client
	repo   repocontext.RepositoryContext
	logger *slog.Logger
}

// NewService creates a Service bound to repo.
func NewService(client *github.Client, repo repocontext.RepositoryContext, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		repo:   repo,
		logger: logger,
	}
}

// List returns every deployment of environment, optionally filtered by ref.
// Pages are requested until one comes back short; any page error aborts
// the listing.
func (s *Service) List(ctx context.Context, environment, ref string) ([]Record, error) {
	var records []Record
	seen := make(map[int64]struct{})

	opts := &github.DeploymentsListOptions{
		Environment: environment,
		Ref:         ref,
		ListOptions: github.ListOptions{Page: 1, PerPage: PageSize},
	}

	for {
		page, _, err := s.client.Repositories.ListDeployments(ctx, s.repo.Owner, s.repo.Repo, opts)
		if err != nil {
			return nil, err
		}

		for _, d := range page {
			id := d.GetID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			records = append(records, Record{ID: id, Ref: d.GetRef()})
		}

		s.logger.Debug(fmt.Sprintf("Fetched page %d with %d deployment(s)", opts.Page, len(page)))

		if len(page) < PageSize {
			break
		}
		opts.Page++
	}

	return records, nil
}

// Deactivate marks every record inactive.
func (s *Service) Deactivate(ctx context.Context, records []Record) error {
	return forEach(ctx, records, func(ctx context.Context, r Record) error {
		_, _, err := s.client.Repositories.CreateDeploymentStatus(ctx, s.repo.Owner, s.repo.Repo, r.ID,
			&github.DeploymentStatusRequest{State: github.String(InactiveState)})
		return err
	})
}

// Delete removes every record. GitHub rejects deleting an active
// deployment, so records must be deactivated first.
func (s *Service) Delete(ctx context.Context, records []Record) error {
	return forEach(ctx, records, func(ctx context.Context, r Record) error {
		_, err := s.client.Repositories.DeleteDeployment(ctx, s.repo.Owner, s.repo.Repo, r.ID)
		return err
	})
}

// DeleteEnvironment deletes the named environment. It reports false without
// error when the environment does not exist.
func (s *Service) DeleteEnvironment(ctx context.Context, name string) (bool, error) {
	if _, _, err := s.client.Repositories.GetEnvironment(ctx, s.repo.Owner, s.repo.Repo, name); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	// A concurrent delete between the probe and here also counts as absent.
	if _, err := s.client.Repositories.DeleteEnvironment(ctx, s.repo.Owner, s.repo.Repo, name); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// forEach runs fn for every record concurrently. The first error cancels
// the context passed to the remaining calls and is returned once all of
// them have returned.
func forEach(ctx context.Context, records []Record, fn func(context.Context, Record) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range records {
		g.Go(func() error {
			return fn(gctx, r)
		})
	}
	return g.Wait()
}
