package repocontext

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// ErrUnresolved is returned when no source yields an owner/repo pair
var ErrUnresolved = errors.New("repository could not be determined")

// RepositoryContext identifies the repository a run operates on
type RepositoryContext struct {
	Owner string
	Repo  string
}

func (r RepositoryContext) String() string {
	return r.Owner + "/" + r.Repo
}

// Parse splits an "owner/repo" identifier
func Parse(s string) (RepositoryContext, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return RepositoryContext{}, fmt.Errorf("invalid repository %q: expected owner/repo", s)
	}
	return RepositoryContext{Owner: owner, Repo: repo}, nil
}

// FromRemoteURL extracts owner/repo from a git remote URL. It accepts
// https, ssh and scp-like forms.
func FromRemoteURL(remote string) (RepositoryContext, error) {
	remote = strings.TrimSpace(remote)
	var path string

	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return RepositoryContext{}, fmt.Errorf("parsing remote URL: %w", err)
		}
		path = u.Path
	case strings.Contains(remote, ":"):
		// git@github.com:owner/repo.git
		_, path, _ = strings.Cut(remote, ":")
	default:
		return RepositoryContext{}, fmt.Errorf("unsupported remote URL %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	return Parse(path)
}

// FromGitRepo reads owner/repo from the named remote of the repository
// containing path
func FromGitRepo(path, remoteName string) (RepositoryContext, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepositoryContext{}, fmt.Errorf("opening repository: %w", err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return RepositoryContext{}, fmt.Errorf("reading remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return RepositoryContext{}, fmt.Errorf("remote %s has no URL", remoteName)
	}

	return FromRemoteURL(urls[0])
}

// Resolve prefers an explicit owner/repo identifier and falls back to the
// origin remote of the checkout at workspace
func Resolve(repository, workspace string) (RepositoryContext, error) {
	if repository != "" {
		return Parse(repository)
	}

	rc, err := FromGitRepo(workspace, git.DefaultRemoteName)
	if err != nil {
		return RepositoryContext{}, fmt.Errorf("%w: set GITHUB_REPOSITORY or --repository (%v)", ErrUnresolved, err)
	}
	return rc, nil
}
