package git

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/runner"
)

// detachedHead is what `git rev-parse --abbrev-ref HEAD` prints when no branch is checked out.
const detachedHead = "HEAD"

type GitService struct {
	runner runner.Runner
	bin    string
}

func NewGitService(r runner.Runner, bin string) *GitService {
	if bin == "" {
		bin = "git"
	}
	return &GitService{runner: r, bin: bin}
}

// CurrentBranch returns the checked-out branch, or ErrDetachedHead.
func (s *GitService) CurrentBranch(ctx context.Context) (string, error) {
	res, err := s.runner.Run(ctx, s.bin, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err).
			WithContext("stderr", runner.StderrOf(err))
	}

	branch := res.TrimmedStdout()
	if branch == detachedHead || branch == "" {
		return "", errors.ErrDetachedHead
	}

	return branch, nil
}

// ResolveCommit returns the commit hash the branch points to locally.
func (s *GitService) ResolveCommit(ctx context.Context, branch string) (string, error) {
	res, err := s.runner.Run(ctx, s.bin, "rev-parse", branch)
	if err != nil {
		return "", errors.ErrResolveCommit.WithError(err).
			WithContext("branch", branch).
			WithContext("stderr", runner.StderrOf(err))
	}

	return strings.TrimSpace(string(res.Stdout)), nil
}

// ListBranches returns the local branch names, used for shell completion.
func (s *GitService) ListBranches(ctx context.Context) ([]string, error) {
	res, err := s.runner.Run(ctx, s.bin, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, errors.ErrGetBranch.WithError(err).
			WithContext("stderr", runner.StderrOf(err))
	}

	var branches []string
	for _, line := range strings.Split(res.TrimmedStdout(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}
