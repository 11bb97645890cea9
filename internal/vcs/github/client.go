package github

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/logger"
	"github.com/Tomas-vilte/ghwait/internal/models"
	"github.com/Tomas-vilte/ghwait/internal/runner"
	"github.com/Tomas-vilte/ghwait/internal/vcs"
)

// Client talks to GitHub through the gh CLI, relying on its existing session.
type Client struct {
	runner runner.Runner
	bin    string
}

func NewClient(r runner.Runner, bin string) *Client {
	if bin == "" {
		bin = "gh"
	}
	return &Client{runner: r, bin: bin}
}

// IsInstalled reports whether `gh --version` runs successfully.
func (c *Client) IsInstalled(ctx context.Context) bool {
	res, err := c.runner.Run(ctx, c.bin, "--version")
	if err != nil {
		logger.FromContext(ctx).Debug("gh not available", "error", err)
		return false
	}
	logger.FromContext(ctx).Debug("gh detected", "version", firstLine(res.TrimmedStdout()))
	return true
}

// FetchPullRequest returns the commit list of the pull request for branch.
func (c *Client) FetchPullRequest(ctx context.Context, branch string) (models.PullRequest, error) {
	res, err := c.runner.Run(ctx, c.bin, "pr", "view", branch, "--json", "commits")
	if err != nil {
		return models.PullRequest{}, errors.ErrPRView.WithError(err).
			WithContext("branch", branch).
			WithContext("stderr", runner.StderrOf(err))
	}

	var pr models.PullRequest
	if err := json.Unmarshal(res.Stdout, &pr); err != nil {
		return models.PullRequest{}, errors.ErrParsePR.WithError(err).
			WithContext("branch", branch)
	}
	if err := pr.Validate(); err != nil {
		return models.PullRequest{}, errors.ErrParsePR.WithError(err).
			WithContext("branch", branch)
	}

	return pr, nil
}

// LatestCommit returns the oid of the last commit of the branch's pull request.
// ok is false when the pull request has no commits.
func (c *Client) LatestCommit(ctx context.Context, branch string) (oid string, ok bool, err error) {
	pr, err := c.FetchPullRequest(ctx, branch)
	if err != nil {
		return "", false, err
	}
	oid, ok = pr.LatestCommit()
	return oid, ok, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var _ vcs.VCSClient = (*Client)(nil)
