package vcs

import "context"

// VCSClient is what the wait flow needs from a hosting platform.
type VCSClient interface {
	// IsInstalled reports whether the platform's CLI can be run.
	IsInstalled(ctx context.Context) bool
	// LatestCommit returns the last commit of the pull request opened from branch.
	// ok is false when the pull request has no commits yet.
	LatestCommit(ctx context.Context, branch string) (oid string, ok bool, err error)
}
