package models

import (
	"errors"
	"fmt"
)

type (
	// PRCommit is a single entry of the commit list returned by `gh pr view --json commits`.
	PRCommit struct {
		OID string `json:"oid"`
	}

	// PullRequest mirrors the fields we care about from gh's JSON output.
	PullRequest struct {
		Commits []PRCommit `json:"commits"`
	}
)

var errMissingCommits = errors.New("missing \"commits\" list")

// Validate rejects payloads that decoded without error but lack the shape
// gh returns. A nil Commits slice means the key was absent or null; an
// empty list decodes to a non-nil slice.
func (p PullRequest) Validate() error {
	if p.Commits == nil {
		return errMissingCommits
	}
	for i, c := range p.Commits {
		if c.OID == "" {
			return fmt.Errorf("commit %d has no \"oid\"", i)
		}
	}
	return nil
}

// LatestCommit returns the oid of the last commit in the pull request.
// The second return value is false when the commit list is empty.
func (p PullRequest) LatestCommit() (string, bool) {
	if len(p.Commits) == 0 {
		return "", false
	}
	return p.Commits[len(p.Commits)-1].OID, true
}
