package services

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Tomas-vilte/ghwait/internal/config"
	appErrors "github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/logger"
	"github.com/Tomas-vilte/ghwait/internal/models"
	"github.com/Tomas-vilte/ghwait/internal/vcs"
)

// SyncService waits until the pull request of a branch points at a given commit.
type SyncService struct {
	vcsClient vcs.VCSClient
	backoff   config.BackoffConfig
}

func NewSyncService(vcsClient vcs.VCSClient, backoff config.BackoffConfig) *SyncService {
	return &SyncService{
		vcsClient: vcsClient,
		backoff:   backoff,
	}
}

// WaitForSync polls the hosting platform until the latest pull request commit
// equals localCommit. A mismatch or an empty commit list is retried; any
// other error stops the wait. When the backoff gives up ErrSyncTimeout is
// returned.
func (s *SyncService) WaitForSync(ctx context.Context, branch, localCommit string, progress func(models.SyncProgress)) error {
	log := logger.FromContext(ctx).With("branch", branch, "local_commit", localCommit)
	start := time.Now()
	attempt := 0
	notify := func(p models.SyncProgress) {
		if progress != nil {
			p.Attempt = attempt
			p.Elapsed = time.Since(start)
			progress(p)
		}
	}

	err := retry.Do(ctx, NewBackoff(s.backoff), func(ctx context.Context) error {
		attempt++
		notify(models.SyncProgress{Type: models.SyncProgressAttempt})

		remote, ok, err := s.vcsClient.LatestCommit(ctx, branch)
		if err != nil {
			return err
		}

		if !ok {
			log.Info("pull request has no commits yet", "attempt", attempt)
			notify(models.SyncProgress{Type: models.SyncProgressEmpty})
			return retry.RetryableError(appErrors.ErrNotSynced.WithContext("remote_commit", ""))
		}

		if remote != localCommit {
			log.Info("remote behind local", "attempt", attempt, "remote_commit", remote)
			notify(models.SyncProgress{Type: models.SyncProgressMismatch, RemoteCommit: remote})
			return retry.RetryableError(appErrors.ErrNotSynced.WithContext("remote_commit", remote))
		}

		notify(models.SyncProgress{Type: models.SyncProgressSynced, RemoteCommit: remote})
		return nil
	})

	elapsed := time.Since(start)
	switch {
	case err == nil:
		log.Info("remote up to date", "attempt", attempt, "elapsed_ms", elapsed.Milliseconds())
		return nil
	case errors.Is(err, appErrors.ErrNotSynced):
		log.Warn("gave up waiting for remote", "attempt", attempt, "elapsed_ms", elapsed.Milliseconds())
		return appErrors.ErrSyncTimeout.WithError(err).
			WithContext("branch", branch).
			WithContext("attempts", attempt).
			WithContext("elapsed", elapsed.Round(time.Second).String())
	default:
		log.Error("polling stopped", "attempt", attempt, "error", err)
		return err
	}
}
