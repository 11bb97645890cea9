package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/models"
	"github.com/Tomas-vilte/ghwait/internal/vcs"
)

func newTestSyncService(client vcs.VCSClient, maxElapsed time.Duration) *SyncService {
	return NewSyncService(client, backoffConfig(time.Millisecond, 2*time.Millisecond, maxElapsed, 1.5, 0))
}

func TestSyncService_WaitForSync(t *testing.T) {
	t.Run("returns immediately when the remote matches", func(t *testing.T) {
		// Arrange
		client := new(vcs.MockVCSClient)
		client.On("LatestCommit", mock.Anything, "feature").Return("abc", true, nil).Once()
		service := newTestSyncService(client, time.Second)

		var events []models.SyncProgress

		// Act
		err := service.WaitForSync(context.Background(), "feature", "abc", func(p models.SyncProgress) {
			events = append(events, p)
		})

		// Assert
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "LatestCommit", 1)
		require.Len(t, events, 2)
		assert.Equal(t, models.SyncProgressAttempt, events[0].Type)
		assert.Equal(t, models.SyncProgressSynced, events[1].Type)
		assert.Equal(t, 1, events[1].Attempt)
		assert.Equal(t, "abc", events[1].RemoteCommit)
		assert.Positive(t, events[1].Elapsed)
	})

	t.Run("retries until the remote catches up", func(t *testing.T) {
		client := new(vcs.MockVCSClient)
		client.On("LatestCommit", mock.Anything, "feature").Return("old", true, nil).Twice()
		client.On("LatestCommit", mock.Anything, "feature").Return("", false, nil).Once()
		client.On("LatestCommit", mock.Anything, "feature").Return("new", true, nil).Once()
		service := newTestSyncService(client, time.Second)

		var mismatches, empties int
		err := service.WaitForSync(context.Background(), "feature", "new", func(p models.SyncProgress) {
			switch p.Type {
			case models.SyncProgressMismatch:
				mismatches++
				assert.Equal(t, "old", p.RemoteCommit)
			case models.SyncProgressEmpty:
				empties++
			}
		})

		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "LatestCommit", 4)
		assert.Equal(t, 2, mismatches)
		assert.Equal(t, 1, empties)
	})

	t.Run("empty commit list retries until the elapsed cap", func(t *testing.T) {
		client := new(vcs.MockVCSClient)
		client.On("LatestCommit", mock.Anything, "feature").Return("", false, nil)
		service := newTestSyncService(client, 30*time.Millisecond)

		err := service.WaitForSync(context.Background(), "feature", "abc", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrSyncTimeout)
		assert.ErrorIs(t, err, appErrors.ErrNotSynced)
		assert.True(t, appErrors.IsType(err, appErrors.TypeTimeout))
		assert.Greater(t, len(client.Calls), 1)
	})

	t.Run("parse errors stop without retrying", func(t *testing.T) {
		client := new(vcs.MockVCSClient)
		parseErr := appErrors.ErrParsePR.WithError(errors.New("unexpected end of JSON input"))
		client.On("LatestCommit", mock.Anything, "feature").Return("", false, parseErr)
		service := newTestSyncService(client, time.Second)

		err := service.WaitForSync(context.Background(), "feature", "abc", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrParsePR)
		client.AssertNumberOfCalls(t, "LatestCommit", 1)
	})

	t.Run("gh failures stop without retrying", func(t *testing.T) {
		client := new(vcs.MockVCSClient)
		ghErr := appErrors.ErrPRView.WithContext("stderr", "no pull requests found\n")
		client.On("LatestCommit", mock.Anything, "feature").Return("", false, ghErr)
		service := newTestSyncService(client, time.Second)

		err := service.WaitForSync(context.Background(), "feature", "abc", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, appErrors.ErrPRView)
		client.AssertNumberOfCalls(t, "LatestCommit", 1)
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		client := new(vcs.MockVCSClient)
		client.On("LatestCommit", mock.Anything, "feature").Return("old", true, nil)
		service := NewSyncService(client, backoffConfig(time.Hour, time.Hour, time.Hour, 1, 0))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := service.WaitForSync(ctx, "feature", "abc", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
