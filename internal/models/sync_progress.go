package models

import "time"

// SyncProgressType represents the type of polling progress event
type SyncProgressType string

const (
	SyncProgressAttempt  SyncProgressType = "attempt"
	SyncProgressMismatch SyncProgressType = "mismatch"
	SyncProgressEmpty    SyncProgressType = "empty"
	SyncProgressSynced   SyncProgressType = "synced"
)

// SyncProgress represents a progress update while waiting for the remote
type SyncProgress struct {
	Type         SyncProgressType
	Attempt      int
	RemoteCommit string // empty when the pull request has no commits yet
	Elapsed      time.Duration
}
