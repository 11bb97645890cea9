package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeUser          ErrorType = "USER"
	TypeGit           ErrorType = "GIT"
	TypeVCS           ErrorType = "VCS"
	TypeParse         ErrorType = "PARSE"
	TypeTimeout       ErrorType = "TIMEOUT"
	TypeConfiguration ErrorType = "CONFIGURATION"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if stderr := e.Stderr(); stderr != "" {
		msg += fmt.Sprintf(" - %s", stderr)
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by type and message so that errors derived from a
// sentinel with WithError/WithContext still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// Stderr returns the diagnostic output of the external tool, if any.
func (e *AppError) Stderr() string {
	if e.Context == nil {
		return ""
	}
	stderr, _ := e.Context["stderr"].(string)
	return stderr
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// ExitCode maps an error returned by the command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// User errors
var (
	ErrDetachedHead = NewAppError(TypeUser, "You are not on any branch", nil).
			WithSuggestion("Check out a branch or pass one explicitly: ghwait <branch>")

	ErrTooManyArgs = NewAppError(TypeUser, "Only one branch can be waited on", nil).
			WithSuggestion("Usage: ghwait [branch]")
)

// Git errors
var (
	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrResolveCommit = NewAppError(TypeGit, "Failed to resolve branch commit", nil).
				WithSuggestion("Check the branch exists locally: git branch --list")
)

// VCS errors
var (
	ErrGHNotInstalled = NewAppError(TypeVCS, "GitHub CLI is not installed", nil).
				WithSuggestion("Install it from https://cli.github.com and run: gh auth login")

	ErrPRView = NewAppError(TypeVCS, "Failed to view pull request", nil).
			WithSuggestion("Make sure a pull request exists for the branch: gh pr status")
)

// Parse errors
var (
	ErrParsePR = NewAppError(TypeParse, "Failed to parse pull request JSON", nil)
)

// Polling errors
var (
	// ErrNotSynced is the transient condition retried by the polling loop.
	ErrNotSynced = NewAppError(TypeVCS, "Remote commit does not match local commit", nil)

	ErrSyncTimeout = NewAppError(TypeTimeout, "Gave up waiting for GitHub", nil).
			WithSuggestion("Push your branch (git push) or raise the limit with --max-elapsed")
)

// Configuration errors
var (
	ErrConfigRead = NewAppError(TypeConfiguration, "Failed to read configuration file", nil)

	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration is invalid", nil).
				WithSuggestion("Review the [backoff] section of your config file")
)
