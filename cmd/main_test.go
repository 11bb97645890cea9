package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Tomas-vilte/ghwait/internal/commands/wait"
	"github.com/Tomas-vilte/ghwait/internal/config"
	"github.com/Tomas-vilte/ghwait/internal/git"
	"github.com/Tomas-vilte/ghwait/internal/runner"
	"github.com/Tomas-vilte/ghwait/internal/services"
	"github.com/Tomas-vilte/ghwait/internal/vcs/github"
)

func init() {
	color.NoColor = true
}

var prView = []string{"pr", "view", "feature", "--json", "commits"}

// mockedDependencies wires the real services on top of a mocked runner so
// the errors reaching main are the ones a real run produces.
func mockedDependencies(r *runner.MockRunner) wait.DependenciesProvider {
	return func(cfg *config.Config) wait.Dependencies {
		ghClient := github.NewClient(r, cfg.GHPath)
		return wait.Dependencies{
			Git:  git.NewGitService(r, cfg.GitPath),
			VCS:  ghClient,
			Sync: services.NewSyncService(ghClient, cfg.Backoff),
		}
	}
}

func runMain(r *runner.MockRunner, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	argv := append([]string{"ghwait", "--quiet", "--initial-interval", "1ms", "--max-interval", "2ms"}, args...)
	code = run(context.Background(), argv, &out, &errOut, mockedDependencies(r))
	return code, out.String(), errOut.String()
}

func TestRun(t *testing.T) {
	t.Run("exits 0 once the pull request has the local commit", func(t *testing.T) {
		// Arrange
		r := new(runner.MockRunner)
		r.On("Run", mock.Anything, "gh", []string{"--version"}).Return(runner.Result{Stdout: []byte("gh version 2.62.0\n")}, nil)
		r.On("Run", mock.Anything, "git", []string{"rev-parse", "feature"}).Return(runner.Result{Stdout: []byte("abc\n")}, nil)
		r.On("Run", mock.Anything, "gh", prView).Return(runner.Result{Stdout: []byte(`{"commits":[{"oid":"abc"}]}`)}, nil)

		// Act
		code, stdout, stderr := runMain(r, "feature")

		// Assert
		assert.Equal(t, 0, code)
		assert.Equal(t, "✔ GitHub is up to date\n", stdout)
		assert.Empty(t, stderr)
		r.AssertExpectations(t)
	})

	t.Run("timeout reports the last mismatch as details", func(t *testing.T) {
		r := new(runner.MockRunner)
		r.On("Run", mock.Anything, "gh", []string{"--version"}).Return(runner.Result{}, nil)
		r.On("Run", mock.Anything, "git", []string{"rev-parse", "feature"}).Return(runner.Result{Stdout: []byte("new\n")}, nil)
		r.On("Run", mock.Anything, "gh", prView).Return(runner.Result{Stdout: []byte(`{"commits":[{"oid":"old"}]}`)}, nil)

		code, stdout, stderr := runMain(r, "--max-elapsed", "20ms", "feature")

		assert.Equal(t, 1, code)
		assert.Equal(t, "✘ Stopped waiting for GitHub\n", stdout)
		assert.Contains(t, stderr, "✘ TIMEOUT: Gave up waiting for GitHub\n")
		assert.Contains(t, stderr, "   Details: VCS: Remote commit does not match local commit\n")
		assert.Contains(t, stderr, "💡 Try: Push your branch (git push)")
	})

	t.Run("gh failure echoes its stderr and stops polling", func(t *testing.T) {
		ghStderr := "no pull requests found for branch \"feature\"\n"
		r := new(runner.MockRunner)
		r.On("Run", mock.Anything, "gh", []string{"--version"}).Return(runner.Result{}, nil)
		r.On("Run", mock.Anything, "git", []string{"rev-parse", "feature"}).Return(runner.Result{Stdout: []byte("abc\n")}, nil)
		r.On("Run", mock.Anything, "gh", prView).Return(runner.Result{}, &runner.ExitError{Name: "gh", ExitCode: 1, Stderr: ghStderr}).Once()

		code, _, stderr := runMain(r, "feature")

		assert.Equal(t, 1, code)
		echoed := strings.Index(stderr, ghStderr)
		reported := strings.Index(stderr, "✘ VCS: Failed to view pull request\n")
		assert.GreaterOrEqual(t, echoed, 0, stderr)
		assert.Greater(t, reported, echoed, "gh stderr must precede the error line")
		assert.NotContains(t, stderr, "Details")
		r.AssertNumberOfCalls(t, "Run", 3)
	})

	t.Run("unexpected JSON shape is a parse error without retries", func(t *testing.T) {
		r := new(runner.MockRunner)
		r.On("Run", mock.Anything, "gh", []string{"--version"}).Return(runner.Result{}, nil)
		r.On("Run", mock.Anything, "git", []string{"rev-parse", "feature"}).Return(runner.Result{Stdout: []byte("abc\n")}, nil)
		r.On("Run", mock.Anything, "gh", prView).Return(runner.Result{Stdout: []byte(`{}`)}, nil).Once()

		code, _, stderr := runMain(r, "feature")

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "✘ PARSE: Failed to parse pull request JSON\n")
		assert.Contains(t, stderr, "Details: missing \"commits\" list")
		r.AssertNumberOfCalls(t, "Run", 3)
	})

	t.Run("unknown branch echoes git stderr", func(t *testing.T) {
		gitStderr := "fatal: ambiguous argument 'nope': unknown revision or path not in the working tree.\n"
		r := new(runner.MockRunner)
		r.On("Run", mock.Anything, "gh", []string{"--version"}).Return(runner.Result{}, nil)
		r.On("Run", mock.Anything, "git", []string{"rev-parse", "nope"}).Return(runner.Result{}, &runner.ExitError{Name: "git", ExitCode: 128, Stderr: gitStderr})

		code, stdout, stderr := runMain(r, "nope")

		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.True(t, bytes.HasPrefix([]byte(stderr), []byte(gitStderr)), stderr)
		assert.Contains(t, stderr, "✘ GIT: Failed to resolve branch commit\n")
	})
}
