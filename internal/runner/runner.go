package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Tomas-vilte/ghwait/internal/logger"
)

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// TrimmedStdout returns stdout without surrounding whitespace.
func (r Result) TrimmedStdout() string {
	return strings.TrimSpace(string(r.Stdout))
}

// ExitError is returned when a process ran but exited non-zero.
type ExitError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s %s: exit status %d", e.Name, strings.Join(e.Args, " "), e.ExitCode)
}

// StderrOf returns the captured stderr when err is an *ExitError.
func StderrOf(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Stderr
	}
	return ""
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	log.Debug("command finished",
		"cmd", name,
		"args", strings.Join(args, " "),
		"exit_code", res.ExitCode,
		"duration_ms", time.Since(start).Milliseconds())

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ExitError{
				Name:     name,
				Args:     args,
				ExitCode: res.ExitCode,
				Stderr:   stderr.String(),
			}
		}
		return res, fmt.Errorf("%s: %w", name, err)
	}

	return res, nil
}
