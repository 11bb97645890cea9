package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Tomas-vilte/ghwait/internal/commands/wait"
	"github.com/Tomas-vilte/ghwait/internal/config"
	"github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/git"
	"github.com/Tomas-vilte/ghwait/internal/i18n"
	"github.com/Tomas-vilte/ghwait/internal/logger"
	"github.com/Tomas-vilte/ghwait/internal/runner"
	"github.com/Tomas-vilte/ghwait/internal/services"
	"github.com/Tomas-vilte/ghwait/internal/ui"
	"github.com/Tomas-vilte/ghwait/internal/vcs/github"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr, newDependencies))
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, provider wait.DependenciesProvider) int {
	translations, err := i18n.NewTranslations(config.LangEN)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading translations: %v\n", err)
		return 1
	}

	logger.Initialize(stderr, false, false)

	app := wait.NewWaitCommand(provider, stdout, stderr).CreateCommand(translations)

	if err := app.Run(ctx, args); err != nil {
		ui.HandleAppError(stderr, err, translations)
		return errors.ExitCode(err)
	}
	return 0
}

func newDependencies(cfg *config.Config) wait.Dependencies {
	r := runner.NewExecRunner()
	ghClient := github.NewClient(r, cfg.GHPath)

	return wait.Dependencies{
		Git:  git.NewGitService(r, cfg.GitPath),
		VCS:  ghClient,
		Sync: services.NewSyncService(ghClient, cfg.Backoff),
	}
}
