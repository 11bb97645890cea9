package wait

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Tomas-vilte/ghwait/internal/commands/completion_helper"
	"github.com/Tomas-vilte/ghwait/internal/config"
	"github.com/Tomas-vilte/ghwait/internal/errors"
	"github.com/Tomas-vilte/ghwait/internal/i18n"
	"github.com/Tomas-vilte/ghwait/internal/logger"
	"github.com/Tomas-vilte/ghwait/internal/models"
	"github.com/Tomas-vilte/ghwait/internal/ui"
	"github.com/Tomas-vilte/ghwait/internal/vcs"
	"github.com/Tomas-vilte/ghwait/internal/version"
)

// GitService resolves the branch and its local commit.
type GitService interface {
	CurrentBranch(ctx context.Context) (string, error)
	ResolveCommit(ctx context.Context, branch string) (string, error)
	ListBranches(ctx context.Context) ([]string, error)
}

// SyncWaiter blocks until the remote pull request reaches a commit.
type SyncWaiter interface {
	WaitForSync(ctx context.Context, branch, localCommit string, progress func(models.SyncProgress)) error
}

// Dependencies are built once the effective configuration is known.
type Dependencies struct {
	Git  GitService
	VCS  vcs.VCSClient
	Sync SyncWaiter
}

// DependenciesProvider builds the services for a configuration.
type DependenciesProvider func(cfg *config.Config) Dependencies

type WaitCommand struct {
	provider DependenciesProvider
	stdout   io.Writer
	stderr   io.Writer
}

func NewWaitCommand(provider DependenciesProvider, stdout, stderr io.Writer) *WaitCommand {
	return &WaitCommand{
		provider: provider,
		stdout:   stdout,
		stderr:   stderr,
	}
}

func (c *WaitCommand) CreateCommand(t *i18n.Translations) *cli.Command {
	defaults := config.Default()

	return &cli.Command{
		Name:        "ghwait",
		Usage:       t.GetMessage("app_usage", 0, nil),
		Description: t.GetMessage("app_description", 0, nil),
		ArgsUsage:   "[branch]",
		Version:     version.FullVersion(),
		Writer:      c.stdout,
		ErrWriter:   c.stderr,

		EnableShellCompletion: true,
		ShellComplete: completion_helper.BranchComplete(func(ctx context.Context, cmd *cli.Command) ([]string, error) {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return nil, err
			}
			return c.provider(cfg).Git.ListBranches(ctx)
		}),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("flags.config", 0, nil),
			},
			&cli.DurationFlag{
				Name:  "initial-interval",
				Usage: t.GetMessage("flags.initial_interval", 0, nil),
				Value: defaults.Backoff.InitialInterval.Duration,
			},
			&cli.DurationFlag{
				Name:  "max-interval",
				Usage: t.GetMessage("flags.max_interval", 0, nil),
				Value: defaults.Backoff.MaxInterval.Duration,
			},
			&cli.DurationFlag{
				Name:    "max-elapsed",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("flags.max_elapsed", 0, nil),
				Value:   defaults.Backoff.MaxElapsed.Duration,
			},
			&cli.FloatFlag{
				Name:  "multiplier",
				Usage: t.GetMessage("flags.multiplier", 0, nil),
				Value: defaults.Backoff.Multiplier,
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: t.GetMessage("flags.lang", 0, nil),
				Value: defaults.Language,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: t.GetMessage("flags.verbose", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: t.GetMessage("flags.debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   t.GetMessage("flags.quiet", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return c.run(ctx, cmd, t)
		},
	}
}

func (c *WaitCommand) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations) error {
	start := time.Now()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(c.stderr, cmd.Bool("debug"), cmd.Bool("verbose"))
	ctx = logger.WithLogger(ctx, log)

	if err := t.SetLanguage(cfg.Language); err != nil {
		return errors.ErrConfigInvalid.WithError(err)
	}

	if cmd.Args().Len() > 1 {
		return errors.ErrTooManyArgs.WithContext("args", cmd.Args().Slice())
	}

	deps := c.provider(cfg)

	if !deps.VCS.IsInstalled(ctx) {
		return errors.ErrGHNotInstalled
	}

	branch := cmd.Args().First()
	if branch == "" {
		branch, err = deps.Git.CurrentBranch(ctx)
		if err != nil {
			return err
		}
	}

	localCommit, err := deps.Git.ResolveCommit(ctx, branch)
	if err != nil {
		return err
	}

	log.Info("waiting for remote",
		"branch", branch,
		"local_commit", localCommit,
		"config", cfg.PathFile)

	spinner := ui.NewSmartSpinner(c.stdout, t.GetMessage("wait.waiting", 0, nil), !cmd.Bool("quiet"))
	spinner.Start()

	var last models.SyncProgress
	err = deps.Sync.WaitForSync(ctx, branch, localCommit, func(p models.SyncProgress) {
		last = p
		if msg, ok := progressMessage(t, p); ok {
			spinner.UpdateMessage(msg)
		}
	})
	if err != nil {
		spinner.Error(t.GetMessage("wait.stopped", 0, nil))
		log.Debug("wait failed", "duration_ms", time.Since(start).Milliseconds())
		return err
	}

	spinner.Success(t.GetMessage("wait.up_to_date", 0, nil))
	if cmd.Bool("verbose") {
		ui.PrintKeyValue(c.stdout, "branch", branch)
		ui.PrintKeyValue(c.stdout, "commit", localCommit)
		ui.PrintKeyValue(c.stdout, "attempts", strconv.Itoa(last.Attempt))
		ui.PrintKeyValue(c.stdout, "elapsed", last.Elapsed.Round(time.Millisecond).String())
	}

	log.Info("done", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// progressMessage returns the spinner text for a polling event. Events that
// do not change what the user sees return false.
func progressMessage(t *i18n.Translations, p models.SyncProgress) (string, bool) {
	switch p.Type {
	case models.SyncProgressMismatch:
		return t.GetMessage("wait.waiting_attempt", 0, map[string]interface{}{
			"Attempt": p.Attempt,
			"Remote":  ui.ShortCommit(p.RemoteCommit),
		}), true
	case models.SyncProgressEmpty:
		return t.GetMessage("wait.waiting_empty", 0, map[string]interface{}{
			"Attempt": p.Attempt,
		}), true
	default:
		return "", false
	}
}

// resolveConfig applies defaults, then the config file, then explicit flags.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("initial-interval") {
		cfg.Backoff.InitialInterval.Duration = cmd.Duration("initial-interval")
	}
	if cmd.IsSet("max-interval") {
		cfg.Backoff.MaxInterval.Duration = cmd.Duration("max-interval")
	}
	if cmd.IsSet("max-elapsed") {
		cfg.Backoff.MaxElapsed.Duration = cmd.Duration("max-elapsed")
	}
	if cmd.IsSet("multiplier") {
		cfg.Backoff.Multiplier = cmd.Float("multiplier")
	}
	if cmd.IsSet("lang") {
		cfg.Language = cmd.String("lang")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
