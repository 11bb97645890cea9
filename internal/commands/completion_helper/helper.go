package completion_helper

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// BranchLister returns the names of the local branches. cmd carries the
// flags parsed so far so the lister can honour --config.
type BranchLister func(ctx context.Context, cmd *cli.Command) ([]string, error)

// BranchComplete suggests local branches for the positional argument and,
// once the user starts typing a dash, the command's flags.
func BranchComplete(list BranchLister) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		w := cmd.Root().Writer
		if lastArgIsFlag(cmd) {
			DefaultFlagComplete(ctx, cmd)
			return
		}
		if cmd.Args().Len() > 0 {
			return
		}

		branches, err := list(ctx, cmd)
		if err != nil {
			return
		}
		for _, b := range branches {
			_, _ = fmt.Fprintln(w, b)
		}
	}
}

// DefaultFlagComplete prints all flags of the current command to facilitate shell completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	w := cmd.Root().Writer
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}

func lastArgIsFlag(cmd *cli.Command) bool {
	args := cmd.Args().Slice()
	return len(args) > 0 && strings.HasPrefix(args[len(args)-1], "-")
}
