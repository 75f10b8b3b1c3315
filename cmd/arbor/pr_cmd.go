package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/forge"
	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
	"github.com/arborcli/arbor/internal/worktree"
)

func newPrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr <number>",
		Short: "Create a worktree for a pull request",
		Args:  cobra.ExactArgs(1),
		Long: `Resolve a pull request number to its head branch via the gh CLI and
create a worktree for it. If a worktree for that branch already exists, its
path is printed unchanged.

Fork pull requests whose branch cannot be fetched by name are checked out
into the new worktree with 'gh pr checkout'.`,
		Example: `  arbor pr 128`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", worktree.ErrInvalidPR, args[0])
			}

			host := forge.GitHub{}
			if err := host.Check(ctx); err != nil {
				return err
			}

			eng, err := newEngine(ctx, false)
			if err != nil {
				return err
			}

			path, err := eng.CheckoutPR(ctx, host, number)
			if err != nil {
				return err
			}
			l.Printf("✓ Worktree for #%d at: %s\n", number, path)
			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	return cmd
}
