package main

import (
	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/hooks"
	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
)

func newAddCmd() *cobra.Command {
	var (
		noHook bool
		lock   bool
	)

	cmd := &cobra.Command{
		Use:   "add [branch]",
		Short: "Create a worktree for a branch",
		Args:  cobra.MaximumNArgs(1),
		Long: `Create a worktree for a branch at <root>/<host>/<owner>/<repo>/<branch>.

An existing local branch is checked out directly. A branch that only exists
on origin gets a local tracking branch. Otherwise a new branch is created.
With no argument, a fuzzy selector over all known branches is shown.

The new worktree's path is printed on stdout.`,
		Example: `  arbor add feature/login     # worktree for new or existing branch
  arbor add                   # pick a branch interactively
  arbor add fix-123 --lock    # guard against concurrent invocations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			var branch string
			if len(args) > 0 {
				branch = args[0]
			}

			eng, err := newEngine(ctx, lock)
			if err != nil {
				return err
			}

			if branch == "" {
				branch, err = eng.SelectBranch(ctx)
				if err != nil {
					return err
				}
			}

			path, err := eng.Add(ctx, branch)
			if err != nil {
				return err
			}
			l.Printf("✓ Worktree created at: %s\n", path)

			if cfg.Hooks.PostAdd != "" && !noHook {
				hctx := hooks.Context{Path: path, Branch: branch}
				if err := hooks.Run(ctx, cfg.Hooks.PostAdd, hctx); err != nil {
					l.Warnf("post_add hook: %v\n", err)
				}
			}

			output.FromContext(ctx).Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip the post_add hook")
	cmd.Flags().BoolVar(&lock, "lock", false, "Take a per-branch advisory lock during creation")

	return cmd
}
