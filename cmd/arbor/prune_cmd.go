package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
	"github.com/arborcli/arbor/internal/ui"
	"github.com/arborcli/arbor/internal/worktree"
)

func newPruneCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove orphaned worktrees",
		Long: `Fetch from origin (pruning stale remote-tracking refs) and remove
worktrees whose branch is merged into the default branch or whose remote
counterpart has disappeared.

Branches that never had an upstream are left alone; they may be deliberate
local-only work. The default branch's worktree is never touched. A failed
removal is skipped, not fatal: the rest of the batch still runs.`,
		Example: `  arbor prune            # show candidates, ask, remove
  arbor prune --dry-run  # only show candidates
  arbor prune --yes      # no confirmation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			p := output.FromContext(ctx)

			eng, err := newEngine(ctx, false)
			if err != nil {
				return err
			}

			if dryRun {
				candidates, defaultBranch, err := eng.Candidates(ctx)
				if err != nil {
					return err
				}
				if len(candidates) == 0 {
					l.Printf("Nothing to prune (default branch %s)\n", defaultBranch)
					return nil
				}
				for _, c := range candidates {
					p.Printf("%s\t%s\t%s\n", c.Branch, c.Reason(), c.Path)
				}
				return nil
			}

			confirm := func(candidates []worktree.Candidate) bool {
				if yes {
					return true
				}
				l.Println("Worktrees to remove:")
				for _, c := range candidates {
					l.Printf("  %s (%s)\n", c.Branch, c.Reason())
				}
				res, err := ui.Confirm(fmt.Sprintf("Remove %d worktree(s)?", len(candidates)))
				if err != nil || res.Cancelled {
					return false
				}
				return res.Confirmed
			}

			removed, err := eng.Reconcile(ctx, confirm)

			// A hard failure means nothing was attempted; only a partial
			// failure warrants the summary alongside the error.
			var partial *worktree.PartialPruneError
			if err != nil && !errors.As(err, &partial) {
				return err
			}
			l.Printf("Removed %d worktree(s)\n", removed)
			if partial != nil {
				l.Warnf("%v\n", partial)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List candidates without removing")

	return cmd
}
