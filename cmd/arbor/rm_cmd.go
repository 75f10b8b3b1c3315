package main

import (
	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
)

func newRemoveCmd() *cobra.Command {
	var (
		force bool
		lock  bool
	)

	cmd := &cobra.Command{
		Use:     "rm <branch>",
		Short:   "Remove the worktree of a branch",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		Long: `Remove the worktree registered for a branch.

When run from inside the worktree being removed, the path of the main (or
master) worktree is printed on stdout before the removal, so the shell
wrapper can relocate there. The branch itself is not deleted.`,
		Example: `  arbor rm feature/login
  arbor rm feature/login --force   # discard uncommitted changes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			branch := args[0]

			eng, err := newEngine(ctx, lock)
			if err != nil {
				return err
			}

			relocation, err := eng.Remove(ctx, branch, force)
			if err != nil {
				return err
			}

			l.Printf("✓ Removed worktree for %s\n", branch)

			// The relocation path must come last so the wrapper treats it
			// as the cd target.
			if relocation != "" {
				output.FromContext(ctx).Println(relocation)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with uncommitted changes")
	cmd.Flags().BoolVar(&lock, "lock", false, "Take a per-branch advisory lock during removal")

	return cmd
}
