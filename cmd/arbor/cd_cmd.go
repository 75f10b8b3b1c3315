package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/log"
	"github.com/arborcli/arbor/internal/output"
	"github.com/arborcli/arbor/internal/worktree"
)

func newCdCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:   "cd <branch>",
		Short: "Print the path of a branch's worktree",
		Args:  cobra.ExactArgs(1),
		Long: `Resolve a branch to a worktree path.

When a worktree is bound to the branch, its path is printed on stdout for
the shell wrapper to cd into. When only the branch exists (locally or on
origin), the current worktree is switched to it in place instead — no path
is printed and your directory does not change.`,
		Example: `  arbor cd feature/login        # print worktree path
  arbor cd feature/login --copy # also copy it to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			branch := args[0]

			eng, err := newEngine(ctx, false)
			if err != nil {
				return err
			}

			loc, err := eng.Locate(ctx, branch)
			if err != nil {
				return err
			}

			if loc.Kind == worktree.SwitchedInPlace {
				l.Printf("✓ Switched current worktree to %s\n", branch)
				return nil
			}

			if copyPath {
				if err := clipboard.WriteAll(loc.Path); err != nil {
					l.Warnf("failed to copy to clipboard: %v\n", err)
				}
			}
			output.FromContext(ctx).Println(loc.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the path to the clipboard")

	return cmd
}
