package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arborcli/arbor/internal/git"
	"github.com/arborcli/arbor/internal/output"
)

var (
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	detachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

func newListCmd() *cobra.Command {
	var porcelain bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the repository's worktrees",
		Aliases: []string{"ls"},
		Long: `List every worktree registered with the repository, with its branch.

The registry is read fresh from git; nothing is cached between runs.`,
		Example: `  arbor list
  arbor list --porcelain   # tab-separated, for scripts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := output.FromContext(ctx)

			client := git.New(workDir)
			if err := client.Check(ctx); err != nil {
				return err
			}
			wts, err := client.Worktrees(ctx)
			if err != nil {
				return err
			}

			for _, wt := range wts {
				branch := wt.Branch
				if branch == "" {
					branch = "(detached)"
				}
				if porcelain {
					p.Printf("%s\t%s\n", branch, wt.Path)
					continue
				}
				if wt.Branch == "" {
					p.Printf("%s  %s\n", detachedStyle.Render(branch), pathStyle.Render(wt.Path))
				} else {
					p.Printf("%s  %s\n", branchStyle.Render(branch), pathStyle.Render(wt.Path))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&porcelain, "porcelain", false, "Plain tab-separated output")

	return cmd
}
