package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/arborcli/arbor/internal/config"
	"github.com/arborcli/arbor/internal/git"
	"github.com/arborcli/arbor/internal/ui"
	"github.com/arborcli/arbor/internal/worktree"
)

// newEngine builds the policy engine for the repository containing the
// working directory. Configuration is validated here, at the boundary; the
// engine receives an already-expanded root.
func newEngine(ctx context.Context, lock bool) (*worktree.Engine, error) {
	if rootFlag != "" {
		cfg.WorktreeRoot = rootFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w (set worktree_root in the config file or pass --root)", err)
	}
	root, err := config.ExpandPath(cfg.WorktreeRoot)
	if err != nil {
		return nil, err
	}

	client := git.New(workDir)
	if err := client.Check(ctx); err != nil {
		return nil, err
	}

	// Interactive selection only when attached to a terminal.
	var selectF worktree.SelectFunc
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		selectF = func(_ context.Context, prompt string, candidates []string) (string, bool, error) {
			return ui.Select(prompt, candidates)
		}
	}

	return worktree.NewEngine(worktree.Options{
		Root:    root,
		WorkDir: workDir,
		Git:     client,
		Select:  selectF,
		Lock:    lock,
	}), nil
}
