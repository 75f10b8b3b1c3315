package worktree

import (
	"context"
	"fmt"
	"slices"

	"github.com/arborcli/arbor/internal/log"
)

// Host resolves pull requests on the external code-review service.
// forge.GitHub implements it via the gh CLI.
type Host interface {
	// BranchForPR returns the head branch name of a pull request.
	BranchForPR(ctx context.Context, dir string, number int) (string, error)

	// PopulatePR checks the pull request's commits out onto the current
	// branch of the worktree at dir. Used when the head branch cannot be
	// fetched by name (e.g. a fork).
	PopulatePR(ctx context.Context, dir string, number int) error
}

// CheckoutPR materializes a worktree for the branch behind a pull request.
// Idempotent: an existing worktree for that branch is returned unchanged.
func (e *Engine) CheckoutPR(ctx context.Context, host Host, number int) (string, error) {
	l := log.FromContext(ctx)

	if number <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPR, number)
	}

	branch, err := host.BranchForPR(ctx, e.workDir, number)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if branch == "" {
		return "", fmt.Errorf("%w: no branch name for #%d", ErrLookupFailed, number)
	}
	l.Debug("pr checkout", "number", number, "branch", branch)

	wts, err := e.git.Worktrees(ctx)
	if err != nil {
		return "", err
	}
	for _, wt := range wts {
		if wt.Branch == branch {
			return wt.Path, nil
		}
	}

	if err := e.git.Fetch(ctx, false); err != nil {
		return "", err
	}

	// Decide before Add whether the branch exists anywhere: if it does
	// not, Add will create it unbound and empty, and the host has to
	// populate it directly (a fork's head branch is not fetchable by
	// name).
	locals, err := e.git.LocalBranches(ctx)
	if err != nil {
		return "", err
	}
	remotes, err := e.git.RemoteBranches(ctx)
	if err != nil {
		return "", err
	}
	known := slices.Contains(locals, branch) || slices.Contains(remotes, branch)

	path, err := e.Add(ctx, branch)
	if err != nil {
		return "", err
	}
	if !known {
		if err := host.PopulatePR(ctx, path, number); err != nil {
			return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
		}
	}
	return path, nil
}
