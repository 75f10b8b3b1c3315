package worktree

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine. Callers discriminate with errors.Is
// to decide exit-status mapping; none of these are retried.
var (
	// ErrAlreadyExists means the target directory exists, whether or not it
	// is a registered worktree.
	ErrAlreadyExists = errors.New("directory already exists")

	// ErrNotFound means no worktree is registered at the computed path.
	ErrNotFound = errors.New("no worktree for branch")

	// ErrBranchNotFound means the branch exists nowhere: no worktree, no
	// local branch, no remote branch.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrDirectoryMissing means the registry has an entry whose directory
	// is gone.
	ErrDirectoryMissing = errors.New("worktree directory is missing")

	// ErrNoDefaultBranch means neither main nor master (nor the remote's
	// advertised default, for prune) could be resolved.
	ErrNoDefaultBranch = errors.New("no default branch")

	// ErrSelectionCancelled means no branch was supplied and interactive
	// selection yielded nothing.
	ErrSelectionCancelled = errors.New("branch selection cancelled")

	// ErrInvalidPR means the pull request identifier is not well formed.
	ErrInvalidPR = errors.New("invalid pull request number")

	// ErrLookupFailed means the hosting service call failed or returned no
	// branch name.
	ErrLookupFailed = errors.New("pull request lookup failed")
)

// PartialPruneError reports that some, but not necessarily all, orphan
// removals failed. Prune is the only operation that continues past
// failures.
type PartialPruneError struct {
	Failed int
}

func (e *PartialPruneError) Error() string {
	return fmt.Sprintf("failed to remove %d worktree(s)", e.Failed)
}
