package worktree

import (
	"context"
	"fmt"
	"slices"

	"github.com/arborcli/arbor/internal/log"
)

// Candidate is a worktree judged safe to discard. Merged and UpstreamGone
// record which conditions applied; they are alternative triggers with no
// precedence, and both may hold at once.
type Candidate struct {
	Branch       string
	Path         string
	Merged       bool
	UpstreamGone bool
}

// Reason describes why a candidate was selected, for display.
func (c Candidate) Reason() string {
	switch {
	case c.Merged && c.UpstreamGone:
		return "merged, upstream gone"
	case c.Merged:
		return "merged"
	default:
		return "upstream gone"
	}
}

// Candidates fetches from origin (pruning stale remote-tracking refs) and
// classifies every worktree-bound branch. A branch is a candidate if it is
// merged into the default branch, or if its remote counterpart is gone and
// it once had a configured upstream. Branches that never had an upstream
// are left alone: they may be deliberately local-only work. The default
// branch itself is never a candidate.
func (e *Engine) Candidates(ctx context.Context) ([]Candidate, string, error) {
	if err := e.git.Fetch(ctx, true); err != nil {
		return nil, "", err
	}

	locals, err := e.git.LocalBranches(ctx)
	if err != nil {
		return nil, "", err
	}
	defaultBranch, mergeRef, err := e.defaultBranch(ctx, locals)
	if err != nil {
		return nil, "", err
	}

	merged, err := e.git.MergedBranches(ctx, mergeRef)
	if err != nil {
		return nil, "", err
	}
	remotes, err := e.git.RemoteBranches(ctx)
	if err != nil {
		return nil, "", err
	}

	wts, err := e.git.Worktrees(ctx)
	if err != nil {
		return nil, "", err
	}

	var candidates []Candidate
	for _, wt := range wts {
		if wt.Branch == "" || wt.Branch == defaultBranch {
			continue
		}
		c := Candidate{
			Branch: wt.Branch,
			Path:   wt.Path,
			Merged: slices.Contains(merged, wt.Branch),
		}
		if !slices.Contains(remotes, wt.Branch) && e.git.BranchUpstream(ctx, wt.Branch) != "" {
			c.UpstreamGone = true
		}
		if c.Merged || c.UpstreamGone {
			candidates = append(candidates, c)
		}
	}
	return candidates, defaultBranch, nil
}

// defaultBranch resolves the mainline: local main, else local master, else
// the remote's advertised default. mergeRef is the ref merge status is
// computed against (origin/<branch> when the default only exists remotely).
func (e *Engine) defaultBranch(ctx context.Context, locals []string) (name, mergeRef string, err error) {
	for _, b := range []string{"main", "master"} {
		if slices.Contains(locals, b) {
			return b, b, nil
		}
	}
	if b := e.git.RemoteDefaultBranch(ctx); b != "" {
		return b, "origin/" + b, nil
	}
	return "", "", fmt.Errorf("%w: no local main or master, and origin advertises none", ErrNoDefaultBranch)
}

// Reconcile synchronizes with the remote and batch-retires orphan
// worktrees. The candidate set is passed to confirm before anything is
// removed; a declined confirmation aborts with zero removals and no error.
// Individual removal failures are logged, counted and skipped, never fatal
// to the batch: the returned error is a *PartialPruneError when any
// removal failed, alongside the count of worktrees actually removed.
func (e *Engine) Reconcile(ctx context.Context, confirm func([]Candidate) bool) (int, error) {
	l := log.FromContext(ctx)

	candidates, defaultBranch, err := e.Candidates(ctx)
	if err != nil {
		return 0, err
	}
	l.Debug("reconcile", "default", defaultBranch, "candidates", len(candidates))

	if len(candidates) == 0 {
		return 0, nil
	}
	if !confirm(candidates) {
		return 0, nil
	}

	removed, failed := 0, 0
	for _, c := range candidates {
		if err := e.git.RemoveWorktree(ctx, c.Path, false); err != nil {
			l.Warnf("skipping %s: %v\n", c.Branch, err)
			failed++
			continue
		}
		l.Printf("Removed %s (%s)\n", c.Branch, c.Reason())
		removed++
	}
	if failed > 0 {
		return removed, &PartialPruneError{Failed: failed}
	}
	return removed, nil
}
