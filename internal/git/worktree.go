package git

import (
	"context"
	"fmt"
	"strings"
)

// Worktree is one entry of the repository's worktree registry.
type Worktree struct {
	Path     string
	Branch   string // empty for detached or bare entries
	Head     string
	Bare     bool
	Detached bool
}

// Worktrees lists the repository's worktree registry. The registry is
// re-read on every call; it is the source of truth for what exists.
func (c *Client) Worktrees(ctx context.Context) ([]Worktree, error) {
	out, err := outputGit(ctx, c.dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktrees(out), nil
}

// parseWorktrees parses `git worktree list --porcelain` output. Entries are
// blocks of attribute lines separated by blank lines:
//
//	worktree /path/to/checkout
//	HEAD abcdef...
//	branch refs/heads/main
func parseWorktrees(out []byte) []Worktree {
	var (
		wts []Worktree
		cur *Worktree
	)
	flush := func() {
		if cur != nil {
			wts = append(wts, *cur)
			cur = nil
		}
	}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case cur == nil:
			// attribute line without a worktree header; ignore
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			cur.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			cur.Bare = true
		case line == "detached":
			cur.Detached = true
		}
	}
	flush()
	return wts
}

// AddWorktree registers a worktree at path bound to an existing local
// branch.
func (c *Client) AddWorktree(ctx context.Context, path, branch string) error {
	if err := runGit(ctx, c.dir, "worktree", "add", path, branch); err != nil {
		return fmt.Errorf("add worktree for %s: %w", branch, err)
	}
	return nil
}

// AddWorktreeTrack registers a worktree at path on a new local branch
// tracking origin/<remoteBranch>.
func (c *Client) AddWorktreeTrack(ctx context.Context, path, branch, remoteBranch string) error {
	if err := runGit(ctx, c.dir, "worktree", "add", "--track", "-b", branch, path, "origin/"+remoteBranch); err != nil {
		return fmt.Errorf("add tracking worktree for %s: %w", branch, err)
	}
	return nil
}

// AddWorktreeNewBranch registers a worktree at path on a brand-new branch
// with no upstream.
func (c *Client) AddWorktreeNewBranch(ctx context.Context, path, branch string) error {
	if err := runGit(ctx, c.dir, "worktree", "add", "-b", branch, path); err != nil {
		return fmt.Errorf("add worktree with new branch %s: %w", branch, err)
	}
	return nil
}

// RemoveWorktree unregisters the worktree at path and deletes its directory.
func (c *Client) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, c.dir, args...); err != nil {
		return fmt.Errorf("remove worktree %s: %w", path, err)
	}
	return nil
}
