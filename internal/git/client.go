// Package git is the typed backend for the system git binary. It turns git's
// textual reports into structured records so the worktree policy engine never
// parses command output itself.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepository is returned when the working directory is not inside a
// git repository.
var ErrNotRepository = errors.New("not a git repository")

// CheckGit verifies the git binary is available.
func CheckGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is not installed or not in PATH")
	}
	return nil
}

// Client runs git commands against one repository. The zero value is not
// usable; construct with New.
type Client struct {
	dir string
}

// New creates a client operating on the repository containing dir.
func New(dir string) *Client {
	return &Client{dir: dir}
}

// Check verifies dir is inside a git repository.
func (c *Client) Check(ctx context.Context) error {
	if err := runGit(ctx, c.dir, "rev-parse", "--git-dir"); err != nil {
		return fmt.Errorf("%w: %s", ErrNotRepository, c.dir)
	}
	return nil
}

// RemoteURL returns the origin remote URL, or "" if no origin is configured.
func (c *Client) RemoteURL(ctx context.Context) string {
	out, err := outputGit(ctx, c.dir, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// CurrentWorktreeDir returns the top-level directory of the worktree
// containing the client's directory.
func (c *Client) CurrentWorktreeDir(ctx context.Context) (string, error) {
	out, err := outputGit(ctx, c.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, c.dir)
	}
	return strings.TrimSpace(string(out)), nil
}

// MainWorktreeDir returns the primary checkout's directory. Remote and
// branch configuration is shared repository-wide, so identity resolution
// always references the primary checkout, not the current worktree.
func (c *Client) MainWorktreeDir(ctx context.Context) (string, error) {
	wts, err := c.Worktrees(ctx)
	if err != nil {
		return "", err
	}
	if len(wts) == 0 {
		return "", fmt.Errorf("%w: no worktrees listed", ErrNotRepository)
	}
	// git lists the main worktree first.
	return wts[0].Path, nil
}

// LocalBranches returns all local branch names.
func (c *Client) LocalBranches(ctx context.Context) ([]string, error) {
	out, err := outputGit(ctx, c.dir, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("list local branches: %w", err)
	}
	return splitLines(out), nil
}

// RemoteBranches returns branch names on the origin remote, without the
// origin/ prefix. The symbolic origin/HEAD entry is skipped.
func (c *Client) RemoteBranches(ctx context.Context) ([]string, error) {
	out, err := outputGit(ctx, c.dir, "for-each-ref", "--format=%(refname:short)", "refs/remotes/origin")
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}
	var branches []string
	for _, ref := range splitLines(out) {
		name := strings.TrimPrefix(ref, "origin/")
		if name == "HEAD" || name == ref {
			continue
		}
		branches = append(branches, name)
	}
	return branches, nil
}

// BranchUpstream returns the configured upstream ref of a local branch, or
// "" when none was ever configured. The configuration survives deletion of
// the remote branch, which is exactly what makes it usable as an
// "ever had an upstream" signal.
func (c *Client) BranchUpstream(ctx context.Context, branch string) string {
	out, err := outputGit(ctx, c.dir, "config", "--get", "branch."+branch+".merge")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// MergedBranches returns the local branches already merged into the given
// ref.
func (c *Client) MergedBranches(ctx context.Context, into string) ([]string, error) {
	out, err := outputGit(ctx, c.dir, "branch", "--merged", into, "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("list merged branches: %w", err)
	}
	return splitLines(out), nil
}

// Fetch fetches from origin. With prune enabled, stale remote-tracking refs
// are removed first.
func (c *Client) Fetch(ctx context.Context, prune bool) error {
	args := []string{"fetch", "origin", "--quiet"}
	if prune {
		args = append(args, "--prune")
	}
	if err := runGit(ctx, c.dir, args...); err != nil {
		return fmt.Errorf("fetch origin: %w", err)
	}
	return nil
}

// RemoteDefaultBranch returns the branch origin advertises as HEAD, or ""
// if it cannot be determined.
func (c *Client) RemoteDefaultBranch(ctx context.Context) string {
	out, err := outputGit(ctx, c.dir, "symbolic-ref", "refs/remotes/origin/HEAD")
	if err == nil {
		ref := strings.TrimSpace(string(out))
		if i := strings.LastIndex(ref, "/"); i >= 0 {
			return ref[i+1:]
		}
	}
	// origin/HEAD is only set by clone; fall back to asking the remote.
	out, err = outputGit(ctx, c.dir, "ls-remote", "--symref", "origin", "HEAD")
	if err != nil {
		return ""
	}
	for _, line := range splitLines(out) {
		if rest, ok := strings.CutPrefix(line, "ref: refs/heads/"); ok {
			if i := strings.IndexAny(rest, " \t"); i >= 0 {
				rest = rest[:i]
			}
			return rest
		}
	}
	return ""
}

// SwitchBranch checks out branch in the worktree at dir. Relies on git's
// checkout guessing: a branch that only exists on origin gets a local
// tracking branch created.
func (c *Client) SwitchBranch(ctx context.Context, dir, branch string) error {
	if err := runGit(ctx, dir, "switch", branch); err != nil {
		return fmt.Errorf("switch to %s: %w", branch, err)
	}
	return nil
}

// splitLines splits output into trimmed non-empty lines.
func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}