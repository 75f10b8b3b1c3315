// Package forge talks to the code-hosting service through its CLI. Only
// GitHub (via gh) is implemented; the worktree.Host interface keeps the
// seam for others.
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/arborcli/arbor/internal/cmdutil"
)

// GitHub resolves pull requests with the gh CLI.
type GitHub struct{}

// Check verifies the gh CLI is installed.
func (GitHub) Check(_ context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh is not installed or not in PATH (https://cli.github.com)")
	}
	return nil
}

// BranchForPR returns the head branch name of a pull request.
func (GitHub) BranchForPR(ctx context.Context, dir string, number int) (string, error) {
	out, err := cmdutil.Output(ctx, dir, "gh", "pr", "view", strconv.Itoa(number), "--json", "headRefName")
	if err != nil {
		return "", fmt.Errorf("gh pr view: %w", err)
	}
	return parsePRBranch(out)
}

// PopulatePR checks the pull request out inside the worktree at dir, used
// when the head branch is not fetchable by name (fork PRs).
func (GitHub) PopulatePR(ctx context.Context, dir string, number int) error {
	if err := cmdutil.Run(ctx, dir, "gh", "pr", "checkout", strconv.Itoa(number)); err != nil {
		return fmt.Errorf("gh pr checkout: %w", err)
	}
	return nil
}

func parsePRBranch(out []byte) (string, error) {
	var v struct {
		HeadRefName string `json:"headRefName"`
	}
	if err := json.Unmarshal(out, &v); err != nil {
		return "", fmt.Errorf("parse gh output: %w", err)
	}
	return v.HeadRefName, nil
}
