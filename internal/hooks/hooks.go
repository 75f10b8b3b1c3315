// Package hooks runs user-configured commands after lifecycle operations.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arborcli/arbor/internal/log"
)

// Context holds the values substituted into hook commands.
type Context struct {
	Path   string // absolute worktree path
	Branch string // branch name
}

// shellQuote escapes a string for safe use in shell commands. Single quotes
// preserve everything literally except single quotes themselves, which are
// closed, escaped and reopened.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Expand substitutes the {path} and {branch} placeholders, shell-quoted.
func Expand(command string, hctx Context) string {
	command = strings.ReplaceAll(command, "{path}", shellQuote(hctx.Path))
	command = strings.ReplaceAll(command, "{branch}", shellQuote(hctx.Branch))
	return command
}

// Run executes the hook command with the shell, with the worktree directory
// as working directory. Hook output goes straight to the terminal.
func Run(ctx context.Context, command string, hctx Context) error {
	expanded := Expand(command, hctx)
	log.FromContext(ctx).Command("sh", "-c", expanded)

	cmd := exec.CommandContext(ctx, "sh", "-c", expanded)
	cmd.Dir = hctx.Path
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("hook failed: %w", err)
	}
	return nil
}
